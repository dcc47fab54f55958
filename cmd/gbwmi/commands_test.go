package main

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mdzio/go-lib/testutil"

	"github.com/mdzio/go-gbwmi/attr"
	"github.com/mdzio/go-gbwmi/service"
	"github.com/mdzio/go-gbwmi/wmi"
	"github.com/mdzio/go-gbwmi/wmi/wmitest"
)

func newLocal(tr wmi.Transport) (*commander, *bytes.Buffer) {
	dev := wmi.NewDevice(tr)
	out := &bytes.Buffer{}
	return &commander{
		backend: &localBackend{surface: attr.Gigabyte(dev), callTimeout: time.Second},
		device:  dev,
		out:     out,
	}, out
}

func TestCommandReadWrite(t *testing.T) {
	c, out := newLocal(wmitest.NewEcho())

	require.NoError(t, c.exec([]string{"write", "fan_control/cpu_fan_duty", "55"}))
	require.NoError(t, c.exec([]string{"read", "fan_control/cpu_fan_duty"}))
	assert.Equal(t, "55\n", out.String())

	out.Reset()
	require.NoError(t, c.exec([]string{"group", "sensors"}))
	assert.Equal(t, "gpu_temp1=0\ngpu_temp2=0\n", out.String())

	assert.Error(t, c.exec([]string{"write", "fan_control/cpu_fan_duty", "abc"}))
	assert.ErrorIs(t, c.exec([]string{"read", "fan_control/unknown"}), attr.ErrUnknownAttribute)
	assert.Error(t, c.exec([]string{"read", "cpu_fan_duty"}))
}

func TestCommandUsage(t *testing.T) {
	c, out := newLocal(wmitest.NewEcho())

	assert.Equal(t, errUsage, c.exec(nil))
	assert.Equal(t, errUsage, c.exec([]string{"read"}))
	assert.Equal(t, errUsage, c.exec([]string{"write", "a/b"}))
	assert.Equal(t, errUsage, c.exec([]string{"set"}))
	assert.EqualError(t, c.exec([]string{"frobnicate"}), "Unknown command: frobnicate")

	require.NoError(t, c.exec([]string{"help"}))
	assert.Equal(t, commandHelp, out.String())
}

func TestCommandList(t *testing.T) {
	c, out := newLocal(wmitest.NewEcho())

	require.NoError(t, c.exec([]string{"list"}))
	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 15)
	assert.Regexp(t, `^fan_control/cpu_fan_duty\s+rw$`, string(lines[0]))
	assert.Regexp(t, `^fan_control/current_fan_step\s+w$`, string(lines[2]))
}

func TestCommandRaw(t *testing.T) {
	tr := wmitest.NewEcho()
	c, out := newLocal(tr)

	require.NoError(t, c.exec([]string{"set", "0x46", "1234"}))
	assert.Empty(t, out.String())
	require.NoError(t, c.exec([]string{"get", "70"}))
	// cpu fan duty is a single byte
	assert.Equal(t, "210\n", out.String())

	calls := tr.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []byte{0xd2, 0x04, 0, 0}, calls[0].Input)

	// unregistered get methods are rejected locally
	assert.ErrorIs(t, c.exec([]string{"get", "1"}), wmi.ErrInvalidInput)
	assert.ErrorIs(t, c.exec([]string{"set", "70", "x"}), wmi.ErrInvalidInput)
	assert.EqualError(t, c.exec([]string{"get", "abc"}), "Invalid method ID: abc")
	assert.Len(t, tr.Calls(), 2)

	// set methods returning an integer print it
	out.Reset()
	c, out = newLocal(&wmitest.Transport{
		Respond: func(wmitest.Call) (*wmi.Result, error) { return wmitest.Integer(7), nil },
	})
	require.NoError(t, c.exec([]string{"set", "72"}))
	assert.Equal(t, "7\n", out.String())

	// not available remotely
	c.device = nil
	assert.Error(t, c.exec([]string{"get", "70"}))
}

func TestFormatParamset(t *testing.T) {
	ps := map[string]string{"b": "2", "a": "1"}
	assert.Equal(t, "a=1 b=2 ", formatParamset(ps, " "))
	assert.Equal(t, "", formatParamset(nil, "\n"))
}

type countingBackend struct {
	mu    sync.Mutex
	reads int
}

func (b *countingBackend) ListAttributes() ([]*service.AttributeDescription, error) {
	return nil, nil
}

func (b *countingBackend) GetValue(group, name string) (string, error) {
	return "", errors.New("not implemented")
}

func (b *countingBackend) SetValue(group, name, text string) error {
	return errors.New("not implemented")
}

func (b *countingBackend) GetParamset(group string) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reads++
	return map[string]string{"gpu_temp1": "42"}, nil
}

func (b *countingBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}

func TestWatch(t *testing.T) {
	b := &countingBackend{}
	stop := watch(b, attr.Sensors, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	stop()
	n := b.count()
	assert.GreaterOrEqual(t, n, 2)

	// no further reads after stop
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, b.count(), n+1)
}
