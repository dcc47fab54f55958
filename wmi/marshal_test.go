package wmi_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdzio/go-gbwmi/wmi"
	"github.com/mdzio/go-gbwmi/wmi/wmitest"
)

func TestGetRejectsInvalidBuffers(t *testing.T) {
	tr := &wmitest.Transport{}
	d := wmi.NewDevice(tr)

	// DeepFan needs 10 bytes
	err := d.Get(wmi.DeepFan, nil, make([]byte, 9))
	assert.ErrorIs(t, err, wmi.ErrInvalidInput)
	assert.Equal(t, "Invalid input (get method 96): Output buffer is too small: 9 bytes, 10 required", err.Error())

	err = d.Get(wmi.CPUFanDuty, nil, nil)
	assert.ErrorIs(t, err, wmi.ErrInvalidInput)
	err = d.Get(wmi.CPUFanDuty, nil, []byte{})
	assert.ErrorIs(t, err, wmi.ErrInvalidInput)

	// not registered
	err = d.Get(0, nil, make([]byte, 8))
	assert.ErrorIs(t, err, wmi.ErrInvalidInput)
	_, err = d.GetValue(0, nil)
	assert.ErrorIs(t, err, wmi.ErrInvalidInput)

	assert.Empty(t, tr.Calls())
	assert.Zero(t, tr.Allocated())

	// exact size is fine
	require.NoError(t, d.Get(wmi.DeepFan, nil, make([]byte, 10)))
	require.NoError(t, d.Get(wmi.CPUFanDuty, nil, make([]byte, 1)))
	assert.Len(t, tr.Calls(), 2)
}

func TestGetMasksToElementSize(t *testing.T) {
	reg := wmi.MustRegistry(
		wmi.GetEntry(1, 1, 1),
		wmi.GetEntry(2, 1, 2),
		wmi.GetEntry(4, 1, 4),
		wmi.GetEntry(8, 1, 8),
		wmi.GetEntry(10, 3, 1),
	)
	tr := &wmitest.Transport{
		Respond: func(c wmitest.Call) (*wmi.Result, error) {
			return wmitest.Integer(0x1122334455667788), nil
		},
	}
	d := wmi.NewDevice(tr, wmi.WithRegistry(reg))

	cases := []struct {
		method wmi.MethodID
		value  uint64
		out    []byte
	}{
		{1, 0x88, []byte{0x88, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa}},
		{2, 0x7788, []byte{0x88, 0x77, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa}},
		{4, 0x55667788, []byte{0x88, 0x77, 0x66, 0x55, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa}},
		{8, 0x1122334455667788, []byte{0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11, 0xaa}},
		// only the first element is decoded
		{10, 0x88, []byte{0x88, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa}},
	}
	for _, c := range cases {
		out := []byte{0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa}
		err := d.Get(c.method, nil, out)
		if assert.NoError(t, err) {
			assert.Equal(t, c.out, out, "method %d", c.method)
		}
		v, err := d.GetValue(c.method, nil)
		if assert.NoError(t, err) {
			assert.Equal(t, c.value, v, "method %d", c.method)
		}
	}
	assert.Zero(t, tr.Outstanding())
}

func TestGetResultKinds(t *testing.T) {
	cause := errors.New("AE_NOT_FOUND")
	cases := []struct {
		name        string
		res         *wmi.Result
		err         error
		unsupported bool
	}{
		{"no object", nil, nil, false},
		{"empty buffer", wmitest.Buffer(), nil, true},
		{"filled buffer", wmitest.Buffer(1, 2), nil, false},
		{"string", wmitest.String("x"), nil, false},
		{"package", &wmi.Result{Type: wmi.ResultPackage}, nil, false},
		{"failed", nil, cause, false},
		{"failed with result", wmitest.Integer(5), cause, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := &wmitest.Transport{
				Respond: func(wmitest.Call) (*wmi.Result, error) {
					return c.res, c.err
				},
			}
			d := wmi.NewDevice(tr)
			out := []byte{0xaa}
			err := d.Get(wmi.CPUFanDuty, nil, out)
			assert.ErrorIs(t, err, wmi.ErrTransport)
			assert.False(t, errors.Is(err, wmi.ErrInvalidInput))
			assert.Equal(t, c.unsupported, errors.Is(err, wmi.ErrUnsupported))
			if c.err != nil {
				assert.ErrorIs(t, err, cause)
			}
			var ce *wmi.CallError
			if assert.ErrorAs(t, err, &ce) {
				assert.Equal(t, wmi.FamilyGet, ce.Family)
				assert.Equal(t, wmi.CPUFanDuty, ce.Method)
			}
			// out untouched on failure
			assert.Equal(t, []byte{0xaa}, out)
			assert.Zero(t, tr.Outstanding())
		})
	}
}

func TestSet(t *testing.T) {
	cause := errors.New("AE_AML_BUFFER_LIMIT")
	cases := []struct {
		name  string
		res   *wmi.Result
		err   error
		value uint64
		ok    bool
	}{
		{"integer", wmitest.Integer(312), nil, 312, true},
		{"no object", nil, nil, 0, false},
		{"buffer", wmitest.Buffer(1), nil, 0, false},
		{"failed", wmitest.Integer(1), cause, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := &wmitest.Transport{
				Respond: func(wmitest.Call) (*wmi.Result, error) {
					return c.res, c.err
				},
			}
			d := wmi.NewDevice(tr)
			v, ok, err := d.Set(wmi.BatteryCount, nil)
			if c.err != nil {
				assert.ErrorIs(t, err, wmi.ErrTransport)
				assert.ErrorIs(t, err, cause)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, c.value, v)
			assert.Equal(t, c.ok, ok)
			assert.Zero(t, tr.Outstanding())

			calls := tr.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, wmi.SetGUID, calls[0].GUID)
			assert.Equal(t, uint32(72), calls[0].Method)
			assert.Empty(t, calls[0].Input)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tr := wmitest.NewEcho()
	d := wmi.NewDevice(tr)

	_, ok, err := d.Set(wmi.CPUFanDuty, []byte{55})
	require.NoError(t, err)
	assert.False(t, ok)

	out := make([]byte, 1)
	require.NoError(t, d.Get(wmi.CPUFanDuty, nil, out))
	assert.Equal(t, byte(55), out[0])

	calls := tr.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, wmi.SetGUID, calls[0].GUID)
	assert.Equal(t, []byte{55}, calls[0].Input)
	assert.Equal(t, wmi.GetGUID, calls[1].GUID)
	assert.Equal(t, uint32(70), calls[1].Method)
	assert.Zero(t, tr.Outstanding())
}

func TestInterfaces(t *testing.T) {
	get := uuid.MustParse("5fb7f034-2c63-45e9-be91-3d44e2c707e4")
	set := uuid.MustParse("05901221-d566-11d1-b2f0-00a0c9062910")
	tr := &wmitest.Transport{}
	d := wmi.NewDevice(tr, wmi.WithInterfaces(get, set))
	assert.Equal(t, get, d.Interface(wmi.FamilyGet))
	assert.Equal(t, set, d.Interface(wmi.FamilySet))
	assert.Same(t, wmi.DefaultRegistry, d.Registry())

	_, err := d.GetValue(wmi.CPUTemp, []byte{1, 2})
	require.NoError(t, err)
	_, _, err = d.Set(wmi.CPUFanDuty, []byte{3})
	require.NoError(t, err)

	calls := tr.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, get, calls[0].GUID)
	assert.Equal(t, []byte{1, 2}, calls[0].Input)
	assert.Equal(t, set, calls[1].GUID)
}

func TestSameFamilySerialized(t *testing.T) {
	tr := &wmitest.Transport{Delay: 2 * time.Millisecond}
	d := wmi.NewDevice(tr)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := d.GetValue(wmi.CPUTemp, nil)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, _, err := d.Set(wmi.CPUFanDuty, []byte{1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, tr.MaxConcurrent(wmi.GetGUID))
	assert.Equal(t, 1, tr.MaxConcurrent(wmi.SetGUID))
	assert.Len(t, tr.Calls(), 16)
	assert.Zero(t, tr.Outstanding())
}

func TestFamiliesOverlap(t *testing.T) {
	getIn, setIn := make(chan struct{}), make(chan struct{})
	tr := &wmitest.Transport{
		Respond: func(c wmitest.Call) (*wmi.Result, error) {
			mine, other := getIn, setIn
			if c.GUID == wmi.SetGUID {
				mine, other = setIn, getIn
			}
			close(mine)
			select {
			case <-other:
			case <-time.After(time.Second):
				return nil, errors.New("Families did not overlap")
			}
			return wmitest.Integer(1), nil
		},
	}
	d := wmi.NewDevice(tr)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := d.GetValue(wmi.CPUFanDuty, nil)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, _, err := d.Set(wmi.CPUFanDuty, []byte{1})
		assert.NoError(t, err)
	}()
	wg.Wait()
	assert.True(t, tr.Overlapped())
}

func TestContextAbandon(t *testing.T) {
	gate := make(chan struct{})
	tr := &wmitest.Transport{Gate: gate}
	d := wmi.NewDevice(tr)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := d.GetValueContext(ctx, wmi.CPUTemp, nil)
	assert.ErrorIs(t, err, wmi.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// abandoned call still holds the get family
	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	err = d.GetContext(ctx2, wmi.CPUTemp, nil, make([]byte, 2))
	assert.ErrorIs(t, err, wmi.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, tr.Calls(), 1)

	close(gate)

	_, err = d.GetValue(wmi.CPUTemp, nil)
	assert.NoError(t, err)
	assert.Eventually(t, func() bool { return tr.Outstanding() == 0 }, time.Second, 5*time.Millisecond)
	assert.Len(t, tr.Calls(), 2)
}

func TestContextCancelledBeforeCall(t *testing.T) {
	tr := &wmitest.Transport{}
	d := wmi.NewDevice(tr)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := d.SetContext(ctx, wmi.CPUFanDuty, []byte{1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, wmi.ErrTransport)
	assert.Empty(t, tr.Calls())
}

func TestContextCompletes(t *testing.T) {
	tr := &wmitest.Transport{
		Respond: func(wmitest.Call) (*wmi.Result, error) {
			return wmitest.Integer(0x1234), nil
		},
	}
	d := wmi.NewDevice(tr)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out := make([]byte, 2)
	require.NoError(t, d.GetContext(ctx, wmi.CPUTemp, nil, out))
	assert.Equal(t, []byte{0x34, 0x12}, out)
	v, ok, err := d.SetContext(ctx, wmi.BatteryHealth, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(0x1234), v)
	assert.Zero(t, tr.Outstanding())
}

func TestDryTransport(t *testing.T) {
	d := wmi.NewDevice(&wmi.DryTransport{Value: 0x1ff})
	v, err := d.GetValue(wmi.CPUFanDuty, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xff), v)

	v, ok, err := d.Set(wmi.CPUFanDuty, []byte{1})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(0x1ff), v)
}
