package attr_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdzio/go-gbwmi/attr"
	"github.com/mdzio/go-gbwmi/wmi"
	"github.com/mdzio/go-gbwmi/wmi/wmitest"
)

func TestReadWrite(t *testing.T) {
	tr := wmitest.NewEcho()
	s := attr.Gigabyte(wmi.NewDevice(tr))
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, attr.FanControl, "cpu_fan_duty", "55\n"))
	v, err := s.Read(ctx, attr.FanControl, "cpu_fan_duty")
	require.NoError(t, err)
	assert.Equal(t, "55\n", v)

	calls := tr.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, wmi.SetGUID, calls[0].GUID)
	assert.Equal(t, uint32(70), calls[0].Method)
	assert.Equal(t, []byte{55, 0, 0, 0}, calls[0].Input)
	assert.Equal(t, wmi.GetGUID, calls[1].GUID)
	assert.Empty(t, calls[1].Input)

	// u16 attribute
	require.NoError(t, s.Write(ctx, attr.FanControl, "fixed_fan_speed", "4660"))
	v, err = s.Read(ctx, attr.FanControl, "fixed_fan_speed")
	require.NoError(t, err)
	assert.Equal(t, "4660\n", v)

	// u8 attribute reads back truncated to its element size
	require.NoError(t, s.Write(ctx, attr.GPU, "nv_thermal_target", "300"))
	v, err = s.Read(ctx, attr.GPU, "nv_thermal_target")
	require.NoError(t, err)
	assert.Equal(t, "44\n", v)
}

func TestWriteInvalid(t *testing.T) {
	tr := wmitest.NewEcho()
	s := attr.Gigabyte(wmi.NewDevice(tr))
	ctx := context.Background()

	cases := []struct {
		text string
		err  string
	}{
		{"", `Invalid input (set method 70): Invalid value for cpu_fan_duty: ""`},
		{"abc", `Invalid input (set method 70): Invalid value for cpu_fan_duty: "abc"`},
		{"-1", `Invalid input (set method 70): Invalid value for cpu_fan_duty: "-1"`},
		{"0x10", `Invalid input (set method 70): Invalid value for cpu_fan_duty: "0x10"`},
		{"12\n\n", `Invalid input (set method 70): Invalid value for cpu_fan_duty: "12\n"`},
		{"4294967296", `Invalid input (set method 70): Value out of range for cpu_fan_duty: "4294967296"`},
	}
	for _, c := range cases {
		err := s.Write(ctx, attr.FanControl, "cpu_fan_duty", c.text)
		if assert.Error(t, err, c.text) {
			assert.ErrorIs(t, err, wmi.ErrInvalidInput)
			assert.Equal(t, c.err, err.Error())
		}
	}
	assert.Empty(t, tr.Calls())

	// max value is accepted
	require.NoError(t, s.Write(ctx, attr.FanControl, "cpu_fan_duty", "4294967295"))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, tr.Calls()[0].Input)
}

func TestAccessRights(t *testing.T) {
	tr := wmitest.NewEcho()
	s := attr.Gigabyte(wmi.NewDevice(tr))
	ctx := context.Background()

	_, err := s.Read(ctx, attr.FanControl, "current_fan_step")
	assert.ErrorIs(t, err, attr.ErrNotReadable)
	err = s.Write(ctx, attr.Sensors, "gpu_temp1", "1")
	assert.ErrorIs(t, err, attr.ErrNotWritable)
	err = s.Write(ctx, attr.Battery, "battery_health", "1")
	assert.ErrorIs(t, err, attr.ErrNotWritable)

	_, err = s.Read(ctx, "fan", "cpu_fan_duty")
	assert.ErrorIs(t, err, attr.ErrUnknownAttribute)
	err = s.Write(ctx, attr.FanControl, "cpu_fan", "1")
	assert.ErrorIs(t, err, attr.ErrUnknownAttribute)
	assert.Empty(t, tr.Calls())

	// write only attribute
	require.NoError(t, s.Write(ctx, attr.FanControl, "current_fan_step", "3"))
	calls := tr.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, uint32(102), calls[0].Method)
}

func TestInverted(t *testing.T) {
	cases := []struct {
		raw  uint64
		text string
	}{
		{0, "1\n"},
		{1, "0\n"},
		{5, "0\n"},
	}
	for _, c := range cases {
		tr := &wmitest.Transport{
			Respond: func(wmitest.Call) (*wmi.Result, error) {
				return wmitest.Integer(c.raw), nil
			},
		}
		d := wmi.NewDevice(tr)
		s := attr.Gigabyte(d)
		v, err := s.Read(context.Background(), attr.Performance, "dynamic_boost_status")
		require.NoError(t, err)
		assert.Equal(t, c.text, v)

		// the device itself reports the raw value
		raw, err := d.GetValue(wmi.DynamicBoost, nil)
		require.NoError(t, err)
		assert.Equal(t, c.raw, raw)
	}
}

func TestReadThroughSetFamily(t *testing.T) {
	tr := &wmitest.Transport{
		Respond: func(c wmitest.Call) (*wmi.Result, error) {
			if c.GUID != wmi.SetGUID {
				return nil, errors.New("Unexpected family")
			}
			switch c.Method {
			case 72:
				return wmitest.Integer(0x100000137), nil
			case 97:
				return wmitest.Integer(96), nil
			}
			return nil, nil
		},
	}
	s := attr.Gigabyte(wmi.NewDevice(tr))
	ctx := context.Background()

	v, err := s.Read(ctx, attr.Battery, "battery_cycle_count")
	require.NoError(t, err)
	assert.Equal(t, "311\n", v)
	v, err = s.Read(ctx, attr.Battery, "battery_health")
	require.NoError(t, err)
	assert.Equal(t, "96\n", v)

	for _, c := range tr.Calls() {
		assert.Equal(t, wmi.SetGUID, c.GUID)
		assert.Empty(t, c.Input)
	}
	assert.Zero(t, tr.Outstanding())
}

func TestReadThroughSetFamilyNoInteger(t *testing.T) {
	tr := &wmitest.Transport{
		Respond: func(wmitest.Call) (*wmi.Result, error) {
			return wmitest.Buffer(1, 2, 3), nil
		},
	}
	s := attr.Gigabyte(wmi.NewDevice(tr))
	_, err := s.Read(context.Background(), attr.Battery, "battery_cycle_count")
	assert.ErrorIs(t, err, wmi.ErrTransport)
	assert.Zero(t, tr.Outstanding())
}

func TestReadUnsupported(t *testing.T) {
	tr := &wmitest.Transport{
		Respond: func(wmitest.Call) (*wmi.Result, error) {
			return wmitest.Buffer(), nil
		},
	}
	s := attr.Gigabyte(wmi.NewDevice(tr))
	_, err := s.Read(context.Background(), attr.Sensors, "gpu_temp2")
	assert.ErrorIs(t, err, wmi.ErrUnsupported)
	assert.Contains(t, err.Error(), "Reading sensors/gpu_temp2 failed")
}

func TestReadGroup(t *testing.T) {
	tr := &wmitest.Transport{
		Respond: func(c wmitest.Call) (*wmi.Result, error) {
			return wmitest.Integer(uint64(c.Method)), nil
		},
	}
	s := attr.Gigabyte(wmi.NewDevice(tr))
	vs, err := s.ReadGroup(context.Background(), attr.Sensors)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"gpu_temp1": 226, "gpu_temp2": 227}, vs)

	// write only attributes are skipped
	vs, err = s.ReadGroup(context.Background(), attr.FanControl)
	require.NoError(t, err)
	assert.Len(t, vs, 6)
	assert.NotContains(t, vs, "current_fan_step")

	_, err = s.ReadGroup(context.Background(), "unknown")
	assert.ErrorIs(t, err, attr.ErrUnknownAttribute)
}

func TestGigabyteTable(t *testing.T) {
	s := attr.Gigabyte(wmi.NewDevice(&wmitest.Transport{}))
	var names []string
	for _, g := range s.Groups() {
		names = append(names, g.Name)
		for _, a := range g.Attributes {
			// every readable get attribute has a registered shape
			if a.Readable() && a.ReadFamily != wmi.FamilySet {
				_, ok := wmi.DefaultRegistry.Shape(wmi.FamilyGet, a.Method)
				assert.True(t, ok, a.Name)
			}
		}
	}
	assert.Equal(t, []string{"fan_control", "battery", "performance", "sensors", "gpu"}, names)
}

func TestParsePath(t *testing.T) {
	g, n, err := attr.ParsePath("fan_control/cpu_fan_duty")
	require.NoError(t, err)
	assert.Equal(t, "fan_control", g)
	assert.Equal(t, "cpu_fan_duty", n)

	for _, p := range []string{"", "fan_control", "/x", "x/", "a/b/c"} {
		_, _, err := attr.ParsePath(p)
		assert.Error(t, err, p)
	}
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "r", attr.OpRead.String())
	assert.Equal(t, "w", attr.OpWrite.String())
	assert.Equal(t, "rw", (attr.OpRead | attr.OpWrite).String())
}
