package attr

import (
	"github.com/mdzio/go-gbwmi/wmi"
)

// Group names of the Gigabyte attribute surface.
const (
	FanControl  = "fan_control"
	Battery     = "battery"
	Performance = "performance"
	Sensors     = "sensors"
	GPU         = "gpu"
)

const rw = OpRead | OpWrite

// GigabyteGroups creates the attribute groups of the Gigabyte laptops.
func GigabyteGroups() []*Group {
	return []*Group{
		{
			Name: FanControl,
			Attributes: []*Attribute{
				{Name: "cpu_fan_duty", Label: "CPUFanDuty", Method: wmi.CPUFanDuty, Operations: rw},
				{Name: "gpu_fan_duty", Label: "GPUFanDuty", Method: wmi.GPUFanDuty, Operations: rw},
				{Name: "current_fan_step", Label: "CurrentFanStepData", Method: wmi.FanStep, Operations: OpWrite},
				{Name: "fixed_fan_status", Label: "FixedFanStatus", Method: wmi.FixedFanStatus, Operations: rw},
				{Name: "step_fan_status", Label: "StepFanStatus", Method: wmi.StepFanStatus, Operations: rw},
				{Name: "fixed_fan_speed", Label: "FanFixedSpeed", Method: wmi.FixedFanSpeed, Operations: rw},
				{Name: "auto_fan_status", Label: "AutoFanStatus", Method: wmi.AutoFanStatus, Operations: rw},
			},
		},
		{
			Name: Battery,
			Attributes: []*Attribute{
				{Name: "battery_cycle_count", Label: "BatteryCount", Method: wmi.BatteryCount, Operations: OpRead, ReadFamily: wmi.FamilySet},
				{Name: "battery_health", Label: "BatteryHealth", Method: wmi.BatteryHealth, Operations: OpRead, ReadFamily: wmi.FamilySet},
			},
		},
		{
			Name: Performance,
			Attributes: []*Attribute{
				{Name: "dynamic_boost_status", Label: "DynamicBoostStatus", Method: wmi.DynamicBoost, Operations: rw, Inverted: true},
				{Name: "whisper_mode", Label: "WhisperMode", Method: wmi.WhisperMode, Operations: rw},
			},
		},
		{
			Name: Sensors,
			Attributes: []*Attribute{
				{Name: "gpu_temp1", Label: "GpuTemperature1", Method: wmi.GPUTemp1, Operations: OpRead},
				{Name: "gpu_temp2", Label: "GpuTemperature2", Method: wmi.GPUTemp2, Operations: OpRead},
			},
		},
		{
			Name: GPU,
			Attributes: []*Attribute{
				{Name: "nv_power_config", Label: "NvPowerConfig", Method: wmi.NvPowerConfig, Operations: rw},
				{Name: "nv_thermal_target", Label: "NvThermalTarget", Method: wmi.NvThermalTarget, Operations: rw},
			},
		},
	}
}

// Gigabyte creates the attribute surface of the Gigabyte laptops.
func Gigabyte(d *wmi.Device) *Surface {
	return NewSurface(d, GigabyteGroups()...)
}
