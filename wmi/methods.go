package wmi

// Method IDs of the Gigabyte WMI interface. Some IDs are used by both call
// families for unrelated operations (e.g. 88, 245, 254); the comment states
// which family implements the operation.
const (
	// fan control
	CPUFanDuty      MethodID = 70  // get & set
	GPUFanDuty      MethodID = 71  // get & set
	DeepFan         MethodID = 96  // get & set
	FanHealth       MethodID = 98  // get
	FanStep         MethodID = 102 // set
	StepFanStatus   MethodID = 103 // get & set
	FanIndexValue   MethodID = 104 // get & set
	FixedFanStatus  MethodID = 106 // get & set
	FixedFanSpeed   MethodID = 107 // get & set
	FanPWMStatus    MethodID = 111 // get
	FanAdjustStatus MethodID = 112 // get & set
	AutoFanStatus   MethodID = 113 // get & set
	TurnOffFan      MethodID = 117 // set
	FanSpeed        MethodID = 125 // get & set

	// power and battery, BatteryCount and BatteryHealth are only readable
	// through the set family
	BatteryCount     MethodID = 72  // get
	MaxCharge        MethodID = 73  // get & set
	BatteryHealth    MethodID = 97  // get
	ChargePolicy     MethodID = 100 // get & set
	ChargeStop       MethodID = 101 // get & set
	BatteryCycles1   MethodID = 109 // get
	BatteryCycles    MethodID = 110 // get
	ChargeMode       MethodID = 128 // set
	SmartCharge      MethodID = 208 // get & set
	CheckSmartCharge MethodID = 209 // get

	// display
	Brightness         MethodID = 192 // get & set
	BrightnessOff      MethodID = 196 // get & set
	DecreaseBrightness MethodID = 204 // set
	IncreaseBrightness MethodID = 205 // set

	// GPU
	PEGOrSG         MethodID = 80 // get & set
	NvPowerConfig   MethodID = 81 // get & set
	NvD1            MethodID = 82 // set
	NvD2            MethodID = 83 // set
	NvD3            MethodID = 84 // set
	NvD4            MethodID = 85 // set
	NvD5            MethodID = 86 // set
	NvThermalTarget MethodID = 87 // get & set

	// thermal sensors
	ThermalData   MethodID = 86  // get
	ThermalSensor MethodID = 249 // get
	CPUTemp       MethodID = 225 // get
	GPUTemp1      MethodID = 226 // get
	GPUTemp2      MethodID = 227 // get
	RPM1          MethodID = 228 // get
	RPM2          MethodID = 229 // get

	// performance and power modes
	SuperQuiet         MethodID = 88  // set
	CheckHeavyLoading  MethodID = 88  // get
	IsPowerSaving      MethodID = 119 // set
	AIBoostStatus      MethodID = 129 // get & set
	WhisperMode        MethodID = 133 // get & set
	ECValueBoost       MethodID = 132 // get & set
	TurboMode          MethodID = 206 // get & set
	CheckSmartTurbo    MethodID = 210 // get
	GetSmartTurboLevel MethodID = 219 // get
	SetSmartTurboLevel MethodID = 220 // set
	DynamicBoost       MethodID = 231 // get & set, get reports the inverted value
	SmartTurboStatus   MethodID = 242 // get & set

	// LEDs and lighting
	LightBar          MethodID = 89  // get & set
	BluetoothLED      MethodID = 115 // set
	WiFiLED           MethodID = 116 // set
	RGBLED            MethodID = 131 // set
	KeyboardBacklight MethodID = 246 // get & set

	// device control and status
	DisableBTFnKey       MethodID = 120 // set
	DisableCommFnKey     MethodID = 121 // set
	Camera2              MethodID = 126 // get & set
	TouchscreenSupport   MethodID = 127 // get
	Bluetooth            MethodID = 193 // get & set
	WiFi                 MethodID = 194 // get & set
	W35G                 MethodID = 195 // get & set
	Camera               MethodID = 197 // get & set
	MuteStatus           MethodID = 199 // set
	Touchpad             MethodID = 202 // get & set
	WinkeyBlocking       MethodID = 203 // get & set
	GetUSB30Status       MethodID = 211 // get
	SetUSB30Status       MethodID = 212 // set
	CheckUSB30           MethodID = 213 // get
	DockingStatus        MethodID = 214 // get
	GetTouchscreenStatus MethodID = 215 // get
	SetTouchscreenStatus MethodID = 216 // set
	Lid1Status           MethodID = 239 // get
	SetKeyboardMatrix    MethodID = 240 // set
	GetKeyboardMatrix    MethodID = 241 // get
	GSensorStatus        MethodID = 243 // get & set
	OnboardLAN           MethodID = 244 // get & set
	CheckDocking         MethodID = 245 // get

	// system information and time
	PowerOnTime     MethodID = 99  // get & set
	DeviceExist     MethodID = 108 // get
	CheckUCFSupport MethodID = 124 // get
	FirstDate       MethodID = 130 // get & set

	// VR and special modes
	VRStatus     MethodID = 105 // get & set
	NotifyHDMI   MethodID = 245 // set
	RotationLock MethodID = 253 // set

	// USB charging
	SleepUSBCharge       MethodID = 122 // get & set
	HibernationUSBCharge MethodID = 123 // get & set

	// light sensor
	LightSensor        MethodID = 247 // get
	LightSensorVersion MethodID = 251 // get
	LightSensorValue   MethodID = 252 // get

	// 3G module
	Check3GModule MethodID = 254 // get
	NotifyEC3G    MethodID = 254 // set

	// PD control
	PDWarmReset MethodID = 134 // set
)

// DefaultRegistry holds the output shapes of all get methods.
var DefaultRegistry = MustRegistry(
	// fan control
	GetEntry(CPUFanDuty, 1, 1),
	GetEntry(GPUFanDuty, 1, 1),
	GetEntry(DeepFan, 10, 1), // 5 temperatures, 5 speeds
	GetEntry(FanHealth, 1, 1),
	GetEntry(StepFanStatus, 1, 2),
	GetEntry(FanIndexValue, 2, 1), // temperature, speed
	GetEntry(FixedFanStatus, 1, 2),
	GetEntry(FixedFanSpeed, 1, 2),
	GetEntry(FanPWMStatus, 1, 1),
	GetEntry(FanAdjustStatus, 1, 1),
	GetEntry(AutoFanStatus, 1, 1),
	GetEntry(FanSpeed, 1, 1),

	// battery and power
	GetEntry(BatteryCount, 1, 2),
	GetEntry(MaxCharge, 1, 1),
	GetEntry(BatteryHealth, 1, 1),
	GetEntry(ChargePolicy, 1, 2),
	GetEntry(ChargeStop, 1, 2),
	GetEntry(BatteryCycles1, 1, 2),
	GetEntry(BatteryCycles, 1, 2),
	GetEntry(SmartCharge, 1, 1),
	GetEntry(CheckSmartCharge, 1, 1),

	// display
	GetEntry(Brightness, 1, 1),
	GetEntry(BrightnessOff, 1, 1),

	// GPU
	GetEntry(PEGOrSG, 1, 1),
	GetEntry(NvPowerConfig, 1, 1),
	GetEntry(NvThermalTarget, 1, 1),

	// thermal sensors
	GetEntry(ThermalData, 3, 1), // thermal 1, 2, 3
	GetEntry(ThermalSensor, 1, 2),
	GetEntry(CPUTemp, 1, 2),
	GetEntry(GPUTemp1, 1, 2),
	GetEntry(GPUTemp2, 1, 2),
	GetEntry(RPM1, 1, 2),
	GetEntry(RPM2, 1, 2),

	// performance and power modes
	GetEntry(CheckHeavyLoading, 1, 1),
	GetEntry(AIBoostStatus, 1, 1),
	GetEntry(WhisperMode, 1, 1),
	GetEntry(ECValueBoost, 1, 1),
	GetEntry(TurboMode, 1, 1),
	GetEntry(CheckSmartTurbo, 1, 1),
	GetEntry(GetSmartTurboLevel, 1, 1),
	GetEntry(DynamicBoost, 1, 1),
	GetEntry(SmartTurboStatus, 1, 1),

	// LEDs and lighting
	GetEntry(LightBar, 5, 1), // status, level, red, green, blue
	GetEntry(KeyboardBacklight, 1, 1),

	// device control and status
	GetEntry(Camera2, 1, 1),
	GetEntry(TouchscreenSupport, 1, 1),
	GetEntry(Bluetooth, 1, 1),
	GetEntry(WiFi, 1, 1),
	GetEntry(W35G, 1, 1),
	GetEntry(Camera, 1, 1),
	GetEntry(Touchpad, 1, 1),
	GetEntry(WinkeyBlocking, 1, 1),
	GetEntry(GetUSB30Status, 1, 1),
	GetEntry(CheckUSB30, 1, 1),
	GetEntry(DockingStatus, 1, 1),
	GetEntry(GetTouchscreenStatus, 1, 1),
	GetEntry(Lid1Status, 1, 1),
	GetEntry(GetKeyboardMatrix, 1, 1),
	GetEntry(GSensorStatus, 1, 1),
	GetEntry(OnboardLAN, 1, 1),
	GetEntry(CheckDocking, 1, 1),

	// system information and time
	GetEntry(PowerOnTime, 5, 1), // year, month, day, hour, minute
	GetEntry(DeviceExist, 1, 2),
	GetEntry(CheckUCFSupport, 1, 1),
	GetEntry(FirstDate, 5, 1), // year, month, day, hour, minute

	// VR and special modes
	GetEntry(VRStatus, 1, 2),

	// USB charging
	GetEntry(SleepUSBCharge, 1, 1),
	GetEntry(HibernationUSBCharge, 1, 1),

	// light sensor
	GetEntry(LightSensor, 1, 2),
	GetEntry(LightSensorVersion, 1, 2),
	GetEntry(LightSensorValue, 4, 1), // byte 0, 1, 2, 3

	// 3G module
	GetEntry(Check3GModule, 1, 2),
)
