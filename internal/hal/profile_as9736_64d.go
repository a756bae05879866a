package hal

// AS9736-64D: four fan trays with front and rear rotors behind the fan CPLD
// at I2C 25-0033, two PSUs with separate hwmon and CPLD addresses. Rear rotor
// tachometer nodes are numbered 11-14 by the driver.
var as9736_64d = &Profile{
	Name: "as9736-64d",

	CPUThermalStart: -1,

	FanCPLDPrefix:  "/sys/bus/i2c/devices/25-0033/fan",
	FanUtilBaseDir: "/sys/bus/i2c/devices/25-0033",
	FanNames: []string{
		"FAN-1F", "FAN-1R", "FAN-2F", "FAN-2R",
		"FAN-3F", "FAN-3R", "FAN-4F", "FAN-4R",
	},
	FanTrays:       4,
	RearNodeOffset: 10,

	// Calibration measured at 680 RPM per 5% duty.
	DutyTargetRPM: map[int]int{
		0: 0, 5: 680, 10: 1360, 15: 2040, 20: 2720,
		25: 3400, 30: 4080, 35: 4760, 40: 5440, 45: 6120,
		50: 6800, 55: 7480, 60: 8160, 65: 8840, 70: 9520,
		75: 10200, 80: 10880, 85: 11560, 90: 12240, 95: 12920,
		100: 13600,
	},
	DutyStep: 5,

	PSUFanMaxRPM: 26688,
	PSUs: []PSUAccess{
		{HwmonDir: "/sys/bus/i2c/devices/41-0059/", CPLDDir: "/sys/bus/i2c/devices/41-0051/"},
		{HwmonDir: "/sys/bus/i2c/devices/33-0058/", CPLDDir: "/sys/bus/i2c/devices/33-0050/"},
	},

	TargetSpeedMarker: "/tmp/fan_target_speed",
}
