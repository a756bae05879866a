package hal

// AS7926-40XFB: thermal sensors hang off a dedicated platform driver, PSU
// sensors off the PSU CPLD driver. Sensors 11 and up live on the CPU package
// and have no physical presence node.
var as7926_40xfb = &Profile{
	Name: "as7926-40xfb",

	ThermalDir:    "/sys/devices/platform/as7926_40xfb_thermal/",
	ThermalPSUDir: "/sys/devices/platform/as7926_40xfb_psu/",
	ThermalNames: []string{
		"Temp sensor 1", "Temp sensor 2", "Temp sensor 3",
		"Temp sensor 4", "Temp sensor 5", "Temp sensor 6",
		"Temp sensor 7", "Temp sensor 8", "Temp sensor 9",
		"Temp sensor 10", "CPU Package Temp",
		"CPU Core 0 Temp", "CPU Core 1 Temp", "CPU Core 2 Temp",
		"CPU Core 3 Temp", "CPU Core 4 Temp", "CPU Core 5 Temp",
		"CPU Core 6 Temp", "CPU Core 7 Temp",
	},
	PSUThermalNames: []string{"PSU-1 temp sensor 1", "PSU-2 temp sensor 1"},
	CPUThermalStart: 10,

	DefaultThresholds: map[string]Thresholds{
		"Temp sensor 1":       {High: 84.0, HighCritical: 87.0},
		"Temp sensor 2":       {High: 110.0, HighCritical: 115.0},
		"Temp sensor 3":       {High: 110.0, HighCritical: 115.0},
		"Temp sensor 4":       {High: 70.0, HighCritical: 73.0},
		"Temp sensor 5":       {High: 72.0, HighCritical: 75.0},
		"Temp sensor 6":       {High: 73.0, HighCritical: 76.0},
		"Temp sensor 7":       {High: 70.0, HighCritical: 73.0},
		"Temp sensor 8":       {High: 62.0, HighCritical: 65.0},
		"Temp sensor 9":       {High: 84.0, HighCritical: 87.0},
		"Temp sensor 10":      {High: 76.0, HighCritical: 79.0},
		"CPU Package Temp":    {High: 82.0, HighCritical: 104.0},
		"CPU Core 0 Temp":     {High: 82.0, HighCritical: 104.0},
		"CPU Core 1 Temp":     {High: 82.0, HighCritical: 104.0},
		"CPU Core 2 Temp":     {High: 82.0, HighCritical: 104.0},
		"CPU Core 3 Temp":     {High: 82.0, HighCritical: 104.0},
		"CPU Core 4 Temp":     {High: 82.0, HighCritical: 104.0},
		"CPU Core 5 Temp":     {High: 82.0, HighCritical: 104.0},
		"CPU Core 6 Temp":     {High: 82.0, HighCritical: 104.0},
		"CPU Core 7 Temp":     {High: 82.0, HighCritical: 104.0},
		"PSU-1 temp sensor 1": {High: 62.0, HighCritical: 67.0},
		"PSU-2 temp sensor 1": {High: 62.0, HighCritical: 67.0},
	},

	// The fan CPLD of this variant is not driven by this agent; the fan
	// tables stay empty.
	TargetSpeedMarker: "/tmp/fan_target_speed",
}
