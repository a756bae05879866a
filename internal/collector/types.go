package collector

import "time"

// MetricData is the common wrapper for all collected telemetry.
type MetricData struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	AgentID   string      `json:"agent_id"`
	Hostname  string      `json:"hostname"`
	Platform  string      `json:"platform"`
	Data      interface{} `json:"data"`
}

// ThermalData contains the readings of all thermal sensors.
type ThermalData struct {
	Sensors []ThermalReading `json:"sensors"`
}

// ThermalReading is the state of one temperature sensor. Threshold fields
// are omitted for sensors the platform has no thresholds for.
type ThermalReading struct {
	Name          string   `json:"name"`
	TemperatureC  float64  `json:"temperature_c"`
	High          *float64 `json:"high_threshold_c,omitempty"`
	HighCritical  *float64 `json:"high_critical_threshold_c,omitempty"`
	Presence      bool     `json:"presence"`
	Status        bool     `json:"status"`
	Position      int      `json:"position"`
	IsReplaceable bool     `json:"is_replaceable"`
}

// FanData contains the readings of all fan rotors.
type FanData struct {
	Fans []FanReading `json:"fans"`
}

// FanReading is the state of one fan rotor.
type FanReading struct {
	Name           string `json:"name"`
	SpeedPercent   int    `json:"speed_percent"`
	TargetPercent  int    `json:"target_percent"`
	TolerancePct   int    `json:"tolerance_percent"`
	Direction      string `json:"direction"`
	Presence       bool   `json:"presence"`
	Status         bool   `json:"status"`
	StatusLED      string `json:"status_led"`
	Position       int    `json:"position"`
	IsReplaceable  bool   `json:"is_replaceable"`
}

// HostData contains host uptime and identity, published alongside the device
// telemetry so the fleet tooling can correlate reboots with sensor gaps.
type HostData struct {
	Hostname      string  `json:"hostname"`
	KernelVersion string  `json:"kernel_version"`
	BootTimeUnix  int64   `json:"boot_time_unix"`
	UptimeMinutes float64 `json:"uptime_minutes"`
}
