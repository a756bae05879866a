package hal

import (
	"fmt"
	"sort"
)

// PSUAccess holds the sysfs directories for one power supply. The hwmon dir
// carries sensor readings, the CPLD dir carries presence/power-good bits.
// On the I2C-attached platforms both derive from fixed bus/address pairs.
type PSUAccess struct {
	HwmonDir string
	CPLDDir  string
}

// Thresholds is a pair of high / high-critical temperatures in Celsius.
type Thresholds struct {
	High         float64
	HighCritical float64
}

// Profile describes one hardware variant: sysfs roots, device name tables,
// threshold defaults and the duty-cycle calibration of its fans. All lookup
// data is static; there is no runtime discovery.
type Profile struct {
	Name string

	// Thermal sensors.
	ThermalDir        string   // board/CPU sensor nodes (temp{N}_input)
	ThermalPSUDir     string   // PSU sensor and presence nodes
	ThermalNames      []string // index order defines temp{N} numbering
	PSUThermalNames   []string // one per PSU
	CPUThermalStart   int      // first CPU-attached sensor index; -1 if none
	DefaultThresholds map[string]Thresholds

	// Fan trays.
	FanCPLDPrefix  string   // e.g. ".../25-0033/fan"; node = prefix + "{N}_suffix"
	FanUtilBaseDir string   // base dir of the legacy fanutil node map
	FanNames       []string // tray*2+rotor order: FAN-1F, FAN-1R, ...
	FanTrays       int
	RearNodeOffset int // rear rotor node index = tray number + offset

	// Duty-cycle percentage to expected RPM, in steps of DutyStep.
	DutyTargetRPM map[int]int
	DutyStep      int

	// PSU fans.
	PSUFanMaxRPM int
	PSUs         []PSUAccess

	// Marker file sharing the last commanded duty cycle with the control
	// loop in the monitoring container.
	TargetSpeedMarker string
}

// NumThermals returns the number of board/CPU thermal sensors.
func (p *Profile) NumThermals() int { return len(p.ThermalNames) }

// NumPSUs returns the number of power supplies.
func (p *Profile) NumPSUs() int { return len(p.PSUs) }

// NumFans returns the number of fan rotors on the main board.
func (p *Profile) NumFans() int { return len(p.FanNames) }

// TargetRPM returns the expected RPM for a duty-cycle percentage. Duty values
// between calibration steps are normalised down to the nearest step; out of
// range or uncalibrated values yield 0.
func (p *Profile) TargetRPM(duty int) int {
	if duty < 0 || p.DutyStep <= 0 {
		return 0
	}
	if duty > 100 {
		duty = 100
	}
	return p.DutyTargetRPM[duty-duty%p.DutyStep]
}

var profiles = map[string]*Profile{
	as7926_40xfb.Name: as7926_40xfb,
	as9736_64d.Name:   as9736_64d,
}

// ProfileByName returns the profile for a platform identifier as reported by
// the ONIE machine config (e.g. "as9736-64d").
func ProfileByName(name string) (*Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q (supported: %v)", name, ProfileNames())
	}
	return p, nil
}

// ProfileNames lists the supported platform identifiers in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
