package hal

import (
	"fmt"
	"path"

	"github.com/rs/zerolog"

	"platformagent/internal/logger"
	"platformagent/internal/sysfs"
)

// Thermal is one temperature sensor, either on the board/CPU or inside a
// power supply. Readings come from single-line sysfs nodes in millidegrees.
type Thermal struct {
	fs         *sysfs.FS
	profile    *Profile
	thresholds *ThresholdStore
	index      int
	isPSU      bool
	psuIndex   int
	log        zerolog.Logger
}

// NewThermal creates a board/CPU thermal sensor. index is 0-based into the
// profile name table; the sysfs node numbering is 1-based.
func NewThermal(fs *sysfs.FS, profile *Profile, thresholds *ThresholdStore, index int) *Thermal {
	return &Thermal{
		fs:         fs,
		profile:    profile,
		thresholds: thresholds,
		index:      index,
		log:        logger.WithComponent("thermal"),
	}
}

// NewPSUThermal creates the temperature sensor of one power supply.
func NewPSUThermal(fs *sysfs.FS, profile *Profile, thresholds *ThresholdStore, psuIndex int) *Thermal {
	return &Thermal{
		fs:         fs,
		profile:    profile,
		thresholds: thresholds,
		isPSU:      true,
		psuIndex:   psuIndex,
		log:        logger.WithComponent("thermal"),
	}
}

// Name returns the fixed human-readable sensor name.
func (t *Thermal) Name() string {
	if t.isPSU {
		return t.profile.PSUThermalNames[t.psuIndex]
	}
	return t.profile.ThermalNames[t.index]
}

func (t *Thermal) inputNode() string {
	if t.isPSU {
		return path.Join(t.profile.ThermalPSUDir,
			fmt.Sprintf("psu%d_temp%d_input", t.psuIndex+1, t.index+1))
	}
	return path.Join(t.profile.ThermalDir, fmt.Sprintf("temp%d_input", t.index+1))
}

// Temperature returns the current reading in Celsius. An unreadable node
// reports 0, matching the behaviour the monitoring daemons expect.
func (t *Thermal) Temperature() float64 {
	raw, err := t.fs.ReadFloat(t.inputNode())
	if err != nil {
		t.log.Debug().Err(err).Str("sensor", t.Name()).Msg("Temperature node unreadable")
		return 0
	}
	return raw / 1000
}

// HighThreshold returns the high temperature threshold in Celsius.
func (t *Thermal) HighThreshold() (float64, error) {
	return t.thresholds.High(t.Name())
}

// HighCriticalThreshold returns the high critical temperature threshold in
// Celsius.
func (t *Thermal) HighCriticalThreshold() (float64, error) {
	return t.thresholds.HighCritical(t.Name())
}

// Presence reports whether the sensor is physically present. PSU sensors
// follow the PSU presence bit; CPU-attached sensors have no presence node and
// always report true; board sensors are present when their input node reads.
func (t *Thermal) Presence() bool {
	if t.isPSU {
		node := path.Join(t.profile.ThermalPSUDir, fmt.Sprintf("psu%d_present", t.psuIndex+1))
		val, err := t.fs.ReadInt(node)
		return err == nil && val == 1
	}
	if t.profile.CPUThermalStart >= 0 && t.index >= t.profile.CPUThermalStart {
		return true
	}
	_, err := t.fs.ReadLine(t.inputNode())
	return err == nil
}

// Status reports whether the sensor is operating. PSU sensors follow
// presence; board sensors must deliver a non-zero raw reading.
func (t *Thermal) Status() bool {
	if t.isPSU {
		return t.Presence()
	}
	raw, err := t.fs.ReadInt(t.inputNode())
	return err == nil && raw != 0
}

// Model returns the part number of the device.
func (t *Thermal) Model() string { return NotAvailable }

// Serial returns the serial number of the device.
func (t *Thermal) Serial() string { return NotAvailable }

// PositionInParent returns the 1-based physical position relative to the
// parent device. For a PSU sensor the parent is its PSU.
func (t *Thermal) PositionInParent() int {
	return t.index + 1
}

// IsReplaceable reports whether the sensor is a FRU.
func (t *Thermal) IsReplaceable() bool { return false }
