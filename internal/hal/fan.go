package hal

import (
	"fmt"
	"path"

	"github.com/rs/zerolog"

	"platformagent/internal/logger"
	"platformagent/internal/sysfs"
)

// speedTolerance is the base percentage of variance from the target speed
// that the monitoring daemon tolerates before flagging a fan.
const speedTolerance = 30

// Fan is one fan rotor: a tray rotor behind the fan CPLD or the fan inside a
// power supply.
type Fan struct {
	fs       *sysfs.FS
	profile  *Profile
	tray     int // 0-based tray index
	rotor    int // 0 front, 1 rear
	isPSUFan bool
	psuIndex int
	isHost   bool
	log      zerolog.Logger
}

// NewFan creates a tray fan rotor. tray and rotor are 0-based; rotor 0 is the
// front rotor, 1 the rear one.
func NewFan(fs *sysfs.FS, profile *Profile, tray, rotor int) *Fan {
	return &Fan{
		fs:      fs,
		profile: profile,
		tray:    tray,
		rotor:   rotor,
		isHost:  fs.IsHost(),
		log:     logger.WithComponent("fan"),
	}
}

// NewPSUFan creates the fan of one power supply.
func NewPSUFan(fs *sysfs.FS, profile *Profile, psuIndex int) *Fan {
	return &Fan{
		fs:       fs,
		profile:  profile,
		isPSUFan: true,
		psuIndex: psuIndex,
		isHost:   fs.IsHost(),
		log:      logger.WithComponent("fan"),
	}
}

// trayNode builds a fan CPLD node path for the fan's tray, e.g. suffix
// "_present" -> ".../fan2_present".
func (f *Fan) trayNode(suffix string) string {
	return fmt.Sprintf("%s%d%s", f.profile.FanCPLDPrefix, f.tray+1, suffix)
}

// rotorNode builds a fan CPLD node path addressed by rotor: front rotors use
// the tray number, rear rotors the tray number shifted by the profile offset.
func (f *Fan) rotorNode(suffix string) string {
	n := f.tray + 1
	if f.rotor != 0 {
		n = f.tray + 1 + f.profile.RearNodeOffset
	}
	return fmt.Sprintf("%s%d%s", f.profile.FanCPLDPrefix, n, suffix)
}

func (f *Fan) psu() PSUAccess { return f.profile.PSUs[f.psuIndex] }

// Name returns the fixed fan name (e.g. "FAN-2R", "PSU-1 FAN-1").
func (f *Fan) Name() string {
	if f.isPSUFan {
		return fmt.Sprintf("PSU-%d FAN-1", f.psuIndex+1)
	}
	return f.profile.FanNames[f.tray*2+f.rotor]
}

// Direction returns the airflow direction. Unreadable direction nodes fall
// back to exhaust; a powered-down PSU reports DirectionNotApplicable.
func (f *Fan) Direction() string {
	if !f.isPSUFan {
		val, err := f.fs.ReadLine(f.trayNode("_direction"))
		if err != nil {
			return DirectionExhaust
		}
		if val == "0" { // 0 is F2B
			return DirectionExhaust
		}
		return DirectionIntake
	}

	powerGood, err := f.fs.ReadInt(path.Join(f.psu().CPLDDir, "psu_power_good"))
	if err != nil || powerGood == 0 {
		return DirectionNotApplicable
	}
	val, err := f.fs.ReadLine(path.Join(f.psu().HwmonDir, "psu_fan_dir"))
	if err != nil {
		return DirectionExhaust
	}
	if val == "F2B" {
		return DirectionExhaust
	}
	return DirectionIntake
}

// Speed returns the measured speed as a percentage of full speed in [0, 100].
// Tray rotors estimate it as duty% scaled by measured RPM over the
// calibration target RPM for that duty; PSU fans scale RPM against the PSU
// fan maximum. Unreadable inputs report 0.
func (f *Fan) Speed() int {
	if f.isPSUFan {
		rpm, err := f.fs.ReadInt(path.Join(f.psu().HwmonDir, "psu_fan1_speed_rpm"))
		if err != nil {
			return 0
		}
		return clampPercent(rpm * 100 / f.profile.PSUFanMaxRPM)
	}

	if !f.Presence() {
		return 0
	}
	duty, err := f.fs.ReadInt(f.trayNode("_duty_cycle_percentage"))
	if err != nil {
		return 0
	}
	rpm, err := f.fs.ReadInt(f.rotorNode("_input"))
	if err != nil {
		return 0
	}
	target := f.profile.TargetRPM(duty)
	if target == 0 || rpm == 0 {
		return 0
	}
	return clampPercent(int(float64(duty) * float64(rpm) / float64(target)))
}

// TargetSpeed returns the commanded speed percentage. Inside the monitoring
// container the shared marker file wins over the duty-cycle node, so the
// value reflects what the host-side control loop last commanded.
func (f *Fan) TargetSpeed() int {
	if f.isPSUFan {
		return f.Speed()
	}
	if !f.Presence() {
		return 0
	}

	marker := f.profile.TargetSpeedMarker
	if marker != "" && f.fs.Exists(marker) && !f.isHost {
		val, err := f.fs.ReadInt(marker)
		if err != nil {
			return 0
		}
		return val
	}
	val, err := f.fs.ReadInt(f.trayNode("_duty_cycle_percentage"))
	if err != nil {
		return 0
	}
	return val
}

// SpeedTolerance returns the percentage of variance from the target speed
// considered tolerable. While the commanded value is still propagating, the
// difference between the duty node and the marker file widens the tolerance.
func (f *Fan) SpeedTolerance() int {
	marker := f.profile.TargetSpeedMarker
	if f.isPSUFan || marker == "" || !f.fs.Exists(marker) {
		return speedTolerance
	}

	duty, errDuty := f.fs.ReadInt(f.trayNode("_duty_cycle_percentage"))
	set, errSet := f.fs.ReadInt(marker)
	if errDuty != nil || errSet != nil {
		return speedTolerance
	}
	diff := duty - set
	if diff < 0 {
		diff = -diff
	}
	return speedTolerance + diff
}

// SetSpeed commands the fan to the given duty-cycle percentage and mirrors
// the value into the target-speed marker file. Only present tray fans can be
// driven; PSU fans regulate themselves.
func (f *Fan) SetSpeed(percent int) error {
	if f.isPSUFan {
		return fmt.Errorf("set speed of %s: %w", f.Name(), ErrNotSupported)
	}
	if percent < 0 || percent > 100 {
		return fmt.Errorf("set speed of %s: %d%% out of range", f.Name(), percent)
	}
	if !f.Presence() {
		return fmt.Errorf("set speed of %s: fan not present", f.Name())
	}

	if err := f.fs.WriteInt(f.trayNode("_duty_cycle_percentage"), percent); err != nil {
		return fmt.Errorf("set speed of %s: %w", f.Name(), err)
	}
	if marker := f.profile.TargetSpeedMarker; marker != "" {
		if err := f.fs.WriteInt(marker, percent); err != nil {
			return fmt.Errorf("set speed of %s: update marker: %w", f.Name(), err)
		}
	}
	f.log.Info().Str("fan", f.Name()).Int("percent", percent).Msg("Fan speed set")
	return nil
}

// Presence reports whether the fan tray (or the PSU) is plugged in.
func (f *Fan) Presence() bool {
	if f.isPSUFan {
		val, err := f.fs.ReadInt(path.Join(f.psu().CPLDDir, "psu_present"))
		return err == nil && val == 1
	}
	val, err := f.fs.ReadInt(f.trayNode("_present"))
	return err == nil && val == 1
}

// Status reports whether the fan is operating properly: the rotor fault bit
// is clear, or for a PSU fan the PSU reports power good.
func (f *Fan) Status() bool {
	if f.isPSUFan {
		val, err := f.fs.ReadInt(path.Join(f.psu().CPLDDir, "psu_power_good"))
		return err == nil && val == 1
	}
	val, err := f.fs.ReadInt(f.rotorNode("_fault"))
	return err == nil && val == 0
}

// StatusLED returns the state of the fan module status LED, derived from
// presence and operational status. The LED is not directly addressable.
func (f *Fan) StatusLED() string {
	if !f.Presence() {
		return LEDOff
	}
	if f.isPSUFan && !f.Status() {
		return LEDOff
	}
	if f.Status() {
		return LEDGreen
	}
	return LEDAmber
}

// SetStatusLED is not supported: the fan CPLD drives the LED.
func (f *Fan) SetStatusLED(color string) error {
	return fmt.Errorf("set status LED of %s: %w", f.Name(), ErrNotSupported)
}

// Model returns the part number of the device.
func (f *Fan) Model() string { return NotAvailable }

// Serial returns the serial number of the device.
func (f *Fan) Serial() string { return NotAvailable }

// PositionInParent returns the 1-based physical position relative to the
// parent device: the rotor position within the tray, or the PSU slot.
func (f *Fan) PositionInParent() int {
	if f.isPSUFan {
		return f.psuIndex + 1
	}
	return f.rotor + 1
}

// IsReplaceable reports whether the fan is a FRU. Fan trays are hot
// swappable; PSU fans are serviced with their PSU.
func (f *Fan) IsReplaceable() bool { return !f.isPSUFan }

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
