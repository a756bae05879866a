package hal

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"platformagent/internal/sysfs"
)

const (
	fanCPLD  = "/sys/bus/i2c/devices/25-0033/fan"
	psu1Dir  = "/sys/bus/i2c/devices/41-0059/"
	psu1CPLD = "/sys/bus/i2c/devices/41-0051/"
	marker   = "/tmp/fan_target_speed"
)

func fanFixture(t *testing.T, files map[string]string) (*sysfs.FS, *Profile) {
	t.Helper()
	mem := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(mem, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	profile, err := ProfileByName("as9736-64d")
	if err != nil {
		t.Fatalf("ProfileByName: %v", err)
	}
	return sysfs.NewWithFs(mem), profile
}

func TestFan_Names(t *testing.T) {
	fs, profile := fanFixture(t, nil)

	cases := []struct {
		tray, rotor int
		want        string
	}{
		{0, 0, "FAN-1F"},
		{0, 1, "FAN-1R"},
		{3, 0, "FAN-4F"},
		{3, 1, "FAN-4R"},
	}
	for _, tc := range cases {
		f := NewFan(fs, profile, tc.tray, tc.rotor)
		if got := f.Name(); got != tc.want {
			t.Errorf("Name(tray=%d, rotor=%d) = %q, want %q", tc.tray, tc.rotor, got, tc.want)
		}
	}

	if got := NewPSUFan(fs, profile, 1).Name(); got != "PSU-2 FAN-1" {
		t.Errorf("PSU fan Name = %q, want %q", got, "PSU-2 FAN-1")
	}
}

func TestFan_Speed(t *testing.T) {
	// Duty 50% targets 6800 RPM; the front rotor measures 3400 RPM, so the
	// effective speed is 25%.
	fs, profile := fanFixture(t, map[string]string{
		fanCPLD + "1_present":               "1\n",
		fanCPLD + "1_duty_cycle_percentage": "50\n",
		fanCPLD + "1_input":                 "3400\n",
		fanCPLD + "11_input":                "6800\n",
	})

	front := NewFan(fs, profile, 0, 0)
	if got := front.Speed(); got != 25 {
		t.Errorf("front Speed = %d, want 25", got)
	}

	// The rear rotor reads node 11 and spins at target: full 50%.
	rear := NewFan(fs, profile, 0, 1)
	if got := rear.Speed(); got != 50 {
		t.Errorf("rear Speed = %d, want 50", got)
	}
}

func TestFan_SpeedClamped(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		fanCPLD + "2_present":               "1\n",
		fanCPLD + "2_duty_cycle_percentage": "100\n",
		fanCPLD + "2_input":                 "20000\n", // above the 13600 target
	})

	f := NewFan(fs, profile, 1, 0)
	if got := f.Speed(); got != 100 {
		t.Errorf("Speed = %d, want clamp at 100", got)
	}
}

func TestFan_SpeedUnavailable(t *testing.T) {
	// Absent tray, zero target and unreadable tach all report 0.
	fs, profile := fanFixture(t, map[string]string{
		fanCPLD + "1_present":               "0\n",
		fanCPLD + "2_present":               "1\n",
		fanCPLD + "2_duty_cycle_percentage": "0\n",
		fanCPLD + "2_input":                 "100\n",
		fanCPLD + "3_present":               "1\n",
		fanCPLD + "3_duty_cycle_percentage": "50\n",
	})

	if got := NewFan(fs, profile, 0, 0).Speed(); got != 0 {
		t.Errorf("absent tray Speed = %d, want 0", got)
	}
	if got := NewFan(fs, profile, 1, 0).Speed(); got != 0 {
		t.Errorf("zero duty Speed = %d, want 0", got)
	}
	if got := NewFan(fs, profile, 2, 0).Speed(); got != 0 {
		t.Errorf("missing tach Speed = %d, want 0", got)
	}
}

func TestFan_PSUSpeed(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		psu1Dir + "psu_fan1_speed_rpm": "13344\n", // half of the 26688 max
	})

	f := NewPSUFan(fs, profile, 0)
	if got := f.Speed(); got != 50 {
		t.Errorf("PSU fan Speed = %d, want 50", got)
	}
}

func TestFan_Direction(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		fanCPLD + "1_direction": "0\n",
		fanCPLD + "2_direction": "1\n",
	})

	if got := NewFan(fs, profile, 0, 0).Direction(); got != DirectionExhaust {
		t.Errorf("Direction(0) = %q, want exhaust", got)
	}
	if got := NewFan(fs, profile, 1, 0).Direction(); got != DirectionIntake {
		t.Errorf("Direction(1) = %q, want intake", got)
	}
	// Unreadable direction falls back to exhaust.
	if got := NewFan(fs, profile, 2, 0).Direction(); got != DirectionExhaust {
		t.Errorf("Direction(missing) = %q, want exhaust", got)
	}
}

func TestFan_PSUDirection(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		psu1CPLD + "psu_power_good": "1\n",
		psu1Dir + "psu_fan_dir":     "F2B\n",
	})

	if got := NewPSUFan(fs, profile, 0).Direction(); got != DirectionExhaust {
		t.Errorf("PSU Direction(F2B) = %q, want exhaust", got)
	}
	// Powered-down PSU cannot report a direction.
	if got := NewPSUFan(fs, profile, 1).Direction(); got != DirectionNotApplicable {
		t.Errorf("PSU Direction(no power) = %q, want N/A", got)
	}
}

func TestFan_TargetSpeed(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		fanCPLD + "1_present":               "1\n",
		fanCPLD + "1_duty_cycle_percentage": "40\n",
	})

	// On the host (no container marker) the duty node is authoritative.
	f := NewFan(fs, profile, 0, 0)
	if got := f.TargetSpeed(); got != 40 {
		t.Errorf("TargetSpeed = %d, want 40", got)
	}
}

func TestFan_TargetSpeedFromMarkerInContainer(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		"/.dockerenv":                       "",
		fanCPLD + "1_present":               "1\n",
		fanCPLD + "1_duty_cycle_percentage": "40\n",
		marker:                              "65\n",
	})

	f := NewFan(fs, profile, 0, 0)
	if got := f.TargetSpeed(); got != 65 {
		t.Errorf("TargetSpeed in container = %d, want 65 (marker)", got)
	}
}

func TestFan_SpeedTolerance(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		fanCPLD + "1_duty_cycle_percentage": "40\n",
	})

	f := NewFan(fs, profile, 0, 0)
	if got := f.SpeedTolerance(); got != 30 {
		t.Errorf("SpeedTolerance without marker = %d, want 30", got)
	}
}

func TestFan_SpeedToleranceWidensWhilePropagating(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		fanCPLD + "1_duty_cycle_percentage": "40\n",
		marker:                              "55\n",
	})

	f := NewFan(fs, profile, 0, 0)
	if got := f.SpeedTolerance(); got != 45 {
		t.Errorf("SpeedTolerance = %d, want 30+|40-55| = 45", got)
	}
}

func TestFan_SetSpeed(t *testing.T) {
	mem := afero.NewMemMapFs()
	for path, content := range map[string]string{
		fanCPLD + "2_present":               "1\n",
		fanCPLD + "2_duty_cycle_percentage": "30\n",
	} {
		if err := afero.WriteFile(mem, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	fs := sysfs.NewWithFs(mem)
	profile, err := ProfileByName("as9736-64d")
	if err != nil {
		t.Fatalf("ProfileByName: %v", err)
	}

	f := NewFan(fs, profile, 1, 0)
	if err := f.SetSpeed(75); err != nil {
		t.Fatalf("SetSpeed: %v", err)
	}

	duty, err := fs.ReadInt(fanCPLD + "2_duty_cycle_percentage")
	if err != nil || duty != 75 {
		t.Errorf("duty node = %d, %v, want 75", duty, err)
	}
	set, err := fs.ReadInt(marker)
	if err != nil || set != 75 {
		t.Errorf("marker = %d, %v, want 75 (mirrored)", set, err)
	}
}

func TestFan_SetSpeedRejected(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		fanCPLD + "1_present": "0\n",
	})

	if err := NewFan(fs, profile, 0, 0).SetSpeed(50); err == nil {
		t.Error("SetSpeed on absent fan: err = nil, want error")
	}
	if err := NewFan(fs, profile, 0, 0).SetSpeed(120); err == nil {
		t.Error("SetSpeed(120): err = nil, want range error")
	}
	if err := NewPSUFan(fs, profile, 0).SetSpeed(50); !errors.Is(err, ErrNotSupported) {
		t.Errorf("PSU SetSpeed err = %v, want ErrNotSupported", err)
	}
}

func TestFan_PresenceAndStatus(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		fanCPLD + "1_present":       "1\n",
		fanCPLD + "1_fault":         "0\n",
		fanCPLD + "11_fault":        "1\n",
		fanCPLD + "2_present":       "0\n",
		psu1CPLD + "psu_present":    "1\n",
		psu1CPLD + "psu_power_good": "1\n",
	})

	front := NewFan(fs, profile, 0, 0)
	if !front.Presence() {
		t.Error("front Presence = false, want true")
	}
	if !front.Status() {
		t.Error("front Status = false, want true (fault clear)")
	}

	// The rear rotor's fault node (11) is raised.
	rear := NewFan(fs, profile, 0, 1)
	if rear.Status() {
		t.Error("rear Status = true, want false (fault raised)")
	}

	if NewFan(fs, profile, 1, 0).Presence() {
		t.Error("tray 2 Presence = true, want false")
	}
	// Unreadable fault node means not operating.
	if NewFan(fs, profile, 1, 0).Status() {
		t.Error("tray 2 Status = true, want false")
	}

	psuFan := NewPSUFan(fs, profile, 0)
	if !psuFan.Presence() || !psuFan.Status() {
		t.Error("PSU fan with present+power_good: want Presence and Status true")
	}
}

func TestFan_StatusLED(t *testing.T) {
	fs, profile := fanFixture(t, map[string]string{
		fanCPLD + "1_present": "1\n",
		fanCPLD + "1_fault":   "0\n",
		fanCPLD + "2_present": "1\n",
		fanCPLD + "2_fault":   "1\n",
		fanCPLD + "3_present": "0\n",
	})

	if got := NewFan(fs, profile, 0, 0).StatusLED(); got != LEDGreen {
		t.Errorf("healthy fan LED = %q, want green", got)
	}
	if got := NewFan(fs, profile, 1, 0).StatusLED(); got != LEDAmber {
		t.Errorf("faulted fan LED = %q, want amber", got)
	}
	if got := NewFan(fs, profile, 2, 0).StatusLED(); got != LEDOff {
		t.Errorf("absent fan LED = %q, want off", got)
	}

	if err := NewFan(fs, profile, 0, 0).SetStatusLED(LEDGreen); !errors.Is(err, ErrNotSupported) {
		t.Errorf("SetStatusLED err = %v, want ErrNotSupported", err)
	}
}

func TestFan_PositionAndReplaceable(t *testing.T) {
	fs, profile := fanFixture(t, nil)

	front := NewFan(fs, profile, 2, 0)
	if got := front.PositionInParent(); got != 1 {
		t.Errorf("front PositionInParent = %d, want 1", got)
	}
	rear := NewFan(fs, profile, 2, 1)
	if got := rear.PositionInParent(); got != 2 {
		t.Errorf("rear PositionInParent = %d, want 2", got)
	}
	if !front.IsReplaceable() {
		t.Error("tray fan IsReplaceable = false, want true")
	}

	psuFan := NewPSUFan(fs, profile, 1)
	if got := psuFan.PositionInParent(); got != 2 {
		t.Errorf("PSU fan PositionInParent = %d, want 2", got)
	}
	if psuFan.IsReplaceable() {
		t.Error("PSU fan IsReplaceable = true, want false")
	}
}

func TestProfile_TargetRPM(t *testing.T) {
	profile, err := ProfileByName("as9736-64d")
	if err != nil {
		t.Fatalf("ProfileByName: %v", err)
	}

	cases := []struct {
		duty, want int
	}{
		{0, 0},
		{5, 680},
		{50, 6800},
		{100, 13600},
		{52, 6800}, // normalised down to the 50% step
		{101, 13600},
		{-5, 0},
	}
	for _, tc := range cases {
		if got := profile.TargetRPM(tc.duty); got != tc.want {
			t.Errorf("TargetRPM(%d) = %d, want %d", tc.duty, got, tc.want)
		}
	}
}
