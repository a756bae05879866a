package hal

import (
	"testing"

	"github.com/spf13/afero"

	"platformagent/internal/sysfs"
)

func TestNewPlatform_AS7926(t *testing.T) {
	fs := sysfs.NewWithFs(afero.NewMemMapFs())
	profile, err := ProfileByName("as7926-40xfb")
	if err != nil {
		t.Fatalf("ProfileByName: %v", err)
	}
	p := NewPlatform(fs, profile, NewThresholdStore(fs, profile, ""))

	// 19 board/CPU sensors plus one per PSU.
	if got := len(p.Thermals); got != 21 {
		t.Errorf("thermal count = %d, want 21", got)
	}
	if len(p.Fans) != 0 {
		t.Errorf("fan count = %d, want 0 (no fan CPLD tables)", len(p.Fans))
	}
	if p.FanUtil != nil {
		t.Error("FanUtil != nil, want nil")
	}
}

func TestNewPlatform_AS9736(t *testing.T) {
	fs := sysfs.NewWithFs(afero.NewMemMapFs())
	profile, err := ProfileByName("as9736-64d")
	if err != nil {
		t.Fatalf("ProfileByName: %v", err)
	}
	p := NewPlatform(fs, profile, NewThresholdStore(fs, profile, ""))

	// 4 trays x 2 rotors plus one fan per PSU.
	if got := len(p.Fans); got != 10 {
		t.Errorf("fan count = %d, want 10", got)
	}
	if p.FanUtil == nil {
		t.Fatal("FanUtil = nil, want legacy surface")
	}
	if got := len(p.Thermals); got != 0 {
		t.Errorf("thermal count = %d, want 0", got)
	}
}

func TestProfileByName_Unknown(t *testing.T) {
	if _, err := ProfileByName("as0000-0x"); err == nil {
		t.Error("ProfileByName(unknown): err = nil, want error")
	}
}
