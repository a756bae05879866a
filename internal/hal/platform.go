package hal

import "platformagent/internal/sysfs"

// Platform aggregates the devices of one hardware variant, built from the
// profile's static tables.
type Platform struct {
	Profile    *Profile
	Thresholds *ThresholdStore
	Thermals   []*Thermal
	Fans       []*Fan
	FanUtil    *FanUtil
}

// NewPlatform instantiates every device the profile declares: board and PSU
// thermal sensors, tray fan rotors, PSU fans, and the legacy fan-control
// surface when the variant has a fan CPLD.
func NewPlatform(fs *sysfs.FS, profile *Profile, thresholds *ThresholdStore) *Platform {
	p := &Platform{
		Profile:    profile,
		Thresholds: thresholds,
	}

	for i := 0; i < profile.NumThermals(); i++ {
		p.Thermals = append(p.Thermals, NewThermal(fs, profile, thresholds, i))
	}
	for i := 0; i < len(profile.PSUThermalNames); i++ {
		p.Thermals = append(p.Thermals, NewPSUThermal(fs, profile, thresholds, i))
	}

	for tray := 0; tray < profile.FanTrays; tray++ {
		p.Fans = append(p.Fans, NewFan(fs, profile, tray, 0), NewFan(fs, profile, tray, 1))
	}
	if profile.FanTrays > 0 {
		for i := 0; i < profile.NumPSUs(); i++ {
			p.Fans = append(p.Fans, NewPSUFan(fs, profile, i))
		}
		p.FanUtil = NewFanUtil(fs, profile)
	}

	return p
}
