package hal

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"platformagent/internal/logger"
	"platformagent/internal/sysfs"
)

// thresholdOverride is one entry of the override file. Fields are pointers so
// a file can override just one of the two values for a sensor.
type thresholdOverride struct {
	High         *float64 `json:"high_threshold"`
	HighCritical *float64 `json:"high_critical_threshold"`
}

// ThresholdStore resolves per-sensor temperature thresholds. Resolution
// order: live override file, then the platform default table. A sensor known
// to neither yields ErrNotSupported.
type ThresholdStore struct {
	fs       *sysfs.FS
	path     string // override file; empty disables overrides
	defaults map[string]Thresholds

	mu        sync.RWMutex
	overrides map[string]thresholdOverride
}

// NewThresholdStore creates a store over the profile's default table. If
// overridePath is non-empty the file is loaded immediately; a missing file is
// not an error, a malformed one is reported and ignored.
func NewThresholdStore(fs *sysfs.FS, profile *Profile, overridePath string) *ThresholdStore {
	s := &ThresholdStore{
		fs:       fs,
		path:     overridePath,
		defaults: profile.DefaultThresholds,
	}
	if err := s.Reload(); err != nil && !os.IsNotExist(err) {
		log := logger.WithComponent("thresholds")
		log.Warn().Err(err).Str("path", overridePath).Msg("Ignoring threshold override file")
	}
	return s
}

// Reload re-reads the override file. Called at startup and by the file
// watcher when the file changes.
func (s *ThresholdStore) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.overrides = nil
			s.mu.Unlock()
		}
		return err
	}

	var overrides map[string]thresholdOverride
	if err := json.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse threshold overrides %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.overrides = overrides
	s.mu.Unlock()

	log := logger.WithComponent("thresholds")
	log.Info().Str("path", s.path).Int("sensors", len(overrides)).Msg("Threshold overrides loaded")
	return nil
}

// High returns the high threshold for the named sensor.
func (s *ThresholdStore) High(name string) (float64, error) {
	s.mu.RLock()
	if o, ok := s.overrides[name]; ok && o.High != nil {
		s.mu.RUnlock()
		return *o.High, nil
	}
	s.mu.RUnlock()

	if def, ok := s.defaults[name]; ok {
		return def.High, nil
	}
	return 0, fmt.Errorf("high threshold for %q: %w", name, ErrNotSupported)
}

// HighCritical returns the high critical threshold for the named sensor.
func (s *ThresholdStore) HighCritical(name string) (float64, error) {
	s.mu.RLock()
	if o, ok := s.overrides[name]; ok && o.HighCritical != nil {
		s.mu.RUnlock()
		return *o.HighCritical, nil
	}
	s.mu.RUnlock()

	if def, ok := s.defaults[name]; ok {
		return def.HighCritical, nil
	}
	return 0, fmt.Errorf("high critical threshold for %q: %w", name, ErrNotSupported)
}
