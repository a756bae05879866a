package collector

import (
	"fmt"
	"sync"

	"platformagent/internal/config"
	"platformagent/internal/hal"
)

// Registry manages collector registration and lifecycle.
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]Collector
}

// NewRegistry creates a new collector registry.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]Collector),
	}
}

// Register adds a collector to the registry.
func (r *Registry) Register(c Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.collectors[name]; exists {
		return fmt.Errorf("collector %s already registered", name)
	}

	r.collectors[name] = c
	return nil
}

// Get retrieves a collector by name.
func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collectors[name]
	return c, ok
}

// All returns all registered collectors.
func (r *Registry) All() []Collector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Collector, 0, len(r.collectors))
	for _, c := range r.collectors {
		result = append(result, c)
	}
	return result
}

// Configure applies configuration to all registered collectors.
func (r *Registry) Configure(configs map[string]config.CollectorConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, cfg := range configs {
		if c, ok := r.collectors[name]; ok {
			if err := c.Configure(cfg); err != nil {
				return fmt.Errorf("failed to configure collector %s: %w", name, err)
			}
		}
	}
	return nil
}

// EnabledCollectors returns only the enabled collectors.
func (r *Registry) EnabledCollectors() []Collector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Collector
	for _, c := range r.collectors {
		if c.Enabled() {
			result = append(result, c)
		}
	}
	return result
}

// DefaultConfigs returns the default configuration of every registered
// collector, keyed by name.
func (r *Registry) DefaultConfigs() map[string]config.CollectorConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]config.CollectorConfig, len(r.collectors))
	for name, c := range r.collectors {
		result[name] = c.DefaultConfig()
	}
	return result
}

// PlatformRegistry creates a registry with the collectors for the given
// platform pre-registered. Platforms without fan tables get no fan
// collector.
func PlatformRegistry(p *hal.Platform) *Registry {
	r := NewRegistry()

	if len(p.Thermals) > 0 {
		_ = r.Register(NewThermalCollector(p.Thermals))
	}
	if len(p.Fans) > 0 {
		_ = r.Register(NewFanCollector(p.Fans))
	}
	_ = r.Register(NewHostCollector())

	return r
}
