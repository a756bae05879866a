package collector

import (
	"context"
	"time"

	"platformagent/internal/config"
	"platformagent/internal/hal"
)

// FanCollector walks the platform fan rotors.
type FanCollector struct {
	BaseCollector
	fans           []*hal.Fan
	includeSensors []string
}

// NewFanCollector creates a fan collector over the platform devices.
func NewFanCollector(fans []*hal.Fan) *FanCollector {
	return &FanCollector{
		BaseCollector: NewBaseCollector("fan"),
		fans:          fans,
	}
}

// Configure applies the configuration to the collector.
func (c *FanCollector) Configure(cfg config.CollectorConfig) error {
	c.SetEnabled(cfg.Enabled)
	if cfg.Interval > 0 {
		c.SetInterval(cfg.Interval)
	}
	c.includeSensors = cfg.IncludeSensors
	return nil
}

// Collect reads every fan rotor.
func (c *FanCollector) Collect(ctx context.Context) (*MetricData, error) {
	fans := make([]FanReading, 0, len(c.fans))

	for _, f := range c.fans {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		name := f.Name()
		if len(c.includeSensors) > 0 && !c.shouldInclude(name) {
			continue
		}

		fans = append(fans, FanReading{
			Name:          name,
			SpeedPercent:  f.Speed(),
			TargetPercent: f.TargetSpeed(),
			TolerancePct:  f.SpeedTolerance(),
			Direction:     f.Direction(),
			Presence:      f.Presence(),
			Status:        f.Status(),
			StatusLED:     f.StatusLED(),
			Position:      f.PositionInParent(),
			IsReplaceable: f.IsReplaceable(),
		})
	}

	return &MetricData{
		Type:      c.Name(),
		Timestamp: time.Now(),
		Data:      FanData{Fans: fans},
	}, nil
}

func (c *FanCollector) shouldInclude(name string) bool {
	for _, s := range c.includeSensors {
		if s == name {
			return true
		}
	}
	return false
}
