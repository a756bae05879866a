package collector

import (
	"context"
	"errors"
	"time"

	"platformagent/internal/config"
	"platformagent/internal/hal"
	"platformagent/internal/logger"
)

// ThermalCollector walks the platform thermal sensors.
type ThermalCollector struct {
	BaseCollector
	thermals       []*hal.Thermal
	includeSensors []string // specific sensors to include; empty means all
}

// NewThermalCollector creates a thermal collector over the platform devices.
func NewThermalCollector(thermals []*hal.Thermal) *ThermalCollector {
	return &ThermalCollector{
		BaseCollector: NewBaseCollector("thermal"),
		thermals:      thermals,
	}
}

// Configure applies the configuration to the collector.
func (c *ThermalCollector) Configure(cfg config.CollectorConfig) error {
	c.SetEnabled(cfg.Enabled)
	if cfg.Interval > 0 {
		c.SetInterval(cfg.Interval)
	}
	c.includeSensors = cfg.IncludeSensors
	return nil
}

// Collect reads every thermal sensor. Individual sensor failures surface as
// zero readings, never as a collection error.
func (c *ThermalCollector) Collect(ctx context.Context) (*MetricData, error) {
	log := logger.WithComponent("collector")
	sensors := make([]ThermalReading, 0, len(c.thermals))

	for _, th := range c.thermals {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		name := th.Name()
		if len(c.includeSensors) > 0 && !c.shouldInclude(name) {
			continue
		}

		reading := ThermalReading{
			Name:          name,
			TemperatureC:  th.Temperature(),
			Presence:      th.Presence(),
			Status:        th.Status(),
			Position:      th.PositionInParent(),
			IsReplaceable: th.IsReplaceable(),
		}
		if high, err := th.HighThreshold(); err == nil {
			reading.High = &high
		} else if !errors.Is(err, hal.ErrNotSupported) {
			log.Warn().Err(err).Str("sensor", name).Msg("High threshold unavailable")
		}
		if crit, err := th.HighCriticalThreshold(); err == nil {
			reading.HighCritical = &crit
		}

		sensors = append(sensors, reading)
	}

	return &MetricData{
		Type:      c.Name(),
		Timestamp: time.Now(),
		Data:      ThermalData{Sensors: sensors},
	}, nil
}

func (c *ThermalCollector) shouldInclude(name string) bool {
	for _, s := range c.includeSensors {
		if s == name {
			return true
		}
	}
	return false
}
