package collector

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"platformagent/internal/config"
)

// HostCollector reports switch host uptime and identity.
type HostCollector struct {
	BaseCollector
}

// NewHostCollector creates a new host collector.
func NewHostCollector() *HostCollector {
	return &HostCollector{
		BaseCollector: NewBaseCollector("host"),
	}
}

// Configure applies the configuration to the collector.
func (c *HostCollector) Configure(cfg config.CollectorConfig) error {
	c.SetEnabled(cfg.Enabled)
	if cfg.Interval > 0 {
		c.SetInterval(cfg.Interval)
	}
	return nil
}

// Collect gathers host uptime and kernel information.
func (c *HostCollector) Collect(ctx context.Context) (*MetricData, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}

	bootTime := time.Unix(int64(info.BootTime), 0)

	return &MetricData{
		Type:      c.Name(),
		Timestamp: time.Now(),
		Data: HostData{
			Hostname:      info.Hostname,
			KernelVersion: info.KernelVersion,
			BootTimeUnix:  int64(info.BootTime),
			UptimeMinutes: time.Since(bootTime).Minutes(),
		},
	}, nil
}
