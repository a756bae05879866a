package sender

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"platformagent/internal/collector"
	"platformagent/internal/config"
	"platformagent/internal/logger"
	"platformagent/internal/network"
)

// timestampLayout matches what the other platform daemons write into the
// state database.
const timestampLayout = "20060102 15:04:05"

// StateDBSender publishes telemetry into the switch state database, the
// Redis instance the platform daemons share. Thermal readings land in
// TEMPERATURE_INFO hashes, fan readings in FAN_INFO hashes, keyed by the
// device name.
type StateDBSender struct {
	client *redis.Client
	mu     sync.RWMutex
	closed bool
}

// NewStateDBSender creates a sender connected to the state database.
func NewStateDBSender(cfg config.StateDBConfig, socksCfg config.SOCKSConfig) (*StateDBSender, error) {
	log := logger.WithComponent("statedb-sender")

	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if dialFunc := network.DialerFunc(socksCfg.Host, socksCfg.Port); dialFunc != nil {
		opts.Dialer = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialFunc(network, addr)
		}
	}

	log.Info().
		Str("address", cfg.Address).
		Int("db", cfg.DB).
		Msg("StateDBSender initialized")

	return &StateDBSender{client: redis.NewClient(opts)}, nil
}

// Send writes the readings of one collection into the state database.
// Unknown payload types are skipped silently so new collectors do not break
// the sender.
func (s *StateDBSender) Send(ctx context.Context, data *collector.MetricData) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return fmt.Errorf("sender is closed")
	}
	s.mu.RUnlock()

	timestamp := data.Timestamp.Format(timestampLayout)

	pipe := s.client.Pipeline()
	switch payload := data.Data.(type) {
	case collector.ThermalData:
		for _, sensor := range payload.Sensors {
			pipe.HSet(ctx, "TEMPERATURE_INFO|"+sensor.Name, thermalFields(sensor, timestamp))
		}
	case collector.FanData:
		for _, fan := range payload.Fans {
			pipe.HSet(ctx, "FAN_INFO|"+fan.Name, fanFields(fan, timestamp))
		}
	case collector.HostData:
		pipe.HSet(ctx, "PLATFORM_HOST_INFO", map[string]interface{}{
			"hostname":       payload.Hostname,
			"kernel_version": payload.KernelVersion,
			"boot_time":      strconv.FormatInt(payload.BootTimeUnix, 10),
			"uptime_minutes": strconv.FormatFloat(payload.UptimeMinutes, 'f', 1, 64),
			"timestamp":      timestamp,
		})
	default:
		return nil
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write %s data to state database: %w", data.Type, err)
	}
	return nil
}

// SendBatch writes multiple metric data items.
func (s *StateDBSender) SendBatch(ctx context.Context, data []*collector.MetricData) error {
	for _, d := range data {
		if err := s.Send(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the Redis connection.
func (s *StateDBSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.client.Close()
}

func thermalFields(sensor collector.ThermalReading, timestamp string) map[string]interface{} {
	fields := map[string]interface{}{
		"temperature":             strconv.FormatFloat(sensor.TemperatureC, 'f', 3, 64),
		"high_threshold":          "N/A",
		"critical_high_threshold": "N/A",
		"warning_status":          "false",
		"timestamp":               timestamp,
	}
	if sensor.High != nil {
		fields["high_threshold"] = strconv.FormatFloat(*sensor.High, 'f', 3, 64)
		fields["warning_status"] = strconv.FormatBool(sensor.TemperatureC > *sensor.High)
	}
	if sensor.HighCritical != nil {
		fields["critical_high_threshold"] = strconv.FormatFloat(*sensor.HighCritical, 'f', 3, 64)
	}
	return fields
}

func fanFields(fan collector.FanReading, timestamp string) map[string]interface{} {
	return map[string]interface{}{
		"presence":        strconv.FormatBool(fan.Presence),
		"status":          strconv.FormatBool(fan.Status),
		"direction":       fan.Direction,
		"speed":           strconv.Itoa(fan.SpeedPercent),
		"speed_target":    strconv.Itoa(fan.TargetPercent),
		"speed_tolerance": strconv.Itoa(fan.TolerancePct),
		"led_status":      fan.StatusLED,
		"timestamp":       timestamp,
	}
}
