// Package scheduler provides metric collection scheduling functionality.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"platformagent/internal/collector"
	"platformagent/internal/logger"
	"platformagent/internal/sender"
)

// CollectorSource supplies the collectors to run. *collector.Registry
// satisfies it.
type CollectorSource interface {
	EnabledCollectors() []collector.Collector
}

// Scheduler manages the periodic collection of metrics.
type Scheduler struct {
	source   CollectorSource
	sender   sender.Sender
	clock    clock.Clock
	agentID  string
	hostname string
	platform string

	mu        sync.Mutex
	running   bool
	parentCtx context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a new scheduler with the given components.
func New(source CollectorSource, s sender.Sender, agentID, hostname, platform string) *Scheduler {
	return &Scheduler{
		source:   source,
		sender:   s,
		clock:    clock.New(),
		agentID:  agentID,
		hostname: hostname,
		platform: platform,
	}
}

// NewWithClock creates a scheduler driven by the given clock.
func NewWithClock(source CollectorSource, s sender.Sender, agentID, hostname, platform string, clk clock.Clock) *Scheduler {
	sched := New(source, s, agentID, hostname, platform)
	sched.clock = clk
	return sched
}

// Start begins the metric collection schedule.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	s.running = true
	s.parentCtx = ctx

	log := logger.WithComponent("scheduler")
	log.Info().Msg("Starting scheduler")

	s.startCollectors()
	return nil
}

// startCollectors spawns a goroutine per enabled collector. Caller holds mu.
func (s *Scheduler) startCollectors() {
	ctx, cancel := context.WithCancel(s.parentCtx)
	s.cancel = cancel

	log := logger.WithComponent("scheduler")
	collectors := s.source.EnabledCollectors()
	log.Info().Int("enabled_count", len(collectors)).Msg("Enabled collectors count")
	for _, c := range collectors {
		log.Info().Str("collector", c.Name()).Msg("Collector is enabled")
		s.wg.Add(1)
		go s.runCollector(ctx, c)
	}
}

// Reconfigure restarts the collector goroutines so interval and enablement
// changes take effect. A no-op if the scheduler is not running.
func (s *Scheduler) Reconfigure() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	log := logger.WithComponent("scheduler")
	log.Info().Msg("Reconfiguring scheduler")

	s.cancel()
	s.wg.Wait()
	s.startCollectors()
}

// Stop stops the scheduler and waits for all collectors to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	log := logger.WithComponent("scheduler")
	log.Info().Msg("Stopping scheduler, waiting for collectors to finish")

	s.wg.Wait()
	log.Info().Msg("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) runCollector(ctx context.Context, c collector.Collector) {
	defer s.wg.Done()

	log := logger.WithComponent("scheduler")
	name := c.Name()
	interval := c.Interval()

	log.Info().
		Str("collector", name).
		Dur("interval", interval).
		Msg("Starting collector")

	// Initial collection
	s.collect(ctx, c)

	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("collector", name).Msg("Collector stopped")
			return
		case <-ticker.C:
			s.collect(ctx, c)
		}
	}
}

func (s *Scheduler) collect(ctx context.Context, c collector.Collector) {
	log := logger.WithComponent("scheduler")
	name := c.Name()

	// Create a timeout context for collection
	collectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	startTime := time.Now()
	data, err := c.Collect(collectCtx)
	duration := time.Since(startTime)

	if err != nil {
		log.Error().
			Err(err).
			Str("collector", name).
			Dur("duration", duration).
			Msg("Collection failed")
		return
	}

	if data == nil {
		log.Warn().
			Str("collector", name).
			Msg("Collector returned nil data")
		return
	}

	// Enrich metric data with agent information
	data.AgentID = s.agentID
	data.Hostname = s.hostname
	data.Platform = s.platform

	sendCtx, sendCancel := context.WithTimeout(ctx, 10*time.Second)
	defer sendCancel()

	if err := s.sender.Send(sendCtx, data); err != nil {
		log.Error().
			Err(err).
			Str("collector", name).
			Msg("Failed to send metrics")
		return
	}

	log.Debug().
		Str("collector", name).
		Dur("duration", duration).
		Msg("Collection completed")
}
