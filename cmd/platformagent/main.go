// Package main is the entry point for the platform telemetry agent.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"platformagent/internal/collector"
	"platformagent/internal/config"
	"platformagent/internal/hal"
	"platformagent/internal/logger"
	"platformagent/internal/scheduler"
	"platformagent/internal/sender"
	"platformagent/internal/sysfs"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "conf/platformagent/platformagent.json", "Path to main configuration file")
		loggingPath = flag.String("logging", "conf/platformagent/logging.json", "Path to logging configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("platformagent %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	cfg, lc, err := config.LoadSplit(*configPath, *loggingPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(*lc); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.WithComponent("main")
	log.Info().
		Str("version", version).
		Str("config", *configPath).
		Str("logging", *loggingPath).
		Str("platform", cfg.Platform).
		Msg("Starting platformagent")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lc, *loggingPath); err != nil {
		log.Fatal().Err(err).Msg("Agent exited with error")
	}

	log.Info().Msg("platformagent stopped")
}

// setupSender creates the sender and logs sender-specific information.
func setupSender(cfg *config.Config, lc *logger.Config) (sender.Sender, error) {
	log := logger.WithComponent("main")

	// Consolidate console setting: logging.json Console is the master switch
	cfg.File.Console = lc.Console

	snd, err := sender.NewSender(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}

	switch strings.ToLower(cfg.SenderType) {
	case "file":
		log.Info().
			Str("file_path", cfg.File.FilePath).
			Bool("console", cfg.File.Console).
			Msg("Using file sender")
	case "kafka":
		log.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Connected to Kafka")
	default:
		log.Info().
			Str("address", cfg.StateDB.Address).
			Int("db", cfg.StateDB.DB).
			Msg("Using state database sender")
	}

	return snd, nil
}

// setupWatchers creates hot-reload watchers for the threshold override file
// and logging.json. Returns a cleanup function that stops all started
// watchers.
func setupWatchers(thresholds *hal.ThresholdStore, snd sender.Sender,
	overridePath, loggingPath string) func() {

	log := logger.WithComponent("main")
	var watcherMu sync.Mutex
	var cleanups []func()

	startWatcher := func(name string, w *config.FileWatcher, err error) {
		if err != nil {
			log.Warn().Err(err).Str("watcher", name).Msg("Failed to create watcher, hot reload disabled")
			return
		}
		if err := w.Start(); err != nil {
			log.Warn().Err(err).Str("watcher", name).Msg("Failed to start watcher")
			return
		}
		cleanups = append(cleanups, func() {
			log.Info().Str("watcher", name).Msg("Stopping watcher")
			if err := w.Stop(); err != nil {
				log.Error().Err(err).Str("watcher", name).Msg("Error stopping watcher")
			}
		})
	}

	if overridePath != "" {
		overrideWatcher, err := config.NewFileWatcher(overridePath, func() {
			watcherMu.Lock()
			defer watcherMu.Unlock()

			if err := thresholds.Reload(); err != nil && !os.IsNotExist(err) {
				log.Error().Err(err).Msg("Failed to reload threshold overrides")
				return
			}
			log.Info().Msg("Threshold overrides reloaded")
		})
		startWatcher("thresholds", overrideWatcher, err)
	}

	loggingWatcher, err := config.NewLoggingWatcher(loggingPath, func(newLC *logger.Config) {
		watcherMu.Lock()
		defer watcherMu.Unlock()

		log.Info().Msg("Applying logging configuration changes")

		if err := logger.Init(*newLC); err != nil {
			log.Error().Err(err).Msg("Failed to update logging configuration")
			return
		}

		if fs, ok := snd.(*sender.FileSender); ok {
			fs.SetConsole(newLC.Console)
			log.Info().Bool("console", newLC.Console).Msg("FileSender console updated")
		}

		log.Info().Msg("Logging configuration updated")
	})
	startWatcher("logging", loggingWatcher, err)

	return func() {
		// Stop in reverse order
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
}

func run(ctx context.Context, cfg *config.Config, lc *logger.Config, loggingPath string) error {
	log := logger.WithComponent("main")

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	// Phase 1: Platform devices
	profile, err := hal.ProfileByName(cfg.Platform)
	if err != nil {
		return err
	}
	fs := sysfs.New()
	thresholds := hal.NewThresholdStore(fs, profile, cfg.ThresholdOverridePath)
	platform := hal.NewPlatform(fs, profile, thresholds)

	log.Info().
		Str("platform", profile.Name).
		Int("thermals", len(platform.Thermals)).
		Int("fans", len(platform.Fans)).
		Bool("host", fs.IsHost()).
		Msg("Platform initialized")

	// Phase 2: Collectors
	registry := collector.PlatformRegistry(platform)
	if err := registry.Configure(cfg.Collectors); err != nil {
		return fmt.Errorf("failed to configure collectors: %w", err)
	}

	// Phase 3: Sender
	snd, err := setupSender(cfg, lc)
	if err != nil {
		return err
	}
	defer func() {
		log.Info().Msg("Closing sender")
		if err := snd.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing sender")
		}
	}()

	// Phase 4: Scheduler
	sched := scheduler.New(registry, snd, hostname, hostname, profile.Name)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// Phase 5: Watchers
	cleanupWatchers := setupWatchers(thresholds, snd, cfg.ThresholdOverridePath, loggingPath)
	defer cleanupWatchers()

	// Wait for context cancellation (shutdown signal)
	<-ctx.Done()
	log.Info().Msg("Received shutdown signal")

	// Stop scheduler (waits for all collectors to finish)
	sched.Stop()

	return nil
}
