package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// --- Default Config Tests ---

func TestDefaultConfig_Platform(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Platform != "as9736-64d" {
		t.Errorf("expected Platform=as9736-64d, got %q", cfg.Platform)
	}
	if cfg.SenderType != "statedb" {
		t.Errorf("expected SenderType=statedb, got %q", cfg.SenderType)
	}
}

func TestDefaultConfig_StateDB(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.StateDB.Address != "localhost:6379" {
		t.Errorf("expected StateDB.Address=localhost:6379, got %q", cfg.StateDB.Address)
	}
	if cfg.StateDB.DB != 6 {
		t.Errorf("expected StateDB.DB=6, got %d", cfg.StateDB.DB)
	}
	if cfg.StateDB.Password != "" {
		t.Errorf("expected StateDB.Password='', got %q", cfg.StateDB.Password)
	}
}

// --- Parse Tests ---

func TestParse_FullConfig(t *testing.T) {
	input := `{
		"Platform": "as7926-40xfb",
		"SenderType": "kafka",
		"ThresholdOverridePath": "/etc/platform/overrides.json",
		"Kafka": {
			"Brokers": ["broker1:9092", "broker2:9092"],
			"Topic": "telemetry",
			"RetryBackoff": "250ms",
			"FlushFrequency": "2s",
			"Timeout": "5s"
		},
		"Collectors": {
			"thermal": {"Enabled": true, "Interval": "30s", "IncludeSensors": ["Temp sensor 1"]},
			"fan": {"Enabled": false, "Interval": "1m"}
		}
	}`

	cfg, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Platform != "as7926-40xfb" {
		t.Errorf("Platform = %q, want as7926-40xfb", cfg.Platform)
	}
	if cfg.SenderType != "kafka" {
		t.Errorf("SenderType = %q, want kafka", cfg.SenderType)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Brokers = %v, want 2 entries", cfg.Kafka.Brokers)
	}
	if cfg.Kafka.RetryBackoff != 250*time.Millisecond {
		t.Errorf("RetryBackoff = %v, want 250ms", cfg.Kafka.RetryBackoff)
	}
	if cfg.Kafka.FlushFrequency != 2*time.Second {
		t.Errorf("FlushFrequency = %v, want 2s", cfg.Kafka.FlushFrequency)
	}

	thermal, ok := cfg.Collectors["thermal"]
	if !ok {
		t.Fatal("thermal collector config missing")
	}
	if !thermal.Enabled || thermal.Interval != 30*time.Second {
		t.Errorf("thermal = %+v, want enabled with 30s interval", thermal)
	}
	if len(thermal.IncludeSensors) != 1 || thermal.IncludeSensors[0] != "Temp sensor 1" {
		t.Errorf("IncludeSensors = %v", thermal.IncludeSensors)
	}

	fan, ok := cfg.Collectors["fan"]
	if !ok {
		t.Fatal("fan collector config missing")
	}
	if fan.Enabled || fan.Interval != time.Minute {
		t.Errorf("fan = %+v, want disabled with 1m interval", fan)
	}
}

func TestParse_EmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	def := DefaultConfig()
	if cfg.Platform != def.Platform {
		t.Errorf("Platform = %q, want default %q", cfg.Platform, def.Platform)
	}
	if cfg.StateDB.Address != def.StateDB.Address {
		t.Errorf("StateDB.Address = %q, want default %q", cfg.StateDB.Address, def.StateDB.Address)
	}
	if cfg.Kafka.Timeout != def.Kafka.Timeout {
		t.Errorf("Kafka.Timeout = %v, want default %v", cfg.Kafka.Timeout, def.Kafka.Timeout)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	input := `{"Collectors": {"thermal": {"Enabled": true, "Interval": "soon"}}}`
	if _, err := Parse([]byte(input)); err == nil {
		t.Error("expected error for invalid duration")
	}
}

// --- Load Tests ---

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadSplit(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "platformagent.json")
	loggingPath := filepath.Join(dir, "logging.json")

	if err := os.WriteFile(configPath, []byte(`{"Platform": "as9736-64d"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(loggingPath, []byte(`{"Level": "debug", "Console": true}`), 0o644); err != nil {
		t.Fatalf("write logging: %v", err)
	}

	cfg, lc, err := LoadSplit(configPath, loggingPath)
	if err != nil {
		t.Fatalf("LoadSplit failed: %v", err)
	}
	if cfg.Platform != "as9736-64d" {
		t.Errorf("Platform = %q", cfg.Platform)
	}
	if lc.Level != "debug" {
		t.Errorf("logging Level = %q, want debug", lc.Level)
	}
	if !lc.Console {
		t.Error("logging Console = false, want true")
	}
}

func TestLoadLogging_MissingFileUsesDefaults(t *testing.T) {
	lc, err := LoadLogging(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadLogging failed: %v", err)
	}
	if lc.Level != "info" {
		t.Errorf("Level = %q, want default info", lc.Level)
	}
}
