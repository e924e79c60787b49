package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if c.Scanner.HistoryWindow != 40 {
		t.Fatalf("history window = %d", c.Scanner.HistoryWindow)
	}
	if c.Scanner.PublishThreshold != 12 {
		t.Fatalf("threshold = %v", c.Scanner.PublishThreshold)
	}
	if c.Levels.Scalper.TP != 1.035 || c.Levels.Scalper.SL != 0.992 {
		t.Fatalf("scalper levels = %+v", c.Levels.Scalper)
	}
	if c.Levels.Ghost.TP != 1.10 || c.Levels.Ghost.SL != 0.987 {
		t.Fatalf("ghost levels = %+v", c.Levels.Ghost)
	}
	if c.LevelsFor("unknown") != c.Levels.Normal {
		t.Fatalf("unknown mode should fall back to normal")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("environment: test\nscanner:\n  poll_interval: 5s\n  history_window: 12\n  publish_threshold: 6\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Scanner.PollInterval != 5*time.Second {
		t.Fatalf("poll interval = %v", c.Scanner.PollInterval)
	}
	if c.Scanner.HistoryWindow != 12 || c.Scanner.PublishThreshold != 6 {
		t.Fatalf("overrides not applied: %+v", c.Scanner)
	}
	// untouched sections keep defaults
	if c.Indicators.RSIPeriod != 14 {
		t.Fatalf("rsi period = %d", c.Indicators.RSIPeriod)
	}
}

func TestExplicitLevelsPreserved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	// scalper deliberately set to the normal-mode values
	body := []byte("levels:\n  scalper: { tp: 1.06, sl: 0.99 }\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Levels.Scalper != (LevelPair{TP: 1.06, SL: 0.99}) {
		t.Fatalf("explicit scalper levels overridden: %+v", c.Levels.Scalper)
	}
	// modes absent from the file still get their per-mode defaults
	if c.Levels.Ghost != (LevelPair{TP: 1.10, SL: 0.987}) {
		t.Fatalf("ghost levels = %+v", c.Levels.Ghost)
	}
	if c.Levels.Normal != (LevelPair{TP: 1.06, SL: 0.99}) {
		t.Fatalf("normal levels = %+v", c.Levels.Normal)
	}
}

func TestKafkaEnabledRequiresBrokers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("kafka:\n  enabled: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for kafka without brokers")
	}
}
