package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/perlin/config"
	"github.com/pthm-cable/perlin/telemetry"
)

func TestNewLogger(t *testing.T) {
	lc := config.LogConfig{Format: "json", Level: "info"}

	if _, err := newLogger(lc, "", ""); err != nil {
		t.Errorf("config settings rejected: %v", err)
	}
	if _, err := newLogger(lc, "text", "debug"); err != nil {
		t.Errorf("flag overrides rejected: %v", err)
	}
	if _, err := newLogger(lc, "", "chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRunWritesOutput(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Field.Width, cfg.Field.Height = 32, 32
	cfg.Extrema.MaxEvals = 50

	dir := t.TempDir()
	if err := run(cfg, dir, 2, true); err != nil {
		t.Fatalf("run error: %v", err)
	}

	for _, name := range []string{
		telemetry.ProbesFile,
		telemetry.FieldStatsFile,
		telemetry.ExtremaFile,
		telemetry.PerfFile,
		telemetry.ConfigFile,
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRunWithoutOutput(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Field.Width, cfg.Field.Height = 4, 4

	if err := run(cfg, "", 0, false); err != nil {
		t.Fatalf("run error: %v", err)
	}
}
