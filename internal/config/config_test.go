package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Plant != "motor" {
		t.Errorf("expected plant motor, got %s", cfg.Plant)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Limits.Low >= cfg.Limits.High {
		t.Error("default limits should be a proper range")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Plant = "servo"
	cfg.Setpoint = 3.14
	cfg.Gains.Kp = 12

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Plant != "servo" || loaded.Setpoint != 3.14 || loaded.Gains.Kp != 12 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	// Unset fields fall back to defaults.
	if loaded.Limits.High != DefaultHigh {
		t.Errorf("expected default high limit, got %v", loaded.Limits.High)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("servo", "step_small")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Setpoint != 3.14 {
		t.Errorf("expected setpoint 3.14, got %f", cfg.Setpoint)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("motor", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "cruise"); cfg != nil {
		t.Error("expected nil for nonexistent plant")
	}
}

func TestListPresets(t *testing.T) {
	if presets := ListPresets("motor"); len(presets) == 0 {
		t.Error("expected presets for motor")
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent plant")
	}
}
