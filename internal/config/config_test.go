package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// A minimal config: everything not given should get firmware defaults.
	path := writeConfig(t, `
stepper:
  step_pin: 2
  dir_pin: 3
servo:
  pin: 18
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Defaults.Mode != ModeSerial {
		t.Errorf("default mode = %q, want serial", cfg.Defaults.Mode)
	}
	if cfg.Serial.Port != "/dev/serial0" {
		t.Errorf("default serial port = %q", cfg.Serial.Port)
	}
	if cfg.Serial.BaudRate != 9600 {
		t.Errorf("default baud = %d, want 9600", cfg.Serial.BaudRate)
	}
	if cfg.Stepper.StepsPerRev != 200 {
		t.Errorf("default steps_per_rev = %d, want 200", cfg.Stepper.StepsPerRev)
	}
	if cfg.Stepper.MaxAngleDeg != 270 {
		t.Errorf("default stepper max = %g, want 270", cfg.Stepper.MaxAngleDeg)
	}
	if cfg.Stepper.MaxStepIncrementDeg != 2 {
		t.Errorf("default max increment = %g, want 2", cfg.Stepper.MaxStepIncrementDeg)
	}
	if cfg.Servo.MaxAngleDeg != 60 {
		t.Errorf("default servo max = %d, want 60", cfg.Servo.MaxAngleDeg)
	}
	if cfg.StepDelay() != 800*time.Microsecond {
		t.Errorf("StepDelay = %v, want 800µs", cfg.StepDelay())
	}
	if cfg.SettleDelay() != 15*time.Millisecond {
		t.Errorf("SettleDelay = %v, want 15ms", cfg.SettleDelay())
	}
	if cfg.TickDelay() != 10*time.Millisecond {
		t.Errorf("TickDelay = %v, want 10ms", cfg.TickDelay())
	}
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
serial:
  port: /dev/ttyUSB0
  baud_rate: 115200
stepper:
  step_pin: 17
  dir_pin: 27
  enable_pin: 22
  steps_per_rev: 400
  max_angle_deg: 180
  step_delay_us: 500
  max_step_increment_deg: 4
servo:
  pin: 12
  max_angle_deg: 90
  settle_delay_ms: 20
defaults:
  mode: demo
  tick_delay_ms: 5
  debug_level: 3
  mock_hw: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.Mode != ModeDemo {
		t.Errorf("mode = %q, want demo", cfg.Defaults.Mode)
	}
	if cfg.Serial.BaudRate != 115200 {
		t.Errorf("baud = %d", cfg.Serial.BaudRate)
	}
	if cfg.Stepper.MaxStepIncrementDeg != 4 {
		t.Errorf("max increment = %g", cfg.Stepper.MaxStepIncrementDeg)
	}
	if !cfg.Defaults.MockHW {
		t.Error("mock_hw should be true")
	}
	if cfg.TickDelay() != 5*time.Millisecond {
		t.Errorf("TickDelay = %v", cfg.TickDelay())
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad_mode", "defaults:\n  mode: turbo\n"},
		{"bad_debug_level", "defaults:\n  debug_level: 9\n"},
		{"stepper_min_over_max", "stepper:\n  min_angle_deg: 280\n"},
		{"stepper_max_too_large", "stepper:\n  max_angle_deg: 400\n"},
		{"servo_max_too_large", "servo:\n  max_angle_deg: 200\n"},
		{"servo_min_over_max", "servo:\n  min_angle_deg: 60\n  max_angle_deg: 30\n"},
		{"negative_servo_min", "servo:\n  min_angle_deg: -5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "stepper: [not a map")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
