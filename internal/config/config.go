package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Run modes.
const (
	ModeSerial = "serial" // interactive: decode frames from the serial link
	ModeDemo   = "demo"   // open-loop: fixed sweep pattern, no serial input
)

// SerialConfig describes the inbound command link.
type SerialConfig struct {
	Port     string `yaml:"port"`      // e.g. /dev/serial0
	BaudRate int    `yaml:"baud_rate"` // reference setup uses 9600
}

// StepperConfig holds the stepper axis configuration.
type StepperConfig struct {
	StepPin             int     `yaml:"step_pin"`
	DirPin              int     `yaml:"dir_pin"`
	EnablePin           int     `yaml:"enable_pin"` // driver ENABLE (BCM). 0 = not used. Active LOW.
	StepsPerRev         int     `yaml:"steps_per_rev"`
	MinAngleDeg         float64 `yaml:"min_angle_deg"`
	MaxAngleDeg         float64 `yaml:"max_angle_deg"`
	StepDelayUs         int     `yaml:"step_delay_us"`          // per half-cycle of the STEP pulse
	MaxStepIncrementDeg float64 `yaml:"max_step_increment_deg"` // max degrees per control tick
}

// ServoConfig holds the servo axis configuration.
type ServoConfig struct {
	Pin           int `yaml:"pin"` // hardware PWM pin (BCM 12, 13, 18 or 19)
	MinAngleDeg   int `yaml:"min_angle_deg"`
	MaxAngleDeg   int `yaml:"max_angle_deg"`
	SettleDelayMs int `yaml:"settle_delay_ms"` // pause after a write so the horn catches up
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	Mode        string `yaml:"mode"`          // "serial" or "demo"
	TickDelayMs int    `yaml:"tick_delay_ms"` // idle delay at the end of each control tick
	DebugLevel  int    `yaml:"debug_level"`   // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockHW      bool   `yaml:"mock_hw"`       // use mock GPIO/servo/serial (true=dev/test, false=real hardware)
}

// Config aggregates all application configuration.
type Config struct {
	Serial   SerialConfig   `yaml:"serial"`
	Stepper  StepperConfig  `yaml:"stepper"`
	Servo    ServoConfig    `yaml:"servo"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation and defaulting
	if cfg.Defaults.Mode == "" {
		cfg.Defaults.Mode = ModeSerial
	}
	if cfg.Defaults.Mode != ModeSerial && cfg.Defaults.Mode != ModeDemo {
		return nil, fmt.Errorf("mode must be %q or %q, got %q", ModeSerial, ModeDemo, cfg.Defaults.Mode)
	}
	if cfg.Defaults.DebugLevel < 0 || cfg.Defaults.DebugLevel > 4 {
		return nil, fmt.Errorf("debug_level must be between 0 and 4, got %d", cfg.Defaults.DebugLevel)
	}
	if cfg.Defaults.TickDelayMs <= 0 {
		cfg.Defaults.TickDelayMs = 10
	}

	if cfg.Serial.Port == "" {
		cfg.Serial.Port = "/dev/serial0"
	}
	if cfg.Serial.BaudRate <= 0 {
		cfg.Serial.BaudRate = 9600
	}

	if cfg.Stepper.StepsPerRev <= 0 {
		cfg.Stepper.StepsPerRev = 200 // 1.8° per step
	}
	if cfg.Stepper.MaxAngleDeg == 0 {
		cfg.Stepper.MaxAngleDeg = 270
	}
	if cfg.Stepper.MinAngleDeg < 0 {
		return nil, fmt.Errorf("stepper min_angle_deg must be >= 0, got %g", cfg.Stepper.MinAngleDeg)
	}
	if cfg.Stepper.MaxAngleDeg > 360 {
		return nil, fmt.Errorf("stepper max_angle_deg must be <= 360, got %g", cfg.Stepper.MaxAngleDeg)
	}
	if cfg.Stepper.MinAngleDeg >= cfg.Stepper.MaxAngleDeg {
		return nil, fmt.Errorf("stepper min_angle_deg (%g) must be below max_angle_deg (%g)",
			cfg.Stepper.MinAngleDeg, cfg.Stepper.MaxAngleDeg)
	}
	if cfg.Stepper.StepDelayUs <= 0 {
		cfg.Stepper.StepDelayUs = 800
	}
	if cfg.Stepper.MaxStepIncrementDeg <= 0 {
		cfg.Stepper.MaxStepIncrementDeg = 2
	}

	if cfg.Servo.MaxAngleDeg == 0 {
		cfg.Servo.MaxAngleDeg = 60
	}
	if cfg.Servo.MinAngleDeg < 0 {
		return nil, fmt.Errorf("servo min_angle_deg must be >= 0, got %d", cfg.Servo.MinAngleDeg)
	}
	if cfg.Servo.MaxAngleDeg > 180 {
		return nil, fmt.Errorf("servo max_angle_deg must be <= 180, got %d", cfg.Servo.MaxAngleDeg)
	}
	if cfg.Servo.MinAngleDeg >= cfg.Servo.MaxAngleDeg {
		return nil, fmt.Errorf("servo min_angle_deg (%d) must be below max_angle_deg (%d)",
			cfg.Servo.MinAngleDeg, cfg.Servo.MaxAngleDeg)
	}
	if cfg.Servo.SettleDelayMs <= 0 {
		cfg.Servo.SettleDelayMs = 15
	}

	return &cfg, nil
}

// StepDelay returns the duration of one STEP pulse half-cycle.
func (c *Config) StepDelay() time.Duration {
	return time.Duration(c.Stepper.StepDelayUs) * time.Microsecond
}

// SettleDelay returns the pause after a servo write.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Servo.SettleDelayMs) * time.Millisecond
}

// TickDelay returns the idle delay between control loop ticks.
func (c *Config) TickDelay() time.Duration {
	return time.Duration(c.Defaults.TickDelayMs) * time.Millisecond
}
