package stepper

import (
	"time"

	"github.com/odemirel/turretgo/internal/debug"
	"github.com/odemirel/turretgo/internal/hw/gpio"
)

// Config holds the hardware configuration for a stepper motor driver
// with a STEP/DIR interface (A4988 or similar).
type Config struct {
	StepPin     int
	DirPin      int
	EnablePin   int // driver ENABLE pin. 0 = not used. Active LOW (LOW=enabled).
	StepsPerRev int
	StepDelay   time.Duration // delay per half-cycle of STEP pulse. Total step = 2*StepDelay.
}

// Stepper provides a simple API for pulsing a stepper motor.
// Position tracking and ramping live above this layer.
type Stepper struct {
	gpio  gpio.Driver
	cfg   Config
	delay time.Duration // delay between STEP pulse half-cycles
}

// NewStepper creates a new stepper motor driver and configures its pins.
// The motor is enabled immediately when an ENABLE pin is configured.
// cfg.StepDelay: if 0, defaults to 800µs per half-cycle.
func NewStepper(g gpio.Driver, cfg Config) *Stepper {
	_ = g.SetupPin(cfg.StepPin, gpio.Output)
	_ = g.SetupPin(cfg.DirPin, gpio.Output)

	delay := cfg.StepDelay
	if delay <= 0 {
		delay = 800 * time.Microsecond
	}

	s := &Stepper{
		gpio:  g,
		cfg:   cfg,
		delay: delay,
	}

	// ENABLE is active LOW: LOW = enabled, HIGH = disabled.
	if cfg.EnablePin > 0 {
		_ = g.SetupPin(cfg.EnablePin, gpio.Output)
		_ = g.WritePin(cfg.EnablePin, gpio.Low) // enable by default
	}

	return s
}

// StepsPerRev returns the configured full steps per revolution.
func (s *Stepper) StepsPerRev() int {
	return s.cfg.StepsPerRev
}

// MoveSteps moves the motor by a number of steps (positive or negative).
// This blocks for the full pulse train: steps * 2 * StepDelay.
func (s *Stepper) MoveSteps(steps int) error {
	if steps == 0 {
		return nil
	}

	var dirLevel gpio.Level
	var direction string
	if steps > 0 {
		dirLevel = gpio.High
		direction = "forward"
	} else {
		dirLevel = gpio.Low
		direction = "backward"
		steps = -steps
	}

	debug.Move("stepper", steps, direction)

	if err := s.gpio.WritePin(s.cfg.DirPin, dirLevel); err != nil {
		return err
	}

	for i := 0; i < steps; i++ {
		if err := s.stepPulse(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stepper) stepPulse() error {
	if err := s.gpio.WritePin(s.cfg.StepPin, gpio.High); err != nil {
		return err
	}
	time.Sleep(s.delay)
	if err := s.gpio.WritePin(s.cfg.StepPin, gpio.Low); err != nil {
		return err
	}
	time.Sleep(s.delay)
	return nil
}

// Enable turns on the motor driver (ENABLE=LOW). The motor holds position.
func (s *Stepper) Enable() error {
	if s.cfg.EnablePin <= 0 {
		return nil
	}
	return s.gpio.WritePin(s.cfg.EnablePin, gpio.Low)
}

// Disable turns off the motor driver (ENABLE=HIGH). The motor freewheels.
func (s *Stepper) Disable() error {
	if s.cfg.EnablePin <= 0 {
		return nil
	}
	return s.gpio.WritePin(s.cfg.EnablePin, gpio.High)
}
