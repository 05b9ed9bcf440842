package control

import (
	"time"

	"github.com/odemirel/turretgo/internal/debug"
	"github.com/odemirel/turretgo/internal/hw/servo"
)

// ServoMotion applies the servo target in a single write per tick: no
// ramping, just clamp, write if changed, and pause for the settle delay so
// the horn catches up before the loop continues.
type ServoMotion struct {
	out   servo.Servo
	state *State
	clock Clock

	minAngle int
	maxAngle int
	settle   time.Duration
}

// NewServoMotion creates the direct-write motion controller for the servo
// axis.
func NewServoMotion(out servo.Servo, state *State, clock Clock, minAngle, maxAngle int, settle time.Duration) *ServoMotion {
	return &ServoMotion{
		out:      out,
		state:    state,
		clock:    clock,
		minAngle: minAngle,
		maxAngle: maxAngle,
		settle:   settle,
	}
}

// Advance writes the clamped target if it differs from the current angle.
// No-op when unchanged, which skips both the write and the settle delay.
func (m *ServoMotion) Advance() error {
	target := clampInt(m.state.ServoTarget(), m.minAngle, m.maxAngle)
	if target == m.state.ServoCurrent() {
		return nil
	}

	debug.Live("Servo: %d° -> %d°", m.state.ServoCurrent(), target)
	if err := m.out.Write(target); err != nil {
		return err
	}
	m.state.setServoCurrent(target)
	m.clock.Sleep(m.settle)
	return nil
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
