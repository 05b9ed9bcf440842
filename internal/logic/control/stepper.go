package control

import (
	"math"

	"github.com/odemirel/turretgo/internal/debug"
	"github.com/odemirel/turretgo/internal/hw/stepper"
)

// deadband is the convergence threshold in degrees. Repeated rounding of
// step counts means the current angle may never reach the target to the
// last fraction of a degree; inside the dead-band the axis is considered
// at target, otherwise it would twitch by sub-step fractions forever.
const deadband = 0.5

// StepperMotion advances the stepper's tracked angle toward its target by
// a bounded increment per control tick.
type StepperMotion struct {
	motor *stepper.Stepper
	state *State

	minAngle     float64
	maxAngle     float64
	maxIncrement float64 // max degrees moved per tick
}

// NewStepperMotion creates the incremental motion controller for the
// stepper axis.
func NewStepperMotion(motor *stepper.Stepper, state *State, minAngle, maxAngle, maxIncrement float64) *StepperMotion {
	return &StepperMotion{
		motor:        motor,
		state:        state,
		minAngle:     minAngle,
		maxAngle:     maxAngle,
		maxIncrement: maxIncrement,
	}
}

// Advance moves the motor one bounded increment toward the target and
// updates the tracked angle. The target is clamped here, not at dispatch,
// so an out-of-range command is never an error. Blocks for the duration
// of the pulse train.
func (m *StepperMotion) Advance() error {
	target := clampFloat(m.state.StepperTarget(), m.minAngle, m.maxAngle)
	current := m.state.StepperCurrent()

	diff := target - current
	if math.Abs(diff) < deadband {
		return nil // already at target
	}

	stepsPerRev := float64(m.motor.StepsPerRev())
	magnitude := math.Min(math.Abs(diff), m.maxIncrement)
	steps := int(math.Round(magnitude * stepsPerRev / 360.0))
	if steps < 1 {
		steps = 1 // always make progress toward a target outside the dead-band
	}

	debug.Verbose("Stepper: current=%.2f° target=%.2f° diff=%.2f° steps=%d",
		current, target, diff, steps)

	signedSteps := steps
	if diff < 0 {
		signedSteps = -steps
	}
	if err := m.motor.MoveSteps(signedSteps); err != nil {
		return err
	}

	moved := float64(steps) * 360.0 / stepsPerRev
	if diff > 0 {
		current += moved
		if current > target {
			current = target
		}
	} else {
		current -= moved
		if current < target {
			current = target
		}
	}
	current = clampFloat(current, m.minAngle, m.maxAngle)
	m.state.setStepperCurrent(current)
	return nil
}

// AtTarget reports whether the axis is within the dead-band of its
// (clamped) target.
func (m *StepperMotion) AtTarget() bool {
	target := clampFloat(m.state.StepperTarget(), m.minAngle, m.maxAngle)
	return math.Abs(target-m.state.StepperCurrent()) < deadband
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
