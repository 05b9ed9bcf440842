package sweep

import (
	"context"
	"time"

	"github.com/odemirel/turretgo/internal/debug"
	"github.com/odemirel/turretgo/internal/logic/control"
)

// Runner drives the open-loop demo mode: no serial input, just a fixed
// sweep pattern. The stepper sweeps between its angle limits while the
// servo alternates between its endpoints once per pass, exercising both
// actuators through the same motion controllers as interactive mode.
type Runner struct {
	stepper *control.StepperMotion
	servo   *control.ServoMotion
	state   *control.State
	clock   control.Clock
	params  Params
}

// Params defines the sweep pattern.
type Params struct {
	StepperLow  float64       // sweep lower endpoint
	StepperHigh float64       // sweep upper endpoint
	ServoLow    int           // servo angle on even passes
	ServoHigh   int           // servo angle on odd passes
	TickDelay   time.Duration // idle delay per tick, as in interactive mode
	EndPause    time.Duration // pause at each sweep endpoint
}

func NewRunner(sm *control.StepperMotion, vm *control.ServoMotion, state *control.State, clock control.Clock, params Params) *Runner {
	if params.TickDelay <= 0 {
		params.TickDelay = 10 * time.Millisecond
	}
	if params.EndPause <= 0 {
		params.EndPause = time.Second
	}
	return &Runner{
		stepper: sm,
		servo:   vm,
		state:   state,
		clock:   clock,
		params:  params,
	}
}

// Run sweeps until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	debug.Section("Demo sweep")
	debug.Value("Stepper sweep", r.params.StepperHigh-r.params.StepperLow)
	debug.Value("End pause", r.params.EndPause)

	goingUp := true
	for {
		if goingUp {
			r.state.SetStepperTarget(r.params.StepperHigh)
			r.state.SetServoTarget(r.params.ServoHigh)
			debug.Live("Sweep pass: up to %g°", r.params.StepperHigh)
		} else {
			r.state.SetStepperTarget(r.params.StepperLow)
			r.state.SetServoTarget(r.params.ServoLow)
			debug.Live("Sweep pass: down to %g°", r.params.StepperLow)
		}

		for !r.stepper.AtTarget() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err := r.stepper.Advance(); err != nil {
				return err
			}
			if err := r.servo.Advance(); err != nil {
				return err
			}
			r.clock.Sleep(r.params.TickDelay)
		}
		// The servo may still be pending if the stepper was already home.
		if err := r.servo.Advance(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.clock.Sleep(r.params.EndPause)
		goingUp = !goingUp
	}
}
