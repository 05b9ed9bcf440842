package control

import (
	"context"
	"time"

	"github.com/odemirel/turretgo/internal/link"
)

// Loop is the controller's main loop. Each tick runs, strictly in order:
// decode and dispatch at most one frame, advance the stepper by at most
// one increment, advance the servo, then idle. Consuming a single frame
// per tick bounds tick latency; a backlog drains at one frame per tick.
type Loop struct {
	port       link.Port
	dispatcher *Dispatcher
	stepper    *StepperMotion
	servo      *ServoMotion
	clock      Clock
	tickDelay  time.Duration
}

// NewLoop assembles the control loop. tickDelay defaults to 10ms if 0.
func NewLoop(port link.Port, d *Dispatcher, sm *StepperMotion, vm *ServoMotion, clock Clock, tickDelay time.Duration) *Loop {
	if tickDelay <= 0 {
		tickDelay = 10 * time.Millisecond
	}
	return &Loop{
		port:       port,
		dispatcher: d,
		stepper:    sm,
		servo:      vm,
		clock:      clock,
		tickDelay:  tickDelay,
	}
}

// Tick runs one iteration without the trailing idle delay. A target set by
// the dispatched frame is acted on by the motion sub-steps of this same
// tick. Malformed input never surfaces as an error from here.
func (l *Loop) Tick() error {
	if f, ok := link.ReadFrame(l.port); ok {
		l.dispatcher.Dispatch(f)
	}
	if err := l.stepper.Advance(); err != nil {
		return err
	}
	return l.servo.Advance()
}

// Run ticks until the context is cancelled. The only errors that escape
// are hardware driver failures.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := l.Tick(); err != nil {
			return err
		}
		l.clock.Sleep(l.tickDelay)
	}
}
