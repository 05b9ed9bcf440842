package control

import (
	"fmt"
	"io"

	"github.com/odemirel/turretgo/internal/debug"
	"github.com/odemirel/turretgo/internal/link"
)

// Dispatcher maps decoded frames onto target-state updates. Every accepted
// update is echoed as a human-readable line on the serial link, the way
// the firmware answered its host; the echo is observational only.
type Dispatcher struct {
	state *State
	echo  io.Writer
}

// NewDispatcher creates a dispatcher writing echo lines to echo (usually
// the serial port itself). A nil echo discards them.
func NewDispatcher(state *State, echo io.Writer) *Dispatcher {
	if echo == nil {
		echo = io.Discard
	}
	return &Dispatcher{state: state, echo: echo}
}

// Dispatch applies one frame. The raw data byte becomes the target;
// clamping to the actuator's range is the motion controller's job. Unknown
// commands change no state.
func (d *Dispatcher) Dispatch(f link.Frame) {
	switch f.Cmd {
	case link.CmdServo:
		d.state.SetServoTarget(int(f.Data))
		debug.Target("servo", float64(f.Data))
		fmt.Fprintf(d.echo, "Servo target: %d\r\n", f.Data)
	case link.CmdStepper:
		d.state.SetStepperTarget(float64(f.Data))
		debug.Target("stepper", float64(f.Data))
		fmt.Fprintf(d.echo, "Stepper target: %d\r\n", f.Data)
	default:
		debug.Info("Unknown command: 0x%02X", f.Cmd)
		fmt.Fprintf(d.echo, "Unknown command: %d\r\n", f.Cmd)
	}
}
