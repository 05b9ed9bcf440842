package servo

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/odemirel/turretgo/internal/debug"
)

// pwmCycle is the PWM cycle length in 10µs units: 2000 * 10µs = 20ms (50 Hz).
// Duty length is then the pulse width in 10µs units (50-250 for 0.5-2.5ms).
const pwmCycle = 2000

// RPiServo drives a hobby servo from a Raspberry Pi hardware-PWM pin
// (BCM 12, 13, 18 or 19) using go-rpio.
type RPiServo struct {
	pin rpio.Pin
}

// NewRPiServo configures the pin for 50 Hz hardware PWM.
// rpio.Open must have been called already (the GPIO driver does this).
func NewRPiServo(pin int) (*RPiServo, error) {
	switch pin {
	case 12, 13, 18, 19:
	default:
		return nil, fmt.Errorf("servo pin %d is not a hardware PWM pin (use BCM 12, 13, 18 or 19)", pin)
	}

	debug.Info("Initializing servo on PWM pin %d", pin)

	p := rpio.Pin(pin)
	p.Mode(rpio.Pwm)
	p.Freq(50 * pwmCycle) // PWM clock so that one cycle of pwmCycle units = 20ms
	p.DutyCycle(0, pwmCycle)

	return &RPiServo{pin: p}, nil
}

func (s *RPiServo) Write(angle int) error {
	duty := uint32(PulseWidth(angle).Microseconds() / 10)
	debug.GPIO("ServoWrite", int(s.pin), angle)
	s.pin.DutyCycle(duty, pwmCycle)
	return nil
}

// Close stops the PWM output. The servo stops holding position.
func (s *RPiServo) Close() error {
	debug.Trace("Servo Close (real driver)")
	s.pin.DutyCycle(0, pwmCycle)
	s.pin.Input()
	return nil
}
