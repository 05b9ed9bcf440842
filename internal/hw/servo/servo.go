package servo

import (
	"time"

	"github.com/odemirel/turretgo/internal/debug"
)

// Servo is the high-level interface for a hobby servo: set a pulse angle
// in degrees, nominal range 0-180. How the pulse is generated (hardware
// PWM, pi-blaster, mock) is an implementation detail.
type Servo interface {
	// Write sets the servo output to the given angle in degrees.
	Write(angle int) error
	Close() error
}

const (
	minPulse = 500 * time.Microsecond  // pulse width at 0°
	maxPulse = 2500 * time.Microsecond // pulse width at 180°
	period   = 20 * time.Millisecond   // 50 Hz frame
)

// PulseWidth returns the PWM pulse width for an angle in degrees.
// Angles outside 0-180 are pinned to the endpoints.
func PulseWidth(angle int) time.Duration {
	if angle < 0 {
		angle = 0
	}
	if angle > 180 {
		angle = 180
	}
	return minPulse + (maxPulse-minPulse)*time.Duration(angle)/180
}

// NewServo creates a servo driver on the given pin.
// If mock is true, returns a MockServo (for dev/test).
func NewServo(pin int, mock bool) (Servo, error) {
	if mock {
		debug.Info("Using MOCK servo driver (development mode)")
		return &MockServo{}, nil
	}
	return NewRPiServo(pin)
}

// MockServo logs writes instead of driving a pin.
type MockServo struct {
	LastAngle int
}

func (m *MockServo) Write(angle int) error {
	m.LastAngle = angle
	debug.Live("Servo write: %d° (pulse %v)", angle, PulseWidth(angle))
	return nil
}

func (m *MockServo) Close() error {
	debug.Trace("Servo Close (mock)")
	return nil
}
