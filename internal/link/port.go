package link

import "io"

// Port is a byte-oriented transport with an available()-style readiness
// check, the controller's view of its serial link. Implementations must
// make Available and ReadByte non-blocking; the control loop is the only
// consumer, so an Available check followed by ReadByte is safe.
type Port interface {
	// Available returns the number of inbound bytes that can be read
	// without blocking.
	Available() int
	// ReadByte returns the next inbound byte. Call only after Available
	// reports at least one byte.
	ReadByte() (byte, error)
	// Writer sends outbound bytes (diagnostic echo lines).
	io.Writer
	Close() error
}
