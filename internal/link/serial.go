package link

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/odemirel/turretgo/internal/debug"
)

// SerialPort adapts a go.bug.st/serial port to the Port interface. A
// background goroutine drains the OS port into an internal buffer so that
// Available and ReadByte stay non-blocking, the way the firmware polled
// Serial.available().
type SerialPort struct {
	port serial.Port

	mu   sync.Mutex
	buf  []byte
	rerr error // first read error from the drain goroutine, sticky
}

// OpenSerial opens the serial device with 8N1 framing at the given baud
// rate and starts the drain goroutine.
func OpenSerial(device string, baudRate int) (*SerialPort, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
	}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}

	debug.Info("Serial port %s open at %d baud", device, baudRate)

	s := &SerialPort{port: p}
	go s.drain()
	return s, nil
}

func (s *SerialPort) drain() {
	chunk := make([]byte, 64)
	for {
		n, err := s.port.Read(chunk)
		s.mu.Lock()
		if n > 0 {
			s.buf = append(s.buf, chunk[:n]...)
			debug.Trace("Serial: buffered %d bytes (%d pending)", n, len(s.buf))
		}
		if err != nil {
			s.rerr = err
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

func (s *SerialPort) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

func (s *SerialPort) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) == 0 {
		if s.rerr != nil {
			return 0, s.rerr
		}
		return 0, io.EOF
	}
	b := s.buf[0]
	s.buf = s.buf[1:]
	return b, nil
}

func (s *SerialPort) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Close closes the OS port; the drain goroutine exits on its next read.
func (s *SerialPort) Close() error {
	return s.port.Close()
}
