package link

import (
	"bytes"
	"io"
	"sync"
)

// Loopback is an in-memory Port for development mode and tests. Inbound
// bytes are fed with Push; outbound writes (diagnostic echoes) are captured
// and readable with Output.
type Loopback struct {
	mu  sync.Mutex
	in  []byte
	out bytes.Buffer
}

func NewLoopback() *Loopback {
	return &Loopback{}
}

// Push feeds inbound bytes, as if they arrived on the wire.
func (l *Loopback) Push(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.in = append(l.in, b...)
}

func (l *Loopback) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.in)
}

func (l *Loopback) ReadByte() (byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.in) == 0 {
		return 0, io.EOF
	}
	b := l.in[0]
	l.in = l.in[1:]
	return b, nil
}

func (l *Loopback) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Write(p)
}

// Output returns everything written to the port so far.
func (l *Loopback) Output() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.String()
}

func (l *Loopback) Close() error {
	return nil
}
