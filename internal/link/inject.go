package link

import "sync"

// InjectPort wraps a Port so that locally generated frames (e.g. from the
// web UI) enter the same inbound stream the decoder reads. Injected bytes
// are delivered before bytes from the underlying port, whole frames at a
// time, so they cannot interleave with a frame in flight from the wire.
type InjectPort struct {
	under Port

	mu      sync.Mutex
	pending []byte
}

func NewInjectPort(p Port) *InjectPort {
	return &InjectPort{under: p}
}

// Push queues locally generated bytes for the decoder.
func (ip *InjectPort) Push(b []byte) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.pending = append(ip.pending, b...)
}

func (ip *InjectPort) Available() int {
	ip.mu.Lock()
	n := len(ip.pending)
	ip.mu.Unlock()
	return n + ip.under.Available()
}

func (ip *InjectPort) ReadByte() (byte, error) {
	ip.mu.Lock()
	if len(ip.pending) > 0 {
		b := ip.pending[0]
		ip.pending = ip.pending[1:]
		ip.mu.Unlock()
		return b, nil
	}
	ip.mu.Unlock()
	return ip.under.ReadByte()
}

func (ip *InjectPort) Write(p []byte) (int, error) {
	return ip.under.Write(p)
}

func (ip *InjectPort) Close() error {
	return ip.under.Close()
}
