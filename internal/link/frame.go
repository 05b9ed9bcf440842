package link

import (
	"github.com/odemirel/turretgo/internal/debug"
)

// Wire protocol: fixed 4-byte frames, StartByte | command | data | EndByte.
const (
	StartByte byte = 0xAA
	EndByte   byte = 0x55

	CmdServo   byte = 0x01 // data = servo target angle
	CmdStepper byte = 0x02 // data = stepper target angle

	FrameSize = 4
)

// Frame is one decoded command: a command code and its data byte.
// The markers are validated during decoding and not kept.
type Frame struct {
	Cmd  byte
	Data byte
}

// Encode returns the wire form of a command frame.
func Encode(cmd, data byte) []byte {
	return []byte{StartByte, cmd, data, EndByte}
}

// ReadFrame attempts to decode one frame from p. It returns the frame and
// true on success. It does nothing unless a full frame's worth of bytes is
// available, so it never blocks and never carries partial frames across
// ticks.
//
// On a start-marker mismatch only the mismatched byte is consumed: the
// decoder resynchronizes by scanning for the marker instead of draining a
// fixed 4-byte window (the original firmware's behavior; the fixed-window
// drain would let one garbage byte eat into the next legitimate frame).
// On an end-marker mismatch the whole window has been consumed and the
// frame is dropped.
func ReadFrame(p Port) (Frame, bool) {
	if p.Available() < FrameSize {
		return Frame{}, false
	}

	b, err := p.ReadByte()
	if err != nil || b != StartByte {
		debug.Trace("Frame: skipping byte 0x%02X (no start marker)", b)
		return Frame{}, false
	}

	cmd, err := p.ReadByte()
	if err != nil {
		return Frame{}, false
	}
	data, err := p.ReadByte()
	if err != nil {
		return Frame{}, false
	}
	end, err := p.ReadByte()
	if err != nil || end != EndByte {
		debug.Trace("Frame: dropped, bad end marker 0x%02X", end)
		return Frame{}, false
	}

	debug.Frame(cmd, data)
	return Frame{Cmd: cmd, Data: data}, true
}
