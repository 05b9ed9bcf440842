package debug

import (
	"io"
	"log"
	"os"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (startup, mode, targets accepted)
	LevelLive    = 2 // Live info (motor moves, servo writes)
	LevelVerbose = 3 // Verbose (angle math, step counts, frame contents)
	LevelTrace   = 4 // Trace (GPIO, raw bytes, very low level)
)

var (
	level  int
	logger *log.Logger
)

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (startup, accepted targets)
// 2 = live info (movements, servo writes)
// 3 = verbose (angle diffs, step counts, decoded frames)
// 4 = trace (GPIO, raw serial bytes)
func Init(debugLevel int) {
	level = debugLevel
	if level > LevelOff {
		logger = log.New(os.Stdout, "[turretgo] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output, e.g. to a MultiWriter feeding the
// web status broadcaster. No-op when debug is off.
func SetOutput(w io.Writer) {
	if logger != nil {
		logger.SetOutput(w)
	}
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// --- Level 1 functions (Info) ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] "+format, args...)
	}
}

// Target prints an accepted target update (level 1).
func Target(actuator string, angle float64) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] %s target: %g", actuator, angle)
	}
}

// Section prints a section separator (level 1).
func Section(name string) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		logger.Printf("  %s", name)
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO]   %s = %v", name, value)
	}
}

// --- Level 2 functions (Live) ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] "+format, args...)
	}
}

// Move prints a motor movement (level 2).
func Move(motor string, steps int, direction string) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Motor %s: %d steps (%s)", motor, steps, direction)
	}
}

// --- Level 3 functions (Verbose) ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] "+format, args...)
	}
}

// Printf is an alias for Verbose kept for call-site brevity.
func Printf(format string, args ...interface{}) {
	Verbose(format, args...)
}

// Frame prints a decoded protocol frame (level 3).
func Frame(cmd, data byte) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] Frame: cmd=0x%02X data=%d", cmd, data)
	}
}

// --- Level 4 functions (Trace) ---

// Trace prints a level 4 message (trace, GPIO, raw bytes).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[TRACE] "+format, args...)
	}
}

// GPIO prints a GPIO operation (level 4).
func GPIO(operation string, pin int, value interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[GPIO] %s pin=%d value=%v", operation, pin, value)
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[ERROR] %v", err)
	}
}
