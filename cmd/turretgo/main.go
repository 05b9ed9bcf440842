package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/odemirel/turretgo/internal/config"
	"github.com/odemirel/turretgo/internal/debug"
	"github.com/odemirel/turretgo/internal/hw/gpio"
	"github.com/odemirel/turretgo/internal/hw/servo"
	"github.com/odemirel/turretgo/internal/hw/stepper"
	"github.com/odemirel/turretgo/internal/link"
	"github.com/odemirel/turretgo/internal/logic/control"
	"github.com/odemirel/turretgo/internal/logic/sweep"
	"github.com/odemirel/turretgo/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web status server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	modeFlag := flag.String("mode", "", "override run mode: serial or demo")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if err := applyModeOverride(cfg, *modeFlag); err != nil {
		log.Fatalf("invalid -mode: %v", err)
	}

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Mode", cfg.Defaults.Mode)
	debug.Value("Mock hardware", cfg.Defaults.MockHW)

	// Initialize GPIO driver
	gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockHW)
	if err != nil {
		log.Fatalf("init GPIO failed: %v", err)
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			log.Printf("closing GPIO driver failed: %v", err)
		}
	}()

	// Initialize actuators
	motor := stepper.NewStepper(gpioDriver, stepper.Config{
		StepPin:     cfg.Stepper.StepPin,
		DirPin:      cfg.Stepper.DirPin,
		EnablePin:   cfg.Stepper.EnablePin,
		StepsPerRev: cfg.Stepper.StepsPerRev,
		StepDelay:   cfg.StepDelay(),
	})

	servoDrv, err := servo.NewServo(cfg.Servo.Pin, cfg.Defaults.MockHW)
	if err != nil {
		log.Fatalf("init servo failed: %v", err)
	}
	defer func() {
		if err := servoDrv.Close(); err != nil {
			log.Printf("closing servo failed: %v", err)
		}
	}()

	// Both axes rest at their minimum angle at power-on.
	state := control.NewState(cfg.Stepper.MinAngleDeg, cfg.Servo.MinAngleDeg)
	if err := servoDrv.Write(cfg.Servo.MinAngleDeg); err != nil {
		log.Fatalf("initial servo write failed: %v", err)
	}

	clock := control.RealClock()
	stepCtl := control.NewStepperMotion(motor, state,
		cfg.Stepper.MinAngleDeg, cfg.Stepper.MaxAngleDeg, cfg.Stepper.MaxStepIncrementDeg)
	servoCtl := control.NewServoMotion(servoDrv, state, clock,
		cfg.Servo.MinAngleDeg, cfg.Servo.MaxAngleDeg, cfg.SettleDelay())

	switch cfg.Defaults.Mode {
	case config.ModeDemo:
		err = runDemo(ctx, cfg, state, stepCtl, servoCtl, clock, webPort.port())
	default:
		err = runSerial(ctx, cfg, state, stepCtl, servoCtl, clock, webPort.port())
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("controller stopped: %v", err)
	}
	debug.Info("Shutdown complete")
}

// runSerial runs the interactive control loop fed by the serial link (or a
// loopback in mock mode).
func runSerial(
	ctx context.Context,
	cfg *config.Config,
	state *control.State,
	stepCtl *control.StepperMotion,
	servoCtl *control.ServoMotion,
	clock control.Clock,
	webListenPort int,
) error {
	var port link.Port
	if cfg.Defaults.MockHW {
		debug.Info("Using loopback serial (development mode)")
		port = link.NewLoopback()
	} else {
		sp, err := link.OpenSerial(cfg.Serial.Port, cfg.Serial.BaudRate)
		if err != nil {
			return err
		}
		port = sp
	}
	defer func() {
		if err := port.Close(); err != nil {
			log.Printf("closing serial port failed: %v", err)
		}
	}()

	// With the web server enabled, UI commands are injected into the same
	// inbound stream the decoder reads.
	var sink web.CommandSink
	if webListenPort > 0 {
		ip := link.NewInjectPort(port)
		port = ip
		sink = ip
	}

	dispatcher := control.NewDispatcher(state, port)
	loop := control.NewLoop(port, dispatcher, stepCtl, servoCtl, clock, cfg.TickDelay())

	// Boot banner for the host, like the firmware printed on reset.
	fmt.Fprintf(port, "turretgo ready - joystick control\r\n")
	fmt.Fprintf(port, "Protocol: 0xAA + CMD + DATA + 0x55\r\n")

	if webListenPort > 0 {
		startWebServer(ctx, webListenPort, sink, state)
	}

	debug.Section("Control loop running")
	return loop.Run(ctx)
}

// runDemo runs the open-loop sweep pattern with no serial input.
func runDemo(
	ctx context.Context,
	cfg *config.Config,
	state *control.State,
	stepCtl *control.StepperMotion,
	servoCtl *control.ServoMotion,
	clock control.Clock,
	webListenPort int,
) error {
	if webListenPort > 0 {
		startWebServer(ctx, webListenPort, nil, state) // status only, no command input
	}

	runner := sweep.NewRunner(stepCtl, servoCtl, state, clock, sweep.Params{
		StepperLow:  cfg.Stepper.MinAngleDeg,
		StepperHigh: cfg.Stepper.MaxAngleDeg,
		ServoLow:    cfg.Servo.MinAngleDeg,
		ServoHigh:   cfg.Servo.MaxAngleDeg,
		TickDelay:   cfg.TickDelay(),
	})
	return runner.Run(ctx)
}

func startWebServer(ctx context.Context, port int, sink web.CommandSink, state *control.State) {
	broadcaster := web.NewStatusBroadcaster()
	debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

	srv := web.NewServer(fmt.Sprintf(":%d", port), broadcaster, sink, state.Snapshot)
	go func() {
		if err := srv.Run(ctx); err != nil {
			log.Printf("web server: %v", err)
		}
	}()
}

// applyModeOverride applies a non-empty -mode flag to the config.
func applyModeOverride(cfg *config.Config, mode string) error {
	if mode == "" {
		return nil
	}
	if mode != config.ModeSerial && mode != config.ModeDemo {
		return fmt.Errorf("mode must be %q or %q, got %q", config.ModeSerial, config.ModeDemo, mode)
	}
	cfg.Defaults.Mode = mode
	return nil
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
