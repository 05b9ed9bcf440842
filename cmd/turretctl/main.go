// turretctl is the host-side counterpart of the controller: it encodes a
// single command frame and sends it over the serial link, optionally
// listening for the controller's echo line.
//
//	turretctl -port /dev/ttyUSB0 servo 45
//	turretctl -port /dev/ttyUSB0 -listen 500ms stepper 200
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/odemirel/turretgo/internal/link"
)

func main() {
	portName := flag.String("port", "/dev/serial0", "serial device of the controller")
	baudRate := flag.Int("baud", 9600, "baud rate")
	listen := flag.Duration("listen", 0, "wait this long for the controller's echo (0 = don't wait)")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: turretctl [flags] <servo|stepper> <angle>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cmd, data, err := parseCommand(flag.Arg(0), flag.Arg(1))
	if err != nil {
		log.Fatalf("bad command: %v", err)
	}

	mode := &serial.Mode{
		BaudRate: *baudRate,
	}
	port, err := serial.Open(*portName, mode)
	if err != nil {
		log.Fatalf("open %s: %v", *portName, err)
	}
	defer port.Close()

	frame := link.Encode(cmd, data)
	if _, err := port.Write(frame); err != nil {
		log.Fatalf("write frame: %v", err)
	}
	fmt.Printf("sent % X (%s %d)\n", frame, flag.Arg(0), data)

	if *listen > 0 {
		if err := port.SetReadTimeout(*listen); err != nil {
			log.Fatalf("set read timeout: %v", err)
		}
		buf := make([]byte, 256)
		deadline := time.Now().Add(*listen)
		for time.Now().Before(deadline) {
			n, err := port.Read(buf)
			if err != nil {
				log.Fatalf("read echo: %v", err)
			}
			if n == 0 {
				break // timeout, controller said all it will
			}
			fmt.Print(string(buf[:n]))
		}
	}
}

// parseCommand maps an actuator name and angle argument onto a protocol
// command code and data byte.
func parseCommand(actuator, angleArg string) (cmd, data byte, err error) {
	switch strings.ToLower(actuator) {
	case "servo":
		cmd = link.CmdServo
	case "stepper":
		cmd = link.CmdStepper
	default:
		return 0, 0, fmt.Errorf("unknown actuator %q (want servo or stepper)", actuator)
	}

	angle, err := strconv.Atoi(angleArg)
	if err != nil {
		return 0, 0, fmt.Errorf("angle %q is not a number", angleArg)
	}
	if angle < 0 || angle > 255 {
		return 0, 0, fmt.Errorf("angle %d outside the protocol's 0-255 data range", angle)
	}
	return cmd, byte(angle), nil
}
