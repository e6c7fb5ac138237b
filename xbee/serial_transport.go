package xbee

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// readPollInterval bounds how long a single Read call may block on the
// underlying serial port before returning "nothing yet" to the core. The
// core's decode loop expects Read to come back quickly when idle.
const readPollInterval = 50 * time.Millisecond

// SerialTransport is a Transport backed by a real serial port via
// go.bug.st/serial. It is the concrete binding for the abstract
// "uart_interface_t" the original driver assumed already existed.
type SerialTransport struct {
	port serial.Port
}

// SerialDialer opens a SerialTransport over a named serial port at a fixed
// baud rate, 8 data bits, no parity, one stop bit — the framing XBee
// modules use in API mode.
type SerialDialer struct {
	PortName string
	BaudRate int
}

// Dial opens the configured serial port and returns a ready-to-use
// Transport. The caller is responsible for matching BaudRate to the
// module's configured rate before calling Open; the core cannot detect a
// baud mismatch, it will simply fail the handshake.
func (d SerialDialer) Dial() (Transport, error) {
	if d.PortName == "" {
		return nil, fmt.Errorf("xbee: serial port name is required")
	}

	baud := d.BaudRate
	if baud == 0 {
		baud = 9600
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("xbee: open serial port %q: %w", d.PortName, err)
	}

	if err := port.SetReadTimeout(readPollInterval); err != nil {
		port.Close()
		return nil, fmt.Errorf("xbee: set read timeout on %q: %w", d.PortName, err)
	}

	return &SerialTransport{port: port}, nil
}

func (t *SerialTransport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

// Read returns 0, nil on a read-timeout expiry, matching the "nothing
// available right now" contract Transport.Read requires. go.bug.st/serial
// surfaces an expired SetReadTimeout as n==0, err==nil, so no translation
// is needed here.
func (t *SerialTransport) Read(p []byte) (int, error) {
	return t.port.Read(p)
}

func (t *SerialTransport) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (t *SerialTransport) Close() error {
	return t.port.Close()
}
