package xbee

import "time"

// Transport is the core's sole upward dependency: a blocking byte-stream
// connection to an XBee module. The core never interprets a short Write as
// anything but a fatal I/O error, and never blocks inside Read for longer
// than the implementation chooses to — a Read that returns 0 with a nil
// error means "nothing available right now", not an error.
type Transport interface {
	// Write writes len(p) bytes to the module. A return of n < len(p) with
	// a nil error is still treated as a fatal short write by the core.
	Write(p []byte) (n int, err error)

	// Read reads up to len(p) bytes into p. Returning 0, nil means no data
	// is currently available; it is not an error.
	Read(p []byte) (n int, err error)

	// Sleep blocks the calling goroutine for d. Used only by the
	// initializer to observe the module's AT guard time.
	Sleep(d time.Duration)

	// Close releases the underlying connection. Safe to call more than
	// once.
	Close() error
}

// Dialer opens a Transport to an XBee module. It abstracts how the
// connection is created (a real serial port, a test double) so Config can
// carry either a ready-made Transport or a Dialer that produces one at
// Open time.
type Dialer interface {
	Dial() (Transport, error)
}
