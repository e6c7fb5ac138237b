package xbee

import (
	"bytes"
	"time"
)

// apModeSequence is written verbatim once the module has entered
// transparent AT command mode: set API mode 2 (with escaping), enable
// bidirectional hardware flow control (RTS and CTS), then apply.
const apModeSequence = "ATAP 2\rATD7 1\rATD6 1\rATCN\r"

// handshakeOK is what the module answers the "+++" guard sequence with
// when it has entered transparent AT command mode.
const handshakeOK = "OK\r"

// maxHandshakeReads bounds how many short reads init will attempt while
// waiting for a single expected response before giving up. Each read is
// expected to return quickly (per the Transport contract); this bounds
// wall-clock wait without requiring a real clock in tests.
const maxHandshakeReads = 64

// ackLines is the number of "OK\r" acknowledgements expected after
// writing apModeSequence — one per AT command line (ATAP, ATD7, ATD6,
// ATCN).
const ackLines = 4

// queriedCommands and their expected echoed values, checked against the
// AT response frames received in step 10. Order matches the frame ids
// (1, 2, 3) assigned in step 7.
var queriedCommands = [3]struct {
	at       [2]byte
	expected byte
}{
	{at: [2]byte{'A', 'P'}, expected: 0x02},
	{at: [2]byte{'D', '7'}, expected: 0x01},
	{at: [2]byte{'D', '6'}, expected: 0x01},
}

// init sequences the transport out of transparent AT mode into API mode 2
// with hardware flow control, per §4.6: drain, guard, handshake, write the
// AP/flow-control/apply sequence, issue three AT queries, then verify
// four OK acknowledgements and three AT response frames.
func (x *Xbee) init(guardTime time.Duration) error {
	if err := x.drainInput(); err != nil {
		return err
	}

	x.transport.Sleep(guardTime)

	for i := 0; i < 3; i++ {
		n, err := x.transport.Write([]byte{'+'})
		if err != nil || n != 1 {
			return newError(CodeGuardWriteFailed, "failed to write +++ guard sequence", firstErr(err, ErrShortWrite))
		}
	}

	x.transport.Sleep(guardTime)

	if err := x.expectExact(handshakeOK); err != nil {
		return newError(CodeNoHandshake, "module did not answer +++ with OK", ErrNoHandshake)
	}

	wire := []byte(apModeSequence)
	n, err := x.transport.Write(wire)
	if err != nil || n != len(wire) {
		return newError(CodeATWriteFailed, "failed to write AP mode sequence", firstErr(err, ErrShortWrite))
	}

	for i, q := range queriedCommands {
		if err := x.ATCommand(byte(i+1), q.at, nil); err != nil {
			return newError(CodeATQueryFailed, "failed to send AT query during init", err)
		}
	}

	x.transport.Sleep(1 * time.Second)

	for i := 0; i < ackLines; i++ {
		if err := x.expectExact(handshakeOK); err != nil {
			return newError(CodeNoAck, "missing OK acknowledgement during init", ErrBadAck)
		}
	}

	frame := make([]byte, 16)
	for i, q := range queriedCommands {
		length, err := x.recvFrameBlocking(frame)
		if err != nil {
			return newError(CodeNoATResponse, "failed to receive AT response during init", err)
		}
		if length == 0 {
			return newError(CodeNoATResponse, "no AT response frame during init", ErrBadATEcho)
		}

		resp, err := ParseFrame(frame[:length])
		if err != nil {
			return newError(CodeBadATResponse, "failed to parse AT response during init", err)
		}

		at, ok := resp.(AtResponse)
		if !ok {
			return newError(CodeBadATResponse, "unexpected response frame type during init", ErrBadATEcho)
		}

		if at.FrameID != byte(i+1) || at.ATCommand != q.at || len(at.Data) != 1 || at.Data[0] != q.expected {
			return newError(CodeBadATEcho, "AT response did not match expected value", ErrBadATEcho)
		}
	}

	return nil
}

// drainInput discards whatever is already sitting in the transport's
// receive buffer before the handshake begins.
func (x *Xbee) drainInput() error {
	var scratch [64]byte
	for {
		n, err := x.transport.Read(scratch[:])
		if err != nil {
			return newError(CodeDrainFailed, "failed to drain input before handshake", err)
		}
		if n == 0 {
			return nil
		}
	}
}

// expectExact reads from the transport, accumulating bytes, until the
// accumulated tail matches want or maxHandshakeReads is exceeded. This is
// deliberately more tolerant than a single fixed-size read: real hardware
// may emit a byte or two of line noise ahead of the genuine
// acknowledgement, and a bounded accumulate-and-compare avoids failing
// bring-up over it.
func (x *Xbee) expectExact(want string) error {
	var buf bytes.Buffer
	var scratch [32]byte

	for attempt := 0; attempt < maxHandshakeReads; attempt++ {
		n, err := x.transport.Read(scratch[:])
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		buf.Write(scratch[:n])

		if tail := buf.Bytes(); len(tail) >= len(want) && string(tail[len(tail)-len(want):]) == want {
			return nil
		}
	}

	return ErrNoHandshake
}

// recvFrameBlocking calls RecvFrame repeatedly (refilling each time)
// until a frame arrives or maxHandshakeReads attempts are exhausted. Used
// only during init, where the caller has no event loop to retry from.
func (x *Xbee) recvFrameBlocking(out []byte) (int, error) {
	for attempt := 0; attempt < maxHandshakeReads; attempt++ {
		n, err := x.RecvFrame(out)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return n, nil
		}
	}
	return 0, nil
}
