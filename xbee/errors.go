package xbee

import "fmt"

// Code is a stable, negative error code identifying why an operation on a
// Handle failed. Zero is never returned as a Code; it is reserved for the
// success path, which returns a nil error.
type Code int

const (
	// Initializer stages. Each one pins down exactly which step of bring-up
	// failed, so an operator can diagnose a misbehaving module without
	// instrumenting the wire.
	CodeDrainFailed      Code = -1
	CodeGuardWriteFailed Code = -2
	CodeNoHandshake      Code = -3
	CodeATWriteFailed    Code = -4
	CodeATQueryFailed    Code = -5
	CodeNoAck            Code = -6
	CodeBadAck           Code = -7
	CodeNoATResponse     Code = -8
	CodeBadATResponse    Code = -9
	CodeBadATEcho        Code = -10

	// Encoder write failures. These mirror the reference implementation's
	// -11..-14 space: every one of them means the transport returned an
	// error or fewer bytes than requested while emitting a frame.
	CodeWriteDelimFailed    Code = -11
	CodeWriteLengthFailed   Code = -12
	CodeWritePayloadFailed  Code = -13
	CodeWriteChecksumFailed Code = -14

	// Parser failures. Always surfaced to the caller; never retried.
	CodeWrongLengthForAPI Code = -15
	CodeUnknownAPIID      Code = -16

	// Transport failures detected outside the encoder (a refill that
	// reports a transport error).
	CodeReadFailed Code = -17
)

// Error wraps a Code with a human-readable message and, where one exists,
// the underlying transport error that triggered it.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xbee: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("xbee: %s", e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

var (
	// ErrShortWrite is returned when the transport's Write accepted fewer
	// bytes than were handed to it. The core treats this as fatal for the
	// frame in progress; it never retries a partial write.
	ErrShortWrite = fmt.Errorf("xbee: short write")

	// ErrNoHandshake is returned during Open when the module does not
	// answer the "+++" guard sequence with "OK\r" before the handshake
	// deadline. Usually means the baud rate doesn't match the module's.
	ErrNoHandshake = fmt.Errorf("xbee: no handshake response from module")

	// ErrBadAck is returned during Open when one of the four expected
	// "OK\r" acknowledgements to the ATAP/ATD7/ATD6/ATCN sequence does not
	// arrive, or arrives with the wrong bytes.
	ErrBadAck = fmt.Errorf("xbee: bad or missing AT acknowledgement")

	// ErrBadATEcho is returned during Open when a queried AT parameter's
	// response frame does not match the value set moments earlier (frame
	// id, AT command, or data byte mismatch).
	ErrBadATEcho = fmt.Errorf("xbee: AT response does not match expected value")

	// ErrWrongLengthForApi is returned by ParseFrame when a payload's
	// length does not satisfy the minimum (or exact) length required by
	// its API id.
	ErrWrongLengthForApi = fmt.Errorf("xbee: wrong length for API id")

	// ErrUnknownApiId is returned by ParseFrame when the first payload
	// byte does not match any known response API id.
	ErrUnknownApiId = fmt.Errorf("xbee: unknown API id")

	// ErrBufferTooSmall is returned by Open when the caller's receive
	// buffer is too small to ever hold a minimum-size frame.
	ErrBufferTooSmall = fmt.Errorf("xbee: receive buffer too small")

	// ErrNoTransport is returned by Open when Config has neither a
	// Transport nor a Dialer configured.
	ErrNoTransport = fmt.Errorf("xbee: no transport configured")
)
