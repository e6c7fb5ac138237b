package xbee

// Xbee is the driver core's handle: it owns a reference to the transport
// and a fixed-capacity receive ring buffer, and tracks the ring's head
// index and current size. It is exclusively owned by whichever goroutine
// uses it — there is no internal synchronization, and callers must
// serialize all access themselves.
//
// Invariants (held between every public call):
//
//	recvSize <= len(recv)
//	recvIdx  <  len(recv)          (even when recvSize == 0)
//	logical byte i (0 <= i < recvSize) lives at recv[(recvIdx+i) % len(recv)]
type Xbee struct {
	transport Transport
	recv      []byte
	recvIdx   int
	recvSize  int
}

// Open constructs a Handle, dials or accepts the configured Transport, and
// runs the initializer sequence (drain, guard, handshake, API mode
// configuration, and AT parameter verification). Any failure during
// initialization is returned and the Transport, whether it was passed in
// Config or dialed by this call, is closed before returning.
func Open(config Config) (*Xbee, error) {
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	transport, err := config.resolveTransport()
	if err != nil {
		return nil, err
	}

	x := &Xbee{
		transport: transport,
		recv:      make([]byte, config.BufferSize),
	}

	if err := x.init(config.GuardTime); err != nil {
		transport.Close()
		return nil, err
	}

	return x, nil
}

// Close releases the underlying transport. The Handle must not be used
// after Close returns.
func (x *Xbee) Close() error {
	return x.transport.Close()
}
