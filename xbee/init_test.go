package xbee

import (
	"bytes"
	"testing"
	"time"
)

// scriptedInitTransport drives the bring-up handshake deterministically: it
// watches the bytes written to it and enqueues exactly the read chunks a
// real module would produce in response, in the order init() consumes
// them. Unlike FakeTransport's raw byte buffer, reads are delivered as
// discrete chunks so that expectExact's "OK\r"-at-a-time matching behaves
// the same way it would against a real line-oriented module.
type scriptedInitTransport struct {
	written    bytes.Buffer
	plusWrites int
	acksQueued bool
	chunks     [][]byte
	sleeps     []time.Duration
}

func (s *scriptedInitTransport) Write(p []byte) (int, error) {
	s.written.Write(p)

	if bytes.Equal(p, []byte{'+'}) {
		s.plusWrites++
		if s.plusWrites == 3 {
			s.chunks = append(s.chunks, []byte("OK\r"))
		}
		return len(p), nil
	}

	if !s.acksQueued && bytes.Contains(p, []byte("ATCN\r")) {
		s.acksQueued = true
		for i := 0; i < ackLines; i++ {
			s.chunks = append(s.chunks, []byte("OK\r"))
		}
		for _, frame := range initTestATResponseFrames() {
			s.chunks = append(s.chunks, frame)
		}
	}

	return len(p), nil
}

func (s *scriptedInitTransport) Read(p []byte) (int, error) {
	if len(s.chunks) == 0 {
		return 0, nil
	}
	chunk := s.chunks[0]
	if len(chunk) <= len(p) {
		n := copy(p, chunk)
		s.chunks = s.chunks[1:]
		return n, nil
	}
	n := copy(p, chunk[:len(p)])
	s.chunks[0] = chunk[len(p):]
	return n, nil
}

func (s *scriptedInitTransport) Sleep(d time.Duration) {
	s.sleeps = append(s.sleeps, d)
}

func (s *scriptedInitTransport) Close() error { return nil }

// initTestATResponseFrames builds the three encoded AT response frames init
// expects for the AP/D7/D6 queries, frame ids 1-3, each reporting success
// with the queried value echoed back.
func initTestATResponseFrames() [][]byte {
	frames := make([][]byte, 0, len(queriedCommands))
	for i, q := range queriedCommands {
		payload := []byte{apiATResponse, byte(i + 1), q.at[0], q.at[1], 0x00, q.expected}
		frames = append(frames, encodeFrameBytes(payload))
	}
	return frames
}

// encodeFrameBytes is frame-encoding logic shared with the property tests
// in frame_test.go / decode_test.go, reused here to build canned AT
// response frames without a second hand-maintained escaping
// implementation.
func encodeFrameBytes(payload []byte) []byte {
	x := &Xbee{recv: make([]byte, 64)}
	ft := NewFakeTransport()
	x.transport = ft
	if err := x.SendFrame(payload); err != nil {
		panic(err)
	}
	return ft.Written()
}

func TestInit_HappyPath(t *testing.T) {
	transport := &scriptedInitTransport{}
	x := &Xbee{transport: transport, recv: make([]byte, 64)}

	if err := x.init(10 * time.Millisecond); err != nil {
		t.Fatalf("init returned error: %v", err)
	}

	if transport.plusWrites != 3 {
		t.Errorf("plusWrites = %d, want 3", transport.plusWrites)
	}
	if !bytes.Contains(transport.written.Bytes(), []byte(apModeSequence)) {
		t.Errorf("AP mode sequence was never written")
	}
	if len(transport.sleeps) < 3 {
		t.Errorf("expected at least 3 sleeps (pre-guard, post-guard, post-ATCN), got %d", len(transport.sleeps))
	}
}

func TestInit_NoHandshakeResponse(t *testing.T) {
	x := &Xbee{transport: NewFakeTransport(), recv: make([]byte, 64)}
	// No queued read data at all: the "+++"/OK handshake never completes.

	err := x.init(time.Millisecond)
	if err == nil {
		t.Fatal("init returned nil error, want a handshake failure")
	}
}

// truncatedAckTransport answers the "+++" handshake and the AP-mode write
// but never sends the OK acknowledgements, exercising the CodeNoAck path.
type truncatedAckTransport struct {
	scriptedInitTransport
}

func (tr *truncatedAckTransport) Write(p []byte) (int, error) {
	tr.written.Write(p)
	if bytes.Equal(p, []byte{'+'}) {
		tr.plusWrites++
		if tr.plusWrites == 3 {
			tr.chunks = append(tr.chunks, []byte("OK\r"))
		}
	}
	return len(p), nil
}

func TestInit_NoAckAfterApModeSequence(t *testing.T) {
	transport := &truncatedAckTransport{}
	x := &Xbee{transport: transport, recv: make([]byte, 64)}

	err := x.init(time.Millisecond)
	if err == nil {
		t.Fatal("init returned nil error, want a missing-ack failure")
	}
}
