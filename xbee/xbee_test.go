package xbee

import (
	"errors"
	"testing"
	"time"
)

func TestOpen_RunsInitAndSucceeds(t *testing.T) {
	transport := &scriptedInitTransport{}

	x, err := Open(Config{
		Transport: transport,
		GuardTime: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer x.Close()

	if len(x.recv) != defaultBufferSize {
		t.Errorf("recv buffer size = %d, want default %d", len(x.recv), defaultBufferSize)
	}
}

func TestOpen_FailsValidationWithoutTransportOrDialer(t *testing.T) {
	_, err := Open(Config{})
	if !errors.Is(err, ErrNoTransport) {
		t.Fatalf("Open error = %v, want ErrNoTransport", err)
	}
}

func TestOpen_ClosesTransportOnInitFailure(t *testing.T) {
	ft := NewFakeTransport()
	// Nothing is ever queued to read, so the handshake never completes and
	// init fails; Open must close the transport it was handed before
	// propagating the error.
	_, err := Open(Config{Transport: ft, GuardTime: time.Millisecond})
	if err == nil {
		t.Fatal("Open returned nil error, want an init failure")
	}
	if !ft.Closed() {
		t.Error("Open did not close the transport after init failed")
	}
}

func TestOpen_RejectsTooSmallBuffer(t *testing.T) {
	_, err := Open(Config{Transport: NewFakeTransport(), BufferSize: 2})
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("Open error = %v, want ErrBufferTooSmall", err)
	}
}
