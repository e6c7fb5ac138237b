package xbee

import (
	"bytes"
	"sync"
	"time"
)

// FakeTransport is a buffer-backed Transport double for tests that don't
// need call-order assertions (the round-trip and resynchronization
// property tests in decode_test.go, for instance). Unlike TestTransport in
// the teacher repo this does not block on Read — a real serial port never
// blocks the core indefinitely either, it just returns 0 when idle, so
// FakeTransport does the same against an in-memory queue.
type FakeTransport struct {
	mu      sync.Mutex
	inbound bytes.Buffer
	written bytes.Buffer
	closed  bool
	sleeps  []time.Duration
}

// NewFakeTransport returns a FakeTransport with nothing queued to read.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{}
}

// Feed appends bytes that a subsequent Read will return.
func (f *FakeTransport) Feed(p []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inbound.Write(p)
}

// Written returns everything ever passed to Write, in order.
func (f *FakeTransport) Written() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, f.written.Len())
	copy(out, f.written.Bytes())
	return out
}

// Sleeps returns every duration ever passed to Sleep, in order.
func (f *FakeTransport) Sleeps() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.sleeps))
	copy(out, f.sleeps)
	return out
}

func (f *FakeTransport) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written.Write(p)
}

func (f *FakeTransport) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inbound.Len() == 0 {
		return 0, nil
	}
	return f.inbound.Read(p)
}

func (f *FakeTransport) Sleep(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleeps = append(f.sleeps, d)
}

func (f *FakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FakeTransport) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
