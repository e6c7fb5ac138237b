package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/litghost/xbee-lib/xbee"
)

// transmitRequest is a single queued Transmit call, bridging the core's
// synchronous, non-thread-safe API to goroutines making concurrent HTTP
// requests. Exactly one goroutine — Gateway.Run — ever touches the
// underlying *xbee.Xbee handle, the same discipline the core's own
// "exclusively owned, no internal synchronization" contract requires.
type transmitRequest struct {
	address xbee.Address
	options byte
	data    []byte
	result  chan error
}

// Gateway owns an *xbee.Xbee handle and is the sole caller into it. It
// accepts Transmit requests over a channel and, between requests, polls
// RecvFrame for inbound data and logs whatever arrives. This mirrors the
// shape of a single-goroutine event loop without pulling the core itself
// into a concurrency model the spec does not call for.
type Gateway struct {
	core     *xbee.Xbee
	logger   *slog.Logger
	requests chan transmitRequest
}

// NewGateway wraps an already-open *xbee.Xbee handle.
func NewGateway(core *xbee.Xbee, logger *slog.Logger) *Gateway {
	return &Gateway{
		core:     core,
		logger:   logger,
		requests: make(chan transmitRequest),
	}
}

// Transmit queues a Transmit call and blocks until it has been issued
// against the core. It is safe to call from any number of goroutines.
func (g *Gateway) Transmit(ctx context.Context, address xbee.Address, options byte, data []byte) error {
	req := transmitRequest{address: address, options: options, data: data, result: make(chan error, 1)}

	select {
	case g.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollInterval is how often Run checks for an inbound frame when there is
// no pending Transmit request.
const pollInterval = 100 * time.Millisecond

// Run is the gateway's single-goroutine event loop. It must be started
// exactly once, and it is the only caller into the wrapped *xbee.Xbee for
// the lifetime of the Gateway.
func (g *Gateway) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	frame := make([]byte, 256)

	for {
		select {
		case <-ctx.Done():
			return

		case req := <-g.requests:
			req.result <- g.core.Transmit(0, req.address, req.options, req.data)

		case <-ticker.C:
			n, err := g.core.RecvFrame(frame)
			if err != nil {
				g.logger.Error("receive failed", "error", err)
				continue
			}
			if n == 0 {
				continue
			}

			resp, err := xbee.ParseFrame(frame[:n])
			if err != nil {
				g.logger.Warn("dropped unparseable frame", "error", err)
				continue
			}

			g.logResponse(resp)
		}
	}
}

func (g *Gateway) logResponse(resp xbee.Response) {
	switch r := resp.(type) {
	case xbee.ModemStatus:
		g.logger.Info("modem status", "status", r.Status)
	case xbee.TransmitStatus:
		g.logger.Info("transmit status", "frame_id", r.FrameID, "status", r.Status)
	case xbee.AtResponse:
		g.logger.Info("AT response", "frame_id", r.FrameID, "command", string(r.ATCommand[:]), "status", r.Status)
	case xbee.RemoteAtResponse:
		g.logger.Info("remote AT response", "frame_id", r.FrameID, "status", r.Status)
	case xbee.Receive64:
		g.logger.Info("received (64-bit)", "src", r.SrcAddr64, "rssi", r.RSSI, "bytes", len(r.Payload))
	case xbee.Receive16:
		g.logger.Info("received (16-bit)", "src", r.SrcAddr16, "rssi", r.RSSI, "bytes", len(r.Payload))
	}
}
