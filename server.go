package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/litghost/xbee-lib/xbee"
)

// transmitter is the subset of *Gateway the HTTP layer depends on. Accepting
// the interface instead of the concrete type keeps handler tests free of a
// real XBee handshake.
type transmitter interface {
	Transmit(ctx context.Context, address xbee.Address, options byte, data []byte) error
}

// Server handles incoming HTTP requests for transmitting data through the
// configured XBee gateway.
type Server struct {
	Logger  *slog.Logger
	Gateway transmitter
}

// ServeHTTP implements the http.Handler interface for the Server struct.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /transmit", s.handleTransmit)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// handleTransmit processes incoming HTTP POST requests to transmit data
// to a peer addressed by 16-bit network address.
func (s *Server) handleTransmit(w http.ResponseWriter, r *http.Request) {
	type TransmitRequest struct {
		// To is the destination's 16-bit network address in hex (e.g. "FFFE").
		To string `json:"to"`
		// DataHex is the payload to send, hex-encoded.
		DataHex string `json:"data_hex"`
	}

	var req TransmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.To == "" || req.DataHex == "" {
		s.sendError(w, "both 'to' and 'data_hex' fields are required", http.StatusBadRequest)
		return
	}

	addrBytes, err := hex.DecodeString(req.To)
	if err != nil || len(addrBytes) != 2 {
		s.sendError(w, "'to' must be a 2-byte hex-encoded network address", http.StatusBadRequest)
		return
	}
	addr := xbee.Addr16(uint16(addrBytes[0])<<8 | uint16(addrBytes[1]))

	data, err := hex.DecodeString(req.DataHex)
	if err != nil {
		s.sendError(w, "'data_hex' must be hex-encoded", http.StatusBadRequest)
		return
	}

	if err := s.Gateway.Transmit(r.Context(), addr, 0, data); err != nil {
		s.Logger.Error("failed to transmit", "error", err, "to", req.To)
		s.sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.Logger.Info("transmit queued", "to", req.To, "bytes", len(data))
	w.WriteHeader(http.StatusOK)
}
