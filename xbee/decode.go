package xbee

// minViableFrame is the smallest raw byte count the decode loop will try to
// decode: 1 start delimiter + 2 length bytes + 2 payload bytes (API id plus
// at least one byte, the shortest payload ParseFrame accepts) + 1 checksum.
// With fewer bytes buffered the loop does not run; a frame carrying a
// single-byte payload and no escapes (5 raw bytes) is therefore never
// decoded.
const minViableFrame = 6

// DecodeFrame consumes the ring non-destructively until it has validated
// a complete frame, then commits (advances the head past the consumed
// bytes). On any failure it drops exactly one byte from the head and
// retries, guaranteeing eventual resynchronization on a corrupted or
// misaligned stream. Every iteration either advances the head by at least
// one byte or returns, so the loop is bounded by recvSize.
//
// Returns the payload length and writes payload+checksum into out (out
// must have length >= the returned value + 1, though the checksum byte at
// out[length] is only meaningful internally — callers use out[:length]).
// A return of 0 means no complete frame is available yet; the caller
// should refill and try again. DecodeFrame never returns a negative
// length; ring/transport errors surface only from FillBuffer.
func (x *Xbee) DecodeFrame(out []byte) int {
	for x.recvSize >= minViableFrame {
		if x.byteAt(0) != frameDelim {
			x.dropByte()
			continue
		}

		idx := 1
		lenHi, res := x.getNextByte(&idx)
		if res != nextByteOK {
			x.dropByte()
			continue
		}
		lenLo, res := x.getNextByte(&idx)
		if res != nextByteOK {
			x.dropByte()
			continue
		}

		length := int(lenHi)<<8 | int(lenLo)
		requiredRawBytes := length + 4

		if length+1 > len(out) || requiredRawBytes > len(x.recv) {
			x.dropByte()
			continue
		}

		var accum uint16
		aborted := false
		for i := 0; i < length+1; i++ {
			b, res := x.getNextByte(&idx)
			switch res {
			case nextByteOK:
				accum += uint16(b)
				out[i] = b
			case nextByteFoundStart:
				aborted = true
			case nextByteNotEnoughData:
				if x.recvSize == len(x.recv) {
					// Ring is completely full and still can't complete
					// this frame: force progress rather than stall.
					aborted = true
				} else if x.findNextDelim() {
					// A new frame has already started behind this one;
					// this one cannot be salvaged.
					aborted = true
				} else {
					// Genuinely might complete once more data arrives.
					return 0
				}
			}
			if aborted {
				break
			}
		}

		if aborted {
			x.dropByte()
			continue
		}

		if accum&0xFF == 0xFF {
			x.recvIdx = (x.recvIdx + idx) % len(x.recv)
			x.recvSize -= idx
			return length
		}

		x.dropByte()
	}

	return 0
}

// RecvFrame returns an already-buffered frame if one is available;
// otherwise it refills from the transport once and retries the decode. A
// return of 0 means "no frame yet, try again after more data arrives"; a
// positive return is the payload length now sitting in out; a non-nil
// error (returned with a length of 0) signals a fatal transport error for
// this call.
func (x *Xbee) RecvFrame(out []byte) (int, error) {
	if n := x.DecodeFrame(out); n > 0 {
		return n, nil
	}

	if _, err := x.FillBuffer(); err != nil {
		return 0, err
	}

	return x.DecodeFrame(out), nil
}
