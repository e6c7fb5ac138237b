package xbee

// Frame delimiters and escape bytes, API mode 2 (with escaping).
const (
	frameDelim  byte = 0x7E
	frameEscape byte = 0x7D
	xon         byte = 0x11
	xoff        byte = 0x13
)

func needsEscape(b byte) bool {
	return b == frameDelim || b == frameEscape || b == xon || b == xoff
}

func firstErr(err, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}

// writeBytes writes buf with API-mode-2 escaping applied, accumulating the
// unescaped byte values into accum as it goes. It is never called with the
// start delimiter, which is never escaped. code identifies which stage
// (length, payload, checksum) a short write should be attributed to.
func (x *Xbee) writeBytes(buf []byte, accum *uint8, code Code) error {
	escapeBuf := [2]byte{frameEscape, 0}

	off := 0
	for i, b := range buf {
		*accum += b

		if !needsEscape(b) {
			continue
		}

		if toWrite := buf[off:i]; len(toWrite) > 0 {
			n, err := x.transport.Write(toWrite)
			if err != nil || n != len(toWrite) {
				return newError(code, "short write", firstErr(err, ErrShortWrite))
			}
		}

		escapeBuf[1] = b ^ 0x20
		n, err := x.transport.Write(escapeBuf[:])
		if err != nil || n != len(escapeBuf) {
			return newError(code, "short write of escape sequence", firstErr(err, ErrShortWrite))
		}

		off = i + 1
	}

	if remaining := buf[off:]; len(remaining) > 0 {
		n, err := x.transport.Write(remaining)
		if err != nil || n != len(remaining) {
			return newError(code, "short write", firstErr(err, ErrShortWrite))
		}
	}

	return nil
}

// startFrame writes the start delimiter (never escaped) and the
// escape-encoded length, then resets accum to 0 so it is ready to
// accumulate the payload.
func (x *Xbee) startFrame(totalLength uint16, accum *uint8) error {
	n, err := x.transport.Write([]byte{frameDelim})
	if err != nil || n != 1 {
		return newError(CodeWriteDelimFailed, "short write of start delimiter", firstErr(err, ErrShortWrite))
	}

	*accum = 0
	lenBuf := [2]byte{byte(totalLength >> 8), byte(totalLength)}
	if err := x.writeBytes(lenBuf[:], accum, CodeWriteLengthFailed); err != nil {
		return err
	}

	*accum = 0
	return nil
}

// finishFrame writes the checksum byte, computed as 0xFF minus the
// accumulated (mod-256) sum of the unescaped payload bytes.
func (x *Xbee) finishFrame(accum uint8) error {
	checksum := 0xFF - accum
	var dummy uint8
	return x.writeBytes([]byte{checksum}, &dummy, CodeWriteChecksumFailed)
}

// SendFrame emits a complete frame — start delimiter, escape-encoded
// length, escape-encoded payload, checksum — directly to the transport.
// A short write at any stage is a fatal error for this frame; SendFrame
// never buffers or retries.
func (x *Xbee) SendFrame(payload []byte) error {
	var accum uint8
	if err := x.startFrame(uint16(len(payload)), &accum); err != nil {
		return err
	}
	if err := x.writeBytes(payload, &accum, CodeWritePayloadFailed); err != nil {
		return err
	}
	return x.finishFrame(accum)
}
