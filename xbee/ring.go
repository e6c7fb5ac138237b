package xbee

// dropByte drops one byte from the head of the ring. It is the sole
// mechanism by which the decoder resynchronizes after corrupt or
// oversized framing: every failure path drops exactly one byte and
// retries, guaranteeing forward progress.
func (x *Xbee) dropByte() {
	x.recvIdx++
	if x.recvIdx >= len(x.recv) {
		x.recvIdx = 0
	}
	x.recvSize--
}

// byteAt returns the logical byte at offset i (0 <= i < recvSize) without
// consuming it.
func (x *Xbee) byteAt(i int) byte {
	idx := i + x.recvIdx
	if idx >= len(x.recv) {
		idx -= len(x.recv)
	}
	return x.recv[idx]
}

// nextByteResult distinguishes why getNextByte could not return a byte.
type nextByteResult int

const (
	nextByteOK nextByteResult = iota
	// nextByteFoundStart means the unescaped byte read was itself a start
	// delimiter (0x7E) — the frame currently being read is corrupt and a
	// new one has begun.
	nextByteFoundStart
	// nextByteNotEnoughData means idx has run past the data currently
	// held in the ring; the caller must decide whether to force progress,
	// abandon the frame, or wait for more data.
	nextByteNotEnoughData
)

// getNextByte reads and unescapes one logical byte starting at *idx,
// advancing *idx by 1 (unescaped) or 2 (escaped) raw ring positions on
// success. idx tracks raw ring offsets, not payload offsets — an escaped
// byte consumes two ring positions to produce one payload byte.
func (x *Xbee) getNextByte(idx *int) (byte, nextByteResult) {
	if *idx >= x.recvSize {
		return 0, nextByteNotEnoughData
	}

	b := x.byteAt(*idx)

	if b == frameDelim {
		return 0, nextByteFoundStart
	}

	if b == frameEscape {
		if *idx+1 >= x.recvSize {
			return 0, nextByteNotEnoughData
		}
		b = x.byteAt(*idx + 1)
		if b == frameDelim {
			return 0, nextByteFoundStart
		}
		*idx += 2
		return b ^ 0x20, nextByteOK
	}

	*idx++
	return b, nextByteOK
}

// findNextDelim reports whether a start delimiter exists anywhere in the
// ring after logical offset 0 — used to decide whether a frame that ran
// out of data mid-unescape should be abandoned (a new frame has already
// started behind it) or simply awaited (refill may still complete it).
func (x *Xbee) findNextDelim() bool {
	for i := 1; i < x.recvSize; i++ {
		if x.byteAt(i) == frameDelim {
			return true
		}
	}
	return false
}

// FillBuffer refills the ring from the transport. It performs a two-phase
// fill: first from the tail index to the end of the backing array; if
// that read returned exactly what was requested and the head is not at
// physical index 0, a second read fills from 0 up to the head, reusing
// freed head-side space within the same call. Returns the total bytes
// added, or a negative-Code error if the transport failed. A transport
// Read returning 0 is never an error.
func (x *Xbee) FillBuffer() (int, error) {
	readStart := x.recvIdx + x.recvSize
	var readEnd int
	if readStart < len(x.recv) {
		readEnd = len(x.recv)
	} else {
		readStart -= len(x.recv)
		readEnd = x.recvIdx
	}

	readLen := readEnd - readStart
	if readLen == 0 {
		return 0, nil
	}

	n, err := x.transport.Read(x.recv[readStart:readEnd])
	if err != nil {
		return 0, newError(CodeReadFailed, "refill read failed", err)
	}
	if n > 0 {
		x.recvSize += n
	}

	if n == readLen && readEnd != x.recvIdx && x.recvSize < len(x.recv) {
		total := n

		readStart = 0
		readEnd = x.recvIdx
		readLen = readEnd - readStart

		n2, err := x.transport.Read(x.recv[readStart:readEnd])
		if err != nil {
			return total, newError(CodeReadFailed, "refill read failed", err)
		}
		if n2 > 0 {
			x.recvSize += n2
		}

		return total + n2, nil
	}

	return n, nil
}
