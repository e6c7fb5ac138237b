package xbee

// AddressKind discriminates the variants of Address.
type AddressKind int

const (
	// Addr64Kind carries a 64-bit IEEE extended address.
	Addr64Kind AddressKind = iota
	// Addr16Kind carries a 16-bit network address.
	Addr16Kind
	// Addr64BroadcastKind is the fixed 64-bit broadcast address
	// (00 00 00 00 00 00 FF FF). Carries no payload.
	Addr64BroadcastKind
	// Addr16BroadcastKind is the fixed 16-bit broadcast address
	// (FF FF). Carries no payload.
	Addr16BroadcastKind
)

// Address is a tagged value identifying an XBee destination or source.
// Broadcast variants carry no payload; their wire encoding is fixed by
// the protocol (see put64/put16).
type Address struct {
	kind  AddressKind
	addr  uint64
	naddr uint16
}

// Addr64 constructs a 64-bit unicast address.
func Addr64(addr uint64) Address {
	return Address{kind: Addr64Kind, addr: addr}
}

// Addr16 constructs a 16-bit unicast network address.
func Addr16(naddr uint16) Address {
	return Address{kind: Addr16Kind, naddr: naddr}
}

// Addr64Broadcast constructs the fixed 64-bit broadcast address.
func Addr64Broadcast() Address {
	return Address{kind: Addr64BroadcastKind}
}

// Addr16Broadcast constructs the fixed 16-bit broadcast address.
func Addr16Broadcast() Address {
	return Address{kind: Addr16BroadcastKind}
}

// Kind reports which variant this Address holds.
func (a Address) Kind() AddressKind {
	return a.kind
}

// Value64 returns the 64-bit address carried by an Addr64Kind Address. The
// second return is false for any other kind.
func (a Address) Value64() (uint64, bool) {
	if a.kind != Addr64Kind {
		return 0, false
	}
	return a.addr, true
}

// Value16 returns the 16-bit network address carried by an Addr16Kind
// Address. The second return is false for any other kind.
func (a Address) Value16() (uint16, bool) {
	if a.kind != Addr16Kind {
		return 0, false
	}
	return a.naddr, true
}

// put64 writes the 8-byte big-endian wire encoding of a's 64-bit address
// field into buf (which must have length >= 8), following the fixed
// broadcast encoding when a is a broadcast variant and the 64-bit field
// substitute (00..00 FF FE) when a is a 16-bit unicast address used where
// a 64-bit field is required (e.g. RemoteATCommand).
func (a Address) put64(buf []byte) {
	switch a.kind {
	case Addr64Kind:
		v := a.addr
		for i := 7; i >= 0; i-- {
			buf[i] = byte(v)
			v >>= 8
		}
	case Addr64BroadcastKind:
		buf[0], buf[1], buf[2], buf[3] = 0, 0, 0, 0
		buf[4], buf[5] = 0, 0
		buf[6], buf[7] = 0xFF, 0xFF
	case Addr16Kind, Addr16BroadcastKind:
		// Reserved 64-bit field used when addressing by 16-bit network
		// address: 00 00 00 00 00 00 FF FE.
		buf[0], buf[1], buf[2], buf[3] = 0, 0, 0, 0
		buf[4], buf[5] = 0, 0
		buf[6], buf[7] = 0xFF, 0xFE
	}
}

// put16 writes the 2-byte big-endian wire encoding of a's 16-bit network
// address field into buf (which must have length >= 2), following the
// fixed broadcast encoding and the 16-bit field substitute (FF FE) used
// when addressing by 64-bit address.
func (a Address) put16(buf []byte) {
	switch a.kind {
	case Addr16Kind:
		buf[0] = byte(a.naddr >> 8)
		buf[1] = byte(a.naddr)
	case Addr16BroadcastKind:
		buf[0], buf[1] = 0xFF, 0xFF
	case Addr64Kind, Addr64BroadcastKind:
		// Reserved 16-bit field used when addressing by 64-bit address:
		// FF FE.
		buf[0], buf[1] = 0xFF, 0xFE
	}
}

// is16 reports whether a should be encoded using the 16-bit addressing
// form (TRANSMIT_16) as opposed to the 64-bit form (TRANSMIT_64).
func (a Address) is16() bool {
	return a.kind == Addr16Kind || a.kind == Addr16BroadcastKind
}
