package xbee

// API frame type identifiers for incoming (response) frames.
const (
	apiModemStatus      byte = 0x8A
	apiTransmitStatus   byte = 0x89
	apiATResponse       byte = 0x88
	apiRemoteATResponse byte = 0x97
	apiReceive64        byte = 0x80
	apiReceive16        byte = 0x81
)

// Response is realized as an interface with a private marker method,
// following the glossary's "discriminator + union" guidance for languages
// without a native sum type: a caller cannot construct one of these
// without picking a concrete variant, and reading variant-specific fields
// requires a type switch that names the tag.
type Response interface {
	isResponse()
}

// ModemStatus is the API 0x8A response: an unsolicited notification of a
// hardware or network condition (reset, associated, disassociated, ...).
type ModemStatus struct {
	Status byte
}

func (ModemStatus) isResponse() {}

// TransmitStatus is the API 0x89 response: the outcome of a previously
// sent frame, correlated by FrameID.
type TransmitStatus struct {
	FrameID byte
	Status  byte
}

func (TransmitStatus) isResponse() {}

// AtResponse is the API 0x88 response to a local ATCommand/ATQueueParameter.
// Data borrows from the caller-owned frame buffer passed to ParseFrame; it
// is not copied and must not outlive that buffer.
type AtResponse struct {
	FrameID    byte
	ATCommand  [2]byte
	Status     byte
	Data       []byte
}

func (AtResponse) isResponse() {}

// RemoteAtResponse is the API 0x97 response to a RemoteATCommand. Data
// borrows from the caller-owned frame buffer, as with AtResponse.
type RemoteAtResponse struct {
	FrameID          byte
	ResponderAddr64  uint64
	ResponderAddr16  uint16
	ATCommand        [2]byte
	Status           byte
	Data             []byte
}

func (RemoteAtResponse) isResponse() {}

// Receive64 is the API 0x80 response: a data frame received from a peer
// addressed by its 64-bit address. Payload borrows from the caller-owned
// frame buffer.
type Receive64 struct {
	SrcAddr64 uint64
	RSSI      byte
	Options   byte
	Payload   []byte
}

func (Receive64) isResponse() {}

// Receive16 is the API 0x81 response: a data frame received from a peer
// addressed by its 16-bit network address. Payload borrows from the
// caller-owned frame buffer.
type Receive16 struct {
	SrcAddr16 uint16
	RSSI      byte
	Options   byte
	Payload   []byte
}

func (Receive16) isResponse() {}

// addr64FromBigEndian reconstructs a 64-bit address from 8 big-endian
// bytes. This is the corrected form of the reference implementation's
// shift expression: the original computed
// "b[1+i] << (64-8*(i-1))", which produces a negative (and in the source
// language, undefined) shift amount for i=0. The equivalent-but-defined
// form used here is the running "(addr << 8) | b[i]" accumulation.
func addr64FromBigEndian(b []byte) uint64 {
	var addr uint64
	for i := 0; i < 8; i++ {
		addr = (addr << 8) | uint64(b[i])
	}
	return addr
}

// ParseFrame takes an unescaped, checksum-validated payload (as produced
// by DecodeFrame) and returns the tagged Response it represents. Variable-
// length fields in the returned Response reference payload directly; the
// caller must keep the backing buffer alive for as long as the Response
// is used.
func ParseFrame(payload []byte) (Response, error) {
	if len(payload) < 2 {
		return nil, wrongLength()
	}

	apiID := payload[0]
	switch apiID {
	case apiModemStatus:
		if len(payload) != 2 {
			return nil, wrongLength()
		}
		return ModemStatus{Status: payload[1]}, nil

	case apiTransmitStatus:
		if len(payload) != 3 {
			return nil, wrongLength()
		}
		return TransmitStatus{FrameID: payload[1], Status: payload[2]}, nil

	case apiATResponse:
		if len(payload) < 5 {
			return nil, wrongLength()
		}
		return AtResponse{
			FrameID:   payload[1],
			ATCommand: [2]byte{payload[2], payload[3]},
			Status:    payload[4],
			Data:      payload[5:],
		}, nil

	case apiRemoteATResponse:
		if len(payload) < 15 {
			return nil, wrongLength()
		}
		return RemoteAtResponse{
			FrameID:         payload[1],
			ResponderAddr64: addr64FromBigEndian(payload[2:10]),
			// Both bytes are combined big-endian: payload[10] is the high
			// byte, payload[11] the low byte.
			ResponderAddr16:uint16(payload[10])<<8 | uint16(payload[11]),
			ATCommand:       [2]byte{payload[12], payload[13]},
			Status:          payload[14],
			Data:            payload[15:],
		}, nil

	case apiReceive64:
		if len(payload) < 11 {
			return nil, wrongLength()
		}
		return Receive64{
			SrcAddr64: addr64FromBigEndian(payload[1:9]),
			RSSI:      payload[9],
			Options:   payload[10],
			Payload:   payload[11:],
		}, nil

	case apiReceive16:
		if len(payload) < 5 {
			return nil, wrongLength()
		}
		return Receive16{
			// Corrected form: the reference implementation assigns this
			// twice ("= b[1]<<8" then "= b[2]"), clobbering the high byte
			// instead of combining them.
			SrcAddr16: uint16(payload[1])<<8 | uint16(payload[2]),
			RSSI:      payload[3],
			Options:   payload[4],
			Payload:   payload[5:],
		}, nil

	default:
		return nil, newError(CodeUnknownAPIID, "unknown API id", ErrUnknownApiId)
	}
}

func wrongLength() error {
	return newError(CodeWrongLengthForAPI, "wrong length for API id", ErrWrongLengthForApi)
}
