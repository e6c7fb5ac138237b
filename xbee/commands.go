package xbee

// API frame type identifiers for outgoing frames.
const (
	apiATCommand        byte = 0x08
	apiATQueueParameter byte = 0x09
	apiRemoteATCommand  byte = 0x17
	apiTransmit64       byte = 0x00
	apiTransmit16       byte = 0x01
)

// ATCommand sends an AT_COMMAND frame (API 0x08): id, frame id, the two
// AT command letters, then any parameter bytes. frameId of 0 disables the
// module's status response; ATCommand does not enforce this.
func (x *Xbee) ATCommand(frameID byte, at [2]byte, params []byte) error {
	return x.sendATFrame(apiATCommand, frameID, at, params)
}

// ATQueueParameter sends an AT_QUEUE_PARAMETER frame (API 0x09): same
// payload layout as ATCommand, but the module queues the change instead
// of applying it immediately.
func (x *Xbee) ATQueueParameter(frameID byte, at [2]byte, params []byte) error {
	return x.sendATFrame(apiATQueueParameter, frameID, at, params)
}

func (x *Xbee) sendATFrame(api byte, frameID byte, at [2]byte, params []byte) error {
	var accum uint8
	if err := x.startFrame(uint16(4+len(params)), &accum); err != nil {
		return err
	}
	header := [4]byte{api, frameID, at[0], at[1]}
	if err := x.writeBytes(header[:], &accum, CodeWritePayloadFailed); err != nil {
		return err
	}
	if err := x.writeBytes(params, &accum, CodeWritePayloadFailed); err != nil {
		return err
	}
	return x.finishFrame(accum)
}

// RemoteATCommand sends a REMOTE_AT_COMMAND frame (API 0x17) to address,
// with the given remote-command options, AT command, and parameter bytes.
func (x *Xbee) RemoteATCommand(frameID byte, address Address, options byte, at [2]byte, params []byte) error {
	var buf [15]byte
	buf[0] = apiRemoteATCommand
	buf[1] = frameID
	address.put64(buf[2:10])
	address.put16(buf[10:12])
	buf[12] = options
	buf[13] = at[0]
	buf[14] = at[1]

	var accum uint8
	if err := x.startFrame(uint16(len(buf)+len(params)), &accum); err != nil {
		return err
	}
	if err := x.writeBytes(buf[:], &accum, CodeWritePayloadFailed); err != nil {
		return err
	}
	if err := x.writeBytes(params, &accum, CodeWritePayloadFailed); err != nil {
		return err
	}
	return x.finishFrame(accum)
}

// Transmit sends a TRANSMIT_64 (API 0x00) or TRANSMIT_16 (API 0x01) frame
// to address, chosen automatically by the address's kind, carrying data as
// the payload.
func (x *Xbee) Transmit(frameID byte, address Address, options byte, data []byte) error {
	if address.is16() {
		var buf [5]byte
		buf[0] = apiTransmit16
		buf[1] = frameID
		address.put16(buf[2:4])
		buf[4] = options

		var accum uint8
		if err := x.startFrame(uint16(len(buf)+len(data)), &accum); err != nil {
			return err
		}
		if err := x.writeBytes(buf[:], &accum, CodeWritePayloadFailed); err != nil {
			return err
		}
		if err := x.writeBytes(data, &accum, CodeWritePayloadFailed); err != nil {
			return err
		}
		return x.finishFrame(accum)
	}

	var buf [11]byte
	buf[0] = apiTransmit64
	buf[1] = frameID
	address.put64(buf[2:10])
	buf[10] = options

	var accum uint8
	if err := x.startFrame(uint16(len(buf)+len(data)), &accum); err != nil {
		return err
	}
	if err := x.writeBytes(buf[:], &accum, CodeWritePayloadFailed); err != nil {
		return err
	}
	if err := x.writeBytes(data, &accum, CodeWritePayloadFailed); err != nil {
		return err
	}
	return x.finishFrame(accum)
}
