package rhd

// Send transmits a register byte and a value byte without touching the
// opcode bits of reg. In dual-rate mode both bytes are bit-doubled and sent
// as two words in a single transfer.
func (d *Device) Send(reg, val byte) (int, error) {
	d.pipeline = Cold

	if !d.dualRate {
		d.tx[0] = uint16(reg)<<8 | uint16(val)
		return d.t.Transfer(d.tx[:1], d.rx[:])
	}

	d.tx[0] = DuplicateBits(reg)
	d.tx[1] = DuplicateBits(val)
	return d.t.Transfer(d.tx[:2], d.rx[:])
}

// SendRaw transmits a pre-built word as-is. In dual-rate mode the word must
// already be doubled and the second word is the doubled zero value.
func (d *Device) SendRaw(word uint16) (int, error) {
	d.pipeline = Cold
	return d.sendRaw(word)
}

func (d *Device) sendRaw(word uint16) (int, error) {
	d.tx[0] = word

	if !d.dualRate {
		return d.t.Transfer(d.tx[:1], d.rx[:])
	}

	d.tx[1] = 0
	return d.t.Transfer(d.tx[:2], d.rx[:])
}

// Read issues a READ command for reg. The register value arrives two
// commands later; see ReadForce and Value.
func (d *Device) Read(reg Register) (int, error) {
	return d.Send(byte(reg)&addrMask|OpRead, 0)
}

// Write issues a WRITE command setting reg to val.
func (d *Device) Write(reg Register, val byte) (int, error) {
	return d.Send(byte(reg)&addrMask|OpWrite, val)
}

func (d *Device) write(reg Register, val byte) error {
	d.log.Debug().Stringer("reg", reg).Uint8("val", val).Msg("write register")
	_, err := d.Write(reg, val)
	return err
}

// ReadForce reads reg three times so that the last response carries its value.
func (d *Device) ReadForce(reg Register) (byte, error) {
	for i := 0; i < 3; i++ {
		if _, err := d.Read(reg); err != nil {
			return 0, err
		}
	}
	v := d.Value()
	d.log.Debug().Stringer("reg", reg).Uint8("val", v).Msg("read register")
	return v, nil
}

// Value extracts the 8-bit register value from the last response.
func (d *Device) Value() byte {
	if !d.dualRate {
		return byte(d.rx[0])
	}
	v, _ := Deinterleave(d.rx[1])
	return v
}

// Calibrate starts the ADC self-calibration and clocks the nine dummy
// commands it needs to complete.
func (d *Device) Calibrate() (int, error) {
	d.log.Debug().Msg("starting calibration")

	n, err := d.Send(CMDCalibrate, 0)
	if err != nil {
		return n, err
	}

	for i := 0; i < calibrationDummyCmds; i++ {
		if _, err = d.Read(RegChipID); err != nil {
			return n, err
		}
	}

	return n, nil
}

// ClearCalibration resets the ADC calibration.
func (d *Device) ClearCalibration() (int, error) {
	d.log.Debug().Msg("clearing calibration")
	return d.Send(CMDClearCalibrate, 0)
}

// TxWords returns a copy of the words sent by the last command.
func (d *Device) TxWords() []uint16 {
	if d.dualRate {
		return []uint16{d.tx[0], d.tx[1]}
	}
	return []uint16{d.tx[0]}
}

// RxWords returns a copy of the two-word receive scratch after the last command.
func (d *Device) RxWords() []uint16 {
	return []uint16{d.rx[0], d.rx[1]}
}
