package rhd

import "fmt"

// validBit is the frame marker forced into every stored sample: 1 everywhere
// except the slot holding logical channel 0, which gets 0 so a consumer
// streaming the store can find the start of a frame.
const validBit uint16 = 0x0001

// PipelineState reports whether the next sweep can decode channel 0 without
// a warm-up command.
func (d *Device) PipelineState() PipelineState {
	return d.pipeline
}

// Convert requests a conversion of logical channel ch and returns the
// decoded response. The chip answers two commands late: the returned Pair
// belongs to the CONVERT issued two calls before this one.
func (d *Device) Convert(ch int) (Pair, error) {
	if ch < 0 || ch >= NumChannels {
		return Pair{}, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}

	if _, err := d.sendRaw(ConvertCommand(ch, d.dualRate)); err != nil {
		d.pipeline = Cold
		return Pair{}, err
	}

	d.pipeline = Cold
	if ch == 0 {
		d.pipeline = Primed
	}

	return d.decode(), nil
}

// SampleAll runs one sweep over all 32 logical channels and stores every
// result at its mapped physical slot. The sweep ends on CONVERT(0), so
// back-to-back sweeps stay primed; a cold device gets one extra CONVERT(0)
// up front.
func (d *Device) SampleAll() error {
	if d.pipeline != Primed {
		d.log.Trace().Msg("pipeline cold, warming up")
		if _, err := d.sendRaw(ConvertCommand(0, d.dualRate)); err != nil {
			return err
		}
	}
	d.pipeline = Cold

	// the response to this one is channel 0 of the previous CONVERT(0)
	if _, err := d.sendRaw(ConvertCommand(1, d.dualRate)); err != nil {
		return err
	}

	for i := 2; i < NumChannels+2; i++ {
		ch := 0
		if i < NumChannels {
			ch = i
		}

		// issue first, then decode what came back: it is channel i-2
		if _, err := d.sendRaw(ConvertCommand(ch, d.dualRate)); err != nil {
			return err
		}
		d.store(i-2, d.decode())
	}

	d.samples[d.chMap[0]] &^= validBit
	d.pipeline = Primed

	d.log.Trace().Msg("sweep complete")
	return nil
}

// decode splits the receive scratch into the MISO A and MISO B samples.
func (d *Device) decode() Pair {
	if !d.dualRate {
		return Pair{A: d.rx[0], B: d.rx[1]}
	}

	hiA, hiB := Deinterleave(d.rx[0])
	loA, loB := Deinterleave(d.rx[1])
	return Pair{
		A: uint16(hiA)<<8 | uint16(loA),
		B: uint16(hiB)<<8 | uint16(loB),
	}
}

func (d *Device) store(ch int, p Pair) {
	d.samples[d.chMap.Physical(ch, false)] = p.A | validBit
	if d.variant.DualDie() {
		d.samples[d.chMap.Physical(ch, true)] = p.B | validBit
	}
}

// Samples returns a copy of the sample store, indexed by physical channel.
func (d *Device) Samples() [NumSamples]uint16 {
	return d.samples
}

// Sample returns the stored value of physical channel idx.
func (d *Device) Sample(idx int) (uint16, error) {
	if idx < 0 || idx >= NumSamples {
		return 0, fmt.Errorf("%w: physical index %d", ErrInvalidChannel, idx)
	}
	return d.samples[idx], nil
}
