package rhd

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("NilTransport", func(t *testing.T) {
		if _, err := New(nil); !errors.Is(err, ErrNilTransport) {
			t.Errorf("expected ErrNilTransport, got %v", err)
		}
	})
	t.Run("Defaults", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport())
		if d.DualRate() {
			t.Error("expected single-rate by default")
		}
		if d.Variant() != RHD2164 {
			t.Errorf("expected RHD2164, got %s", d.Variant())
		}
		if d.ChannelMap() != DefaultChannelMap {
			t.Error("expected the default channel map")
		}
		if d.PipelineState() != Cold {
			t.Errorf("expected a cold pipeline, got %s", d.PipelineState())
		}
	})
	t.Run("BadChannelMap", func(t *testing.T) {
		m := IdentityChannelMap()
		m[3] = 4
		if _, err := New(newFixedTransport(), WithChannelMap(m)); !errors.Is(err, ErrInvalidChannelMap) {
			t.Errorf("expected ErrInvalidChannelMap, got %v", err)
		}
	})
	t.Run("OptionRestore", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport())
		undo := DualRate(true)(d)
		if !d.DualRate() {
			t.Fatal("option not applied")
		}
		undo(d)
		if d.DualRate() {
			t.Error("option not restored")
		}
	})
}

func TestSend(t *testing.T) {
	t.Run("SingleRate", func(t *testing.T) {
		tr := newFixedTransport()
		d := newTestDevice(t, tr)
		n, err := d.Send(0xAA, 0x55)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 1 || len(tr.calls) != 1 || tr.calls[0] != 1 {
			t.Errorf("expected one transfer of 1 word, got n=%d calls=%v", n, tr.calls)
		}
		if tx := d.TxWords(); tx[0] != 0xAA55 {
			t.Errorf("expected 0xAA55, got 0x%04X", tx[0])
		}
		if rx := d.RxWords(); rx[0] != 0xAAAA || rx[1] != 0x5555 {
			t.Errorf("unexpected rx scratch: %04X", rx)
		}
	})
	t.Run("DualRate", func(t *testing.T) {
		tr := newFixedTransport()
		d := newTestDevice(t, tr, DualRate(true))
		n, err := d.Send(0xAA, 0x55)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 2 || len(tr.calls) != 1 || tr.calls[0] != 2 {
			t.Errorf("expected one transfer of 2 words, got n=%d calls=%v", n, tr.calls)
		}
		tx := d.TxWords()
		if tx[0] != 0xCCCC || tx[1] != 0x3333 {
			t.Errorf("expected [CCCC 3333], got %04X", tx)
		}
	})
}

func TestSendRaw(t *testing.T) {
	t.Run("SingleRate", func(t *testing.T) {
		tr := newFixedTransport()
		d := newTestDevice(t, tr)
		n, err := d.SendRaw(0xAA)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 1 || d.TxWords()[0] != 0xAA {
			t.Errorf("expected raw 0x00AA in 1 word, got n=%d tx=%04X", n, d.TxWords())
		}
	})
	t.Run("DualRate", func(t *testing.T) {
		tr := newFixedTransport()
		d := newTestDevice(t, tr, DualRate(true))
		n, err := d.SendRaw(0xAA)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tx := d.TxWords()
		if n != 2 || tx[0] != 0xAA || tx[1] != 0 {
			t.Errorf("expected [00AA 0000] in 2 words, got n=%d tx=%04X", n, tx)
		}
	})
}

func TestReadWrite(t *testing.T) {
	t.Run("ReadSingle", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport())
		n, err := d.Read(0x0F)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx := d.TxWords(); n != 1 || tx[0]&0xFF00 != 0xCF00 || tx[0]&0xFF != 0 {
			t.Errorf("expected 0xCF00, got 0x%04X", tx[0])
		}
	})
	t.Run("ReadDual", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport(), DualRate(true))
		if _, err := d.Read(0x0F); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx := d.TxWords(); tx[0] != 0xF0FF || tx[1] != 0 {
			t.Errorf("expected [F0FF 0000], got %04X", tx)
		}
	})
	t.Run("ReadMasksAddress", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport())
		if _, err := d.Read(Register(0xFF)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx := d.TxWords(); tx[0] != 0xFF00 {
			t.Errorf("expected 0xFF00, got 0x%04X", tx[0])
		}
	})
	t.Run("WriteSingle", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport())
		if _, err := d.Write(0x0F, 0x55); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx := d.TxWords(); tx[0] != 0x8F55 {
			t.Errorf("expected 0x8F55, got 0x%04X", tx[0])
		}
	})
	t.Run("WriteDual", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport(), DualRate(true))
		if _, err := d.Write(0x0F, 0x55); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx := d.TxWords(); tx[0] != 0xC0FF || tx[1] != 0x3333 {
			t.Errorf("expected [C0FF 3333], got %04X", tx)
		}
	})
	t.Run("WriteMasksAddress", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport())
		if _, err := d.Write(Register(0xC1), 0x00); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx := d.TxWords(); tx[0]>>14 != 0b10 || (tx[0]>>8)&0x3F != 0x01 {
			t.Errorf("expected write opcode to register 1, got 0x%04X", tx[0])
		}
	})
}

func TestValue(t *testing.T) {
	t.Run("SingleRate", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport())
		if _, err := d.Read(RegChipID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v := d.Value(); v != 0xAA {
			t.Errorf("expected 0xAA, got 0x%02X", v)
		}
	})
	t.Run("DualRate", func(t *testing.T) {
		tr := newFixedTransport()
		tr.rx1 = DuplicateBits(0x42)
		d := newTestDevice(t, tr, DualRate(true))
		if _, err := d.Read(RegChipID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v := d.Value(); v != 0x42 {
			t.Errorf("expected 0x42, got 0x%02X", v)
		}
	})
}

func TestReadForce(t *testing.T) {
	for _, dual := range []bool{false, true} {
		chip := newFakeChip(dual)
		chip.regs[RegImpedanceCheckDAC] = 0x5A
		d := newTestDevice(t, chip, DualRate(dual))
		v, err := d.ReadForce(RegImpedanceCheckDAC)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 0x5A {
			t.Errorf("dual=%t: expected 0x5A, got 0x%02X", dual, v)
		}
		if chip.commands != 3 {
			t.Errorf("dual=%t: expected 3 commands, got %d", dual, chip.commands)
		}
	}
}

func TestCalibration(t *testing.T) {
	t.Run("Calibrate", func(t *testing.T) {
		chip := newFakeChip(false)
		d := newTestDevice(t, chip)
		if _, err := d.Calibrate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if chip.calibs != 1 {
			t.Errorf("expected 1 calibration, got %d", chip.calibs)
		}
		if chip.commands != 1+calibrationDummyCmds {
			t.Errorf("expected %d commands, got %d", 1+calibrationDummyCmds, chip.commands)
		}
	})
	t.Run("ClearSingle", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport())
		n, err := d.ClearCalibration()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx := d.TxWords(); n != 1 || tx[0] != uint16(CMDClearCalibrate)<<8 {
			t.Errorf("expected 0x6A00, got 0x%04X", tx[0])
		}
	})
	t.Run("ClearDual", func(t *testing.T) {
		d := newTestDevice(t, newFixedTransport(), DualRate(true))
		n, err := d.ClearCalibration()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx := d.TxWords(); n != 2 || tx[0] != 0b0011110011001100 {
			t.Errorf("expected 0x3CCC, got 0x%04X", tx[0])
		}
	})
}

func TestTransportError(t *testing.T) {
	bus := errors.New("bus fault")
	calls := 0
	tr := TransportFunc(func(tx, rx []uint16) (int, error) {
		calls++
		return -1, bus
	})
	d := newTestDevice(t, tr)

	n, err := d.Write(RegADCConfig, 0)
	if err != bus {
		t.Errorf("expected the transport error unmodified, got %v", err)
	}
	if n != -1 {
		t.Errorf("expected the transport count unmodified, got %d", n)
	}

	if err = d.Setup(DefaultConfig()); !errors.Is(err, bus) {
		t.Errorf("expected setup to stop on bus fault, got %v", err)
	}
	if err = d.SampleAll(); !errors.Is(err, bus) {
		t.Errorf("expected sweep to stop on bus fault, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected no retries (3 calls), got %d", calls)
	}
}
