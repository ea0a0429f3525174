package periphspi

import (
	"errors"
	"os"
	"testing"

	"periph.io/x/conn/v3"

	"github.com/yunginnanet/ftdi-rhd2000/pkg/rhd"
)

// fakeConn answers every frame with resp and records what was sent.
type fakeConn struct {
	sent [][]byte
	resp []byte
	err  error
}

func (f *fakeConn) String() string      { return "fake" }
func (f *fakeConn) Duplex() conn.Duplex { return conn.Full }

func (f *fakeConn) Tx(w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, append([]byte(nil), w...))
	copy(r, f.resp)
	return nil
}

func TestTransfer(t *testing.T) {
	t.Run("SingleWord", func(t *testing.T) {
		c := &fakeConn{resp: []byte{0x12, 0x34}}
		rx := make([]uint16, 2)
		n, err := transfer(c, []uint16{0xC0FF}, rx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 word, got %d", n)
		}
		if len(c.sent) != 1 || c.sent[0][0] != 0xC0 || c.sent[0][1] != 0xFF {
			t.Errorf("word not sent MSB first: % X", c.sent)
		}
		if rx[0] != 0x1234 {
			t.Errorf("expected rx[0]=0x1234, got 0x%04X", rx[0])
		}
		if rx[1] != 0 {
			t.Errorf("rx[1] should be untouched, got 0x%04X", rx[1])
		}
	})

	t.Run("TwoWords", func(t *testing.T) {
		c := &fakeConn{resp: []byte{0xAA, 0x55}}
		rx := make([]uint16, 2)
		n, err := transfer(c, []uint16{0xCCCC, 0x3333}, rx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 2 || len(c.sent) != 2 {
			t.Fatalf("expected 2 frames, got n=%d frames=%d", n, len(c.sent))
		}
		if rx[0] != 0xAA55 || rx[1] != 0xAA55 {
			t.Errorf("unexpected rx: %04X", rx)
		}
	})

	t.Run("Error", func(t *testing.T) {
		bus := errors.New("bus fault")
		c := &fakeConn{err: bus}
		n, err := transfer(c, []uint16{0, 0}, make([]uint16, 2))
		if !errors.Is(err, bus) {
			t.Errorf("expected bus fault, got %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 words, got %d", n)
		}
	})

	t.Run("Device", func(t *testing.T) {
		c := &fakeConn{resp: []byte{0x00, 'I'}}
		dev, err := rhd.New(rhd.TransportFunc(func(tx, rx []uint16) (int, error) {
			return transfer(c, tx, rx)
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		v, err := dev.ReadForce(rhd.RegIntan0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 'I' {
			t.Errorf("expected 'I', got %q", v)
		}
		if len(c.sent) != 3 {
			t.Errorf("expected 3 reads, got %d", len(c.sent))
		}
	})
}

func TestOpen(t *testing.T) {
	if os.Getenv("TEST_SPIDEV") == "" {
		t.Skip("set 'TEST_SPIDEV' in environment to run this test")
	}

	cfg := DefaultConfig()
	cfg.Bus = os.Getenv("TEST_SPIDEV")

	p, err := Open(cfg)
	if err != nil {
		t.Fatalf("failed to open %s: %v", cfg.Bus, err)
	}
	defer func() {
		if err := p.Close(); err != nil {
			t.Errorf("failed to close: %v", err)
		}
	}()

	dev, err := rhd.New(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err = dev.SanityCheck(); err != nil {
		t.Errorf("sanity check failed: %v", err)
	}
}
