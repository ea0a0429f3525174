package rhd

import (
	"testing"

	"github.com/l0nax/go-spew/spew"
)

var pprint = spew.ConfigState{
	Indent:                  "\t",
	MaxDepth:                0,
	DisableMethods:          false,
	DisablePointerMethods:   false,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	ContinueOnMethod:        true,
	SortKeys:                true,
	SpewKeys:                true,
	HighlightValues:         true,
	HighlightHex:            true,
}

// dumpOnFail prints v when the test has failed so far.
func dumpOnFail(t *testing.T, label string, v ...interface{}) {
	t.Helper()
	if t.Failed() {
		t.Logf("%s:\n%s", label, pprint.Sdump(v...))
	}
}

// fixedTransport mimics a bus that always returns the same two words.
type fixedTransport struct {
	calls []int
	last  []uint16
	rx0   uint16
	rx1   uint16
}

func newFixedTransport() *fixedTransport {
	return &fixedTransport{rx0: 0xAAAA, rx1: 0x5555}
}

func (f *fixedTransport) Transfer(tx, rx []uint16) (int, error) {
	f.calls = append(f.calls, len(tx))
	f.last = append(f.last[:0], tx...)
	rx[0] = f.rx0
	rx[1] = f.rx1
	return len(tx), nil
}

// interleave is the inverse of Deinterleave: a on odd bits, b on even bits.
func interleave(a, b byte) uint16 {
	var w uint16
	for i := 0; i < 8; i++ {
		w |= uint16(a>>i&1) << (2*i + 1)
		w |= uint16(b>>i&1) << (2 * i)
	}
	return w
}

// fakeChip emulates an RHD2164 with the real two-command result latency.
// Convert results are convA(ch) on MISO A and convB(ch) on MISO B.
type fakeChip struct {
	dual     bool
	regs     [NumRegisters]byte
	writes   []Register
	pending  [2]Pair
	commands int
	calibs   int
}

func newFakeChip(dual bool) *fakeChip {
	c := &fakeChip{dual: dual}
	copy(c.regs[RegIntan0:], intanSignature)
	c.regs[RegDieRevision] = 1
	c.regs[RegUnipolar] = 0
	c.regs[RegNumAmplifiers] = 32
	c.regs[RegChipID] = byte(RHD2164)
	return c
}

func convA(ch int) uint16 { return 0x1000 + uint16(ch)<<4 }
func convB(ch int) uint16 { return 0x8000 + uint16(ch)<<4 }

func (c *fakeChip) Transfer(tx, rx []uint16) (int, error) {
	var cmd, val byte
	if c.dual {
		cmd, _ = Deinterleave(tx[0])
		val, _ = Deinterleave(tx[1])
	} else {
		cmd, val = byte(tx[0]>>8), byte(tx[0])
	}

	var result Pair
	switch {
	case cmd == CMDCalibrate:
		c.calibs++
	case cmd == CMDClearCalibrate:
	case cmd&0xC0 == OpConvert:
		ch := int(cmd & addrMask)
		result = Pair{A: convA(ch), B: convB(ch)}
	case cmd&0xC0 == OpWrite:
		reg := Register(cmd & addrMask)
		c.regs[reg] = val
		c.writes = append(c.writes, reg)
		result = Pair{A: 0xFF00 | uint16(val), B: 0xFF00 | uint16(val)}
	case cmd&0xC0 == OpRead:
		v := uint16(c.regs[cmd&addrMask])
		result = Pair{A: v, B: v}
	}

	// answer with the result of two commands ago
	out := c.pending[0]
	c.pending[0], c.pending[1] = c.pending[1], result
	c.commands++

	if c.dual {
		rx[0] = interleave(byte(out.A>>8), byte(out.B>>8))
		rx[1] = interleave(byte(out.A), byte(out.B))
	} else {
		rx[0] = out.A
		rx[1] = out.B
	}
	return len(tx), nil
}

func newTestDevice(t *testing.T, tr Transport, opts ...Option) *Device {
	t.Helper()
	d, err := New(tr, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}
