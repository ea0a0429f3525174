package rhd

import "fmt"

const (
	// NumChannels is the number of logical channels addressed by a sweep.
	NumChannels = 32
	// NumSamples is the size of the sample store, one slot per physical channel.
	NumSamples = 2 * NumChannels
)

// ChannelMap maps a logical sample index to a physical storage index.
// Index ch holds MISO A channel ch, index ch+32 holds MISO B channel ch.
type ChannelMap [NumSamples]int

// DefaultChannelMap is the electrode layout of the reference headstage.
// Pass a different map with WithChannelMap to match other wiring.
var DefaultChannelMap = ChannelMap{
	10, 22, 12, 24, 13, 26, 7, 28, 1, 30, 59, 32, 53, 34, 48, 36,
	62, 16, 14, 21, 11, 27, 5, 33, 63, 39, 57, 45, 51, 44, 50, 40,
	8, 18, 15, 19, 9, 25, 3, 31, 61, 37, 55, 43, 49, 46, 52, 38,
	6, 20, 4, 17, 2, 23, 0, 29, 60, 35, 58, 41, 56, 47, 54, 42,
}

// IdentityChannelMap stores every sample at its logical index.
func IdentityChannelMap() ChannelMap {
	var m ChannelMap
	for i := range m {
		m[i] = i
	}
	return m
}

// Validate checks that m is a permutation of 0-63.
func (m ChannelMap) Validate() error {
	var seen [NumSamples]bool
	for i, p := range m {
		if p < 0 || p >= NumSamples {
			return fmt.Errorf("%w: index %d maps to %d", ErrInvalidChannelMap, i, p)
		}
		if seen[p] {
			return fmt.Errorf("%w: %d mapped twice", ErrInvalidChannelMap, p)
		}
		seen[p] = true
	}
	return nil
}

// Physical returns the storage index of logical channel ch on die B when
// dieB is set, die A otherwise.
func (m ChannelMap) Physical(ch int, dieB bool) int {
	if dieB {
		ch += NumChannels
	}
	return m[ch]
}

// convertCmd and convertCmdDouble hold the CONVERT(ch) words, channel in
// bits [13:8], for single and dual-rate mode respectively.
var (
	convertCmd       [NumChannels]uint16
	convertCmdDouble [NumChannels]uint16
)

func init() {
	for ch := 0; ch < NumChannels; ch++ {
		convertCmd[ch] = uint16(ch) << 8
		convertCmdDouble[ch] = DuplicateBits(byte(ch) | OpConvert)
	}
}

// ConvertCommand returns the word that requests a conversion of channel ch,
// doubled when dual is set.
func ConvertCommand(ch int, dual bool) uint16 {
	if dual {
		return convertCmdDouble[ch]
	}
	return convertCmd[ch]
}

// Pair is one decoded convert response: A from MISO A, B from MISO B.
// B is only meaningful on dual-die parts.
type Pair struct {
	A uint16
	B uint16
}

func (p Pair) String() string {
	return fmt.Sprintf("Pair{A:0x%04X, B:0x%04X}", p.A, p.B)
}

// PipelineState tracks whether the chip's result pipeline holds the
// CONVERT(0) result that the first decode of a sweep expects.
type PipelineState int

const (
	// Cold means the last command was not CONVERT(0); a sweep must warm up first.
	Cold PipelineState = iota
	// Primed means the previous command was CONVERT(0).
	Primed
)

func (s PipelineState) String() string {
	switch s {
	case Cold:
		return "Cold"
	case Primed:
		return "Primed"
	default:
		return "(invalid pipeline state)"
	}
}
