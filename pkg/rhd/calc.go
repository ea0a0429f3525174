package rhd

// BiasCodes are the ADC buffer (register 1) and MUX (register 2) bias
// current settings.
type BiasCodes struct {
	ADCBuffer byte
	Mux       byte
}

type biasRow struct {
	minRate float64 // aggregate samples/s
	codes   BiasCodes
}

// biasTable is ascending; the first row is used for anything slower than
// the second.
var biasTable = []biasRow{
	{0, BiasCodes{ADCBuffer: 32, Mux: 40}},
	{140000, BiasCodes{ADCBuffer: 16, Mux: 40}},
	{175000, BiasCodes{ADCBuffer: 8, Mux: 40}},
	{220000, BiasCodes{ADCBuffer: 8, Mux: 32}},
	{280000, BiasCodes{ADCBuffer: 8, Mux: 26}},
	{350000, BiasCodes{ADCBuffer: 4, Mux: 18}},
	{440000, BiasCodes{ADCBuffer: 3, Mux: 16}},
	{525000, BiasCodes{ADCBuffer: 3, Mux: 7}},
	{700000, BiasCodes{ADCBuffer: 2, Mux: 4}},
}

// SampleRateBias picks the bias currents for fs samples/s on each of nCh
// channels. It returns the codes of the highest table rate not above the
// aggregate rate, and the aggregate rate itself.
func SampleRateBias(fs float64, nCh int) (BiasCodes, float64) {
	total := fs * float64(nCh)
	codes := biasTable[0].codes
	for _, row := range biasTable[1:] {
		if total < row.minRate {
			break
		}
		codes = row.codes
	}
	return codes, total
}

// HighCutoffCodes are the RH1 and RH2 DAC settings for the amplifier upper
// bandwidth (registers 8-11).
type HighCutoffCodes struct {
	RH1DAC1 byte
	RH1DAC2 byte
	RH2DAC1 byte
	RH2DAC2 byte
}

// LowCutoffCodes are the RL DAC settings for the amplifier lower bandwidth
// (registers 12-13). RLDAC3 is a single bit.
type LowCutoffCodes struct {
	RLDAC1 byte
	RLDAC2 byte
	RLDAC3 byte
}

// highCutoffTable is descending by frequency [Hz].
var highCutoffTable = []struct {
	freq  float64
	codes HighCutoffCodes
}{
	{20000, HighCutoffCodes{8, 0, 4, 0}},
	{15000, HighCutoffCodes{11, 0, 8, 0}},
	{10000, HighCutoffCodes{17, 0, 16, 0}},
	{7500, HighCutoffCodes{22, 0, 23, 0}},
	{5000, HighCutoffCodes{33, 0, 37, 0}},
	{3000, HighCutoffCodes{3, 1, 13, 1}},
	{2500, HighCutoffCodes{13, 1, 25, 1}},
	{2000, HighCutoffCodes{27, 1, 44, 1}},
	{1500, HighCutoffCodes{1, 2, 33, 2}},
	{1000, HighCutoffCodes{46, 2, 30, 3}},
	{750, HighCutoffCodes{41, 3, 36, 4}},
	{500, HighCutoffCodes{30, 5, 43, 6}},
	{300, HighCutoffCodes{6, 9, 2, 11}},
	{250, HighCutoffCodes{42, 10, 5, 13}},
	{200, HighCutoffCodes{24, 13, 7, 16}},
	{150, HighCutoffCodes{44, 17, 8, 21}},
	{100, HighCutoffCodes{38, 26, 5, 31}},
}

// lowCutoffTable is descending by frequency [Hz].
var lowCutoffTable = []struct {
	freq  float64
	codes LowCutoffCodes
}{
	{500, LowCutoffCodes{13, 0, 0}},
	{300, LowCutoffCodes{15, 0, 0}},
	{250, LowCutoffCodes{17, 0, 0}},
	{200, LowCutoffCodes{18, 0, 0}},
	{150, LowCutoffCodes{21, 0, 0}},
	{100, LowCutoffCodes{25, 0, 0}},
	{75, LowCutoffCodes{28, 0, 0}},
	{50, LowCutoffCodes{34, 0, 0}},
	{30, LowCutoffCodes{44, 0, 0}},
	{25, LowCutoffCodes{48, 0, 0}},
	{20, LowCutoffCodes{54, 0, 0}},
	{15, LowCutoffCodes{62, 0, 0}},
	{10, LowCutoffCodes{5, 1, 0}},
	{7.5, LowCutoffCodes{18, 1, 0}},
	{5, LowCutoffCodes{40, 1, 0}},
	{3, LowCutoffCodes{20, 2, 0}},
	{2.5, LowCutoffCodes{42, 2, 0}},
	{2, LowCutoffCodes{8, 3, 0}},
	{1.5, LowCutoffCodes{9, 4, 0}},
	{1, LowCutoffCodes{44, 6, 0}},
	{0.75, LowCutoffCodes{49, 9, 0}},
	{0.5, LowCutoffCodes{35, 17, 0}},
	{0.3, LowCutoffCodes{1, 40, 0}},
	{0.25, LowCutoffCodes{56, 54, 0}},
	{0.1, LowCutoffCodes{16, 60, 1}},
}

// AmpHighCutoff returns the DAC codes of the highest tabulated cutoff not
// above fh. Anything under 100 Hz gets the 100 Hz codes.
func AmpHighCutoff(fh float64) HighCutoffCodes {
	for _, row := range highCutoffTable {
		if fh >= row.freq {
			return row.codes
		}
	}
	return highCutoffTable[len(highCutoffTable)-1].codes
}

// AmpLowCutoff returns the DAC codes of the highest tabulated cutoff not
// above fl. Anything under 0.1 Hz gets the 0.1 Hz codes.
func AmpLowCutoff(fl float64) LowCutoffCodes {
	for _, row := range lowCutoffTable {
		if fl >= row.freq {
			return row.codes
		}
	}
	return lowCutoffTable[len(lowCutoffTable)-1].codes
}

// dspRatios[n-1] is the cutoff/sample-rate ratio of DSP code n.
var dspRatios = [...]float64{
	0.1103, 0.04579, 0.02125, 0.01027, 0.005053,
	0.002506, 0.001248, 0.0006229, 0.0003112, 0.0001555,
	0.00007773, 0.00003886, 0.00001943, 0.000009714, 0.000004857,
}

// DSPCutoffCode returns the register 4 DSP cutoff code closest to fdsp for a
// per-channel sample rate fs. A zero fdsp selects code 0, the differentiator.
func DSPCutoffCode(fdsp, fs float64) uint8 {
	if fdsp == 0 {
		return 0
	}

	k := fdsp / fs
	for i, ratio := range dspRatios {
		if k <= ratio {
			continue
		}
		if i == 0 {
			return 1
		}
		// between codes i and i+1, keep the nearer one
		if dspRatios[i-1]-k < k-ratio {
			return uint8(i)
		}
		return uint8(i + 1)
	}
	return uint8(len(dspRatios))
}

// ADCFormat builds register 4 from the output format flags and a DSP cutoff
// code. Bit 7 (weak MISO) is always set.
func ADCFormat(twosComp, absMode, dsp bool, code uint8) byte {
	v := byte(1<<7) | code&0x0F
	if twosComp {
		v |= 1 << 6
	}
	if absMode {
		v |= 1 << 5
	}
	if dsp {
		v |= 1 << 4
	} else {
		v &^= 0x0F
	}
	return v
}
