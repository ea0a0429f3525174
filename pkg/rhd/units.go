package rhd

// AmplifierLSB is the amplifier step size in microvolts.
const AmplifierLSB = 0.195

// Signed interprets a 16-bit amplifier code as a signed value. With twosComp
// unset the chip emits offset binary, where 0x8000 is zero.
func Signed(code uint16, twosComp bool) int16 {
	if twosComp {
		return int16(code)
	}
	return int16(int32(code) - 0x8000)
}

// Microvolts converts an amplifier code to microvolts at the electrode.
// Stored samples carry the frame marker in bit 0, which costs at most one LSB.
func Microvolts(code uint16, twosComp bool) float64 {
	return float64(Signed(code, twosComp)) * AmplifierLSB
}
