package rhd

import "fmt"

// Register is a 6-bit RHD2000 register address.
type Register byte

// Register Addresses
const (
	// RegADCConfig holds the ADC reference and comparator bias settings.
	RegADCConfig Register = 0
	// RegSupplySensorADCBufferBias selects the supply sensor and ADC buffer bias current.
	RegSupplySensorADCBufferBias Register = 1
	// RegMuxBias selects the MUX bias current.
	RegMuxBias Register = 2
	// RegMuxLoadTempSensorAuxOut configures MUX load, temperature sensor and auxiliary digital output.
	RegMuxLoadTempSensorAuxOut Register = 3
	// RegADCOutputFormatDSP configures output format and DSP offset removal.
	RegADCOutputFormatDSP Register = 4
	// RegImpedanceCheckControl enables the impedance check DAC.
	RegImpedanceCheckControl Register = 5
	// RegImpedanceCheckDAC holds the impedance check DAC value.
	RegImpedanceCheckDAC Register = 6
	// RegImpedanceCheckAmpSelect selects the amplifier under impedance test.
	RegImpedanceCheckAmpSelect Register = 7

	// RegAmpBandwidth0 through RegAmpBandwidth5 hold the on-chip bandwidth DACs.
	RegAmpBandwidth0 Register = 8
	RegAmpBandwidth1 Register = 9
	RegAmpBandwidth2 Register = 10
	RegAmpBandwidth3 Register = 11
	RegAmpBandwidth4 Register = 12
	RegAmpBandwidth5 Register = 13

	// RegAmpPower0 through RegAmpPower7 hold one power-enable bit per amplifier.
	RegAmpPower0 Register = 14
	RegAmpPower1 Register = 15
	RegAmpPower2 Register = 16
	RegAmpPower3 Register = 17
	RegAmpPower4 Register = 18
	RegAmpPower5 Register = 19
	RegAmpPower6 Register = 20
	RegAmpPower7 Register = 21

	// RegIntan0 through RegIntan4 are read-only and contain ASCII "INTAN".
	RegIntan0 Register = 40
	RegIntan1 Register = 41
	RegIntan2 Register = 42
	RegIntan3 Register = 43
	RegIntan4 Register = 44

	// RegMISOAB reads back a fixed pattern used to check MISO A/B wiring.
	RegMISOAB Register = 59
	// RegDieRevision is the die revision.
	RegDieRevision Register = 60
	// RegUnipolar is 1 when amplifiers are unipolar, 0 when bipolar.
	RegUnipolar Register = 61
	// RegNumAmplifiers is the number of amplifiers on the die.
	RegNumAmplifiers Register = 62
	// RegChipID identifies the part (see Variant).
	RegChipID Register = 63

	// NumRegisters is the size of the 6-bit address space.
	NumRegisters = 64
)

var registerNames = map[Register]string{
	RegADCConfig:                 "ADC_CFG",
	RegSupplySensorADCBufferBias: "SUPPLY_SENS_ADC_BUF_BIAS",
	RegMuxBias:                   "MUX_BIAS_CURR",
	RegMuxLoadTempSensorAuxOut:   "MUX_LOAD_TEMP_SENS_AUX_DIG_OUT",
	RegADCOutputFormatDSP:        "ADC_OUT_FMT_DSP_OFF_RMVL",
	RegImpedanceCheckControl:     "IMP_CHK_CTRL",
	RegImpedanceCheckDAC:         "IMP_CHK_DAC",
	RegImpedanceCheckAmpSelect:   "IMP_CHK_AMP_SEL",
	RegAmpBandwidth0:             "AMP_BW_SEL_0",
	RegAmpBandwidth1:             "AMP_BW_SEL_1",
	RegAmpBandwidth2:             "AMP_BW_SEL_2",
	RegAmpBandwidth3:             "AMP_BW_SEL_3",
	RegAmpBandwidth4:             "AMP_BW_SEL_4",
	RegAmpBandwidth5:             "AMP_BW_SEL_5",
	RegAmpPower0:                 "IND_AMP_PWR_0",
	RegAmpPower1:                 "IND_AMP_PWR_1",
	RegAmpPower2:                 "IND_AMP_PWR_2",
	RegAmpPower3:                 "IND_AMP_PWR_3",
	RegAmpPower4:                 "IND_AMP_PWR_4",
	RegAmpPower5:                 "IND_AMP_PWR_5",
	RegAmpPower6:                 "IND_AMP_PWR_6",
	RegAmpPower7:                 "IND_AMP_PWR_7",
	RegIntan0:                    "INTAN_0",
	RegIntan1:                    "INTAN_1",
	RegIntan2:                    "INTAN_2",
	RegIntan3:                    "INTAN_3",
	RegIntan4:                    "INTAN_4",
	RegMISOAB:                    "MISO_A_B",
	RegDieRevision:               "DIE_REV",
	RegUnipolar:                  "UNI_BIPLR_AMPS",
	RegNumAmplifiers:             "NB_AMP",
	RegChipID:                    "CHIP_ID",
}

func (r Register) String() string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	return fmt.Sprintf("REG_%d", byte(r))
}

// Command Opcodes, bits [7:6] of the register byte.
const (
	OpConvert byte = 0x00
	OpWrite   byte = 0x80
	OpRead    byte = 0xC0

	addrMask byte = 0x3F
)

// Raw command bytes that bypass the address/value layout.
const (
	CMDCalibrate      byte = 0b01010101
	CMDClearCalibrate byte = 0b01101010
)

// Number of dummy commands the chip needs to finish a calibration.
const calibrationDummyCmds = 9

// intanSignature is the content of RegIntan0..RegIntan4.
const intanSignature = "INTAN"

// Variant identifies a member of the RHD2000 family by its CHIP_ID register.
type Variant byte

const (
	VariantUnknown Variant = 0
	RHD2132        Variant = 1
	RHD2216        Variant = 2
	RHD2164        Variant = 4
)

func (v Variant) String() string {
	switch v {
	case RHD2132:
		return "RHD2132"
	case RHD2216:
		return "RHD2216"
	case RHD2164:
		return "RHD2164"
	default:
		return "(unknown variant)"
	}
}

// DualDie reports whether the part returns two channels per convert command,
// one from each MISO line.
func (v Variant) DualDie() bool {
	return v == RHD2164
}

// ADC configuration written by Setup: 1.225V reference, comparator bias 3,
// comparator select 2.
const defaultADCConfig byte = 0b11011110
