// Package rhd drives the Intan RHD2000 family of biosignal amplifiers
// (RHD2132, RHD2216, RHD2164) over a 16-bit word serial link.
//
// The package only encodes, sequences and decodes; moving words on the wire
// is left to a Transport. Devices are not safe for concurrent use.
package rhd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	// ErrNilTransport is returned by New when no transport is given.
	ErrNilTransport = errors.New("rhd: nil transport")
	// ErrInvalidChannel is returned for a logical channel outside 0-31.
	ErrInvalidChannel = errors.New("rhd: invalid channel")
	// ErrInvalidChannelMap is returned when a channel map is not a permutation of 0-63.
	ErrInvalidChannelMap = errors.New("rhd: channel map is not a permutation")
)

// SanityError reports the first INTAN register that did not read back its
// expected character.
type SanityError struct {
	Register Register
	Got      byte
	Want     byte
}

func (e *SanityError) Error() string {
	return fmt.Sprintf("rhd: sanity check failed at %s: got 0x%02X, want 0x%02X (%q)",
		e.Register, e.Got, e.Want, e.Want)
}

// Device is a handle on one RHD2000 chip.
type Device struct {
	t        Transport
	dualRate bool
	variant  Variant
	chMap    ChannelMap
	log      zerolog.Logger

	// Scratch for the last command. Overwritten by every call.
	tx [2]uint16
	rx [2]uint16

	samples  [NumSamples]uint16
	pipeline PipelineState
}

// Config represents user-level configuration parameters
type Config struct {
	SampleRate     float64 // per-channel sample rate [Hz]
	LowCutoff      float64 // amplifier lower bandwidth [Hz]
	HighCutoff     float64 // amplifier upper bandwidth [Hz]
	DSP            bool    // enable on-chip DSP offset removal
	DSPCutoff      float64 // DSP high-pass cutoff [Hz], 0 selects the differentiator
	TwosComplement bool    // two's complement output for amplifier channels
	AbsMode        bool    // on-chip rectification
	ChannelsLow    uint32  // power-enable mask for amplifiers 0-31
	ChannelsHigh   uint32  // power-enable mask for amplifiers 32-63, bit 0 is amplifier 32
}

// DefaultConfig provides default config. You can adjust as needed
func DefaultConfig() Config {
	return Config{
		SampleRate:     1000,
		LowCutoff:      20,
		HighCutoff:     300,
		DSP:            true,
		DSPCutoff:      1,
		TwosComplement: true,
		AbsMode:        false,
		ChannelsLow:    0xFFFFFFFF,
		ChannelsHigh:   0xFFFFFFFF,
	}
}

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("rhd: invalid config")

// Validate checks that cfg holds values Setup can turn into register codes.
func (cfg Config) Validate() error {
	switch {
	case !(cfg.SampleRate > 0):
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, cfg.SampleRate)
	case cfg.LowCutoff < 0, cfg.HighCutoff <= 0:
		return fmt.Errorf("%w: bandwidth %v-%v Hz", ErrInvalidConfig, cfg.LowCutoff, cfg.HighCutoff)
	case cfg.LowCutoff >= cfg.HighCutoff:
		return fmt.Errorf("%w: low cutoff %v not below high cutoff %v", ErrInvalidConfig, cfg.LowCutoff, cfg.HighCutoff)
	case cfg.DSP && cfg.DSPCutoff < 0:
		return fmt.Errorf("%w: DSP cutoff %v", ErrInvalidConfig, cfg.DSPCutoff)
	}
	return nil
}

// New constructs a Device on top of t. The wiring mode and variant are fixed
// for the life of the device.
func New(t Transport, opts ...Option) (*Device, error) {
	if t == nil {
		return nil, ErrNilTransport
	}

	d := &Device{
		t:       t,
		variant: RHD2164,
		chMap:   DefaultChannelMap,
		log:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if err := d.chMap.Validate(); err != nil {
		return nil, err
	}

	d.log.Debug().Bool("dual_rate", d.dualRate).Stringer("variant", d.variant).Msg("rhd device initialized")

	return d, nil
}

// DualRate reports whether the device sends bit-doubled commands.
func (d *Device) DualRate() bool {
	return d.dualRate
}

// Variant returns the configured chip variant.
func (d *Device) Variant() Variant {
	return d.variant
}

// ChannelMap returns the logical to physical map in use.
func (d *Device) ChannelMap() ChannelMap {
	return d.chMap
}

// Setup brings the chip to a known state with cfg and calibrates it.
// Call it once after power-up. An invalid cfg is rejected before any command
// is sent.
func (d *Device) Setup(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// the first two results after power-up are garbage
	for i := 0; i < 2; i++ {
		if _, err := d.Read(RegChipID); err != nil {
			return err
		}
	}

	writes := []struct {
		reg Register
		val byte
	}{
		{RegADCConfig, defaultADCConfig},
		{RegMuxLoadTempSensorAuxOut, 0},
		{RegImpedanceCheckControl, 0},
		{RegImpedanceCheckDAC, 0},
		{RegImpedanceCheckAmpSelect, 0},
	}
	for _, w := range writes {
		if err := d.write(w.reg, w.val); err != nil {
			return err
		}
	}

	if err := d.ConfigureChannels(cfg.ChannelsLow, cfg.ChannelsHigh); err != nil {
		return err
	}
	if _, err := d.ConfigureSampleRate(cfg.SampleRate, NumChannels); err != nil {
		return err
	}
	if err := d.ConfigureBandwidth(cfg.LowCutoff, cfg.HighCutoff); err != nil {
		return err
	}
	if err := d.ConfigureDSP(cfg.TwosComplement, cfg.AbsMode, cfg.DSP, cfg.DSPCutoff, cfg.SampleRate); err != nil {
		return err
	}

	if _, err := d.Calibrate(); err != nil {
		return fmt.Errorf("rhd: calibration failed: %w", err)
	}

	d.log.Debug().Interface("config", cfg).Msg("rhd setup complete")
	return nil
}

// ConfigureChannels powers the amplifiers set in lo (0-31) and hi (32-63).
// Each mask is written least significant byte first, bit n enabling amplifier n.
func (d *Device) ConfigureChannels(lo, hi uint32) error {
	for i := 0; i < 4; i++ {
		if err := d.write(RegAmpPower0+Register(i), byte(lo>>(8*i))); err != nil {
			return err
		}
	}
	for i := 0; i < 4; i++ {
		if err := d.write(RegAmpPower4+Register(i), byte(hi>>(8*i))); err != nil {
			return err
		}
	}
	return nil
}

// ConfigureSampleRate writes the ADC buffer and MUX bias currents for a
// per-channel rate fs over nCh active channels, and returns the aggregate
// rate. For RHD2164 count channel pairs: 64 channels is nCh = 32.
func (d *Device) ConfigureSampleRate(fs float64, nCh int) (float64, error) {
	codes, total := SampleRateBias(fs, nCh)
	if err := d.write(RegSupplySensorADCBufferBias, codes.ADCBuffer); err != nil {
		return total, err
	}
	return total, d.write(RegMuxBias, codes.Mux)
}

// ConfigureBandwidth writes the amplifier bandpass DACs for a lower cutoff
// fl and an upper cutoff fh, both in Hz. Only on-chip resistors are supported.
func (d *Device) ConfigureBandwidth(fl, fh float64) error {
	hc := AmpHighCutoff(fh)
	lc := AmpLowCutoff(fl)

	writes := []struct {
		reg Register
		val byte
	}{
		{RegAmpBandwidth0, hc.RH1DAC1},
		{RegAmpBandwidth1, hc.RH1DAC2},
		{RegAmpBandwidth2, hc.RH2DAC1},
		{RegAmpBandwidth3, hc.RH2DAC2},
		{RegAmpBandwidth4, lc.RLDAC1},
		{RegAmpBandwidth5, lc.RLDAC3<<6 | lc.RLDAC2},
	}
	for _, w := range writes {
		if err := d.write(w.reg, w.val); err != nil {
			return err
		}
	}
	return nil
}

// ConfigureDSP writes the output format register. fdsp is the DSP cutoff and
// fs the per-channel sample rate, both in Hz; they are ignored when dsp is
// false.
func (d *Device) ConfigureDSP(twosComp, absMode, dsp bool, fdsp, fs float64) error {
	var code uint8
	if dsp {
		code = DSPCutoffCode(fdsp, fs)
	}
	return d.write(RegADCOutputFormatDSP, ADCFormat(twosComp, absMode, dsp, code))
}

// SanityCheck reads back the INTAN registers to verify the chip answers.
// It returns a *SanityError for the first register that does not match.
func (d *Device) SanityCheck() error {
	for i := 0; i < len(intanSignature); i++ {
		reg := RegIntan0 + Register(i)
		got, err := d.ReadForce(reg)
		if err != nil {
			return err
		}
		if got != intanSignature[i] {
			return &SanityError{Register: reg, Got: got, Want: intanSignature[i]}
		}
	}
	return nil
}

// Info is the identity block read from the status registers.
type Info struct {
	DieRevision byte
	Unipolar    bool
	Amplifiers  byte
	ChipID      Variant
}

func (i Info) String() string {
	return fmt.Sprintf("Info{ChipID:%s, DieRevision:%d, Amplifiers:%d, Unipolar:%t}",
		i.ChipID, i.DieRevision, i.Amplifiers, i.Unipolar)
}

// ChipInfo reads the identity registers.
func (d *Device) ChipInfo() (Info, error) {
	var (
		info Info
		err  error
		v    byte
	)

	if info.DieRevision, err = d.ReadForce(RegDieRevision); err != nil {
		return info, err
	}
	if v, err = d.ReadForce(RegUnipolar); err != nil {
		return info, err
	}
	info.Unipolar = v == 1
	if info.Amplifiers, err = d.ReadForce(RegNumAmplifiers); err != nil {
		return info, err
	}
	if v, err = d.ReadForce(RegChipID); err != nil {
		return info, err
	}
	info.ChipID = Variant(v)

	return info, nil
}

// Identify reads the identity registers and switches the device to the
// reported variant, so single-die parts stop filling the MISO B slots.
// An unrecognized CHIP_ID leaves the configured variant in place.
func (d *Device) Identify() (Info, error) {
	info, err := d.ChipInfo()
	if err != nil {
		return info, err
	}

	switch info.ChipID {
	case RHD2132, RHD2216, RHD2164:
		if info.ChipID != d.variant {
			d.log.Debug().Stringer("from", d.variant).Stringer("to", info.ChipID).Msg("variant changed")
		}
		d.variant = info.ChipID
	default:
		d.log.Warn().Stringer("chip", info.ChipID).Stringer("keeping", d.variant).Msg("unrecognized chip id")
	}
	return info, nil
}
