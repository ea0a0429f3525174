package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	"github.com/yunginnanet/ftdi-rhd2000/pkg/ft232h"
	"github.com/yunginnanet/ftdi-rhd2000/pkg/periphspi"
	"github.com/yunginnanet/ftdi-rhd2000/pkg/rhd"
	"github.com/yunginnanet/ftdi-rhd2000/pkg/stats"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

type options struct {
	transport string
	device    string
	cs        uint
	pwr       int
	bus       string
	pwrName   string
	clock     uint
	dualRate  bool
	debug     bool
	sweeps    int
	cfg       rhd.Config
}

func flags() (opts options) {
	opts.cfg = rhd.DefaultConfig()

	flag.StringVar(&opts.transport, "transport", "ft232h", "Transport (ft232h, spidev)")
	flag.StringVar(&opts.device, "FT232H", "0", "FT232H Index or Serial")
	flag.UintVar(&opts.cs, "CS", 3, "Chip Select (SPI, D-bus)")
	flag.IntVar(&opts.pwr, "PWR", -1, "Headstage power (GPIO, C-bus), -1 for none")
	flag.StringVar(&opts.bus, "bus", "", "SPI port name for spidev")
	flag.StringVar(&opts.pwrName, "pwr-gpio", "", "Headstage power GPIO name for spidev")
	flag.UintVar(&opts.clock, "clock", 1000000, "SPI clock [Hz]")
	flag.BoolVar(&opts.dualRate, "ddr", false, "Dual-rate (bit-doubled) wiring")
	flag.BoolVar(&opts.debug, "debug", false, "Log register traffic")
	flag.IntVar(&opts.sweeps, "sweeps", 10, "Number of sweeps to sample, 0 to run forever")
	flag.Float64Var(&opts.cfg.SampleRate, "fs", opts.cfg.SampleRate, "Per-channel sample rate [Hz]")
	flag.Float64Var(&opts.cfg.LowCutoff, "fl", opts.cfg.LowCutoff, "Amplifier lower cutoff [Hz]")
	flag.Float64Var(&opts.cfg.HighCutoff, "fh", opts.cfg.HighCutoff, "Amplifier upper cutoff [Hz]")
	flag.BoolVar(&opts.cfg.DSP, "dsp", opts.cfg.DSP, "Enable DSP offset removal")
	flag.Float64Var(&opts.cfg.DSPCutoff, "fdsp", opts.cfg.DSPCutoff, "DSP cutoff [Hz], 0 for differentiator")
	flag.Parse()
	return opts
}

func (o options) validate() error {
	switch o.transport {
	case "ft232h", "spidev":
	default:
		return fmt.Errorf("unknown transport %q", o.transport)
	}
	if o.clock == 0 {
		return errors.New("SPI clock must be positive")
	}
	if o.sweeps < 0 {
		return fmt.Errorf("negative sweep count %d", o.sweeps)
	}
	return o.cfg.Validate()
}

// dataSlots lists the physical slots a sweep fills with chip data. Both
// bundled transports read a single MISO line in single-rate mode, so die B
// of a dual-die part only arrives over dual-rate wiring.
func dataSlots(variant rhd.Variant, m rhd.ChannelMap, dualRate bool) []int {
	slots := make([]int, 0, rhd.NumSamples)
	for ch := 0; ch < rhd.NumChannels; ch++ {
		slots = append(slots, m.Physical(ch, false))
	}
	if variant.DualDie() && dualRate {
		for ch := 0; ch < rhd.NumChannels; ch++ {
			slots = append(slots, m.Physical(ch, true))
		}
	}
	return slots
}

func connect(opts options) (rhd.Transport, io.Closer) {
	switch opts.transport {
	case "ft232h":
		ft, err := ft232h.ConnectFT232h(ft232h.ParseDescriptor(opts.device))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to FT232H")
		}
		log.Info().Any("info", ft.Info()).Msgf("connected to FT232H: %s", ft)

		spiCfg := ft232h.DefaultSPIConfig()
		spiCfg.Clock = uint32(opts.clock)
		spiCfg.CS = opts.cs
		log.Debug().Any("config", spiCfg).Msg("initializing SPI")
		if err = ft.ConfigureSPI(spiCfg); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize SPI")
		}

		if opts.pwr >= 0 {
			if err = ft.SetPowerPin(uint(opts.pwr)); err != nil {
				log.Fatal().Err(err).Msg("failed to set power pin")
			}
			if err = ft.PowerUp(); err != nil {
				log.Fatal().Err(err).Msg("failed to power up headstage")
			}
		}
		return ft, ft

	case "spidev":
		cfg := periphspi.DefaultConfig()
		cfg.Bus = opts.bus
		cfg.Speed = physic.Frequency(opts.clock) * physic.Hertz
		cfg.PowerPin = opts.pwrName
		p, err := periphspi.Open(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open SPI port")
		}
		if err = p.Power(true); err != nil {
			log.Fatal().Err(err).Msg("failed to power up headstage")
		}
		log.Info().Str("bus", cfg.Bus).Stringer("speed", cfg.Speed).Msg("connected to SPI port")
		return p, p

	default:
		log.Fatal().Str("transport", opts.transport).Msg("unknown transport")
		return nil, nil
	}
}

func main() {
	opts := flags()

	level := zerolog.InfoLevel
	if opts.debug {
		level = zerolog.DebugLevel
	}
	log = log.Level(level)

	if err := opts.validate(); err != nil {
		log.Fatal().Err(err).Msg("bad flags")
	}

	t, closer := connect(opts)

	// power-up settling
	time.Sleep(100 * time.Millisecond)

	chip, err := rhd.New(t, rhd.DualRate(opts.dualRate), rhd.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create RHD2000 device")
	}

	if err = chip.SanityCheck(); err != nil {
		log.Fatal().Err(err).Msg("RHD2000 did not answer")
	}

	info, err := chip.Identify()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read chip info")
	}
	log.Info().Stringer("info", info).Stringer("variant", chip.Variant()).Msg("found RHD2000")

	slots := dataSlots(chip.Variant(), chip.ChannelMap(), opts.dualRate)
	if chip.Variant().DualDie() && !opts.dualRate {
		log.Warn().Msg("single-rate link reads MISO A only, die B channels are skipped")
	}

	log.Debug().Any("config", opts.cfg).Msg("initializing RHD2000")
	if err = chip.Setup(opts.cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize RHD2000")
	}
	log.Info().Msg("initialized RHD2000")

	period := max(time.Duration(float64(time.Second)/opts.cfg.SampleRate), time.Microsecond)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	window := opts.sweeps
	if window == 0 {
		window = int(opts.cfg.SampleRate)
	}
	acc := stats.New(opts.cfg.TwosComplement, window)

	for n := 0; opts.sweeps == 0 || n < opts.sweeps; n++ {
		<-ticker.C
		if err = chip.SampleAll(); err != nil {
			log.Error().Err(err).Int("sweep", n).Msg("sweep failed")
			break
		}
		samples := chip.Samples()
		acc.Add(samples)

		uv := make([]float64, len(slots))
		for i, slot := range slots {
			uv[i] = rhd.Microvolts(samples[slot], opts.cfg.TwosComplement)
		}
		log.Info().Int("sweep", n).Floats64("uV", uv).Msg("sampled")
		log.Trace().Any("raw", samples[:]).Msg("sampled")
	}

	summary := acc.Summary()
	for _, slot := range slots {
		log.Info().Int("ch", slot).Stringer("stats", summary[slot]).Int("sweeps", acc.Len()).Msg("channel summary")
	}

	if err = closer.Close(); err != nil {
		log.Fatal().Err(err).Msg("failed to close transport")
	}

	log.Info().Msg("closed RHD2000")
}
