package rhd

import "github.com/rs/zerolog"

// An Option configures a device. It returns an Option that restores the
// previous value.
type Option func(d *Device) Option

// DualRate selects the double-data-rate wiring mode, in which every command
// is sent as two bit-doubled words. By default the device is single-rate.
func DualRate(enable bool) Option {
	return func(d *Device) Option {
		old := d.dualRate
		d.dualRate = enable
		return DualRate(old)
	}
}

// WithVariant sets the chip variant, which decides whether sweeps store the
// MISO B channels. The default is RHD2164.
func WithVariant(v Variant) Option {
	return func(d *Device) Option {
		old := d.variant
		d.variant = v
		return WithVariant(old)
	}
}

// WithChannelMap replaces DefaultChannelMap for this device.
func WithChannelMap(m ChannelMap) Option {
	return func(d *Device) Option {
		old := d.chMap
		d.chMap = m
		return WithChannelMap(old)
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Device) Option {
		old := d.log
		d.log = l
		return WithLogger(old)
	}
}
