// Package periphspi runs an RHD2000 over a host SPI port (spidev on Linux)
// through periph.io.
package periphspi

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/yunginnanet/ftdi-rhd2000/pkg/rhd"
	"github.com/yunginnanet/ftdi-rhd2000/pkg/wire"
)

var _ rhd.Transport = (*Port)(nil)

// Config selects the SPI port and optional headstage power pin.
type Config struct {
	Bus      string           // spireg name, "" picks the first port
	Speed    physic.Frequency // SCLK
	PowerPin string           // gpioreg name, "" for none
}

// DefaultConfig returns the first SPI port at 1 MHz with no power pin.
func DefaultConfig() Config {
	return Config{
		Speed: physic.MegaHertz,
	}
}

// Port is an RHD2000 link on a periph.io SPI port.
type Port struct {
	port  spi.PortCloser
	conn  spi.Conn
	power gpio.PinOut
}

// Open initializes the host drivers and connects to the port in mode 0.
func Open(cfg Config) (*Port, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}

	port, err := spireg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("could not open SPI port %q: %w", cfg.Bus, err)
	}

	if cfg.Speed == 0 {
		cfg.Speed = DefaultConfig().Speed
	}

	c, err := port.Connect(cfg.Speed, spi.Mode0, 8)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("could not connect SPI port: %w", err), port.Close())
	}

	p := &Port{port: port, conn: c}

	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() != 0 && l.MaxTxSize() < wire.WordSize {
		return nil, errors.Join(fmt.Errorf("SPI port cannot transfer a %d-byte word", wire.WordSize), port.Close())
	}

	if cfg.PowerPin != "" {
		pin := gpioreg.ByName(cfg.PowerPin)
		if pin == nil {
			return nil, errors.Join(fmt.Errorf("power gpio %q not found", cfg.PowerPin), port.Close())
		}
		p.power = pin
	}

	return p, nil
}

// Power drives the headstage power pin. It is a no-op without one.
func (p *Port) Power(on bool) error {
	if p.power == nil {
		return nil
	}
	level := gpio.Low
	if on {
		level = gpio.High
	}
	return p.power.Out(level)
}

// Transfer sends each word of tx in its own chip-select frame. In
// single-rate mode only rx[0] is written; spidev exposes one MISO line.
func (p *Port) Transfer(tx, rx []uint16) (int, error) {
	return transfer(p.conn, tx, rx)
}

func transfer(c conn.Conn, tx, rx []uint16) (int, error) {
	w := wire.GetFrame(1)
	r := wire.GetFrame(1)
	defer wire.PutFrame(w)
	defer wire.PutFrame(r)

	for i, word := range tx {
		if err := wire.PutWords(w, []uint16{word}); err != nil {
			return i, err
		}
		if err := c.Tx(w, r); err != nil {
			return i, fmt.Errorf("spi tx failed at word %d: %w", i, err)
		}
		if i < len(rx) {
			wire.Words(rx[i:i+1], r)
		}
	}

	return len(tx), nil
}

// Close powers down and releases the port.
func (p *Port) Close() error {
	return errors.Join(p.Power(false), p.port.Close())
}
