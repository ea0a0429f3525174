// Package ft232h connects an RHD2000 chip through an FTDI FT232H in MPSSE
// SPI mode and exposes it as an rhd.Transport.
package ft232h

import (
	"errors"
	"fmt"

	"github.com/yunginnanet/ft232h"
)

// DeviceInfo represents a snapshot of the device information for the [FT232H] device.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

// String returns a string representation of the device information.
func (ft DeviceInfo) String() string {
	return fmt.Sprintf(
		"DeviceInfo{Index:%d, Serial:%s, Description:%s, ProductID:%s, VendorID:%s, IsOpen:%t, IsHighSpeed:%t}",
		ft.Index, ft.Serial, ft.Description, ft.ProductID, ft.VendorID, ft.IsOpen, ft.IsHighSpeed,
	)
}

// FT232H represents an FT232H device.
type FT232H struct {
	*ft232h.FT232H
	info   DeviceInfo
	pwrPin ft232h.CPin
	pwrSet bool
}

// Info returns a snapshot of the device information for the FT232H device. Read-only.
func (ft *FT232H) Info() DeviceInfo {
	vid, pid := ft.vidPid()
	return DeviceInfo{
		Index:       ft.Index(),
		Serial:      ft.Serial(),
		Description: ft.Desc(),
		ProductID:   pid,
		VendorID:    vid,
		IsOpen:      ft.IsOpen(),
		IsHighSpeed: ft.IsHiSpeed(),
	}
}

// vidPid formats the USB IDs as four hex digits each.
func (ft *FT232H) vidPid() (vid string, pid string) {
	return fmt.Sprintf("%04x", uint16(ft.VID())), fmt.Sprintf("%04x", uint16(ft.PID()))
}

// String returns a string representation of the FT232H device. It includes the vendor ID, product ID, and description.
func (ft *FT232H) String() string {
	info := ft.Info()
	return fmt.Sprintf("FT232H[%s:%s]: %s", info.VendorID, info.ProductID, ft.Desc())
}

// SPIConfig holds the bus settings the RHD2000 needs.
type SPIConfig struct {
	Clock uint32 // SCLK [Hz], the chip tolerates up to 24 MHz
	CS    uint   // chip select pin (D-bus)
}

// DefaultSPIConfig returns a conservative 1 MHz mode 0 setup on D3.
func DefaultSPIConfig() SPIConfig {
	return SPIConfig{
		Clock: 1000000,
		CS:    3,
	}
}

// ConfigureSPI applies cfg: SPI mode 0, active-low chip select.
func (ft *FT232H) ConfigureSPI(cfg SPIConfig) error {
	spiCfg := ft.SPI.GetConfig()
	spiCfg.Clock = cfg.Clock
	spiCfg.CS = ft232h.D(cfg.CS)
	spiCfg.Mode = 0
	spiCfg.ActiveLow = true
	if err := ft.SPI.Config(spiCfg); err != nil {
		return fmt.Errorf("failed to configure SPI: %w", err)
	}
	return nil
}

// Close powers the headstage down, if a power pin was set, and releases the device.
func (ft *FT232H) Close() error {
	var err error
	if ft.pwrSet {
		err = ft.PowerDown()
	}
	return errors.Join(err, ft.FT232H.Close())
}

// ConnectFT232h opens the first FT232H, or the one matching choice.
func ConnectFT232h(choice ...Descriptor) (ft *FT232H, err error) {
	ft = &FT232H{}

	switch len(choice) {
	case 0:
		ft.FT232H, err = ft232h.New()
	case 1:
		desc := choice[0]
		if err = desc.Validate(); err != nil {
			return nil, ErrBadDescriptor
		}
		ft.FT232H, err = ft232h.OpenMask(desc.Mask())
	default:
		return nil, fmt.Errorf("invalid number of arguments")
	}

	if err != nil {
		return nil, err
	}

	ft.info = ft.Info()
	return ft, nil
}
