package ft232h

import (
	"fmt"

	"github.com/yunginnanet/ft232h"
)

// SetPowerPin configures pin (C-bus) as the headstage supply enable and
// drives it low.
func (ft *FT232H) SetPowerPin(pin uint) error {
	ft.pwrPin = ft232h.C(pin)
	if err := ft.GPIO.ConfigPin(ft.pwrPin, ft232h.Output, false); err != nil {
		return fmt.Errorf("failed to configure power pin %s: %w", ft.pwrPin, err)
	}
	ft.pwrSet = true
	return nil
}

// PowerPin returns the headstage power pin.
func (ft *FT232H) PowerPin() ft232h.CPin {
	return ft.pwrPin
}

// PowerUp drives the power pin high.
func (ft *FT232H) PowerUp() error {
	return ft.setPower(true)
}

// PowerDown drives the power pin low.
func (ft *FT232H) PowerDown() error {
	return ft.setPower(false)
}

func (ft *FT232H) setPower(on bool) error {
	if !ft.pwrSet {
		return fmt.Errorf("power pin not set")
	}
	if err := ft.FT232H.GPIO.Set(ft.pwrPin, on); err != nil {
		return fmt.Errorf("failed to set power pin: %w", err)
	}
	return nil
}
