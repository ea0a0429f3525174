package ft232h

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yunginnanet/ft232h"
)

// ErrBadDescriptor is returned when a Descriptor selects no device.
var ErrBadDescriptor = errors.New("ft232h: descriptor selects no device")

// Descriptor picks one FT232H among those attached, by enumeration index,
// by serial number, or by a full ft232h.Mask. A negative Index is ignored.
type Descriptor struct {
	Index  int
	Serial string
	mask   *ft232h.Mask
}

// ByIndex selects the n-th enumerated device.
func ByIndex(index int) Descriptor { return Descriptor{Index: index} }

// BySerial selects the device with the given serial number.
func BySerial(serial string) Descriptor { return Descriptor{Index: -1, Serial: serial} }

// ByMask selects devices matching mask. The mask is copied on use, never modified.
func ByMask(mask *ft232h.Mask) Descriptor { return Descriptor{Index: -1, mask: mask} }

// ParseDescriptor reads a command-line selector: a decimal index, or
// anything else as a serial number. An empty string selects index 0.
func ParseDescriptor(s string) Descriptor {
	s = strings.TrimSpace(s)
	if s == "" {
		return ByIndex(0)
	}
	if n, err := strconv.Atoi(s); err == nil {
		return ByIndex(n)
	}
	return BySerial(s)
}

// Validate reports ErrBadDescriptor when d would match nothing in particular.
func (d Descriptor) Validate() error {
	if d.Index < 0 && d.Serial == "" && emptyMask(d.mask) {
		return ErrBadDescriptor
	}
	return nil
}

// Mask builds the lookup mask for ft232h.OpenMask.
func (d Descriptor) Mask() *ft232h.Mask {
	m := new(ft232h.Mask)
	if d.mask != nil {
		*m = *d.mask
	}
	if d.Serial != "" {
		m.Serial = d.Serial
	}
	if d.Index >= 0 {
		m.Index = strconv.Itoa(d.Index)
	}
	return m
}

func (d Descriptor) String() string {
	switch {
	case d.Serial != "":
		return fmt.Sprintf("FT232H[serial %s]", d.Serial)
	case d.Index >= 0:
		return fmt.Sprintf("FT232H[#%d]", d.Index)
	case d.mask != nil:
		return fmt.Sprintf("FT232H[mask %+v]", *d.mask)
	default:
		return "FT232H[none]"
	}
}

func emptyMask(mask *ft232h.Mask) bool {
	if mask == nil {
		return true
	}
	return mask.Index == "" && mask.Serial == "" && mask.Desc == "" && mask.VID == "" && mask.PID == ""
}
