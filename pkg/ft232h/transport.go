package ft232h

import (
	"fmt"

	"github.com/yunginnanet/ftdi-rhd2000/pkg/rhd"
	"github.com/yunginnanet/ftdi-rhd2000/pkg/wire"
)

var _ rhd.Transport = (*FT232H)(nil)

// Transfer clocks each word of tx out in its own chip-select frame and
// stores what came back on MISO in rx. The FT232H has a single MISO line,
// so in single-rate mode rx[1] is left untouched.
func (ft *FT232H) Transfer(tx, rx []uint16) (int, error) {
	frame := wire.GetFrame(1)
	defer wire.PutFrame(frame)

	for i, w := range tx {
		if err := wire.PutWords(frame, []uint16{w}); err != nil {
			return i, err
		}

		in, err := ft.SPI.Exchange(frame, true, true)
		if err != nil {
			return i, fmt.Errorf("spi exchange failed at word %d: %w", i, err)
		}

		if i < len(rx) && wire.Words(rx[i:i+1], in) != 1 {
			return i, fmt.Errorf("short read at word %d: got %d bytes", i, len(in))
		}
	}

	return len(tx), nil
}
