package rhd

//go:generate mockgen -destination=mocks/transport.go -package=mocks github.com/yunginnanet/ftdi-rhd2000/pkg/rhd Transport

// Transport performs one synchronous full-duplex exchange with the chip.
//
// tx holds one word in single-rate mode and two in dual-rate mode. rx is the
// device's two-word receive scratch; in single-rate mode a transport wired to
// both MISO lines of a dual-die part puts the MISO B word in rx[1].
// Transfer returns the number of words transferred.
type Transport interface {
	Transfer(tx, rx []uint16) (int, error)
}

// TransportFunc adapts a plain function to the Transport interface.
type TransportFunc func(tx, rx []uint16) (int, error)

func (f TransportFunc) Transfer(tx, rx []uint16) (int, error) {
	return f(tx, rx)
}
