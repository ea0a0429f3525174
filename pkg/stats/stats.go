// Package stats keeps per-channel amplifier statistics over a run of sweeps.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/yunginnanet/ftdi-rhd2000/pkg/rhd"
)

// Channel summarizes one physical channel, all values in microvolts.
type Channel struct {
	Mean   float64
	StdDev float64
	RMS    float64
	PeakPk float64
}

func (c Channel) String() string {
	return fmt.Sprintf("Channel{Mean:%.2f, StdDev:%.2f, RMS:%.2f, PeakPk:%.2f}", c.Mean, c.StdDev, c.RMS, c.PeakPk)
}

// Accumulator collects sweeps as microvolts. With a non-zero window only
// the most recent window sweeps are kept.
type Accumulator struct {
	twosComp bool
	window   int
	data     [rhd.NumSamples][]float64
}

// New returns an Accumulator for codes in the given output format.
func New(twosComp bool, window int) *Accumulator {
	return &Accumulator{twosComp: twosComp, window: window}
}

// Add appends one sweep from rhd.Device.Samples.
func (a *Accumulator) Add(samples [rhd.NumSamples]uint16) {
	for i, code := range samples {
		col := append(a.data[i], rhd.Microvolts(code, a.twosComp))
		if a.window > 0 && len(col) > a.window {
			col = col[len(col)-a.window:]
		}
		a.data[i] = col
	}
}

// Len returns the number of sweeps held.
func (a *Accumulator) Len() int {
	return len(a.data[0])
}

// Reset drops all sweeps.
func (a *Accumulator) Reset() {
	for i := range a.data {
		a.data[i] = a.data[i][:0]
	}
}

// Summary returns the statistics of every physical channel. StdDev is the
// sample standard deviation and is NaN with fewer than two sweeps.
func (a *Accumulator) Summary() [rhd.NumSamples]Channel {
	var out [rhd.NumSamples]Channel
	if a.Len() == 0 {
		return out
	}
	for i, x := range a.data {
		mean, std := stat.MeanStdDev(x, nil)
		out[i] = Channel{
			Mean:   mean,
			StdDev: std,
			RMS:    math.Sqrt(floats.Dot(x, x) / float64(len(x))),
			PeakPk: floats.Max(x) - floats.Min(x),
		}
	}
	return out
}
