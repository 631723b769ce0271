// Package signal generates the time-varying set-points used to excite a
// controller: steps, sines and linear chirps, sequenced into phases.
package signal

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/flightctl/internal/config"
)

var ErrUnknownSignal = errors.New("signal: unknown signal type")

type Signal interface {
	At(t float64) float64
}

// Step holds Value for all t.
type Step struct {
	Value float64
}

func (s Step) At(float64) float64 { return s.Value }

type Sine struct {
	Amp, Freq, Offset float64
}

func (s Sine) At(t float64) float64 {
	return s.Amp*math.Sin(2*math.Pi*s.Freq*t) + s.Offset
}

// Chirp sweeps linearly from F0 at t=0 to F1 at t=T1, cosine-shaped.
type Chirp struct {
	Amp, F0, F1, T1, Offset float64
}

func (c Chirp) At(t float64) float64 {
	k := 0.0
	if c.T1 > 0 {
		k = (c.F1 - c.F0) / c.T1
	}
	return c.Amp*math.Cos(2*math.Pi*(c.F0*t+0.5*k*t*t)) + c.Offset
}

// Freq is the instantaneous frequency at t.
func (c Chirp) Freq(t float64) float64 {
	if c.T1 <= 0 {
		return c.F0
	}
	return c.F0 + (c.F1-c.F0)*t/c.T1
}

// FromConfig builds the configured signal. span is the phase length and
// bounds a chirp sweep. A chirp with zero amplitude gets unit amplitude.
func FromConfig(c config.SignalConfig, span float64) (Signal, error) {
	switch c.Type {
	case "", "step":
		return Step{Value: c.Offset}, nil
	case "sine":
		if c.Freq <= 0 {
			return nil, fmt.Errorf("signal: sine frequency must be positive, got %g", c.Freq)
		}
		return Sine{Amp: c.Amp, Freq: c.Freq, Offset: c.Offset}, nil
	case "chirp":
		amp := c.Amp
		if amp == 0 {
			amp = 1
		}
		return Chirp{Amp: amp, F0: c.F0, F1: c.F1, T1: span, Offset: c.Offset}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSignal, c.Type)
	}
}

// Sample evaluates sig on [0, total) every interval seconds.
func Sample(sig Signal, interval, total float64) []float64 {
	if interval <= 0 || total <= 0 {
		return nil
	}
	n := int(math.Ceil(total/interval - 1e-9))
	out := make([]float64, n)
	for i := range out {
		out[i] = sig.At(float64(i) * interval)
	}
	return out
}
