package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrLengthMismatch = errors.New("analysis: input and output lengths differ")
	ErrTooShort       = errors.New("analysis: signal too short")
)

// Spectrum returns the positive-frequency bins of the mean-removed signal:
// frequency (Hz), amplitude and phase (degrees). Amplitude is scaled so a
// sine of amplitude A reads A at its bin.
func Spectrum(signal []float64, dt float64) (freqs, amp, phase []float64) {
	n := len(signal)
	if n < 2 || dt <= 0 {
		return nil, nil, nil
	}
	mean := stat.Mean(signal, nil)
	centered := make([]float64, n)
	for i, v := range signal {
		centered[i] = v - mean
	}
	y := fft.FFTReal(centered)

	half := n / 2
	freqs = make([]float64, half)
	amp = make([]float64, half)
	phase = make([]float64, half)
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) / (float64(n) * dt)
		amp[k] = 2.0 / float64(n) * cmplx.Abs(y[k])
		phase[k] = cmplx.Phase(y[k]) * 180 / math.Pi
	}
	return freqs, amp, phase
}

// PowerSpectrum is the magnitude of the first half of the raw FFT.
func PowerSpectrum(data []float64) []float64 {
	y := fft.FFTReal(data)
	ps := make([]float64, len(y)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(y[i])
	}
	return ps
}

type BodePoint struct {
	Freq     float64 `json:"freq"`
	GainDB   float64 `json:"gain_db"`
	PhaseDeg float64 `json:"phase_deg"`
}

// FrequencyResponse estimates out/in at every bin where the input carries
// at least 1% of its peak amplitude. The DC bin is skipped.
func FrequencyResponse(in, out []float64, dt float64) ([]BodePoint, error) {
	if len(in) != len(out) {
		return nil, ErrLengthMismatch
	}
	if len(in) < 4 {
		return nil, ErrTooShort
	}
	freqs, inAmp, inPhase := Spectrum(in, dt)
	_, outAmp, outPhase := Spectrum(out, dt)

	peak := 0.0
	for _, a := range inAmp[1:] {
		peak = math.Max(peak, a)
	}

	var pts []BodePoint
	for k := 1; k < len(freqs); k++ {
		if inAmp[k] < 0.01*peak || inAmp[k] == 0 {
			continue
		}
		pts = append(pts, bode(freqs[k], inAmp[k], outAmp[k], inPhase[k], outPhase[k]))
	}
	return pts, nil
}

// ResponseAt evaluates the response at the bin nearest freq.
func ResponseAt(in, out []float64, dt, freq float64) (BodePoint, error) {
	if len(in) != len(out) {
		return BodePoint{}, ErrLengthMismatch
	}
	if len(in) < 4 {
		return BodePoint{}, ErrTooShort
	}
	freqs, inAmp, inPhase := Spectrum(in, dt)
	_, outAmp, outPhase := Spectrum(out, dt)

	k := int(math.Round(freq * float64(len(in)) * dt))
	if k < 1 {
		k = 1
	}
	if k >= len(freqs) {
		k = len(freqs) - 1
	}
	return bode(freqs[k], inAmp[k], outAmp[k], inPhase[k], outPhase[k]), nil
}

func bode(f, inAmp, outAmp, inPhase, outPhase float64) BodePoint {
	return BodePoint{
		Freq:     f,
		GainDB:   20 * math.Log10(outAmp/inAmp),
		PhaseDeg: wrapDeg(outPhase - inPhase),
	}
}

func wrapDeg(d float64) float64 {
	d = math.Mod(d+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
