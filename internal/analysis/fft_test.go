package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(n int, dt, freq, amp, phaseRad, offset float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = amp*math.Sin(2*math.Pi*freq*float64(i)*dt+phaseRad) + offset
	}
	return s
}

func TestSpectrumPeak(t *testing.T) {
	// 1024 samples at 0.01 s: bin spacing ~0.0977 Hz, bin 20 = 1.953125 Hz
	n, dt := 1024, 0.01
	f := 20 / (float64(n) * dt)
	freqs, amp, _ := Spectrum(sine(n, dt, f, 3, 0, 5), dt)
	require.Len(t, freqs, n/2)

	best := 0
	for k := range amp {
		if amp[k] > amp[best] {
			best = k
		}
	}
	assert.Equal(t, 20, best)
	assert.InDelta(t, f, freqs[best], 1e-9)
	assert.InDelta(t, 3, amp[best], 1e-9)
	assert.InDelta(t, 0, amp[0], 1e-9)
}

func TestResponseAtPureGain(t *testing.T) {
	n, dt := 1024, 0.01
	f := 20 / (float64(n) * dt)
	in := sine(n, dt, f, 1, 0, 0)
	out := make([]float64, n)
	for i, v := range in {
		out[i] = 2 * v
	}

	pt, err := ResponseAt(in, out, dt, f)
	require.NoError(t, err)
	assert.InDelta(t, 20*math.Log10(2), pt.GainDB, 1e-9)
	assert.InDelta(t, 0, pt.PhaseDeg, 1e-9)
}

func TestResponseAtPhaseLag(t *testing.T) {
	n, dt := 1024, 0.01
	f := 16 / (float64(n) * dt)
	in := sine(n, dt, f, 1, 0, 0)
	out := sine(n, dt, f, 0.5, -math.Pi/2, 0)

	pt, err := ResponseAt(in, out, dt, f)
	require.NoError(t, err)
	assert.InDelta(t, 20*math.Log10(0.5), pt.GainDB, 1e-9)
	assert.InDelta(t, -90, pt.PhaseDeg, 1e-6)
}

func TestFrequencyResponseSkipsEmptyBins(t *testing.T) {
	n, dt := 512, 0.01
	f := 10 / (float64(n) * dt)
	in := sine(n, dt, f, 1, 0, 0)
	out := sine(n, dt, f, 1, 0, 0)

	pts, err := FrequencyResponse(in, out, dt)
	require.NoError(t, err)
	require.NotEmpty(t, pts)
	for _, p := range pts {
		assert.InDelta(t, 0, p.GainDB, 1e-6)
	}
}

func TestFrequencyResponseErrors(t *testing.T) {
	_, err := FrequencyResponse([]float64{1, 2, 3, 4}, []float64{1, 2, 3}, 0.1)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = ResponseAt([]float64{1}, []float64{1}, 0.1, 1)
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestWrapDeg(t *testing.T) {
	assert.InDelta(t, -90, wrapDeg(270), 1e-12)
	assert.InDelta(t, 90, wrapDeg(-270), 1e-12)
	assert.InDelta(t, 10, wrapDeg(10), 1e-12)
}

func TestPeaksAndPeriod(t *testing.T) {
	dt := 0.01
	s := sine(400, dt, 1, 1, 0, 0)
	times := make([]float64, len(s))
	for i := range times {
		times[i] = float64(i) * dt
	}

	peaks := Peaks(s)
	require.Len(t, peaks, 4)
	period, ok := AveragePeriod(times, peaks)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, period, 1e-9)

	_, ok = AveragePeriod(times, peaks[:1])
	assert.False(t, ok)
}
