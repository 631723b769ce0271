package analysis

import "gonum.org/v1/gonum/stat"

// Peaks returns the indices of strict local maxima.
func Peaks(signal []float64) []int {
	var idx []int
	for i := 1; i < len(signal)-1; i++ {
		if signal[i] > signal[i-1] && signal[i] >= signal[i+1] {
			idx = append(idx, i)
		}
	}
	return idx
}

// AveragePeriod is the mean spacing of the peak times. ok is false with
// fewer than two peaks.
func AveragePeriod(times []float64, peaks []int) (period float64, ok bool) {
	if len(peaks) < 2 {
		return 0, false
	}
	diffs := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		diffs[i-1] = times[peaks[i]] - times[peaks[i-1]]
	}
	return stat.Mean(diffs, nil), true
}
