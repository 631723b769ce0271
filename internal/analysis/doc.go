// Package analysis provides frequency-domain tools for recorded runs.
//
//   - [Spectrum]: one-sided amplitude and phase spectrum of a signal
//   - [FrequencyResponse]: gain and phase of output over input per bin
//   - [ResponseAt]: the same at the bin closest to one excitation frequency
//   - [Peaks] and [AveragePeriod]: period estimate from local maxima
//
// A chirp or sine excitation of a controller target, recorded with its
// response, yields a Bode estimate:
//
//	pts, err := analysis.FrequencyResponse(target, altitude, dt)
package analysis
