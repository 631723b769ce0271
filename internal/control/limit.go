package control

import "math"

// Limit clamps v into [lo, hi].
func Limit(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LimitAbs clamps v into [-max, max].
func LimitAbs(v, max float64) float64 {
	return Limit(v, -max, max)
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 { return r * 180.0 / math.Pi }

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 { return d * math.Pi / 180.0 }
