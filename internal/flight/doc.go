// Package flight wires the loop controllers of package control into the
// flight-controller variants a host simulator loads.
//
// A [Variant] is configuration: which loops run and how the host target
// record maps onto their set-points. A [Composite] executes any variant
// through the same pipeline, and a [Module] adds the host lifecycle around
// it (create, init, is-operating, run).
//
// # Frames
//
// The host supplies NED state: position Z and body velocity W are
// down-positive. The composite inverts both before the loops see them.
// Target fields are converted per variant; see [Lookup].
package flight
