// Package plant provides the simulated vehicle the flight controllers are
// exercised against.
//
//   - [Multirotor]: rigid-body 6-DOF model in NED coordinates
//   - [Mixer]: quad-X rotor allocation with per-rotor saturation
//
// The state vector layout is fixed by the index constants (X … R) and is
// also the column order used by storage.
package plant
