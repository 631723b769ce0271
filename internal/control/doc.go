// Package control provides the cascaded loop controllers of a multirotor:
//
//   - [PID]: fixed-timestep PID element, the building block of every loop
//   - [Altitude]: position -> climb rate -> throttle power -> thrust
//   - [Heading]: shortest-path yaw angle -> yaw rate
//   - [PositionController]: horizontal position -> velocity -> roll/pitch set-points
//   - [Attitude]: roll/pitch angle and yaw rate -> body torques
//
// Each loop controller owns its PID elements and a [Cycle]. Output is only
// recomputed when the cycle is due; in between the last value is held.
//
// # Usage
//
//	alt, err := control.NewAltitude(params)
//	out := alt.Run(control.AltitudeInput{Pos: pos, Vel: vel, TargetAltitude: 10})
//	// out.Thrust is held until PID_ALT_CONTROL_CYCLE has elapsed again
//
// None of the types here are safe for concurrent use.
package control
