package flight_test

import "github.com/san-kum/flightctl/internal/control"

func flightPos(x, y, z float64) control.Position { return control.Position{X: x, Y: y, Z: z} }

func flightVel(u, v, w float64) control.Velocity { return control.Velocity{U: u, V: v, W: w} }
