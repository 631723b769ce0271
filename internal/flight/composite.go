package flight

import (
	"fmt"

	"github.com/san-kum/flightctl/internal/control"
)

// Composite runs the loops selected by a Variant. It owns its loop
// controllers and keeps no state of its own.
type Composite struct {
	variant Variant

	alt  *control.Altitude
	head *control.Heading
	pos  *control.PositionController
	att  *control.Attitude
}

// New builds the loops the variant selects. p may be nil for pass-through
// variants.
func New(v Variant, p control.Params) (*Composite, error) {
	if v.Map == nil {
		return nil, fmt.Errorf("variant %q: no target mapping", v.Name)
	}
	c := &Composite{variant: v}
	if v.Passthrough() {
		return c, nil
	}
	if p == nil {
		return nil, fmt.Errorf("variant %q: parameters required", v.Name)
	}

	var err error
	if v.Altitude != AltitudeOff {
		if c.alt, err = control.NewAltitude(p); err != nil {
			return nil, err
		}
	}
	if v.Heading {
		if c.head, err = control.NewHeading(p); err != nil {
			return nil, err
		}
	}
	if v.Horizontal != HorizontalOff {
		if c.pos, err = control.NewPosition(p); err != nil {
			return nil, err
		}
	}
	if v.Attitude {
		if c.att, err = control.NewAttitude(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Composite) Name() string { return c.variant.Name }

func (c *Composite) Variant() Variant { return c.variant }

func (c *Composite) Run(in Input) Output {
	sp := c.variant.Map(in.Target)
	if c.variant.Passthrough() {
		return sp.Direct
	}

	pos := in.Pos
	pos.Z = -pos.Z
	vel := in.Vel
	vel.W = -vel.W

	var out Output
	switch c.variant.Altitude {
	case AltitudePosition:
		out.Thrust = c.alt.Run(control.AltitudeInput{
			Pos:            pos,
			Vel:            vel,
			TargetAltitude: sp.Altitude,
		}).Thrust
	case AltitudeSpeed:
		out.Thrust = c.alt.RunSpeed(control.AltitudeSpeedInput{
			Euler:       in.Euler,
			Vel:         vel,
			TargetSpeed: sp.ClimbRate,
		}).Thrust
	}

	var yawRate float64
	if c.head != nil {
		yawRate = c.head.Run(control.HeadingInput{
			Euler:          in.Euler,
			TargetAngleDeg: sp.YawDeg,
		}).YawRate
	}

	roll, pitch := sp.Roll, sp.Pitch
	switch c.variant.Horizontal {
	case HorizontalPosition:
		po := c.pos.Run(control.PositionInput{
			Pos:         pos,
			Vel:         vel,
			Euler:       in.Euler,
			TargetX:     sp.X,
			TargetY:     sp.Y,
			TargetSpeed: sp.Speed,
		})
		roll, pitch = po.TargetRoll, po.TargetPitch
	case HorizontalVelocity:
		po := c.pos.RunSpeed(control.VelocityInput{
			Vel:      vel,
			TargetVx: sp.Vx,
			TargetVy: sp.Vy,
		})
		roll, pitch = po.TargetRoll, po.TargetPitch
	}

	if c.att != nil {
		a := c.att.Run(control.AttitudeInput{
			Euler:         in.Euler,
			Rate:          in.Rate,
			TargetRoll:    roll,
			TargetPitch:   pitch,
			TargetYawRate: yawRate,
		})
		out.TorqueX, out.TorqueY, out.TorqueZ = a.P, a.Q, a.R
	}
	return out
}

// Reset clears the accumulators of every owned loop.
func (c *Composite) Reset() {
	if c.alt != nil {
		c.alt.Reset()
	}
	if c.head != nil {
		c.head.Reset()
	}
	if c.pos != nil {
		c.pos.Reset()
	}
	if c.att != nil {
		c.att.Reset()
	}
}
