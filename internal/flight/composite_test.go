package flight_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flightctl/internal/config"
	"github.com/san-kum/flightctl/internal/flight"
)

const hover = 9.81

// unitGains sets every proportional gain to one and everything else that
// shapes the response (integral, derivative, cycles) to zero.
func unitGains() config.Params {
	p := config.DefaultParams()
	for _, n := range p.Names() {
		switch {
		case strings.HasSuffix(n, "_Kp"):
			p[n] = 1
		case strings.HasSuffix(n, "_Ki"), strings.HasSuffix(n, "_Kd"), strings.HasSuffix(n, "_CYCLE"):
			p[n] = 0
		}
	}
	return p.Merge(config.Params{
		"PID_PARAM_MAX_TORQUE_X": 100,
		"PID_PARAM_MAX_TORQUE_Y": 100,
		"PID_PARAM_MAX_TORQUE_Z": 100,
	})
}

func create(name string) *flight.Module {
	m, err := flight.Create(name, config.StaticSource(unitGains()))
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("Variants", func() {
	It("registers every controller by name", func() {
		Expect(flight.Names()).To(Equal([]string{
			flight.AltSpeedController,
			flight.AngleController,
			flight.DroneController,
			flight.PlantController,
			flight.SpeedController,
		}))
	})

	It("rejects unknown names", func() {
		_, err := flight.Lookup("HelicopterController")
		Expect(err).To(MatchError(flight.ErrUnknownVariant))

		_, err = flight.Create("HelicopterController", nil)
		Expect(err).To(MatchError(flight.ErrUnknownVariant))
	})

	It("hands out copies of the registered wiring", func() {
		v := flight.MustLookup(flight.DroneController)
		v.Altitude = flight.AltitudeOff
		v.Map = nil

		again := flight.MustLookup(flight.DroneController)
		Expect(again.Altitude).To(Equal(flight.AltitudePosition))
		Expect(again.Map).NotTo(BeNil())
	})

	It("panics on an unknown name in MustLookup", func() {
		Expect(func() { flight.MustLookup("HelicopterController") }).To(Panic())
	})

	It("marks only the plant controller as pass-through", func() {
		for _, n := range flight.Names() {
			v, err := flight.Lookup(n)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Passthrough()).To(Equal(n == flight.PlantController), n)
		}
	})
})

var _ = Describe("Module", func() {
	It("follows the host lifecycle", func() {
		m := create(flight.DroneController)
		Expect(m.Name()).To(Equal(flight.DroneController))
		Expect(m.Init()).To(Succeed())
		Expect(m.IsOperating()).To(BeTrue())
	})

	It("requires a parameter source for closed-loop variants", func() {
		_, err := flight.Create(flight.AngleController, nil)
		Expect(err).To(MatchError(config.ErrParamFileNotFound))
	})

	It("fails when the parameter file variable is unset", func() {
		_, err := flight.Create(flight.DroneController, config.EnvSource{Var: "FLIGHTCTL_TEST_UNSET_PARAMS"})
		Expect(err).To(MatchError(config.ErrParamFileNotFound))
	})

	It("reports missing parameters", func() {
		p := unitGains()
		delete(p, "PID_POS_MAX_ROLL")
		_, err := flight.Create(flight.DroneController, config.StaticSource(p))
		Expect(err).To(MatchError(config.ErrMissingParam))
		Expect(err.Error()).To(ContainSubstring("PID_POS_MAX_ROLL"))
	})
})

var _ = Describe("PlantController", func() {
	It("needs no parameters", func() {
		_, err := flight.Create(flight.PlantController, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("passes the target straight through", func() {
		m, err := flight.Create(flight.PlantController, nil)
		Expect(err).NotTo(HaveOccurred())
		out := m.Run(flight.Input{Target: flight.Target{
			Throttle:          flight.Throttle{Power: 12},
			Attitude:          flight.AttitudeTarget{Roll: 0.1, Pitch: -0.2},
			DirectionVelocity: flight.DirectionVelocity{R: 0.05},
		}})
		Expect(out).To(Equal(flight.Output{Thrust: 12, TorqueX: 0.1, TorqueY: -0.2, TorqueZ: 0.05}))
	})
})

var _ = Describe("AltSpeedController", func() {
	It("tracks the negated power as a climb rate", func() {
		m := create(flight.AltSpeedController)
		// climbing at 1 m/s (w down-positive) with a 2 m/s climb request
		out := m.Run(flight.Input{
			Vel:    flightVel(0, 0, -1),
			Target: flight.Target{Throttle: flight.Throttle{Power: -2}},
		})
		Expect(out.Thrust).To(BeNumerically("~", hover+1, 1e-9))
		Expect(out.TorqueX).To(BeZero())
		Expect(out.TorqueY).To(BeZero())
		Expect(out.TorqueZ).To(BeZero())
	})
})

var _ = Describe("AngleController", func() {
	It("holds power as altitude and forwards attitude set-points", func() {
		m := create(flight.AngleController)
		out := m.Run(flight.Input{
			Pos: flightPos(0, 0, -3),
			Target: flight.Target{
				Throttle: flight.Throttle{Power: 3},
				Attitude: flight.AttitudeTarget{Roll: 5, Pitch: -2},
			},
		})
		Expect(out.Thrust).To(BeNumerically("~", hover, 1e-9))
		Expect(out.TorqueX).To(BeNumerically("~", 5, 1e-9))
		Expect(out.TorqueY).To(BeNumerically("~", -2, 1e-9))
		Expect(out.TorqueZ).To(BeNumerically("~", 0, 1e-9))
	})
})

var _ = Describe("DroneController", func() {
	It("climbs towards a target above the vehicle", func() {
		m := create(flight.DroneController)
		out := m.Run(flight.Input{Target: flight.Target{Position: flight.PositionTarget{Z: -1}}})
		Expect(out.Thrust).To(BeNumerically(">", hover))
	})

	It("holds hover thrust at the target altitude", func() {
		m := create(flight.DroneController)
		out := m.Run(flight.Input{
			Pos:    flightPos(0, 0, -4),
			Target: flight.Target{Position: flight.PositionTarget{Z: -4}},
		})
		Expect(out.Thrust).To(BeNumerically("~", hover, 1e-9))
	})

	It("pitches nose-down towards a target ahead", func() {
		m := create(flight.DroneController)
		out := m.Run(flight.Input{Target: flight.Target{Position: flight.PositionTarget{X: 1}}})
		Expect(out.TorqueY).To(BeNumerically("~", -1, 1e-9))
		Expect(out.TorqueX).To(BeNumerically("~", 0, 1e-9))
	})

	It("yaws towards the target heading at the limited rate", func() {
		m := create(flight.DroneController)
		out := m.Run(flight.Input{Target: flight.Target{YawDeg: 90}})
		// yaw rate clamped to 30 deg/s, unit yaw-rate gain
		Expect(out.TorqueZ).To(BeNumerically("~", 30, 1e-9))
	})
})

var _ = Describe("SpeedController", func() {
	It("maps attitude fields to body velocity targets", func() {
		m := create(flight.SpeedController)
		out := m.Run(flight.Input{
			Pos: flightPos(0, 0, -2),
			Target: flight.Target{
				Throttle: flight.Throttle{Power: -2},
				Attitude: flight.AttitudeTarget{Roll: 1, Pitch: 1},
			},
		})
		Expect(out.Thrust).To(BeNumerically("~", hover, 1e-9))
		Expect(out.TorqueY).To(BeNumerically("~", -1, 1e-9))
		Expect(out.TorqueX).To(BeNumerically("~", 1, 1e-9))
		Expect(out.TorqueZ).To(BeNumerically("~", 0, 1e-9))
	})
})
