package control

// Cycle gates recomputation of a loop controller. Every call to Tick
// advances the elapsed time by the simulation timestep; Tick reports
// true, and restarts the count, once elapsed time has reached the period.
type Cycle struct {
	period  float64
	dt      float64
	elapsed float64
}

func NewCycle(period, dt float64) Cycle {
	return Cycle{period: period, dt: dt}
}

// Tick must be called exactly once per simulation step.
func (c *Cycle) Tick() bool {
	due := c.elapsed >= c.period
	if due {
		c.elapsed = 0
	}
	c.elapsed += c.dt
	return due
}

func (c *Cycle) Period() float64  { return c.period }
func (c *Cycle) Elapsed() float64 { return c.elapsed }

// Reset restarts the elapsed count so the next Tick waits a full period.
func (c *Cycle) Reset() { c.elapsed = 0 }
