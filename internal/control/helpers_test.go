package control

import (
	"strings"

	"github.com/san-kum/flightctl/internal/config"
)

// zeroGains returns the default parameter set with every PID gain and
// control cycle zeroed, then applies overrides.
func zeroGains(overrides config.Params) config.Params {
	p := config.DefaultParams()
	for _, n := range p.Names() {
		if strings.HasSuffix(n, "_Kp") || strings.HasSuffix(n, "_Ki") ||
			strings.HasSuffix(n, "_Kd") || strings.HasSuffix(n, "_CYCLE") {
			p[n] = 0
		}
	}
	return p.Merge(overrides)
}
