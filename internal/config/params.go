package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrParamFileNotFound is returned when the parameter source cannot be located.
	ErrParamFileNotFound = errors.New("config: parameter file not found")

	// ErrMissingParam is returned when a required parameter is absent.
	ErrMissingParam = errors.New("config: missing parameter")

	// ErrMalformedParam is returned for a line or value that cannot be parsed.
	ErrMalformedParam = errors.New("config: malformed parameter")
)

// Params maps parameter names to values. It is loaded once and treated as
// read-only afterwards.
type Params map[string]float64

// Get returns the named value, or zero when absent.
func (p Params) Get(name string) float64 {
	return p[name]
}

func (p Params) Lookup(name string) (float64, bool) {
	v, ok := p[name]
	return v, ok
}

// Require reports every name in names that p does not define.
func (p Params) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := p[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingParam, strings.Join(missing, ", "))
	}
	return nil
}

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Merge returns a copy of p overlaid with the values of other.
func (p Params) Merge(other Params) Params {
	c := p.Clone()
	for k, v := range other {
		c[k] = v
	}
	return c
}
