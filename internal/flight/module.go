package flight

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/san-kum/flightctl/internal/config"
	"github.com/san-kum/flightctl/internal/control"
)

// Module is the host-facing wrapper around a Composite.
type Module struct {
	*Composite
	log logr.Logger
}

type Option func(*Module)

func WithLogger(l logr.Logger) Option {
	return func(m *Module) { m.log = l }
}

// Create resolves the named variant and builds it from src. Variants that
// run any loop fail with config.ErrParamFileNotFound when src is nil or
// cannot locate its file.
func Create(name string, src config.ParamSource, opts ...Option) (*Module, error) {
	m := &Module{log: logr.Discard()}
	for _, o := range opts {
		o(m)
	}

	v, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	var params config.Params
	if v.NeedsParams() {
		if src == nil {
			return nil, fmt.Errorf("create %s: %w", name, config.ErrParamFileNotFound)
		}
		if params, err = src.Params(); err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
	}

	c, err := New(v, paramsOrNil(params))
	if err != nil {
		m.log.Error(err, "controller construction failed", "variant", name)
		return nil, err
	}
	m.Composite = c
	m.log.Info("controller created", "variant", name, "params", len(params))
	return m, nil
}

// paramsOrNil keeps a nil map from becoming a non-nil interface.
func paramsOrNil(p config.Params) control.Params {
	if p == nil {
		return nil
	}
	return p
}

func (m *Module) Init() error {
	m.log.V(1).Info("controller init", "variant", m.Name())
	return nil
}

func (m *Module) IsOperating() bool { return true }
