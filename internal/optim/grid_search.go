// Package optim tunes controller parameters by simulation.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/flightctl/internal/config"
	"github.com/san-kum/flightctl/internal/experiment"
)

var (
	ErrEmptyGrid   = errors.New("optim: empty grid")
	ErrNoCandidate = errors.New("optim: every candidate failed")
)

// Trial is one evaluated candidate. Failed runs score +Inf.
type Trial struct {
	Params config.Params
	Score  float64
	Err    error
}

// GridSearch evaluates every combination of the listed parameter values.
type GridSearch struct {
	names  []string
	values [][]float64
	// Workers caps concurrent simulations; zero runs them all at once.
	Workers int
}

func NewGridSearch(names []string, values [][]float64) (*GridSearch, error) {
	if len(names) == 0 || len(names) != len(values) {
		return nil, ErrEmptyGrid
	}
	for i, v := range values {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: no values for %s", ErrEmptyGrid, names[i])
		}
	}
	return &GridSearch{names: names, values: values}, nil
}

// ParseGrid reads NAME=v1,v2,... axes.
func ParseGrid(axes []string) (*GridSearch, error) {
	names := make([]string, 0, len(axes))
	values := make([][]float64, 0, len(axes))
	for _, axis := range axes {
		name, list, ok := strings.Cut(axis, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("optim: malformed axis %q, want NAME=v1,v2", axis)
		}
		var vs []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("optim: axis %s: %w", name, err)
			}
			vs = append(vs, v)
		}
		names = append(names, name)
		values = append(values, vs)
	}
	return NewGridSearch(names, values)
}

// Candidates lists the grid in order, the last axis varying fastest.
func (g *GridSearch) Candidates() []config.Params {
	out := []config.Params{{}}
	for i, name := range g.names {
		next := make([]config.Params, 0, len(out)*len(g.values[i]))
		for _, c := range out {
			for _, v := range g.values[i] {
				p := c.Clone()
				p[name] = v
				next = append(next, p)
			}
		}
		out = next
	}
	return out
}

// Search builds one experiment per candidate and scores it by the named
// run metric, lower being better. Trials are returned best first.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(overrides config.Params) (*experiment.Experiment, error),
	metric string,
) (Trial, []Trial, error) {
	candidates := g.Candidates()
	trials := make([]Trial, len(candidates))

	eg, ctx := errgroup.WithContext(ctx)
	if g.Workers > 0 {
		eg.SetLimit(g.Workers)
	}
	for i, c := range candidates {
		eg.Go(func() error {
			trials[i] = evaluate(ctx, build, c, metric)
			// only cancellation stops the search; diverging gains are expected
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return Trial{}, nil, err
	}

	sort.SliceStable(trials, func(a, b int) bool { return trials[a].Score < trials[b].Score })
	if trials[0].Err != nil {
		return Trial{}, trials, ErrNoCandidate
	}
	return trials[0], trials, nil
}

func evaluate(ctx context.Context, build func(config.Params) (*experiment.Experiment, error), c config.Params, metric string) Trial {
	t := Trial{Params: c, Score: math.Inf(1)}
	e, err := build(c)
	if err != nil {
		t.Err = err
		return t
	}
	r, err := e.Run(ctx)
	if err != nil {
		t.Err = err
		return t
	}
	v, ok := r.Metrics[metric]
	if !ok {
		t.Err = fmt.Errorf("optim: run has no metric %q", metric)
		return t
	}
	t.Score = v
	return t
}
