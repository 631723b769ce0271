package export

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/flightctl/internal/analysis"
	"github.com/san-kum/flightctl/internal/storage"
)

var ErrNoData = errors.New("export: nothing to plot")

const plotSize = 15 * vg.Centimeter

// plotToFile creates a titled plot, fills it with draw and saves it to
// path; the extension selects the image format.
func plotToFile(path, title, xTitle, yTitle string, draw func(*plot.Plot) error) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle
	p.Add(plotter.NewGrid())
	if err := draw(p); err != nil {
		return fmt.Errorf("could not draw plot contents: %w", err)
	}
	if err := p.Save(2*plotSize, plotSize, path); err != nil {
		return fmt.Errorf("could not save plot: %w", err)
	}
	return nil
}

func plotterXY(x, y []float64) plotter.XYs {
	xy := make(plotter.XYs, len(x))
	for i := range x {
		xy[i].X = x[i]
		xy[i].Y = y[i]
	}
	return xy
}

// PNG plots the named columns of a series against time.
func PNG(path, title string, series *storage.Series, columns []string) error {
	if series == nil || series.Len() == 0 || len(columns) == 0 {
		return ErrNoData
	}
	return plotToFile(path, title, "time (s)", "value", func(p *plot.Plot) error {
		for i, name := range columns {
			col, err := series.Column(name)
			if err != nil {
				return err
			}
			line, err := plotter.NewLine(plotterXY(series.Times, col))
			if err != nil {
				return fmt.Errorf("column %s: %w", name, err)
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(name, line)
		}
		return nil
	})
}

// BodePNG writes the gain and phase of a frequency response to two files,
// gainPath and phasePath, on a logarithmic frequency axis.
func BodePNG(gainPath, phasePath, title string, pts []analysis.BodePoint) error {
	if len(pts) == 0 {
		return ErrNoData
	}
	freqs := make([]float64, len(pts))
	gain := make([]float64, len(pts))
	phase := make([]float64, len(pts))
	for i, pt := range pts {
		freqs[i], gain[i], phase[i] = pt.Freq, pt.GainDB, pt.PhaseDeg
	}

	logAxis := func(p *plot.Plot, y []float64) error {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		line, err := plotter.NewLine(plotterXY(freqs, y))
		if err != nil {
			return err
		}
		p.Add(line)
		return nil
	}
	if err := plotToFile(gainPath, title+" gain", "frequency (Hz)", "gain (dB)", func(p *plot.Plot) error {
		return logAxis(p, gain)
	}); err != nil {
		return err
	}
	return plotToFile(phasePath, title+" phase", "frequency (Hz)", "phase (deg)", func(p *plot.Plot) error {
		return logAxis(p, phase)
	})
}
