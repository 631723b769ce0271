package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/flightctl/internal/analysis"
	"github.com/san-kum/flightctl/internal/control"
	"github.com/san-kum/flightctl/internal/export"
	"github.com/san-kum/flightctl/internal/metrics"
	"github.com/san-kum/flightctl/internal/storage"
)

var defaultPlotColumns = []string{"z", "target_pos_z", "phi", "theta", "psi", "thrust"}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVARIANT\tPRESET\tTIME\tDURATION\tDT\tINTEG\tSTATUS")
			for _, run := range runs {
				status := "ok"
				if run.Error != "" {
					status = "diverged"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
					run.ID, run.Variant, run.Preset,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Duration, run.Dt, run.Integrator, status)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	var columns []string
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run columns in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, meta, err := openRun(runArg(args))
			if err != nil {
				return err
			}
			series, err := st.LoadSeries(meta.ID)
			if err != nil {
				return err
			}
			if series.Len() == 0 {
				return export.ErrNoData
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("variant: %s\n", meta.Variant)
			fmt.Printf("samples: %d\n\n", series.Len())
			for _, name := range columns {
				col, err := series.Column(name)
				if err != nil {
					return err
				}
				fmt.Println(asciigraph.Plot(col,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(name),
				))
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", defaultPlotColumns, "columns to plot")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		out      string
		metaOnly bool
	)
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, meta, err := openRun(runArg(args))
			if err != nil {
				return err
			}
			if metaOnly {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(meta)
			}
			series, err := st.LoadSeries(meta.ID)
			if err != nil {
				return err
			}
			if out != "" {
				return export.JSONFile(out, meta, series)
			}
			return export.JSON(os.Stdout, meta, series)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&metaOnly, "meta", false, "metadata only")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's samples as CSV to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, meta, err := openRun(runArg(args))
			if err != nil {
				return err
			}
			series, err := st.LoadSeries(meta.ID)
			if err != nil {
				return err
			}
			return storage.WriteCSV(os.Stdout, series)
		},
	}
}

func newPNGCmd() *cobra.Command {
	var (
		columns []string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "png [run_id]",
		Short: "render run columns to a PNG chart",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, meta, err := openRun(runArg(args))
			if err != nil {
				return err
			}
			series, err := st.LoadSeries(meta.ID)
			if err != nil {
				return err
			}
			if out == "" {
				out = meta.ID + ".png"
			}
			if err := export.PNG(out, meta.Variant+" "+meta.Preset, series, columns); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", []string{"z", "target_pos_z"}, "columns to draw")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <run_id>.png)")
	return cmd
}

func newEvaluateCmd() *cobra.Command {
	var (
		column  string
		target  string
		invert  bool
		degrees bool
		asJSON  bool
		c       = metrics.DefaultCriteria()
	)
	cmd := &cobra.Command{
		Use:   "evaluate [run_id]",
		Short: "measure the step response of a run column",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, meta, err := openRun(runArg(args))
			if err != nil {
				return err
			}
			series, err := st.LoadSeries(meta.ID)
			if err != nil {
				return err
			}
			values, err := series.Column(column)
			if err != nil {
				return err
			}
			transform(values, invert, degrees)
			if !cmd.Flags().Changed("target") {
				want, err := series.Column(target)
				if err != nil {
					return err
				}
				transform(want, invert, degrees)
				if len(want) > 0 {
					c.Target = want[len(want)-1]
				}
			}

			res, evalErr := metrics.EvaluateStep(series.Times, values, c)
			if res == nil {
				return evalErr
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				printStep(meta.ID, column, res)
			}
			if evalErr != nil && !errors.Is(evalErr, metrics.ErrUnsteady) {
				return evalErr
			}
			if !res.OK() {
				return errors.New("step response out of limits")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&column, "column", "z", "column holding the response")
	cmd.Flags().StringVar(&target, "target-column", "target_pos_z", "column whose final value is the expected steady state")
	cmd.Flags().BoolVar(&invert, "invert", true, "negate the column (z is down-positive)")
	cmd.Flags().BoolVar(&degrees, "degrees", false, "convert radians to degrees")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().Float64Var(&c.Start, "start", 0, "ignore samples before this time")
	cmd.Flags().Float64Var(&c.Target, "target", 0, "expected steady-state value (overrides --target-column)")
	cmd.Flags().Float64Var(&c.TargetCV, "target-cv", c.TargetCV, "allowed relative steady-state deviation")
	cmd.Flags().Float64Var(&c.VarianceThreshold, "variance", c.VarianceThreshold, "steady-state variance limit")
	cmd.Flags().Float64Var(&c.MaxRise, "max-rise", 0, "rise time limit in seconds (0 disables)")
	cmd.Flags().Float64Var(&c.MaxDelay, "max-delay", 0, "delay time limit in seconds (0 disables)")
	cmd.Flags().Float64Var(&c.MaxOvershoot, "max-overshoot", 0, "overshoot limit (0 disables)")
	cmd.Flags().Float64Var(&c.MaxSettling, "max-settling", 0, "settling time limit in seconds (0 disables)")
	return cmd
}

// transform applies the column conversions in place.
func transform(values []float64, invert, degrees bool) {
	for i, v := range values {
		if invert {
			v = -v
		}
		if degrees {
			v = control.Rad2Deg(v)
		}
		values[i] = v
	}
}

func printStep(id, column string, r *metrics.StepResponse) {
	verdict := func(ok bool) string {
		if ok {
			return "OK"
		}
		return "NG"
	}
	timeOf := func(t float64) string {
		if t >= metrics.NotReached {
			return "not reached"
		}
		return fmt.Sprintf("%.3fs", t)
	}

	fmt.Printf("step response: %s (%s)\n\n", id, column)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "initial\t%.4f\t\n", r.Initial)
	fmt.Fprintf(w, "steady state\t%.4f\t%s\n", r.SteadyState, verdict(r.SteadyOK))
	fmt.Fprintf(w, "variance\t%.3g\t\n", r.Variance)
	fmt.Fprintf(w, "rise time\t%s\t%s\n", timeOf(r.RiseTime), verdict(r.RiseOK))
	fmt.Fprintf(w, "delay time\t%s\t%s\n", timeOf(r.DelayTime), verdict(r.DelayOK))
	fmt.Fprintf(w, "overshoot\t%.4f\t%s\n", r.Overshoot, verdict(r.OvershootOK))
	fmt.Fprintf(w, "settling time\t%s\t%s\n", timeOf(r.SettlingTime), verdict(r.SettlingOK))
	w.Flush()
}

func newFreqCmd() *cobra.Command {
	var (
		input, output string
		freq          float64
		pngPrefix     string
	)
	cmd := &cobra.Command{
		Use:   "freq [run_id]",
		Short: "estimate the frequency response between two run columns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, meta, err := openRun(runArg(args))
			if err != nil {
				return err
			}
			series, err := st.LoadSeries(meta.ID)
			if err != nil {
				return err
			}
			in, err := series.Column(input)
			if err != nil {
				return err
			}
			out, err := series.Column(output)
			if err != nil {
				return err
			}

			fmt.Printf("frequency response: %s (%s -> %s)\n\n", meta.ID, input, output)
			if freq > 0 {
				pt, err := analysis.ResponseAt(in, out, meta.Dt, freq)
				if err != nil {
					return err
				}
				fmt.Printf("freq: %.3f hz  gain: %.2f db  phase: %.1f deg\n", pt.Freq, pt.GainDB, pt.PhaseDeg)
				return nil
			}

			pts, err := analysis.FrequencyResponse(in, out, meta.Dt)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FREQ_HZ\tGAIN_DB\tPHASE_DEG")
			for _, p := range pts {
				fmt.Fprintf(w, "%.3f\t%.2f\t%.1f\n", p.Freq, p.GainDB, p.PhaseDeg)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if pngPrefix != "" {
				gain, phase := pngPrefix+"_gain.png", pngPrefix+"_phase.png"
				title := strings.TrimSpace(meta.Variant + " " + output + "/" + input)
				if err := export.BodePNG(gain, phase, title, pts); err != nil {
					return err
				}
				fmt.Printf("\nwrote %s, %s\n", gain, phase)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "target_power", "excitation column")
	cmd.Flags().StringVar(&output, "output", "w", "response column")
	cmd.Flags().Float64Var(&freq, "freq", 0, "report only the bin nearest this frequency")
	cmd.Flags().StringVar(&pngPrefix, "png", "", "write Bode plots to <prefix>_gain.png and <prefix>_phase.png")
	return cmd
}
