package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/san-kum/flightctl/internal/config"
	"github.com/san-kum/flightctl/internal/experiment"
	"github.com/san-kum/flightctl/internal/flight"
	"github.com/san-kum/flightctl/internal/integrators"
	"github.com/san-kum/flightctl/internal/sim"
	"github.com/san-kum/flightctl/internal/storage"
	"github.com/san-kum/flightctl/internal/tui"
)

type scenarioFlags struct {
	preset     string
	scenario   string
	params     string
	integrator string
	duration   float64
	mixer      bool
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "use a preset scenario of the variant")
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&f.params, "params", "", "controller parameter file (default $"+config.EnvParamFile+", else built-in)")
	cmd.Flags().StringVar(&f.integrator, "integrator", config.DefaultIntegrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().Float64Var(&f.duration, "duration", 0, "simulated seconds (default from scenario)")
	cmd.Flags().BoolVar(&f.mixer, "mixer", false, "route commands through the quad-X rotor mixer")
}

// paramSource picks the --params file, then the environment, then nil for
// the built-in defaults.
func (f *scenarioFlags) paramSource() config.ParamSource {
	if f.params != "" {
		return config.FileSource(f.params)
	}
	if path, ok := os.LookupEnv(config.EnvParamFile); ok && path != "" {
		return config.EnvSource{}
	}
	return nil
}

// experiment layers the scenario: defaults, scenario file, preset, the
// variant argument, then explicitly set flags.
func (f *scenarioFlags) experiment(cmd *cobra.Command, variant string, l logr.Logger) (*experiment.Experiment, error) {
	sc := config.DefaultScenario()
	if f.scenario != "" {
		loaded, err := config.Load(f.scenario)
		if err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		sc = loaded
	}
	if variant == "" {
		variant = sc.Variant
	}
	if f.preset != "" {
		p, err := experiment.FromPreset(variant, f.preset)
		if err != nil {
			return nil, err
		}
		sc = &p
	}
	sc.Variant = variant
	if cmd.Flags().Changed("integrator") {
		sc.Integrator = f.integrator
	}
	if cmd.Flags().Changed("duration") {
		sc.Duration = f.duration
	}
	if cmd.Flags().Changed("mixer") {
		sc.Mixer = f.mixer
	}

	params, err := sc.ResolveParams(f.paramSource())
	if err != nil {
		return nil, err
	}
	return experiment.New(*sc, params, experiment.WithLogger(l), experiment.WithPreset(f.preset))
}

func newRunCmd() *cobra.Command {
	var (
		flags scenarioFlags
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "run [variant]",
		Short: "run a closed-loop simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			if all {
				return runAllPresets(ctx, st, &flags)
			}

			e, err := flags.experiment(cmd, runArg(args), log)
			if err != nil {
				return err
			}
			fmt.Printf("running %s for %.2fs...\n", e.Variant.Name, e.Scenario.Duration)
			start := time.Now()
			result, runErr := e.Run(ctx)
			var stepErr *sim.StepError
			if runErr != nil && !errors.As(runErr, &stepErr) {
				return runErr
			}
			elapsed := time.Since(start)

			id, err := st.Save(e.Metadata(result, runErr), experiment.Series(result))
			if err != nil {
				return err
			}
			log.Info("run saved", "id", id, "elapsed", elapsed)

			fmt.Printf("completed in %v\n", elapsed)
			fmt.Printf("run id: %s\n", id)
			fmt.Printf("steps: %d\n", result.StepsTaken)
			printMetrics(result.Metrics)
			return runErr
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "run every preset of every variant concurrently")
	return cmd
}

func runAllPresets(ctx context.Context, st *storage.Store, flags *scenarioFlags) error {
	params, err := config.DefaultScenario().ResolveParams(flags.paramSource())
	if err != nil {
		return err
	}

	var exps []*experiment.Experiment
	batch := sim.NewBatch()
	batch.Workers = runtime.NumCPU()
	for _, v := range flight.Names() {
		for _, name := range config.ListPresets(v) {
			sc, err := experiment.FromPreset(v, name)
			if err != nil {
				return err
			}
			e, err := experiment.New(sc, params, experiment.WithLogger(log), experiment.WithPreset(name))
			if err != nil {
				return fmt.Errorf("%s/%s: %w", v, name, err)
			}
			exps = append(exps, e)
			batch.Add(e.Job())
		}
	}

	fmt.Printf("running %d scenarios on %d workers...\n", batch.Len(), batch.Workers)
	start := time.Now()
	results, err := batch.Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tPRESET\tSTEPS\tEFFORT\tSTABILITY")
	for i, r := range results {
		e := exps[i]
		id, err := st.Save(e.Metadata(r, nil), experiment.Series(r))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%.3f\n",
			id, e.Variant.Name, e.Preset, r.StepsTaken, r.Metrics["control_effort"], r.Metrics["stability"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))
	return nil
}

func printMetrics(ms map[string]float64) {
	fmt.Println("\nmetrics:")
	for _, name := range config.Params(ms).Names() {
		fmt.Printf("  %-16s %.6f\n", name, ms[name])
	}
}

func newLiveCmd() *cobra.Command {
	var flags scenarioFlags
	cmd := &cobra.Command{
		Use:   "live [variant]",
		Short: "fly a scenario interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the terminal belongs to the TUI
			e, err := flags.experiment(cmd, runArg(args), logr.Discard())
			if err != nil {
				return err
			}
			ctrl, err := e.Controller()
			if err != nil {
				return err
			}
			integ, err := integrators.New(e.Scenario.Integrator)
			if err != nil {
				return err
			}

			m := tui.NewModel(e.Plant(), integ, ctrl, e.Variant, e.Schedule(), e.InitialState(), e.Dt())
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "list controller variants and the loops they close",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VARIANT\tALTITUDE\tHEADING\tHORIZONTAL\tATTITUDE\tPRESETS")
			for _, name := range flight.Names() {
				v := flight.MustLookup(name)
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%t\t%s\n", name,
					altitudeMode(v.Altitude), v.Heading, horizontalMode(v.Horizontal), v.Attitude,
					strings.Join(config.ListPresets(name), ","))
			}
			return w.Flush()
		},
	}
}

func altitudeMode(m flight.AltitudeMode) string {
	switch m {
	case flight.AltitudePosition:
		return "position"
	case flight.AltitudeSpeed:
		return "speed"
	default:
		return "-"
	}
}

func horizontalMode(m flight.HorizontalMode) string {
	switch m {
	case flight.HorizontalPosition:
		return "position"
	case flight.HorizontalVelocity:
		return "velocity"
	default:
		return "-"
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [variant]",
		Short: "list the preset scenarios of a variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for variant: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, name := range presets {
				sc := config.GetPreset(args[0], name)
				phases := make([]string, len(sc.Phases))
				for i, p := range sc.Phases {
					phases[i] = fmt.Sprintf("%s(%.1fs)", p.Name, p.Duration)
				}
				fmt.Printf("  %-8s %s\n", name, strings.Join(phases, " -> "))
			}
			return nil
		},
	}
}

func newParamsCmd() *cobra.Command {
	var (
		file  string
		write string
	)
	cmd := &cobra.Command{
		Use:   "params",
		Short: "print a controller parameter set and check it against every variant",
		RunE: func(cmd *cobra.Command, args []string) error {
			var src config.ParamSource = config.StaticSource(config.DefaultParams())
			switch {
			case file != "":
				src = config.FileSource(file)
			case os.Getenv(config.EnvParamFile) != "":
				src = config.EnvSource{}
			}
			p, err := src.Params()
			if err != nil {
				return err
			}
			if write != "" {
				if err := config.SaveParams(write, p); err != nil {
					return err
				}
				log.Info("parameters written", "path", write, "count", len(p))
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range p.Names() {
				fmt.Fprintf(w, "%s\t%g\n", name, p[name])
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Println()
			var failed bool
			for _, name := range flight.Names() {
				if _, err := flight.New(flight.MustLookup(name), p); err != nil {
					failed = true
					fmt.Printf("  %-20s NG  %v\n", name, err)
					continue
				}
				fmt.Printf("  %-20s OK\n", name)
			}
			if failed {
				return errors.New("parameter set is incomplete for some variants")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "parameter file (default $"+config.EnvParamFile+", else built-in)")
	cmd.Flags().StringVar(&write, "write", "", "save the loaded set to this path")
	return cmd
}
