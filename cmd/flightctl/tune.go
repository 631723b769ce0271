package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/flightctl/internal/config"
	"github.com/san-kum/flightctl/internal/experiment"
	"github.com/san-kum/flightctl/internal/optim"
)

func newTuneCmd() *cobra.Command {
	var (
		flags  scenarioFlags
		grid   []string
		metric string
		top    int
		write  string
	)
	cmd := &cobra.Command{
		Use:   "tune [variant]",
		Short: "grid search controller parameters against a run metric",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := optim.ParseGrid(grid)
			if err != nil {
				return err
			}
			g.Workers = runtime.NumCPU()

			base, err := flags.experiment(cmd, runArg(args), log)
			if err != nil {
				return err
			}
			build := func(overrides config.Params) (*experiment.Experiment, error) {
				return experiment.New(base.Scenario, base.Params.Merge(overrides), experiment.WithPreset(base.Preset))
			}

			n := len(g.Candidates())
			log.Info("tuning", "variant", base.Variant.Name, "candidates", n, "metric", metric)
			fmt.Printf("evaluating %d candidates of %s by %s...\n\n", n, base.Variant.Name, metric)
			best, trials, err := g.Search(cmd.Context(), build, metric)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tSCORE\tPARAMS")
			for i, t := range trials {
				if i == top {
					break
				}
				score := fmt.Sprintf("%.6f", t.Score)
				if t.Err != nil {
					score = "failed"
				}
				fmt.Fprintf(w, "%d\t%s\t%v\n", i+1, score, map[string]float64(t.Params))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if write != "" {
				if err := config.SaveParams(write, base.Params.Merge(best.Params)); err != nil {
					return err
				}
				fmt.Printf("\nwrote tuned parameters to %s\n", write)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&grid, "grid", nil, "search axis NAME=v1,v2,... (repeatable)")
	cmd.Flags().StringVar(&metric, "metric", "altitude_rms", "run metric to minimize")
	cmd.Flags().IntVar(&top, "top", 10, "rows to print")
	cmd.Flags().StringVar(&write, "write", "", "save the best parameter set to this path")
	_ = cmd.MarkFlagRequired("grid")
	return cmd
}
