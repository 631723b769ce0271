package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/san-kum/flightctl/internal/logging"
	"github.com/san-kum/flightctl/internal/storage"
)

var (
	dataDir  string
	logLevel string
	logFile  string
	devLogs  bool

	log   = logr.Discard()
	flush = func() {}
)

// main registers the commands and exits with status 1 when the selected
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "flightctl",
		Short:         "multirotor flight controller lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts := logging.DefaultOptions()
			opts.Level = logLevel
			opts.File = logFile
			opts.Development = devLogs
			l, f, err := logging.New(opts)
			if err != nil {
				return err
			}
			log, flush = l, f
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) { flush() },
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flightctl", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this rotated file")
	rootCmd.PersistentFlags().BoolVar(&devLogs, "dev", false, "human readable colored logs")

	rootCmd.AddCommand(
		newRunCmd(), newLiveCmd(), newVariantsCmd(), newPresetsCmd(), newParamsCmd(),
		newListCmd(), newPlotCmd(), newExportCmd(), newExportCSVCmd(), newPNGCmd(),
		newEvaluateCmd(), newFreqCmd(), newTuneCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		flush()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openRun resolves "latest" to the newest run and loads its metadata.
func openRun(id string) (*storage.Store, *storage.RunMetadata, error) {
	st := storage.New(dataDir)
	if id == "" || id == "latest" {
		latest, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		id = latest
	}
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	return st, meta, nil
}

func runArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
