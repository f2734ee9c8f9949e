package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-edxd/fit"
	"github.com/cwbudde/algo-edxd/internal/config"
	"github.com/cwbudde/algo-edxd/pipeline"
	"github.com/cwbudde/algo-edxd/report"
	"github.com/cwbudde/algo-edxd/scan"
	"github.com/cwbudde/algo-edxd/store"
	"github.com/cwbudde/algo-edxd/strain"
)

type reduceFlags struct {
	config  string
	input   string
	db      string
	report  bool
	xdg     bool
	workers int
}

// NewReduceCmd creates the reduce command.
func NewReduceCmd() *cobra.Command {
	var f reduceFlags

	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Fit peaks and strain for a scan and store the results",
		Long: `Reduce loads a scan, removes the unused detector, fits every peak window
in every spectrum, computes strain and fits the full-ring harmonic per scan
point. The input and all derived fields are written to a new run in the
result database.

The run configuration is read from --config, or from run.yaml, run.yml or
run.toml in the working directory or the user configuration directory.`,
		Example: `  edxdstrain reduce --config run.yaml --input scan.json
  edxdstrain reduce --input scan.json --db results.db --report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReduce(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.config, "config", "c", "", "Run configuration (YAML or TOML)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Scan dataset (JSON)")
	cmd.Flags().StringVar(&f.db, "db", "", "Result database (default <input>_md.db)")
	cmd.Flags().BoolVar(&f.report, "report", false, "Print a Markdown summary")
	cmd.Flags().BoolVar(&f.xdg, "xdg", false, "Write the database to the user data directory")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Fitting goroutines (overrides the configuration)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runReduce(cmd *cobra.Command, f reduceFlags) error {
	path, err := config.Find(f.config)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	def, err := cfg.Definition()
	if err != nil {
		return err
	}
	fitOpts, err := cfg.FitOptions()
	if err != nil {
		return err
	}

	raw, err := scan.Load(f.input)
	if err != nil {
		return err
	}
	ds, err := raw.Prepare(*cfg.UnusedDetector, cfg.Phi)
	if err != nil {
		return fmt.Errorf("%s: %w", f.input, err)
	}

	logger := slog.Default().With("input", f.input)
	logger.Info("reducing scan",
		"acquisition_points", ds.Points(),
		"detectors", ds.Detectors(),
		"dims", ds.Dims,
	)

	res, err := pipeline.Run(cmd.Context(), ds, def, cfg.Window, pipeline.Options{
		Fit:  append(fitOpts, fit.WithLogger(logger)),
		Ring: []strain.Option{strain.WithWorkers(cfg.Workers), strain.WithLogger(logger)},
	})
	if err != nil {
		return err
	}

	dbPath := f.db
	switch {
	case dbPath != "":
	case f.xdg:
		dbPath = filepath.Join(config.XDGDataDir(), filepath.Base(cfg.OutputPath(f.input)))
	default:
		dbPath = cfg.OutputPath(f.input)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Save(cmd.Context(), f.input, raw, res)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s saved to %s\n", id, dbPath)
	fmt.Fprintf(out, "peak fits: %d failed of %d; full ring fits: %d failed of %d\n",
		res.Peaks.FailureCount(), res.Peaks.Attempted, res.Ring.FailureCount(), res.Ring.Attempted)

	if f.report {
		fmt.Fprintln(out)
		return report.Markdown(out, report.FromResult(f.input, id, res))
	}
	return nil
}
