package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/report"
	"github.com/cwbudde/algo-edxd/store"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	var db, run string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a Markdown summary of a stored run",
		Long:  `Report summarises a run from the result database. Without --run the newest run is used.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(db)
			if err != nil {
				return err
			}
			defer st.Close()

			s, err := storedSummary(cmd.Context(), st, run)
			if err != nil {
				return err
			}
			return report.Markdown(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "Result database")
	cmd.Flags().StringVar(&run, "run", "", "Run id (default newest)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// storedSummary rebuilds a report summary from a stored run.
func storedSummary(ctx context.Context, st *store.Store, id string) (report.Summary, error) {
	if id == "" {
		runs, err := st.Runs(ctx)
		if err != nil {
			return report.Summary{}, err
		}
		if len(runs) == 0 {
			return report.Summary{}, fmt.Errorf("%w: no runs in %s", store.ErrNotFound, st.Path())
		}
		id = runs[0].ID
	}
	r, err := st.Run(ctx, id)
	if err != nil {
		return report.Summary{}, err
	}

	arrays := make(map[string]*core.Array)
	for _, name := range []string{"peak_windows", "peaks", "strain", "strain_param"} {
		e, err := st.Load(ctx, id, name)
		if err != nil {
			return report.Summary{}, err
		}
		if e.Array == nil {
			return report.Summary{}, fmt.Errorf("%w: %s is not numeric", store.ErrCorrupt, name)
		}
		arrays[name] = e.Array
	}

	shape := arrays["peaks"].Shape()
	if len(shape) < 2 {
		return report.Summary{}, fmt.Errorf("%w: peaks shape %v", store.ErrCorrupt, shape)
	}
	return report.Summary{
		Source:             r.Source,
		RunID:              r.ID,
		Points:             core.ShapeLen(shape[:len(shape)-2]),
		Detectors:          shape[len(shape)-2],
		PeakFits:           r.PeakFits,
		PeakFailures:       r.PeakFailures,
		Unconverged:        r.Unconverged,
		ErrorLimitExceeded: r.ErrorLimitExceeded,
		RingFits:           r.RingFits,
		RingFailures:       r.RingFailures,
		InsufficientRings:  r.InsufficientRings,
		Peaks:              report.PeakSummaries(arrays["peak_windows"], arrays["peaks"], arrays["strain"], arrays["strain_param"]),
	}, nil
}
