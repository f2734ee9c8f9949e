package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-edxd/peak/shape"
	"github.com/cwbudde/algo-edxd/pipeline"
	"github.com/cwbudde/algo-edxd/store"
)

// NewFieldsCmd creates the fields command.
func NewFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the persisted result fields in write order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range pipeline.FieldNames {
				fmt.Fprintln(cmd.OutOrStdout(), store.FieldRoot+name)
			}
		},
	}
}

// NewModelsCmd creates the models command.
func NewModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the available peak-shape models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Model\tParameters\n")
			fmt.Fprintf(tw, "-----\t----------\n")
			for _, name := range shape.Names() {
				m, err := shape.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\n", m.Name(), m.NumParams())
			}
			return tw.Flush()
		},
	}
}

// NewRunsCmd creates the runs command.
func NewRunsCmd() *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the runs stored in a result database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(db)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.Runs(cmd.Context())
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "Result database")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func printRuns(w io.Writer, runs []store.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run\tCreated\tSource\tPeak fits\tFailed\tRing fits\tFailed\n")
	fmt.Fprintf(tw, "---\t-------\t------\t---------\t------\t---------\t------\n")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.Created.Format("2006-01-02 15:04:05"), r.Source,
			r.PeakFits, r.PeakFailures, r.RingFits, r.RingFailures)
	}
	return tw.Flush()
}
