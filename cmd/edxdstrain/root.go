package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-edxd/internal/log"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var (
		verbose bool
		logJSON bool
	)

	cmd := &cobra.Command{
		Use:   "edxdstrain",
		Short: "Reduce EDXD diffraction scans to strain",
		Long: `edxdstrain fits diffraction peaks in every detector spectrum of an EDXD scan,
converts the peak shifts to strain and fits the azimuthal strain variation
around the detector ring. Results are stored in a SQLite database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if logJSON {
				slog.SetDefault(log.NewJSON(cmd.ErrOrStderr(), verbose))
				return
			}
			slog.SetDefault(log.New(cmd.ErrOrStderr(), verbose))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewReduceCmd())
	cmd.AddCommand(NewSynthCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewFieldsCmd())
	cmd.AddCommand(NewModelsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
