package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-edxd/scan"
)

// NewSynthCmd creates the synth command.
func NewSynthCmd() *cobra.Command {
	c := scan.DefaultSynthConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic scan with known strain",
		Long: `Synth writes a scan dataset whose spectra hold Gaussian peaks shifted by a
known strain harmonic. The unused detector carries background only, as on
the instrument.`,
		Example: `  edxdstrain synth --out scan.json
  edxdstrain synth --out noisy.json --shape 10,10 --noise 2 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(c.Shape) != len(c.Dims) {
				c.Dims = defaultDims(len(c.Shape))
			}
			ds, err := scan.Synthesize(c)
			if err != nil {
				return err
			}
			if err := scan.Save(out, ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %v points × %d detectors × %d bins\n",
				out, ds.ScanShape(), ds.Detectors(), c.Bins)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output dataset (JSON)")
	cmd.Flags().IntSliceVar(&c.Shape, "shape", c.Shape, "Scan grid shape")
	cmd.Flags().Float64SliceVar(&c.Q0, "q0", c.Q0, "Nominal peak centres")
	cmd.Flags().IntVar(&c.Bins, "bins", c.Bins, "Spectrum length")
	cmd.Flags().Float64Var(&c.Noise, "noise", c.Noise, "Gaussian noise standard deviation")
	cmd.Flags().Int64Var(&c.Seed, "seed", c.Seed, "Noise seed")
	cmd.Flags().Float64Var(&c.Amplitude, "amplitude", c.Amplitude, "Strain amplitude at the grid origin")
	cmd.Flags().Float64Var(&c.Offset, "offset", c.Offset, "Mean strain at the grid origin")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func defaultDims(n int) []string {
	names := []string{"ss2_x", "ss2_y", "ss2_z"}
	out := make([]string, n)
	for i := range out {
		if i < len(names) {
			out[i] = names[i]
		} else {
			out[i] = fmt.Sprintf("ss2_a%d", i)
		}
	}
	return out
}
