// Package report renders a reduction summary as Markdown.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/nanstat"
	"github.com/cwbudde/algo-edxd/pipeline"
	"github.com/cwbudde/algo-edxd/strain"
)

// Summary is the content of a reduction report.
type Summary struct {
	Source string
	RunID  string

	Points    int
	Detectors int

	PeakFits           int
	PeakFailures       int
	Unconverged        int
	ErrorLimitExceeded int

	RingFits          int
	RingFailures      int
	InsufficientRings int

	Peaks []PeakSummary
}

// PeakSummary aggregates one peak over the scan.
type PeakSummary struct {
	Low, High float64
	// Fitted counts spectra with a finite centre.
	Fitted int
	// MeanStrain is the NaN-ignoring mean strain over all spectra.
	MeanStrain float64
	// MeanOffset and MeanAmplitude average the full-ring parameters.
	MeanOffset    float64
	MeanAmplitude float64
}

// FromResult summarises a pipeline result.
func FromResult(source, runID string, res *pipeline.Result) Summary {
	shape := res.Peaks.Centers.Shape()
	s := Summary{
		Source:             source,
		RunID:              runID,
		Points:             core.ShapeLen(shape[:len(shape)-2]),
		Detectors:          shape[len(shape)-2],
		PeakFits:           res.Peaks.Attempted,
		PeakFailures:       res.Peaks.FailureCount(),
		Unconverged:        res.Peaks.Unconverged(),
		ErrorLimitExceeded: res.Peaks.ErrorLimitExceeded(),
		RingFits:           res.Ring.Attempted,
		RingFailures:       res.Ring.FailureCount(),
		InsufficientRings:  res.Ring.Count(strain.ErrInsufficientSamples),
	}
	w, _ := res.Field("peak_windows")
	s.Peaks = PeakSummaries(w.Array, res.Peaks.Centers, res.Strain.Strain, res.Ring.Params)
	return s
}

// PeakSummaries aggregates per-peak statistics from the stored arrays:
// windows (P × 2), peaks and strain (scan × detector × P) and params
// (scan × P × 3).
func PeakSummaries(windows, peaks, strainArr, params *core.Array) []PeakSummary {
	nPeaks := windows.Shape()[0]
	out := make([]PeakSummary, nPeaks)

	for p := range out {
		out[p].Low = windows.At(p, 0)
		out[p].High = windows.At(p, 1)
		out[p].Fitted = nanstat.Count(strided(peaks.Data(), p, nPeaks))
		out[p].MeanStrain = nanstat.Mean(strided(strainArr.Data(), p, nPeaks))

		k := nPeaks * strain.NumParams
		out[p].MeanOffset = nanstat.Mean(strided(params.Data(), p*strain.NumParams, k))
		out[p].MeanAmplitude = nanstat.Mean(strided(params.Data(), p*strain.NumParams+1, k))
	}
	return out
}

// Markdown writes s to w.
func Markdown(w io.Writer, s Summary) error {
	pr := message.NewPrinter(language.English)
	count := func(n int) string { return pr.Sprintf("%d", n) }

	md := markdown.NewMarkdown(w)
	md.H1("EDXD Strain Reduction")
	md.PlainText("")

	rows := [][]string{}
	if s.Source != "" {
		rows = append(rows, []string{"Input", "`" + s.Source + "`"})
	}
	if s.RunID != "" {
		rows = append(rows, []string{"Run", "`" + s.RunID + "`"})
	}
	rows = append(rows,
		[]string{"Acquisition points", count(s.Points)},
		[]string{"Detectors", count(s.Detectors)},
		[]string{"Peaks", count(len(s.Peaks))},
	)
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	md.H2("Peak Fits")
	md.PlainText("")
	other := s.PeakFailures - s.Unconverged - s.ErrorLimitExceeded
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Converged", count(s.PeakFits - s.PeakFailures)},
			{"Did not converge", count(s.Unconverged)},
			{"Error limit exceeded", count(s.ErrorLimitExceeded)},
			{"Insufficient data", count(other)},
			{"**Total**", "**" + count(s.PeakFits) + "**"},
		},
	})
	md.PlainText("")
	if s.PeakFailures > 0 {
		chart := piechart.NewPieChart(io.Discard, piechart.WithTitle("Peak fit outcomes"), piechart.WithShowData(true))
		chart.LabelAndIntValue("Converged", uint64(s.PeakFits-s.PeakFailures))
		for _, kv := range []struct {
			label string
			n     int
		}{{"Did not converge", s.Unconverged}, {"Error limit", s.ErrorLimitExceeded}, {"Insufficient data", other}} {
			if kv.n > 0 {
				chart.LabelAndIntValue(kv.label, uint64(kv.n))
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	md.H2("Full Ring Fits")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Fitted", count(s.RingFits - s.RingFailures)},
			{"Fewer than 3 detectors", count(s.InsufficientRings)},
			{"Did not converge", count(s.RingFailures - s.InsufficientRings)},
			{"**Total**", "**" + count(s.RingFits) + "**"},
		},
	})
	md.PlainText("")
	switch {
	case s.RingFits > 0 && s.RingFailures == s.RingFits:
		md.Cautionf("No full ring fit succeeded (%s attempted).", count(s.RingFits))
	case s.RingFailures > 0:
		md.Warningf("Unable to fit full ring data for %s of %s points.", count(s.RingFailures), count(s.RingFits))
	default:
		md.Tip("Every full ring fit converged.")
	}
	md.PlainText("")

	md.H2("Peaks")
	md.PlainText("")
	prows := make([][]string, len(s.Peaks))
	for i, p := range s.Peaks {
		prows[i] = []string{
			count(i),
			fmt.Sprintf("[%.4f, %.4f]", p.Low, p.High),
			count(p.Fitted),
			formatStrain(p.MeanStrain),
			formatStrain(p.MeanOffset),
			formatStrain(p.MeanAmplitude),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Peak", "Window", "Fitted", "Mean strain", "Mean offset", "Mean amplitude"},
		Rows:   prows,
	})

	return md.Build()
}

// strided returns data[start], data[start+stride], ...
func strided(data []float64, start, stride int) []float64 {
	v := make([]float64, 0, len(data)/stride+1)
	for i := start; i < len(data); i += stride {
		v = append(v, data[i])
	}
	return v
}

func formatStrain(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3e", v)
}
