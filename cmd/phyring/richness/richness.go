// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package richness implements a command to plot
// the number of traits per genome
// in a presence-absence matrix.
package richness

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/js-arias/command"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/islandkit/phyring/presence"
)

var Command = &command.Command{
	Usage: `richness [--drop-version]
	[-o|--output <out-file>]
	<matrix-file>`,
	Short: "plot the number of traits per genome",
	Long: `
Command richness reads a presence-absence matrix (TSV, or CSV by file
extension) and draws a bar plot of the number of genomes carrying each
number of traits.

The argument of the command is the matrix file.

With the flag --drop-version, assembly version suffixes are removed, so
different versions of the same assembly count as the same genome.

By default, the plot is written to "richness.png". Use the flag -o, or
--output, to set the output file; the image format is taken from the
file extension.

A quantile summary of the traits-per-genome distribution is printed to
the standard error.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var dropVersion bool
var output string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&dropVersion, "drop-version", false, "")
	c.Flags().StringVar(&output, "output", "richness.png", "")
	c.Flags().StringVar(&output, "o", "richness.png", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting matrix file")
	}

	m, err := presence.ReadFile(args[0], dropVersion)
	if err != nil {
		return err
	}

	counts := traitCounts(m)
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}

	genomes := make([]float64, max+1)
	sorted := make([]float64, 0, len(counts))
	weights := make([]float64, 0, len(counts))
	for _, n := range counts {
		genomes[n]++
		weights = append(weights, 1)
	}
	for n := 0; n <= max; n++ {
		for i := 0; i < int(genomes[n]); i++ {
			sorted = append(sorted, float64(n))
		}
	}

	for _, q := range []float64{0.25, 0.5, 0.75} {
		v := stat.Quantile(q, stat.Empirical, sorted, weights)
		fmt.Fprintf(c.Stderr(), "richness: q%.0f: %.1f traits per genome\n", q*100, v)
	}

	if err := makePlot(genomes); err != nil {
		return err
	}
	fmt.Fprintf(c.Stderr(), "richness: wrote %q\n", output)
	return nil
}

// TraitCounts returns the number of present traits
// in each genome of the matrix.
func traitCounts(m *presence.Matrix) []int {
	accs := m.Accessions()
	counts := make([]int, 0, len(accs))
	for _, acc := range accs {
		row, _ := m.Row(acc)
		n := 0
		for _, p := range row {
			if p {
				n++
			}
		}
		counts = append(counts, n)
	}
	return counts
}

func makePlot(genomes []float64) error {
	p := plot.New()
	p.X.Label.Text = "traits per genome"
	p.Y.Label.Text = "genomes"

	bars, err := plotter.NewBarChart(plotter.Values(genomes), vg.Points(20))
	if err != nil {
		return fmt.Errorf("while building chart: %v", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.Gray{120}
	p.Add(bars)

	names := make([]string, len(genomes))
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	p.NominalX(names...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, output); err != nil {
		return err
	}
	return nil
}
