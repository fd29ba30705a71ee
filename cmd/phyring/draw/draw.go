// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw implements a command to draw
// a circular phylogenetic tree
// with a presence-absence annotation ring.
package draw

import (
	"path/filepath"
	"strings"

	"github.com/js-arias/command"

	"github.com/islandkit/phyring/align"
	"github.com/islandkit/phyring/figure"
)

var Command = &command.Command{
	Usage: `draw [--drop-version]
	[--open <degrees>] [--rotate <degrees>]
	[--scale <value>] [--line <points>]
	[--offset <points>] [--width <points>]
	[--min-match <value>]
	[-o|--output <out-file>]
	<tree-file> <matrix-file>`,
	Short: "draw an annotated circular tree",
	Long: `
Command draw reads a phylogenetic tree in newick format and a
presence-absence matrix (TSV, or CSV by file extension), and draws the
midpoint-rooted, ladderized tree in circular layout with a concentric
ring showing the presence of each trait in each genome. The result is
written as an SVG file.

The arguments of the command are the tree file and the matrix file, in
that order.

The tips of the tree are matched with the matrix rows by normalized
genome accession. With the flag --drop-version, assembly version
suffixes (e.g. ".1" in "GCF_000123456.1") are removed on both sides, so
different versions of the same assembly count as the same genome. If
less than the fraction given by --min-match (default 0.95) of the tips
is found in the matrix, or if no trait is present in any matched
genome, the command aborts: such a figure would be silently wrong.
Duplicated keys are reported as warnings in the standard error.

By default, a 10 degree opening wedge is removed from the circle; use
the flag --open to change it, and --rotate to move the opening from its
default position at the top. The flag --scale multiplies every branch
length, changing the radius of the tree inside the ring; --line sets
the branch stroke width; --offset and --width set the placement of the
ring tracks, in points.

By default, the output file is named after the tree file, with an .svg
extension. Use the flag -o, or --output, to set the output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var dropVersion bool
var openAngle float64
var rotateDeg float64
var scaleFlag float64
var lineSize float64
var ringOffset float64
var ringWidth float64
var minMatch float64
var output string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&dropVersion, "drop-version", false, "")
	c.Flags().Float64Var(&openAngle, "open", 0, "")
	c.Flags().Float64Var(&rotateDeg, "rotate", 0, "")
	c.Flags().Float64Var(&scaleFlag, "scale", 1, "")
	c.Flags().Float64Var(&lineSize, "line", 0, "")
	c.Flags().Float64Var(&ringOffset, "offset", 0, "")
	c.Flags().Float64Var(&ringWidth, "width", 0, "")
	c.Flags().Float64Var(&minMatch, "min-match", align.DefaultGates.MinMatch, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 2 {
		return c.UsageError("expecting tree and matrix files")
	}

	out := output
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".svg"
	}

	cfg := figure.Config{
		TreeFile:     args[0],
		MatrixFile:   args[1],
		Output:       out,
		DropVersion:  dropVersion,
		RadiusScale:  scaleFlag,
		OpenAngle:    openAngle,
		Rotate:       rotateDeg,
		TreeLineSize: lineSize,
		RingOffset:   ringOffset,
		RingWidth:    ringWidth,
		Gates: align.Gates{
			MinMatch:        minMatch,
			RequirePresence: true,
		},
	}
	return figure.Run(cfg, c.Stderr())
}
