// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package figure runs the whole drawing pipeline:
// it reads a newick tree
// and a presence-absence matrix,
// joins them,
// and writes the annotated circular tree
// as an SVG file.
//
// The pipeline is a single synchronous pass
// over in-memory data;
// all configuration is a plain struct.
package figure

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/islandkit/phyring/align"
	"github.com/islandkit/phyring/phytree"
	"github.com/islandkit/phyring/presence"
	"github.com/islandkit/phyring/render"
	"github.com/islandkit/phyring/ring"
)

// Config are the inputs and parameters
// of a single figure run.
// Zero valued fields take their defaults.
type Config struct {
	// Input newick tree file.
	TreeFile string

	// Input presence-absence matrix file,
	// TSV or CSV by file extension.
	MatrixFile string

	// Output SVG file.
	Output string

	// Remove assembly version suffixes
	// before matching identifiers.
	DropVersion bool

	// Branch length multiplier
	// (1 if unset);
	// changes the rendered tree radius only.
	RadiusScale float64

	// Drawing parameters,
	// as in the render package.
	OpenAngle    float64
	Rotate       float64
	TreeLineSize float64
	RingOffset   float64
	RingWidth    float64
	HeaderAngle  float64
	HeaderSize   float64
	HeaderOffset float64

	// Color of the absence sentinel
	// (a light grey if unset).
	Absent color.RGBA

	// Data-quality gates.
	// The zero value means unset
	// and selects align.DefaultGates;
	// to run without any gate,
	// set a negative MinMatch
	// instead of leaving the struct empty.
	Gates align.Gates
}

// Run draws the figure described by cfg,
// writing diagnostics to log.
// On any fatal condition the run aborts
// and no output file is written.
func Run(cfg Config, log io.Writer) error {
	if log == nil {
		log = io.Discard
	}
	if cfg.Output == "" {
		return errors.New("figure: undefined output file")
	}

	t, err := phytree.ReadNewickFile(cfg.TreeFile, cfg.DropVersion)
	if err != nil {
		return fmt.Errorf("figure: %v", err)
	}
	t.Midpoint()
	t.Ladderize()

	// reference depth before rescaling,
	// so the scale factor shows up in the drawing
	ref := t.MaxDepth()
	if cfg.RadiusScale > 0 && cfg.RadiusScale != 1 {
		t.Scale(cfg.RadiusScale)
	}

	m, err := presence.ReadFile(cfg.MatrixFile, cfg.DropVersion)
	if err != nil {
		return fmt.Errorf("figure: %v", err)
	}

	tips := t.Tips()
	reportDuplicates(log, tips)

	a := align.Align(tips, m)
	fmt.Fprintf(log, "alignment: %d tips, %d traits, match rate %.4f\n", len(tips), len(a.Traits()), a.MatchRate())

	gates := cfg.Gates
	if gates == (align.Gates{}) {
		gates = align.DefaultGates
	}
	if err := a.Check(gates); err != nil {
		return fmt.Errorf("figure: %v", err)
	}
	fmt.Fprintf(log, "alignment: data-quality gates passed\n")

	enc := ring.Encode(a.Traits(), a.Rows(), cfg.Absent)

	rCfg := render.Config{
		OpenAngle:    cfg.OpenAngle,
		Rotate:       cfg.Rotate,
		TreeLineSize: cfg.TreeLineSize,
		RingOffset:   cfg.RingOffset,
		RingWidth:    cfg.RingWidth,
		HeaderAngle:  cfg.HeaderAngle,
		HeaderSize:   cfg.HeaderSize,
		HeaderOffset: cfg.HeaderOffset,
		RefDepth:     ref,
	}

	// draw in memory first,
	// so an aborted render never leaves
	// a partial output file
	var buf bytes.Buffer
	if err := render.Render(render.NewSVG(), t, enc, rCfg, &buf, log); err != nil {
		return fmt.Errorf("figure: %v", err)
	}

	if err := writeFile(cfg.Output, &buf); err != nil {
		return fmt.Errorf("figure: %v", err)
	}
	fmt.Fprintf(log, "figure: wrote %q\n", cfg.Output)
	return nil
}

func reportDuplicates(log io.Writer, tips []*phytree.Node) {
	dups := align.Duplicates(tips)
	keys := make([]string, 0, len(dups))
	for k := range dups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(log, "warning: key %q claimed by tips: %s\n", k, strings.Join(dups[k], ", "))
	}
}

func writeFile(name string, buf *bytes.Buffer) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if _, err := buf.WriteTo(f); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}
