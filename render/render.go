// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package render draws a circular phylogenetic tree
// with a concentric categorical annotation ring.
//
// Drawing runs as a three stage machine:
// layout,
// ring overlay,
// and finalize.
// The ring overlay has a single designed recovery:
// if the backend cannot draw the ring column headers,
// the ring is drawn without them
// and the headers are reconstructed as tick-style labels.
// Failures in layout or finalize are fatal.
package render

import (
	"fmt"
	"io"

	"github.com/islandkit/phyring/phytree"
	"github.com/islandkit/phyring/ring"
)

// Config are the drawing parameters of a figure.
// The zero value of a field selects its default.
type Config struct {
	// Angular opening wedge,
	// in degrees removed from the full circle.
	OpenAngle float64

	// Rotation of the whole figure,
	// in degrees clockwise from north;
	// the opening is centered at this position.
	Rotate float64

	// Stroke width of the tree branches,
	// in points.
	TreeLineSize float64

	// Radial gap between the tree and the ring,
	// in points.
	RingOffset float64

	// Radial width of each ring track,
	// in points.
	RingWidth float64

	// Angle, font size, and outward push
	// of the ring column headers.
	HeaderAngle  float64
	HeaderSize   float64
	HeaderOffset float64

	// Reference root-to-tip path length
	// mapped to the full tree radius.
	// With a reference taken before branch rescaling,
	// a rescaled tree shrinks or grows inside the ring.
	// If zero,
	// the longest path of the drawn tree is used.
	RefDepth float64
}

func (c Config) withDefaults() Config {
	if c.OpenAngle == 0 {
		c.OpenAngle = 10
	}
	if c.TreeLineSize == 0 {
		c.TreeLineSize = 1
	}
	if c.RingOffset == 0 {
		c.RingOffset = 10
	}
	if c.RingWidth == 0 {
		c.RingWidth = 14
	}
	if c.HeaderAngle == 0 {
		c.HeaderAngle = 45
	}
	if c.HeaderSize == 0 {
		c.HeaderSize = 10
	}
	if c.HeaderOffset == 0 {
		c.HeaderOffset = 2
	}
	return c
}

// A Drawer is a rendering capability.
// Render drives a Drawer through the drawing stages;
// implementations only know how to put
// each piece on its canvas.
type Drawer interface {
	// Layout draws the tree in circular layout,
	// with the angular opening removed
	// and the remainder of the circle
	// distributed among the tips.
	Layout(t *phytree.Tree, cfg Config) error

	// Ring draws the annotation ring,
	// with or without column headers.
	// Calling Ring discards
	// any previously drawn ring.
	Ring(enc *ring.Encoding, cfg Config, headers bool) error

	// HeaderTicks draws the ring column headers
	// as plain rotated tick labels.
	// It is the fallback for Ring with headers.
	HeaderTicks(enc *ring.Encoding, cfg Config) error

	// Finalize writes the finished figure,
	// free of any chart decoration.
	Finalize(w io.Writer) error
}

// Render draws the figure with the given drawer,
// writing the result to out
// and run diagnostics to log.
//
// A failed ring-with-headers call
// is retried exactly once without headers,
// followed by HeaderTicks;
// any other failure aborts the run.
func Render(d Drawer, t *phytree.Tree, enc *ring.Encoding, cfg Config, out, log io.Writer) error {
	if log == nil {
		log = io.Discard
	}
	cfg = cfg.withDefaults()

	if err := d.Layout(t, cfg); err != nil {
		return fmt.Errorf("render: layout: %v", err)
	}

	if err := d.Ring(enc, cfg, true); err != nil {
		fmt.Fprintf(log, "render: ring headers: %v: falling back to tick labels\n", err)
		if err := d.Ring(enc, cfg, false); err != nil {
			return fmt.Errorf("render: ring fallback: %v", err)
		}
		if err := d.HeaderTicks(enc, cfg); err != nil {
			return fmt.Errorf("render: ring fallback: %v", err)
		}
	} else {
		fmt.Fprintf(log, "render: ring drawn on the primary path\n")
	}

	if err := d.Finalize(out); err != nil {
		return fmt.Errorf("render: finalize: %v", err)
	}
	return nil
}
