// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package ring encodes an aligned presence-absence matrix
// as the categorical annotation ring of a circular tree:
// traits ordered by prevalence,
// each cell carrying either the absence sentinel
// or the trait's own name,
// and a trait-color bijection
// used both to paint the ring
// and to build the legend.
package ring

import (
	"image/color"
	"slices"
	"sort"

	"github.com/js-arias/blind"
)

// AbsentGrey is the default color
// of the absence sentinel.
// It is picked outside the trait palette.
var AbsentGrey = color.RGBA{211, 211, 211, 255}

// An Encoding is the categorical ring of a figure:
// the trait order,
// the cell values,
// and the trait-color assignment.
type Encoding struct {
	traits []string
	colors map[string]color.RGBA
	absent color.RGBA
	cells  [][]string
}

// Encode builds the ring encoding
// of an aligned matrix:
// rows in tree tip order,
// columns in the given trait order.
// Traits are reordered by descending prevalence,
// ties keeping the original column order,
// so the most common traits
// sit nearest to the tree.
// If absent has zero alpha,
// AbsentGrey is used.
func Encode(traits []string, rows [][]bool, absent color.RGBA) *Encoding {
	if absent.A == 0 {
		absent = AbsentGrey
	}

	prev := make([]int, len(traits))
	for _, row := range rows {
		for i, p := range row {
			if p {
				prev[i]++
			}
		}
	}

	order := make([]int, len(traits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return prev[order[i]] > prev[order[j]]
	})

	ordered := make([]string, len(traits))
	for i, c := range order {
		ordered[i] = traits[c]
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(order))
		for i, c := range order {
			if row[c] {
				cells[r][i] = traits[c]
			}
		}
	}

	pal := Palette(len(ordered), absent)
	colors := make(map[string]color.RGBA, len(ordered))
	for i, tr := range ordered {
		colors[tr] = pal[i]
	}

	return &Encoding{
		traits: ordered,
		colors: colors,
		absent: absent,
		cells:  cells,
	}
}

// Palette returns n distinct colors
// drawn from a color-blind safe scheme,
// none of them equal to the absence color.
func Palette(n int, absent color.RGBA) []color.RGBA {
	pal := make([]color.RGBA, 0, n)
	seen := map[color.RGBA]bool{absent: true}
	for i := 0; i < n; i++ {
		pos := 0.5
		if n > 1 {
			pos = float64(i) / float64(n-1)
		}
		c := blind.Sequential(blind.Iridescent, pos)
		for seen[c] {
			c = nextColor(c)
		}
		seen[c] = true
		pal = append(pal, c)
	}
	return pal
}

// NextColor returns the next color in the RGB cube,
// wrapping around at white,
// so a collision run always reaches an unseen color.
func nextColor(c color.RGBA) color.RGBA {
	c.R++
	if c.R == 0 {
		c.G++
		if c.G == 0 {
			c.B++
		}
	}
	return c
}

// Traits returns the traits in ring order
// (most prevalent first).
func (e *Encoding) Traits() []string {
	return slices.Clone(e.traits)
}

// Color returns the color assigned to a trait.
func (e *Encoding) Color(trait string) (color.RGBA, bool) {
	c, ok := e.colors[trait]
	return c, ok
}

// Absent returns the color of the absence sentinel.
func (e *Encoding) Absent() color.RGBA {
	return e.absent
}

// Cells returns the ring cells,
// one row per tip in tree order,
// one column per trait in ring order.
// An empty string is the absence sentinel;
// any other value is the trait's own name.
func (e *Encoding) Cells() [][]string {
	cells := make([][]string, len(e.cells))
	for i, r := range e.cells {
		cells[i] = slices.Clone(r)
	}
	return cells
}
