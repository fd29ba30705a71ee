// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package align joins the tips of a phylogenetic tree
// with the rows of a presence-absence matrix,
// preserving the tree tip order,
// and checks the quality of the join:
// a silently mis-joined figure
// is worse than a crashed run.
package align

import (
	"fmt"
	"slices"

	"github.com/islandkit/phyring/phytree"
	"github.com/islandkit/phyring/presence"
)

// An Aligned matrix has one row per tree tip,
// identified by its raw label,
// in tree traversal order,
// and one boolean column per trait.
// Tips without a matching matrix row
// have all-false rows:
// absence of data is itself a meaningful signal,
// not an error.
type Aligned struct {
	labels  []string
	traits  []string
	rows    [][]bool
	matched int
}

// Align joins the given tree tips,
// in order,
// with a presence-absence matrix,
// looking up each tip by its normalized key.
func Align(tips []*phytree.Node, m *presence.Matrix) *Aligned {
	traits := m.Traits()
	a := &Aligned{
		labels: make([]string, 0, len(tips)),
		traits: traits,
		rows:   make([][]bool, 0, len(tips)),
	}

	for _, tip := range tips {
		a.labels = append(a.labels, tip.Label)
		row, ok := m.Row(tip.Key)
		if !ok {
			row = make([]bool, len(traits))
		} else {
			a.matched++
		}
		a.rows = append(a.rows, row)
	}
	return a
}

// Labels returns the raw tip labels,
// in tree traversal order.
func (a *Aligned) Labels() []string {
	return slices.Clone(a.labels)
}

// Traits returns the trait columns,
// in the original matrix column order.
func (a *Aligned) Traits() []string {
	return slices.Clone(a.traits)
}

// Rows returns the aligned presence values,
// one row per tip in tree order,
// one column per trait.
func (a *Aligned) Rows() [][]bool {
	rows := make([][]bool, len(a.rows))
	for i, r := range a.rows {
		rows[i] = slices.Clone(r)
	}
	return rows
}

// MatchRate returns the fraction of tips
// with a matching matrix row.
func (a *Aligned) MatchRate() float64 {
	if len(a.rows) == 0 {
		return 0
	}
	return float64(a.matched) / float64(len(a.rows))
}

// AnyPresent returns true if at least one trait
// is present in at least one aligned row.
func (a *Aligned) AnyPresent() bool {
	for _, row := range a.rows {
		for _, p := range row {
			if p {
				return true
			}
		}
	}
	return false
}

// Gates are the data-quality stop conditions
// checked after an alignment.
// The default values are empirical cutoffs;
// they can be relaxed or tightened by the caller.
type Gates struct {
	// Minimum fraction of tips
	// that must match a matrix row.
	// A lower rate usually means an ID normalization mismatch
	// (e.g. a wrong drop-version setting)
	// that would otherwise produce an all-absent figure.
	MinMatch float64

	// If true,
	// at least one trait must be present
	// in at least one aligned row.
	RequirePresence bool
}

// DefaultGates are the gates used
// when the caller does not set its own.
var DefaultGates = Gates{
	MinMatch:        0.95,
	RequirePresence: true,
}

// Check verifies the data-quality gates,
// returning a fatal error when a gate fails.
// Gate failures are never downgraded to warnings.
func (a *Aligned) Check(g Gates) error {
	if r := a.MatchRate(); r < g.MinMatch {
		return fmt.Errorf("alignment: match rate %.4f below %.4f: %d of %d tips found in matrix", r, g.MinMatch, a.matched, len(a.rows))
	}
	if g.RequirePresence && !a.AnyPresent() {
		return fmt.Errorf("alignment: no trait present in any of the %d aligned genomes", len(a.rows))
	}
	return nil
}

// Duplicates returns the normalized keys
// claimed by more than one raw tip label,
// with the colliding labels in tip order.
// Collisions are advisory:
// they must be visible to the operator,
// but are never resolved automatically.
func Duplicates(tips []*phytree.Node) map[string][]string {
	byKey := make(map[string][]string)
	for _, tip := range tips {
		byKey[tip.Key] = append(byKey[tip.Key], tip.Label)
	}
	dups := make(map[string][]string)
	for k, ls := range byKey {
		if len(ls) > 1 {
			dups[k] = ls
		}
	}
	return dups
}
