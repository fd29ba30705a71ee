// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package presence provides a presence-absence matrix
// of categorical traits
// (genomic islands, defense systems)
// observed in a set of genomes.
package presence

import (
	"slices"

	"github.com/islandkit/phyring/accession"
)

// Matrix is a presence-absence matrix:
// one row per genome,
// one boolean column per trait.
// Rows are keyed by the normalized genome accession.
type Matrix struct {
	dropVersion bool
	traits      []string
	index       map[string]int
	rows        map[string][]bool
}

// New creates a new empty matrix
// with the given trait columns,
// in the given order.
// If dropVersion is true,
// assembly version suffixes are removed
// when normalizing genome accessions.
func New(dropVersion bool, traits ...string) *Matrix {
	index := make(map[string]int, len(traits))
	for i, tr := range traits {
		index[tr] = i
	}
	return &Matrix{
		dropVersion: dropVersion,
		traits:      slices.Clone(traits),
		index:       index,
		rows:        make(map[string][]bool),
	}
}

// Add adds an observed value
// for a trait in a genome.
// The trait is present if the value is greater than zero.
// Observations of the same genome-trait pair
// are aggregated by logical OR,
// so a genome reported on multiple rows
// (for example split by contig)
// keeps every presence ever observed for it.
func (m *Matrix) Add(acc, trait string, value float64) {
	acc = accession.Normalize(acc, m.dropVersion)
	if acc == "" {
		return
	}
	c, ok := m.index[trait]
	if !ok {
		return
	}

	row, ok := m.rows[acc]
	if !ok {
		row = make([]bool, len(m.traits))
		m.rows[acc] = row
	}
	if value > 0 {
		row[c] = true
	}
}

// Traits returns the trait columns of the matrix,
// in their original column order.
func (m *Matrix) Traits() []string {
	return slices.Clone(m.traits)
}

// Accessions returns the normalized accessions
// of the genomes in the matrix,
// sorted alphabetically.
func (m *Matrix) Accessions() []string {
	accs := make([]string, 0, len(m.rows))
	for a := range m.rows {
		accs = append(accs, a)
	}
	slices.Sort(accs)
	return accs
}

// Present returns true if the given trait
// was observed in the given genome.
func (m *Matrix) Present(acc, trait string) bool {
	acc = accession.Normalize(acc, m.dropVersion)
	c, ok := m.index[trait]
	if !ok {
		return false
	}
	row, ok := m.rows[acc]
	if !ok {
		return false
	}
	return row[c]
}

// Row returns the presence values of a genome,
// in trait column order,
// and false if the genome is not in the matrix.
func (m *Matrix) Row(acc string) ([]bool, bool) {
	acc = accession.Normalize(acc, m.dropVersion)
	row, ok := m.rows[acc]
	if !ok {
		return nil, false
	}
	return slices.Clone(row), true
}

// Prevalence returns the number of genomes
// in which each trait is present,
// in trait column order.
func (m *Matrix) Prevalence() []int {
	prev := make([]int, len(m.traits))
	for _, row := range m.rows {
		for i, p := range row {
			if p {
				prev[i]++
			}
		}
	}
	return prev
}
