// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package matrixcmd implements a command to normalize
// a presence-absence matrix
// and report the prevalence of its traits.
package matrixcmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/js-arias/command"

	"github.com/islandkit/phyring/presence"
)

var Command = &command.Command{
	Usage: `matrix [--drop-version]
	[-o|--output <out-prefix>]
	<matrix-file>`,
	Short: "normalize a presence-absence matrix",
	Long: `
Command matrix reads a presence-absence matrix (TSV, or CSV by file
extension) and writes a sanitized copy of it, with normalized genome
accessions, values coerced to 0/1, and rows of the same genome merged,
along with a table of the number of genomes in which each trait is
present.

The argument of the command is the matrix file.

With the flag --drop-version, assembly version suffixes are removed, so
different versions of the same assembly merge into a single row.

The output files are "normalized-matrix.tsv" and "prevalence.tsv". Use
the flag -o, or --output, to add a prefix to the output file names.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var dropVersion bool
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&dropVersion, "drop-version", false, "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting matrix file")
	}

	m, err := presence.ReadFile(args[0], dropVersion)
	if err != nil {
		return err
	}

	mName := outPrefix + "normalized-matrix.tsv"
	if err := writeMatrix(mName, m); err != nil {
		return err
	}
	fmt.Fprintf(c.Stderr(), "matrix: %d genomes, %d traits: wrote %q\n", len(m.Accessions()), len(m.Traits()), mName)

	pName := outPrefix + "prevalence.tsv"
	if err := writePrevalence(pName, m); err != nil {
		return err
	}
	fmt.Fprintf(c.Stderr(), "matrix: wrote %q\n", pName)
	return nil
}

func writeMatrix(name string, m *presence.Matrix) (err error) {
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

	if err := m.TSV(f); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}

func writePrevalence(name string, m *presence.Matrix) (err error) {
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

	traits := m.Traits()
	prev := m.Prevalence()
	order := make([]int, len(traits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return prev[order[i]] > prev[order[j]]
	})

	tab := csv.NewWriter(f)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write([]string{"trait", "n-present"}); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	for _, i := range order {
		row := []string{traits[i], fmt.Sprintf("%d", prev[i])}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("while writing %q: %v", name, err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}
