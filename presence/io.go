// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package presence

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IDColumns is the ordered list of header names
// recognized as the genome identifier column.
// Matching is case insensitive.
var IDColumns = []string{"gcf", "gca", "genome", "id", "accession"}

// IDColumn returns the index of the genome identifier column
// in a header row:
// the first column whose name is in IDColumns,
// or column 0 as a fallback.
// It returns false if the header is empty.
func IDColumn(header []string) (int, bool) {
	if len(header) == 0 {
		return 0, false
	}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, c := range IDColumns {
			if h == c {
				return i, true
			}
		}
	}
	return 0, true
}

// ReadFile reads a presence-absence matrix from a file.
// The field delimiter is selected by the file extension:
// comma for ".csv" files,
// and tab for anything else.
func ReadFile(name string, dropVersion bool) (*Matrix, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	comma := '\t'
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		comma = ','
	}

	m, err := Read(f, comma, dropVersion)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return m, nil
}

// Read reads a presence-absence matrix
// from a delimited table.
//
// The table must have a header row.
// The genome identifier column is picked with IDColumn;
// every other column is a trait column.
// Trait values are parsed as numbers,
// a value is present if it is greater than zero,
// and unparseable or empty values count as zero.
// Rows sharing a normalized accession
// are aggregated by logical OR.
//
// Here is an example file:
//
//	gcf	SGI-1	SGI-2	HPI
//	GCF_000123456.1	1	0	3
//	GCF_000987654.2	0	1	0
func Read(r io.Reader, comma rune, dropVersion bool) (*Matrix, error) {
	tab := csv.NewReader(r)
	tab.Comma = comma
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	id, ok := IDColumn(head)
	if !ok {
		return nil, errors.New("unable to resolve an identifier column")
	}

	var traits []string
	for i, h := range head {
		if i == id {
			continue
		}
		traits = append(traits, strings.TrimSpace(h))
	}
	if len(traits) == 0 {
		return nil, errors.New("no trait columns (matrix must have at least two columns)")
	}

	m := New(dropVersion, traits...)
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while reading data: %v", err)
		}

		acc := row[id]
		c := 0
		for i, v := range row {
			if i == id {
				continue
			}
			m.Add(acc, traits[c], parseValue(v))
			c++
		}
	}
	return m, nil
}

// ParseValue reads a cell value as a number,
// with unparseable values counting as zero.
func parseValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// TSV writes the normalized matrix as a TSV file,
// with genomes sorted by accession
// and traits in their original column order.
func (m *Matrix) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	header := append([]string{"gcf"}, m.traits...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, acc := range m.Accessions() {
		row := make([]string, 0, len(m.traits)+1)
		row = append(row, acc)
		for _, p := range m.rows[acc] {
			if p {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
