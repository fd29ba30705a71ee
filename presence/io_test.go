// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package presence_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/islandkit/phyring/presence"
)

func TestIDColumn(t *testing.T) {
	tests := map[string]struct {
		header []string
		want   int
		named  bool
	}{
		"first":       {header: []string{"gcf", "SGI-1"}, want: 0, named: true},
		"case":        {header: []string{"strain", "Accession", "SGI-1"}, want: 1, named: true},
		"spaces":      {header: []string{"strain", " id ", "SGI-1"}, want: 1, named: true},
		"order":       {header: []string{"genome", "id"}, want: 0, named: true},
		"fallback":    {header: []string{"strain", "SGI-1"}, want: 0},
		"single":      {header: []string{"whatever"}, want: 0},
		"trait first": {header: []string{"SGI-1", "gca"}, want: 1, named: true},
	}

	for name, test := range tests {
		got, named := presence.IDColumn(test.header)
		if got != test.want || named != test.named {
			t.Errorf("%s: got (%d, %v), want (%d, %v)", name, got, named, test.want, test.named)
		}
	}

	if _, ok := presence.IDColumn(nil); ok {
		t.Errorf("empty header: want no identifier column")
	}
}

func TestRead(t *testing.T) {
	data := `gcf	SGI-1	SGI-2	HPI
GCF_000123456.1	1	0	3
GCF_000987654.2	0	1	0
GCF_000555555.1	1	0	not-a-number
`
	m, err := presence.Read(strings.NewReader(data), '\t', false)
	if err != nil {
		t.Fatalf("unable to read matrix: %v", err)
	}
	testMatrix(t, "read", m)
}

func TestReadIDInMiddle(t *testing.T) {
	data := "SGI-1,genome,HPI\n1,GCF_000123456.1,0\n0,GCF_000987654.2,2\n"
	m, err := presence.Read(strings.NewReader(data), ',', false)
	if err != nil {
		t.Fatalf("unable to read matrix: %v", err)
	}

	traits := []string{"SGI-1", "HPI"}
	if g := m.Traits(); !reflect.DeepEqual(g, traits) {
		t.Errorf("traits: got %v, want %v", g, traits)
	}
	if !m.Present("GCF_000123456.1", "SGI-1") {
		t.Errorf("want SGI-1 present in GCF_000123456.1")
	}
	if !m.Present("GCF_000987654.2", "HPI") {
		t.Errorf("want HPI present in GCF_000987654.2")
	}
}

func TestReadNoTraits(t *testing.T) {
	data := "gcf\nGCF_000123456.1\n"
	if _, err := presence.Read(strings.NewReader(data), '\t', false); err == nil {
		t.Errorf("matrix without trait columns: want error")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	csvFile := filepath.Join(dir, "matrix.csv")
	csvData := "gcf,SGI-1,SGI-2,HPI\nGCF_000123456.1,1,0,3\nGCF_000987654.2,0,1,0\nGCF_000555555.1,1,0,x\n"
	if err := os.WriteFile(csvFile, []byte(csvData), 0644); err != nil {
		t.Fatalf("unable to write test file: %v", err)
	}
	m, err := presence.ReadFile(csvFile, false)
	if err != nil {
		t.Fatalf("unable to read %q: %v", csvFile, err)
	}
	testMatrix(t, "csv file", m)

	tabFile := filepath.Join(dir, "matrix.tab")
	tabData := strings.ReplaceAll(csvData, ",", "\t")
	if err := os.WriteFile(tabFile, []byte(tabData), 0644); err != nil {
		t.Fatalf("unable to write test file: %v", err)
	}
	m, err = presence.ReadFile(tabFile, false)
	if err != nil {
		t.Fatalf("unable to read %q: %v", tabFile, err)
	}
	testMatrix(t, "tab file", m)

	if _, err := presence.ReadFile(filepath.Join(dir, "no-file.tab"), false); err == nil {
		t.Errorf("missing file: want error")
	}
}
