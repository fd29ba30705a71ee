// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phytree_test

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/islandkit/phyring/phytree"
)

func TestReadNewick(t *testing.T) {
	nwk := "((gcf_000123456.1:1,GCF_000987654.2:2):1,(gcf_000555555.1:1,GCF_000444444.1:1):2);"
	tr, err := phytree.ReadNewick(strings.NewReader(nwk), true)
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}

	labels := tipLabels(tr)
	want := []string{"gcf_000123456.1", "GCF_000987654.2", "gcf_000555555.1", "GCF_000444444.1"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("tip labels: got %v, want %v", labels, want)
	}

	keys := tipKeys(tr)
	wantKeys := []string{"GCF_000123456", "GCF_000987654", "GCF_000555555", "GCF_000444444"}
	if !reflect.DeepEqual(keys, wantKeys) {
		t.Errorf("tip keys: got %v, want %v", keys, wantKeys)
	}

	if d := tr.MaxDepth(); !closeTo(d, 3) {
		t.Errorf("max depth: got %.6f, want %.6f", d, 3.0)
	}
}

func TestReadNewickErrors(t *testing.T) {
	malformed := []string{
		"((GCF_000123456.1:1,GCF_000987654.2:2",
		"(GCF_000123456.1:1,GCF_000987654.2:2));",
	}
	for _, nwk := range malformed {
		if _, err := phytree.ReadNewick(strings.NewReader(nwk), false); err == nil {
			t.Errorf("newick %q: want parse error", nwk)
		}
	}

	if _, err := phytree.ReadNewick(strings.NewReader("(GCF_000123456.1:1);"), false); err == nil {
		t.Errorf("single tip tree: want error")
	}
}

func TestMidpoint(t *testing.T) {
	nwk := "((A:1,B:4):1,C:7);"
	tr, err := phytree.ReadNewick(strings.NewReader(nwk), false)
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}

	tr.Midpoint()

	if len(tr.Root().Desc) != 2 {
		t.Fatalf("root: got %d descendants, want 2", len(tr.Root().Desc))
	}

	depth := tipDepths(tr)
	want := map[string]float64{"A": 3, "B": 6, "C": 6}
	for label, w := range want {
		g, ok := depth[label]
		if !ok {
			t.Errorf("midpoint: tip %q lost", label)
			continue
		}
		if !closeTo(g, w) {
			t.Errorf("midpoint: depth of %q: got %.6f, want %.6f", label, g, w)
		}
	}
	if len(depth) != len(want) {
		t.Errorf("midpoint: got %d tips, want %d", len(depth), len(want))
	}

	// the midpoint root halves the tree diameter
	if d := tr.MaxDepth(); !closeTo(d, 6) {
		t.Errorf("midpoint: max depth: got %.6f, want %.6f", d, 6.0)
	}
}

func TestMidpointKeepsTips(t *testing.T) {
	nwk := "(((A:3,B:1):2,(C:1,D:1):1):1,(E:4,F:1):2);"
	tr, err := phytree.ReadNewick(strings.NewReader(nwk), false)
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}
	before := tipLabels(tr)

	tr.Midpoint()

	after := tipLabels(tr)
	if len(after) != len(before) {
		t.Fatalf("midpoint: got %d tips, want %d", len(after), len(before))
	}
	set := make(map[string]bool, len(before))
	for _, l := range before {
		set[l] = true
	}
	for _, l := range after {
		if !set[l] {
			t.Errorf("midpoint: unexpected tip %q", l)
		}
	}
}

func TestLadderize(t *testing.T) {
	nwk := "((A:1,B:1,E:1):1,(C:1,D:1):1);"
	tr, err := phytree.ReadNewick(strings.NewReader(nwk), false)
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}

	tr.Ladderize()

	want := []string{"C", "D", "A", "B", "E"}
	if g := tipLabels(tr); !reflect.DeepEqual(g, want) {
		t.Errorf("ladderize: got %v, want %v", g, want)
	}
}

func TestLadderizeStable(t *testing.T) {
	nwk := "((A:1,B:1):1,(C:1,D:1):1);"
	tr, err := phytree.ReadNewick(strings.NewReader(nwk), false)
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}

	tr.Ladderize()

	want := []string{"A", "B", "C", "D"}
	if g := tipLabels(tr); !reflect.DeepEqual(g, want) {
		t.Errorf("ladderize: got %v, want %v", g, want)
	}
}

func TestScale(t *testing.T) {
	nwk := "((A:1,B:4):1,C:7);"
	tr, err := phytree.ReadNewick(strings.NewReader(nwk), false)
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}

	tr.Scale(0.5)

	if d := tr.MaxDepth(); !closeTo(d, 3.5) {
		t.Errorf("scale: max depth: got %.6f, want %.6f", d, 3.5)
	}
	if g := tipLabels(tr); len(g) != 3 {
		t.Errorf("scale: got %d tips, want 3", len(g))
	}
}

func tipLabels(tr *phytree.Tree) []string {
	var ls []string
	for _, tip := range tr.Tips() {
		ls = append(ls, tip.Label)
	}
	return ls
}

func tipKeys(tr *phytree.Tree) []string {
	var ks []string
	for _, tip := range tr.Tips() {
		ks = append(ks, tip.Key)
	}
	return ks
}

func tipDepths(tr *phytree.Tree) map[string]float64 {
	depth := make(map[string]float64)
	for _, tip := range tr.Tips() {
		d := 0.0
		for n := tip; n != nil; n = n.Anc {
			d += n.Len
		}
		depth[tip.Label] = d
	}
	return depth
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}
