// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phytree

import (
	"fmt"
	"io"
	"os"

	"github.com/evolbioinfo/gotree/io/newick"
	gtree "github.com/evolbioinfo/gotree/tree"

	"github.com/islandkit/phyring/accession"
)

// ReadNewick reads a phylogenetic tree
// in newick (parenthetical) notation.
// Tip labels are kept verbatim
// and also normalized into accession keys
// (removing assembly version suffixes
// if dropVersion is true).
// A tree that cannot be parsed,
// or with less than two tips,
// is an unrecoverable error.
func ReadNewick(r io.Reader, dropVersion bool) (*Tree, error) {
	gt, err := newick.NewParser(r).Parse()
	if err != nil {
		return nil, fmt.Errorf("invalid newick tree: %v", err)
	}
	if gt.Root() == nil {
		return nil, fmt.Errorf("invalid newick tree: undefined root")
	}

	t := &Tree{root: convert(gt, dropVersion)}
	if tips := t.Tips(); len(tips) < 2 {
		return nil, fmt.Errorf("tree with %d tips: at least 2 required", len(tips))
	}
	return t, nil
}

// ReadNewickFile reads a newick tree from a file.
func ReadNewickFile(name string, dropVersion bool) (*Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadNewick(f, dropVersion)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return t, nil
}

// Convert copies the parsed topology
// into the local node structure.
// Undefined branch lengths count as zero.
func convert(gt *gtree.Tree, dropVersion bool) *Node {
	nodes := make(map[*gtree.Node]*Node)
	var root *Node
	gt.PreOrder(func(cur, prev *gtree.Node, e *gtree.Edge) bool {
		n := &Node{}
		if cur.Tip() {
			n.Label = cur.Name()
			n.Key = accession.Normalize(cur.Name(), dropVersion)
		}
		if prev == nil {
			root = n
		} else {
			if l := e.Length(); l > 0 {
				n.Len = l
			}
			p := nodes[prev]
			n.Anc = p
			p.Desc = append(p.Desc, n)
		}
		nodes[cur] = n
		return true
	})
	return root
}
