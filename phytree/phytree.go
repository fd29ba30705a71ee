// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package phytree provides a rooted phylogenetic tree
// with branch lengths,
// read from a newick file,
// prepared for circular drawing
// (midpoint rooted and ladderized).
package phytree

import "sort"

// A Node is a node of a phylogenetic tree.
// Terminal nodes keep both the raw tip label,
// exactly as read from the tree file,
// and its normalized accession key.
// The raw label is the identity of the tip:
// two tips may share a key,
// but never a position in the tree.
type Node struct {
	// Raw tip label, empty on internal nodes.
	Label string

	// Normalized accession key of a tip.
	Key string

	// Branch length to the ancestor.
	Len float64

	Anc  *Node
	Desc []*Node
}

// A Tree is a rooted phylogenetic tree.
type Tree struct {
	root *Node
}

// Root returns the root node of the tree.
func (t *Tree) Root() *Node {
	return t.root
}

// Tips returns the terminal nodes of the tree,
// in left to right traversal order.
// This is the order used when drawing the tree.
func (t *Tree) Tips() []*Node {
	var tips []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if len(n.Desc) == 0 {
			tips = append(tips, n)
			return
		}
		for _, d := range n.Desc {
			walk(d)
		}
	}
	walk(t.root)
	return tips
}

// MaxDepth returns the length
// of the longest root-to-tip path.
func (t *Tree) MaxDepth() float64 {
	var max float64
	var walk func(n *Node, d float64)
	walk = func(n *Node, d float64) {
		d += n.Len
		if len(n.Desc) == 0 {
			if d > max {
				max = d
			}
			return
		}
		for _, c := range n.Desc {
			walk(c, d)
		}
	}
	walk(t.root, 0)
	return max
}

// Scale multiplies every branch length
// by the given factor.
// It changes the rendered radius of the tree,
// never its topology.
func (t *Tree) Scale(f float64) {
	var walk func(n *Node)
	walk = func(n *Node) {
		n.Len *= f
		for _, d := range n.Desc {
			walk(d)
		}
	}
	walk(t.root)
}

// Ladderize sorts the descendants of every node
// by their number of descendant tips,
// smaller clades first,
// keeping the previous order on ties.
// The tip set is never changed.
func (t *Tree) Ladderize() {
	var sortDesc func(n *Node) int
	sortDesc = func(n *Node) int {
		if len(n.Desc) == 0 {
			return 1
		}
		size := make(map[*Node]int, len(n.Desc))
		sum := 0
		for _, d := range n.Desc {
			s := sortDesc(d)
			size[d] = s
			sum += s
		}
		sort.SliceStable(n.Desc, func(i, j int) bool {
			return size[n.Desc[i]] < size[n.Desc[j]]
		})
		return sum
	}
	sortDesc(t.root)
}

// Midpoint reroots the tree at its midpoint,
// the point that minimizes
// the maximum root-to-tip path length.
// Rerooting changes the structure of the tree
// but never its tip set or raw labels.
func (t *Tree) Midpoint() {
	tips := t.Tips()
	if len(tips) < 2 {
		return
	}

	// the diameter path is the path
	// between the two most distant tips
	d0, _ := distances(t.root)
	a := farthestTip(tips, d0)
	dA, prevA := distances(a)
	b := farthestTip(tips, dA)
	diam := dA[b]
	if diam <= 0 {
		return
	}
	half := diam / 2

	// walk the diameter path from b towards a,
	// looking for the edge that contains the midpoint
	for cur := b; cur != a; {
		next := prevA[cur]
		lo, hi := dA[next], dA[cur]
		if lo <= half && half <= hi {
			c := cur
			if c.Anc != next {
				c = next
			}
			dc := half - dA[c]
			if dc < 0 {
				dc = -dc
			}
			t.reroot(c, dc)
			return
		}
		cur = next
	}
}

// Distances returns the path length
// from start to every node of the tree,
// and the previous node on each path.
func distances(start *Node) (dist map[*Node]float64, prev map[*Node]*Node) {
	dist = map[*Node]float64{start: 0}
	prev = make(map[*Node]*Node)
	stack := []*Node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if a := n.Anc; a != nil {
			if _, ok := dist[a]; !ok {
				dist[a] = dist[n] + n.Len
				prev[a] = n
				stack = append(stack, a)
			}
		}
		for _, d := range n.Desc {
			if _, ok := dist[d]; !ok {
				dist[d] = dist[n] + d.Len
				prev[d] = n
				stack = append(stack, d)
			}
		}
	}
	return dist, prev
}

func farthestTip(tips []*Node, dist map[*Node]float64) *Node {
	far := tips[0]
	for _, tip := range tips[1:] {
		if dist[tip] > dist[far] {
			far = tip
		}
	}
	return far
}

// Reroot places a new root on the edge
// between c and its ancestor,
// at distance dc above c,
// inverting the old ancestor chain of c.
// Unary nodes left by the inversion are spliced out.
func (t *Tree) reroot(c *Node, dc float64) {
	p := c.Anc
	if p == nil {
		return
	}

	root := &Node{Desc: []*Node{c}}
	upLen := c.Len - dc
	c.Anc = root
	c.Len = dc

	from := c
	newAnc := root
	for n := p; n != nil; {
		oldAnc := n.Anc
		oldLen := n.Len

		n.Desc = removeDesc(n.Desc, from)
		n.Anc = newAnc
		n.Len = upLen
		newAnc.Desc = append(newAnc.Desc, n)

		from = n
		newAnc = n
		upLen = oldLen
		n = oldAnc
	}

	t.root = root
	splice(root)
}

func removeDesc(desc []*Node, d *Node) []*Node {
	for i, x := range desc {
		if x == d {
			return append(desc[:i:i], desc[i+1:]...)
		}
	}
	return desc
}

// Splice removes nodes with a single descendant,
// merging their branch lengths.
func splice(n *Node) {
	for i, d := range n.Desc {
		for len(d.Desc) == 1 {
			u := d.Desc[0]
			u.Len += d.Len
			u.Anc = n
			n.Desc[i] = u
			d = u
		}
		splice(d)
	}
}
