// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/islandkit/phyring/phytree"
	"github.com/islandkit/phyring/ring"
)

const (
	// 18 x 18 inches at 72 points per inch.
	canvasSize = 1296
	center     = canvasSize / 2

	// Radius given to the reference tree depth;
	// the ring tracks stack outside of it.
	treeRadius = 420
)

// An element is a drawn SVG element,
// kept until the figure is finalized.
type element struct {
	name string
	attr []xml.Attr
	text string
}

func at(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// SVG is the real rendering backend:
// it draws the figure as an SVG document.
type SVG struct {
	step  float64
	tips  []*phytree.Node
	angle map[*phytree.Node]float64
	rad   map[*phytree.Node]float64

	tree    []element
	ringEls []element
	ticks   []element
}

// NewSVG returns an empty SVG drawer.
func NewSVG() *SVG {
	return &SVG{}
}

// Layout implements the Drawer interface:
// it draws the tree in circular layout.
// The configured opening wedge is removed from the circle
// and the remaining span is distributed among the tips;
// the whole figure is rotated
// so the opening is centered
// at the configured compass position.
func (s *SVG) Layout(t *phytree.Tree, cfg Config) error {
	tips := t.Tips()
	if len(tips) < 2 {
		return fmt.Errorf("tree with %d tips", len(tips))
	}

	span := 360 - cfg.OpenAngle
	if span <= 0 {
		return fmt.Errorf("opening of %.1f degrees leaves no circle", cfg.OpenAngle)
	}

	ref := cfg.RefDepth
	if ref <= 0 {
		ref = t.MaxDepth()
	}
	if ref <= 0 {
		return errors.New("tree without branch lengths")
	}
	scale := treeRadius / ref

	s.tips = tips
	s.step = span / float64(len(tips))
	s.angle = make(map[*phytree.Node]float64)
	s.rad = make(map[*phytree.Node]float64)
	s.tree = nil

	first := cfg.Rotate + cfg.OpenAngle/2 + s.step/2
	for i, tip := range tips {
		s.angle[tip] = first + float64(i)*s.step
	}

	s.prepare(t.Root(), 0, scale)
	s.drawTree(t.Root(), cfg)
	return nil
}

// Prepare computes the polar position of every node:
// the radius from the cumulative branch length,
// and the angle of an internal node
// from the span of its descendants.
func (s *SVG) prepare(n *phytree.Node, depth, scale float64) {
	depth += n.Len
	s.rad[n] = depth * scale
	if len(n.Desc) == 0 {
		return
	}
	for _, d := range n.Desc {
		s.prepare(d, depth, scale)
	}
	first := s.angle[n.Desc[0]]
	last := s.angle[n.Desc[len(n.Desc)-1]]
	s.angle[n] = (first + last) / 2
}

func (s *SVG) drawTree(root *phytree.Node, cfg Config) {
	width := strconv.FormatFloat(cfg.TreeLineSize, 'f', -1, 64)

	var walk func(n *phytree.Node)
	walk = func(n *phytree.Node) {
		if n.Anc != nil {
			x0, y0 := polar(s.rad[n.Anc], s.angle[n])
			x1, y1 := polar(s.rad[n], s.angle[n])
			s.tree = append(s.tree, element{
				name: "line",
				attr: []xml.Attr{
					at("x1", f(x0)), at("y1", f(y0)),
					at("x2", f(x1)), at("y2", f(y1)),
					at("stroke", "black"), at("stroke-width", width),
				},
			})
		}
		if len(n.Desc) == 0 {
			return
		}
		if r := s.rad[n]; r > 0.01 {
			a0 := s.angle[n.Desc[0]]
			a1 := s.angle[n.Desc[len(n.Desc)-1]]
			s.tree = append(s.tree, element{
				name: "path",
				attr: []xml.Attr{
					at("d", arc(r, a0, a1)),
					at("fill", "none"),
					at("stroke", "black"), at("stroke-width", width),
				},
			})
		}
		for _, d := range n.Desc {
			walk(d)
		}
	}
	walk(root)
}

// Ring implements the Drawer interface:
// it draws the annotation ring
// as concentric tracks of arc cells,
// one track per trait,
// plus the categorical legend.
//
// The primary header path refuses configurations
// it cannot honor:
// a header font taller than the ring track,
// or a figure without an angular opening
// to place the headers in.
func (s *SVG) Ring(enc *ring.Encoding, cfg Config, headers bool) error {
	if s.angle == nil {
		return errors.New("ring before layout")
	}
	cells := enc.Cells()
	if len(cells) != len(s.tips) {
		return fmt.Errorf("ring with %d rows for %d tips", len(cells), len(s.tips))
	}
	if headers {
		if cfg.OpenAngle <= 0 {
			return errors.New("headers without an angular opening")
		}
		if cfg.HeaderSize > cfg.RingWidth {
			return fmt.Errorf("header font %.1f does not fit ring track %.1f", cfg.HeaderSize, cfg.RingWidth)
		}
	}

	s.ringEls = nil
	traits := enc.Traits()
	inner := treeRadius + cfg.RingOffset
	for j, trait := range traits {
		r0 := inner + float64(j)*cfg.RingWidth
		r1 := r0 + cfg.RingWidth

		for i, tip := range s.tips {
			c := enc.Absent()
			if cells[i][j] != "" {
				c, _ = enc.Color(cells[i][j])
			}
			a := s.angle[tip]
			s.ringEls = append(s.ringEls, element{
				name: "path",
				attr: []xml.Attr{
					at("d", sector(r0, r1, a-s.step/2, a+s.step/2)),
					at("fill", rgb(c)),
					at("stroke", "none"),
				},
			})
		}

		if headers {
			rh := (r0+r1)/2 + cfg.HeaderOffset
			x, y := polar(rh, cfg.Rotate)
			s.ringEls = append(s.ringEls, element{
				name: "text",
				attr: []xml.Attr{
					at("x", f(x)), at("y", f(y)),
					at("text-anchor", "middle"),
					at("font-size", f(cfg.HeaderSize)),
					at("transform", rotate(cfg.HeaderAngle, x, y)),
				},
				text: trait,
			})
		}
	}

	s.legend(enc)
	return nil
}

// HeaderTicks implements the Drawer interface:
// the fallback header rendering,
// drawing each column name
// as a rotated tick label in the opening,
// at the radius of its track.
func (s *SVG) HeaderTicks(enc *ring.Encoding, cfg Config) error {
	if s.angle == nil {
		return errors.New("ring before layout")
	}

	s.ticks = nil
	size := cfg.HeaderSize
	if size > cfg.RingWidth {
		size = cfg.RingWidth
	}
	inner := treeRadius + cfg.RingOffset
	for j, trait := range enc.Traits() {
		rm := inner + (float64(j)+0.5)*cfg.RingWidth
		x, y := polar(rm, cfg.Rotate)
		s.ticks = append(s.ticks, element{
			name: "text",
			attr: []xml.Attr{
				at("x", f(x)), at("y", f(y)),
				at("text-anchor", "start"),
				at("font-size", f(size)),
				at("transform", rotate(cfg.HeaderAngle, x, y)),
			},
			text: trait,
		})
	}
	return nil
}

// Legend draws a colored box and a label
// for every trait in the ring,
// and for the absence sentinel.
func (s *SVG) legend(enc *ring.Encoding) {
	traits := enc.Traits()
	y := 24.0
	for _, trait := range traits {
		c, _ := enc.Color(trait)
		s.legendEntry(y, trait, c)
		y += 18
	}
	s.legendEntry(y, absentLabel(traits), enc.Absent())
}

func (s *SVG) legendEntry(y float64, label string, c color.RGBA) {
	s.ringEls = append(s.ringEls, element{
		name: "rect",
		attr: []xml.Attr{
			at("x", "20"), at("y", f(y-10)),
			at("width", "12"), at("height", "12"),
			at("fill", rgb(c)),
		},
	})
	s.ringEls = append(s.ringEls, element{
		name: "text",
		attr: []xml.Attr{
			at("x", "38"), at("y", f(y)),
			at("font-size", "12"),
		},
		text: label,
	})
}

// AbsentLabel returns the legend label
// of the absence sentinel,
// renamed when a trait claims it.
func absentLabel(traits []string) string {
	label := "absent"
	for slices.Contains(traits, label) {
		label = "(" + label + ")"
	}
	return label
}

// Finalize implements the Drawer interface:
// it writes the figure as an SVG document,
// with no decoration beyond the tree,
// the ring,
// and the legend.
func (s *SVG) Finalize(w io.Writer) error {
	if s.tree == nil {
		return errors.New("finalize before layout")
	}

	fmt.Fprintf(w, "%s", xml.Header)
	e := xml.NewEncoder(w)
	svg := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			at("width", strconv.Itoa(canvasSize)),
			at("height", strconv.Itoa(canvasSize)),
			at("viewBox", fmt.Sprintf("0 0 %d %d", canvasSize, canvasSize)),
			at("xmlns", "http://www.w3.org/2000/svg"),
		},
	}
	e.EncodeToken(svg)

	g := xml.StartElement{
		Name: xml.Name{Local: "g"},
		Attr: []xml.Attr{
			at("stroke-linecap", "round"),
			at("font-family", "Verdana"),
		},
	}
	e.EncodeToken(g)

	for _, els := range [][]element{s.tree, s.ringEls, s.ticks} {
		for _, el := range els {
			st := xml.StartElement{Name: xml.Name{Local: el.name}, Attr: el.attr}
			e.EncodeToken(st)
			if el.text != "" {
				e.EncodeToken(xml.CharData(el.text))
			}
			e.EncodeToken(st.End())
		}
	}

	e.EncodeToken(g.End())
	e.EncodeToken(svg.End())
	if err := e.Flush(); err != nil {
		return err
	}
	return nil
}

// Polar maps a radius and a compass angle
// (degrees clockwise from north)
// to canvas coordinates.
func polar(r, deg float64) (x, y float64) {
	rad := deg * math.Pi / 180
	return center + r*math.Sin(rad), center - r*math.Cos(rad)
}

// Arc is the path of a circle arc at radius r
// between two compass angles.
func arc(r, a0, a1 float64) string {
	if a0 > a1 {
		a0, a1 = a1, a0
	}
	x0, y0 := polar(r, a0)
	x1, y1 := polar(r, a1)
	large := 0
	if a1-a0 > 180 {
		large = 1
	}
	return fmt.Sprintf("M%s %s A%s %s 0 %d 1 %s %s", f(x0), f(y0), f(r), f(r), large, f(x1), f(y1))
}

// Sector is the path of an annular sector
// between radii r0 and r1
// and compass angles a0 and a1.
func sector(r0, r1, a0, a1 float64) string {
	if a0 > a1 {
		a0, a1 = a1, a0
	}
	large := 0
	if a1-a0 > 180 {
		large = 1
	}
	x0, y0 := polar(r1, a0)
	x1, y1 := polar(r1, a1)
	x2, y2 := polar(r0, a1)
	x3, y3 := polar(r0, a0)
	return fmt.Sprintf("M%s %s A%s %s 0 %d 1 %s %s L%s %s A%s %s 0 %d 0 %s %s Z",
		f(x0), f(y0), f(r1), f(r1), large, f(x1), f(y1),
		f(x2), f(y2), f(r0), f(r0), large, f(x3), f(y3))
}

func rotate(deg, x, y float64) string {
	return fmt.Sprintf("rotate(%s %s %s)", f(deg), f(x), f(y))
}

func rgb(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
