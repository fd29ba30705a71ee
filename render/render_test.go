// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/islandkit/phyring/phytree"
	"github.com/islandkit/phyring/render"
	"github.com/islandkit/phyring/ring"
)

type mockDrawer struct {
	failLayout   bool
	failHeaders  bool
	failRing     bool
	failTicks    bool
	layout       int
	ringHeaders  int
	ringNoHeader int
	ticks        int
	finalize     int
}

func (m *mockDrawer) Layout(t *phytree.Tree, cfg render.Config) error {
	m.layout++
	if m.failLayout {
		return errors.New("mock layout failure")
	}
	return nil
}

func (m *mockDrawer) Ring(enc *ring.Encoding, cfg render.Config, headers bool) error {
	if headers {
		m.ringHeaders++
		if m.failHeaders {
			return errors.New("mock header failure")
		}
		return nil
	}
	m.ringNoHeader++
	if m.failRing {
		return errors.New("mock ring failure")
	}
	return nil
}

func (m *mockDrawer) HeaderTicks(enc *ring.Encoding, cfg render.Config) error {
	m.ticks++
	if m.failTicks {
		return errors.New("mock tick failure")
	}
	return nil
}

func (m *mockDrawer) Finalize(w io.Writer) error {
	m.finalize++
	return nil
}

func newFigure(t testing.TB) (*phytree.Tree, *ring.Encoding) {
	t.Helper()

	nwk := "((A:1,B:2):1,(C:1,D:3):2);"
	tr, err := phytree.ReadNewick(strings.NewReader(nwk), false)
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}

	rows := [][]bool{
		{true, false},
		{true, true},
		{false, false},
		{false, true},
	}
	enc := ring.Encode([]string{"SGI-1", "HPI"}, rows, ring.AbsentGrey)
	return tr, enc
}

func TestRenderPrimary(t *testing.T) {
	tr, enc := newFigure(t)
	m := &mockDrawer{}

	var out, log bytes.Buffer
	if err := render.Render(m, tr, enc, render.Config{}, &out, &log); err != nil {
		t.Fatalf("render: %v", err)
	}

	if m.layout != 1 || m.ringHeaders != 1 || m.ringNoHeader != 0 || m.ticks != 0 || m.finalize != 1 {
		t.Errorf("primary path calls: layout %d, ring %d/%d, ticks %d, finalize %d",
			m.layout, m.ringHeaders, m.ringNoHeader, m.ticks, m.finalize)
	}
	if !strings.Contains(log.String(), "primary") {
		t.Errorf("log: got %q, want primary path report", log.String())
	}
}

func TestRenderFallback(t *testing.T) {
	tr, enc := newFigure(t)
	m := &mockDrawer{failHeaders: true}

	var out, log bytes.Buffer
	if err := render.Render(m, tr, enc, render.Config{}, &out, &log); err != nil {
		t.Fatalf("render: %v", err)
	}

	if m.ringHeaders != 1 || m.ringNoHeader != 1 || m.ticks != 1 || m.finalize != 1 {
		t.Errorf("fallback path calls: ring %d/%d, ticks %d, finalize %d",
			m.ringHeaders, m.ringNoHeader, m.ticks, m.finalize)
	}
	if !strings.Contains(log.String(), "falling back") {
		t.Errorf("log: got %q, want fallback report", log.String())
	}
}

func TestRenderFatal(t *testing.T) {
	tr, enc := newFigure(t)

	m := &mockDrawer{failLayout: true}
	var out bytes.Buffer
	if err := render.Render(m, tr, enc, render.Config{}, &out, nil); err == nil {
		t.Errorf("layout failure: want error")
	}
	if m.ringHeaders+m.ringNoHeader+m.finalize != 0 {
		t.Errorf("layout failure: drawing continued after fatal stage")
	}

	m = &mockDrawer{failHeaders: true, failRing: true}
	if err := render.Render(m, tr, enc, render.Config{}, &out, nil); err == nil {
		t.Errorf("fallback ring failure: want error")
	}
	if m.finalize != 0 {
		t.Errorf("fallback ring failure: figure finalized")
	}

	m = &mockDrawer{failHeaders: true, failTicks: true}
	if err := render.Render(m, tr, enc, render.Config{}, &out, nil); err == nil {
		t.Errorf("fallback tick failure: want error")
	}
	if m.finalize != 0 {
		t.Errorf("fallback tick failure: figure finalized")
	}
}

func TestSVG(t *testing.T) {
	tr, enc := newFigure(t)

	var out, log bytes.Buffer
	if err := render.Render(render.NewSVG(), tr, enc, render.Config{}, &out, &log); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg := out.String()
	if !strings.Contains(svg, "<svg") {
		t.Errorf("output: missing svg element")
	}
	if !strings.Contains(svg, "<path") {
		t.Errorf("output: missing ring sectors")
	}
	if !strings.Contains(svg, "SGI-1") || !strings.Contains(svg, "HPI") {
		t.Errorf("output: missing trait names")
	}
	if !strings.Contains(svg, "absent") {
		t.Errorf("output: missing absence legend entry")
	}
	if !strings.Contains(log.String(), "primary") {
		t.Errorf("log: got %q, want primary path report", log.String())
	}
}

func TestSVGFallback(t *testing.T) {
	tr, enc := newFigure(t)

	// a header font that cannot fit the ring track
	cfg := render.Config{HeaderSize: 20, RingWidth: 10}

	var out, log bytes.Buffer
	if err := render.Render(render.NewSVG(), tr, enc, cfg, &out, &log); err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(log.String(), "falling back") {
		t.Errorf("log: got %q, want fallback report", log.String())
	}
	svg := out.String()
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "SGI-1") {
		t.Errorf("fallback output: incomplete figure")
	}
}

func TestSVGAbsentTrait(t *testing.T) {
	// a trait named like the sentinel keeps its own color,
	// and the sentinel legend entry is renamed
	nwk := "((A:1,B:2):1,C:1);"
	tr, err := phytree.ReadNewick(strings.NewReader(nwk), false)
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}
	rows := [][]bool{
		{true, false},
		{true, true},
		{false, true},
	}
	enc := ring.Encode([]string{"absent", "HPI"}, rows, ring.AbsentGrey)

	var out bytes.Buffer
	if err := render.Render(render.NewSVG(), tr, enc, render.Config{}, &out, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg := out.String()
	if !strings.Contains(svg, "(absent)") {
		t.Errorf("legend: missing renamed sentinel entry")
	}
	c, ok := enc.Color("absent")
	if !ok {
		t.Fatalf("trait color: not assigned")
	}
	if c == enc.Absent() {
		t.Errorf("trait color: equals the absence color")
	}
}

func TestSVGRingBeforeLayout(t *testing.T) {
	_, enc := newFigure(t)

	s := render.NewSVG()
	if err := s.Ring(enc, render.Config{}, false); err == nil {
		t.Errorf("ring before layout: want error")
	}
	var out bytes.Buffer
	if err := s.Finalize(&out); err == nil {
		t.Errorf("finalize before layout: want error")
	}
}
