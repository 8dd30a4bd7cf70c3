package particlenet

import (
	"testing"
	"time"
)

// fakePainter records draw calls for the renderer and driver tests.
type fakePainter struct {
	clears   int
	rects    int
	circles  int
	segments int // total stroked segments
	strokes  []strokeCall

	fillHex     string
	fillAlpha   float64
	strokeHex   string
	strokeAlpha float64
	pathLen     int
}

type strokeCall struct {
	segments int
	alpha    float64
}

func (p *fakePainter) Clear()                      { p.clears++ }
func (p *fakePainter) FillRect(x, y, w, h float64) { p.rects++ }
func (p *fakePainter) FillCircle(x, y, r float64)  { p.circles++ }
func (p *fakePainter) MoveTo(x, y float64)         {}
func (p *fakePainter) LineTo(x, y float64)         { p.pathLen++ }
func (p *fakePainter) Stroke() {
	p.strokes = append(p.strokes, strokeCall{p.pathLen, p.strokeAlpha})
	p.segments += p.pathLen
	p.pathLen = 0
}
func (p *fakePainter) SetFill(hex string, a float64)   { p.fillHex, p.fillAlpha = hex, a }
func (p *fakePainter) SetStroke(hex string, a float64) { p.strokeHex, p.strokeAlpha = hex, a }
func (p *fakePainter) SetLineWidth(w float64)          {}

// fakeSurface implements Surface, Host and the notifier interfaces with
// manual triggering.
type fakeSurface struct {
	w, h    float64
	painter *fakePainter

	frames    []func(time.Time)
	visCB     func(bool)
	resizeCB  func(w, h float64)
	pointerCB func(x, y float64)
}

func newFakeSurface(w, h float64) *fakeSurface {
	return &fakeSurface{w: w, h: h, painter: &fakePainter{}}
}

func (s *fakeSurface) Size() (float64, float64) { return s.w, s.h }
func (s *fakeSurface) BoundingBox() Rect        { return Rect{Left: 0, Top: 0, Right: s.w, Bottom: s.h} }
func (s *fakeSurface) Painter() Painter         { return s.painter }

func (s *fakeSurface) RequestFrame(cb func(time.Time)) { s.frames = append(s.frames, cb) }

func (s *fakeSurface) tick(now time.Time) {
	pending := s.frames
	s.frames = nil
	for _, cb := range pending {
		cb(now)
	}
}

func (s *fakeSurface) ObserveVisibility(cb func(bool)) func() {
	s.visCB = cb
	return func() { s.visCB = nil }
}

func (s *fakeSurface) ObserveResize(cb func(w, h float64)) func() {
	s.resizeCB = cb
	return func() { s.resizeCB = nil }
}

func (s *fakeSurface) ObservePointer(cb func(x, y float64)) func() {
	s.pointerCB = cb
	return func() { s.pointerCB = nil }
}

func newTestField(t *testing.T, w, h float64, opts *Options) (*Field, *fakeSurface) {
	t.Helper()
	s := newFakeSurface(w, h)
	f, err := New(s, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f, s
}

func countManual(f *Field) int {
	n := 0
	for _, p := range f.particles {
		if p.Manual {
			n++
		}
	}
	return n
}
