// Package ebitencanvas adapts an offscreen ebiten image to the drawing
// surface contract consumed by particlenet. The host game pumps it: call
// Tick once per Update and composite Image in Draw.
package ebitencanvas

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	colorful "github.com/lucasb-eyer/go-colorful"

	particlenet "github.com/olivierh59500/particle-net-go"
)

// Canvas implements Surface, Painter, Host and the notifier interfaces
// over an offscreen *ebiten.Image. Observer registries are keyed per
// canvas, so a field never holds a back-reference into the canvas.
type Canvas struct {
	img  *ebiten.Image
	w, h float64

	fill       color.RGBA
	stroke     color.RGBA
	lineWidth  float32
	penX, penY float32
	path       []segment

	frames  []func(time.Time)
	resize  map[int]func(w, h float64)
	visible map[int]func(bool)
	pointer map[int]func(x, y float64)
	nextID  int

	inView bool
}

type segment struct {
	x1, y1, x2, y2 float32
}

// New creates a canvas with its own offscreen image of the given size.
func New(w, h int) *Canvas {
	return &Canvas{
		img:       ebiten.NewImage(w, h),
		w:         float64(w),
		h:         float64(h),
		fill:      color.RGBA{255, 255, 255, 255},
		stroke:    color.RGBA{255, 255, 255, 255},
		lineWidth: 1,
		resize:    map[int]func(w, h float64){},
		visible:   map[int]func(bool){},
		pointer:   map[int]func(x, y float64){},
		inView:    true,
	}
}

// Image returns the offscreen render target for compositing.
func (c *Canvas) Image() *ebiten.Image {
	return c.img
}

func (c *Canvas) Size() (float64, float64) {
	return c.w, c.h
}

// BoundingBox reports the canvas position in client coordinates. The demo
// composites the canvas at the window origin; embedders drawing it
// elsewhere should wrap Canvas and offset this.
func (c *Canvas) BoundingBox() particlenet.Rect {
	return particlenet.Rect{Left: 0, Top: 0, Right: c.w, Bottom: c.h}
}

func (c *Canvas) Painter() particlenet.Painter {
	return c
}

// Resize swaps in a new offscreen image and notifies resize observers.
func (c *Canvas) Resize(w, h int) {
	if float64(w) == c.w && float64(h) == c.h {
		return
	}
	c.w, c.h = float64(w), float64(h)
	c.img = ebiten.NewImage(w, h)
	for _, cb := range c.resize {
		cb(c.w, c.h)
	}
}

// SetInView reports viewport visibility; observers fire on edges only.
func (c *Canvas) SetInView(v bool) {
	if v == c.inView {
		return
	}
	c.inView = v
	for _, cb := range c.visible {
		cb(v)
	}
}

// PointerMoved feeds a client-space pointer position to observers.
func (c *Canvas) PointerMoved(x, y float64) {
	for _, cb := range c.pointer {
		cb(x, y)
	}
}

// RequestFrame queues cb for the next Tick.
func (c *Canvas) RequestFrame(cb func(time.Time)) {
	c.frames = append(c.frames, cb)
}

// Tick runs every queued frame callback. Callbacks requested during Tick
// wait for the next one, matching a display-refresh scheduler.
func (c *Canvas) Tick(now time.Time) {
	pending := c.frames
	c.frames = nil
	for _, cb := range pending {
		cb(now)
	}
}

func (c *Canvas) ObserveResize(cb func(w, h float64)) func() {
	id := c.nextID
	c.nextID++
	c.resize[id] = cb
	return func() { delete(c.resize, id) }
}

func (c *Canvas) ObserveVisibility(cb func(bool)) func() {
	id := c.nextID
	c.nextID++
	c.visible[id] = cb
	return func() { delete(c.visible, id) }
}

func (c *Canvas) ObservePointer(cb func(x, y float64)) func() {
	id := c.nextID
	c.nextID++
	c.pointer[id] = cb
	return func() { delete(c.pointer, id) }
}

func (c *Canvas) Clear() {
	c.img.Clear()
}

func (c *Canvas) SetFill(hex string, alpha float64) {
	c.fill = rgba(hex, alpha)
}

func (c *Canvas) SetStroke(hex string, alpha float64) {
	c.stroke = rgba(hex, alpha)
}

func (c *Canvas) SetLineWidth(w float64) {
	c.lineWidth = float32(w)
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	vector.DrawFilledRect(c.img, float32(x), float32(y), float32(w), float32(h), c.fill, true)
}

func (c *Canvas) FillCircle(x, y, r float64) {
	vector.DrawFilledCircle(c.img, float32(x), float32(y), float32(r), c.fill, true)
}

func (c *Canvas) MoveTo(x, y float64) {
	c.penX, c.penY = float32(x), float32(y)
}

func (c *Canvas) LineTo(x, y float64) {
	c.path = append(c.path, segment{c.penX, c.penY, float32(x), float32(y)})
	c.penX, c.penY = float32(x), float32(y)
}

func (c *Canvas) Stroke() {
	for _, s := range c.path {
		vector.StrokeLine(c.img, s.x1, s.y1, s.x2, s.y2, c.lineWidth, c.stroke, true)
	}
	c.path = c.path[:0]
}

// rgba converts an opaque hex plus alpha into the premultiplied color.RGBA
// ebiten expects.
func rgba(hex string, alpha float64) color.RGBA {
	col, err := colorful.Hex(hex)
	if err != nil {
		col = colorful.Color{R: 1, G: 1, B: 1}
	}
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	r, g, b := col.RGB255()
	return color.RGBA{
		R: uint8(float64(r)*alpha + 0.5),
		G: uint8(float64(g)*alpha + 0.5),
		B: uint8(float64(b)*alpha + 0.5),
		A: uint8(alpha*255 + 0.5),
	}
}
