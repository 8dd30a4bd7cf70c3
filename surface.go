package particlenet

import "time"

// Rect is an axis-aligned box. Particle bounds use surface coordinates;
// BoundingBox uses client (screen) coordinates.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Surface is the drawing target the core renders to. Implementations that
// also satisfy Host, VisibilityNotifier, ResizeNotifier or PointerSource
// get those capabilities wired up at construction.
type Surface interface {
	Size() (w, h float64)
	BoundingBox() Rect
	Painter() Painter
}

// Painter is the 2D drawing contract. MoveTo/LineTo accumulate a path that
// Stroke draws and discards; fills apply immediately with the current fill
// style.
type Painter interface {
	Clear()
	FillRect(x, y, w, h float64)
	FillCircle(x, y, r float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
	SetFill(hex string, alpha float64)
	SetStroke(hex string, alpha float64)
	SetLineWidth(w float64)
}

// Host schedules frame callbacks, one per display refresh. A callback
// requested during a frame must not run before the next refresh.
type Host interface {
	RequestFrame(func(now time.Time))
}

// VisibilityNotifier reports the surface entering or leaving the viewport.
type VisibilityNotifier interface {
	ObserveVisibility(func(visible bool)) (cancel func())
}

// ResizeNotifier reports surface content-box size changes.
type ResizeNotifier interface {
	ObserveResize(func(w, h float64)) (cancel func())
}

// PointerSource reports pointer movement in client-space coordinates.
type PointerSource interface {
	ObservePointer(func(x, y float64)) (cancel func())
}
