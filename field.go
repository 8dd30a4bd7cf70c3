package particlenet

import (
	"errors"
	"time"

	"github.com/aquilax/go-perlin"
)

const (
	// refFrame is the reference frame duration; step 1.0 means one frame
	// at 60 FPS.
	refFrame = time.Second / 60
	// maxFrame caps elapsed time at the 50 FPS equivalent so a stall
	// cannot produce a destabilizing simulation jump.
	maxFrame = time.Second / 50
)

// ErrNilSurface is returned by New when no drawing surface is supplied.
var ErrNilSurface = errors.New("particlenet: nil drawing surface")

// Field is one particle network bound to one drawing surface. All methods
// must run on the host's frame goroutine; a Field shares no mutable state
// with other instances except the package random source.
type Field struct {
	surface Surface
	painter Painter
	host    Host
	cfg     *Config

	particles []*Particle
	hasManual bool

	sw, sh     float64 // visible surface size
	boxW, boxH float64 // simulation box, inflated by 2·ConnectDist per axis
	off        float64 // centering offset of the visible window in the box

	mouseX, mouseY float64 // pointer in box coordinates
	clock          float64 // accumulated steps, drives the jitter noise field
	noise          *perlin.Perlin

	running   bool // currently executing frames
	enabled   bool // user wants it running; survives visibility pauses
	inView    bool
	destroyed bool
	lastFrame time.Time

	cancels []func()
}

// New builds a stopped Field over the surface, resolves opts and seeds the
// initial population. Event sources are discovered by type assertion on
// the surface; a surface without a Host can still be driven manually
// through Advance.
func New(surface Surface, opts *Options) (*Field, error) {
	if surface == nil {
		return nil, ErrNilSurface
	}
	cfg, err := ResolveOptions(opts)
	if err != nil {
		return nil, err
	}
	f := &Field{
		surface: surface,
		painter: surface.Painter(),
		cfg:     cfg,
		inView:  true,
	}
	if cfg.Particles.SmoothJitter {
		f.noise = newNoise()
	}
	if h, ok := surface.(Host); ok {
		f.host = h
	}
	f.layout()
	if err := f.reconcile(true); err != nil {
		return nil, err
	}
	if v, ok := surface.(VisibilityNotifier); ok {
		f.cancels = append(f.cancels, v.ObserveVisibility(f.onVisibility))
	}
	if r, ok := surface.(ResizeNotifier); ok {
		f.cancels = append(f.cancels, r.ObserveResize(f.onResize))
	}
	if p, ok := surface.(PointerSource); ok {
		f.cancels = append(f.cancels, p.ObservePointer(f.onPointer))
	}
	return f, nil
}

// layout recomputes the simulation box from the current surface size. The
// box extends ConnectDist beyond each visible edge so wrapped particles
// still connect across it.
func (f *Field) layout() {
	f.sw, f.sh = f.surface.Size()
	cd := f.cfg.Particles.ConnectDist
	f.off = cd
	f.boxW = f.sw + 2*cd
	f.boxH = f.sh + 2*cd
}

// Start begins animating and marks the field user-enabled. If the surface
// is out of view and StartOnEnter is set, the actual start defers to the
// visibility callback.
func (f *Field) Start() *Field {
	f.start(false)
	return f
}

func (f *Field) start(auto bool) {
	if f.destroyed || f.running {
		return
	}
	if auto && !f.enabled {
		return
	}
	if !auto {
		f.enabled = true
	}
	if !f.inView && f.cfg.StartOnEnter {
		return
	}
	f.running = true
	f.lastFrame = time.Time{}
	f.schedule()
}

// Stop halts the loop and reports whether it was running. clear wipes the
// surface instead of leaving the last frame visible.
func (f *Field) Stop(clear bool) bool {
	return f.stop(false, clear)
}

func (f *Field) stop(auto, clear bool) bool {
	was := f.running
	f.running = false
	if !auto {
		f.enabled = false
	}
	if clear && f.painter != nil {
		f.painter.Clear()
	}
	return was
}

// Destroy stops the loop, detaches every subscription and clears the
// surface. The Field must not be used afterwards; Destroy is idempotent.
func (f *Field) Destroy() {
	if f.destroyed {
		return
	}
	f.stop(false, true)
	f.destroyed = true
	for _, cancel := range f.cancels {
		cancel()
	}
	f.cancels = nil
	f.particles = nil
}

func (f *Field) schedule() {
	if f.host != nil {
		f.host.RequestFrame(f.frame)
	}
}

// frame runs one simulation+render step. The next frame is scheduled
// before stepping so a panic mid-frame cannot kill the loop; a stale
// callback that arrives after Stop sees running=false and does nothing.
func (f *Field) frame(now time.Time) {
	if !f.running || f.destroyed {
		return
	}
	f.schedule()
	f.Advance(now)
}

// Advance performs one step at the given time. Hosts without a frame
// scheduler can call this directly once per refresh.
func (f *Field) Advance(now time.Time) {
	step := f.step(now)
	f.clock += step
	f.integrate(step)
	f.render()
}

// step normalizes elapsed wall time so 1.0 is one reference frame, with
// the stall clamp applied first.
func (f *Field) step(now time.Time) float64 {
	elapsed := refFrame
	if !f.lastFrame.IsZero() {
		elapsed = now.Sub(f.lastFrame)
	}
	f.lastFrame = now
	if elapsed <= 0 {
		elapsed = refFrame
	}
	if elapsed > maxFrame {
		elapsed = maxFrame
	}
	return float64(elapsed) / float64(refFrame)
}

func (f *Field) onVisibility(visible bool) {
	f.inView = visible
	if visible {
		if f.cfg.StartOnEnter {
			f.start(true)
		}
	} else if f.cfg.StopOnLeave {
		// leave the last frame on screen rather than blanking
		f.stop(true, false)
	}
}

func (f *Field) onResize(w, h float64) {
	if err := f.ResizeSurface(); err != nil {
		f.stop(true, false)
	}
}

// onPointer converts client coordinates into box coordinates through the
// surface's current bounding box, so scrolling needs no separate handling.
func (f *Field) onPointer(x, y float64) {
	box := f.surface.BoundingBox()
	f.mouseX = x - box.Left + f.off
	f.mouseY = y - box.Top + f.off
}

// ResizeSurface recomputes the simulation box from the surface's current
// size, reconciles the population per the generation policy and, if the
// loop is running, renders one frame immediately so the surface is never
// shown stale after a resize.
func (f *Field) ResizeSurface() error {
	if f.destroyed {
		return nil
	}
	oldW, oldH := f.boxW, f.boxH
	f.layout()
	if err := f.reconcile(true); err != nil {
		return err
	}
	if f.boxW != oldW || f.boxH != oldH {
		for _, p := range f.particles {
			p.PosX = wrap(p.PosX, f.boxW)
			p.PosY = wrap(p.PosY, f.boxH)
		}
	}
	if f.running {
		for _, p := range f.particles {
			f.project(p)
		}
		f.render()
	}
	return nil
}

// NewParticles throws away the auto-generated population and builds a new
// one at the current target density. Manual particles survive unless
// clearManual is set, which drops them too.
func (f *Field) NewParticles(clearManual bool) error {
	if clearManual {
		f.clearManual()
	}
	if f.cfg.Particles.Generate == GenManual {
		return nil
	}
	return f.regenerate()
}

// MatchParticleCount incrementally reconciles the population with the
// target count. updateBounds also refreshes visibility bounds, needed when
// the surface size changed without going through ResizeSurface.
func (f *Field) MatchParticleCount(updateBounds bool) error {
	if f.cfg.Particles.Generate == GenManual {
		if updateBounds {
			f.refreshBounds()
		}
		return nil
	}
	return f.matchCount(updateBounds)
}

// Particles exposes the live particle slice for inspection.
func (f *Field) Particles() []*Particle {
	return f.particles
}

// SetBackground accepts false (transparent) or a color string.
func (f *Field) SetBackground(v any) error {
	switch bg := v.(type) {
	case bool:
		if bg {
			return ErrBadBackground
		}
		f.cfg.Background = ""
	case string:
		hex, _, err := resolveColor(bg)
		if err != nil {
			return err
		}
		f.cfg.Background = hex
	default:
		return ErrBadBackground
	}
	return nil
}

// SetMouseConnectDistMult rescales the absolute mouse interaction radius.
func (f *Field) SetMouseConnectDistMult(v float64) {
	f.cfg.Mouse.ConnectDistMult = clamp(v, 0, 10)
	f.cfg.Mouse.ConnectDist = f.cfg.Particles.ConnectDist * f.cfg.Mouse.ConnectDistMult
}

// SetParticleColor updates the particle hex and alpha from a color string.
func (f *Field) SetParticleColor(s string) error {
	hex, alpha, err := resolveColor(s)
	if err != nil {
		return err
	}
	f.cfg.Particles.Hex = hex
	f.cfg.Particles.Alpha = alpha
	return nil
}

// Config returns the live configuration handle. Direct field edits skip
// validation and take effect on the next frame; Apply is the validating
// path.
func (f *Field) Config() *Config {
	return f.cfg
}

// Apply resolves opts exactly like New and swaps in the result, then lays
// the box out again and reconciles the population. Unset fields revert to
// their defaults.
func (f *Field) Apply(opts *Options) error {
	cfg, err := ResolveOptions(opts)
	if err != nil {
		return err
	}
	f.cfg = cfg
	if !cfg.Particles.SmoothJitter {
		f.noise = nil
	} else if f.noise == nil {
		f.noise = newNoise()
	}
	f.layout()
	return f.reconcile(true)
}
