package particlenet

import (
	"fmt"
	"math"
)

// Attribute ranges for randomly created particles, before RelSpeed/RelSize
// scaling. Speed is pixels per reference frame.
const (
	minSpeed = 0.1
	maxSpeed = 1.0
	minSize  = 0.6
	maxSize  = 2.4
)

// Particle is one record in the field. PosX/PosY live in simulation-box
// coordinates and wrap toroidally; X/Y are the visual position actually
// drawn (logical position plus mouse offset minus the centering offset).
// VelX/VelY carry gravity-sourced velocity and decay by friction; Dir and
// Speed describe a constant-magnitude drift independent of gravity.
type Particle struct {
	PosX, PosY   float64
	X, Y         float64
	VelX, VelY   float64
	Dir          float64
	Speed        float64
	Size         float64
	OffX, OffY   float64
	Bounds       Rect
	GridX, GridY int
	Visible      bool
	Manual       bool

	phase float64 // noise-field coordinate for smooth jitter
	work  float64 // squared-distance line budget spent this frame
}

// targetCount is the auto-population goal: PPM applied to the simulation
// box area, capped at the configured max. A pathological PPM or box size
// that produces a non-finite count is an error rather than a silent
// runaway allocation.
func (f *Field) targetCount() (int, error) {
	n := math.Round(f.cfg.Particles.PPM * f.boxW * f.boxH / 1e6)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("particlenet: target count not finite (ppm=%v box=%.0fx%.0f)",
			f.cfg.Particles.PPM, f.boxW, f.boxH)
	}
	if m := float64(f.cfg.Particles.Max); n > m {
		n = m
	}
	if n < 0 {
		n = 0
	}
	return int(n), nil
}

func (f *Field) newParticle(x, y, dir, speed, size float64, manual bool) *Particle {
	p := &Particle{
		PosX:   x,
		PosY:   y,
		Dir:    dir,
		Speed:  speed,
		Size:   size,
		Manual: manual,
		phase:  rng.Next() * 1000,
	}
	f.updateParticleBounds(p)
	return p
}

func (f *Field) randomParticle() *Particle {
	cfg := &f.cfg.Particles
	return f.newParticle(
		rng.Next()*f.boxW,
		rng.Next()*f.boxH,
		rng.Angle(),
		rng.Range(minSpeed, maxSpeed)*cfg.RelSpeed,
		rng.Range(minSize, maxSize)*cfg.RelSize,
		false,
	)
}

// regenerate removes every non-manual particle and creates a fresh
// auto-generated population at the current target count.
func (f *Field) regenerate() error {
	want, err := f.targetCount()
	if err != nil {
		return err
	}
	if !f.hasManual {
		f.particles = f.particles[:0]
	} else {
		kept := f.particles[:0]
		for _, p := range f.particles {
			if p.Manual {
				kept = append(kept, p)
			}
		}
		f.particles = kept
	}
	for i := 0; i < want; i++ {
		f.particles = append(f.particles, f.randomParticle())
	}
	return nil
}

// matchCount grows or shrinks the auto subset toward the target count
// without touching manual particles, minimizing churn across resizes.
func (f *Field) matchCount(updateBounds bool) error {
	want, err := f.targetCount()
	if err != nil {
		return err
	}
	auto := len(f.particles)
	if f.hasManual {
		auto = 0
		for _, p := range f.particles {
			if !p.Manual {
				auto++
			}
		}
	}
	for ; auto < want; auto++ {
		f.particles = append(f.particles, f.randomParticle())
	}
	if drop := auto - want; drop > 0 {
		kept := f.particles[:0]
		for _, p := range f.particles {
			if !p.Manual && drop > 0 {
				drop--
				continue
			}
			kept = append(kept, p)
		}
		f.particles = kept
	}
	if updateBounds {
		f.refreshBounds()
	}
	return nil
}

// reconcile applies the configured generation policy after a resize or a
// bulk configuration update.
func (f *Field) reconcile(updateBounds bool) error {
	switch f.cfg.Particles.Generate {
	case GenManual:
		if updateBounds {
			f.refreshBounds()
		}
		return nil
	case GenRegenerate:
		if updateBounds {
			f.refreshBounds()
		}
		return f.regenerate()
	default:
		return f.matchCount(updateBounds)
	}
}

// CreateParticle appends one manual particle at surface coordinates x,y.
// Pass NaN for dir, speed or size to draw that attribute from the shared
// random source, scaled by RelSpeed/RelSize. Manual particles survive
// count matching and are exempt from the max cap.
func (f *Field) CreateParticle(x, y, dir, speed, size float64) *Particle {
	cfg := &f.cfg.Particles
	if math.IsNaN(dir) {
		dir = rng.Angle()
	}
	if math.IsNaN(speed) {
		speed = rng.Range(minSpeed, maxSpeed) * cfg.RelSpeed
	}
	if math.IsNaN(size) {
		size = rng.Range(minSize, maxSize) * cfg.RelSize
	}
	p := f.newParticle(wrap(x+f.off, f.boxW), wrap(y+f.off, f.boxH), dir, speed, size, true)
	f.particles = append(f.particles, p)
	f.hasManual = true
	return p
}

// clearManual drops every manual particle and lets the population become
// fully caller- or policy-owned again.
func (f *Field) clearManual() {
	if !f.hasManual {
		return
	}
	kept := f.particles[:0]
	for _, p := range f.particles {
		if !p.Manual {
			kept = append(kept, p)
		}
	}
	f.particles = kept
	f.hasManual = false
}

// updateParticleBounds recomputes the visibility bounds, inflated by the
// particle's own radius so it stays classified visible while partly on
// screen.
func (f *Field) updateParticleBounds(p *Particle) {
	p.Bounds = Rect{Left: -p.Size, Top: -p.Size, Right: f.sw + p.Size, Bottom: f.sh + p.Size}
}

func (f *Field) refreshBounds() {
	for _, p := range f.particles {
		f.updateParticleBounds(p)
	}
}
