package particlenet

import (
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	// gravityEps keeps the inverse-power term finite at near-zero
	// separation.
	gravityEps = 1e-4
	// mouseEase is the exponential easing factor per reference frame.
	mouseEase = 0.1
	// noiseRate advances the smooth-jitter field per step.
	noiseRate = 0.02
)

// integrate advances every particle by one normalized step. Pair forces
// settle before the kinematic pass; rendering runs strictly afterwards.
func (f *Field) integrate(step float64) {
	if f.cfg.Gravity.Repulsive > 0 || f.cfg.Gravity.Pulling > 0 {
		f.applyGravity(step)
	}
	for _, p := range f.particles {
		f.advance(p, step)
	}
}

// applyGravity accumulates the O(n²) pairwise forces, the dominant frame
// cost and the first thing to turn off when tuning. Repulsion acts inside
// ConnectDist/2 with a d^-1.8 falloff, steeper than inverse-square so
// separation is sharp at short range; pulling acts across the whole
// ConnectDist range. Forces apply to both ends of each pair.
func (f *Field) applyGravity(step float64) {
	cd := f.cfg.Particles.ConnectDist
	half2 := cd * cd / 4
	full2 := cd * cd
	rep := f.cfg.Gravity.Repulsive
	pull := f.cfg.Gravity.Pulling
	for i := 0; i < len(f.particles); i++ {
		a := f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := f.particles[j]
			dx := a.PosX - b.PosX
			dy := a.PosY - b.PosY
			d2 := dx*dx + dy*dy
			if d2 >= full2 {
				continue
			}
			// dx/d * k/d^1.8 collapses to dx * k/(d²)^1.4
			if rep > 0 && d2 < half2 {
				fr := rep * cd * step / (math.Pow(d2, 1.4) + gravityEps)
				a.VelX += dx * fr
				a.VelY += dy * fr
				b.VelX -= dx * fr
				b.VelY -= dy * fr
			}
			if pull > 0 {
				fp := pull * cd * step / (math.Pow(d2, 1.4) + gravityEps)
				a.VelX -= dx * fp
				a.VelY -= dy * fp
				b.VelX += dx * fp
				b.VelY += dy * fp
			}
		}
	}
}

// advance runs the per-particle kinematics: direction jitter, drift plus
// gravity velocity, toroidal wrap, friction decay, mouse displacement and
// grid classification.
func (f *Field) advance(p *Particle, step float64) {
	if rot := f.cfg.Particles.RotationSpeed; rot > 0 {
		p.Dir += f.jitter(p) * rot * step
	}
	vx := math.Cos(p.Dir) * p.Speed
	vy := math.Sin(p.Dir) * p.Speed
	p.PosX = wrap(p.PosX+(vx+p.VelX)*step, f.boxW)
	p.PosY = wrap(p.PosY+(vy+p.VelY)*step, f.boxH)
	decay := math.Pow(f.cfg.Gravity.Friction, step)
	p.VelX *= decay
	p.VelY *= decay

	f.applyMouse(p, step)
	f.project(p)
}

// jitter returns a bounded perturbation in [-1,1]. With smooth jitter the
// perturbation is a coherent noise field sampled at the particle's phase,
// otherwise it is uniform. Both draw from seeded sources, so a fixed seed
// reproduces the run.
func (f *Field) jitter(p *Particle) float64 {
	if f.noise != nil {
		return f.noise.Noise2D(p.phase, f.clock*noiseRate)
	}
	return rng.Next()*2 - 1
}

// applyMouse eases the particle away from the pointer, holding it at
// roughly Mouse.ConnectDist once it strays inside the DistRatio-scaled
// threshold; outside, the offset eases back to zero.
func (f *Field) applyMouse(p *Particle, step float64) {
	m := &f.cfg.Mouse
	if m.Interaction == MouseNone || m.ConnectDist <= 0 {
		return
	}
	ease := 1 - math.Pow(1-mouseEase, step)
	dx := p.PosX - f.mouseX
	dy := p.PosY - f.mouseY
	d := math.Hypot(dx, dy)
	if d > 0 && d < m.ConnectDist*m.DistRatio {
		// target offset puts the particle ConnectDist away from the
		// pointer along the same direction
		tx := dx/d*m.ConnectDist - dx
		ty := dy/d*m.ConnectDist - dy
		p.OffX += (tx - p.OffX) * ease
		p.OffY += (ty - p.OffY) * ease
	} else {
		p.OffX -= p.OffX * ease
		p.OffY -= p.OffY * ease
	}
	if m.Interaction == MouseMove {
		p.PosX = wrap(p.PosX+p.OffX, f.boxW)
		p.PosY = wrap(p.PosY+p.OffY, f.boxH)
		p.OffX, p.OffY = 0, 0
	}
}

// project derives the visual position from the logical one and classifies
// the particle into the 3×3 screen grid. Only the center cell is on
// screen.
func (f *Field) project(p *Particle) {
	p.X = p.PosX + p.OffX - f.off
	p.Y = p.PosY + p.OffY - f.off
	p.GridX = gridCell(p.X, p.Bounds.Left, p.Bounds.Right)
	p.GridY = gridCell(p.Y, p.Bounds.Top, p.Bounds.Bottom)
	p.Visible = p.GridX == 1 && p.GridY == 1
}

func gridCell(v, lo, hi float64) int {
	switch {
	case v < lo:
		return 0
	case v > hi:
		return 2
	default:
		return 1
	}
}

// wrap folds v into [0,size) with toroidal topology.
func wrap(v, size float64) float64 {
	if size <= 0 {
		return 0
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}

func newNoise() *perlin.Perlin {
	return perlin.NewPerlin(2, 2, 3, int64(rng.Next()*(1<<31)))
}
