package particlenet

import "math"

// render paints one frame: background, particles, then connection lines.
// Integration has already finished for this frame, so every particle's
// visual position and grid cell are settled.
func (f *Field) render() {
	pt := f.painter
	pt.Clear()
	if f.cfg.Background != "" {
		pt.SetFill(f.cfg.Background, 1)
		pt.FillRect(0, 0, f.sw, f.sh)
	}
	pt.SetFill(f.cfg.Particles.Hex, f.cfg.Particles.Alpha)
	pt.SetLineWidth(1)
	f.drawParticles()
	if f.cfg.Particles.DrawLines {
		f.drawConnections()
	}
}

// drawParticles fills a circle per visible particle. Below one pixel of
// radius it fills a same-area square instead; arc rasterization costs far
// more than it shows at that scale.
func (f *Field) drawParticles() {
	for _, p := range f.particles {
		if !p.Visible {
			continue
		}
		if p.Size > 1 {
			f.painter.FillCircle(p.X, p.Y, p.Size)
		} else {
			side := p.Size * math.SqrtPi
			f.painter.FillRect(p.X-side/2, p.Y-side/2, side, side)
		}
	}
}

// lineVisible reports whether a segment between the two particles could
// cross the visible center cell. A segment confined to one off-screen row
// or column cannot; diagonal spans are kept conservatively.
func lineVisible(a, b *Particle) bool {
	if a.Visible || b.Visible {
		return true
	}
	if a.GridX == b.GridX && a.GridX != 1 {
		return false
	}
	if a.GridY == b.GridY && a.GridY != 1 {
		return false
	}
	return true
}

type segment struct {
	x1, y1, x2, y2 float64
}

// drawConnections emits a line per eligible pair. Pairs inside the near
// half of ConnectDist share one full-alpha path stroked once at the end;
// farther pairs are stroked individually with alpha fading to zero at the
// ConnectDist boundary. Each particle stops emitting once its accumulated
// squared-distance work crosses MaxWork·ConnectDist², trading flicker at
// the cutoff for a bounded worst-case frame cost.
func (f *Field) drawConnections() {
	cfg := &f.cfg.Particles
	cd := cfg.ConnectDist
	if cd <= 0 {
		return
	}
	cd2 := cd * cd
	half2 := cd2 / 4
	budget := cfg.MaxWork * cd2
	drawAll := cd >= math.Min(f.sw, f.sh)
	pt := f.painter

	for _, p := range f.particles {
		p.work = 0
	}

	var batch []segment
	for i := 0; i < len(f.particles); i++ {
		a := f.particles[i]
		if a.work >= budget {
			continue
		}
		for j := i + 1; j < len(f.particles); j++ {
			b := f.particles[j]
			if b.work >= budget {
				continue
			}
			if !drawAll && !lineVisible(a, b) {
				continue
			}
			dx := a.X - b.X
			dy := a.Y - b.Y
			d2 := dx*dx + dy*dy
			if d2 > cd2 {
				continue
			}
			if d2 <= half2 {
				batch = append(batch, segment{a.X, a.Y, b.X, b.Y})
			} else {
				d := math.Sqrt(d2)
				alpha := cfg.Alpha * (cd - d) / (cd / 2)
				pt.SetStroke(cfg.Hex, alpha)
				pt.MoveTo(a.X, a.Y)
				pt.LineTo(b.X, b.Y)
				pt.Stroke()
			}
			a.work += d2
			b.work += d2
			if a.work >= budget {
				break
			}
		}
	}

	if len(batch) > 0 {
		pt.SetStroke(cfg.Hex, cfg.Alpha)
		for _, s := range batch {
			pt.MoveTo(s.x1, s.y1)
			pt.LineTo(s.x2, s.y2)
		}
		pt.Stroke()
	}
}
