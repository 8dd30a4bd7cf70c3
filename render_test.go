package particlenet

import (
	"math"
	"testing"
)

// connectionField builds a manual-only field with full control over the
// particle layout. Particles are placed at surface coordinates and
// projected so visual positions and grid cells are settled.
func connectionField(t *testing.T, w, h float64, opts *Options) (*Field, *fakePainter) {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}
	opts.Particles.Max = Ptr(0.0)
	opts.Mouse.Interaction = Ptr(MouseNone)
	f, s := newTestField(t, w, h, opts)
	return f, s.painter
}

func place(f *Field, x, y float64) *Particle {
	p := f.CreateParticle(x, y, 0, 0, 2)
	f.project(p)
	return p
}

func TestLineVisibleSymmetry(t *testing.T) {
	for ax := 0; ax < 3; ax++ {
		for ay := 0; ay < 3; ay++ {
			for bx := 0; bx < 3; bx++ {
				for by := 0; by < 3; by++ {
					a := &Particle{GridX: ax, GridY: ay, Visible: ax == 1 && ay == 1}
					b := &Particle{GridX: bx, GridY: by, Visible: bx == 1 && by == 1}
					if lineVisible(a, b) != lineVisible(b, a) {
						t.Errorf("lineVisible asymmetric for (%d,%d)-(%d,%d)", ax, ay, bx, by)
					}
				}
			}
		}
	}
}

func TestLineVisibleCases(t *testing.T) {
	mk := func(gx, gy int) *Particle {
		return &Particle{GridX: gx, GridY: gy, Visible: gx == 1 && gy == 1}
	}
	tests := []struct {
		name string
		a, b *Particle
		want bool
	}{
		{"both center", mk(1, 1), mk(1, 1), true},
		{"one center", mk(1, 1), mk(0, 2), true},
		{"same off-screen column", mk(0, 0), mk(0, 2), false},
		{"same off-screen row", mk(0, 2), mk(2, 2), false},
		{"diagonal quadrants", mk(0, 0), mk(2, 2), true},
		{"opposite bands", mk(0, 1), mk(2, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lineVisible(tt.a, tt.b); got != tt.want {
				t.Errorf("lineVisible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConnectionsNearHalfBatched(t *testing.T) {
	f, pt := connectionField(t, 400, 300, &Options{
		Particles: ParticleOptions{ConnectDistance: Ptr(100.0)},
	})
	place(f, 100, 100)
	place(f, 130, 100) // d=30, inside the near half
	f.drawConnections()

	if pt.segments != 1 {
		t.Fatalf("segments = %d, want 1", pt.segments)
	}
	if len(pt.strokes) != 1 {
		t.Fatalf("strokes = %d, want one batched stroke", len(pt.strokes))
	}
	if pt.strokes[0].alpha != f.cfg.Particles.Alpha {
		t.Errorf("batched stroke alpha = %v, want configured %v", pt.strokes[0].alpha, f.cfg.Particles.Alpha)
	}
}

func TestConnectionsFarHalfAlpha(t *testing.T) {
	f, pt := connectionField(t, 400, 300, &Options{
		Particles: ParticleOptions{ConnectDistance: Ptr(100.0)},
	})
	place(f, 100, 100)
	place(f, 190, 100) // d=90, far half
	f.drawConnections()

	if len(pt.strokes) != 1 {
		t.Fatalf("strokes = %d, want 1", len(pt.strokes))
	}
	alpha := pt.strokes[0].alpha
	if alpha <= 0 || alpha >= f.cfg.Particles.Alpha {
		t.Errorf("far-half alpha = %v, want strictly inside (0,%v)", alpha, f.cfg.Particles.Alpha)
	}
	want := f.cfg.Particles.Alpha * (100 - 90) / 50
	if math.Abs(alpha-want) > 1e-9 {
		t.Errorf("alpha = %v, want %v", alpha, want)
	}
}

func TestConnectionsAlphaDecreasesWithDistance(t *testing.T) {
	alphaAt := func(d float64) float64 {
		f, pt := connectionField(t, 400, 300, &Options{
			Particles: ParticleOptions{ConnectDistance: Ptr(100.0)},
		})
		place(f, 100, 100)
		place(f, 100+d, 100)
		f.drawConnections()
		if len(pt.strokes) != 1 {
			t.Fatalf("distance %v: strokes = %d, want 1", d, len(pt.strokes))
		}
		return pt.strokes[0].alpha
	}
	if a90, a95 := alphaAt(90), alphaAt(95); a95 >= a90 {
		t.Errorf("alpha should fall toward the boundary: alpha(90)=%v alpha(95)=%v", a90, a95)
	}
}

func TestConnectionsBeyondDistanceSkipped(t *testing.T) {
	f, pt := connectionField(t, 400, 300, &Options{
		Particles: ParticleOptions{ConnectDistance: Ptr(100.0)},
	})
	place(f, 100, 100)
	place(f, 210, 100) // d=110 > connectDist
	f.drawConnections()
	if pt.segments != 0 {
		t.Errorf("segments = %d, want 0 beyond connect distance", pt.segments)
	}
}

func TestConnectionsMaxWorkZero(t *testing.T) {
	f, pt := connectionField(t, 400, 300, &Options{
		Particles: ParticleOptions{ConnectDistance: Ptr(100.0), MaxWork: Ptr(0.0)},
	})
	place(f, 100, 100)
	place(f, 110, 100)
	place(f, 120, 100)
	f.drawConnections()
	if pt.segments != 0 {
		t.Errorf("segments = %d, want 0 with MaxWork=0", pt.segments)
	}
}

func TestConnectionsWorkBudgetCapsLines(t *testing.T) {
	// budget of exactly one short line: the first pair consumes it and the
	// rest are suppressed
	f, pt := connectionField(t, 400, 300, &Options{
		Particles: ParticleOptions{ConnectDistance: Ptr(100.0), MaxWork: Ptr(0.01)},
	})
	place(f, 100, 100)
	place(f, 110, 100)
	place(f, 120, 100)
	place(f, 130, 100)
	f.drawConnections()
	// budget = 0.01 * 100² = 100 = one line of d=10
	if pt.segments >= 3 {
		t.Errorf("segments = %d, want fewer than the %d eligible pairs", pt.segments, 6)
	}
	if pt.segments == 0 {
		t.Error("budget should still allow the first line")
	}
}

func TestConnectionsOffscreenRowRejected(t *testing.T) {
	f, pt := connectionField(t, 400, 300, &Options{
		Particles: ParticleOptions{ConnectDistance: Ptr(100.0)},
	})
	// both particles in the band above the screen, same row
	place(f, 100, -50)
	place(f, 130, -50)
	f.drawConnections()
	if pt.segments != 0 {
		t.Errorf("segments = %d, want 0 for a line confined to one off-screen band", pt.segments)
	}
}

func TestConnectionsDrawAllOverridesCulling(t *testing.T) {
	// connect distance covers the whole surface, so even band-confined
	// pairs are eligible
	f, pt := connectionField(t, 80, 60, &Options{
		Particles: ParticleOptions{ConnectDistance: Ptr(100.0)},
	})
	place(f, 20, -10)
	place(f, 50, -10)
	f.drawConnections()
	if pt.segments != 1 {
		t.Errorf("segments = %d, want 1 with drawAll active", pt.segments)
	}
}

func TestRenderParticleShapes(t *testing.T) {
	f, pt := connectionField(t, 400, 300, nil)
	big := f.CreateParticle(100, 100, 0, 0, 3)
	small := f.CreateParticle(200, 100, 0, 0, 0.8)
	f.project(big)
	f.project(small)
	f.drawParticles()
	if pt.circles != 1 {
		t.Errorf("circles = %d, want 1", pt.circles)
	}
	if pt.rects != 1 {
		t.Errorf("rects = %d, want 1 (sub-pixel square)", pt.rects)
	}
}

func TestRenderInvisibleParticlesSkipped(t *testing.T) {
	f, pt := connectionField(t, 400, 300, nil)
	p := f.CreateParticle(100, -80, 0, 0, 3)
	f.project(p)
	f.drawParticles()
	if pt.circles != 0 || pt.rects != 0 {
		t.Error("off-screen particle was drawn")
	}
}

func TestRenderBackgroundAndLineToggle(t *testing.T) {
	f, pt := connectionField(t, 400, 300, &Options{
		Background: "black",
		Particles:  ParticleOptions{ConnectDistance: Ptr(100.0), DrawLines: Ptr(false)},
	})
	place(f, 100, 100)
	place(f, 120, 100)
	f.render()
	if pt.clears != 1 {
		t.Errorf("clears = %d, want 1", pt.clears)
	}
	if pt.rects != 1 {
		t.Errorf("rects = %d, want 1 background fill", pt.rects)
	}
	if pt.segments != 0 {
		t.Errorf("segments = %d, want 0 with DrawLines off", pt.segments)
	}
	if pt.fillHex != f.cfg.Particles.Hex {
		t.Errorf("final fill = %q, want particle color %q", pt.fillHex, f.cfg.Particles.Hex)
	}
}
