package particlenet

import (
	"math"
	"time"
)

// Rand is a mulberry32 generator. Fast, two multiplies per draw, good
// enough distribution for particle attributes and jitter.
type Rand struct {
	state uint32
}

// NewRand returns a generator seeded with the given value.
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Next returns a float64 in [0,1).
func (r *Rand) Next() float64 {
	r.state += 0x6d2b79f5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / (1 << 32)
}

// Range returns a float64 in [lo,hi).
func (r *Rand) Range(lo, hi float64) float64 {
	return lo + r.Next()*(hi-lo)
}

// Angle returns a direction in [0,2π).
func (r *Rand) Angle() float64 {
	return r.Next() * 2 * math.Pi
}

// rng is shared by every Field in the process. Particle creation and
// per-frame direction jitter both draw from it, so a fixed seed reproduces
// a whole run at a fixed frame rate.
var rng = NewRand(uint32(time.Now().UnixNano()))

// Seed reseeds the shared generator.
func Seed(seed uint32) {
	rng = NewRand(seed)
}
