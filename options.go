package particlenet

import (
	"errors"
	"log"
	"math"
)

// MouseMode selects how the pointer displaces nearby particles.
type MouseMode int

const (
	// MouseNone disables pointer interaction entirely.
	MouseNone MouseMode = iota
	// MouseShift displaces only the rendered position.
	MouseShift
	// MouseMove commits the displacement into the logical position.
	MouseMove
)

// GenPolicy controls how the auto-generated population reacts to resizes
// and explicit reconciliation calls.
type GenPolicy int

const (
	// GenMatchCount grows or shrinks the population incrementally,
	// preserving continuity of motion.
	GenMatchCount GenPolicy = iota
	// GenRegenerate discards and recreates the auto subset every time.
	GenRegenerate
	// GenManual never auto-populates; the caller owns the particle set.
	GenManual
)

// ErrBadBackground is returned when a background value is neither false
// nor a color string.
var ErrBadBackground = errors.New("particlenet: background must be false or a color string")

// Options is the sparse configuration input. Nil fields keep their
// defaults; out-of-range values are clamped with a logged warning and
// non-finite values fall back silently. Background accepts nil, false or a
// CSS-style color string.
type Options struct {
	Background   any
	StartOnEnter *bool
	StopOnLeave  *bool
	Mouse        MouseOptions
	Particles    ParticleOptions
	Gravity      GravityOptions
}

type MouseOptions struct {
	Interaction     *MouseMode
	ConnectDistMult *float64
	DistRatio       *float64
}

type ParticleOptions struct {
	Generate        *GenPolicy
	DrawLines       *bool
	Color           *string
	PPM             *float64
	Max             *float64
	MaxWork         *float64
	ConnectDistance *float64
	RelSpeed        *float64
	RelSize         *float64
	RotationSpeed   *float64
	SmoothJitter    *bool
}

type GravityOptions struct {
	Repulsive *float64
	Pulling   *float64
	Friction  *float64
}

// Ptr wraps a value for an optional Options field.
func Ptr[T any](v T) *T { return &v }

// Config is a fully resolved configuration. Fields may be edited directly
// between frames for advanced tuning; such edits are caller-validated.
// Field.Apply is the validating path.
type Config struct {
	// Background is an opaque hex color, or "" for a transparent surface.
	Background   string
	StartOnEnter bool
	StopOnLeave  bool

	Mouse     MouseConfig
	Particles ParticleConfig
	Gravity   GravityConfig
}

type MouseConfig struct {
	Interaction     MouseMode
	ConnectDistMult float64
	// ConnectDist is the absolute interaction radius, derived from
	// Particles.ConnectDist * ConnectDistMult.
	ConnectDist float64
	DistRatio   float64
}

type ParticleConfig struct {
	Generate      GenPolicy
	DrawLines     bool
	Hex           string
	Alpha         float64
	PPM           float64
	Max           int
	MaxWork       float64
	ConnectDist   float64
	RelSpeed      float64
	RelSize       float64
	RotationSpeed float64
	SmoothJitter  bool
}

type GravityConfig struct {
	Repulsive float64
	Pulling   float64
	Friction  float64
}

const (
	defColor       = "#ffffff"
	defPPM         = 120.0
	defMax         = 300.0
	defMaxWork     = 10.0
	defConnectDist = 100.0
	defRelSpeed    = 1.0
	defRelSize     = 1.0
	defRotSpeed    = 0.02
	defConnectMult = 2.0 / 3.0
	defDistRatio   = 1.0
	defFriction    = 0.9
)

// ResolveOptions expands a sparse Options into a fully populated Config.
// It is a pure function of its input: resolving the same Options twice
// yields identical configurations.
func ResolveOptions(o *Options) (*Config, error) {
	if o == nil {
		o = &Options{}
	}
	cfg := &Config{
		StartOnEnter: resolveBool(o.StartOnEnter, true),
		StopOnLeave:  resolveBool(o.StopOnLeave, true),
	}

	switch bg := o.Background.(type) {
	case nil:
	case bool:
		if bg {
			return nil, ErrBadBackground
		}
	case string:
		hex, _, err := resolveColor(bg)
		if err != nil {
			log.Printf("particlenet: background: %v, leaving transparent", err)
		} else {
			cfg.Background = hex
		}
	default:
		return nil, ErrBadBackground
	}

	m := &cfg.Mouse
	m.Interaction = resolveMode(o.Mouse.Interaction, MouseShift)
	m.ConnectDistMult = resolveFloat(o.Mouse.ConnectDistMult, defConnectMult, 0, 10, "mouse.connectDistMult")
	m.DistRatio = resolveFloat(o.Mouse.DistRatio, defDistRatio, 0, 10, "mouse.distRatio")

	p := &cfg.Particles
	p.Generate = resolvePolicy(o.Particles.Generate, GenMatchCount)
	p.DrawLines = resolveBool(o.Particles.DrawLines, true)
	p.Hex, p.Alpha = defColor, 1
	if o.Particles.Color != nil {
		hex, alpha, err := resolveColor(*o.Particles.Color)
		if err != nil {
			log.Printf("particlenet: particle color: %v, using %s", err, defColor)
		} else {
			p.Hex, p.Alpha = hex, alpha
		}
	}
	p.PPM = resolveFloat(o.Particles.PPM, defPPM, 0, 5000, "particles.ppm")
	p.Max = int(resolveFloat(o.Particles.Max, defMax, 0, 10000, "particles.max"))
	p.MaxWork = resolveFloat(o.Particles.MaxWork, defMaxWork, 0, 1e6, "particles.maxWork")
	p.ConnectDist = resolveFloat(o.Particles.ConnectDistance, defConnectDist, 0, 10000, "particles.connectDistance")
	p.RelSpeed = resolveFloat(o.Particles.RelSpeed, defRelSpeed, 0.05, 10, "particles.relSpeed")
	p.RelSize = resolveFloat(o.Particles.RelSize, defRelSize, 0.05, 10, "particles.relSize")
	p.RotationSpeed = resolveFloat(o.Particles.RotationSpeed, defRotSpeed, 0, 1, "particles.rotationSpeed")
	p.SmoothJitter = resolveBool(o.Particles.SmoothJitter, false)

	g := &cfg.Gravity
	g.Repulsive = resolveFloat(o.Gravity.Repulsive, 0, 0, 100, "gravity.repulsive")
	g.Pulling = resolveFloat(o.Gravity.Pulling, 0, 0, 100, "gravity.pulling")
	g.Friction = resolveFloat(o.Gravity.Friction, defFriction, 0, 1, "gravity.friction")

	m.ConnectDist = p.ConnectDist * m.ConnectDistMult
	return cfg, nil
}

func resolveFloat(v *float64, def, lo, hi float64, name string) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return def
	}
	if c := clamp(*v, lo, hi); c != *v {
		log.Printf("particlenet: %s=%v clamped to %v", name, *v, c)
		return c
	}
	return *v
}

func resolveBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func resolveMode(v *MouseMode, def MouseMode) MouseMode {
	if v == nil {
		return def
	}
	if *v < MouseNone || *v > MouseMove {
		log.Printf("particlenet: mouse.interaction=%d out of range, using %d", *v, def)
		return def
	}
	return *v
}

func resolvePolicy(v *GenPolicy, def GenPolicy) GenPolicy {
	if v == nil {
		return def
	}
	if *v < GenMatchCount || *v > GenManual {
		log.Printf("particlenet: particles.generate=%d out of range, using %d", *v, def)
		return def
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
