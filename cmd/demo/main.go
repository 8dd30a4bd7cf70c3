package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	particlenet "github.com/olivierh59500/particle-net-go"
	"github.com/olivierh59500/particle-net-go/ebitencanvas"
)

// demoConfig is the TOML file layout; the Options section feeds the field
// resolver unchanged.
type demoConfig struct {
	Width, Height int
	Options       particlenet.Options
}

var defaultDemo = demoConfig{Width: 800, Height: 600}

func loadConfig(path string) demoConfig {
	conf := defaultDemo
	if path == "" {
		return conf
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		log.Printf("demo: %v, using defaults", err)
		return defaultDemo
	}
	return conf
}

type game struct {
	canvas *ebitencanvas.Canvas
	field  *particlenet.Field
	w, h   int
}

func (g *game) Update() error {
	mx, my := ebiten.CursorPosition()
	g.canvas.PointerMoved(float64(mx), float64(my))
	g.canvas.SetInView(ebiten.IsFocused())
	g.handleInput()
	g.canvas.Tick(time.Now())
	return nil
}

func (g *game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if !g.field.Stop(false) {
			g.field.Start()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		// shift+N also drops manually created particles
		clear := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
		if err := g.field.NewParticles(clear); err != nil {
			log.Printf("demo: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		cfg := g.field.Config()
		cfg.Particles.DrawLines = !cfg.Particles.DrawLines
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		cfg := g.field.Config()
		if cfg.Gravity.Repulsive > 0 {
			cfg.Gravity.Repulsive = 0
		} else {
			cfg.Gravity.Repulsive = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		x, y := ebiten.CursorPosition()
		nan := math.NaN()
		g.field.CreateParticle(float64(x), float64(y), nan, nan, nan)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.canvas.Image(), nil)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS %.1f  particles %d\n[space] run  [n] new  [l] lines  [g] gravity  [c] create",
		ebiten.ActualFPS(), len(g.field.Particles())))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		g.canvas.Resize(outsideWidth, outsideHeight)
	}
	return g.w, g.h
}

func main() {
	configPath := flag.String("config", "", "TOML options file")
	seed := flag.Uint64("seed", 0, "random seed (0 = time-based)")
	flag.Parse()

	if *seed != 0 {
		particlenet.Seed(uint32(*seed))
	}

	conf := loadConfig(*configPath)
	canvas := ebitencanvas.New(conf.Width, conf.Height)
	field, err := particlenet.New(canvas, &conf.Options)
	if err != nil {
		log.Fatal(err)
	}
	field.Start()

	ebiten.SetWindowSize(conf.Width, conf.Height)
	ebiten.SetWindowTitle("Particle Net")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(&game{canvas: canvas, field: field, w: conf.Width, h: conf.Height}); err != nil {
		log.Fatal(err)
	}
}
