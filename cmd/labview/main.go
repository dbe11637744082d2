// Command labview is an interactive SDL2 viewer for the five rasterizer
// engines, letting a developer A/B compare their output on the same
// polygon scene. Grounded on the teacher library's internal/platform/sdl2
// backend for the window/renderer/streaming-texture setup, trimmed to a
// single window and a plain event loop since this viewer has no need for
// agg_go's multi-backend PlatformSupport abstraction.
package main

import (
	"log"
	"math"
	"math/rand"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/rasterlab/rasterlab"
	"github.com/rasterlab/rasterlab/internal/ddfi"
	"github.com/rasterlab/rasterlab/internal/efaa"
	"github.com/rasterlab/rasterlab/internal/hsgr"
	"github.com/rasterlab/rasterlab/internal/scdt"
	"github.com/rasterlab/rasterlab/internal/ssaa"
)

const (
	winWidth  = 512
	winHeight = 512
)

type namedEngine struct {
	name   string
	engine rasterlab.Engine
}

func buildEngines() []namedEngine {
	return []namedEngine{
		{"DDFI", ddfi.New(winWidth, winHeight)},
		{"EFAA", efaa.New(winWidth, winHeight)},
		{"HSGR", hsgr.New(winWidth, winHeight)},
		{"SCDT", scdt.New(winWidth, winHeight)},
		{"SSAA", ssaa.New(winWidth, winHeight)},
	}
}

// scene holds a small set of polygons drawn into whichever engine is
// active, regenerated with new colors and a new rotation offset on 'r'.
type scene struct {
	polys  [][]float64
	colors []uint32
}

func randomScene(rng *rand.Rand) scene {
	cx, cy := float64(winWidth)/2, float64(winHeight)/2
	s := scene{}
	for i := 0; i < 5; i++ {
		sides := 3 + rng.Intn(5)
		radius := 40.0 + rng.Float64()*140
		ox := cx + (rng.Float64()-0.5)*260
		oy := cy + (rng.Float64()-0.5)*260
		rot := rng.Float64() * 6.28318
		verts := make([]float64, 0, sides*2)
		for k := 0; k < sides; k++ {
			theta := rot + float64(k)*6.28318/float64(sides)
			verts = append(verts, ox+radius*math.Cos(theta), oy+radius*math.Sin(theta))
		}
		s.polys = append(s.polys, verts)
		a := uint32(120 + rng.Intn(136))
		r := uint32(rng.Intn(256))
		g := uint32(rng.Intn(256))
		b := uint32(rng.Intn(256))
		s.colors = append(s.colors, a<<24|r<<16|g<<8|b)
	}
	return s
}

func render(e rasterlab.Engine, s scene) {
	e.Clear(0xff101010)
	for i, verts := range s.polys {
		e.DrawPolygon(verts, s.colors[i])
	}
}

func main() {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.Fatalf("sdl init: %v", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"rasterlab — engine viewer",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(winWidth), int32(winHeight),
		sdl.WINDOW_SHOWN)
	if err != nil {
		log.Fatalf("create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			log.Fatalf("create renderer: %v", err)
		}
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_ARGB8888),
		sdl.TEXTUREACCESS_STREAMING,
		int32(winWidth), int32(winHeight))
	if err != nil {
		log.Fatalf("create texture: %v", err)
	}
	defer texture.Destroy()

	engines := buildEngines()
	active := 0
	rng := rand.New(rand.NewSource(1))
	sc := randomScene(rng)
	render(engines[active].engine, sc)

	log.Println("controls: left/right arrow cycles engine, r reseeds the scene, esc quits")

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch ev := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if ev.Type != sdl.KEYDOWN {
					continue
				}
				switch ev.Keysym.Sym {
				case sdl.K_ESCAPE:
					running = false
				case sdl.K_LEFT:
					active = (active - 1 + len(engines)) % len(engines)
					render(engines[active].engine, sc)
				case sdl.K_RIGHT:
					active = (active + 1) % len(engines)
					render(engines[active].engine, sc)
				case sdl.K_r:
					sc = randomScene(rng)
					render(engines[active].engine, sc)
				}
			}
		}

		buf := engines[active].engine.Buffer()
		pitch := winWidth * 4
		if err := texture.Update(nil, unsafe.Pointer(&buf[0]), pitch); err != nil {
			log.Fatalf("texture update: %v", err)
		}

		window.SetTitle("rasterlab — " + engines[active].name)
		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()
		sdl.Delay(16)
	}
}
