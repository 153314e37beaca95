package main

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/flarelab/go-lensflare/optics"
	"github.com/flarelab/go-lensflare/optics/config"
	"github.com/flarelab/go-lensflare/poly"
)

var CLI struct {
	Trace  TraceCmd  `cmd:"" help:"Trace a lens system and render its flare ghosts"`
	Ghosts GhostsCmd `cmd:"" help:"List the ghost reflection pairs of a lens system"`
	Rays   RaysCmd   `cmd:"" help:"Render a y/z cross-section of one ghost's ray paths"`
	Fit    FitCmd    `cmd:"" help:"Fit a sparse polynomial to the traced sensor mapping"`
}

func saveImage(filename string, i image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, i)
}

func loadLens(path string) (*config.LensConfig, *optics.Lens, error) {
	cfg, err := config.LoadFromFile(path, config.LoadOptions{ValidateImmediately: true})
	if err != nil {
		return nil, nil, err
	}
	lens, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return cfg, lens, nil
}

type TraceCmd struct {
	Lens     string  `arg:"" name:"lens" help:"lens description yaml"`
	Out      string  `name:"out" default:"flare.png" help:"tone-mapped output image"`
	EXR      string  `name:"exr" help:"optional HDR output image"`
	Chart    string  `name:"chart" help:"optional per-ghost strength chart"`
	Size     int     `name:"size" default:"1024" help:"output image side length"`
	Ghost    int     `name:"ghost" help:"ghost number to render; 0 renders all"`
	Direct   bool    `name:"direct" help:"also trace the direct (non-ghost) path"`
	Exposure float64 `name:"exposure" default:"50" help:"tone-mapping exposure"`
}

func (c TraceCmd) Run() error {
	cfg, lens, err := loadLens(c.Lens)
	if err != nil {
		return err
	}

	tc := optics.TraceConfig{
		Side:       cfg.Sampling.Side,
		Width:      cfg.Sampling.Width,
		Direction:  optics.V(0, 0, 1),
		Wavelength: cfg.Sampling.Wavelength,
		SensorZ:    cfg.Sensor.Position,
		DrawGhosts: true,
		DrawDirect: c.Direct,
		WhichGhost: c.Ghost,
	}
	records := lens.TracePass(tc)
	segments := tc.Segments(lens)

	// density-correct each ghost's grid before splatting
	cell := tc.Width / float64(tc.Side)
	refArea := cell * cell / 2
	for slot := 0; slot < segments; slot++ {
		points := optics.GhostPoints(records, segments, slot)
		optics.NormalizeDensity(points, tc.Side, refArea)
		for i := range points {
			records[i*segments+slot].Strength = points[i].Strength
		}
	}

	img := optics.NewFlareImage(c.Size, c.Size)
	img.Splat(records, cfg.Sensor.Extent, optics.DefaultSensor())
	if err := img.SavePNG(c.Out, c.Exposure); err != nil {
		return err
	}
	if c.EXR != "" {
		if err := img.SaveEXR(c.EXR); err != nil {
			return err
		}
	}
	if c.Chart != "" {
		chart, err := optics.PlotGhostStrengths(records, segments, 800, 600)
		if err != nil {
			return err
		}
		if err := saveImage(c.Chart, chart); err != nil {
			return err
		}
	}
	return nil
}

type GhostsCmd struct {
	Lens string `arg:"" name:"lens" help:"lens description yaml"`
}

func (c GhostsCmd) Run() error {
	_, lens, err := loadLens(c.Lens)
	if err != nil {
		return err
	}
	for _, g := range lens.Ghosts() {
		fmt.Printf("ghost %3d: reflect at %d, reflect at %d\n", g.Number, g.J, g.I)
	}
	return nil
}

type RaysCmd struct {
	Lens  string `arg:"" name:"lens" help:"lens description yaml"`
	Ghost int    `name:"ghost" default:"1" help:"ghost number to draw"`
	Out   string `name:"out" default:"rays.png" help:"output image"`
	Rays  int    `name:"rays" default:"200" help:"number of rays to draw"`
	Size  int    `name:"size" default:"1024" help:"output image side length"`
}

func (c RaysCmd) Run() error {
	cfg, lens, err := loadLens(c.Lens)
	if err != nil {
		return err
	}
	ghosts := lens.SelectGhosts(c.Ghost)
	if len(ghosts) == 0 {
		return fmt.Errorf("no ghost with number %d", c.Ghost)
	}
	img := optics.DrawLensRays(lens, ghosts[0], c.Rays, cfg.Sampling.Width, c.Size)
	return saveImage(c.Out, img)
}

type FitCmd struct {
	Lens   string `arg:"" name:"lens" help:"lens description yaml"`
	Ghost  int    `name:"ghost" default:"1" help:"ghost number to fit"`
	Degree int    `name:"degree" default:"4" help:"dense basis degree"`
	Terms  int    `name:"terms" default:"12" help:"sparse term count per output"`
}

// Run fits sensor x and y as sparse polynomials in the ray's origin
// offset (x, y) and direction tilt (x, y), then reports the residuals.
func (c FitCmd) Run() error {
	cfg, lens, err := loadLens(c.Lens)
	if err != nil {
		return err
	}
	ghosts := lens.SelectGhosts(c.Ghost)
	if len(ghosts) == 0 {
		return fmt.Errorf("no ghost with number %d", c.Ghost)
	}
	ghost := ghosts[0]

	// a coarse grid per input dimension keeps the sample count sane
	// while still covering the 4D input domain
	const side = 8
	width := cfg.Sampling.Width
	const tilt = 0.2

	var sx, sy []poly.FitSample
	for dy := 0; dy < side; dy++ {
		for dx := 0; dx < side; dx++ {
			for oy := 0; oy < side; oy++ {
				for ox := 0; ox < side; ox++ {
					in := [4]float64{
						float64(ox)/float64(side)*width - width/2,
						float64(oy)/float64(side)*width - width/2,
						float64(dx)/float64(side)*tilt - tilt/2,
						float64(dy)/float64(side)*tilt - tilt/2,
					}
					ray := optics.NewRay(
						optics.V(in[0], in[1], 0),
						optics.V(in[2], in[3], 1),
						cfg.Sampling.Wavelength,
					)
					lens.TraceGhost(&ray, ghost)
					if ray.Dead() {
						continue
					}
					x, y := ray.IntersectPlane(cfg.Sensor.Position)
					sx = append(sx, poly.FitSample{In: in, Out: x})
					sy = append(sy, poly.FitSample{In: in, Out: y})
				}
			}
		}
	}

	termsX, err := poly.FitSparse(c.Degree, c.Terms, sx)
	if err != nil {
		return err
	}
	termsY, err := poly.FitSparse(c.Degree, c.Terms, sy)
	if err != nil {
		return err
	}
	p := poly.New(termsX, termsY)
	fmt.Printf("ghost %d: %d samples\n", ghost.Number, len(sx))
	fmt.Printf("sensor x: rms %.6g over %d terms\n", p.RMSError(sx, 0), p.NumTerms)
	fmt.Printf("sensor y: rms %.6g over %d terms\n", p.RMSError(sy, 1), p.NumTerms)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)
	err := ctx.Run()
	if err != nil {
		log.Fatal(err)
	}
}
