package optics

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fogleman/gg"
	"github.com/mrjoshuak/go-openexr/exr"
)

// FlareImage accumulates traced sensor points into an HDR rgb buffer.
// Splatting is additive; many faint ghosts sum into the final flare.
type FlareImage struct {
	W, H int
	// rgb triples, row-major
	Pix []float64
}

func NewFlareImage(w, h int) *FlareImage {
	return &FlareImage{W: w, H: h, Pix: make([]float64, w*h*3)}
}

// Splat adds every live record to the buffer, mapping sensor
// coordinates [-extent, extent] onto the image and coloring by the
// sensor's wavelength response.
func (f *FlareImage) Splat(records []PointRecord, extent float64, sensor SensorResponse) {
	for _, rec := range records {
		if rec.Strength <= 0 {
			continue
		}
		x := int((rec.X/extent + 1) / 2 * float64(f.W))
		y := int((rec.Y/extent + 1) / 2 * float64(f.H))
		if x < 0 || x >= f.W || y < 0 || y >= f.H {
			continue
		}
		r, g, b := sensor.At(rec.Wavelength)
		i := (y*f.W + x) * 3
		f.Pix[i] += r * rec.Strength
		f.Pix[i+1] += g * rec.Strength
		f.Pix[i+2] += b * rec.Strength
	}
}

// Image tone-maps the buffer to a display image. The gg context is also
// what lens cross-section overlays draw onto.
func (f *FlareImage) Image(exposure float64) image.Image {
	c := gg.NewContext(f.W, f.H)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			i := (y*f.W + x) * 3
			c.SetRGB(
				math.Min(f.Pix[i]*exposure, 1),
				math.Min(f.Pix[i+1]*exposure, 1),
				math.Min(f.Pix[i+2]*exposure, 1),
			)
			c.SetPixel(x, y)
		}
	}
	return c.Image()
}

// SavePNG writes the tone-mapped buffer as PNG.
func (f *FlareImage) SavePNG(filename string, exposure float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, f.Image(exposure))
}

// SaveEXR writes the unclamped HDR buffer as OpenEXR.
func (f *FlareImage) SaveEXR(filename string) error {
	img := exr.NewRGBAImage(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			i := (y*f.W + x) * 3
			img.SetRGBA(x, y, float32(f.Pix[i]), float32(f.Pix[i+1]), float32(f.Pix[i+2]), 1)
		}
	}
	return exr.EncodeFile(filename, img)
}

// DrawLensRays renders a y/z cross-section of rays traced through the
// lens: the full ghost path of each sampled ray, with stroke alpha
// following the ray's remaining strength.
func DrawLensRays(l *Lens, g Ghost, numRays int, width float64, size int) image.Image {
	c := gg.NewContext(size, size)
	c.SetRGB(0, 0, 0)
	c.Clear()

	midZ := float64(size) / 4
	midY := float64(size) / 2
	scale := float64(size) / 10

	for n := 0; n < numRays; n++ {
		oy := float64(n)/float64(numRays)*width - width/2
		ray := NewRay(V(0, oy, -5), V(0, 0, 1), 0.55)
		path := l.GhostPath(&ray, g)
		for i := 0; i < len(path)-1; i++ {
			a, b := path[i], path[i+1]
			if b.Dead() {
				break
			}
			c.SetRGBA(0.5, 0.5, 1, math.Sqrt(a.Strength))
			c.SetLineWidth(1)
			c.DrawLine(midZ+scale*a.Origin.Z, midY+scale*a.Origin.Y,
				midZ+scale*b.Origin.Z, midY+scale*b.Origin.Y)
			c.Stroke()
		}
	}
	return c.Image()
}

// ghostStrengths is a plotter.Valuer over per-ghost peak strengths.
type ghostStrengths struct {
	peaks []float64
}

func (v ghostStrengths) Len() int            { return len(v.peaks) }
func (v ghostStrengths) Value(i int) float64 { return v.peaks[i] }

// PlotGhostStrengths charts the peak sensor-plane strength of every
// ghost in the pass buffer as a bar chart.
func PlotGhostStrengths(records []PointRecord, segments int, X, Y int) (image.Image, error) {
	v := ghostStrengths{peaks: make([]float64, segments)}
	for i, rec := range records {
		slot := i % segments
		if rec.Strength > v.peaks[slot] {
			v.peaks[slot] = rec.Strength
		}
	}

	p := plot.New()
	p.Title.Text = "Ghost strengths"
	p.X.Label.Text = "Ghost number"
	p.Y.Label.Text = "Peak strength"

	bars, err := plotter.NewBarChart(v, vg.Points(3))
	if err != nil {
		return nil, err
	}
	p.Add(bars)

	tmpdir, err := os.MkdirTemp("", "lensflare")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpdir)

	out := path.Join(tmpdir, "ghosts.png")
	if err := p.Save(font.Length(X), font.Length(Y), out); err != nil {
		return nil, err
	}
	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("reading plot: %w", err)
	}
	defer f.Close()
	return png.Decode(f)
}
