package optics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monochromeSensor() SensorResponse {
	return NewSensorResponse([]SensorSample{
		{Wavelength: 0.4, R: 1, G: 1, B: 1},
		{Wavelength: 0.7, R: 1, G: 1, B: 1},
	})
}

func TestSplatAccumulates(t *testing.T) {
	assert := assert.New(t)

	img := NewFlareImage(4, 4)
	records := []PointRecord{
		{X: 0, Y: 0, Strength: 0.5, Wavelength: 0.55},
		{X: 0, Y: 0, Strength: 0.25, Wavelength: 0.55},
	}
	img.Splat(records, 1, monochromeSensor())

	// both records land on the center pixel and add up
	i := (2*4 + 2) * 3
	assert.InDelta(0.75, img.Pix[i], 1e-9)
	assert.InDelta(0.75, img.Pix[i+1], 1e-9)
	assert.InDelta(0.75, img.Pix[i+2], 1e-9)
}

func TestSplatSkipsDeadAndOffSensor(t *testing.T) {
	assert := assert.New(t)

	img := NewFlareImage(4, 4)
	img.Splat([]PointRecord{
		{X: 0, Y: 0, Strength: 0, Wavelength: 0.55},
		{X: 5, Y: 0, Strength: 1, Wavelength: 0.55},
		{X: 0, Y: -5, Strength: 1, Wavelength: 0.55},
	}, 1, monochromeSensor())

	for _, v := range img.Pix {
		assert.Equal(0.0, v)
	}
}

func TestImageToneMapsAndClamps(t *testing.T) {
	assert := assert.New(t)

	img := NewFlareImage(2, 2)
	img.Pix[0] = 10 // far over the displayable range

	out := img.Image(1)
	r, _, _, _ := out.At(0, 0).RGBA()
	assert.Equal(uint32(0xffff), r)

	r, g, b, _ := out.At(1, 1).RGBA()
	assert.Equal(uint32(0), r)
	assert.Equal(uint32(0), g)
	assert.Equal(uint32(0), b)
}

func TestDrawLensRays(t *testing.T) {
	lens := NewLens([]Element{flatGlass(1, true, 1.5), flatGlass(2, false, 1.5)})
	ghost := lens.Ghosts()[0]

	img := DrawLensRays(lens, ghost, 8, 0.5, 64)
	require.NotNil(t, img)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestPlotGhostStrengths(t *testing.T) {
	records := []PointRecord{
		{Strength: 0.1}, {Strength: 0.4},
		{Strength: 0.3}, {Strength: 0.2},
	}
	img, err := PlotGhostStrengths(records, 2, 400, 300)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestSaveImages(t *testing.T) {
	img := NewFlareImage(4, 4)
	img.Pix[0] = 0.5

	dir := t.TempDir()
	require.NoError(t, img.SavePNG(dir+"/flare.png", 1))
	require.NoError(t, img.SaveEXR(dir+"/flare.exr"))
}
