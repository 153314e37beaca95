package optics

import (
	"math"
	"sort"

	lin "github.com/sgreben/piecewiselinear"
)

// SensorSample is one measured color response of the sensor at a
// wavelength (micrometers).
type SensorSample struct {
	Wavelength float64
	R, G, B    float64
}

// SensorResponse interpolates the sensor's color response between
// measured wavelength samples. It is read-only after construction and
// safe for concurrent lookups.
type SensorResponse struct {
	r, g, b  lin.Function
	min, max float64
}

// NewSensorResponse builds an interpolated response from samples,
// sorting them by wavelength first.
func NewSensorResponse(samples []SensorSample) SensorResponse {
	sorted := make([]SensorSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Wavelength < sorted[j].Wavelength
	})

	x := make([]float64, len(sorted))
	r := make([]float64, len(sorted))
	g := make([]float64, len(sorted))
	b := make([]float64, len(sorted))
	for i, s := range sorted {
		x[i] = s.Wavelength
		r[i] = s.R
		g[i] = s.G
		b[i] = s.B
	}
	return SensorResponse{
		r:   lin.Function{X: x, Y: r},
		g:   lin.Function{X: x, Y: g},
		b:   lin.Function{X: x, Y: b},
		min: x[0],
		max: x[len(x)-1],
	}
}

// At returns the interpolated rgb response at the given wavelength.
// Wavelengths outside the sampled range clamp to the nearest sample.
func (s SensorResponse) At(wavelength float64) (r, g, b float64) {
	w := math.Min(math.Max(wavelength, s.min), s.max)
	return s.r.At(w), s.g.At(w), s.b.At(w)
}

// WavelengthToRGB converts a wavelength in micrometers to linear rgb in
// [0, 1], after Earl F. Glynn's spectra lab report.
func WavelengthToRGB(wavelength float64) (r, g, b float64) {
	// the table is in nanometers
	w := wavelength * 1000
	const gamma = 0.8

	switch {
	case w >= 380 && w < 440:
		r = -(w - 440) / (440 - 380)
		b = 1
	case w >= 440 && w < 490:
		g = (w - 440) / (490 - 440)
		b = 1
	case w >= 490 && w < 510:
		g = 1
		b = -(w - 510) / (510 - 490)
	case w >= 510 && w < 580:
		r = (w - 510) / (580 - 510)
		g = 1
	case w >= 580 && w < 645:
		r = 1
		g = -(w - 645) / (645 - 580)
	case w >= 645 && w < 781:
		r = 1
	}

	// intensity falls off near the vision limits
	factor := 0.0
	switch {
	case w >= 380 && w < 420:
		factor = 0.3 + 0.7*(w-380)/(420-380)
	case w >= 420 && w < 701:
		factor = 1
	case w >= 701 && w < 781:
		factor = 0.3 + 0.7*(780-w)/(780-700)
	}

	pow := func(c float64) float64 {
		if c == 0 {
			return 0
		}
		return math.Pow(c*factor, gamma)
	}
	return pow(r), pow(g), pow(b)
}

// DefaultSensor samples WavelengthToRGB across the visible range.
func DefaultSensor() SensorResponse {
	var samples []SensorSample
	for w := 0.38; w <= 0.781; w += 0.005 {
		r, g, b := WavelengthToRGB(w)
		samples = append(samples, SensorSample{Wavelength: w, R: r, G: g, B: b})
	}
	return NewSensorResponse(samples)
}
