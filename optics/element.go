package optics

import "math"

// Sellmeier models wavelength-dependent refractive index through the
// Sellmeier dispersion equation n² = 1 + Σ bᵢλ²/(λ²−cᵢ).
//
// Wavelengths are in micrometers throughout.
type Sellmeier struct {
	B [3]float64
	C [3]float64
}

// Air returns the trivial dispersion of air: ior 1 at every wavelength.
func Air() Sellmeier {
	return Sellmeier{}
}

// IOR returns the refractive index at the given wavelength.
func (s Sellmeier) IOR(wavelength float64) float64 {
	wsq := wavelength * wavelength
	nsq := 1.0
	for i := 0; i < 3; i++ {
		nsq += s.B[i] * wsq / (wsq - s.C[i])
	}
	return math.Sqrt(nsq)
}

// Coating is a single-layer quarter-wave anti-reflective coating on a
// glass surface.
type Coating struct {
	IOR       float64
	Thickness float64
}

// NoCoating returns a coating that is infinitely thin and so does nothing.
func NoCoating() Coating {
	return Coating{IOR: 1}
}

// OptimalCoating returns the quarter-wave coating minimizing reflectance
// between media of index n0 and n2 at the design wavelength lambda0.
// The coating index is floored at 1.23, just under MgF2 territory, so
// low-index media pairs still get a physical layer.
func OptimalCoating(n0, n2, lambda0 float64) Coating {
	n1 := math.Max(math.Sqrt(n0*n2), 1.23)
	return Coating{IOR: n1, Thickness: lambda0 / 4 / n1}
}

// Properties describes what kind of optical interface an element is:
// a refracting glass surface or the aperture stop.
type Properties interface {
	isProperties()
}

// Glass is a refracting (and, on ghost paths, partially reflecting)
// surface between two media.
type Glass struct {
	Sellmeier Sellmeier
	// OuterIOR is the dispersion of the medium on the other side of the
	// interface, usually air.
	OuterIOR Sellmeier
	Coating  Coating
	// Entry is true when a ray travelling +z enters the glass at this
	// surface, false when it exits.
	Entry bool
	// Spherical is false for cylindrical (anamorphic) surfaces, whose
	// curvature does not affect x.
	Spherical bool
}

// Aperture is a polygonal diaphragm clipping rays outside a regular
// Blades-gon inscribed at Radius.
type Aperture struct {
	Blades int
	Radius float64
}

func (Glass) isProperties()    {}
func (Aperture) isProperties() {}

// Element is one optical interface of a lens system. The sign of Radius
// encodes the curvature direction; Position is the on-axis z of the
// surface vertex. Elements are immutable once a lens is built.
type Element struct {
	Radius   float64
	Position float64
	Props    Properties
}
