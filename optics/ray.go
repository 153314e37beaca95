package optics

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// Ray is the mutable state threaded through a lens system. Its
// direction stays a unit vector across interfaces; Strength only ever
// decreases. A terminated ray has a zero direction and zero strength.
type Ray struct {
	Origin pt.Vector
	Dir    pt.Vector
	// Wavelength in micrometers
	Wavelength float64
	Strength   float64
	// Aperture is the ray's position at the aperture stop plane,
	// normalized by the aperture radius. Used for aperture texturing.
	Aperture [2]float64
}

// NewRay returns a full-strength ray with a normalized direction.
func NewRay(origin, dir pt.Vector, wavelength float64) Ray {
	return Ray{
		Origin:     origin,
		Dir:        dir.Normalize(),
		Wavelength: wavelength,
		Strength:   1,
	}
}

// Dead reports whether the ray has been terminated by total internal
// reflection, a missed surface, or the aperture stop.
func (r *Ray) Dead() bool {
	return r.Strength <= 0 || (r.Dir.X == 0 && r.Dir.Y == 0 && r.Dir.Z == 0)
}

// kill terminates the ray. Propagation treats this as ray death, never
// as an error; dead rays still occupy their output slots.
func (r *Ray) kill() {
	r.Dir = pt.Vector{}
	r.Strength = 0
}

// IntersectPlane returns the x/y position where the ray crosses the
// given z plane.
func (r *Ray) IntersectPlane(z float64) (float64, float64) {
	t := (z - r.Origin.Z) / r.Dir.Z
	p := r.Origin.Add(r.Dir.MulScalar(t))
	return p.X, p.Y
}

// movePlane advances the ray origin onto the given z plane.
func (r *Ray) movePlane(z float64) {
	t := (z - r.Origin.Z) / r.Dir.Z
	r.Origin = r.Origin.Add(r.Dir.MulScalar(t))
}

// intersectSurface advances the ray onto the element surface and
// returns the surface normal, oriented against the incoming ray.
// Reports false when the ray misses the surface.
func (r *Ray) intersectSurface(e Element, g Glass) (pt.Vector, bool) {
	// center of the surface if interpreted as an entire sphere
	cz := e.Position + e.Radius
	if !g.Entry {
		cz = e.Position - e.Radius
	}
	// front selects the nearer quadratic root and the normal sign,
	// consistently with curvature sign and travel direction
	front := (g.Entry == (r.Dir.Z > 0)) == (e.Radius > 0)

	if e.Radius == 0 {
		// degenerate sphere: a flat interface at e.Position
		r.movePlane(e.Position)
		n := V(0, 0, 1)
		if r.Dir.Z > 0 {
			n = V(0, 0, -1)
		}
		return n, true
	}

	if g.Spherical {
		c := V(0, 0, cz)
		oc := r.Origin.Sub(c)
		b := r.Dir.Dot(oc)
		delta := b*b - (oc.Dot(oc) - e.Radius*e.Radius)
		if delta < 0 {
			return pt.Vector{}, false
		}
		t := -b + math.Sqrt(delta)
		if front {
			t = -b - math.Sqrt(delta)
		}
		r.Origin = r.Origin.Add(r.Dir.MulScalar(t))
		n := r.Origin.Sub(c).Normalize()
		if !front {
			n = n.Negate()
		}
		return n, true
	}

	// cylindrical: x is not affected by curvature, solve in the y/z plane
	oy := r.Origin.Y
	oz := r.Origin.Z - cz
	dl := math.Hypot(r.Dir.Y, r.Dir.Z)
	dy := r.Dir.Y / dl
	dz := r.Dir.Z / dl
	b := dy*oy + dz*oz
	delta := b*b - (oy*oy + oz*oz - e.Radius*e.Radius)
	if delta < 0 {
		return pt.Vector{}, false
	}
	t := -b + math.Sqrt(delta)
	if front {
		t = -b - math.Sqrt(delta)
	}
	// t is measured along the normalized 2D direction
	r.Origin = r.Origin.Add(r.Dir.MulScalar(t / dl))
	n := V(0, r.Origin.Y, r.Origin.Z-cz).Normalize()
	if !front {
		n = n.Negate()
	}
	return n, true
}

// minIncidence keeps the tan-based p-polarization terms away from their
// singularity at exactly normal incidence.
const minIncidence = 1e-6

// fresnelAR is the reflectivity R(θ, λ) of a surface coated with a
// single dielectric layer, from Hullin et al. 2011,
// "Physically-Based Real-Time Lens Flare Rendering".
//
// theta0: angle of incidence, lambda: wavelength, d1: coating
// thickness, n0/n1/n2: refractive indices of the first medium, the
// coating and the second medium.
func fresnelAR(theta0, lambda, d1, n0, n1, n2 float64) float64 {
	if theta0 < minIncidence {
		theta0 = minIncidence
	}
	// refraction angles in the coating and the 2nd medium
	theta1 := math.Asin(clampUnit(math.Sin(theta0) * n0 / n1))
	theta2 := math.Asin(clampUnit(math.Sin(theta0) * n0 / n2))
	// amplitudes for outer reflection / transmission on topmost interface
	rs01 := -math.Sin(theta0-theta1) / math.Sin(theta0+theta1)
	rp01 := math.Tan(theta0-theta1) / math.Tan(theta0+theta1)
	ts01 := 2 * math.Sin(theta1) * math.Cos(theta0) / math.Sin(theta0+theta1)
	tp01 := ts01 * math.Cos(theta0-theta1)
	// amplitude for the inner reflection
	rs12 := -math.Sin(theta1-theta2) / math.Sin(theta1+theta2)
	rp12 := math.Tan(theta1-theta2) / math.Tan(theta1+theta2)
	// after passing through the first surface twice:
	// 2 transmissions and 1 reflection
	ris := ts01 * ts01 * rs12
	rip := tp01 * tp01 * rp12
	// phase difference between outer and inner reflections
	dy := d1 * n1
	dx := math.Tan(theta1) * dy
	delay := math.Sqrt(dx*dx + dy*dy)
	relPhase := 4 * math.Pi / lambda * (delay - dx*math.Sin(theta0))
	// add up sines of different phase and amplitude
	outS2 := rs01*rs01 + ris*ris + 2*rs01*ris*math.Cos(relPhase)
	outP2 := rp01*rp01 + rip*rip + 2*rp01*rip*math.Cos(relPhase)
	return (outS2 + outP2) / 2
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

// propagateElement applies one glass interface to the ray: surface
// intersection followed by refraction, or by mirror reflection on
// ghost-path bounces. Strength is attenuated by the coated-surface
// Fresnel term either way.
func (r *Ray) propagateElement(e Element, g Glass, reflect bool) {
	if r.Dead() {
		return
	}
	normal, ok := r.intersectSurface(e, g)
	if !ok {
		r.kill()
		return
	}

	n := g.Sellmeier.IOR(r.Wavelength)
	outer := g.OuterIOR.IOR(r.Wavelength)
	// entering is direction-aware so that the backward legs of ghost
	// paths cross surfaces with the correct index ordering
	entering := g.Entry == (r.Dir.Z > 0)
	n0, n2 := outer, n
	if !entering {
		n0, n2 = n, outer
	}

	cos := clampUnit(normal.Dot(r.Dir))
	theta0 := math.Acos(math.Abs(cos))

	if reflect {
		r.Dir = r.Dir.Sub(normal.MulScalar(2 * normal.Dot(r.Dir)))
		r.Strength *= fresnelAR(theta0, r.Wavelength, g.Coating.Thickness, n0, g.Coating.IOR, n2)
		return
	}

	eta := n0 / n2
	ndd := normal.Dot(r.Dir)
	k := 1 - eta*eta*(1-ndd*ndd)
	if k < 0 {
		// total internal reflection
		r.kill()
		return
	}
	r.Dir = r.Dir.MulScalar(eta).Sub(normal.MulScalar(eta*ndd + math.Sqrt(k))).Normalize()
	r.Strength *= 1 - fresnelAR(theta0, r.Wavelength, g.Coating.Thickness, n0, g.Coating.IOR, n2)
}

// clipAperture advances the ray to the aperture plane, records the
// aperture-relative position and zeroes the ray if it falls outside the
// regular blade polygon.
func (r *Ray) clipAperture(e Element, a Aperture) {
	if r.Dead() {
		return
	}
	r.movePlane(e.Position)
	r.Aperture = [2]float64{r.Origin.X / a.Radius, r.Origin.Y / a.Radius}
	for i := 0; i < a.Blades; i++ {
		phi := float64(i) / float64(a.Blades) * 2 * math.Pi
		dist := math.Cos(phi)*r.Origin.X + math.Sin(phi)*r.Origin.Y
		if dist > a.Radius {
			r.kill()
			return
		}
	}
}

// step applies a single element to the ray.
func (r *Ray) step(e Element, reflect bool) {
	switch p := e.Props.(type) {
	case Glass:
		r.propagateElement(e, p, reflect)
	case Aperture:
		r.clipAperture(e, p)
	}
}
