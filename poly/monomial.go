// Package poly approximates the lens system's ray-to-sensor mapping as
// sparse polynomials in up to four input variables, with exact partial
// derivatives for density correction.
package poly

import "math"

// Monomial is one term of a sparse polynomial:
// Coefficient · x^e0 · y^e1 · z^e2 · w^e3 under sign-aware powers.
// Exponents are stored as floats to match the flat coefficient buffer
// layout consumed by evaluators; parity is decided by rounding.
type Monomial struct {
	Coefficient float64
	Exponents   [4]float64
}

// signPow raises x to exp, propagating the sign of a negative base when
// the rounded exponent is odd. An exponent <= 0 contributes a factor 1
// ("dimension not used").
func signPow(x, exp float64) float64 {
	if exp <= 0 {
		return 1
	}
	p := math.Pow(math.Abs(x), exp)
	if x < 0 && int(math.Round(exp))%2 != 0 {
		return -p
	}
	return p
}

// Eval evaluates the monomial at a point.
func (m Monomial) Eval(x [4]float64) float64 {
	v := m.Coefficient
	for i, e := range m.Exponents {
		v *= signPow(x[i], e)
	}
	return v
}

// evalExp evaluates only the variable part of the monomial, ignoring
// the coefficient. Fitting uses this as the basis function.
func (m Monomial) evalExp(x [4]float64) float64 {
	v := 1.0
	for i, e := range m.Exponents {
		v *= signPow(x[i], e)
	}
	return v
}

// Partial evaluates the exact partial derivative with respect to
// variable dim using the power rule; sign-aware powers differentiate to
// sign-aware powers one degree down. A term whose exponent in dim is
// exactly 0 has a zero partial derivative.
func (m Monomial) Partial(x [4]float64, dim int) float64 {
	e := m.Exponents[dim]
	if e == 0 {
		return 0
	}
	v := m.Coefficient * e * signPow(x[dim], e-1)
	for i, ei := range m.Exponents {
		if i == dim {
			continue
		}
		v *= signPow(x[i], ei)
	}
	return v
}

// Degree is the total degree of the monomial.
func (m Monomial) Degree() float64 {
	return m.Exponents[0] + m.Exponents[1] + m.Exponents[2] + m.Exponents[3]
}
