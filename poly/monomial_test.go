package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignPow(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(-8.0, signPow(-2, 3))
	assert.Equal(4.0, signPow(-2, 2))
	assert.Equal(8.0, signPow(2, 3))

	// exponent zero (or below) means the dimension is unused
	assert.Equal(1.0, signPow(5, 0))
	assert.Equal(1.0, signPow(-5, 0))
	assert.Equal(1.0, signPow(3, -1))
}

func TestMonomialEval(t *testing.T) {
	assert := assert.New(t)

	m := Monomial{Coefficient: 2, Exponents: [4]float64{0, 0, 2, 1}}
	// 2 * z^2 * w
	assert.InDelta(2*9*4, m.Eval([4]float64{7, 7, 3, 4}), 1e-12)
	// sign carries through the odd power of w
	assert.InDelta(-2*9*4, m.Eval([4]float64{0, 0, 3, -4}), 1e-12)
	// and not through the even power of z
	assert.InDelta(2*9*4, m.Eval([4]float64{0, 0, -3, 4}), 1e-12)
}

func TestMonomialPartial(t *testing.T) {
	assert := assert.New(t)

	m := Monomial{Coefficient: 2, Exponents: [4]float64{0, 0, 2, 1}}

	// d/dz 2z^2w = 4zw
	assert.InDelta(4*3*4, m.Partial([4]float64{0, 0, 3, 4}, 2), 1e-12)
	// d/dw 2z^2w = 2z^2
	assert.InDelta(2*9, m.Partial([4]float64{0, 0, 3, 4}, 3), 1e-12)
	// unused dimension has zero derivative
	assert.Equal(0.0, m.Partial([4]float64{5, 0, 3, 4}, 0))
}

func TestMonomialPartialMatchesCentralDifference(t *testing.T) {
	assert := assert.New(t)

	m := Monomial{Coefficient: 1.5, Exponents: [4]float64{1, 0, 3, 2}}
	x := [4]float64{0.7, 0.2, 1.3, 0.9}

	const h = 1e-6
	for dim := 0; dim < 4; dim++ {
		lo, hi := x, x
		lo[dim] -= h
		hi[dim] += h
		numeric := (m.Eval(hi) - m.Eval(lo)) / (2 * h)
		assert.InDelta(numeric, m.Partial(x, dim), 1e-5, "dim %d", dim)
	}
}

func TestMonomialDegree(t *testing.T) {
	m := Monomial{Exponents: [4]float64{1, 0, 3, 2}}
	assert.Equal(t, 6.0, m.Degree())
}
