package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flarelab/go-lensflare/optics"
)

func quadratic() *Polynomial {
	// x_out = 2 + 3z + z^2 w, y_out = w - zw
	return New(
		[]Monomial{
			{Coefficient: 2},
			{Coefficient: 3, Exponents: [4]float64{0, 0, 1, 0}},
			{Coefficient: 1, Exponents: [4]float64{0, 0, 2, 1}},
		},
		[]Monomial{
			{Coefficient: 1, Exponents: [4]float64{0, 0, 0, 1}},
			{Coefficient: -1, Exponents: [4]float64{0, 0, 1, 1}},
		},
	)
}

func TestNewPadsBlocks(t *testing.T) {
	assert := assert.New(t)

	p := quadratic()
	assert.Equal(3, p.NumTerms)
	assert.Equal(2, p.Outputs())
	assert.Len(p.Terms, 6)
	// the shorter block is padded with zero terms
	assert.Equal(Monomial{}, p.Terms[5])
}

func TestPolynomialEval(t *testing.T) {
	assert := assert.New(t)

	p := quadratic()
	x := [4]float64{0, 0, 2, 3}
	assert.InDelta(2+3*2+4*3, p.Eval(x, 0), 1e-12)
	assert.InDelta(3-2*3, p.Eval(x, 1), 1e-12)
}

func TestGradientZWMatchesCentralDifference(t *testing.T) {
	assert := assert.New(t)

	p := quadratic()
	x := [4]float64{0.1, 0.2, 1.1, 0.7}

	const h = 1e-4
	for out := 0; out < p.Outputs(); out++ {
		dz, dw := p.GradientZW(x, out)

		zp, zm := x, x
		zp[2] += h
		zm[2] -= h
		assert.InDelta((p.Eval(zp, out)-p.Eval(zm, out))/(2*h), dz, 1e-2)

		wp, wm := x, x
		wp[3] += h
		wm[3] -= h
		assert.InDelta((p.Eval(wp, out)-p.Eval(wm, out))/(2*h), dw, 1e-2)
	}
}

func TestDensityFactorLinearMap(t *testing.T) {
	assert := assert.New(t)

	// X = 2z, Y = 3w: |det J| = 6 everywhere
	p := New(
		[]Monomial{{Coefficient: 2, Exponents: [4]float64{0, 0, 1, 0}}},
		[]Monomial{{Coefficient: 3, Exponents: [4]float64{0, 0, 0, 1}}},
	)
	assert.InDelta(1.0/6, p.DensityFactor([4]float64{0, 0, 0.5, 0.5}), 1e-12)
}

func TestDensityFactorMatchesTriangles(t *testing.T) {
	assert := assert.New(t)

	// trace a grid through the linear map and normalize it with the
	// triangle scheme; interior points must land on the Jacobian factor
	p := New(
		[]Monomial{{Coefficient: 2, Exponents: [4]float64{0, 0, 1, 0}}},
		[]Monomial{{Coefficient: 3, Exponents: [4]float64{0, 0, 0, 1}}},
	)

	const side = 5
	const spacing = 0.25
	points := make([]optics.SamplePoint, side*side)
	for gy := 0; gy < side; gy++ {
		for gx := 0; gx < side; gx++ {
			in := [4]float64{0, 0, float64(gx) * spacing, float64(gy) * spacing}
			points[gy*side+gx] = optics.SamplePoint{
				X:        p.Eval(in, 0),
				Y:        p.Eval(in, 1),
				Strength: 1,
			}
		}
	}
	optics.NormalizeDensity(points, side, spacing*spacing/2)

	factor := p.DensityFactor([4]float64{0, 0, 0.5, 0.5})
	for _, pt := range points {
		assert.InDelta(factor, pt.Strength, 1e-9)
	}
}

func TestDensityFactorClampsDegenerate(t *testing.T) {
	p := New([]Monomial{{Coefficient: 1}}, []Monomial{{Coefficient: 1}})
	// constant outputs collapse the map; the factor stays finite
	assert.Equal(t, 1/minJacobian, p.DensityFactor([4]float64{}))
}

func TestFlattenLayout(t *testing.T) {
	assert := assert.New(t)

	p := New([]Monomial{{Coefficient: 2.5, Exponents: [4]float64{1, 0, 2, 0}}})
	flat := p.Flatten()
	require.Len(t, flat, 5)
	assert.Equal([]float32{1, 0, 2, 0, 2.5}, flat)
}

func TestFitRecoversPolynomial(t *testing.T) {
	assert := assert.New(t)

	truth := quadratic()
	exps := [][4]float64{
		{0, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 2, 1},
	}

	var samples []FitSample
	for z := 0.1; z <= 1.0; z += 0.15 {
		for w := 0.1; w <= 1.0; w += 0.15 {
			in := [4]float64{0, 0, z, w}
			samples = append(samples, FitSample{In: in, Out: truth.Eval(in, 0)})
		}
	}

	terms, err := Fit(exps, samples)
	require.NoError(t, err)
	require.Len(t, terms, 3)
	assert.InDelta(2.0, terms[0].Coefficient, 1e-8)
	assert.InDelta(3.0, terms[1].Coefficient, 1e-8)
	assert.InDelta(1.0, terms[2].Coefficient, 1e-8)

	fitted := New(terms)
	assert.InDelta(0.0, fitted.RMSError(samples, 0), 1e-8)
}

func TestFitRejectsUnderdetermined(t *testing.T) {
	_, err := Fit(DenseExponents(2), []FitSample{{Out: 1}})
	assert.Error(t, err)
}

func TestDenseExponents(t *testing.T) {
	assert := assert.New(t)

	exps := DenseExponents(1)
	// constant plus one linear term per variable
	assert.Len(exps, 5)
	for _, e := range exps {
		assert.LessOrEqual(e[0]+e[1]+e[2]+e[3], 1.0)
	}
}

func TestSparsify(t *testing.T) {
	assert := assert.New(t)

	terms := []Monomial{
		{Coefficient: 0.1},
		{Coefficient: -5, Exponents: [4]float64{0, 0, 1, 0}},
		{Coefficient: 2, Exponents: [4]float64{0, 0, 0, 1}},
		{Coefficient: 0.01, Exponents: [4]float64{0, 0, 1, 1}},
	}

	kept := Sparsify(terms, 2)
	require.Len(t, kept, 2)
	// largest magnitudes survive, in their original order
	assert.Equal(-5.0, kept[0].Coefficient)
	assert.Equal(2.0, kept[1].Coefficient)

	assert.Len(Sparsify(terms, 10), 4)
}

func TestFitSparse(t *testing.T) {
	assert := assert.New(t)

	truth := quadratic()
	var samples []FitSample
	for x := 0.2; x <= 1.0; x += 0.25 {
		for y := 0.2; y <= 1.0; y += 0.25 {
			for z := -1.0; z <= 1.0; z += 0.4 {
				for w := -1.0; w <= 1.0; w += 0.4 {
					in := [4]float64{x, y, z, w}
					samples = append(samples, FitSample{In: in, Out: truth.Eval(in, 0)})
				}
			}
		}
	}

	terms, err := FitSparse(3, 3, samples)
	require.NoError(t, err)
	require.Len(t, terms, 3)

	fitted := New(terms)
	assert.InDelta(0.0, fitted.RMSError(samples, 0), 1e-6)
}
