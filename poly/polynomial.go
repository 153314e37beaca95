package poly

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Polynomial approximates a vector-valued function of four inputs.
// The terms of each output index form one contiguous block of NumTerms
// monomials, enabling block-range evaluation straight off the flat
// coefficient buffer.
type Polynomial struct {
	Terms    []Monomial
	NumTerms int
}

// New assembles a polynomial from per-output term blocks. Shorter
// blocks are padded with zero terms so all blocks share one stride.
func New(blocks ...[]Monomial) *Polynomial {
	numTerms := 0
	for _, b := range blocks {
		if len(b) > numTerms {
			numTerms = len(b)
		}
	}
	p := &Polynomial{NumTerms: numTerms}
	for _, b := range blocks {
		p.Terms = append(p.Terms, b...)
		for i := len(b); i < numTerms; i++ {
			p.Terms = append(p.Terms, Monomial{})
		}
	}
	return p
}

// Outputs returns the number of output indices.
func (p *Polynomial) Outputs() int {
	if p.NumTerms == 0 {
		return 0
	}
	return len(p.Terms) / p.NumTerms
}

// block returns the contiguous term range of one output index.
func (p *Polynomial) block(out int) []Monomial {
	return p.Terms[out*p.NumTerms : (out+1)*p.NumTerms]
}

// Eval sums the monomial block of output index out at x.
// Zero-coefficient padding terms are skipped.
func (p *Polynomial) Eval(x [4]float64, out int) float64 {
	sum := 0.0
	for _, t := range p.block(out) {
		if t.Coefficient == 0 {
			continue
		}
		sum += t.Eval(x)
	}
	return sum
}

// GradientZW returns the exact partial derivatives of output out with
// respect to the last two input dimensions, without finite differencing.
func (p *Polynomial) GradientZW(x [4]float64, out int) (dz, dw float64) {
	for _, t := range p.block(out) {
		if t.Coefficient == 0 {
			continue
		}
		dz += t.Partial(x, 2)
		dw += t.Partial(x, 3)
	}
	return dz, dw
}

// minJacobian keeps the density factor finite where the mapping locally
// collapses; one bad sample must not become Inf.
const minJacobian = 1e-12

// DensityFactor returns the local area scaling 1/|det J| of the first
// two output channels with respect to the last two inputs. It is the
// polynomial-domain analogue of triangle-based density normalization
// and agrees with it where both are defined.
func (p *Polynomial) DensityFactor(x [4]float64) float64 {
	xz, xw := p.GradientZW(x, 0)
	yz, yw := p.GradientZW(x, 1)
	det := math.Abs(xz*yw - xw*yz)
	if det < minJacobian {
		det = minJacobian
	}
	return 1 / det
}

// Flatten packs the terms into the flat coefficient buffer layout
// consumed by block evaluators: four exponents then the coefficient,
// per term, NumTerms terms per output index.
func (p *Polynomial) Flatten() []float32 {
	out := make([]float32, 0, len(p.Terms)*5)
	for _, t := range p.Terms {
		for _, e := range t.Exponents {
			out = append(out, float32(e))
		}
		out = append(out, float32(t.Coefficient))
	}
	return out
}

// FitSample is one observation of the traced mapping: four inputs and
// the value of one output channel.
type FitSample struct {
	In  [4]float64
	Out float64
}

// Fit solves for least-squares coefficients over the fixed exponent
// set. The system must be overdetermined: more samples than exponents.
func Fit(exponents [][4]float64, samples []FitSample) ([]Monomial, error) {
	if len(samples) < len(exponents) {
		return nil, fmt.Errorf("fit needs at least %d samples, got %d", len(exponents), len(samples))
	}
	a := mat.NewDense(len(samples), len(exponents), nil)
	b := mat.NewVecDense(len(samples), nil)
	for i, s := range samples {
		for j, e := range exponents {
			a.Set(i, j, Monomial{Exponents: e}.evalExp(s.In))
		}
		b.SetVec(i, s.Out)
	}
	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("solving least squares: %w", err)
	}
	terms := make([]Monomial, len(exponents))
	for j, e := range exponents {
		terms[j] = Monomial{Coefficient: c.AtVec(j), Exponents: e}
	}
	return terms, nil
}

// DenseExponents enumerates every exponent combination over the four
// input variables with total degree at most degree, in lexicographic
// order. This is the dense monomial basis.
func DenseExponents(degree int) [][4]float64 {
	var exps [][4]float64
	for a := 0; a <= degree; a++ {
		for b := 0; a+b <= degree; b++ {
			for c := 0; a+b+c <= degree; c++ {
				for d := 0; a+b+c+d <= degree; d++ {
					exps = append(exps, [4]float64{float64(a), float64(b), float64(c), float64(d)})
				}
			}
		}
	}
	return exps
}

// Sparsify keeps the n terms with the largest coefficient magnitudes,
// preserving their original relative order. The caller refits the
// surviving exponent set to recover accuracy.
func Sparsify(terms []Monomial, n int) []Monomial {
	if n >= len(terms) {
		return terms
	}
	idx := make([]int, len(terms))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return math.Abs(terms[idx[i]].Coefficient) > math.Abs(terms[idx[j]].Coefficient)
	})
	keep := idx[:n]
	sort.Ints(keep)
	out := make([]Monomial, 0, n)
	for _, i := range keep {
		out = append(out, terms[i])
	}
	return out
}

// FitSparse fits the dense basis up to degree, keeps the numTerms
// strongest monomials and refits them.
func FitSparse(degree, numTerms int, samples []FitSample) ([]Monomial, error) {
	dense, err := Fit(DenseExponents(degree), samples)
	if err != nil {
		return nil, err
	}
	kept := Sparsify(dense, numTerms)
	exps := make([][4]float64, len(kept))
	for i, t := range kept {
		exps[i] = t.Exponents
	}
	return Fit(exps, samples)
}

// RMSError reports the root-mean-square residual of output out over
// the samples.
func (p *Polynomial) RMSError(samples []FitSample, out int) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		d := s.Out - p.Eval(s.In, out)
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(samples)))
}
