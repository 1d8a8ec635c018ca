// Package transform implements the DCT-II/DCT-III pair used by dctz.
//
// The scaling follows FFTW's REDFT10 (forward) and REDFT01 (inverse) kinds:
//
//	forward: X[k] = 2 * sum_j x[j] * cos(pi * k * (2j+1) / 2n)
//	inverse: y[j] = X[0] + 2 * sum_{k>=1} X[k] * cos(pi * k * (2j+1) / 2n)
//
// so that Inverse(Forward(x)) == 2n * x for every transformed dimension. Callers
// divide by Normalization() to recover the input.
package transform

import (
	"fmt"
	"math"
)

// Engine is a 1-D DCT of fixed length backed by a precomputed cosine table.
//
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	n   int
	cos []float64 // cos[k*n+j] = cos(pi*k*(2j+1)/2n)
	// gain[j] = 1 + 2*sum_{k>=1} |cos[k*n+j]|, the L1 norm of row j of the inverse.
	gain []float64
}

// NewEngine builds an engine for sequences of length n.
func NewEngine(n int) *Engine {
	if n <= 0 {
		panic(fmt.Sprintf("transform: invalid length %d", n))
	}

	e := &Engine{
		n:    n,
		cos:  make([]float64, n*n),
		gain: make([]float64, n),
	}

	for k := range n {
		for j := range n {
			e.cos[k*n+j] = math.Cos(math.Pi * float64(k) * float64(2*j+1) / float64(2*n))
		}
	}

	for j := range n {
		g := 1.0
		for k := 1; k < n; k++ {
			g += 2 * math.Abs(e.cos[k*n+j])
		}
		e.gain[j] = g
	}

	return e
}

// Len returns the transform length.
func (e *Engine) Len() int {
	return e.n
}

// Forward writes the DCT-II of src into dst. dst and src must not overlap.
func (e *Engine) Forward(dst, src []float64) {
	e.checkLen(dst, src)

	n := e.n
	for k := range n {
		row := e.cos[k*n : (k+1)*n]
		sum := 0.0
		for j, x := range src {
			sum += x * row[j]
		}
		dst[k] = 2 * sum
	}
}

// Inverse writes the DCT-III of src into dst. dst and src must not overlap.
func (e *Engine) Inverse(dst, src []float64) {
	e.checkLen(dst, src)

	n := e.n
	for j := range n {
		sum := 0.0
		for k := 1; k < n; k++ {
			sum += src[k] * e.cos[k*n+j]
		}
		dst[j] = src[0] + 2*sum
	}
}

// Normalization returns 2n, the factor Inverse(Forward(x)) scales x by.
func (e *Engine) Normalization() float64 {
	return float64(2 * e.n)
}

// MaxGain returns max_j of the inverse row L1 norm, including the DC term.
func (e *Engine) MaxGain() float64 {
	maxGain := 0.0
	for _, g := range e.gain {
		maxGain = max(maxGain, g)
	}

	return maxGain
}

func (e *Engine) checkLen(dst, src []float64) {
	if len(src) != e.n || len(dst) != e.n {
		panic(fmt.Sprintf("transform: length mismatch: engine %d, src %d, dst %d", e.n, len(src), len(dst)))
	}
}
