package main

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/dctz/format"
)

// minFitPoints is the fewest distinct error bounds a rate model is fitted to.
const minFitPoints = 3

var errTooFewPoints = errors.New("not enough measurements to fit a rate model")

// ModelType is the shape of a rate model. The rate x is log2(1/e) and the
// fitted quantity y is stream bits per value.
type ModelType int

const (
	ModelLinear      ModelType = iota // y = a + b·x
	ModelLogarithmic                  // y = a + b·ln(x)
	ModelPower                        // y = a·x^b
)

func (m ModelType) String() string {
	switch m {
	case ModelLinear:
		return "linear"
	case ModelLogarithmic:
		return "logarithmic"
	case ModelPower:
		return "power"
	default:
		return "unknown"
	}
}

// Model is one fitted rate model.
type Model struct {
	Type     ModelType
	A, B     float64
	RSquared float64
}

// Estimate returns the predicted bits per value at error bound e.
func (m Model) Estimate(e float64) float64 {
	x := math.Log2(1 / e)
	switch m.Type {
	case ModelLogarithmic:
		return m.A + m.B*math.Log(x)
	case ModelPower:
		return m.A * math.Pow(x, m.B)
	default:
		return m.A + m.B*x
	}
}

// Fit is the rate analysis of one block size and lossless stage.
type Fit struct {
	BlockSize   int
	Compression format.CompressionType
	Models      []Model
	BestFit     Model
}

// Analyze groups measurements by block size and lossless stage and fits
// every rate model to each group. Groups with fewer than minFitPoints
// measurements are skipped; an error is returned only if no group qualifies.
func Analyze(ms []Measurement) ([]Fit, error) {
	type key struct {
		block int
		ct    format.CompressionType
	}

	var order []key
	groups := make(map[key][]Measurement)
	for _, m := range ms {
		k := key{m.BlockSize, m.Compression}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], m)
	}

	var fits []Fit
	for _, k := range order {
		fit, err := fitGroup(groups[k])
		if errors.Is(err, errTooFewPoints) {
			continue
		}
		fit.BlockSize = k.block
		fit.Compression = k.ct
		fits = append(fits, fit)
	}

	if len(fits) == 0 {
		return nil, errTooFewPoints
	}

	return fits, nil
}

func fitGroup(ms []Measurement) (Fit, error) {
	x := make([]float64, 0, len(ms))
	y := make([]float64, 0, len(ms))
	for _, m := range ms {
		if m.ErrorBound <= 0 || m.ErrorBound >= 1 {
			continue
		}
		x = append(x, math.Log2(1/m.ErrorBound))
		y = append(y, m.Stats.BitsPerValue())
	}
	if len(x) < minFitPoints {
		return Fit{}, errTooFewPoints
	}

	fit := Fit{Models: []Model{
		fitLinear(x, y),
		fitLogarithmic(x, y),
		fitPower(x, y),
	}}

	fit.BestFit = slices.MaxFunc(fit.Models, func(a, b Model) int {
		switch {
		case a.RSquared < b.RSquared:
			return -1
		case a.RSquared > b.RSquared:
			return 1
		default:
			return 0
		}
	})

	return fit, nil
}

func fitLinear(x, y []float64) Model {
	a, b := stat.LinearRegression(x, y, nil, false)
	m := Model{Type: ModelLinear, A: a, B: b}
	m.RSquared = rSquared(m, x, y)

	return m
}

func fitLogarithmic(x, y []float64) Model {
	lx := make([]float64, len(x))
	for i, v := range x {
		lx[i] = math.Log(v)
	}

	a, b := stat.LinearRegression(lx, y, nil, false)
	m := Model{Type: ModelLogarithmic, A: a, B: b}
	m.RSquared = rSquared(m, x, y)

	return m
}

// fitPower fits ln(y) = ln(a) + b·ln(x); non-positive samples cannot be
// transformed and leave the model with an R² of zero.
func fitPower(x, y []float64) Model {
	lx := make([]float64, len(x))
	ly := make([]float64, len(y))
	for i := range x {
		if y[i] <= 0 {
			return Model{Type: ModelPower}
		}
		lx[i] = math.Log(x[i])
		ly[i] = math.Log(y[i])
	}

	la, b := stat.LinearRegression(lx, ly, nil, false)
	m := Model{Type: ModelPower, A: math.Exp(la), B: b}
	m.RSquared = rSquared(m, x, y)

	return m
}

// rSquared evaluates the model in the original y space so every model type is
// judged on the same scale.
func rSquared(m Model, x, y []float64) float64 {
	est := make([]float64, len(x))
	for i, v := range x {
		est[i] = m.Estimate(math.Exp2(-v))
	}

	r2 := stat.RSquaredFrom(est, y, nil)
	if math.IsNaN(r2) {
		return 0
	}

	return r2
}
