package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/ndarray"
)

// FieldKind names a synthetic test field.
type FieldKind string

const (
	FieldSmooth    FieldKind = "smooth"    // low-frequency sinusoids
	FieldTurbulent FieldKind = "turbulent" // several octaves with random phases
	FieldNoise     FieldKind = "noise"     // unit gaussian noise
	FieldSparse    FieldKind = "sparse"    // isolated bumps on an exact zero background
)

// GenConfig controls synthetic field generation.
type GenConfig struct {
	Kind  FieldKind
	DType format.DataType
	Dims  []int
	Seed  uint64 // fixed seed for reproducible fields
}

// GenerateField creates a synthetic field described by cfg.
//
// Coordinates are normalized to [0, 1) per dimension, so the character of a
// field does not depend on its resolution.
func GenerateField(cfg GenConfig) (*ndarray.Array, error) {
	n, err := ndarray.CheckShape(cfg.Dims)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	var sample func(coord []float64) float64
	switch cfg.Kind {
	case FieldSmooth:
		sample = func(c []float64) float64 {
			v := 0.0
			for d, x := range c {
				v += math.Sin(2*math.Pi*(x+0.1*float64(d))) * math.Cos(math.Pi*x)
			}
			return v
		}
	case FieldTurbulent:
		phases := make([]float64, 6*len(cfg.Dims))
		for i := range phases {
			phases[i] = rng.Float64() * 2 * math.Pi
		}
		sample = func(c []float64) float64 {
			v := 0.0
			for octave := range 6 {
				freq := math.Pow(2, float64(octave))
				amp := 1 / freq
				for d, x := range c {
					v += amp * math.Sin(2*math.Pi*freq*x+phases[octave*len(c)+d])
				}
			}
			return v
		}
	case FieldNoise:
		sample = func([]float64) float64 { return rng.NormFloat64() }
	case FieldSparse:
		sample = func(c []float64) float64 {
			r2 := 0.0
			for _, x := range c {
				dx := math.Mod(x*4, 1) - 0.5
				r2 += dx * dx
			}
			if r2 > 0.04 {
				return 0
			}
			return math.Exp(-r2 * 50)
		}
	default:
		return nil, fmt.Errorf("unknown field kind %q", cfg.Kind)
	}

	values := make([]float64, n)
	coord := make([]float64, len(cfg.Dims))
	idx := make([]int, len(cfg.Dims))
	for i := range values {
		for d, k := range idx {
			coord[d] = float64(k) / float64(cfg.Dims[d])
		}
		values[i] = sample(coord)

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < cfg.Dims[d] {
				break
			}
			idx[d] = 0
		}
	}

	if cfg.DType == format.Float32 {
		narrow := make([]float32, n)
		for i, v := range values {
			narrow[i] = float32(v)
		}
		return ndarray.FromFloat32(narrow, cfg.Dims...)
	}

	return ndarray.FromFloat64(values, cfg.Dims...)
}
