// Package quant maps block DCT coefficients to integers under an absolute
// error bound, and back.
//
// The DC coefficient of every block is kept exactly; only AC coefficients are
// quantized. With a uniform step Δ every AC coefficient is off by at most Δ/2,
// and the transform's amplification A bounds the resulting sample error by
// A·Δ/2. Choosing Δ = 2·e·StepSafety/A therefore keeps every reconstructed
// sample within e by construction.
package quant

import (
	"fmt"
	"math"

	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
)

const (
	// StepSafety shrinks the step slightly so floating point rounding in the
	// transform does not push samples past the bound.
	StepSafety = 0.999
	// MinStep is the floor applied to the step size. An error bound of zero
	// yields this step, so almost every non-zero block becomes unquantizable
	// and is stored raw, which makes the stream lossless.
	MinStep = 0x1p-1022
	// MaxQuant is the largest quantized magnitude. Larger values would lose
	// integer precision when converted back to float64.
	MaxQuant = 1 << 52
	// DefaultCullThreshold is the ratio-mode threshold in units of the step:
	// AC coefficients smaller than one step are dropped.
	DefaultCullThreshold = 1.0
)

// Context holds the scalar quantization state shared by every block of a stream.
//
// Everything in a Context is stored in the stream header, so decompression
// reconstructs it without the original data.
type Context struct {
	// ErrorBound is the absolute error bound requested by the user.
	ErrorBound float64
	// Step is the AC quantization step size.
	Step float64
	// Mode selects plain error-bound quantization or ratio-oriented culling.
	Mode format.QuantizerMode
	// CullThreshold is the ratio-mode culling threshold in units of Step.
	CullThreshold float64
}

// NewContext derives the quantization context for an error bound and a
// transform amplification factor.
func NewContext(errorBound, amplification float64, mode format.QuantizerMode, cullThreshold float64) (Context, error) {
	if math.IsNaN(errorBound) || math.IsInf(errorBound, 0) || errorBound < 0 {
		return Context{}, fmt.Errorf("%w: %v", errs.ErrInvalidErrorBound, errorBound)
	}
	if !(amplification > 0) || math.IsInf(amplification, 0) {
		return Context{}, fmt.Errorf("quant: invalid amplification %v", amplification)
	}

	step := max(2*errorBound*StepSafety/amplification, MinStep)
	if math.IsInf(step, 0) {
		return Context{}, fmt.Errorf("%w: %v overflows the step size", errs.ErrInvalidErrorBound, errorBound)
	}

	ctx := Context{
		ErrorBound:    errorBound,
		Step:          step,
		Mode:          mode,
		CullThreshold: cullThreshold,
	}
	if mode != format.ModeRatio {
		ctx.CullThreshold = 0
	}

	return ctx, ctx.Validate()
}

// Validate checks a context, typically one parsed from a stream header.
func (c Context) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("%w: quantizer mode %d", errs.ErrInvalidConfig, c.Mode)
	}
	if math.IsNaN(c.ErrorBound) || math.IsInf(c.ErrorBound, 0) || c.ErrorBound < 0 {
		return fmt.Errorf("%w: %v", errs.ErrInvalidErrorBound, c.ErrorBound)
	}
	if !(c.Step >= MinStep) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("%w: step size %v", errs.ErrInvalidConfig, c.Step)
	}
	if math.IsNaN(c.CullThreshold) || c.CullThreshold < 0 || math.IsInf(c.CullThreshold, 0) {
		return fmt.Errorf("%w: cull threshold %v", errs.ErrInvalidConfig, c.CullThreshold)
	}

	return nil
}

// Culls reports whether quantization drops small coefficients.
func (c Context) Culls() bool {
	return c.Mode == format.ModeRatio && c.CullThreshold > 0
}
