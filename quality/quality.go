// Package quality measures how closely a decompressed array matches its original.
package quality

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/ndarray"
)

// Report summarizes the reconstruction error of one array.
type Report struct {
	Elements int
	// MaxAbsError is the largest absolute sample difference (L∞ distance).
	MaxAbsError float64
	// RMSE is the root mean squared error.
	RMSE float64
	// Mean is the mean of the original samples, the signal level.
	Mean float64
	// ValueRange is max - min of the original samples.
	ValueRange float64
	// PSNR is 20·log10(ValueRange/RMSE) in dB; +Inf for an exact reconstruction.
	PSNR float64
	// SNR is 10·log10(variance/MSE) in dB; +Inf for an exact reconstruction.
	SNR float64
}

// Compare computes a Report for two arrays of equal shape.
//
// Non-finite samples are skipped when they are bit-for-bit identical in
// both arrays. Any other non-finite pair makes MaxAbsError +Inf.
func Compare(original, reconstructed *ndarray.Array) (Report, error) {
	if original == nil || reconstructed == nil {
		return Report{}, fmt.Errorf("%w: nil array", errs.ErrShapeMismatch)
	}
	if !original.SameShape(reconstructed) {
		return Report{}, fmt.Errorf("%w: %v vs %v", errs.ErrShapeMismatch, original.Shape(), reconstructed.Shape())
	}

	a, b := finitePairs(original.Values(), reconstructed.Values())
	r := Report{Elements: original.Len()}
	if a == nil {
		r.MaxAbsError = math.Inf(1)
		return r, nil
	}
	if len(a) == 0 {
		return r, nil
	}

	r.MaxAbsError = MaxAbsError(a, b)
	r.RMSE = RMSE(a, b)
	r.Mean = Mean(a)
	r.ValueRange = floats.Max(a) - floats.Min(a)
	r.PSNR = PSNR(r.ValueRange, r.RMSE)
	r.SNR = SNR(a, r.RMSE)

	return r, nil
}

// finitePairs drops positions where both values are the same non-finite
// value. It returns nil slices when a non-finite value has no match.
func finitePairs(a, b []float64) ([]float64, []float64) {
	outA := make([]float64, 0, len(a))
	outB := make([]float64, 0, len(b))
	for i := range a {
		x, y := a[i], b[i]
		if isFinite(x) && isFinite(y) {
			outA = append(outA, x)
			outB = append(outB, y)
			continue
		}
		if math.Float64bits(x) != math.Float64bits(y) && !(math.IsNaN(x) && math.IsNaN(y)) {
			return nil, nil
		}
	}

	return outA, outB
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MaxAbsError returns max|a[i]-b[i]|. It panics if the lengths differ.
func MaxAbsError(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}

	return floats.Distance(a, b, math.Inf(1))
}

// RMSE returns the root mean squared difference. It panics if the lengths differ.
func RMSE(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}

	return floats.Distance(a, b, 2) / math.Sqrt(float64(len(a)))
}

// PSNR returns the peak signal to noise ratio in dB for a value range and RMSE.
func PSNR(valueRange, rmse float64) float64 {
	if rmse == 0 {
		return math.Inf(1)
	}

	return 20 * math.Log10(valueRange/rmse)
}

// SNR returns the signal to noise ratio in dB of the original samples against rmse.
func SNR(original []float64, rmse float64) float64 {
	if rmse == 0 {
		return math.Inf(1)
	}

	return 10 * math.Log10(stat.Variance(original, nil)/(rmse*rmse))
}

// CompressionRatio returns originalBytes / compressedBytes.
func CompressionRatio(originalBytes, compressedBytes int) float64 {
	if compressedBytes == 0 {
		return 0
	}

	return float64(originalBytes) / float64(compressedBytes)
}

// Mean returns the mean of the samples, or 0 for none.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return stat.Mean(values, nil)
}
