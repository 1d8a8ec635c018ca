package transform

import "gonum.org/v1/gonum/dsp/fourier"

// directLimit is the longest sequence Roundtrip transforms with a cosine table.
// Longer sequences go through gonum's FFT-based quarter-wave transform.
const directLimit = 512

// Roundtrip transforms data forward and back as a single 1-D block and
// normalizes the result, returning a new slice that should equal data up to
// floating point rounding. No quantization takes place.
func Roundtrip(data []float64) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	if n <= directLimit {
		e := NewEngine(n)
		coeffs := make([]float64, n)
		e.Forward(coeffs, data)
		e.Inverse(out, coeffs)

		scale := 1 / e.Normalization()
		for i := range out {
			out[i] *= scale
		}

		return out
	}

	// CosCoefficients followed by CosSequence scales the input by 4n.
	fft := fourier.NewQuarterWaveFFT(n)
	coeffs := fft.CosCoefficients(nil, data)
	fft.CosSequence(out, coeffs)

	scale := 1 / float64(4*n)
	for i := range out {
		out[i] *= scale
	}

	return out
}

// RoundtripFloat32 is Roundtrip for single precision input. The transform runs
// in double precision and the result is rounded back to float32, so it is
// usually bit-identical to the input and does not byte-match a single
// precision FFT.
func RoundtripFloat32(data []float32) []float32 {
	wide := make([]float64, len(data))
	for i, v := range data {
		wide[i] = float64(v)
	}

	r := Roundtrip(wide)
	out := make([]float32, len(data))
	for i, v := range r {
		out[i] = float32(v)
	}

	return out
}
