// dct-roundtrip transforms a raw array forward and back without quantization
// and writes the result next to the input as <input>.r, for comparison with
// cmp or a numeric diff.
//
// Usage:
//
//	dct-roundtrip -d|-f <input> <dim1> [dim2 [dim3]]
//
// -d reads float64 samples and -f reads float32 samples, both little-endian.
// The dimensions only fix the element count; the whole buffer is transformed
// as one sequence. Float32 input is transformed in double precision and
// rounded back, so its output is not byte-identical to a single precision
// FFTW run.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/ndarray"
	"github.com/arloliu/dctz/quality"
	"github.com/arloliu/dctz/transform"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	var useDouble, useFloat bool

	flagSet := pflag.NewFlagSet("dct-roundtrip", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVarP(&useDouble, "double", "d", false, "input holds float64 samples")
	flagSet.BoolVarP(&useFloat, "float", "f", false, "input holds float32 samples")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: dct-roundtrip -d|-f <input> <dim1> [dim2 [dim3]]\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if useDouble == useFloat {
		flagSet.Usage()
		return errors.New("exactly one of -d or -f is required")
	}

	dtype := format.Float64
	if useFloat {
		dtype = format.Float32
	}

	rest := flagSet.Args()
	if len(rest) < 2 || len(rest) > 1+ndarray.MaxRank {
		flagSet.Usage()
		return fmt.Errorf("expected an input path and 1 to %d dimensions", ndarray.MaxRank)
	}

	input := rest[0]
	dims := make([]int, 0, len(rest)-1)
	for _, s := range rest[1:] {
		d, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid dimension %q: %w", s, err)
		}
		dims = append(dims, d)
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	arr, err := ndarray.FromBytes(raw, dtype, dims...)
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}

	var out *ndarray.Array
	switch dtype {
	case format.Float32:
		out, err = ndarray.FromFloat32(transform.RoundtripFloat32(arr.Float32s()), dims...)
	default:
		out, err = ndarray.FromFloat64(transform.Roundtrip(arr.Float64s()), dims...)
	}
	if err != nil {
		return err
	}

	output := input + ".r"
	if err := os.WriteFile(output, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	report, err := quality.Compare(arr, out)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	logger.Info("roundtrip",
		"output", output,
		"elements", report.Elements,
		"max_abs_error", report.MaxAbsError,
	)

	return nil
}
