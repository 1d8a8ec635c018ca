// dctz-measure sweeps error bounds, block sizes and lossless stages over a
// field and reports compression ratio, bits per value and reconstruction
// quality, together with fitted rate models.
//
// The field is either synthetic (--field smooth|turbulent|noise|sparse) or a
// raw little-endian dump given with --input.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/ndarray"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		field   string
		input   string
		dtype   string
		dims    []int
		bounds  []float64
		blocks  []int
		stages  []string
		workers int
		seed    uint64
		csvPath string
		verbose bool
	)

	flagSet := pflag.NewFlagSet("dctz-measure", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&field, "field", string(FieldSmooth), "synthetic field: smooth, turbulent, noise or sparse")
	flagSet.StringVarP(&input, "input", "i", "", "raw little-endian array to measure instead of a synthetic field")
	flagSet.StringVar(&dtype, "dtype", "f64", "sample type: f32 or f64")
	flagSet.IntSliceVar(&dims, "dims", []int{256, 256}, "array dimensions")
	flagSet.Float64SliceVar(&bounds, "bounds", []float64{1e-1, 1e-2, 1e-3, 1e-4, 1e-5}, "error bounds to sweep")
	flagSet.IntSliceVar(&blocks, "blocks", []int{8}, "block sizes to sweep")
	flagSet.StringSliceVar(&stages, "compression", []string{"zstd"}, "lossless stages to sweep")
	flagSet.IntVar(&workers, "workers", 0, "worker goroutines (0 uses every CPU)")
	flagSet.Uint64Var(&seed, "seed", 42, "random seed for synthetic fields")
	flagSet.StringVar(&csvPath, "csv", "", "optional CSV output file")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log progress")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(flagSet.Args()) > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if len(bounds) == 0 || len(blocks) == 0 || len(stages) == 0 {
		return errors.New("--bounds, --blocks and --compression must not be empty")
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	dt, err := format.ParseDataType(dtype)
	if err != nil {
		return err
	}

	cts := make([]format.CompressionType, 0, len(stages))
	for _, s := range stages {
		ct, err := format.ParseCompressionType(s)
		if err != nil {
			return err
		}
		cts = append(cts, ct)
	}

	var arr *ndarray.Array
	name := field
	if input != "" {
		raw, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if arr, err = ndarray.FromBytes(raw, dt, dims...); err != nil {
			return fmt.Errorf("loading %s: %w", input, err)
		}
		name = input
	} else {
		logger.Debug("generating field", "kind", field, "dims", dims, "seed", seed)
		if arr, err = GenerateField(GenConfig{Kind: FieldKind(field), DType: dt, Dims: dims, Seed: seed}); err != nil {
			return err
		}
	}

	PrintSource(stdout, name, dt, dims, workers)

	logger.Debug("sweeping", "bounds", len(bounds), "blocks", len(blocks), "stages", len(cts))
	results, err := Sweep(arr, bounds, blocks, cts, workers)
	if err != nil {
		return err
	}

	PrintResults(stdout, results)

	fits, err := Analyze(results)
	switch {
	case err == nil:
		PrintFits(stdout, fits)
	case errors.Is(err, errTooFewPoints):
		logger.Warn("skipping rate models", "reason", err)
	default:
		return err
	}

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating csv: %w", err)
		}
		defer f.Close()

		if err := WriteCSV(f, results); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		logger.Debug("wrote csv", "path", csvPath)
	}

	return nil
}
