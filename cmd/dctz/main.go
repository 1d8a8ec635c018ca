// dctz compresses raw float32/float64 array dumps into DCTZ streams and back.
//
// Usage:
//
//	dctz compress -i in.bin -o out.dctz --dtype f64 --dims 64,64 -e 1e-3
//	dctz decompress -i out.dctz -o out.bin
//	dctz verify -i in.bin --dtype f32 --dims 100,500,500 -e 1e-4
//
// Input and output arrays are headerless native little-endian dumps in
// row-major order. Optional settings can be read from a YAML file given with
// --config; flags given on the command line take precedence.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/arloliu/dctz/codec"
	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/ndarray"
	"github.com/arloliu/dctz/quality"
)

var errBoundExceeded = errors.New("reconstruction exceeds error bound")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errors.New("missing command")
	}

	switch args[0] {
	case "compress":
		return runCompress("compress", args[1:], stderr, false)
	case "verify":
		return runCompress("verify", args[1:], stderr, true)
	case "decompress":
		return runDecompress(args[1:], stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `dctz - error-bounded lossy compression of 2-D and 3-D float arrays.

Usage:
  dctz compress   -i <in.bin> -o <out.dctz> --dtype f32|f64 --dims d1,d2[,d3] [flags]
  dctz decompress -i <in.dctz> -o <out.bin> [flags]
  dctz verify     -i <in.bin> --dtype f32|f64 --dims d1,d2[,d3] [flags]

Run "dctz <command> --help" for the flags of a command.
`)
}

type compressFlags struct {
	input       string
	output      string
	dtype       string
	dims        []int
	errorBound  float64
	blockSize   int
	mode        string
	cull        float64
	compression string
	workers     int
	bigEndian   bool
	noChecksum  bool
	config      string
	verify      bool
	verbose     bool
}

func runCompress(name string, args []string, stderr io.Writer, verifyOnly bool) error {
	var f compressFlags

	flagSet := pflag.NewFlagSet("dctz "+name, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&f.input, "input", "i", "", "raw little-endian input array")
	if !verifyOnly {
		flagSet.StringVarP(&f.output, "output", "o", "", "output stream path")
		flagSet.BoolVar(&f.verify, "verify", false, "decompress the result and check the error bound")
	}
	flagSet.StringVar(&f.dtype, "dtype", "f64", "sample type: f32 or f64")
	flagSet.IntSliceVar(&f.dims, "dims", nil, "array dimensions, slowest varying first (e.g. 100,500,500)")
	flagSet.Float64VarP(&f.errorBound, "error-bound", "e", codec.DefaultErrorBound, "absolute error bound")
	flagSet.IntVar(&f.blockSize, "block", 8, "block extent per dimension: 4, 8, 16 or 32")
	flagSet.StringVar(&f.mode, "mode", "error-bound", "quantizer mode: error-bound or ratio")
	flagSet.Float64Var(&f.cull, "cull", 0, "ratio mode culling threshold in quantization steps")
	flagSet.StringVar(&f.compression, "compression", "zstd", "lossless stage: zstd, s2, lz4 or none")
	flagSet.IntVar(&f.workers, "workers", 0, "worker goroutines (0 uses every CPU)")
	flagSet.BoolVar(&f.bigEndian, "big-endian", false, "write a big-endian stream")
	flagSet.BoolVar(&f.noChecksum, "no-checksum", false, "omit the record section checksum")
	flagSet.StringVar(&f.config, "config", "", "YAML configuration file")
	flagSet.BoolVarP(&f.verbose, "verbose", "v", false, "log debug details")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(flagSet.Args()) > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if f.input == "" {
		return errors.New("--input is required")
	}
	if !verifyOnly && f.output == "" {
		return errors.New("--output is required")
	}
	if len(f.dims) == 0 {
		return errors.New("--dims is required")
	}

	logger := newLogger(stderr, f.verbose)

	opts, err := compressOptions(flagSet, &f)
	if err != nil {
		return err
	}

	c, err := codec.New(opts...)
	if err != nil {
		return err
	}

	dtype, err := format.ParseDataType(f.dtype)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(f.input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	arr, err := ndarray.FromBytes(raw, dtype, f.dims...)
	if err != nil {
		return fmt.Errorf("loading %s: %w", f.input, err)
	}

	cfg := c.Configuration()
	logger.Debug("compressing",
		"input", f.input,
		"dtype", dtype,
		"dims", f.dims,
		"error_bound", cfg.ErrorBound,
		"block_size", cfg.BlockSize,
		"mode", cfg.Mode,
		"compression", cfg.Compression,
	)

	data, stats, err := c.CompressWithStats(arr)
	if err != nil {
		return err
	}

	logger.Info("compressed",
		"original_bytes", stats.OriginalSize,
		"compressed_bytes", stats.CompressedSize,
		"ratio", stats.Ratio(),
		"bits_per_value", stats.BitsPerValue(),
		"blocks", stats.Blocks,
		"zero_blocks", stats.ZeroBlocks,
		"raw_blocks", stats.RawBlocks,
	)

	if verifyOnly || f.verify {
		if err := verifyStream(logger, c, arr, data); err != nil {
			return err
		}
	}

	if verifyOnly {
		return nil
	}

	if err := os.WriteFile(f.output, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// compressOptions layers the YAML file, then explicitly set flags.
func compressOptions(flagSet *pflag.FlagSet, f *compressFlags) ([]codec.Option, error) {
	fileCfg, err := loadConfig(f.config)
	if err != nil {
		return nil, err
	}

	opts, err := fileCfg.options()
	if err != nil {
		return nil, err
	}

	if flagSet.Changed("error-bound") {
		opts = append(opts, codec.WithErrorBound(f.errorBound))
	}
	if flagSet.Changed("block") {
		opts = append(opts, codec.WithBlockSize(f.blockSize))
	}
	if flagSet.Changed("mode") {
		mode, err := format.ParseQuantizerMode(f.mode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithMode(mode))
	}
	if flagSet.Changed("cull") {
		opts = append(opts, codec.WithRatioMode(f.cull))
	}
	if flagSet.Changed("compression") {
		ct, err := format.ParseCompressionType(f.compression)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithCompression(ct))
	}
	if flagSet.Changed("workers") {
		opts = append(opts, codec.WithWorkers(f.workers))
	}
	if f.bigEndian {
		opts = append(opts, codec.WithBigEndian())
	}
	if f.noChecksum {
		opts = append(opts, codec.WithChecksum(false))
	}

	return opts, nil
}

func verifyStream(logger *slog.Logger, c *codec.Codec, arr *ndarray.Array, data []byte) error {
	restored, err := c.DecompressNew(data)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	report, err := quality.Compare(arr, restored)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	bound := c.Configuration().ErrorBound
	logger.Info("verified",
		"max_abs_error", report.MaxAbsError,
		"error_bound", bound,
		"rmse", report.RMSE,
		"mean", report.Mean,
		"psnr_db", report.PSNR,
	)

	if report.MaxAbsError > bound {
		return fmt.Errorf("%w: %g > %g", errBoundExceeded, report.MaxAbsError, bound)
	}

	return nil
}

func runDecompress(args []string, stderr io.Writer) error {
	var input, output string
	var workers int
	var verbose bool

	flagSet := pflag.NewFlagSet("dctz decompress", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&input, "input", "i", "", "input stream path")
	flagSet.StringVarP(&output, "output", "o", "", "raw little-endian output array")
	flagSet.IntVar(&workers, "workers", 0, "worker goroutines (0 uses every CPU)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug details")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(flagSet.Args()) > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if input == "" || output == "" {
		return errors.New("--input and --output are required")
	}

	logger := newLogger(stderr, verbose)

	c, err := codec.New(codec.WithWorkers(workers))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	arr, err := c.DecompressNew(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", input, err)
	}

	logger.Info("decompressed",
		"dtype", arr.DataType(),
		"dims", arr.Shape(),
		"bytes", arr.ByteSize(),
	)

	if err := os.WriteFile(output, arr.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
