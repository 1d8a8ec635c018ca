package codec

import (
	"fmt"
	"math"

	"github.com/arloliu/dctz/block"
	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/internal/options"
)

// Option configures a Codec.
type Option = options.Option[*Config]

// WithErrorBound sets the absolute error bound. Negative, NaN and infinite
// values are rejected.
func WithErrorBound(e float64) Option {
	return options.New(func(c *Config) error {
		if math.IsNaN(e) || math.IsInf(e, 0) || e < 0 {
			return fmt.Errorf("%w: %v", errs.ErrInvalidErrorBound, e)
		}
		c.ErrorBound = e

		return nil
	})
}

// WithBlockSize sets the per-dimension block extent.
func WithBlockSize(n int) Option {
	return options.New(func(c *Config) error {
		if !block.ValidExtent(n) {
			return fmt.Errorf("%w: %d, must be 4, 8, 16 or 32", errs.ErrInvalidBlockSize, n)
		}
		c.BlockSize = n

		return nil
	})
}

// WithMode sets the quantizer mode.
func WithMode(mode format.QuantizerMode) Option {
	return options.New(func(c *Config) error {
		if !mode.IsValid() {
			return fmt.Errorf("%w: quantizer mode %d", errs.ErrInvalidConfig, mode)
		}
		c.Mode = mode

		return nil
	})
}

// WithRatioMode enables ratio mode with the given culling threshold, in
// quantization steps.
func WithRatioMode(cullThreshold float64) Option {
	return options.New(func(c *Config) error {
		if math.IsNaN(cullThreshold) || math.IsInf(cullThreshold, 0) || cullThreshold < 0 {
			return fmt.Errorf("%w: cull threshold %v", errs.ErrInvalidConfig, cullThreshold)
		}
		c.Mode = format.ModeRatio
		c.CullThreshold = cullThreshold

		return nil
	})
}

// WithCompression sets the lossless stage.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if !ct.IsValid() {
			return fmt.Errorf("%w: compression %d", errs.ErrInvalidConfig, ct)
		}
		c.Compression = ct

		return nil
	})
}

// WithWorkers sets the number of goroutines used per call. 0 selects
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 || n > MaxWorkers {
			return fmt.Errorf("%w: workers %d", errs.ErrInvalidConfig, n)
		}
		c.Workers = n

		return nil
	})
}

// WithLittleEndian writes little-endian streams. It is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *Config) {
		c.BigEndian = false
	})
}

// WithBigEndian writes big-endian streams.
func WithBigEndian() Option {
	return options.NoError(func(c *Config) {
		c.BigEndian = true
	})
}

// WithChecksum enables or disables the record section checksum.
func WithChecksum(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.Checksum = enabled
	})
}
