package codec

import (
	"fmt"
	"math"

	"github.com/arloliu/dctz/block"
	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/quant"
)

// DefaultErrorBound is the absolute error bound used when none is configured.
const DefaultErrorBound = 1e-3

// MaxWorkers caps the configurable worker count.
const MaxWorkers = 1024

// Config holds every setting of a Codec. The zero value is not valid; start
// from DefaultConfig.
type Config struct {
	// ErrorBound is the maximum absolute difference allowed between any input
	// sample and its reconstruction. Zero makes compression lossless.
	ErrorBound float64
	// BlockSize is the per-dimension block extent: 4, 8, 16 or 32.
	BlockSize int
	// Mode selects plain error-bound quantization or ratio-oriented culling.
	Mode format.QuantizerMode
	// CullThreshold is the ratio-mode culling threshold, in quantization steps.
	CullThreshold float64
	// Compression is the lossless stage applied to the record section.
	Compression format.CompressionType
	// Workers is the number of goroutines processing blocks. 0 means
	// runtime.GOMAXPROCS(0); 1 runs synchronously.
	Workers int
	// BigEndian writes multi-byte stream fields big-endian.
	BigEndian bool
	// Checksum stores an xxHash64 of the record section and verifies it on
	// decompression.
	Checksum bool
}

// DefaultConfig returns the default configuration: error bound 1e-3, 8-sample
// blocks, error-bound mode, zstd, checksum enabled, one worker per CPU.
func DefaultConfig() Config {
	return Config{
		ErrorBound:    DefaultErrorBound,
		BlockSize:     block.DefaultExtent,
		Mode:          format.ModeErrorBound,
		CullThreshold: quant.DefaultCullThreshold,
		Compression:   format.CompressionZstd,
		Checksum:      true,
	}
}

// Validate checks every field of c.
func (c Config) Validate() error {
	if math.IsNaN(c.ErrorBound) || math.IsInf(c.ErrorBound, 0) || c.ErrorBound < 0 {
		return fmt.Errorf("%w: %v", errs.ErrInvalidErrorBound, c.ErrorBound)
	}
	if !block.ValidExtent(c.BlockSize) {
		return fmt.Errorf("%w: %d, must be 4, 8, 16 or 32", errs.ErrInvalidBlockSize, c.BlockSize)
	}
	if !c.Mode.IsValid() {
		return fmt.Errorf("%w: quantizer mode %d", errs.ErrInvalidConfig, c.Mode)
	}
	if math.IsNaN(c.CullThreshold) || math.IsInf(c.CullThreshold, 0) || c.CullThreshold < 0 {
		return fmt.Errorf("%w: cull threshold %v", errs.ErrInvalidConfig, c.CullThreshold)
	}
	if !c.Compression.IsValid() {
		return fmt.Errorf("%w: compression %d", errs.ErrInvalidConfig, c.Compression)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers %d", errs.ErrInvalidConfig, c.Workers)
	}

	return nil
}
