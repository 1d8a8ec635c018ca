package format

import (
	"fmt"
	"strings"
)

// ParseDataType parses a data type name such as "f32", "float" or "double".
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "f32", "float", "float32", "single":
		return Float32, nil
	case "d", "f64", "float64", "double":
		return Float64, nil
	default:
		return 0, fmt.Errorf("unknown data type %q", s)
	}
}

// ParseCompressionType parses a lossless stage name such as "zstd" or "none".
func ParseCompressionType(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

// ParseQuantizerMode parses "error-bound" or "ratio".
func ParseQuantizerMode(s string) (QuantizerMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error-bound", "errorbound", "abs", "":
		return ModeErrorBound, nil
	case "ratio", "compression-ratio":
		return ModeRatio, nil
	default:
		return 0, fmt.Errorf("unknown quantizer mode %q", s)
	}
}
