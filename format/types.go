package format

type (
	DataType        uint8
	CompressionType uint8
	QuantizerMode   uint8
	BlockMode       uint8
)

const (
	Float32 DataType = 0x1 // Float32 represents IEEE-754 single precision samples.
	Float64 DataType = 0x2 // Float64 represents IEEE-754 double precision samples.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no lossless stage.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	// ModeErrorBound quantizes every AC coefficient with the error-bound step size.
	ModeErrorBound QuantizerMode = 0x1
	// ModeRatio additionally culls small AC coefficients to zero.
	ModeRatio QuantizerMode = 0x2

	BlockZero      BlockMode = 0x0 // BlockZero marks a block whose samples are all zero.
	BlockQuantized BlockMode = 0x1 // BlockQuantized marks an exact DC plus quantized AC coefficients.
	BlockRaw       BlockMode = 0x2 // BlockRaw marks verbatim samples at the stream's data type width.
)

// Size returns the width of one sample in bytes, or 0 for an unknown type.
func (d DataType) Size() int {
	switch d {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// IsValid reports whether d is float32 or float64.
func (d DataType) IsValid() bool {
	return d == Float32 || d == Float64
}

func (d DataType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is one of the built-in lossless stages.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether m is a known quantizer mode.
func (m QuantizerMode) IsValid() bool {
	return m == ModeErrorBound || m == ModeRatio
}

func (m QuantizerMode) String() string {
	switch m {
	case ModeErrorBound:
		return "ErrorBound"
	case ModeRatio:
		return "Ratio"
	default:
		return "Unknown"
	}
}

func (b BlockMode) String() string {
	switch b {
	case BlockZero:
		return "Zero"
	case BlockQuantized:
		return "Quantized"
	case BlockRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}
