package section

import (
	"fmt"
	"math"

	"github.com/arloliu/dctz/block"
	"github.com/arloliu/dctz/endian"
	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/ndarray"
)

// Header is the fixed-layout description of a compressed stream.
//
// It carries everything decompression needs besides the records: the array
// shape and type, the block extent and the full quantization context.
type Header struct {
	Flag        Flag                   // byte offset 0-1
	Version     uint8                  // byte offset 2
	DataType    format.DataType        // byte offset 3
	BlockSize   uint8                  // byte offset 5
	Mode        format.QuantizerMode   // byte offset 6
	Compression format.CompressionType // byte offset 7

	ErrorBound    float64 // byte offset 8-15
	Step          float64 // byte offset 16-23
	CullThreshold float64 // byte offset 24-31
	// Checksum is the xxHash64 of the uncompressed record section, or 0 when
	// the checksum flag is clear.
	Checksum uint64 // byte offset 32-39
	// RecordLength is the size of the record section before the lossless stage.
	RecordLength uint64 // byte offset 40-47

	// Dims is the array shape; its length is the rank stored at byte offset 4.
	Dims []int
}

// NewHeader creates a header for an array of the given type and shape with
// the default block extent and lossless stage.
func NewHeader(dtype format.DataType, dims []int) *Header {
	return &Header{
		Flag:        NewFlag(),
		Version:     FormatVersion,
		DataType:    dtype,
		BlockSize:   block.DefaultExtent,
		Mode:        format.ModeErrorBound,
		Compression: format.CompressionZstd,
		Dims:        append([]int(nil), dims...),
	}
}

// Rank returns the number of dimensions.
func (h *Header) Rank() int {
	return len(h.Dims)
}

// Size returns the encoded header size in bytes.
func (h *Header) Size() int {
	return FixedHeaderSize + DimSize*len(h.Dims)
}

// NumElements returns the product of the dimensions.
func (h *Header) NumElements() int {
	n := 1
	for _, d := range h.Dims {
		n *= d
	}

	return n
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, h.Size()))
}

// AppendTo appends the serialized header to b.
func (h *Header) AppendTo(b []byte) []byte {
	engine := h.Flag.GetEndianEngine()

	// Options are always little-endian.
	b = append(b, byte(h.Flag.Options), byte(h.Flag.Options>>8))
	b = append(b,
		h.Version,
		uint8(h.DataType),
		uint8(len(h.Dims)),
		h.BlockSize,
		uint8(h.Mode),
		uint8(h.Compression),
	)
	b = endian.AppendFloat64(engine, b, h.ErrorBound)
	b = endian.AppendFloat64(engine, b, h.Step)
	b = endian.AppendFloat64(engine, b, h.CullThreshold)
	b = engine.AppendUint64(b, h.Checksum)
	b = engine.AppendUint64(b, h.RecordLength)
	for _, d := range h.Dims {
		b = engine.AppendUint64(b, uint64(d))
	}

	return b
}

// Parse parses the header from the start of data and validates it.
//
// data may extend past the header. Malformed headers return an error wrapping
// errs.ErrCorruptStream; a shape too large to allocate returns
// errs.ErrAllocationFailure.
func (h *Header) Parse(data []byte) error {
	if len(data) < FixedHeaderSize {
		return fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	h.Flag.Options = uint16(data[0]) | uint16(data[1])<<8
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	h.Version = data[2]
	h.DataType = format.DataType(data[3])
	rank := int(data[4])
	h.BlockSize = data[5]
	h.Mode = format.QuantizerMode(data[6])
	h.Compression = format.CompressionType(data[7])

	if err := h.validateFields(rank); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.ErrorBound = endian.Float64(engine, data[8:16])
	h.Step = endian.Float64(engine, data[16:24])
	h.CullThreshold = endian.Float64(engine, data[24:32])
	h.Checksum = engine.Uint64(data[32:40])
	h.RecordLength = engine.Uint64(data[40:48])

	if len(data) < FixedHeaderSize+DimSize*rank {
		return fmt.Errorf("%w: %d bytes for rank %d", errs.ErrInvalidHeaderSize, len(data), rank)
	}

	h.Dims = make([]int, rank)
	for i := range rank {
		off := FixedHeaderSize + DimSize*i
		d := engine.Uint64(data[off : off+DimSize])
		if d == 0 {
			return fmt.Errorf("%w: zero dimension %d", errs.ErrCorruptStream, i)
		}
		if d > ndarray.MaxElements {
			return fmt.Errorf("%w: dimension %d of %d", errs.ErrAllocationFailure, i, d)
		}
		h.Dims[i] = int(d)
	}

	if _, err := ndarray.CheckShape(h.Dims); err != nil {
		return err
	}

	if !h.Flag.HasChecksum() && h.Checksum != 0 {
		return fmt.Errorf("%w: checksum present without flag", errs.ErrInvalidHeaderFlags)
	}
	if math.IsNaN(h.Step) || math.IsNaN(h.ErrorBound) || math.IsNaN(h.CullThreshold) {
		return fmt.Errorf("%w: NaN quantization parameter", errs.ErrCorruptStream)
	}

	return nil
}

func (h *Header) validateFields(rank int) error {
	if h.Version != FormatVersion {
		return fmt.Errorf("%w: version %d", errs.ErrInvalidHeaderFlags, h.Version)
	}
	if !h.DataType.IsValid() {
		return fmt.Errorf("%w: data type %d", errs.ErrInvalidHeaderFlags, h.DataType)
	}
	if rank < 2 || rank > MaxRank {
		return fmt.Errorf("%w: rank %d", errs.ErrInvalidHeaderFlags, rank)
	}
	if !block.ValidExtent(int(h.BlockSize)) {
		return fmt.Errorf("%w: block extent %d", errs.ErrInvalidHeaderFlags, h.BlockSize)
	}
	if !h.Mode.IsValid() {
		return fmt.Errorf("%w: quantizer mode %d", errs.ErrInvalidHeaderFlags, h.Mode)
	}
	if !h.Compression.IsValid() {
		return fmt.Errorf("%w: compression %d", errs.ErrInvalidHeaderFlags, h.Compression)
	}

	return nil
}

// ParseHeader parses and validates a Header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	h := Header{}
	if err := h.Parse(data); err != nil {
		return Header{}, err
	}

	return h, nil
}
