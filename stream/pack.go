package stream

import (
	"fmt"
	"math"

	"github.com/arloliu/dctz/block"
	"github.com/arloliu/dctz/compress"
	"github.com/arloliu/dctz/endian"
	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/internal/bitio"
	"github.com/arloliu/dctz/internal/checksum"
	"github.com/arloliu/dctz/internal/pool"
	"github.com/arloliu/dctz/section"
)

// Pack serializes h followed by the records, one per block of the grid h
// describes, in block order.
//
// RecordLength and Checksum of h are filled in by Pack. The returned stats
// describe the lossless stage.
func Pack(h section.Header, records []Record) ([]byte, compress.Stats, error) {
	grid, err := block.NewGrid(h.Dims, int(h.BlockSize))
	if err != nil {
		return nil, compress.Stats{}, err
	}
	if len(records) != grid.NumBlocks() {
		return nil, compress.Stats{}, fmt.Errorf("%w: %d records for %d blocks",
			errs.ErrInvalidShape, len(records), grid.NumBlocks())
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, compress.Stats{}, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	engine := h.Flag.GetEndianEngine()
	maxAC := grid.BlockLen() - 1
	for i := range records {
		r := &records[i]
		buf.Grow(r.EncodedSize(h.DataType))

		switch r.Mode {
		case format.BlockZero:
			buf.B = append(buf.B, byte(format.BlockZero))
		case format.BlockQuantized:
			if len(r.AC) > maxAC || len(r.AC) > math.MaxUint16 {
				return nil, compress.Stats{}, fmt.Errorf("%w: block %d has %d AC values, at most %d",
					errs.ErrInvalidShape, i, len(r.AC), maxAC)
			}
			buf.B = appendQuantized(buf.B, engine, r)
		case format.BlockRaw:
			if want := grid.ValidLen(grid.Block(i)); len(r.Raw) != want {
				return nil, compress.Stats{}, fmt.Errorf("%w: raw block %d has %d samples, expected %d",
					errs.ErrInvalidShape, i, len(r.Raw), want)
			}
			buf.B = appendRaw(buf.B, engine, h.DataType, r.Raw)
		default:
			return nil, compress.Stats{}, fmt.Errorf("%w: block %d mode %d", errs.ErrInvalidConfig, i, r.Mode)
		}
	}

	raw := buf.Bytes()
	h.RecordLength = uint64(len(raw))
	h.Checksum = 0
	if h.Flag.HasChecksum() {
		h.Checksum = checksum.Sum64(raw)
	}

	payload, err := codec.Compress(raw)
	if err != nil {
		return nil, compress.Stats{}, fmt.Errorf("%s compression failed: %w", h.Compression, err)
	}

	out := make([]byte, 0, h.Size()+len(payload))
	out = h.AppendTo(out)
	out = append(out, payload...)

	stats := compress.Stats{
		Algorithm:      h.Compression,
		OriginalSize:   int64(len(raw)),
		CompressedSize: int64(len(payload)),
	}

	return out, stats, nil
}

func appendQuantized(b []byte, engine endian.EndianEngine, r *Record) []byte {
	b = append(b, byte(format.BlockQuantized))
	b = endian.AppendFloat64(engine, b, r.DC)
	b = engine.AppendUint16(b, uint16(len(r.AC)))
	if len(r.AC) == 0 {
		return b
	}

	width := packWidth(r.AC)
	b = append(b, byte(width))

	w := bitio.NewWriter(b)
	for _, v := range r.AC {
		w.WriteBits(zigzag(v), width)
	}

	return w.Finish()
}

func appendRaw(b []byte, engine endian.EndianEngine, dtype format.DataType, samples []float64) []byte {
	b = append(b, byte(format.BlockRaw))
	if dtype == format.Float32 {
		for _, v := range samples {
			b = endian.AppendFloat32(engine, b, float32(v))
		}

		return b
	}

	for _, v := range samples {
		b = endian.AppendFloat64(engine, b, v)
	}

	return b
}
