package stream

import (
	"errors"
	"fmt"

	"github.com/arloliu/dctz/block"
	"github.com/arloliu/dctz/compress"
	"github.com/arloliu/dctz/endian"
	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/internal/bitio"
	"github.com/arloliu/dctz/internal/checksum"
	"github.com/arloliu/dctz/section"
)

// Unpack parses a stream produced by Pack.
//
// Any truncated or ill-formed input returns an error wrapping
// errs.ErrCorruptStream. A header declaring more data than dctz is willing to
// allocate returns errs.ErrAllocationFailure.
func Unpack(data []byte) (section.Header, []Record, error) {
	h, err := section.ParseHeader(data)
	if err != nil {
		return section.Header{}, nil, err
	}

	grid, err := block.NewGrid(h.Dims, int(h.BlockSize))
	if err != nil {
		return section.Header{}, nil, fmt.Errorf("%w: %w", errs.ErrCorruptStream, err)
	}

	if err := checkRecordLength(h, grid); err != nil {
		return section.Header{}, nil, err
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return section.Header{}, nil, fmt.Errorf("%w: %w", errs.ErrCorruptStream, err)
	}

	raw, err := codec.Decompress(data[h.Size():], int(h.RecordLength))
	if err != nil {
		return section.Header{}, nil, fmt.Errorf("%w: %w", errs.ErrCorruptStream, err)
	}

	if h.Flag.HasChecksum() && !checksum.Verify(raw, h.Checksum) {
		return section.Header{}, nil, errs.ErrChecksumMismatch
	}

	records, err := parseRecords(raw, h, grid)
	if err != nil {
		return section.Header{}, nil, err
	}

	return h, records, nil
}

// checkRecordLength rejects section lengths no valid stream of this shape has.
func checkRecordLength(h section.Header, grid *block.Grid) error {
	numBlocks := uint64(grid.NumBlocks())
	blockLen := uint64(grid.BlockLen())

	quantized := 1 + 8 + 2 + 1 + 8*(blockLen-1) // widest AC payload
	raw := 1 + 8*blockLen
	limit := numBlocks * max(quantized, raw)

	if h.RecordLength > limit {
		return fmt.Errorf("%w: record section of %d bytes exceeds %d", errs.ErrAllocationFailure, h.RecordLength, limit)
	}
	if h.RecordLength < numBlocks {
		return fmt.Errorf("%w: record section of %d bytes for %d blocks", errs.ErrCorruptStream, h.RecordLength, numBlocks)
	}

	return nil
}

var errTruncated = errors.New("truncated record")

type recordReader struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

func (r *recordReader) next(n int) ([]byte, bool) {
	if n < 0 || len(r.data)-r.pos < n {
		return nil, false
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, true
}

func parseRecords(raw []byte, h section.Header, grid *block.Grid) ([]Record, error) {
	rd := &recordReader{data: raw, engine: h.Flag.GetEndianEngine()}
	records := make([]Record, grid.NumBlocks())
	maxAC := grid.BlockLen() - 1
	sampleSize := h.DataType.Size()

	for b := range grid.Blocks() {
		i := b.Index
		head, ok := rd.next(1)
		if !ok {
			return nil, fmt.Errorf("%w: truncated at block %d", errs.ErrCorruptStream, i)
		}

		mode := format.BlockMode(head[0])
		records[i].Mode = mode

		switch mode {
		case format.BlockZero:
		case format.BlockQuantized:
			if err := rd.quantized(&records[i], maxAC); err != nil {
				return nil, fmt.Errorf("%w: block %d: %w", errs.ErrCorruptStream, i, err)
			}
		case format.BlockRaw:
			n := grid.ValidLen(b)
			payload, ok := rd.next(n * sampleSize)
			if !ok {
				return nil, fmt.Errorf("%w: truncated raw block %d", errs.ErrCorruptStream, i)
			}
			records[i].Raw = decodeRaw(payload, rd.engine, h.DataType, n)
		default:
			return nil, fmt.Errorf("%w: block %d has mode %d", errs.ErrCorruptStream, i, mode)
		}
	}

	if rd.pos != len(raw) {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrCorruptStream, len(raw)-rd.pos)
	}

	return records, nil
}

func (r *recordReader) quantized(rec *Record, maxAC int) error {
	fixed, ok := r.next(8 + 2)
	if !ok {
		return errTruncated
	}
	rec.DC = endian.Float64(r.engine, fixed[:8])

	count := int(r.engine.Uint16(fixed[8:]))
	if count > maxAC {
		return fmt.Errorf("%d AC values, at most %d", count, maxAC)
	}
	if count == 0 {
		return nil
	}

	wb, ok := r.next(1)
	if !ok {
		return errTruncated
	}
	width := int(wb[0])
	if width > 64 {
		return fmt.Errorf("bit width %d", width)
	}

	packed, ok := r.next(bitio.PackedLen(count, width))
	if !ok {
		return errTruncated
	}

	br := bitio.NewReader(packed)
	rec.AC = make([]int64, count)
	for j := range rec.AC {
		u, ok := br.ReadBits(width)
		if !ok {
			return errTruncated
		}
		rec.AC[j] = unzigzag(u)
	}

	return nil
}

func decodeRaw(payload []byte, engine endian.EndianEngine, dtype format.DataType, n int) []float64 {
	out := make([]float64, n)
	if dtype == format.Float32 {
		for j := range out {
			out[j] = float64(endian.Float32(engine, payload[4*j:]))
		}

		return out
	}

	for j := range out {
		out[j] = endian.Float64(engine, payload[8*j:])
	}

	return out
}
