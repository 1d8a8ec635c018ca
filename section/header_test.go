package section

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
)

func sampleHeader() *Header {
	h := NewHeader(format.Float64, []int{64, 48})
	h.ErrorBound = 1e-3
	h.Step = 0.0050125
	h.RecordLength = 12345
	h.Flag.SetChecksum(true)
	h.Checksum = 0xDEADBEEFCAFEF00D

	return h
}

func TestNewHeader(t *testing.T) {
	h := NewHeader(format.Float32, []int{10, 20, 30})

	require.False(t, h.Flag.IsBigEndian())
	require.False(t, h.Flag.HasChecksum())
	require.Equal(t, uint8(FormatVersion), h.Version)
	require.Equal(t, uint8(8), h.BlockSize)
	require.Equal(t, format.ModeErrorBound, h.Mode)
	require.Equal(t, format.CompressionZstd, h.Compression)
	require.Equal(t, 3, h.Rank())
	require.Equal(t, 6000, h.NumElements())
	require.Equal(t, FixedHeaderSize+3*DimSize, h.Size())
}

func TestHeader_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *Header)
	}{
		{"default", func(h *Header) {}},
		{"big endian", func(h *Header) { h.Flag.WithBigEndian() }},
		{"ratio mode", func(h *Header) { h.Mode = format.ModeRatio; h.CullThreshold = 1.5 }},
		{"float32 3d", func(h *Header) { h.DataType = format.Float32; h.Dims = []int{5, 6, 7} }},
		{"lz4 block 32", func(h *Header) { h.Compression = format.CompressionLZ4; h.BlockSize = 32 }},
		{"no checksum", func(h *Header) { h.Flag.SetChecksum(false); h.Checksum = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := sampleHeader()
			tt.mutate(h)

			data := h.Bytes()
			require.Len(t, data, h.Size())

			parsed, err := ParseHeader(append(data, 0xAA, 0xBB)) // trailing records are ignored
			require.NoError(t, err)
			require.Equal(t, *h, parsed)
		})
	}
}

func TestHeader_ByteLayout(t *testing.T) {
	h := sampleHeader()
	data := h.Bytes()

	require.Equal(t, uint16(MagicDCTZV1Opt|ChecksumMask), binary.LittleEndian.Uint16(data[0:2]))
	require.Equal(t, byte(FormatVersion), data[2])
	require.Equal(t, byte(format.Float64), data[3])
	require.Equal(t, byte(2), data[4])
	require.Equal(t, byte(8), data[5])
	require.Equal(t, uint64(12345), binary.LittleEndian.Uint64(data[40:48]))
	require.Equal(t, uint64(64), binary.LittleEndian.Uint64(data[48:56]))
	require.Equal(t, uint64(48), binary.LittleEndian.Uint64(data[56:64]))

	h.Flag.WithBigEndian()
	data = h.Bytes()
	require.Equal(t, uint16(MagicDCTZV1Opt|ChecksumMask|EndiannessMask), binary.LittleEndian.Uint16(data[0:2]),
		"options stay little-endian")
	require.Equal(t, uint64(64), binary.BigEndian.Uint64(data[48:56]))
}

func TestHeader_ParseErrors(t *testing.T) {
	valid := sampleHeader().Bytes()

	tests := []struct {
		name    string
		data    func() []byte
		wantErr error
	}{
		{"empty", func() []byte { return nil }, errs.ErrInvalidHeaderSize},
		{"short fixed part", func() []byte { return valid[:FixedHeaderSize-1] }, errs.ErrInvalidHeaderSize},
		{"missing dims", func() []byte { return valid[:FixedHeaderSize+DimSize] }, errs.ErrInvalidHeaderSize},
		{"bad magic", func() []byte { d := clone(valid); d[1] = 0xEA; return d }, errs.ErrInvalidHeaderFlags},
		{"reserved bit", func() []byte { d := clone(valid); d[0] |= 0x04; return d }, errs.ErrInvalidHeaderFlags},
		{"bad version", func() []byte { d := clone(valid); d[2] = 9; return d }, errs.ErrInvalidHeaderFlags},
		{"bad dtype", func() []byte { d := clone(valid); d[3] = 7; return d }, errs.ErrInvalidHeaderFlags},
		{"rank 1", func() []byte { d := clone(valid); d[4] = 1; return d }, errs.ErrInvalidHeaderFlags},
		{"rank 4", func() []byte { d := clone(valid); d[4] = 4; return d }, errs.ErrInvalidHeaderFlags},
		{"bad extent", func() []byte { d := clone(valid); d[5] = 7; return d }, errs.ErrInvalidHeaderFlags},
		{"bad mode", func() []byte { d := clone(valid); d[6] = 0; return d }, errs.ErrInvalidHeaderFlags},
		{"bad compression", func() []byte { d := clone(valid); d[7] = 0; return d }, errs.ErrInvalidHeaderFlags},
		{"zero dim", func() []byte {
			d := clone(valid)
			binary.LittleEndian.PutUint64(d[48:56], 0)
			return d
		}, errs.ErrCorruptStream},
		{"huge dim", func() []byte {
			d := clone(valid)
			binary.LittleEndian.PutUint64(d[48:56], 1<<62)
			return d
		}, errs.ErrAllocationFailure},
		{"overflowing product", func() []byte {
			d := clone(valid)
			binary.LittleEndian.PutUint64(d[48:56], 1<<30)
			binary.LittleEndian.PutUint64(d[56:64], 1<<30)
			return d
		}, errs.ErrAllocationFailure},
		{"checksum without flag", func() []byte { d := clone(valid); d[0] &^= ChecksumMask; return d }, errs.ErrInvalidHeaderFlags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.data())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHeader_ParseErrorsAreCorruptStream(t *testing.T) {
	_, err := ParseHeader([]byte{0x10, 0xDC})
	require.ErrorIs(t, err, errs.ErrCorruptStream)

	d := sampleHeader().Bytes()
	d[3] = 0
	_, err = ParseHeader(d)
	require.ErrorIs(t, err, errs.ErrCorruptStream)
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
