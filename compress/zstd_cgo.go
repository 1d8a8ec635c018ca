//go:build cgozstd && cgo

package compress

import (
	"bytes"

	"github.com/valyala/gozstd"
)

// Compress compresses data with the libzstd binding at level 3.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decodes a Zstd frame of exactly rawLen bytes. Output beyond
// rawLen is never materialized.
func (c ZstdCompressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkLen("zstd", 0, rawLen)
	}

	if err := checkZstdFrame(data, rawLen); err != nil {
		return nil, err
	}

	zr := gozstd.NewReader(bytes.NewReader(data))
	defer zr.Release()

	return readExact("zstd", zr, rawLen)
}
