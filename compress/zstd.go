package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor provides Zstandard compression, the default lossless stage.
//
// Zero-width blocks and repeated small coefficient patterns compress very
// well under zstd's entropy coder, typically another 2-4x on top of the
// bit-packed records.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// zstdMaxWindow is the largest window accepted for a frame whose declared
// content is smaller. Both encoders stay within it.
const zstdMaxWindow = 8 << 20

// checkZstdFrame rejects a frame whose header declares a content size other
// than rawLen, or a window the content cannot need.
func checkZstdFrame(data []byte, rawLen int) error {
	var h zstd.Header
	if err := h.Decode(data); err != nil {
		return fmt.Errorf("zstd frame header: %w", err)
	}
	if h.Skippable {
		return errors.New("zstd: unexpected skippable frame")
	}
	if h.HasFCS && h.FrameContentSize != uint64(rawLen) {
		return fmt.Errorf("zstd: frame declares %d bytes, expected %d", h.FrameContentSize, rawLen)
	}
	if !h.SingleSegment && h.WindowSize > max(uint64(rawLen), zstdMaxWindow) {
		return fmt.Errorf("zstd: window of %d bytes for %d bytes of content", h.WindowSize, rawLen)
	}

	return nil
}

// readExact drains r, which must yield exactly rawLen bytes. At most rawLen+1
// bytes are ever read, and the buffer grows with the data actually decoded.
func readExact(algo string, r io.Reader, rawLen int) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, min(rawLen, readChunkSize)))
	n, err := buf.ReadFrom(io.LimitReader(r, int64(rawLen)+1))
	if err != nil {
		return nil, fmt.Errorf("%s decompression failed: %w", algo, err)
	}
	if n > int64(rawLen) {
		return nil, fmt.Errorf("%s: decompressed more than %d bytes", algo, rawLen)
	}
	if err := checkLen(algo, int(n), rawLen); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

const readChunkSize = 1 << 20
