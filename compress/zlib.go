package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/format"
)

// ZlibCompressor handles zlib_data blobs.
type ZlibCompressor struct {
	maxSize int
}

var _ Codec = (*ZlibCompressor)(nil)

// NewZlibCompressor creates a zlib codec limited to format.MaxBlobSize of inflated output.
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{maxSize: format.MaxBlobSize}
}

// NewZlibCompressorSize creates a zlib codec with a custom inflated size limit.
// A zero or negative maxSize selects format.MaxBlobSize.
func NewZlibCompressorSize(maxSize int) ZlibCompressor {
	if maxSize <= 0 {
		maxSize = format.MaxBlobSize
	}

	return ZlibCompressor{maxSize: maxSize}
}

// Compress compresses the input data using zlib at the default level.
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream.
//
// Returns errs.ErrDecompress if the stream is corrupt, truncated or inflates
// past the size limit.
func (c ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	return c.decompress(data, 0)
}

func (c ZlibCompressor) decompress(data []byte, sizeHint int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", errs.ErrDecompress, err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if sizeHint > 0 && sizeHint <= c.maxSize {
		buf.Grow(sizeHint)
	}

	n, err := io.Copy(&buf, io.LimitReader(r, int64(c.maxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", errs.ErrDecompress, err)
	}

	if n > int64(c.maxSize) {
		return nil, fmt.Errorf("%w: zlib: inflated size exceeds %d bytes", errs.ErrDecompress, c.maxSize)
	}

	return buf.Bytes(), nil
}
