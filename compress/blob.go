package compress

import (
	"fmt"

	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/schema"
)

// DecompressBlob returns the block bytes carried by a blob.
//
// A raw payload is returned unchanged. A zlib payload is inflated; when the blob
// declares raw_size the inflated length must match it.
//
// Parameters:
//   - blob: Decoded blob message
//
// Returns:
//   - []byte: Block bytes, ready for the schema decoder
//   - error: errs.ErrDecompress for corrupt payloads or a raw_size mismatch,
//     errs.ErrUnsupportedCompression for lzma, bzip2, lz4 and zstd payloads
func DecompressBlob(blob *schema.Blob) ([]byte, error) {
	return DecompressBlobSize(blob, format.MaxBlobSize)
}

// DecompressBlobSize is DecompressBlob with a custom inflated size limit.
func DecompressBlobSize(blob *schema.Blob, maxSize int) ([]byte, error) {
	codec, err := CreateCodec(blob.Compression, maxSize)
	if err != nil {
		return nil, err
	}

	var out []byte
	if z, ok := codec.(ZlibCompressor); ok {
		out, err = z.decompress(blob.Data, int(blob.RawSize))
	} else {
		out, err = codec.Decompress(blob.Data)
	}
	if err != nil {
		return nil, err
	}

	if blob.Compression == format.CompressionZlib && blob.RawSize > 0 && len(out) != int(blob.RawSize) {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", errs.ErrRawSizeMismatch, len(out), blob.RawSize)
	}

	return out, nil
}
