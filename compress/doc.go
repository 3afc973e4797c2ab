// Package compress provides the blob decompression stage of the PBF reader.
//
// A PBF blob stores its payload in exactly one of several fields. This package
// maps each payload representation to a codec:
//
//   - raw (format.CompressionNone): returned unchanged by the NoOp codec
//   - zlib_data (format.CompressionZlib): inflated by the Zlib codec
//
// Every other representation (lzma_data, OBSOLETE_bzip2_data, lz4_data,
// zstd_data) yields errs.ErrUnsupportedCompression.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Compression is only used to build test fixtures; the reader itself only
// decompresses.
//
// # Decompressing a Blob
//
//	blob, err := decoder.DecodeBlob(frame.Data)
//	if err != nil {
//	    return err
//	}
//
//	block, err := compress.DecompressBlob(blob)
//	if err != nil {
//	    // errs.ErrDecompress or errs.ErrUnsupportedCompression
//	    return err
//	}
//
// # Size Limits
//
// Inflated output is capped at format.MaxBlobSize (32 MiB), the largest
// uncompressed block the file format allows. When the blob declares raw_size,
// the inflated length must match it exactly.
//
// # Thread Safety
//
// All codec implementations are stateless and safe for concurrent use.
package compress
