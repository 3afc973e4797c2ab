// Package errs defines the sentinel errors returned by osmpbf packages.
//
// Every error produced while decoding a PBF stream wraps exactly one of the
// class sentinels below, so callers classify failures with errors.Is:
//
//	if errors.Is(err, errs.ErrFormat) {
//	    // malformed framing, bad string index, corrupt field layout
//	}
package errs

import (
	"errors"
	"fmt"
)

// Error classes.
var (
	// ErrIO reports a failed or short read from the byte source.
	ErrIO = errors.New("osmpbf: i/o error")
	// ErrFormat reports malformed framing, an out-of-range string table index or a corrupt field layout.
	ErrFormat = errors.New("osmpbf: format error")
	// ErrDecompress reports a compressed payload that fails to inflate.
	ErrDecompress = errors.New("osmpbf: decompress error")
	// ErrUnsupportedCompression reports a blob compressed with a scheme that is not implemented.
	ErrUnsupportedCompression = errors.New("osmpbf: unsupported compression")
	// ErrSchemaDecode reports bytes rejected by the schema message decoder.
	ErrSchemaDecode = errors.New("osmpbf: schema decode error")
)

// Specific errors. Each wraps one of the error classes above.
var (
	ErrTruncatedFrame       = fmt.Errorf("%w: truncated frame", ErrFormat)
	ErrInvalidHeaderLength  = fmt.Errorf("%w: invalid blob header length", ErrFormat)
	ErrInvalidDataSize      = fmt.Errorf("%w: invalid blob data size", ErrFormat)
	ErrEmptyBlob            = fmt.Errorf("%w: blob carries no payload", ErrFormat)
	ErrStringIndexRange     = fmt.Errorf("%w: string table index out of range", ErrFormat)
	ErrColumnLength         = fmt.Errorf("%w: parallel column length mismatch", ErrFormat)
	ErrMissingTerminator    = fmt.Errorf("%w: dense key/value list missing terminator", ErrFormat)
	ErrDanglingKey          = fmt.Errorf("%w: dense key without value", ErrFormat)
	ErrMixedGroup           = fmt.Errorf("%w: primitive group holds more than one entity kind", ErrFormat)
	ErrInvalidMemberType    = fmt.Errorf("%w: invalid relation member type", ErrFormat)
	ErrUnsupportedFeature   = fmt.Errorf("%w: unsupported required feature", ErrFormat)
	ErrRawSizeMismatch      = fmt.Errorf("%w: inflated size does not match raw_size", ErrDecompress)
	ErrStreamStarted        = errors.New("osmpbf: stream already started")
	ErrStreamClosed         = errors.New("osmpbf: stream closed")
	ErrInvalidGranularity   = fmt.Errorf("%w: granularity must be positive", ErrFormat)
	ErrInvalidSourceSize    = fmt.Errorf("%w: negative source size", ErrFormat)
	ErrMissingSchemaMessage = fmt.Errorf("%w: schema message not found", ErrSchemaDecode)
)
