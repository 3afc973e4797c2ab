// Package osmpbf reads OpenStreetMap PBF files.
//
// A PBF file is a sequence of length-prefixed blocks. The first block is an
// OSMHeader block describing the file; it is followed by OSMData blocks that
// carry nodes, ways and relations in columnar, delta-coded form, each block
// with its own string table. Blocks are stored raw or zlib-compressed.
//
// # Core Features
//
//   - Strictly sequential decoding, one block in memory at a time
//   - Dense and plain nodes, ways and relations with tags
//   - Optional entity metadata (version, timestamp, changeset, user)
//   - Pull and handler APIs with deferred acknowledgement for backpressure
//   - Typed errors classified with errors.Is against the errs package
//
// # Basic Usage
//
// Pulling blocks:
//
//	s, _ := osmpbf.OpenFile("region.osm.pbf")
//	defer s.Close()
//
//	for {
//	    ev, err := s.Next(ctx)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    if ev.Kind == stream.EventData {
//	        for _, n := range ev.Batch.Nodes {
//	            fmt.Println(n.ID, n.Lat, n.Lon, n.Tags["name"])
//	        }
//	    }
//	}
//
// Handling blocks with callbacks:
//
//	err := s.Run(ctx, stream.Funcs{
//	    Data: func(b *model.Batch) error {
//	        ways += len(b.Ways)
//	        return nil
//	    },
//	})
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the stream
// package. The frame, compress, schema and primitive packages expose the
// individual decoding steps for finer control.
package osmpbf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/schema"
	"github.com/arloliu/osmpbf/stream"
)

// OpenFile opens a PBF file for streaming.
//
// The returned stream owns the file and closes it on Close.
//
// Parameters:
//   - path: Path to the PBF file
//   - opts: Stream options
//
// Returns:
//   - *stream.Stream: Stream positioned at the first block
//   - error: errs.ErrIO if the file cannot be opened or inspected, or an option error
func OpenFile(path string, opts ...stream.Option) (*stream.Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	s, err := stream.Open(f, info.Size(), opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return s, nil
}

// OpenBytes streams a PBF file held in memory.
func OpenBytes(data []byte, opts ...stream.Option) (*stream.Stream, error) {
	return stream.Open(bytes.NewReader(data), int64(len(data)), opts...)
}

// NewDecoder builds a schema decoder that can be shared between streams with
// stream.WithDecoder.
func NewDecoder() (*schema.Decoder, error) {
	return schema.NewDecoder()
}
