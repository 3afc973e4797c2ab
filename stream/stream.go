package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/arloliu/osmpbf/compress"
	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/frame"
	"github.com/arloliu/osmpbf/internal/hash"
	"github.com/arloliu/osmpbf/internal/options"
	"github.com/arloliu/osmpbf/model"
	"github.com/arloliu/osmpbf/primitive"
	"github.com/arloliu/osmpbf/schema"
)

// EventKind identifies the payload of an Event.
type EventKind uint8

const (
	// EventHeader carries a decoded OSMHeader block.
	EventHeader EventKind = iota + 1
	// EventData carries the entities of an OSMData block.
	EventData
)

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventHeader:
		return "Header"
	case EventData:
		return "Data"
	default:
		return "Unknown"
	}
}

// BlockInfo describes the block behind an Event.
type BlockInfo struct {
	// Index is the position of the block in the file, counting skipped blocks.
	Index int
	// Offset is the position of the block's length prefix in the source.
	Offset int64
	// Type is the BlobHeader type.
	Type string
	// Compression is the blob compression scheme.
	Compression format.CompressionType
	// RawSize is the decompressed block size.
	RawSize int
	// Checksum is the xxHash64 of the decompressed block.
	Checksum uint64
}

// Event is one notification of a Stream.
type Event struct {
	Kind   EventKind
	Header *schema.HeaderBlock
	Batch  *model.Batch
	Block  BlockInfo
}

// Stats summarizes the blocks a Stream has processed.
type Stats struct {
	Blocks            int
	HeaderBlocks      int
	DataBlocks        int
	SkippedBlocks     int
	BytesRead         int64
	BytesDecompressed int64
	Nodes             int64
	Ways              int64
	Relations         int64
	// Checksum combines the block checksums in file order.
	Checksum uint64
}

// Stream decodes a PBF byte source one block at a time.
//
// A Stream is not safe for concurrent use, except that an Ack may be called
// from any goroutine.
type Stream struct {
	src          io.ReaderAt
	dec          *schema.Decoder
	framer       *frame.Framer
	assembler    *primitive.Assembler
	logger       *slog.Logger
	maxBlobSize  int
	featureCheck bool

	state     atomic.Int32
	err       error
	index     int
	last      BlockInfo
	stats     Stats
	digest    *hash.Digest
	closeOnce sync.Once
}

// Open creates a Stream over size bytes of src.
//
// The schema decoder is built here, once per stream, unless one is supplied
// with WithDecoder. Nothing is read from src until the first block is
// requested.
//
// Parameters:
//   - src: Byte source; closed by Close when it implements io.Closer
//   - size: Number of bytes in the source
//   - opts: Optional configuration
//
// Returns:
//   - *Stream: Stream in StateIdle
//   - error: Option, schema or source size error
func Open(src io.ReaderAt, size int64, opts ...Option) (*Stream, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	dec := cfg.decoder
	if dec == nil {
		var err error
		if dec, err = schema.NewDecoder(); err != nil {
			return nil, err
		}
	}

	framer, err := frame.NewFramer(src, size, dec, frame.WithMaxBlobSize(cfg.maxBlobSize))
	if err != nil {
		return nil, err
	}

	assembler, err := primitive.NewAssembler(
		primitive.WithLegacyOffsets(cfg.legacyOffsets),
		primitive.WithMetadata(cfg.metadata),
		primitive.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, err
	}

	return &Stream{
		src:          src,
		dec:          dec,
		framer:       framer,
		assembler:    assembler,
		logger:       cfg.logger,
		maxBlobSize:  cfg.maxBlobSize,
		featureCheck: cfg.featureCheck,
		digest:       hash.NewDigest(),
	}, nil
}

// State returns the current lifecycle state.
func (s *Stream) State() State {
	return State(s.state.Load())
}

// Err returns the error that moved the stream to StateErrored, or nil.
func (s *Stream) Err() error {
	if s.State() != StateErrored {
		return nil
	}

	return s.err
}

// Stats returns a snapshot of the processing counters.
func (s *Stream) Stats() Stats {
	stats := s.stats
	stats.Checksum = s.digest.Sum64()

	return stats
}

// Block returns the block behind the most recent notification.
func (s *Stream) Block() BlockInfo {
	return s.last
}

// Next processes blocks until one produces a notification and returns it.
//
// Blocks with a type other than OSMHeader or OSMData are skipped.
//
// Parameters:
//   - ctx: Checked before every block; cancellation aborts the stream
//
// Returns:
//   - Event: Header or data notification
//   - error: io.EOF once the source is exhausted, or a *Error for the first
//     failure. Both are returned again by every later call.
func (s *Stream) Next(ctx context.Context) (Event, error) {
	s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning))

	return s.next(ctx)
}

func (s *Stream) next(ctx context.Context) (Event, error) {
	switch s.State() {
	case StateEnded:
		return Event{}, io.EOF
	case StateErrored:
		return Event{}, s.err
	}

	for {
		if err := ctx.Err(); err != nil {
			return Event{}, s.fail(StageFramingHeader, s.index, s.framer.Position(), err)
		}

		ev, ok, err := s.block()
		if err != nil {
			return Event{}, err
		}
		if ok {
			s.last = ev.Block
			return ev, nil
		}
		if s.State() == StateEnded {
			return Event{}, io.EOF
		}
	}
}

// block processes one framed block. ok is false for skipped blocks and at the
// end of the source.
func (s *Stream) block() (ev Event, ok bool, err error) {
	offset := s.framer.Position()

	fr, err := s.framer.Next()
	if errors.Is(err, io.EOF) {
		s.state.Store(int32(StateEnded))
		s.logger.Debug("stream ended", "blocks", s.stats.Blocks, "bytes", s.stats.BytesRead)

		return Event{}, false, nil
	}
	if err != nil {
		stage := StageFramingHeader
		if s.framer.InBlob() {
			stage = StageFramingBlob
		}

		return Event{}, false, s.fail(stage, s.index, offset, err)
	}

	index := s.index
	s.index++
	s.stats.BytesRead += fr.Size

	var kind EventKind
	switch fr.Header.Type {
	case format.BlockTypeHeader:
		kind = EventHeader
	case format.BlockTypeData:
		kind = EventData
	default:
		s.stats.SkippedBlocks++
		s.logger.Warn("skipping block", "index", index, "offset", offset, "type", fr.Header.Type)

		return Event{}, false, nil
	}

	blob, err := s.dec.DecodeBlob(fr.Data)
	if err != nil {
		return Event{}, false, s.fail(StageFramingBlob, index, offset, err)
	}

	raw, err := compress.DecompressBlobSize(blob, s.maxBlobSize)
	if err != nil {
		return Event{}, false, s.fail(StageDecompressing, index, offset, err)
	}

	ev = Event{
		Kind: kind,
		Block: BlockInfo{
			Index:       index,
			Offset:      offset,
			Type:        fr.Header.Type,
			Compression: blob.Compression,
			RawSize:     len(raw),
			Checksum:    hash.Block(raw),
		},
	}

	switch kind {
	case EventHeader:
		if ev.Header, err = s.dec.DecodeHeaderBlock(raw); err != nil {
			return Event{}, false, s.fail(StageDecoding, index, offset, err)
		}
		if err = s.checkFeatures(ev.Header); err != nil {
			return Event{}, false, s.fail(StageDecoding, index, offset, err)
		}
		s.stats.HeaderBlocks++
	case EventData:
		pb, err := s.dec.DecodePrimitiveBlock(raw)
		if err != nil {
			return Event{}, false, s.fail(StageDecoding, index, offset, err)
		}
		if ev.Batch, err = s.assembler.Assemble(pb); err != nil {
			return Event{}, false, s.fail(StageAssembling, index, offset, err)
		}
		s.stats.DataBlocks++
		s.stats.Nodes += int64(len(ev.Batch.Nodes))
		s.stats.Ways += int64(len(ev.Batch.Ways))
		s.stats.Relations += int64(len(ev.Batch.Relations))
	}

	s.stats.Blocks++
	s.stats.BytesDecompressed += int64(len(raw))
	s.digest.Add(ev.Block.Checksum)

	s.logger.Debug("decoded block",
		"index", index,
		"offset", offset,
		"type", ev.Block.Type,
		"compression", ev.Block.Compression,
		"raw_size", ev.Block.RawSize,
		"entities", ev.Batch.Len(),
	)

	return ev, true, nil
}

func (s *Stream) checkFeatures(header *schema.HeaderBlock) error {
	if !s.featureCheck {
		return nil
	}

	for _, feature := range header.RequiredFeatures {
		if !slices.Contains(format.SupportedFeatures, feature) {
			return fmt.Errorf("%w: %q", errs.ErrUnsupportedFeature, feature)
		}
	}

	return nil
}

// fail moves the stream to StateErrored. Only the first failure is recorded.
func (s *Stream) fail(stage Stage, block int, offset int64, cause error) error {
	if s.State().Terminal() {
		if s.err != nil {
			return s.err
		}

		return io.EOF
	}

	s.err = &Error{Stage: stage, Block: block, Offset: offset, Err: cause}
	s.state.Store(int32(StateErrored))
	s.logger.Error("stream aborted", "stage", stage, "block", block, "offset", offset, "error", cause)

	return s.err
}

// Close releases the frame buffer and closes the source when it implements
// io.Closer. A stream closed before reaching a terminal state moves to
// StateErrored with errs.ErrStreamClosed.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if !s.State().Terminal() {
			s.err = &Error{Stage: StageFramingHeader, Block: s.index, Offset: s.framer.Position(), Err: errs.ErrStreamClosed}
			s.state.Store(int32(StateErrored))
		}

		s.framer.Release()
		if c, ok := s.src.(io.Closer); ok {
			err = c.Close()
		}
	})

	return err
}
