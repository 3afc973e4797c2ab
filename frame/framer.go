package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/internal/options"
	"github.com/arloliu/osmpbf/internal/pool"
	"github.com/arloliu/osmpbf/schema"
)

// lengthPrefixSize is the size of the big-endian BlobHeader length prefix.
const lengthPrefixSize = 4

// Frame is one framed block.
type Frame struct {
	// Header is the decoded BlobHeader.
	Header *schema.BlobHeader
	// Data holds the encoded Blob message. It aliases a buffer owned by the
	// Framer and is only valid until the next call to Next.
	Data []byte
	// Offset is the position of the length prefix in the source.
	Offset int64
	// Size is the number of bytes the frame occupies: 4 + L + DataSize.
	Size int64
}

// Framer reads framed blocks from an io.ReaderAt.
//
// A Framer is not safe for concurrent use.
type Framer struct {
	src           io.ReaderAt
	size          int64
	pos           int64
	dec           *schema.Decoder
	maxHeaderSize int
	maxBlobSize   int
	buf           *pool.ByteBuffer
	prefix        [lengthPrefixSize]byte
	inBlob        bool
}

// Option configures a Framer.
type Option = options.Option[*Framer]

// WithMaxHeaderSize overrides the BlobHeader size limit (default 64 KiB).
func WithMaxHeaderSize(n int) Option {
	return options.New(func(f *Framer) error {
		if n <= 0 {
			return fmt.Errorf("frame: max header size must be positive, got %d", n)
		}
		f.maxHeaderSize = n

		return nil
	})
}

// WithMaxBlobSize overrides the blob size limit (default 32 MiB).
func WithMaxBlobSize(n int) Option {
	return options.New(func(f *Framer) error {
		if n <= 0 {
			return fmt.Errorf("frame: max blob size must be positive, got %d", n)
		}
		f.maxBlobSize = n

		return nil
	})
}

// NewFramer creates a Framer reading size bytes from src.
//
// Parameters:
//   - src: Byte source, read with ReadAt only
//   - size: Total number of bytes in the source
//   - dec: Schema decoder used for BlobHeader messages; nil builds the default decoder
//   - opts: Optional configuration
//
// Returns:
//   - *Framer: Framer positioned at offset 0
//   - error: errs.ErrInvalidSourceSize for a negative size, or an option or schema error
func NewFramer(src io.ReaderAt, size int64, dec *schema.Decoder, opts ...Option) (*Framer, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidSourceSize, size)
	}

	if dec == nil {
		var err error
		if dec, err = schema.NewDecoder(); err != nil {
			return nil, err
		}
	}

	f := &Framer{
		src:           src,
		size:          size,
		dec:           dec,
		maxHeaderSize: format.MaxBlobHeaderSize,
		maxBlobSize:   format.MaxBlobSize,
	}
	if err := options.Apply(f, opts...); err != nil {
		return nil, err
	}

	return f, nil
}

// Position returns the offset of the next frame.
func (f *Framer) Position() int64 {
	return f.pos
}

// InBlob reports whether the most recent Next call got past the BlobHeader,
// so a failure it returned concerns the blob bytes.
func (f *Framer) InBlob() bool {
	return f.inBlob
}

// Size returns the total size of the source.
func (f *Framer) Size() int64 {
	return f.size
}

// Next reads the next frame.
//
// The cursor advances by exactly 4 + L + DataSize on success and is left
// unchanged on error.
//
// Returns:
//   - Frame: The next frame; Frame.Data is valid until the next call
//   - error: io.EOF when the cursor reaches the end of the source,
//     errs.ErrIO on short reads, errs.ErrFormat for malformed lengths,
//     errs.ErrSchemaDecode for an undecodable BlobHeader
func (f *Framer) Next() (Frame, error) {
	f.inBlob = false
	remaining := f.size - f.pos
	if remaining == 0 {
		return Frame{}, io.EOF
	}

	if remaining < lengthPrefixSize {
		return Frame{}, fmt.Errorf("%w: %d trailing bytes at offset %d", errs.ErrTruncatedFrame, remaining, f.pos)
	}

	if err := f.readAt(f.prefix[:], f.pos); err != nil {
		return Frame{}, err
	}

	headerLen := int64(int32(binary.BigEndian.Uint32(f.prefix[:]))) //nolint:gosec
	switch {
	case headerLen <= 0 || headerLen > int64(f.maxHeaderSize):
		return Frame{}, fmt.Errorf("%w: %d at offset %d", errs.ErrInvalidHeaderLength, headerLen, f.pos)
	case headerLen > remaining-lengthPrefixSize:
		return Frame{}, fmt.Errorf("%w: header length %d exceeds %d remaining bytes at offset %d",
			errs.ErrTruncatedFrame, headerLen, remaining-lengthPrefixSize, f.pos)
	}

	buf := f.buffer()
	headerBytes := buf.Resize(int(headerLen))
	if err := f.readAt(headerBytes, f.pos+lengthPrefixSize); err != nil {
		return Frame{}, err
	}

	header, err := f.dec.DecodeBlobHeader(headerBytes)
	if err != nil {
		return Frame{}, fmt.Errorf("blob header at offset %d: %w", f.pos, err)
	}

	f.inBlob = true
	dataSize := int64(header.DataSize)
	dataStart := f.pos + lengthPrefixSize + headerLen
	switch {
	case dataSize < 0 || dataSize > int64(f.maxBlobSize):
		return Frame{}, fmt.Errorf("%w: %d at offset %d", errs.ErrInvalidDataSize, dataSize, f.pos)
	case dataSize > f.size-dataStart:
		return Frame{}, fmt.Errorf("%w: data size %d exceeds %d remaining bytes at offset %d",
			errs.ErrTruncatedFrame, dataSize, f.size-dataStart, f.pos)
	}

	data := buf.Resize(int(dataSize))
	if err := f.readAt(data, dataStart); err != nil {
		return Frame{}, err
	}

	frame := Frame{
		Header: header,
		Data:   data,
		Offset: f.pos,
		Size:   lengthPrefixSize + headerLen + dataSize,
	}
	f.pos += frame.Size

	return frame, nil
}

// All returns an iterator over the remaining frames.
//
// Iteration stops after the last frame or after yielding the first error.
func (f *Framer) All() iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		for {
			frame, err := f.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(frame, err) || err != nil {
				return
			}
		}
	}
}

// Release returns the frame buffer to the pool. Data from earlier frames must
// not be used afterwards. The Framer stays usable and acquires a new buffer on
// demand.
func (f *Framer) Release() {
	if f.buf != nil {
		pool.PutFrameBuffer(f.buf)
		f.buf = nil
	}
}

func (f *Framer) buffer() *pool.ByteBuffer {
	if f.buf == nil {
		f.buf = pool.GetFrameBuffer()
	}

	return f.buf
}

func (f *Framer) readAt(p []byte, off int64) error {
	n, err := f.src.ReadAt(p, off)
	if n == len(p) {
		// io.ReaderAt may report io.EOF alongside a full read at the end of the source
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}

	return fmt.Errorf("%w: read %d of %d bytes at offset %d: %w", errs.ErrIO, n, len(p), off, err)
}
