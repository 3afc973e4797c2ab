package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/internal/pbftest"
	"github.com/arloliu/osmpbf/schema"
)

func newFramer(t *testing.T, data []byte, opts ...Option) *Framer {
	t.Helper()

	f, err := NewFramer(bytes.NewReader(data), int64(len(data)), nil, opts...)
	require.NoError(t, err)
	t.Cleanup(f.Release)

	return f
}

// prefixed frames an arbitrary header payload.
func prefixed(header []byte, blob []byte) []byte {
	out := binary.BigEndian.AppendUint32(nil, uint32(len(header))) //nolint:gosec
	out = append(out, header...)

	return append(out, blob...)
}

func TestFramer_Sequence(t *testing.T) {
	blob1 := pbftest.RawBlob([]byte("header block"))
	blob2 := pbftest.ZlibBlob([]byte("data block"))

	var file pbftest.File
	file.AddFrame(format.BlockTypeHeader, blob1).AddFrame(format.BlockTypeData, blob2)
	data := file.Bytes()

	f := newFramer(t, data)

	first, err := f.Next()
	require.NoError(t, err)
	require.Equal(t, format.BlockTypeHeader, first.Header.Type)
	require.Equal(t, int32(len(blob1)), first.Header.DataSize)
	require.Equal(t, blob1, first.Data)
	require.Zero(t, first.Offset)
	require.Equal(t, f.Position(), first.Size)

	second, err := f.Next()
	require.NoError(t, err)
	require.Equal(t, format.BlockTypeData, second.Header.Type)
	require.Equal(t, blob2, second.Data)
	require.Equal(t, first.Size, second.Offset)
	require.Equal(t, int64(len(data)), f.Position())

	_, err = f.Next()
	require.ErrorIs(t, err, io.EOF)

	// end is stable
	_, err = f.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestFramer_CursorArithmetic(t *testing.T) {
	sizes := []int{0, 1, 127, 128, 4096}

	var file pbftest.File
	for _, n := range sizes {
		file.AddFrame("OSMData", make([]byte, n))
	}

	f := newFramer(t, file.Bytes())
	var pos int64
	for _, n := range sizes {
		frame, err := f.Next()
		require.NoError(t, err)
		require.Equal(t, pos, frame.Offset)
		require.Len(t, frame.Data, n)

		headerLen := len(pbftest.BlobHeader(schema.BlobHeader{Type: "OSMData", DataSize: int32(n)})) //nolint:gosec
		require.Equal(t, int64(4+headerLen+n), frame.Size)
		pos += frame.Size
		require.Equal(t, pos, f.Position())
	}
}

func TestFramer_EmptySource(t *testing.T) {
	f := newFramer(t, nil)
	_, err := f.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestFramer_IndexData(t *testing.T) {
	header := pbftest.BlobHeader(schema.BlobHeader{Type: "OSMData", IndexData: []byte{1, 2, 3}, DataSize: 2})
	f := newFramer(t, prefixed(header, []byte{0xAA, 0xBB}))

	frame, err := f.Next()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, frame.Header.IndexData)
	require.Equal(t, []byte{0xAA, 0xBB}, frame.Data)
}

func TestFramer_Malformed(t *testing.T) {
	valid := pbftest.Frame("OSMData", pbftest.RawBlob([]byte("payload")))

	tests := []struct {
		name string
		data []byte
		opts []Option
		want error
	}{
		{
			name: "TrailingFragment",
			data: append(bytes.Clone(valid), 0x00, 0x00),
			want: errs.ErrTruncatedFrame,
		},
		{
			name: "HeaderLengthPastEnd",
			data: []byte{0x00, 0x00, 0x00, 0x10, 0x0a},
			want: errs.ErrTruncatedFrame,
		},
		{
			name: "NegativeHeaderLength",
			data: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x00},
			want: errs.ErrInvalidHeaderLength,
		},
		{
			name: "ZeroHeaderLength",
			data: []byte{0x00, 0x00, 0x00, 0x00},
			want: errs.ErrInvalidHeaderLength,
		},
		{
			name: "HeaderTooLarge",
			data: append([]byte{0x00, 0x01, 0x00, 0x01}, make([]byte, 64*1024+1)...),
			want: errs.ErrInvalidHeaderLength,
		},
		{
			name: "DataSizePastEnd",
			data: valid[:len(valid)-1],
			want: errs.ErrTruncatedFrame,
		},
		{
			name: "NegativeDataSize",
			data: prefixed(pbftest.BlobHeader(schema.BlobHeader{Type: "OSMData", DataSize: -1}), nil),
			want: errs.ErrInvalidDataSize,
		},
		{
			name: "DataSizeOverLimit",
			data: valid,
			opts: []Option{WithMaxBlobSize(4)},
			want: errs.ErrInvalidDataSize,
		},
		{
			name: "GarbageHeader",
			data: prefixed([]byte{0xFF, 0xFF, 0xFF}, nil),
			want: errs.ErrSchemaDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFramer(t, tt.data, tt.opts...)

			var err error
			for err == nil {
				_, err = f.Next()
			}
			require.NotErrorIs(t, err, io.EOF)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFramer_FormatClass(t *testing.T) {
	f := newFramer(t, []byte{0x00, 0x00})
	_, err := f.Next()
	require.ErrorIs(t, err, errs.ErrFormat)
	require.Zero(t, f.Position(), "cursor does not move on error")
}

type shortReader struct {
	data []byte
	err  error
}

func (r shortReader) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(r.data)) {
		return 0, r.err
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, r.err
	}

	return n, nil
}

func TestFramer_ShortRead(t *testing.T) {
	valid := pbftest.Frame("OSMData", pbftest.RawBlob([]byte("payload")))

	t.Run("SourceShorterThanDeclared", func(t *testing.T) {
		src := shortReader{data: valid[:len(valid)-2], err: io.EOF}
		f, err := NewFramer(src, int64(len(valid)), nil)
		require.NoError(t, err)

		_, err = f.Next()
		require.ErrorIs(t, err, errs.ErrIO)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("ReaderFailure", func(t *testing.T) {
		boom := errors.New("disk on fire")
		f, err := NewFramer(shortReader{err: boom}, int64(len(valid)), nil)
		require.NoError(t, err)

		_, err = f.Next()
		require.ErrorIs(t, err, errs.ErrIO)
		require.ErrorIs(t, err, boom)
	})
}

func TestFramer_All(t *testing.T) {
	var file pbftest.File
	file.AddFrame("OSMHeader", []byte("a")).AddFrame("OSMData", []byte("bb")).AddFrame("OSMData", []byte("ccc"))

	t.Run("Complete", func(t *testing.T) {
		f := newFramer(t, file.Bytes())

		var types []string
		for frame, err := range f.All() {
			require.NoError(t, err)
			types = append(types, frame.Header.Type)
		}
		require.Equal(t, []string{"OSMHeader", "OSMData", "OSMData"}, types)
	})

	t.Run("EarlyStop", func(t *testing.T) {
		f := newFramer(t, file.Bytes())

		count := 0
		for range f.All() {
			count++
			if count == 2 {
				break
			}
		}
		require.Equal(t, 2, count)

		frame, err := f.Next()
		require.NoError(t, err)
		require.Equal(t, []byte("ccc"), frame.Data)
	})

	t.Run("StopsAtError", func(t *testing.T) {
		data := append(file.Bytes(), 0x01)
		f := newFramer(t, data)

		var errCount, frameCount int
		for _, err := range f.All() {
			if err != nil {
				errCount++
				require.ErrorIs(t, err, errs.ErrTruncatedFrame)

				continue
			}
			frameCount++
		}
		require.Equal(t, 3, frameCount)
		require.Equal(t, 1, errCount)
	})
}

func TestNewFramer_Validation(t *testing.T) {
	_, err := NewFramer(bytes.NewReader(nil), -1, nil)
	require.ErrorIs(t, err, errs.ErrInvalidSourceSize)

	_, err = NewFramer(bytes.NewReader(nil), 0, nil, WithMaxBlobSize(0))
	require.Error(t, err)

	_, err = NewFramer(bytes.NewReader(nil), 0, nil, WithMaxHeaderSize(-5))
	require.Error(t, err)
}

func TestFramer_InBlob(t *testing.T) {
	valid := pbftest.Frame("OSMData", pbftest.RawBlob([]byte("payload")))

	f := newFramer(t, valid[:len(valid)-1])
	_, err := f.Next()
	require.ErrorIs(t, err, errs.ErrTruncatedFrame)
	require.True(t, f.InBlob())

	f = newFramer(t, []byte{0xFF, 0xFF, 0xFF, 0xFF})
	_, err = f.Next()
	require.ErrorIs(t, err, errs.ErrInvalidHeaderLength)
	require.False(t, f.InBlob())
}
