package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/internal/pbftest"
	"github.com/arloliu/osmpbf/schema"
)

func newDecoder(t *testing.T) *schema.Decoder {
	t.Helper()

	dec, err := schema.NewDecoder()
	require.NoError(t, err)
	require.NotNil(t, dec)

	return dec
}

func TestNewDecoderFromText(t *testing.T) {
	t.Run("InvalidText", func(t *testing.T) {
		dec, err := schema.NewDecoderFromText([]byte("file { name: "))
		require.Nil(t, dec)
		require.ErrorIs(t, err, errs.ErrSchemaDecode)
	})

	t.Run("MissingMessage", func(t *testing.T) {
		text := `file { name: "x.proto" package: "OSMPBF" syntax: "proto2" message_type { name: "Blob" } }`
		dec, err := schema.NewDecoderFromText([]byte(text))
		require.Nil(t, dec)
		require.ErrorIs(t, err, errs.ErrMissingSchemaMessage)
		require.ErrorIs(t, err, errs.ErrSchemaDecode)
	})
}

func TestDecoder_DecodeBlobHeader(t *testing.T) {
	dec := newDecoder(t)

	t.Run("Valid", func(t *testing.T) {
		data := pbftest.BlobHeader(schema.BlobHeader{Type: format.BlockTypeData, IndexData: []byte{1, 2}, DataSize: 1234})
		hdr, err := dec.DecodeBlobHeader(data)
		require.NoError(t, err)
		require.Equal(t, format.BlockTypeData, hdr.Type)
		require.Equal(t, []byte{1, 2}, hdr.IndexData)
		require.Equal(t, int32(1234), hdr.DataSize)
	})

	t.Run("MissingRequiredField", func(t *testing.T) {
		// only the type field, datasize is required
		data := []byte{0x0a, 0x03, 'a', 'b', 'c'}
		_, err := dec.DecodeBlobHeader(data)
		require.ErrorIs(t, err, errs.ErrSchemaDecode)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := dec.DecodeBlobHeader([]byte{0xff, 0xff, 0xff})
		require.ErrorIs(t, err, errs.ErrSchemaDecode)
	})
}

func TestDecoder_DecodeBlob(t *testing.T) {
	dec := newDecoder(t)
	payload := []byte("primitive block bytes")

	tests := []struct {
		name  string
		field protowire.Number
		want  format.CompressionType
	}{
		{name: "Raw", field: pbftest.FieldRaw, want: format.CompressionNone},
		{name: "Zlib", field: pbftest.FieldZlibData, want: format.CompressionZlib},
		{name: "LZMA", field: pbftest.FieldLZMAData, want: format.CompressionLZMA},
		{name: "Bzip2", field: pbftest.FieldBzip2, want: format.CompressionBzip2},
		{name: "LZ4", field: pbftest.FieldLZ4Data, want: format.CompressionLZ4},
		{name: "Zstd", field: pbftest.FieldZstdData, want: format.CompressionZstd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pbftest.Blob(tt.field, payload, 99)
			blob, err := dec.DecodeBlob(data)
			require.NoError(t, err)
			require.Equal(t, tt.want, blob.Compression)
			require.Equal(t, payload, blob.Data)
			require.Equal(t, int32(99), blob.RawSize)
		})
	}

	t.Run("Empty", func(t *testing.T) {
		_, err := dec.DecodeBlob(nil)
		require.ErrorIs(t, err, errs.ErrEmptyBlob)
		require.ErrorIs(t, err, errs.ErrFormat)
	})
}

func TestDecoder_DecodeHeaderBlock(t *testing.T) {
	dec := newDecoder(t)
	want := pbftest.SampleHeader()
	want.ReplicationTimestamp = 1_700_000_000
	want.ReplicationSequence = 4242
	want.ReplicationBaseURL = "https://planet.openstreetmap.org/replication/minute"

	got, err := dec.DecodeHeaderBlock(pbftest.HeaderBlock(want))
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.InDelta(t, 57.3, got.BBox.MinLon(), 1e-9)
	require.InDelta(t, 57.8, got.BBox.MaxLon(), 1e-9)
	require.InDelta(t, -19.9, got.BBox.MaxLat(), 1e-9)
	require.InDelta(t, -20.6, got.BBox.MinLat(), 1e-9)
}

func TestDecoder_DecodePrimitiveBlock(t *testing.T) {
	dec := newDecoder(t)

	t.Run("Defaults", func(t *testing.T) {
		blk := &schema.PrimitiveBlock{StringTable: pbftest.StringTable("", "a")}
		got, err := dec.DecodePrimitiveBlock(pbftest.PrimitiveBlock(blk))
		require.NoError(t, err)
		require.Equal(t, int32(format.DefaultGranularity), got.Granularity)
		require.Equal(t, int32(format.DefaultDateGranularity), got.DateGranularity)
		require.Zero(t, got.LatOffset)
		require.Zero(t, got.LonOffset)
		require.Len(t, got.StringTable, 2)
		require.Empty(t, got.StringTable[0])
		require.Equal(t, "a", string(got.StringTable[1]))
		require.Empty(t, got.Groups)
	})

	t.Run("SampleBlocks", func(t *testing.T) {
		for i, want := range pbftest.SampleBlocks() {
			got, err := dec.DecodePrimitiveBlock(pbftest.PrimitiveBlock(want))
			require.NoError(t, err, "block %d", i)
			require.Len(t, got.Groups, len(want.Groups), "block %d", i)
			for g := range want.Groups {
				require.Equal(t, want.Groups[g].Kind, got.Groups[g].Kind, "block %d group %d", i, g)
			}
		}
	})

	t.Run("DenseColumns", func(t *testing.T) {
		want := pbftest.SampleBlocks()[1]
		got, err := dec.DecodePrimitiveBlock(pbftest.PrimitiveBlock(want))
		require.NoError(t, err)

		dense := got.Groups[0].Dense
		require.NotNil(t, dense)
		require.Equal(t, want.Groups[0].Dense.IDs, dense.IDs)
		require.Equal(t, want.Groups[0].Dense.Lats, dense.Lats)
		require.Equal(t, want.Groups[0].Dense.Lons, dense.Lons)
		require.Equal(t, want.Groups[0].Dense.Info, dense.Info)
	})

	t.Run("RelationColumns", func(t *testing.T) {
		want := pbftest.SampleBlocks()[4]
		got, err := dec.DecodePrimitiveBlock(pbftest.PrimitiveBlock(want))
		require.NoError(t, err)
		require.Equal(t, want.Groups[0].Relations, got.Groups[0].Relations)
	})

	t.Run("MixedGroup", func(t *testing.T) {
		blk := &schema.PrimitiveBlock{
			StringTable: pbftest.StringTable(""),
			Groups: []schema.PrimitiveGroup{{
				Ways:      []schema.Way{{ID: 1}},
				Relations: []schema.Relation{{ID: 2}},
			}},
		}
		_, err := dec.DecodePrimitiveBlock(pbftest.PrimitiveBlock(blk))
		require.ErrorIs(t, err, errs.ErrMixedGroup)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("MissingStringTable", func(t *testing.T) {
		// granularity only; stringtable is required
		_, err := dec.DecodePrimitiveBlock([]byte{0x88, 0x01, 0x64})
		require.ErrorIs(t, err, errs.ErrSchemaDecode)
	})
}
