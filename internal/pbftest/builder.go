// Package pbftest builds bit-exact PBF files for tests.
//
// Messages are encoded directly with protowire so fixtures do not depend on the
// schema decoder under test.
package pbftest

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zlib"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/schema"
)

// Blob payload field numbers.
const (
	FieldRaw      protowire.Number = 1
	FieldRawSize  protowire.Number = 2
	FieldZlibData protowire.Number = 3
	FieldLZMAData protowire.Number = 4
	FieldBzip2    protowire.Number = 5
	FieldLZ4Data  protowire.Number = 6
	FieldZstdData protowire.Number = 7
)

type enc struct {
	b []byte
}

func (e *enc) varint(num protowire.Number, v uint64) {
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, v)
}

func (e *enc) int(num protowire.Number, v int64) {
	e.varint(num, uint64(v)) //nolint:gosec
}

func (e *enc) sint(num protowire.Number, v int64) {
	e.varint(num, protowire.EncodeZigZag(v))
}

func (e *enc) bytes(num protowire.Number, v []byte) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, v)
}

func (e *enc) str(num protowire.Number, v string) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, v)
}

func (e *enc) packed(num protowire.Number, vals []uint64) {
	if len(vals) == 0 {
		return
	}

	var p []byte
	for _, v := range vals {
		p = protowire.AppendVarint(p, v)
	}
	e.bytes(num, p)
}

func varints[T ~int32 | ~int64 | ~uint32](vals []T) []uint64 {
	out := make([]uint64, len(vals))
	for i, v := range vals {
		out[i] = uint64(int64(v)) //nolint:gosec
	}

	return out
}

func zigzags[T ~int32 | ~int64](vals []T) []uint64 {
	out := make([]uint64, len(vals))
	for i, v := range vals {
		out[i] = protowire.EncodeZigZag(int64(v))
	}

	return out
}

func bools(vals []bool) []uint64 {
	out := make([]uint64, len(vals))
	for i, v := range vals {
		out[i] = protowire.EncodeBool(v)
	}

	return out
}

// BlobHeader encodes a BlobHeader message.
func BlobHeader(h schema.BlobHeader) []byte {
	var e enc
	e.str(1, h.Type)
	if len(h.IndexData) > 0 {
		e.bytes(2, h.IndexData)
	}
	e.int(3, int64(h.DataSize))

	return e.b
}

// Blob encodes a Blob message with the payload stored in field num.
// rawSize is omitted when negative.
func Blob(num protowire.Number, payload []byte, rawSize int) []byte {
	var e enc
	e.bytes(num, payload)
	if rawSize >= 0 {
		e.int(FieldRawSize, int64(rawSize))
	}

	return e.b
}

// RawBlob encodes an uncompressed Blob.
func RawBlob(payload []byte) []byte {
	return Blob(FieldRaw, payload, len(payload))
}

// ZlibBlob compresses payload with zlib and encodes it as a Blob.
func ZlibBlob(payload []byte) []byte {
	return Blob(FieldZlibData, Zlib(payload), len(payload))
}

// Zlib compresses data with zlib.
func Zlib(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// Frame encodes one framed block: 4-byte big-endian header length, the
// BlobHeader and the blob bytes.
func Frame(typ string, blob []byte) []byte {
	header := BlobHeader(schema.BlobHeader{Type: typ, DataSize: int32(len(blob))}) //nolint:gosec

	out := make([]byte, 4, 4+len(header)+len(blob))
	binary.BigEndian.PutUint32(out, uint32(len(header))) //nolint:gosec
	out = append(out, header...)

	return append(out, blob...)
}

// HeaderBlock encodes a HeaderBlock message.
func HeaderBlock(h *schema.HeaderBlock) []byte {
	var e enc
	if h.BBox != nil {
		var bbox enc
		bbox.sint(1, h.BBox.Left)
		bbox.sint(2, h.BBox.Right)
		bbox.sint(3, h.BBox.Top)
		bbox.sint(4, h.BBox.Bottom)
		e.bytes(1, bbox.b)
	}
	for _, f := range h.RequiredFeatures {
		e.str(4, f)
	}
	for _, f := range h.OptionalFeatures {
		e.str(5, f)
	}
	if h.WritingProgram != "" {
		e.str(16, h.WritingProgram)
	}
	if h.Source != "" {
		e.str(17, h.Source)
	}
	if h.ReplicationTimestamp != 0 {
		e.int(32, h.ReplicationTimestamp)
	}
	if h.ReplicationSequence != 0 {
		e.int(33, h.ReplicationSequence)
	}
	if h.ReplicationBaseURL != "" {
		e.str(34, h.ReplicationBaseURL)
	}

	return e.b
}

// PrimitiveBlock encodes a PrimitiveBlock message. Zero granularity, date
// granularity and offsets are omitted so the schema defaults apply.
func PrimitiveBlock(b *schema.PrimitiveBlock) []byte {
	var st enc
	for _, s := range b.StringTable {
		st.bytes(1, s)
	}

	var e enc
	e.bytes(1, st.b)
	for i := range b.Groups {
		e.bytes(2, primitiveGroup(&b.Groups[i]))
	}
	if b.Granularity != 0 {
		e.int(17, int64(b.Granularity))
	}
	if b.DateGranularity != 0 {
		e.int(18, int64(b.DateGranularity))
	}
	if b.LatOffset != 0 {
		e.int(19, b.LatOffset)
	}
	if b.LonOffset != 0 {
		e.int(20, b.LonOffset)
	}

	return e.b
}

func primitiveGroup(g *schema.PrimitiveGroup) []byte {
	var e enc
	for i := range g.Nodes {
		e.bytes(1, node(&g.Nodes[i]))
	}
	if g.Dense != nil {
		e.bytes(2, denseNodes(g.Dense))
	}
	for i := range g.Ways {
		e.bytes(3, way(&g.Ways[i]))
	}
	for i := range g.Relations {
		e.bytes(4, relation(&g.Relations[i]))
	}

	return e.b
}

func info(e *enc, i *schema.Info) {
	if i == nil {
		return
	}

	var m enc
	m.int(1, int64(i.Version))
	m.int(2, i.Timestamp)
	m.int(3, i.Changeset)
	m.int(4, int64(i.UID))
	m.varint(5, uint64(i.UserSID))
	if i.Visible != nil {
		m.varint(6, protowire.EncodeBool(*i.Visible))
	}
	e.bytes(4, m.b)
}

func node(n *schema.Node) []byte {
	var e enc
	e.sint(1, n.ID)
	e.packed(2, varints(n.Keys))
	e.packed(3, varints(n.Vals))
	info(&e, n.Info)
	e.sint(8, n.Lat)
	e.sint(9, n.Lon)

	return e.b
}

func denseNodes(d *schema.DenseNodes) []byte {
	var e enc
	e.packed(1, zigzags(d.IDs))
	if d.Info != nil {
		var m enc
		m.packed(1, varints(d.Info.Versions))
		m.packed(2, zigzags(d.Info.Timestamps))
		m.packed(3, zigzags(d.Info.Changesets))
		m.packed(4, zigzags(d.Info.UIDs))
		m.packed(5, zigzags(d.Info.UserSIDs))
		m.packed(6, bools(d.Info.Visible))
		e.bytes(5, m.b)
	}
	e.packed(8, zigzags(d.Lats))
	e.packed(9, zigzags(d.Lons))
	e.packed(10, varints(d.KeysVals))

	return e.b
}

func way(w *schema.Way) []byte {
	var e enc
	e.int(1, w.ID)
	e.packed(2, varints(w.Keys))
	e.packed(3, varints(w.Vals))
	info(&e, w.Info)
	e.packed(8, zigzags(w.Refs))

	return e.b
}

func relation(r *schema.Relation) []byte {
	var e enc
	e.int(1, r.ID)
	e.packed(2, varints(r.Keys))
	e.packed(3, varints(r.Vals))
	info(&e, r.Info)
	e.packed(8, varints(r.RolesSID))
	e.packed(9, zigzags(r.MemIDs))
	e.packed(10, varints(r.Types))

	return e.b
}

// StringTable builds a block string table from plain strings.
func StringTable(values ...string) [][]byte {
	out := make([][]byte, len(values))
	for i, v := range values {
		out[i] = []byte(v)
	}

	return out
}

// File accumulates framed blocks into a PBF byte stream.
type File struct {
	buf bytes.Buffer
}

// AddHeader appends an OSMHeader block.
func (f *File) AddHeader(h *schema.HeaderBlock, compression format.CompressionType) *File {
	return f.AddBlock(format.BlockTypeHeader, HeaderBlock(h), compression)
}

// AddData appends an OSMData block.
func (f *File) AddData(b *schema.PrimitiveBlock, compression format.CompressionType) *File {
	return f.AddBlock(format.BlockTypeData, PrimitiveBlock(b), compression)
}

// AddBlock appends a block of any type, wrapping payload in a raw or zlib blob.
func (f *File) AddBlock(typ string, payload []byte, compression format.CompressionType) *File {
	var blob []byte
	if compression == format.CompressionZlib {
		blob = ZlibBlob(payload)
	} else {
		blob = RawBlob(payload)
	}

	return f.AddFrame(typ, blob)
}

// AddFrame appends a pre-encoded blob under a header of the given type.
func (f *File) AddFrame(typ string, blob []byte) *File {
	f.buf.Write(Frame(typ, blob))

	return f
}

// AddBytes appends arbitrary bytes, used to corrupt a stream.
func (f *File) AddBytes(b []byte) *File {
	f.buf.Write(b)

	return f
}

// Bytes returns the file contents.
func (f *File) Bytes() []byte {
	return bytes.Clone(f.buf.Bytes())
}
