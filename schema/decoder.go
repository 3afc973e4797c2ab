package schema

import (
	_ "embed"
	"fmt"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/format"
)

// Package is the protobuf package of the PBF schema messages.
const Package = "OSMPBF"

//go:embed osmpbf.textproto
var descriptorText []byte

var compressionByField = map[protoreflect.Name]format.CompressionType{
	"raw":                 format.CompressionNone,
	"zlib_data":           format.CompressionZlib,
	"lzma_data":           format.CompressionLZMA,
	"OBSOLETE_bzip2_data": format.CompressionBzip2,
	"lz4_data":            format.CompressionLZ4,
	"zstd_data":           format.CompressionZstd,
}

// Decoder decodes PBF schema messages into the typed structs of this package.
//
// A Decoder is built from a schema descriptor once and is immutable afterwards,
// so one instance may be shared by any number of streams and goroutines.
type Decoder struct {
	blobHeader     protoreflect.MessageDescriptor
	blob           protoreflect.MessageDescriptor
	headerBlock    protoreflect.MessageDescriptor
	primitiveBlock protoreflect.MessageDescriptor
	blobData       protoreflect.OneofDescriptor
	unmarshal      proto.UnmarshalOptions
}

// NewDecoder creates a Decoder from the embedded OSM PBF schema.
func NewDecoder() (*Decoder, error) {
	return NewDecoderFromText(descriptorText)
}

// NewDecoderFromText creates a Decoder from a FileDescriptorSet in protobuf text format.
//
// The set must define the OSMPBF messages Blob, BlobHeader, HeaderBlock and
// PrimitiveBlock together with the messages they reference.
//
// Parameters:
//   - text: FileDescriptorSet in text format
//
// Returns:
//   - *Decoder: Decoder bound to the schema
//   - error: ErrSchemaDecode if the descriptor cannot be parsed or lacks a required message
func NewDecoderFromText(text []byte) (*Decoder, error) {
	var set descriptorpb.FileDescriptorSet
	if err := prototext.Unmarshal(text, &set); err != nil {
		return nil, fmt.Errorf("%w: parse schema descriptor: %w", errs.ErrSchemaDecode, err)
	}

	files, err := protodesc.NewFiles(&set)
	if err != nil {
		return nil, fmt.Errorf("%w: build schema descriptor: %w", errs.ErrSchemaDecode, err)
	}

	find := func(name string) (protoreflect.MessageDescriptor, error) {
		desc, err := files.FindDescriptorByName(protoreflect.FullName(Package + "." + name))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingSchemaMessage, name)
		}

		md, ok := desc.(protoreflect.MessageDescriptor)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a message", errs.ErrMissingSchemaMessage, name)
		}

		return md, nil
	}

	d := &Decoder{
		unmarshal: proto.UnmarshalOptions{DiscardUnknown: true},
	}

	if d.blobHeader, err = find("BlobHeader"); err != nil {
		return nil, err
	}
	if d.blob, err = find("Blob"); err != nil {
		return nil, err
	}
	if d.headerBlock, err = find("HeaderBlock"); err != nil {
		return nil, err
	}
	if d.primitiveBlock, err = find("PrimitiveBlock"); err != nil {
		return nil, err
	}

	d.blobData = d.blob.Oneofs().ByName("data")
	if d.blobData == nil {
		return nil, fmt.Errorf("%w: Blob.data oneof", errs.ErrMissingSchemaMessage)
	}

	return d, nil
}

// DecodeBlobHeader decodes a BlobHeader message.
func (d *Decoder) DecodeBlobHeader(data []byte) (*BlobHeader, error) {
	m, err := d.decode(d.blobHeader, data)
	if err != nil {
		return nil, err
	}

	return &BlobHeader{
		Type:      m.str("type"),
		IndexData: m.bytes("indexdata"),
		DataSize:  int32(m.int("datasize")), //nolint:gosec
	}, nil
}

// DecodeBlob decodes a Blob message.
//
// The compressed payload is returned as-is; inflating it is the job of the
// compress package. A blob with no payload field set yields ErrEmptyBlob.
func (d *Decoder) DecodeBlob(data []byte) (*Blob, error) {
	m, err := d.decode(d.blob, data)
	if err != nil {
		return nil, err
	}

	fd := m.m.WhichOneof(d.blobData)
	if fd == nil {
		return nil, errs.ErrEmptyBlob
	}

	compression, ok := compressionByField[fd.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: unknown blob payload field %q", errs.ErrUnsupportedCompression, fd.Name())
	}

	return &Blob{
		RawSize:     int32(m.int("raw_size")), //nolint:gosec
		Compression: compression,
		Data:        m.m.Get(fd).Bytes(),
	}, nil
}

// DecodeHeaderBlock decodes the payload of an OSMHeader blob.
func (d *Decoder) DecodeHeaderBlock(data []byte) (*HeaderBlock, error) {
	m, err := d.decode(d.headerBlock, data)
	if err != nil {
		return nil, err
	}

	hdr := &HeaderBlock{
		RequiredFeatures:     m.strs("required_features"),
		OptionalFeatures:     m.strs("optional_features"),
		WritingProgram:       m.str("writingprogram"),
		Source:               m.str("source"),
		ReplicationTimestamp: m.int("osmosis_replication_timestamp"),
		ReplicationSequence:  m.int("osmosis_replication_sequence_number"),
		ReplicationBaseURL:   m.str("osmosis_replication_base_url"),
	}

	if bbox, ok := m.message("bbox"); ok {
		hdr.BBox = &BBox{
			Left:   bbox.int("left"),
			Right:  bbox.int("right"),
			Top:    bbox.int("top"),
			Bottom: bbox.int("bottom"),
		}
	}

	return hdr, nil
}

// DecodePrimitiveBlock decodes the payload of an OSMData blob.
//
// Groups are classified by the single entity kind they carry. A group holding
// more than one kind yields ErrMixedGroup.
func (d *Decoder) DecodePrimitiveBlock(data []byte) (*PrimitiveBlock, error) {
	m, err := d.decode(d.primitiveBlock, data)
	if err != nil {
		return nil, err
	}

	blk := &PrimitiveBlock{
		Granularity:     int32(m.int("granularity")),      //nolint:gosec
		DateGranularity: int32(m.int("date_granularity")), //nolint:gosec
		LatOffset:       m.int("lat_offset"),
		LonOffset:       m.int("lon_offset"),
	}

	if st, ok := m.message("stringtable"); ok {
		blk.StringTable = st.byteSlices("s")
	}

	groups := m.messages("primitivegroup")
	blk.Groups = make([]PrimitiveGroup, 0, len(groups))
	for i, g := range groups {
		grp, err := decodeGroup(g)
		if err != nil {
			return nil, fmt.Errorf("primitive group %d: %w", i, err)
		}
		blk.Groups = append(blk.Groups, grp)
	}

	return blk, nil
}

func (d *Decoder) decode(md protoreflect.MessageDescriptor, data []byte) (message, error) {
	msg := dynamicpb.NewMessage(md)
	if err := d.unmarshal.Unmarshal(data, msg); err != nil {
		return message{}, fmt.Errorf("%w: %s: %w", errs.ErrSchemaDecode, md.Name(), err)
	}

	return message{m: msg.ProtoReflect()}, nil
}

func decodeGroup(g message) (PrimitiveGroup, error) {
	var grp PrimitiveGroup
	kinds := 0

	if nodes := g.messages("nodes"); len(nodes) > 0 {
		kinds++
		grp.Kind = format.GroupNodes
		grp.Nodes = make([]Node, len(nodes))
		for i, n := range nodes {
			grp.Nodes[i] = Node{
				ID:   n.int("id"),
				Keys: n.uint32s("keys"),
				Vals: n.uint32s("vals"),
				Info: decodeInfo(n),
				Lat:  n.int("lat"),
				Lon:  n.int("lon"),
			}
		}
	}

	if dense, ok := g.message("dense"); ok {
		kinds++
		grp.Kind = format.GroupDense
		grp.Dense = &DenseNodes{
			IDs:      dense.int64s("id"),
			Lats:     dense.int64s("lat"),
			Lons:     dense.int64s("lon"),
			KeysVals: dense.int32s("keys_vals"),
		}
		if info, ok := dense.message("denseinfo"); ok {
			grp.Dense.Info = &DenseInfo{
				Versions:   info.int32s("version"),
				Timestamps: info.int64s("timestamp"),
				Changesets: info.int64s("changeset"),
				UIDs:       info.int32s("uid"),
				UserSIDs:   info.int32s("user_sid"),
				Visible:    info.bools("visible"),
			}
		}
	}

	if ways := g.messages("ways"); len(ways) > 0 {
		kinds++
		grp.Kind = format.GroupWays
		grp.Ways = make([]Way, len(ways))
		for i, w := range ways {
			grp.Ways[i] = Way{
				ID:   w.int("id"),
				Keys: w.uint32s("keys"),
				Vals: w.uint32s("vals"),
				Info: decodeInfo(w),
				Refs: w.int64s("refs"),
			}
		}
	}

	if relations := g.messages("relations"); len(relations) > 0 {
		kinds++
		grp.Kind = format.GroupRelations
		grp.Relations = make([]Relation, len(relations))
		for i, r := range relations {
			grp.Relations[i] = Relation{
				ID:       r.int("id"),
				Keys:     r.uint32s("keys"),
				Vals:     r.uint32s("vals"),
				Info:     decodeInfo(r),
				RolesSID: r.int32s("roles_sid"),
				MemIDs:   r.int64s("memids"),
				Types:    r.int32s("types"),
			}
		}
	}

	if kinds > 1 {
		return PrimitiveGroup{}, errs.ErrMixedGroup
	}

	return grp, nil
}

func decodeInfo(entity message) *Info {
	m, ok := entity.message("info")
	if !ok {
		return nil
	}

	info := &Info{
		Version:   int32(m.int("version")), //nolint:gosec
		Timestamp: m.int("timestamp"),
		Changeset: m.int("changeset"),
		UID:       int32(m.int("uid")),        //nolint:gosec
		UserSID:   uint32(m.uint("user_sid")), //nolint:gosec
	}
	if m.has("visible") {
		visible := m.bool("visible")
		info.Visible = &visible
	}

	return info
}
