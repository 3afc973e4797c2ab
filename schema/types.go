package schema

import (
	"github.com/arloliu/osmpbf/format"
)

// BlobHeader identifies the kind and size of the blob that follows it.
type BlobHeader struct {
	Type      string
	IndexData []byte
	DataSize  int32
}

// Blob is a framed payload container.
//
// Exactly one payload representation is populated on the wire; Compression tells
// which one Data holds.
type Blob struct {
	RawSize     int32
	Compression format.CompressionType
	Data        []byte
}

// BBox is the bounding box of a HeaderBlock, in nanodegrees.
type BBox struct {
	Left   int64
	Right  int64
	Top    int64
	Bottom int64
}

func (b BBox) MinLon() float64 { return float64(b.Left) * format.NanoDegree }
func (b BBox) MaxLon() float64 { return float64(b.Right) * format.NanoDegree }
func (b BBox) MaxLat() float64 { return float64(b.Top) * format.NanoDegree }
func (b BBox) MinLat() float64 { return float64(b.Bottom) * format.NanoDegree }

// HeaderBlock is the payload of an OSMHeader blob.
type HeaderBlock struct {
	BBox                 *BBox
	RequiredFeatures     []string
	OptionalFeatures     []string
	WritingProgram       string
	Source               string
	ReplicationTimestamp int64
	ReplicationSequence  int64
	ReplicationBaseURL   string
}

// PrimitiveBlock is the payload of an OSMData blob.
//
// StringTable indices are only meaningful relative to the owning block.
type PrimitiveBlock struct {
	StringTable     [][]byte
	Groups          []PrimitiveGroup
	Granularity     int32
	DateGranularity int32
	LatOffset       int64
	LonOffset       int64
}

// PrimitiveGroup holds exactly one kind of entity, reported by Kind.
type PrimitiveGroup struct {
	Kind      format.GroupKind
	Nodes     []Node
	Dense     *DenseNodes
	Ways      []Way
	Relations []Relation
}

// Info is the wire form of per-entity metadata.
type Info struct {
	Version   int32
	Timestamp int64
	Changeset int64
	UID       int32
	UserSID   uint32
	// Visible is nil when the field is absent.
	Visible *bool
}

// DenseInfo holds the columnar metadata of a dense nodes group.
//
// Timestamps, Changesets, UIDs and UserSIDs are delta-coded.
type DenseInfo struct {
	Versions   []int32
	Timestamps []int64
	Changesets []int64
	UIDs       []int32
	UserSIDs   []int32
	Visible    []bool
}

// Node is a plain, non-dense node. Lat and Lon are raw granularity units.
type Node struct {
	ID   int64
	Keys []uint32
	Vals []uint32
	Info *Info
	Lat  int64
	Lon  int64
}

// DenseNodes holds delta-coded parallel columns.
//
// KeysVals is one flat array shared by all nodes of the group: (key, value)
// string indices per node, each node's list terminated by 0.
type DenseNodes struct {
	IDs      []int64
	Lats     []int64
	Lons     []int64
	KeysVals []int32
	Info     *DenseInfo
}

// Way carries delta-coded node references.
type Way struct {
	ID   int64
	Keys []uint32
	Vals []uint32
	Info *Info
	Refs []int64
}

// Relation carries delta-coded member ids with positional types and roles.
type Relation struct {
	ID       int64
	Keys     []uint32
	Vals     []uint32
	Info     *Info
	RolesSID []int32
	MemIDs   []int64
	Types    []int32
}
