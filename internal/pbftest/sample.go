package pbftest

import (
	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/schema"
)

// SampleDataBlocks is the number of OSMData blocks in SampleFile.
const SampleDataBlocks = 8

// SampleHeader returns the header block of SampleFile.
func SampleHeader() *schema.HeaderBlock {
	return &schema.HeaderBlock{
		BBox: &schema.BBox{
			Left:   57_300_000_000,
			Right:  57_800_000_000,
			Top:    -19_900_000_000,
			Bottom: -20_600_000_000,
		},
		RequiredFeatures: []string{format.FeatureOsmSchema, format.FeatureDenseNodes},
		OptionalFeatures: []string{"Sort.Type_then_ID"},
		WritingProgram:   "osmium/1.16.0",
		Source:           "https://www.openstreetmap.org/api/0.6",
	}
}

// SampleBlocks returns the data blocks of SampleFile in file order.
//
// The blocks cover every group kind: dense nodes with and without metadata,
// plain nodes, ways, relations, offsets and a block with several groups.
func SampleBlocks() []*schema.PrimitiveBlock {
	visible := true

	return []*schema.PrimitiveBlock{
		{
			StringTable: StringTable("", "amenity", "cafe", "name", "Chez Moi", "shop", "bakery"),
			Groups: []schema.PrimitiveGroup{{
				Kind: format.GroupDense,
				Dense: &schema.DenseNodes{
					IDs:      []int64{1001, 1, 1},
					Lats:     []int64{-201_000_000, 100, -50},
					Lons:     []int64{575_000_000, -200, 300},
					KeysVals: []int32{1, 2, 3, 4, 0, 0, 5, 6, 0},
				},
			}},
		},
		{
			StringTable: StringTable("", "alice", "bob"),
			Groups: []schema.PrimitiveGroup{{
				Kind: format.GroupDense,
				Dense: &schema.DenseNodes{
					IDs:  []int64{2001, 5},
					Lats: []int64{-200_000_000, 10},
					Lons: []int64{574_000_000, 10},
					Info: &schema.DenseInfo{
						Versions:   []int32{3, 1},
						Timestamps: []int64{1_600_000_000, 60},
						Changesets: []int64{900, -10},
						UIDs:       []int32{42, 1},
						UserSIDs:   []int32{1, 1},
						Visible:    []bool{true, false},
					},
				},
			}},
		},
		{
			StringTable: StringTable("", "natural", "peak", "ele", "828"),
			Groups: []schema.PrimitiveGroup{{
				Kind: format.GroupNodes,
				Nodes: []schema.Node{
					{ID: 3001, Keys: []uint32{1, 3}, Vals: []uint32{2, 4}, Lat: -203_500_000, Lon: 574_500_000},
					{ID: 3002, Lat: -203_600_000, Lon: 574_600_000, Info: &schema.Info{Version: 2, Timestamp: 1_500_000_000, Visible: &visible}},
				},
			}},
		},
		{
			StringTable: StringTable("", "highway", "residential", "name", "Royal Road"),
			Groups: []schema.PrimitiveGroup{{
				Kind: format.GroupWays,
				Ways: []schema.Way{
					{ID: 4001, Keys: []uint32{1, 3}, Vals: []uint32{2, 4}, Refs: []int64{1001, 1, 1}},
					{ID: 4002, Keys: []uint32{1}, Vals: []uint32{2}, Refs: []int64{2001, 5, -1006}},
				},
			}},
		},
		{
			StringTable: StringTable("", "type", "multipolygon", "outer", "inner"),
			Groups: []schema.PrimitiveGroup{{
				Kind: format.GroupRelations,
				Relations: []schema.Relation{
					{
						ID:       5001,
						Keys:     []uint32{1},
						Vals:     []uint32{2},
						RolesSID: []int32{3, 4, 0},
						MemIDs:   []int64{4001, 1, -3002},
						Types:    []int32{1, 1, 0},
					},
				},
			}},
		},
		{
			StringTable: StringTable("", "route", "bus", "stop"),
			Groups: []schema.PrimitiveGroup{
				{
					Kind: format.GroupWays,
					Ways: []schema.Way{{ID: 4003, Refs: []int64{3001, 1}}},
				},
				{
					Kind: format.GroupRelations,
					Relations: []schema.Relation{{
						ID:       5002,
						Keys:     []uint32{1},
						Vals:     []uint32{2},
						RolesSID: []int32{3, 0, 0},
						MemIDs:   []int64{3001, 1001, -1000},
						Types:    []int32{0, 1, 2},
					}},
				},
			},
		},
		{
			StringTable: StringTable(""),
			Granularity: 1000,
			LatOffset:   -20_000_000_000,
			LonOffset:   57_000_000_000,
			Groups: []schema.PrimitiveGroup{{
				Kind: format.GroupDense,
				Dense: &schema.DenseNodes{
					IDs:  []int64{6001, 1},
					Lats: []int64{100_000, 1},
					Lons: []int64{500_000, -1},
				},
			}},
		},
		{
			StringTable: StringTable("", "place", "island"),
			Groups: []schema.PrimitiveGroup{
				{Kind: format.GroupEmpty},
				{
					Kind: format.GroupDense,
					Dense: &schema.DenseNodes{
						IDs:      []int64{7001},
						Lats:     []int64{-201_500_000},
						Lons:     []int64{575_500_000},
						KeysVals: []int32{1, 2, 0},
					},
				},
			},
		},
	}
}

// SampleFile returns a PBF file with one OSMHeader block followed by
// SampleDataBlocks OSMData blocks, alternating zlib and raw blobs.
func SampleFile() []byte {
	var f File
	f.AddHeader(SampleHeader(), format.CompressionZlib)

	for i, blk := range SampleBlocks() {
		compression := format.CompressionZlib
		if i%3 == 1 {
			compression = format.CompressionNone
		}
		f.AddData(blk, compression)
	}

	return f.Bytes()
}
