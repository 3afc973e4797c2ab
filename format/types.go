package format

type (
	CompressionType uint8
	GroupKind       uint8
)

const (
	CompressionNone  CompressionType = 0x1 // CompressionNone represents a raw, uncompressed blob.
	CompressionZlib  CompressionType = 0x2 // CompressionZlib represents a zlib_data blob.
	CompressionLZMA  CompressionType = 0x3 // CompressionLZMA represents a lzma_data blob.
	CompressionBzip2 CompressionType = 0x4 // CompressionBzip2 represents an OBSOLETE_bzip2_data blob.
	CompressionLZ4   CompressionType = 0x5 // CompressionLZ4 represents a lz4_data blob.
	CompressionZstd  CompressionType = 0x6 // CompressionZstd represents a zstd_data blob.

	GroupEmpty     GroupKind = 0x0 // GroupEmpty represents a group without entities (or changesets only).
	GroupNodes     GroupKind = 0x1 // GroupNodes represents a group of plain nodes.
	GroupDense     GroupKind = 0x2 // GroupDense represents a dense nodes group.
	GroupWays      GroupKind = 0x3 // GroupWays represents a group of ways.
	GroupRelations GroupKind = 0x4 // GroupRelations represents a group of relations.
)

// Blob header types.
const (
	BlockTypeHeader = "OSMHeader"
	BlockTypeData   = "OSMData"
)

// Size limits from the PBF file format definition.
const (
	MaxBlobHeaderSize = 64 * 1024
	MaxBlobSize       = 32 * 1024 * 1024
)

// Coordinate and timestamp scaling defaults.
const (
	DefaultGranularity     = 100
	DefaultDateGranularity = 1000
	NanoDegree             = 1e-9
)

// Required features a reader of this package understands.
const (
	FeatureOsmSchema  = "OsmSchema-V0.6"
	FeatureDenseNodes = "DenseNodes"
	FeatureHistorical = "HistoricalInformation"
)

// SupportedFeatures lists the required features accepted by the stream.
var SupportedFeatures = []string{FeatureOsmSchema, FeatureDenseNodes, FeatureHistorical}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZlib:
		return "Zlib"
	case CompressionLZMA:
		return "LZMA"
	case CompressionBzip2:
		return "Bzip2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

func (k GroupKind) String() string {
	switch k {
	case GroupEmpty:
		return "Empty"
	case GroupNodes:
		return "Nodes"
	case GroupDense:
		return "Dense"
	case GroupWays:
		return "Ways"
	case GroupRelations:
		return "Relations"
	default:
		return "Unknown"
	}
}
