package compress

import (
	"testing"

	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/schema"
)

func BenchmarkZlibDecompress(b *testing.B) {
	sizes := []struct {
		name string
		size int
	}{
		{"16KB", 16 * 1024},
		{"256KB", 256 * 1024},
		{"4MB", 4 * 1024 * 1024},
	}

	codec := NewZlibCompressor()
	for _, s := range sizes {
		data := blockLikeData(s.size)
		compressed, err := codec.Compress(data)
		if err != nil {
			b.Fatal(err)
		}

		blob := &schema.Blob{Compression: format.CompressionZlib, Data: compressed, RawSize: int32(s.size)} //nolint:gosec

		b.Run(s.name, func(b *testing.B) {
			b.SetBytes(int64(s.size))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := DecompressBlob(blob); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
