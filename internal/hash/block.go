// Package hash provides the checksum used to fingerprint decoded blocks.
package hash

import "github.com/cespare/xxhash/v2"

// Block computes the xxHash64 of a decompressed block.
func Block(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digest accumulates xxHash64 over a sequence of blocks.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest creates an empty Digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Add folds one block checksum into the digest.
func (d *Digest) Add(sum uint64) {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(sum >> (8 * i))
	}
	_, _ = d.d.Write(buf[:])
}

// Sum64 returns the current combined checksum.
func (d *Digest) Sum64() uint64 {
	return d.d.Sum64()
}
