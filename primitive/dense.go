package primitive

import (
	"fmt"

	"github.com/arloliu/osmpbf/encoding"
	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/model"
	"github.com/arloliu/osmpbf/schema"
)

// DenseNodeDecoder decodes dense node groups.
//
// The key/value cursor is shared by all nodes of a group and is not reset
// between them; use a new decoder, or Reset, for every group.
type DenseNodeDecoder struct {
	strings StringTable
	coords  Coordinates
	info    *InfoDecoder
	cursor  int
}

// NewDenseNodeDecoder creates a decoder for dense groups of one block.
//
// Parameters:
//   - strings: String table of the owning block
//   - coords: Coordinate conversion of the owning block
//   - info: Metadata decoder; nil skips metadata
//
// Returns:
//   - *DenseNodeDecoder: Decoder with its cursor at 0
func NewDenseNodeDecoder(strings StringTable, coords Coordinates, info *InfoDecoder) *DenseNodeDecoder {
	return &DenseNodeDecoder{strings: strings, coords: coords, info: info}
}

// KeyValCursor returns the position of the shared key/value cursor.
func (d *DenseNodeDecoder) KeyValCursor() int {
	return d.cursor
}

// Reset moves the key/value cursor back to 0.
func (d *DenseNodeDecoder) Reset() {
	d.cursor = 0
}

// Decode decodes one dense group into nodes, in id order.
//
// Parameters:
//   - dense: Dense group columns
//
// Returns:
//   - []model.Node: One node per id
//   - error: errs.ErrColumnLength when parallel columns differ in length,
//     errs.ErrMissingTerminator or errs.ErrDanglingKey for a malformed
//     key/value array, errs.ErrStringIndexRange for a bad string index
func (d *DenseNodeDecoder) Decode(dense *schema.DenseNodes) ([]model.Node, error) {
	n := len(dense.IDs)
	if len(dense.Lats) != n || len(dense.Lons) != n {
		return nil, fmt.Errorf("%w: dense ids=%d lats=%d lons=%d",
			errs.ErrColumnLength, n, len(dense.Lats), len(dense.Lons))
	}

	info, err := newDenseInfo(d.info, dense.Info, n)
	if err != nil {
		return nil, err
	}

	var ids, lats, lons encoding.DeltaDecoder
	nodes := make([]model.Node, n)
	for i := range n {
		node := &nodes[i]
		node.ID = ids.Next(dense.IDs[i])
		node.Lat = d.coords.Lat(lats.Next(dense.Lats[i]))
		node.Lon = d.coords.Lon(lons.Next(dense.Lons[i]))

		if len(dense.KeysVals) > 0 {
			if node.Tags, err = d.readTags(dense.KeysVals); err != nil {
				return nil, fmt.Errorf("dense node %d: %w", node.ID, err)
			}
		}

		if info != nil {
			if node.Info, err = info.next(i); err != nil {
				return nil, fmt.Errorf("dense node %d: %w", node.ID, err)
			}
		}
	}

	if len(dense.KeysVals) > 0 && d.cursor != len(dense.KeysVals) {
		return nil, fmt.Errorf("%w: %d trailing dense key/value entries",
			errs.ErrColumnLength, len(dense.KeysVals)-d.cursor)
	}

	return nodes, nil
}

// readTags reads key/value index pairs from the shared cursor up to and
// including the next 0 terminator.
func (d *DenseNodeDecoder) readTags(kv []int32) (model.Tags, error) {
	var tags model.Tags
	for {
		if d.cursor >= len(kv) {
			return nil, fmt.Errorf("%w at index %d", errs.ErrMissingTerminator, d.cursor)
		}

		key := kv[d.cursor]
		d.cursor++
		if key == 0 {
			return tags, nil
		}

		if d.cursor >= len(kv) {
			return nil, fmt.Errorf("%w: key %d at index %d", errs.ErrDanglingKey, key, d.cursor-1)
		}
		val := kv[d.cursor]
		d.cursor++

		if tags == nil {
			tags = make(model.Tags)
		}
		if err := d.strings.tag(tags, int64(key), int64(val)); err != nil {
			return nil, err
		}
	}
}
