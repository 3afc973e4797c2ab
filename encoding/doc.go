// Package encoding provides the running-sum delta coding used by PBF columns.
//
// PBF stores identifiers, coordinates, way node references, relation member ids
// and most dense metadata columns as deltas: each stored value is the difference
// to the previous value in the same column. The true value is the running sum
// of the stored deltas.
//
// Every column keeps its own running state. Node id deltas, way node reference
// deltas and relation member id deltas never share a sum, even inside the same
// block, so each column gets a fresh DeltaDecoder (or a separate DecodeDelta
// call):
//
//	var ids, lats, lons encoding.DeltaDecoder
//	for i := range dense.IDs {
//	    id := ids.Next(dense.IDs[i])
//	    lat := lats.Next(dense.Lats[i])
//	    lon := lons.Next(dense.Lons[i])
//	    // ...
//	}
//
// For a whole column at once:
//
//	refs := encoding.DecodeDelta(way.Refs)
//
// EncodeDelta is the exact inverse and is used to build test fixtures.
package encoding
