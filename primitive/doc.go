// Package primitive turns decoded PrimitiveBlock messages into entities.
//
// A PrimitiveBlock carries a block-scoped string table and one or more groups.
// Each group holds exactly one entity kind: plain nodes, dense nodes, ways or
// relations. Every id, reference and coordinate column is delta-coded and is
// decoded with its own running sum; string indices resolve against the table
// of the block that carries them and are never shared between blocks.
//
// Coordinates are converted with
//
//	degrees = (offset + granularity * value) * 1e-9
//
// unless the Assembler is configured with WithLegacyOffsets, which adds the
// raw integer offset to the already scaled value instead.
package primitive
