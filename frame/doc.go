// Package frame splits a PBF byte source into framed blocks.
//
// Each block on disk is laid out as
//
//	+-----------------+-------------------+------------------+
//	| uint32 BE len L | BlobHeader (L B)  | Blob (DataSize B)|
//	+-----------------+-------------------+------------------+
//
// The Framer reads one block per Next call and never looks ahead, so memory use
// is bounded by the largest blob rather than the file size.
package frame
