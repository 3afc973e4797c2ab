package encoding

import "iter"

// DeltaDecoder reconstructs absolute values from a single delta-coded column.
//
// The zero value is ready to use and starts the running sum at 0, so the first
// delta is returned unchanged.
//
// Note: A DeltaDecoder holds the running state of exactly one column. Never share
// one instance between columns.
type DeltaDecoder struct {
	prev int64
}

// Next adds delta to the running sum and returns the decoded value.
func (d *DeltaDecoder) Next(delta int64) int64 {
	d.prev += delta

	return d.prev
}

// Value returns the last decoded value (0 before the first call to Next).
func (d *DeltaDecoder) Value() int64 {
	return d.prev
}

// Reset restarts the running sum at 0.
func (d *DeltaDecoder) Reset() {
	d.prev = 0
}

// DecodeDelta decodes a whole delta-coded column into a newly allocated slice.
//
// value[0] = delta[0], value[i] = value[i-1] + delta[i]. The input is not modified.
// An empty or nil input yields an empty, non-nil slice.
func DecodeDelta(deltas []int64) []int64 {
	values := make([]int64, len(deltas))

	var sum int64
	for i, delta := range deltas {
		sum += delta
		values[i] = sum
	}

	return values
}

// EncodeDelta is the inverse of DecodeDelta.
func EncodeDelta(values []int64) []int64 {
	deltas := make([]int64, len(values))

	var prev int64
	for i, v := range values {
		deltas[i] = v - prev
		prev = v
	}

	return deltas
}

// All returns an iterator over the decoded values of a delta-coded column.
//
// The iterator yields (index, value) pairs and does not allocate.
func All(deltas []int64) iter.Seq2[int, int64] {
	return func(yield func(int, int64) bool) {
		var sum int64
		for i, delta := range deltas {
			sum += delta
			if !yield(i, sum) {
				return
			}
		}
	}
}
