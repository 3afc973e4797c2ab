package primitive

import (
	"fmt"

	"github.com/arloliu/osmpbf/errs"
)

// StringTable resolves string indices of one block.
//
// Index 0 is reserved by the format; it resolves to the first entry, which
// writers leave empty.
type StringTable struct {
	entries []string
}

// NewStringTable converts the raw string table of a block.
func NewStringTable(raw [][]byte) StringTable {
	entries := make([]string, len(raw))
	for i, b := range raw {
		entries[i] = string(b)
	}

	return StringTable{entries: entries}
}

// Len returns the number of entries.
func (s StringTable) Len() int {
	return len(s.entries)
}

// Lookup returns the entry at idx.
//
// Returns errs.ErrStringIndexRange when idx is outside the table.
func (s StringTable) Lookup(idx int64) (string, error) {
	if idx < 0 || idx >= int64(len(s.entries)) {
		return "", fmt.Errorf("%w: index %d, table size %d", errs.ErrStringIndexRange, idx, len(s.entries))
	}

	return s.entries[idx], nil
}

// tag resolves one key/value pair and stores it in tags.
func (s StringTable) tag(tags map[string]string, key, val int64) error {
	k, err := s.Lookup(key)
	if err != nil {
		return fmt.Errorf("tag key: %w", err)
	}
	v, err := s.Lookup(val)
	if err != nil {
		return fmt.Errorf("tag value: %w", err)
	}
	tags[k] = v

	return nil
}
