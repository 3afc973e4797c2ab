package primitive

import (
	"fmt"
	"time"

	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/model"
	"github.com/arloliu/osmpbf/schema"
)

// unknownVersion is reported for entities whose metadata omits the version.
const unknownVersion = -1

// InfoDecoder converts entity metadata of one block.
type InfoDecoder struct {
	strings         StringTable
	dateGranularity int64
}

// NewInfoDecoder creates an InfoDecoder.
//
// Returns errs.ErrInvalidGranularity when dateGranularity is not positive.
func NewInfoDecoder(strings StringTable, dateGranularity int32) (*InfoDecoder, error) {
	if dateGranularity <= 0 {
		return nil, fmt.Errorf("%w: date granularity %d", errs.ErrInvalidGranularity, dateGranularity)
	}

	return &InfoDecoder{strings: strings, dateGranularity: int64(dateGranularity)}, nil
}

// Decode converts the metadata of a plain node, way or relation.
// A nil info yields nil.
func (d *InfoDecoder) Decode(info *schema.Info) (*model.Info, error) {
	if info == nil {
		return nil, nil
	}

	user, err := d.strings.Lookup(int64(info.UserSID))
	if err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}

	visible := true
	if info.Visible != nil {
		visible = *info.Visible
	}

	return &model.Info{
		Version:   info.Version,
		Timestamp: d.timestamp(info.Timestamp),
		Changeset: info.Changeset,
		UID:       info.UID,
		User:      user,
		Visible:   visible,
	}, nil
}

func (d *InfoDecoder) timestamp(ts int64) time.Time {
	return time.UnixMilli(ts * d.dateGranularity).UTC()
}

// denseInfo decodes the metadata columns of a dense group.
//
// timestamp, changeset, uid and user_sid carry independent running sums;
// version and visible are stored as plain values. Absent columns are allowed,
// present columns must match the node count.
type denseInfo struct {
	dec *InfoDecoder
	col *schema.DenseInfo

	timestamp int64
	changeset int64
	uid       int64
	userSID   int64
}

func newDenseInfo(dec *InfoDecoder, col *schema.DenseInfo, n int) (*denseInfo, error) {
	if dec == nil || col == nil {
		return nil, nil
	}

	lengths := []struct {
		name string
		len  int
	}{
		{"version", len(col.Versions)},
		{"timestamp", len(col.Timestamps)},
		{"changeset", len(col.Changesets)},
		{"uid", len(col.UIDs)},
		{"user_sid", len(col.UserSIDs)},
		{"visible", len(col.Visible)},
	}
	for _, l := range lengths {
		if l.len != 0 && l.len != n {
			return nil, fmt.Errorf("%w: dense %s has %d entries, want %d", errs.ErrColumnLength, l.name, l.len, n)
		}
	}

	return &denseInfo{dec: dec, col: col}, nil
}

func (d *denseInfo) next(i int) (*model.Info, error) {
	info := &model.Info{Version: unknownVersion, Visible: true}

	if len(d.col.Versions) > 0 {
		info.Version = d.col.Versions[i]
	}
	if len(d.col.Timestamps) > 0 {
		d.timestamp += d.col.Timestamps[i]
		info.Timestamp = d.dec.timestamp(d.timestamp)
	}
	if len(d.col.Changesets) > 0 {
		d.changeset += d.col.Changesets[i]
		info.Changeset = d.changeset
	}
	if len(d.col.UIDs) > 0 {
		d.uid += int64(d.col.UIDs[i])
		info.UID = int32(d.uid) //nolint:gosec
	}
	if len(d.col.UserSIDs) > 0 {
		d.userSID += int64(d.col.UserSIDs[i])
		user, err := d.dec.strings.Lookup(d.userSID)
		if err != nil {
			return nil, fmt.Errorf("user: %w", err)
		}
		info.User = user
	}
	if len(d.col.Visible) > 0 {
		info.Visible = d.col.Visible[i]
	}

	return info, nil
}
