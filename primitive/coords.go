package primitive

import (
	"fmt"

	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/schema"
)

// Coordinates converts raw coordinate values of one block to degrees.
type Coordinates struct {
	// Granularity is the size of one coordinate unit in nanodegrees.
	Granularity int64
	// LatOffset and LonOffset are in nanodegrees.
	LatOffset int64
	LonOffset int64
	// Legacy adds the raw offsets to the scaled value without converting them
	// to degrees first. Only useful for reproducing output of readers that
	// mixed the units.
	Legacy bool
}

// NewCoordinates returns the conversion declared by block.
//
// Returns errs.ErrInvalidGranularity when the block granularity is not positive.
func NewCoordinates(block *schema.PrimitiveBlock, legacy bool) (Coordinates, error) {
	if block.Granularity <= 0 {
		return Coordinates{}, fmt.Errorf("%w: %d", errs.ErrInvalidGranularity, block.Granularity)
	}

	return Coordinates{
		Granularity: int64(block.Granularity),
		LatOffset:   block.LatOffset,
		LonOffset:   block.LonOffset,
		Legacy:      legacy,
	}, nil
}

// Lat converts a decoded latitude value to degrees.
func (c Coordinates) Lat(v int64) float64 {
	return c.convert(v, c.LatOffset)
}

// Lon converts a decoded longitude value to degrees.
func (c Coordinates) Lon(v int64) float64 {
	return c.convert(v, c.LonOffset)
}

func (c Coordinates) convert(v, offset int64) float64 {
	if c.Legacy {
		return float64(v*c.Granularity)*format.NanoDegree + float64(offset)
	}

	return float64(offset+v*c.Granularity) * format.NanoDegree
}
