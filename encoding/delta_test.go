package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeDelta(t *testing.T) {
	tests := []struct {
		name   string
		deltas []int64
		want   []int64
	}{
		{name: "Nil", deltas: nil, want: []int64{}},
		{name: "Empty", deltas: []int64{}, want: []int64{}},
		{name: "Single", deltas: []int64{42}, want: []int64{42}},
		{name: "Increasing", deltas: []int64{10, 1, 1, 1}, want: []int64{10, 11, 12, 13}},
		{name: "NegativeDeltas", deltas: []int64{100, -30, -80, 5}, want: []int64{100, 70, -10, -5}},
		{name: "NegativeStart", deltas: []int64{-7, 0, 0}, want: []int64{-7, -7, -7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeDelta(tt.deltas)
			require.NotNil(t, got)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeDelta_DoesNotModifyInput(t *testing.T) {
	deltas := []int64{5, 5, 5}
	_ = DecodeDelta(deltas)
	require.Equal(t, []int64{5, 5, 5}, deltas)
}

func TestEncodeDecodeDelta_Inverse(t *testing.T) {
	sequences := [][]int64{
		{},
		{0},
		{-1},
		{1, 2, 3, 4, 5},
		{5, 4, 3, 2, 1},
		{4_000_000_000, -4_000_000_000, 17, 17, 0, -3},
		{math.MaxInt32, math.MinInt32, 0},
	}

	for _, values := range sequences {
		require.Equal(t, values, DecodeDelta(EncodeDelta(values)))
		require.Equal(t, values, EncodeDelta(DecodeDelta(values)))
	}
}

func TestDeltaDecoder(t *testing.T) {
	t.Run("ZeroValue", func(t *testing.T) {
		var d DeltaDecoder
		require.Equal(t, int64(0), d.Value())
		require.Equal(t, int64(12), d.Next(12))
		require.Equal(t, int64(10), d.Next(-2))
		require.Equal(t, int64(10), d.Value())
	})

	t.Run("Reset", func(t *testing.T) {
		var d DeltaDecoder
		d.Next(100)
		d.Reset()
		require.Equal(t, int64(3), d.Next(3))
	})

	t.Run("IndependentColumns", func(t *testing.T) {
		ids := []int64{1000, 1, 1}
		refs := []int64{50, -10, 20}

		var idDec, refDec DeltaDecoder
		gotIDs := make([]int64, 0, len(ids))
		gotRefs := make([]int64, 0, len(refs))
		for i := range ids {
			gotIDs = append(gotIDs, idDec.Next(ids[i]))
			gotRefs = append(gotRefs, refDec.Next(refs[i]))
		}

		require.Equal(t, []int64{1000, 1001, 1002}, gotIDs)
		require.Equal(t, []int64{50, 40, 60}, gotRefs)
	})
}

func TestAll(t *testing.T) {
	deltas := []int64{3, -1, 4}

	var got []int64
	for i, v := range All(deltas) {
		require.Len(t, got, i)
		got = append(got, v)
	}
	require.Equal(t, []int64{3, 2, 6}, got)

	// early stop
	count := 0
	for range All(deltas) {
		count++
		break
	}
	require.Equal(t, 1, count)
}
