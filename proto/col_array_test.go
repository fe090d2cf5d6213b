package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestColArr_OffsetsMonotonic checks the Array offset law (§4.C, §8):
// Offsets is non-decreasing and Offsets[i]-Offsets[i-1] always equals the
// row's element count, for both empty and non-empty rows.
func TestColArr_OffsetsMonotonic(t *testing.T) {
	c := NewArr[int32](new(ColInt32))
	rows := [][]int32{
		{1, 2, 3},
		{},
		{4},
		{},
		{5, 6},
	}
	for _, row := range rows {
		c.Append(row)
	}
	require.Equal(t, len(rows), c.Rows())

	var prev uint64
	for i, row := range rows {
		off := c.Offsets[i]
		require.GreaterOrEqualf(t, off, prev, "offsets must be non-decreasing at row %d", i)
		require.Equalf(t, uint64(len(row)), off-prev, "row %d element count", i)
		prev = off
	}
}
