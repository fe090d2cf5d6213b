package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestColNullable_MaskLength checks the Nullable mask-length law (§4.C,
// §8): Values always has exactly as many rows as Nulls, including across
// AppendNull calls, since a null row still carries the inner type's zero
// value placeholder rather than leaving Values short.
func TestColNullable_MaskLength(t *testing.T) {
	c := NewNullable(new(ColInt32))
	c.Values.(*ColInt32).Append(1)
	c.NullsNone()
	c.AppendNull()
	c.Values.(*ColInt32).Append(3)
	c.NullsNone()
	c.AppendNull()

	require.Equal(t, c.Nulls.Rows(), c.Values.Rows())
	require.Equal(t, 4, c.Rows())
	require.Equal(t, []int32{1, 0, 3, 0}, []int32(*c.Values.(*ColInt32)))
	require.False(t, c.RowNull(0))
	require.True(t, c.RowNull(1))
	require.False(t, c.RowNull(2))
	require.True(t, c.RowNull(3))
}

// TestColNullable_RoundTrip exercises the mask-length law through the wire
// codec itself: a column with interleaved null/non-null rows round-trips
// through EncodeColumn/DecodeColumn with Values and Nulls staying in sync.
func TestColNullable_RoundTrip(t *testing.T) {
	c := NewNullable(new(ColInt32))
	c.Values.(*ColInt32).Append(10)
	c.NullsNone()
	c.AppendNull()
	c.Values.(*ColInt32).Append(30)
	c.NullsNone()

	var b Buffer
	c.EncodeColumn(&b)

	got := NewNullable(new(ColInt32))
	require.NoError(t, got.DecodeColumn(NewReader(bytes.NewReader(b.Buf)), c.Rows()))
	require.Equal(t, c.Rows(), got.Rows())
	require.Equal(t, []int32(*c.Values.(*ColInt32)), []int32(*got.Values.(*ColInt32)))
	for i := 0; i < c.Rows(); i++ {
		require.Equal(t, c.RowNull(i), got.RowNull(i))
	}
}
