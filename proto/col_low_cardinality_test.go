package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestColLowCardinality_RoundTrip checks the LowCardinality dictionary law
// (§4.C): repeated values collapse to a single dictionary entry, and
// Prepare+EncodeColumn followed by DecodeColumn reproduces the original
// logical rows regardless of how many times each value repeats.
func TestColLowCardinality_RoundTrip(t *testing.T) {
	c := NewLowCardinality[string](new(ColStr))
	rows := []string{"Eko", "Eko", "Amadela", "Amadela", "Amadela", "Amadela"}
	for _, v := range rows {
		c.Append(v)
	}
	require.NoError(t, c.Prepare())
	require.Equal(t, KeyUInt8, c.keys.width)
	require.Equal(t, 2, c.dict.Rows(), "dictionary should collapse to distinct values")

	var b Buffer
	c.EncodeColumn(&b)

	got := NewLowCardinality[string](new(ColStr))
	require.NoError(t, got.DecodeColumn(NewReader(bytes.NewReader(b.Buf)), len(rows)))
	require.Equal(t, rows, got.Values)
}

// TestColLowCardinality_WidthSelection checks that a dictionary large enough
// to overflow a narrower key width selects the next one up.
func TestColLowCardinality_WidthSelection(t *testing.T) {
	c := NewLowCardinality[uint32](new(ColUInt32))
	for i := 0; i < 300; i++ {
		c.Append(uint32(i))
	}
	require.NoError(t, c.Prepare())
	require.Equal(t, KeyUInt16, c.keys.width, "300 distinct values overflow a UInt8 key")
}
