package proto

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestUVarIntRoundTrip checks the Byte Codec's varint law (§4.A, §8): every
// uint64 written by Buffer.PutUVarInt decodes back to the same value via
// Reader.UVarInt, across the boundaries where the LEB128 encoding changes
// width.
func TestUVarIntRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 2, 0x7f, 0x80, 0x81, 0x3fff, 0x4000,
		math.MaxUint32 - 1, math.MaxUint32, math.MaxUint32 + 1,
		math.MaxInt64, math.MaxUint64,
	}
	for _, v := range values {
		var b Buffer
		b.PutUVarInt(v)

		r := NewReader(bytes.NewReader(b.Buf))
		got, err := r.UVarInt()
		require.NoError(t, err)
		require.Equalf(t, v, got, "round-trip of %d", v)
	}
}
