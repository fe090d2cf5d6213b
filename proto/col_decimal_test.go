package proto

import (
	"bytes"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecimalRoundTrip checks the Decimal wire law (§4.C, §8) across every
// precision tier: each column's EncodeColumn output, fed back through
// DecodeColumn, reproduces the original rows exactly, including the
// 2-and-4-limb big.Int path shared by Decimal128/256.
func TestDecimalRoundTrip(t *testing.T) {
	t.Run("Decimal32", func(t *testing.T) {
		c := &ColDecimal32{Scale: 2}
		for _, v := range []int32{0, 1, -1, 12345, -99999} {
			c.Append(v)
		}
		roundTripDecimal32(t, c)
	})
	t.Run("Decimal64", func(t *testing.T) {
		c := &ColDecimal64{Scale: 4}
		for _, v := range []int64{0, 1, -1, 123456789, -987654321} {
			c.Append(v)
		}
		var b Buffer
		c.EncodeColumn(&b)
		got := &ColDecimal64{Scale: c.Scale}
		require.NoError(t, got.DecodeColumn(NewReader(bytes.NewReader(b.Buf)), c.Rows()))
		require.Equal(t, c.Data, got.Data)
	})
	t.Run("Decimal128", func(t *testing.T) {
		c := NewDecimal128(6)
		for _, v := range []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(-1), big.NewInt(math.MaxInt64)} {
			c.Append(v)
		}
		var b Buffer
		c.EncodeColumn(&b)
		got := NewDecimal128(6)
		require.NoError(t, got.DecodeColumn(NewReader(bytes.NewReader(b.Buf)), c.Rows()))
		for i := range c.Data {
			require.Equalf(t, 0, c.Data[i].Cmp(got.Data[i]), "row %d: %s != %s", i, c.Data[i], got.Data[i])
		}
	})
	t.Run("Decimal256", func(t *testing.T) {
		big38 := new(big.Int).Exp(big.NewInt(10), big.NewInt(38), nil)
		c := NewDecimal256(8)
		for _, v := range []*big.Int{big.NewInt(0), big38, new(big.Int).Neg(big38)} {
			c.Append(v)
		}
		var b Buffer
		c.EncodeColumn(&b)
		got := NewDecimal256(8)
		require.NoError(t, got.DecodeColumn(NewReader(bytes.NewReader(b.Buf)), c.Rows()))
		for i := range c.Data {
			require.Equalf(t, 0, c.Data[i].Cmp(got.Data[i]), "row %d: %s != %s", i, c.Data[i], got.Data[i])
		}
	})
}

func roundTripDecimal32(t *testing.T, c *ColDecimal32) {
	t.Helper()
	var b Buffer
	c.EncodeColumn(&b)
	got := &ColDecimal32{Scale: c.Scale}
	require.NoError(t, got.DecodeColumn(NewReader(bytes.NewReader(b.Buf)), c.Rows()))
	require.Equal(t, c.Data, got.Data)
}
