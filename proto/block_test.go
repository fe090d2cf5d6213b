package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// testRevision is a stand-in negotiated revision recent enough to exercise
// every feature gate the block tests touch (FeatureColumnsInDefineColumns).
const testRevision = 54459

// TestBlock_RoundTrip checks the Block wire law (§3, §8): EncodeBlock's
// output, fed back through DecodeBlock, reproduces every column's rows and
// the block's own shape.
func TestBlock_RoundTrip(t *testing.T) {
	in := []InputColumn{
		{Name: "id", Data: colOf(1, 2, 3)},
		{Name: "name", Data: colOfStr("a", "b", "c")},
	}

	var b Block
	var buf Buffer
	require.NoError(t, b.EncodeBlock(&buf, testRevision, in))
	require.Equal(t, 2, b.Columns)
	require.Equal(t, 3, b.Rows)

	gotID := new(ColInt32)
	gotName := new(ColStr)
	result := Result{
		{Name: "id", Data: gotID},
		{Name: "name", Data: gotName},
	}

	var got Block
	require.NoError(t, got.DecodeBlock(NewReader(bytes.NewReader(buf.Buf)), testRevision, result))
	require.Equal(t, b.Columns, got.Columns)
	require.Equal(t, b.Rows, got.Rows)
	require.Equal(t, []int32{1, 2, 3}, []int32(*gotID))
	require.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, [][]byte(*gotName))
}

// TestBlock_Blank checks that the zero-column, zero-row blank block (§3)
// round-trips without requiring a matching Result.
func TestBlock_Blank(t *testing.T) {
	var b Block
	var buf Buffer
	require.NoError(t, b.EncodeBlock(&buf, testRevision, nil))
	require.True(t, b.End())

	var got Block
	require.NoError(t, got.DecodeBlock(NewReader(bytes.NewReader(buf.Buf)), testRevision, nil))
	require.True(t, got.End())
}

// TestParamBlock_PlaceholderShift checks the placeholder-shift law (§3, §9,
// §8): binding a column as a constant via SetConst removes it from the
// positional placeholder sequence, so every later placeholder now targets
// the next column over.
func TestParamBlock_PlaceholderShift(t *testing.T) {
	cols := Input{
		{Name: "a", Data: new(ColInt32)},
		{Name: "b", Data: new(ColInt32)},
		{Name: "c", Data: new(ColInt32)},
	}
	p := NewParamBlock(cols)

	require.NoError(t, p.SetConst(1, int32(100)))

	// placeholder 0 -> column a, placeholder 1 -> column c (b is now constant).
	require.NoError(t, p.SetPlaceholder(0, int32(1)))
	require.NoError(t, p.SetPlaceholder(1, int32(3)))
	require.NoError(t, p.AppendRow())

	require.Equal(t, 1, p.Rows())
	require.Equal(t, []int32{1}, []int32(*cols[0].Data.(*ColInt32)))
	require.Equal(t, []int32{100}, []int32(*cols[1].Data.(*ColInt32)))
	require.Equal(t, []int32{3}, []int32(*cols[2].Data.(*ColInt32)))
}

func colOf(vs ...int32) *ColInt32 {
	c := new(ColInt32)
	for _, v := range vs {
		c.Append(v)
	}
	return c
}

func colOfStr(vs ...string) *ColStr {
	c := new(ColStr)
	for _, v := range vs {
		c.Append(v)
	}
	return c
}
