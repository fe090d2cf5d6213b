package proto

import (
	"math"
	"math/big"

	"github.com/go-faster/errors"
)

// bigToLELimbs splits v into nLimbs consecutive little-endian 64-bit limbs
// of its two's-complement representation (§4.C: "128- and 256-bit integers
// are transmitted as 2 or 4 consecutive little-endian 64-bit limbs, least
// significant first"). Every limb is emitted uniformly from one shifted
// value; there is no special case for the low limb.
func bigToLELimbs(v *big.Int, nLimbs int) []uint64 {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(nLimbs*64))
	u := new(big.Int).Mod(v, mod)
	mask := new(big.Int).SetUint64(^uint64(0))
	tmp := new(big.Int).Set(u)
	limbs := make([]uint64, nLimbs)
	for i := 0; i < nLimbs; i++ {
		var limb big.Int
		limb.And(tmp, mask)
		limbs[i] = limb.Uint64()
		tmp.Rsh(tmp, 64)
	}
	return limbs
}

// leLimbsToBig is the inverse of bigToLELimbs, reconstructing a signed
// two's-complement value from its little-endian limbs.
func leLimbsToBig(limbs []uint64) *big.Int {
	u := new(big.Int)
	for i := len(limbs) - 1; i >= 0; i-- {
		u.Lsh(u, 64)
		u.Or(u, new(big.Int).SetUint64(limbs[i]))
	}
	bitWidth := uint(len(limbs) * 64)
	signBit := new(big.Int).Lsh(big.NewInt(1), bitWidth-1)
	if u.Cmp(signBit) >= 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), bitWidth)
		u.Sub(u, mod)
	}
	return u
}

// decimalScale reports 10^s as a big.Int, used to convert between a
// Decimal's raw scaled integer and a floating display value.
func decimalScale(s int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s)), nil)
}

// halfUpFromFloat64 rounds f*10^scale to the nearest integer, ties away
// from zero (§4.C: "Reader divides by 10^S with HALF_UP rounding"; the
// writer applies the same rule in reverse).
func halfUpFromFloat64(f float64, scale int) int64 {
	shifted := f * math.Pow10(scale)
	if shifted >= 0 {
		return int64(math.Floor(shifted + 0.5))
	}
	return int64(math.Ceil(shifted - 0.5))
}

// ColDecimal32 is a column of Decimal(P,S) with P<=9, backed by Int32.
type ColDecimal32 struct {
	Data  []int32
	Scale int
}

func (c ColDecimal32) Type() ColumnType { return ColumnTypeDecimal.With(itoa(9), itoa(c.Scale)) }
func (c ColDecimal32) Rows() int        { return len(c.Data) }
func (c *ColDecimal32) Reset()          { c.Data = c.Data[:0] }
func (c *ColDecimal32) Append(v int32)  { c.Data = append(c.Data, v) }
func (c *ColDecimal32) AppendZero()     { c.Data = append(c.Data, 0) }

// AppendFloat64 pushes f, scaled and HALF_UP rounded to the column's scale.
func (c *ColDecimal32) AppendFloat64(f float64) {
	c.Append(int32(halfUpFromFloat64(f, c.Scale)))
}

func (c ColDecimal32) Row(i int) int32 { return c.Data[i] }

// Float64 returns the i-th row divided by 10^Scale.
func (c ColDecimal32) Float64(i int) float64 {
	return float64(c.Data[i]) / math.Pow10(c.Scale)
}

func (c ColDecimal32) EncodeColumn(b *Buffer) {
	for _, v := range c.Data {
		b.PutInt32(v)
	}
}

func (c *ColDecimal32) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	out := make([]int32, rows)
	for i := range out {
		v, err := r.Int32()
		if err != nil {
			return errors.Wrapf(err, "decimal32 column: row %d", i)
		}
		out[i] = v
	}
	c.Data = out
	return nil
}

func (c ColDecimal32) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColDecimal64 is a column of Decimal(P,S) with 9<P<=18, backed by Int64.
type ColDecimal64 struct {
	Data  []int64
	Scale int
}

func (c ColDecimal64) Type() ColumnType { return ColumnTypeDecimal.With(itoa(18), itoa(c.Scale)) }
func (c ColDecimal64) Rows() int        { return len(c.Data) }
func (c *ColDecimal64) Reset()          { c.Data = c.Data[:0] }
func (c *ColDecimal64) Append(v int64)  { c.Data = append(c.Data, v) }
func (c *ColDecimal64) AppendZero()     { c.Data = append(c.Data, 0) }

func (c *ColDecimal64) AppendFloat64(f float64) {
	c.Append(halfUpFromFloat64(f, c.Scale))
}

func (c ColDecimal64) Row(i int) int64 { return c.Data[i] }

func (c ColDecimal64) Float64(i int) float64 {
	return float64(c.Data[i]) / math.Pow10(c.Scale)
}

func (c ColDecimal64) EncodeColumn(b *Buffer) {
	for _, v := range c.Data {
		b.PutInt64(v)
	}
}

func (c *ColDecimal64) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	out := make([]int64, rows)
	for i := range out {
		v, err := r.Int64()
		if err != nil {
			return errors.Wrapf(err, "decimal64 column: row %d", i)
		}
		out[i] = v
	}
	c.Data = out
	return nil
}

func (c ColDecimal64) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// colBigDecimal is the shared implementation for Decimal128/256: each row
// is a signed big.Int of raw scaled units, encoded as nLimbs little-endian
// 64-bit limbs.
type colBigDecimal struct {
	Data    []*big.Int
	Scale   int
	nLimbs  int
	typ     ColumnType
	maxBits int
}

func (c colBigDecimal) Type() ColumnType { return c.typ.With(itoa(c.maxBits), itoa(c.Scale)) }
func (c colBigDecimal) Rows() int        { return len(c.Data) }
func (c *colBigDecimal) Reset()          { c.Data = c.Data[:0] }
func (c *colBigDecimal) Append(v *big.Int) {
	c.Data = append(c.Data, new(big.Int).Set(v))
}

func (c *colBigDecimal) AppendZero() {
	c.Data = append(c.Data, new(big.Int))
}

func (c *colBigDecimal) AppendFloat64(f float64) {
	scale := decimalScale(c.Scale)
	v := new(big.Float).Mul(big.NewFloat(f), new(big.Float).SetInt(scale))
	rounded, _ := v.Int(nil)
	c.Append(rounded)
}

func (c colBigDecimal) Row(i int) *big.Int { return c.Data[i] }

func (c colBigDecimal) EncodeColumn(b *Buffer) {
	for _, v := range c.Data {
		for _, limb := range bigToLELimbs(v, c.nLimbs) {
			b.PutUInt64(limb)
		}
	}
}

func (c *colBigDecimal) decodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	out := make([]*big.Int, rows)
	limbs := make([]uint64, c.nLimbs)
	for i := range out {
		for j := 0; j < c.nLimbs; j++ {
			v, err := r.UInt64()
			if err != nil {
				return errors.Wrapf(err, "decimal column: row %d limb %d", i, j)
			}
			limbs[j] = v
		}
		out[i] = leLimbsToBig(limbs)
	}
	c.Data = out
	return nil
}

// ColDecimal128 is a column of Decimal(P,S) with 18<P<=38, backed by a
// 128-bit two's-complement integer transmitted as 2 little-endian limbs.
type ColDecimal128 struct{ colBigDecimal }

// NewDecimal128 returns an empty Decimal128(scale) column.
func NewDecimal128(scale int) *ColDecimal128 {
	return &ColDecimal128{colBigDecimal{Scale: scale, nLimbs: 2, typ: ColumnTypeDecimal, maxBits: 38}}
}

func (c *ColDecimal128) DecodeColumn(r *Reader, rows int) error {
	return c.decodeColumn(r, rows)
}

func (c ColDecimal128) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColDecimal256 is a column of Decimal(P,S) with 38<P<=76, backed by a
// 256-bit two's-complement integer transmitted as 4 little-endian limbs.
type ColDecimal256 struct{ colBigDecimal }

// NewDecimal256 returns an empty Decimal256(scale) column.
func NewDecimal256(scale int) *ColDecimal256 {
	return &ColDecimal256{colBigDecimal{Scale: scale, nLimbs: 4, typ: ColumnTypeDecimal, maxBits: 76}}
}

func (c *ColDecimal256) DecodeColumn(r *Reader, rows int) error {
	return c.decodeColumn(r, rows)
}

func (c ColDecimal256) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
