package proto

import (
	"encoding/binary"
	"math"

	"github.com/go-faster/errors"
)

// Numeric columns (§4.C: "Integers UInt8/16/32/64, Int8/16/32/64", and
// Float32/64) all share the same wire shape — n elements back-to-back, raw
// little-endian, no framing — so each type below is a thin named-slice
// wrapper differing only in element width and ColumnType.

// ColUInt8 is a column of UInt8.
type ColUInt8 []uint8

func (c ColUInt8) Type() ColumnType { return ColumnTypeUInt8 }
func (c ColUInt8) Rows() int        { return len(c) }
func (c *ColUInt8) Reset()          { *c = (*c)[:0] }
func (c *ColUInt8) Append(v uint8)  { *c = append(*c, v) }
func (c *ColUInt8) AppendZero()     { *c = append(*c, 0) }
func (c ColUInt8) Row(i int) uint8  { return c[i] }

func (c ColUInt8) EncodeColumn(b *Buffer) {
	b.Buf = append(b.Buf, c...)
}

func (c *ColUInt8) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	*c = append((*c)[:0], make([]uint8, rows)...)
	if err := r.ReadFull(*c); err != nil {
		return errors.Wrap(err, "uint8 column")
	}
	return nil
}

func (c ColUInt8) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColInt8 is a column of Int8.
type ColInt8 []int8

func (c ColInt8) Type() ColumnType { return ColumnTypeInt8 }
func (c ColInt8) Rows() int        { return len(c) }
func (c *ColInt8) Reset()          { *c = (*c)[:0] }
func (c *ColInt8) Append(v int8)   { *c = append(*c, v) }
func (c *ColInt8) AppendZero()     { *c = append(*c, 0) }
func (c ColInt8) Row(i int) int8   { return c[i] }

func (c ColInt8) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutByte(byte(v))
	}
}

func (c *ColInt8) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "int8 column")
	}
	out := make([]int8, rows)
	for i, v := range buf {
		out[i] = int8(v)
	}
	*c = out
	return nil
}

func (c ColInt8) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// The remaining fixed-width little-endian column types below repeat the
// same shape by hand, one block per width.

// ColUInt16 is a column of UInt16.
type ColUInt16 []uint16

func (c ColUInt16) Type() ColumnType { return ColumnTypeUInt16 }
func (c ColUInt16) Rows() int        { return len(c) }
func (c *ColUInt16) Reset()          { *c = (*c)[:0] }
func (c *ColUInt16) Append(v uint16) { *c = append(*c, v) }
func (c *ColUInt16) AppendZero()     { *c = append(*c, 0) }
func (c ColUInt16) Row(i int) uint16 { return c[i] }

func (c ColUInt16) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutUInt16(v)
	}
}

func (c *ColUInt16) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*2)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "uint16 column")
	}
	out := make([]uint16, rows)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(buf[i*2:])
	}
	*c = out
	return nil
}

func (c ColUInt16) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColInt16 is a column of Int16.
type ColInt16 []int16

func (c ColInt16) Type() ColumnType { return ColumnTypeInt16 }
func (c ColInt16) Rows() int        { return len(c) }
func (c *ColInt16) Reset()          { *c = (*c)[:0] }
func (c *ColInt16) Append(v int16)  { *c = append(*c, v) }
func (c *ColInt16) AppendZero()     { *c = append(*c, 0) }
func (c ColInt16) Row(i int) int16  { return c[i] }

func (c ColInt16) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutInt16(v)
	}
}

func (c *ColInt16) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*2)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "int16 column")
	}
	out := make([]int16, rows)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	*c = out
	return nil
}

func (c ColInt16) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColUInt32 is a column of UInt32.
type ColUInt32 []uint32

func (c ColUInt32) Type() ColumnType { return ColumnTypeUInt32 }
func (c ColUInt32) Rows() int        { return len(c) }
func (c *ColUInt32) Reset()          { *c = (*c)[:0] }
func (c *ColUInt32) Append(v uint32) { *c = append(*c, v) }
func (c *ColUInt32) AppendZero()     { *c = append(*c, 0) }
func (c ColUInt32) Row(i int) uint32 { return c[i] }

func (c ColUInt32) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutUInt32(v)
	}
}

func (c *ColUInt32) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*4)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "uint32 column")
	}
	out := make([]uint32, rows)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	*c = out
	return nil
}

func (c ColUInt32) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColInt32 is a column of Int32.
type ColInt32 []int32

func (c ColInt32) Type() ColumnType { return ColumnTypeInt32 }
func (c ColInt32) Rows() int        { return len(c) }
func (c *ColInt32) Reset()          { *c = (*c)[:0] }
func (c *ColInt32) Append(v int32)  { *c = append(*c, v) }
func (c *ColInt32) AppendZero()     { *c = append(*c, 0) }
func (c ColInt32) Row(i int) int32  { return c[i] }

func (c ColInt32) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutInt32(v)
	}
}

func (c *ColInt32) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*4)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "int32 column")
	}
	out := make([]int32, rows)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	*c = out
	return nil
}

func (c ColInt32) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColUInt64 is a column of UInt64.
type ColUInt64 []uint64

func (c ColUInt64) Type() ColumnType { return ColumnTypeUInt64 }
func (c ColUInt64) Rows() int        { return len(c) }
func (c *ColUInt64) Reset()          { *c = (*c)[:0] }
func (c *ColUInt64) Append(v uint64) { *c = append(*c, v) }
func (c *ColUInt64) AppendZero()     { *c = append(*c, 0) }
func (c ColUInt64) Row(i int) uint64 { return c[i] }

func (c ColUInt64) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutUInt64(v)
	}
}

func (c *ColUInt64) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*8)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "uint64 column")
	}
	out := make([]uint64, rows)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	*c = out
	return nil
}

func (c ColUInt64) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColInt64 is a column of Int64.
type ColInt64 []int64

func (c ColInt64) Type() ColumnType { return ColumnTypeInt64 }
func (c ColInt64) Rows() int        { return len(c) }
func (c *ColInt64) Reset()          { *c = (*c)[:0] }
func (c *ColInt64) Append(v int64)  { *c = append(*c, v) }
func (c *ColInt64) AppendZero()     { *c = append(*c, 0) }
func (c ColInt64) Row(i int) int64  { return c[i] }

func (c ColInt64) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutInt64(v)
	}
}

func (c *ColInt64) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*8)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "int64 column")
	}
	out := make([]int64, rows)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	*c = out
	return nil
}

func (c ColInt64) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColFloat32 is a column of Float32.
type ColFloat32 []float32

func (c ColFloat32) Type() ColumnType { return ColumnTypeFloat32 }
func (c ColFloat32) Rows() int        { return len(c) }
func (c *ColFloat32) Reset()          { *c = (*c)[:0] }
func (c *ColFloat32) Append(v float32) { *c = append(*c, v) }
func (c *ColFloat32) AppendZero()      { *c = append(*c, 0) }
func (c ColFloat32) Row(i int) float32 { return c[i] }

func (c ColFloat32) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutFloat32(v)
	}
}

func (c *ColFloat32) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*4)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "float32 column")
	}
	out := make([]float32, rows)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	*c = out
	return nil
}

func (c ColFloat32) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColFloat64 is a column of Float64.
type ColFloat64 []float64

func (c ColFloat64) Type() ColumnType { return ColumnTypeFloat64 }
func (c ColFloat64) Rows() int        { return len(c) }
func (c *ColFloat64) Reset()          { *c = (*c)[:0] }
func (c *ColFloat64) Append(v float64) { *c = append(*c, v) }
func (c *ColFloat64) AppendZero()      { *c = append(*c, 0) }
func (c ColFloat64) Row(i int) float64 { return c[i] }

func (c ColFloat64) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutFloat64(v)
	}
}

func (c *ColFloat64) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*8)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "float64 column")
	}
	out := make([]float64, rows)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	*c = out
	return nil
}

func (c ColFloat64) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
