package proto

import "github.com/go-faster/errors"

// Columnar is the subset of column behavior ColArr needs from its element
// column: typed row access plus bulk wire codec (§4.C Array framing).
type Columnar[T any] interface {
	ColumnOf[T]
	ColInput
	ColResult
}

// ColArr is a column of Array(T): cumulative UInt64 end-offsets followed by
// the flattened element column, per §4.C. Offsets[i] is the index one past
// the last element of row i; row i's elements span
// [Offsets[i-1]:Offsets[i]] (with an implicit 0 lower bound for row 0).
type ColArr[T any] struct {
	Data    Columnar[T]
	Offsets ColUInt64
}

// NewArr wraps data as an Array(T) column, data starting empty.
func NewArr[T any](data Columnar[T]) *ColArr[T] {
	return &ColArr[T]{Data: data}
}

func (c ColArr[T]) Type() ColumnType { return ColumnTypeArray.Sub(c.Data.Type()) }
func (c ColArr[T]) Rows() int        { return len(c.Offsets) }

// Reset truncates both the offsets and the underlying element column.
func (c *ColArr[T]) Reset() {
	c.Offsets = c.Offsets[:0]
	if r, ok := c.Data.(Resettable); ok {
		r.Reset()
	}
}

// Append pushes v as the next row, appending each element to Data in order.
func (c *ColArr[T]) Append(v []T) {
	for _, e := range v {
		c.Data.Append(e)
	}
	var base uint64
	if n := len(c.Offsets); n > 0 {
		base = c.Offsets[n-1]
	}
	c.Offsets = append(c.Offsets, base+uint64(len(v)))
}

// Row returns the i-th row's elements, copied out of Data.
func (c ColArr[T]) Row(i int) []T {
	start := 0
	if i > 0 {
		start = int(c.Offsets[i-1])
	}
	end := int(c.Offsets[i])
	out := make([]T, 0, end-start)
	for j := start; j < end; j++ {
		out = append(out, c.Data.Row(j))
	}
	return out
}

func (c ColArr[T]) EncodeColumn(b *Buffer) {
	c.Offsets.EncodeColumn(b)
	c.Data.EncodeColumn(b)
}

func (c *ColArr[T]) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	if err := c.Offsets.DecodeColumn(r, rows); err != nil {
		return errors.Wrap(err, "array offsets")
	}
	total := int(c.Offsets[rows-1])
	if err := c.Data.DecodeColumn(r, total); err != nil {
		return errors.Wrap(err, "array data")
	}
	return nil
}

func (c ColArr[T]) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColArrGeneric is the type-erased counterpart of ColArr[T], used where the
// element type is only known at runtime (§4.B's registry-driven type
// construction from a parsed type name, which Go generics cannot
// instantiate dynamically). Rows are not exposed typed; callers that need
// typed access build a ColArr[T] directly instead of going through the
// registry.
type ColArrGeneric struct {
	Data    Columnar0
	Offsets ColUInt64
}

func (c ColArrGeneric) Type() ColumnType { return ColumnTypeArray.Sub(c.Data.Type()) }
func (c ColArrGeneric) Rows() int        { return len(c.Offsets) }

func (c *ColArrGeneric) Reset() {
	c.Offsets = c.Offsets[:0]
	if r, ok := c.Data.(Resettable); ok {
		r.Reset()
	}
}

func (c ColArrGeneric) EncodeColumn(b *Buffer) {
	c.Offsets.EncodeColumn(b)
	c.Data.EncodeColumn(b)
}

func (c *ColArrGeneric) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	if err := c.Offsets.DecodeColumn(r, rows); err != nil {
		return errors.Wrap(err, "array offsets")
	}
	total := int(c.Offsets[rows-1])
	if err := c.Data.DecodeColumn(r, total); err != nil {
		return errors.Wrap(err, "array data")
	}
	return nil
}

func (c ColArrGeneric) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
