package proto

import "github.com/go-faster/errors"

// ColNullable is a column of Nullable(T): a byte null-map of length n (1 =
// null) followed by the inner column serialized for all n rows, including
// nulls, which carry the inner type's default placeholder value (§4.C).
type ColNullable struct {
	Values Columnar0
	Nulls  ColUInt8
}

// Columnar0 is the element-agnostic half of Columnar: the parts ColNullable
// needs without committing to a Go element type, since Nullable(T) wraps
// columns of every kind the type parser allows inside Nullable (every
// scalar; Array/Map/Tuple/LowCardinality are rejected by validateComposition
// before a ColNullable is ever built around them).
type Columnar0 interface {
	Column
	ColInput
	ColResult
	// AppendZero pushes the inner type's zero value as the next row,
	// keeping Values the same length as Nulls for a null row (§4.C: the
	// inner column is fully materialized, including placeholder values at
	// null positions).
	AppendZero()
}

// NewNullable wraps values as Nullable(T).
func NewNullable(values Columnar0) *ColNullable {
	return &ColNullable{Values: values}
}

func (c ColNullable) Type() ColumnType { return ColumnTypeNullable.Sub(c.Values.Type()) }
func (c ColNullable) Rows() int        { return len(c.Nulls) }

func (c *ColNullable) Reset() {
	c.Nulls = c.Nulls[:0]
	if r, ok := c.Values.(Resettable); ok {
		r.Reset()
	}
}

// AppendNull pushes a null row, still writing the inner type's zero value
// so the flattened inner column keeps the same length as Nulls.
func (c *ColNullable) AppendNull() {
	c.Values.AppendZero()
	c.Nulls.Append(1)
}

// NullsNone marks the most recently appended inner row as non-null. Callers
// append the inner value to Values themselves, then call this.
func (c *ColNullable) NullsNone() {
	c.Nulls.Append(0)
}

// RowNull reports whether row i is null.
func (c ColNullable) RowNull(i int) bool { return c.Nulls[i] != 0 }

func (c ColNullable) EncodeColumn(b *Buffer) {
	c.Nulls.EncodeColumn(b)
	c.Values.EncodeColumn(b)
}

func (c *ColNullable) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	if err := c.Nulls.DecodeColumn(r, rows); err != nil {
		return errors.Wrap(err, "nullable null-map")
	}
	if err := c.Values.DecodeColumn(r, rows); err != nil {
		return errors.Wrap(err, "nullable values")
	}
	return nil
}

func (c ColNullable) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
