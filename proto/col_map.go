package proto

import "github.com/go-faster/errors"

// ColMap is a column of Map(K,V): identical wire framing to
// Array(Tuple(K,V)) (§4.C) — cumulative UInt64 end-offsets followed by the
// flattened key and value columns, each of length offsets[n-1].
type ColMap struct {
	Keys    Columnar0
	Values  Columnar0
	Offsets ColUInt64
}

// NewMap wraps keys/values as Map(K,V), starting empty.
func NewMap(keys, values Columnar0) *ColMap {
	return &ColMap{Keys: keys, Values: values}
}

func (c ColMap) Type() ColumnType {
	return ColumnTypeMap.Sub(c.Keys.Type(), c.Values.Type())
}

func (c ColMap) Rows() int { return len(c.Offsets) }

func (c *ColMap) Reset() {
	c.Offsets = c.Offsets[:0]
	if r, ok := c.Keys.(Resettable); ok {
		r.Reset()
	}
	if r, ok := c.Values.(Resettable); ok {
		r.Reset()
	}
}

// AppendEntries records the next row as having n key/value pairs; callers
// append n rows to Keys and Values themselves beforehand.
func (c *ColMap) AppendEntries(n int) {
	var base uint64
	if k := len(c.Offsets); k > 0 {
		base = c.Offsets[k-1]
	}
	c.Offsets = append(c.Offsets, base+uint64(n))
}

func (c ColMap) EncodeColumn(b *Buffer) {
	c.Offsets.EncodeColumn(b)
	c.Keys.EncodeColumn(b)
	c.Values.EncodeColumn(b)
}

func (c *ColMap) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	if err := c.Offsets.DecodeColumn(r, rows); err != nil {
		return errors.Wrap(err, "map offsets")
	}
	total := int(c.Offsets[rows-1])
	if err := c.Keys.DecodeColumn(r, total); err != nil {
		return errors.Wrap(err, "map keys")
	}
	if err := c.Values.DecodeColumn(r, total); err != nil {
		return errors.Wrap(err, "map values")
	}
	return nil
}

func (c ColMap) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
