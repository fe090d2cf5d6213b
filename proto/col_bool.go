package proto

import "github.com/go-faster/errors"

// ColBool is a column of Bool: wire-identical to UInt8, 0 = false, any
// other byte = true on read, 0/1 on write.
type ColBool []bool

func (c ColBool) Type() ColumnType  { return ColumnTypeBool }
func (c ColBool) Rows() int         { return len(c) }
func (c *ColBool) Reset()           { *c = (*c)[:0] }
func (c *ColBool) Append(v bool)    { *c = append(*c, v) }
func (c *ColBool) AppendZero()      { *c = append(*c, false) }
func (c ColBool) Row(i int) bool    { return c[i] }

func (c ColBool) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutBool(v)
	}
}

func (c *ColBool) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "bool column")
	}
	out := make([]bool, rows)
	for i, v := range buf {
		out[i] = v != 0
	}
	*c = out
	return nil
}

func (c ColBool) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
