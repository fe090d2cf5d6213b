package proto

import "github.com/go-faster/errors"

// ColStr is a column of String: n length-prefixed UTF-8 values (§4.C).
// Bytes are returned exactly as read, with no UTF-8 validation or
// normalization, per §9's note that String columns carry arbitrary bytes.
type ColStr [][]byte

func (c ColStr) Type() ColumnType { return ColumnTypeString }
func (c ColStr) Rows() int        { return len(c) }
func (c *ColStr) Reset()          { *c = (*c)[:0] }

// Append pushes a string row, copying v's bytes into the column.
func (c *ColStr) Append(v string) {
	*c = append(*c, []byte(v))
}

// AppendBytes pushes a byte-slice row without a lossy string round-trip.
func (c *ColStr) AppendBytes(v []byte) {
	cp := append([]byte(nil), v...)
	*c = append(*c, cp)
}

// AppendZero pushes an empty string as the next row.
func (c *ColStr) AppendZero() { *c = append(*c, []byte{}) }

// Row returns the i-th row as a string (copying).
func (c ColStr) Row(i int) string { return string(c[i]) }

// RowBytes returns the i-th row's raw bytes without copying.
func (c ColStr) RowBytes(i int) []byte { return c[i] }

func (c ColStr) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutLen(len(v))
		b.PutRaw(v)
	}
}

func (c *ColStr) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	out := make([][]byte, rows)
	for i := 0; i < rows; i++ {
		v, err := r.StrBytes()
		if err != nil {
			return errors.Wrapf(err, "string column: row %d", i)
		}
		out[i] = v
	}
	*c = out
	return nil
}

func (c ColStr) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
