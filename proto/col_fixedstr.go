package proto

import "github.com/go-faster/errors"

// ColFixedStr is a column of FixedString(N): n·N raw bytes, right-padded
// with zeros on write, never auto-trimmed on read (§4.C: "reader returns
// trimmed-on-demand"). Size is fixed for the lifetime of the column.
type ColFixedStr struct {
	Size int
	data []byte
}

// NewFixedStr creates an empty FixedString(size) column.
func NewFixedStr(size int) *ColFixedStr { return &ColFixedStr{Size: size} }

func (c ColFixedStr) Type() ColumnType { return ColumnTypeFixedString.With(itoa(c.Size)) }

func (c ColFixedStr) Rows() int {
	if c.Size == 0 {
		return 0
	}
	return len(c.data) / c.Size
}

func (c *ColFixedStr) Reset() { c.data = c.data[:0] }

// Append pushes v, right-padded with zero bytes to Size. It is an error
// for v to be longer than Size.
func (c *ColFixedStr) Append(v []byte) error {
	if len(v) > c.Size {
		return errors.Errorf("fixed string: value of %d bytes exceeds size %d", len(v), c.Size)
	}
	start := len(c.data)
	c.data = append(c.data, make([]byte, c.Size)...)
	copy(c.data[start:], v)
	return nil
}

// AppendZero pushes an all-zero Size-byte row.
func (c *ColFixedStr) AppendZero() {
	c.data = append(c.data, make([]byte, c.Size)...)
}

// Row returns the raw Size-byte slice for row i, including any zero
// padding; it aliases the column's backing array.
func (c ColFixedStr) Row(i int) []byte {
	return c.data[i*c.Size : (i+1)*c.Size]
}

// RowTrimmed returns row i with trailing zero bytes stripped.
func (c ColFixedStr) RowTrimmed(i int) []byte {
	v := c.Row(i)
	n := len(v)
	for n > 0 && v[n-1] == 0 {
		n--
	}
	return v[:n]
}

func (c ColFixedStr) EncodeColumn(b *Buffer) {
	b.PutRaw(c.data)
}

func (c *ColFixedStr) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*c.Size)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "fixed string column")
	}
	c.data = buf
	return nil
}

func (c ColFixedStr) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
