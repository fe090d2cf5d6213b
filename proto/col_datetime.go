package proto

import (
	"encoding/binary"
	"time"

	"github.com/go-faster/errors"
)

// ColDateTime is a column of DateTime('TZ'): UInt32 seconds since epoch
// (§4.C). The timezone parameter only annotates presentation; the wire
// value is always UTC seconds.
type ColDateTime struct {
	Data []uint32
	TZ   string
	loc  *time.Location
}

// WithTimezone annotates the column with tz for Type() and Row projection,
// parsing it once via time.LoadLocation.
func (c *ColDateTime) WithTimezone(tz string) *ColDateTime {
	c.TZ = tz
	if loc, err := time.LoadLocation(tz); err == nil {
		c.loc = loc
	}
	return c
}

func (c *ColDateTime) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c ColDateTime) Type() ColumnType {
	if c.TZ == "" {
		return ColumnTypeDateTime
	}
	return ColumnTypeDateTime.With("'" + c.TZ + "'")
}

func (c ColDateTime) Rows() int { return len(c.Data) }
func (c *ColDateTime) Reset()   { c.Data = c.Data[:0] }

// Append pushes v, truncated to whole seconds, as the next row.
func (c *ColDateTime) Append(v time.Time) {
	c.Data = append(c.Data, uint32(v.Unix()))
}

// AppendZero pushes the Unix epoch as the next row.
func (c *ColDateTime) AppendZero() { c.Data = append(c.Data, 0) }

// Row returns the i-th row projected into the column's timezone.
func (c ColDateTime) Row(i int) time.Time {
	return time.Unix(int64(c.Data[i]), 0).In(c.location())
}

func (c ColDateTime) EncodeColumn(b *Buffer) {
	for _, v := range c.Data {
		b.PutUInt32(v)
	}
}

func (c *ColDateTime) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*4)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "datetime column")
	}
	out := make([]uint32, rows)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	c.Data = out
	return nil
}

func (c ColDateTime) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
