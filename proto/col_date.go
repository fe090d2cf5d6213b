package proto

import (
	"encoding/binary"
	"time"

	"github.com/go-faster/errors"
)

const secondsPerDay = 24 * 60 * 60

// ColDate is a column of Date: UInt16 days since 1970-01-01 UTC (§4.C). The
// column stores the raw unshifted day count; Row projects it into loc for
// display, defaulting to UTC when loc is nil.
type ColDate struct {
	Days []uint16
	loc  *time.Location
}

// WithLocation sets the timezone Row values are projected into; it does not
// change what is stored or written on the wire.
func (c *ColDate) WithLocation(loc *time.Location) *ColDate {
	c.loc = loc
	return c
}

func (c *ColDate) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c ColDate) Type() ColumnType { return ColumnTypeDate }
func (c ColDate) Rows() int        { return len(c.Days) }
func (c *ColDate) Reset()          { c.Days = c.Days[:0] }

// AppendDays pushes a day as the next row.
func (c *ColDate) AppendDays(v uint16) { c.Days = append(c.Days, v) }

// Append pushes v, truncated to a whole UTC day, as the next row.
func (c *ColDate) Append(v time.Time) {
	days := v.UTC().Unix() / secondsPerDay
	c.AppendDays(uint16(days))
}

// AppendZero pushes day zero (1970-01-01) as the next row.
func (c *ColDate) AppendZero() { c.AppendDays(0) }

// Row returns the i-th row projected into the column's location.
func (c ColDate) Row(i int) time.Time {
	return time.Unix(int64(c.Days[i])*secondsPerDay, 0).In(c.location())
}

func (c ColDate) EncodeColumn(b *Buffer) {
	for _, v := range c.Days {
		b.PutUInt16(v)
	}
}

func (c *ColDate) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*2)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "date column")
	}
	out := make([]uint16, rows)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(buf[i*2:])
	}
	c.Days = out
	return nil
}

func (c ColDate) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
