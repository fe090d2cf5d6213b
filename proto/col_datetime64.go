package proto

import (
	"time"

	"github.com/go-faster/errors"
)

// pow10 returns 10^n for the small non-negative exponents DateTime64
// precisions use (0..9).
func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// ColDateTime64 is a column of DateTime64(P,'TZ'): Int64 ticks where one
// tick is 10^-P seconds (§4.C).
type ColDateTime64 struct {
	Data      []int64
	Precision int
	TZ        string
	loc       *time.Location
}

// NewDateTime64 returns an empty DateTime64(precision) column.
func NewDateTime64(precision int) *ColDateTime64 {
	return &ColDateTime64{Precision: precision}
}

// WithTimezone annotates the column with tz, as ColDateTime.WithTimezone.
func (c *ColDateTime64) WithTimezone(tz string) *ColDateTime64 {
	c.TZ = tz
	if loc, err := time.LoadLocation(tz); err == nil {
		c.loc = loc
	}
	return c
}

func (c *ColDateTime64) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c ColDateTime64) Type() ColumnType {
	p := itoa(c.Precision)
	if c.TZ == "" {
		return ColumnTypeDateTime64.With(p)
	}
	return ColumnTypeDateTime64.With(p, "'"+c.TZ+"'")
}

func (c ColDateTime64) Rows() int { return len(c.Data) }
func (c *ColDateTime64) Reset()   { c.Data = c.Data[:0] }

// Append pushes v, scaled to the column's precision, as the next row.
func (c *ColDateTime64) Append(v time.Time) {
	scale := pow10(c.Precision)
	ticks := v.Unix()*scale + int64(v.Nanosecond())/(int64(time.Second)/scale)
	c.Data = append(c.Data, ticks)
}

// AppendZero pushes the Unix epoch as the next row.
func (c *ColDateTime64) AppendZero() { c.Data = append(c.Data, 0) }

// Row returns the i-th row projected into the column's timezone.
func (c ColDateTime64) Row(i int) time.Time {
	scale := pow10(c.Precision)
	v := c.Data[i]
	sec := v / scale
	rem := v % scale
	nsec := rem * (int64(time.Second) / scale)
	return time.Unix(sec, nsec).In(c.location())
}

func (c ColDateTime64) EncodeColumn(b *Buffer) {
	for _, v := range c.Data {
		b.PutInt64(v)
	}
}

func (c *ColDateTime64) DecodeColumn(r *Reader, rows int) error {
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
			return errors.Wrapf(err, "datetime64 column: row %d", i)
		}
		out[i] = v
	}
	c.Data = out
	return nil
}

func (c ColDateTime64) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
