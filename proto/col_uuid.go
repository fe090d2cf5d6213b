package proto

import (
	"encoding/binary"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ColUUID is a column of UUID: 16 raw bytes per row, transmitted as two
// little-endian UInt64 halves (high half first), matching ClickHouse's
// native UUID wire layout rather than RFC 4122's big-endian byte order.
type ColUUID []uuid.UUID

func (c ColUUID) Type() ColumnType { return ColumnTypeUUID }
func (c ColUUID) Rows() int        { return len(c) }
func (c *ColUUID) Reset()          { *c = (*c)[:0] }
func (c *ColUUID) Append(v uuid.UUID) { *c = append(*c, v) }
func (c *ColUUID) AppendZero()        { *c = append(*c, uuid.UUID{}) }
func (c ColUUID) Row(i int) uuid.UUID { return c[i] }

func (c ColUUID) EncodeColumn(b *Buffer) {
	for _, v := range c {
		hi := binary.BigEndian.Uint64(v[0:8])
		lo := binary.BigEndian.Uint64(v[8:16])
		b.PutUInt64(hi)
		b.PutUInt64(lo)
	}
}

func (c *ColUUID) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	out := make([]uuid.UUID, rows)
	for i := range out {
		hi, err := r.UInt64()
		if err != nil {
			return errors.Wrapf(err, "uuid column: row %d", i)
		}
		lo, err := r.UInt64()
		if err != nil {
			return errors.Wrapf(err, "uuid column: row %d", i)
		}
		var v uuid.UUID
		binary.BigEndian.PutUint64(v[0:8], hi)
		binary.BigEndian.PutUint64(v[8:16], lo)
		out[i] = v
	}
	*c = out
	return nil
}

func (c ColUUID) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
