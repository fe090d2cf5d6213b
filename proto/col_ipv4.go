package proto

import (
	"encoding/binary"
	"net"

	"github.com/go-faster/errors"
)

// ColIPv4 is a column of IPv4: a UInt32 wire payload whose numeric value is
// the usual dotted-decimal-as-integer reading of the address, little-endian
// on the wire like any other UInt32 (§4.C's type list is supplemented with
// IPv4/IPv6, present in the real protocol family).
type ColIPv4 []net.IP

func (c ColIPv4) Type() ColumnType { return ColumnTypeIPv4 }
func (c ColIPv4) Rows() int        { return len(c) }
func (c *ColIPv4) Reset()          { *c = (*c)[:0] }

// Append pushes v, which must be a 4-byte (or 4-in-16) IPv4 address.
func (c *ColIPv4) Append(v net.IP) error {
	if v4 := v.To4(); v4 != nil {
		*c = append(*c, v4)
		return nil
	}
	return errors.Errorf("ipv4 column: %s is not an IPv4 address", v)
}

// AppendZero pushes 0.0.0.0 as the next row.
func (c *ColIPv4) AppendZero() { *c = append(*c, make(net.IP, 4)) }

func (c ColIPv4) Row(i int) net.IP { return c[i] }

func (c ColIPv4) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutUInt32(binary.BigEndian.Uint32(v.To4()))
	}
}

func (c *ColIPv4) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	out := make([]net.IP, rows)
	for i := range out {
		v, err := r.UInt32()
		if err != nil {
			return errors.Wrapf(err, "ipv4 column: row %d", i)
		}
		ip := make(net.IP, 4)
		binary.BigEndian.PutUint32(ip, v)
		out[i] = ip
	}
	*c = out
	return nil
}

func (c ColIPv4) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
