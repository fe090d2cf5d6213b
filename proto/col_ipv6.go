package proto

import (
	"net"

	"github.com/go-faster/errors"
)

// ColIPv6 is a column of IPv6: 16 raw bytes per row in standard network
// byte order, analogous to a fixed-width FixedString(16).
type ColIPv6 []net.IP

func (c ColIPv6) Type() ColumnType { return ColumnTypeIPv6 }
func (c ColIPv6) Rows() int        { return len(c) }
func (c *ColIPv6) Reset()          { *c = (*c)[:0] }

// Append pushes v, which must have a 16-byte representation.
func (c *ColIPv6) Append(v net.IP) error {
	v16 := v.To16()
	if v16 == nil {
		return errors.Errorf("ipv6 column: %s has no 16-byte representation", v)
	}
	*c = append(*c, v16)
	return nil
}

// AppendZero pushes the unspecified address (::) as the next row.
func (c *ColIPv6) AppendZero() { *c = append(*c, make(net.IP, 16)) }

func (c ColIPv6) Row(i int) net.IP { return c[i] }

func (c ColIPv6) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutRaw(v.To16())
	}
}

func (c *ColIPv6) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	buf := make([]byte, rows*16)
	if err := r.ReadFull(buf); err != nil {
		return errors.Wrap(err, "ipv6 column")
	}
	out := make([]net.IP, rows)
	for i := range out {
		ip := make(net.IP, 16)
		copy(ip, buf[i*16:(i+1)*16])
		out[i] = ip
	}
	*c = out
	return nil
}

func (c ColIPv6) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
