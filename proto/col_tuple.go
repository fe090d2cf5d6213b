package proto

import "github.com/go-faster/errors"

// ColTuple is a column of Tuple(T1,...,Tk): each sub-column serialized end
// to end, in declaration order, with no interleaving (§4.C). All
// sub-columns share the same row count.
type ColTuple []Columnar0

func (c ColTuple) Type() ColumnType {
	elems := make([]ColumnType, len(c))
	for i, e := range c {
		elems[i] = e.Type()
	}
	return ColumnTypeTuple.Sub(elems...)
}

func (c ColTuple) Rows() int {
	if len(c) == 0 {
		return 0
	}
	return c[0].Rows()
}

func (c ColTuple) Reset() {
	for _, e := range c {
		if r, ok := e.(Resettable); ok {
			r.Reset()
		}
	}
}

func (c ColTuple) EncodeColumn(b *Buffer) {
	for _, e := range c {
		e.EncodeColumn(b)
	}
}

func (c ColTuple) DecodeColumn(r *Reader, rows int) error {
	for i, e := range c {
		if err := e.DecodeColumn(r, rows); err != nil {
			return errors.Wrapf(err, "tuple column: element %d", i)
		}
	}
	return nil
}

func (c ColTuple) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
