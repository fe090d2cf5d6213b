package proto

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// enumEntry is one `'name' = value` pair of an Enum8/16 literal table.
type enumEntry struct {
	Name  string
	Value int16
}

// parseEnumLiteral parses the comma-separated `'name' = value` argument list
// of an Enum8(...)/Enum16(...) type (§3: "enum value<->name table").
func parseEnumLiteral(args []string) ([]enumEntry, error) {
	out := make([]enumEntry, 0, len(args))
	for _, a := range args {
		a = strings.TrimSpace(a)
		eq := strings.LastIndexByte(a, '=')
		if eq < 0 {
			return nil, errors.Errorf("enum literal: malformed entry %q", a)
		}
		name := unquote(strings.TrimSpace(a[:eq]))
		n, err := strconv.ParseInt(strings.TrimSpace(a[eq+1:]), 10, 32)
		if err != nil {
			return nil, errors.Wrap(err, "enum literal value")
		}
		out = append(out, enumEntry{Name: name, Value: int16(n)})
	}
	return out, nil
}

func renderEnumLiteral(entries []enumEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = "'" + e.Name + "' = " + itoa(int(e.Value))
	}
	return strings.Join(parts, ", ")
}

// enumTable is the client-side name<->value lookup table shared by Enum8
// and Enum16; the wire payload is always the underlying signed integer.
type enumTable struct {
	byValue map[int16]string
	byName  map[string]int16
	entries []enumEntry
}

func newEnumTable(entries []enumEntry) *enumTable {
	t := &enumTable{
		byValue: make(map[int16]string, len(entries)),
		byName:  make(map[string]int16, len(entries)),
		entries: entries,
	}
	for _, e := range entries {
		t.byValue[e.Value] = e.Name
		t.byName[e.Name] = e.Value
	}
	return t
}

func (t *enumTable) name(v int16) string {
	if n, ok := t.byValue[v]; ok {
		return n
	}
	return ""
}

func (t *enumTable) value(name string) (int16, error) {
	v, ok := t.byName[name]
	if !ok {
		return 0, errors.Errorf("enum: unknown name %q", name)
	}
	return v, nil
}

// ColEnum8 is a column of Enum8(...): an Int8 wire payload with a
// client-side name table.
type ColEnum8 struct {
	Data  []int8
	table *enumTable
}

// NewEnum8 builds an Enum8 column from its literal table argument strings.
func NewEnum8(args []string) (*ColEnum8, error) {
	entries, err := parseEnumLiteral(args)
	if err != nil {
		return nil, err
	}
	return &ColEnum8{table: newEnumTable(entries)}, nil
}

func (c ColEnum8) Type() ColumnType {
	return ColumnTypeEnum8.With(renderEnumLiteral(c.table.entries))
}
func (c ColEnum8) Rows() int       { return len(c.Data) }
func (c *ColEnum8) Reset()         { c.Data = c.Data[:0] }
func (c *ColEnum8) Append(v int8)  { c.Data = append(c.Data, v) }
func (c *ColEnum8) AppendZero()    { c.Data = append(c.Data, 0) }
func (c ColEnum8) Row(i int) int8  { return c.Data[i] }

// Name returns row i's symbolic name, or "" if the value has none.
func (c ColEnum8) Name(i int) string { return c.table.name(c.Data[i]) }

// AppendName pushes the value named name as the next row.
func (c *ColEnum8) AppendName(name string) error {
	v, err := c.table.value(name)
	if err != nil {
		return err
	}
	c.Append(int8(v))
	return nil
}

func (c ColEnum8) EncodeColumn(b *Buffer) {
	for _, v := range c.Data {
		b.PutInt8(v)
	}
}

func (c *ColEnum8) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	out := make([]int8, rows)
	for i := range out {
		v, err := r.Int8()
		if err != nil {
			return errors.Wrapf(err, "enum8 column: row %d", i)
		}
		out[i] = v
	}
	c.Data = out
	return nil
}

func (c ColEnum8) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

// ColEnum16 is a column of Enum16(...): an Int16 wire payload with a
// client-side name table.
type ColEnum16 struct {
	Data  []int16
	table *enumTable
}

// NewEnum16 builds an Enum16 column from its literal table argument strings.
func NewEnum16(args []string) (*ColEnum16, error) {
	entries, err := parseEnumLiteral(args)
	if err != nil {
		return nil, err
	}
	return &ColEnum16{table: newEnumTable(entries)}, nil
}

func (c ColEnum16) Type() ColumnType {
	return ColumnTypeEnum16.With(renderEnumLiteral(c.table.entries))
}
func (c ColEnum16) Rows() int        { return len(c.Data) }
func (c *ColEnum16) Reset()          { c.Data = c.Data[:0] }
func (c *ColEnum16) Append(v int16)  { c.Data = append(c.Data, v) }
func (c *ColEnum16) AppendZero()     { c.Data = append(c.Data, 0) }
func (c ColEnum16) Row(i int) int16  { return c.Data[i] }

func (c ColEnum16) Name(i int) string { return c.table.name(c.Data[i]) }

func (c *ColEnum16) AppendName(name string) error {
	v, err := c.table.value(name)
	if err != nil {
		return err
	}
	c.Append(v)
	return nil
}

func (c ColEnum16) EncodeColumn(b *Buffer) {
	for _, v := range c.Data {
		b.PutInt16(v)
	}
}

func (c *ColEnum16) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	if err := checkRows(rows); err != nil {
		return err
	}
	out := make([]int16, rows)
	for i := range out {
		v, err := r.Int16()
		if err != nil {
			return errors.Wrapf(err, "enum16 column: row %d", i)
		}
		out[i] = v
	}
	c.Data = out
	return nil
}

func (c ColEnum16) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }
