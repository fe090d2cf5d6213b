package proto

import (
	"net"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// BlockInfo is the Block Settings header (§3): a small fixed set of
// optional fields serialized as (field-number varint, value) pairs
// terminated by field number 0, the format the server itself uses.
type BlockInfo struct {
	IsOverflows bool
	// BucketNum defaults to -1, meaning "not a two-level aggregation
	// bucket"; a real bucket number is only meaningful mid-GROUP BY.
	BucketNum int32
}

const (
	blockInfoFieldOverflows = 1
	blockInfoFieldBucketNum = 2
)

// EncodeAware writes i, ignoring revision: BlockInfo has been part of every
// revision this driver negotiates.
func (i BlockInfo) EncodeAware(b *Buffer, revision int) {
	b.PutUVarInt(blockInfoFieldOverflows)
	b.PutBool(i.IsOverflows)
	b.PutUVarInt(blockInfoFieldBucketNum)
	b.PutInt32(i.BucketNum)
	b.PutUVarInt(0)
}

// DecodeAware reads i, defaulting BucketNum to -1 per §3.
func (i *BlockInfo) DecodeAware(r *Reader, revision int) error {
	i.BucketNum = -1
	for {
		field, err := r.UVarInt()
		if err != nil {
			return errors.Wrap(err, "field")
		}
		switch field {
		case 0:
			return nil
		case blockInfoFieldOverflows:
			v, err := r.Bool()
			if err != nil {
				return errors.Wrap(err, "is_overflows")
			}
			i.IsOverflows = v
		case blockInfoFieldBucketNum:
			v, err := r.Int32()
			if err != nil {
				return errors.Wrap(err, "bucket_num")
			}
			i.BucketNum = v
		default:
			return errors.Errorf("block info: unknown field %d", field)
		}
	}
}

// InputColumn is one named column of query input (INSERT values or query
// parameters), paired with its bulk-encodable data.
type InputColumn struct {
	Name string
	Data ColInput
}

// Input is an ordered set of InputColumns sharing one row count, fully
// materialized by the caller before a block is written.
type Input []InputColumn

// ResultColumn is one named column of query output, paired with its
// bulk-decodable destination.
type ResultColumn struct {
	Name string
	Data ColResult
}

// Result is an ordered set of ResultColumns a caller expects a Data block
// to match positionally.
type Result []ResultColumn

// Block is an ordered tuple of columns sharing one row count, per §3. The
// columns themselves live in the Input/Result slice passed to
// EncodeBlock/DecodeBlock; Block only tracks the shared shape.
type Block struct {
	Info    BlockInfo
	Columns int
	Rows    int
}

// End reports whether this is the zero-column, zero-row block ClickHouse
// uses to mark "no more data" (an external table's trailing empty Data
// packet, or a blank block before streaming begins).
func (b Block) End() bool { return b.Columns == 0 && b.Rows == 0 }

// EncodeBlock serializes input into buf: info header, column/row counts,
// then each column's name, type, optional state prefix, and data in turn.
// A nil or empty input encodes the special all-zero "blank block".
func (b *Block) EncodeBlock(buf *Buffer, revision int, input []InputColumn) error {
	b.Info.EncodeAware(buf, revision)

	rows := 0
	if len(input) > 0 {
		rows = input[0].Data.Rows()
	}
	buf.PutUVarInt(uint64(len(input)))
	buf.PutUVarInt(uint64(rows))

	for _, col := range input {
		if n := col.Data.Rows(); n != rows {
			return errors.Errorf("column %q: %d rows, want %d", col.Name, n, rows)
		}
		buf.PutString(col.Name)
		buf.PutString(string(col.Data.Type()))
		if FeatureColumnsInDefineColumns.In(revision) {
			// No column ever requests the server's "custom serialization"
			// path (sparse columns); always declare the default.
			buf.PutBool(false)
		}
		if p, ok := col.Data.(Preparable); ok {
			if err := p.Prepare(); err != nil {
				return errors.Wrapf(err, "column %q: prepare", col.Name)
			}
		}
		if s, ok := col.Data.(StateEncoder); ok {
			s.EncodeState(buf)
		}
		col.Data.EncodeColumn(buf)
	}

	b.Columns = len(input)
	b.Rows = rows
	return nil
}

// WriteBlock stages EncodeBlock's output directly into w.
func (b *Block) WriteBlock(w *Writer, revision int, input []InputColumn) error {
	var encErr error
	w.ChainBuffer(func(buf *Buffer) {
		encErr = b.EncodeBlock(buf, revision, input)
	})
	return encErr
}

// DecodeBlock reads a Data block from r into result, matching columns
// positionally: result must have exactly as many columns as the block
// header declares once the block is non-blank.
func (b *Block) DecodeBlock(r *Reader, revision int, result Result) error {
	if err := b.Info.DecodeAware(r, revision); err != nil {
		return errors.Wrap(err, "info")
	}

	columns, err := r.UVarInt()
	if err != nil {
		return errors.Wrap(err, "columns")
	}
	rows, err := r.UVarInt()
	if err != nil {
		return errors.Wrap(err, "rows")
	}
	if err := checkRows(int(rows)); err != nil {
		return errors.Wrap(err, "rows")
	}
	b.Columns = int(columns)
	b.Rows = int(rows)
	if b.Columns == 0 {
		return nil
	}
	if len(result) != b.Columns {
		return errors.Errorf("block: got %d columns, result expects %d", b.Columns, len(result))
	}

	for i := 0; i < b.Columns; i++ {
		name, err := r.Str()
		if err != nil {
			return errors.Wrapf(err, "column %d: name", i)
		}
		if _, err := r.Str(); err != nil { // wire type; trusted caller already knows it
			return errors.Wrapf(err, "column %d: type", i)
		}
		if FeatureColumnsInDefineColumns.In(revision) {
			if _, err := r.Bool(); err != nil {
				return errors.Wrapf(err, "column %d: custom serialization flag", i)
			}
		}

		col := result[i]
		if col.Name != "" && col.Name != name {
			return errors.Errorf("column %d: got %q, want %q", i, name, col.Name)
		}
		if s, ok := col.Data.(StateDecoder); ok {
			if err := s.DecodeState(r); err != nil {
				return errors.Wrapf(err, "column %d %q: state", i, name)
			}
		}
		if err := col.Data.DecodeColumn(r, b.Rows); err != nil {
			return errors.Wrapf(err, "column %d %q", i, name)
		}
	}
	return nil
}

// appendBoxed converts v to col's row type and appends it, or reports a
// conversion error. Covers the scalar kinds ClickHouse query parameters
// and prepared-statement constants actually bind; composite kinds (Array,
// Map, Tuple, Nullable, LowCardinality) are not valid placeholder/const
// targets in ClickHouse itself, so they are not handled here.
func appendBoxed(col ColInput, v any) error {
	switch c := col.(type) {
	case *ColInt8:
		x, ok := v.(int8)
		if !ok {
			return errors.Errorf("expected int8, got %T", v)
		}
		c.Append(x)
	case *ColUInt8:
		x, ok := v.(uint8)
		if !ok {
			return errors.Errorf("expected uint8, got %T", v)
		}
		c.Append(x)
	case *ColInt16:
		x, ok := v.(int16)
		if !ok {
			return errors.Errorf("expected int16, got %T", v)
		}
		c.Append(x)
	case *ColUInt16:
		x, ok := v.(uint16)
		if !ok {
			return errors.Errorf("expected uint16, got %T", v)
		}
		c.Append(x)
	case *ColInt32:
		x, ok := v.(int32)
		if !ok {
			return errors.Errorf("expected int32, got %T", v)
		}
		c.Append(x)
	case *ColUInt32:
		x, ok := v.(uint32)
		if !ok {
			return errors.Errorf("expected uint32, got %T", v)
		}
		c.Append(x)
	case *ColInt64:
		x, ok := v.(int64)
		if !ok {
			return errors.Errorf("expected int64, got %T", v)
		}
		c.Append(x)
	case *ColUInt64:
		x, ok := v.(uint64)
		if !ok {
			return errors.Errorf("expected uint64, got %T", v)
		}
		c.Append(x)
	case *ColFloat32:
		x, ok := v.(float32)
		if !ok {
			return errors.Errorf("expected float32, got %T", v)
		}
		c.Append(x)
	case *ColFloat64:
		x, ok := v.(float64)
		if !ok {
			return errors.Errorf("expected float64, got %T", v)
		}
		c.Append(x)
	case *ColBool:
		x, ok := v.(bool)
		if !ok {
			return errors.Errorf("expected bool, got %T", v)
		}
		c.Append(x)
	case *ColStr:
		x, ok := v.(string)
		if !ok {
			return errors.Errorf("expected string, got %T", v)
		}
		c.Append(x)
	case *ColDate:
		x, ok := v.(time.Time)
		if !ok {
			return errors.Errorf("expected time.Time, got %T", v)
		}
		c.Append(x)
	case *ColDateTime:
		x, ok := v.(time.Time)
		if !ok {
			return errors.Errorf("expected time.Time, got %T", v)
		}
		c.Append(x)
	case *ColDateTime64:
		x, ok := v.(time.Time)
		if !ok {
			return errors.Errorf("expected time.Time, got %T", v)
		}
		c.Append(x)
	case *ColDecimal32:
		x, ok := v.(float64)
		if !ok {
			return errors.Errorf("expected float64, got %T", v)
		}
		c.AppendFloat64(x)
	case *ColDecimal64:
		x, ok := v.(float64)
		if !ok {
			return errors.Errorf("expected float64, got %T", v)
		}
		c.AppendFloat64(x)
	case *ColDecimal128:
		x, ok := v.(float64)
		if !ok {
			return errors.Errorf("expected float64, got %T", v)
		}
		c.AppendFloat64(x)
	case *ColDecimal256:
		x, ok := v.(float64)
		if !ok {
			return errors.Errorf("expected float64, got %T", v)
		}
		c.AppendFloat64(x)
	case *ColUUID:
		x, ok := v.(uuid.UUID)
		if !ok {
			return errors.Errorf("expected uuid.UUID, got %T", v)
		}
		c.Append(x)
	case *ColIPv4:
		x, ok := v.(net.IP)
		if !ok {
			return errors.Errorf("expected net.IP, got %T", v)
		}
		return c.Append(x)
	case *ColIPv6:
		x, ok := v.(net.IP)
		if !ok {
			return errors.Errorf("expected net.IP, got %T", v)
		}
		return c.Append(x)
	case *ColEnum8:
		switch x := v.(type) {
		case string:
			return c.AppendName(x)
		case int8:
			c.Append(x)
		default:
			return errors.Errorf("expected string or int8, got %T", v)
		}
	case *ColEnum16:
		switch x := v.(type) {
		case string:
			return c.AppendName(x)
		case int16:
			c.Append(x)
		default:
			return errors.Errorf("expected string or int16, got %T", v)
		}
	default:
		return errors.Errorf("column type %T: no placeholder/const binding support", col)
	}
	return nil
}

// ParamBlock is a Block built incrementally, row by row, with some column
// positions bound once as constants and the rest addressed positionally
// as placeholders that shift past bound columns (§3, §9's placeholder
// shift note). It is the prepared-statement counterpart of Input, which
// instead requires the whole column already materialized.
type ParamBlock struct {
	Columns Input

	staging            []any
	placeholderIndexes []int
	rowCount           int
	poisoned           bool
}

// NewParamBlock returns a ParamBlock over cols, with every column position
// addressable as a placeholder (the identity permutation).
func NewParamBlock(cols Input) *ParamBlock {
	idx := make([]int, len(cols))
	for i := range idx {
		idx[i] = i
	}
	return &ParamBlock{
		Columns:            cols,
		staging:            make([]any, len(cols)),
		placeholderIndexes: idx,
	}
}

// SetConst binds v as columnIdx's value for every future AppendRow, and
// shifts placeholderIndexes[columnIdx:] by +1 so subsequent SetPlaceholder
// calls skip this column.
func (p *ParamBlock) SetConst(columnIdx int, v any) error {
	if columnIdx < 0 || columnIdx >= len(p.Columns) {
		return errors.Errorf("param block: column index %d out of range", columnIdx)
	}
	p.staging[columnIdx] = v
	for i := columnIdx; i < len(p.placeholderIndexes); i++ {
		p.placeholderIndexes[i]++
	}
	return nil
}

// SetPlaceholder writes v into the staging row at the column the
// placeholderIdx-th positional placeholder currently maps to.
func (p *ParamBlock) SetPlaceholder(placeholderIdx int, v any) error {
	if placeholderIdx < 0 || placeholderIdx >= len(p.placeholderIndexes) {
		return errors.Errorf("param block: placeholder index %d out of range", placeholderIdx)
	}
	col := p.placeholderIndexes[placeholderIdx]
	if col >= len(p.Columns) {
		return errors.Errorf("param block: placeholder %d has no column left to bind", placeholderIdx)
	}
	p.staging[col] = v
	return nil
}

// AppendRow commits the staging row into every column in order. On the
// first failure the error is *AppendFailedErr and the block is poisoned:
// rowCount is not incremented, but columns already appended to earlier in
// this call keep their new row (§3: "partial appends already committed to
// earlier columns in this row remain; the Block is then poisoned").
func (p *ParamBlock) AppendRow() error {
	if p.poisoned {
		return errors.New("param block: poisoned by a previous append failure")
	}
	for i, col := range p.Columns {
		if err := appendBoxed(col.Data, p.staging[i]); err != nil {
			p.poisoned = true
			return &AppendFailedErr{Column: col.Name, RowIndex: p.rowCount, Cause: err}
		}
	}
	p.rowCount++
	return nil
}

// Poisoned reports whether a prior AppendRow failure has invalidated this
// block; the caller must discard it rather than keep appending.
func (p *ParamBlock) Poisoned() bool { return p.poisoned }

// Rows reports the number of rows successfully committed so far.
func (p *ParamBlock) Rows() int { return p.rowCount }
