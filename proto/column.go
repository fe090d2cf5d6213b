package proto

// Column is the common interface every column kind satisfies (§4.D Column
// Model). It never exposes the boxed logical value type directly; callers
// that need typed access use the generic ColumnOf[T] wrapper a concrete
// column also implements.
type Column interface {
	// Type reports the canonical ClickHouse type name, byte-equal to what
	// the server would emit for this column (§3 Type Descriptor invariant).
	Type() ColumnType
	// Rows reports the number of logical rows currently held.
	Rows() int
}

// Resettable is implemented by columns that can truncate themselves back to
// zero rows while keeping backing storage. It is deliberately not part of
// Column: Reset needs a pointer receiver on slice-backed columns, and
// requiring it on Column would force every ColInput call site that happens
// to hold a value (not a pointer) to take one just to satisfy the
// interface.
type Resettable interface {
	Reset()
}

// ColInput is a column usable as INSERT input: it can bulk-encode itself.
type ColInput interface {
	Column
	// EncodeColumn serializes every row into b, per the kind's wire layout
	// (§4.C). Side-band buffers (null-map, offsets, dictionary) are emitted
	// in the order the kind specifies.
	EncodeColumn(b *Buffer)
	// WriteColumn stages EncodeColumn's output directly into w, without the
	// caller managing an intermediate Buffer.
	WriteColumn(w *Writer)
}

// ColResult is a column usable as SELECT output: it can bulk-decode itself.
type ColResult interface {
	Column
	// DecodeColumn deserializes rows rows from r, replacing any existing
	// content; a call with rows == 0 leaves the column unchanged.
	DecodeColumn(r *Reader, rows int) error
}

// StateEncoder is implemented by columns (today: LowCardinality) that write
// a small out-of-band "state" prefix once before column values, every time
// the column is encoded in a block.
type StateEncoder interface {
	EncodeState(b *Buffer)
}

// StateDecoder is the read-side counterpart of StateEncoder.
type StateDecoder interface {
	DecodeState(r *Reader) error
}

// Preparable is implemented by columns that need a pass over their
// in-memory values before EncodeColumn can run (building a LowCardinality
// dictionary, for instance).
type Preparable interface {
	Prepare() error
}

// ColumnOf is implemented by typed columns, giving callers boxed access to
// individual rows without a type assertion to the concrete column type.
type ColumnOf[T any] interface {
	Column
	// Append pushes v as the next row.
	Append(v T)
	// Row returns the i-th row's logical value.
	Row(i int) T
}

// Inferable is implemented by columns whose wire type cannot be determined
// purely from the Go value type (e.g. Enum8 backed by a plain string) and
// which must be told the server's column type before encoding.
type Inferable interface {
	Infer(t ColumnType) error
}
