package proto

import "github.com/go-faster/errors"

// Sentinel codec errors (§7 Codec kind).
//
// They are returned wrapped (via errors.Wrap) so callers should use
// errors.Is rather than direct comparison.
var (
	// ErrShortRead is returned when the underlying stream ends before a
	// complete value could be read.
	ErrShortRead = errors.New("proto: short read")
	// ErrMalformedVarInt is returned by UVarInt when a varint exceeds the
	// maximum of 10 bytes for a 64-bit value.
	ErrMalformedVarInt = errors.New("proto: malformed varint")
	// ErrUnsupportedComposition is returned by the type parser when
	// Nullable wraps a composite type that cannot be nullable on the wire.
	ErrUnsupportedComposition = errors.New("proto: unsupported type composition")
)

// ValueConversionErr is raised by Column.Append when a boxed value cannot
// be converted into the column's wire representation.
type ValueConversionErr struct {
	Column   string
	RowIndex int
	Cause    error
}

func (e *ValueConversionErr) Error() string {
	return errors.Wrapf(e.Cause, "column %q: row %d: value conversion", e.Column, e.RowIndex).Error()
}

func (e *ValueConversionErr) Unwrap() error { return e.Cause }

// AppendFailedErr is raised by Block.AppendRow when a column's Append call
// fails; the block is poisoned and must be discarded by the caller.
type AppendFailedErr struct {
	Column   string
	RowIndex int
	Cause    error
}

func (e *AppendFailedErr) Error() string {
	return errors.Wrapf(e.Cause, "column %q: row %d: append failed", e.Column, e.RowIndex).Error()
}

func (e *AppendFailedErr) Unwrap() error { return e.Cause }
