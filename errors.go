package ch

import (
	"github.com/go-faster/errors"

	"github.com/chcore/ch-native/proto"
)

// ErrClosed is returned by Client methods once Close has been called,
// either by the caller or by query cancellation. A connection dropped by
// the server does not set it.
var ErrClosed = errors.New("closed")

// Exception is a server-reported query error, re-exported so callers can
// type-assert without importing proto directly.
type Exception = proto.Exception

// IsException reports whether err is or wraps a server Exception.
func IsException(err error) bool {
	var exc *Exception
	return errors.As(err, &exc)
}
