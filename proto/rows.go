package proto

import "github.com/go-faster/errors"

// maxRows bounds a single decoded row count, guarding against a corrupted
// or malicious length field turning into a multi-gigabyte allocation.
const maxRows = 1 << 30

// checkRows validates a row count decoded from the wire before it is used
// to size an allocation.
func checkRows(n int) error {
	if n < 0 {
		return errors.Errorf("rows: negative count %d", n)
	}
	if n > maxRows {
		return errors.Errorf("rows: count %d exceeds limit %d", n, maxRows)
	}
	return nil
}
