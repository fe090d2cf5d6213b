package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// shortReadTarget pairs a ColResult with the row count it should be
// decoded with, letting requireNoShortRead drive DecodeColumn against
// truncated inputs.
type shortReadTarget struct {
	rows int
	dec  ColResult
}

func colAware(dec ColResult, rows int) shortReadTarget {
	return shortReadTarget{rows: rows, dec: dec}
}

// requireNoShortRead feeds every strict prefix of full into c.dec.DecodeColumn
// and requires an error (never a panic, never a spurious success) for each
// one, guarding against readers that silently accept truncated input.
func requireNoShortRead(t *testing.T, full []byte, c shortReadTarget) {
	t.Helper()
	for n := 0; n < len(full); n++ {
		r := NewReader(bytes.NewReader(full[:n]))
		err := c.dec.DecodeColumn(r, c.rows)
		require.Errorf(t, err, "decode of truncated %d/%d bytes should fail", n, len(full))
	}
}
