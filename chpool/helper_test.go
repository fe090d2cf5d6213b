package chpool

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chcore/ch-native"
)

// PoolConn returns a Pool dialing the server named by CH_ADDR (defaulting
// to localhost:9000), skipping the test when no server is reachable.
func PoolConn(t *testing.T) *Pool {
	t.Helper()
	addr := os.Getenv("CH_ADDR")
	if addr == "" {
		addr = "localhost:9000"
	}
	p := New(Options{
		ClientOptions: ch.Options{
			Address: addr,
		},
	})
	conn, err := p.Acquire(context.Background())
	if err != nil {
		t.Skipf("no clickhouse server reachable at %s: %v", addr, err)
	}
	conn.Release()
	return p
}

func testDo(t *testing.T, conn *Conn) {
	t.Helper()
	err := conn.Do(context.Background(), ch.Query{
		Body: "SELECT 1",
	})
	require.NoError(t, err)
}
