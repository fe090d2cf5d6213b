package ch

import "sync"

// ctxQueryKey is the context key under which Do stashes the running
// query's *queryMetrics, so decodeBlock/encodeBlock can accumulate into
// it without threading an extra parameter through every call.
type ctxQueryKey struct{}

// queryMetrics accumulates the counters reported on a query's OpenTelemetry
// span. Do's three goroutines (send, receive, cancel-watcher) can all
// touch the same instance, so every mutation goes through add, which
// holds mu.
type queryMetrics struct {
	mu sync.Mutex

	Rows            int
	Bytes           int
	BlocksSent      int
	BlocksReceived  int
	RowsReceived    int
	ColumnsReceived int
}

func (m *queryMetrics) add(delta queryMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rows += delta.Rows
	m.Bytes += delta.Bytes
	m.BlocksSent += delta.BlocksSent
	m.BlocksReceived += delta.BlocksReceived
	m.RowsReceived += delta.RowsReceived
	m.ColumnsReceived += delta.ColumnsReceived
}
