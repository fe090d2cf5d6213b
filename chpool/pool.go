// Package chpool implements a small connection pool over ch.Client,
// in the style of pgxpool for database/sql-adjacent native drivers:
// a fixed set of lazily-dialed connections, acquired and released by
// callers around a single Do/Ping call.
package chpool

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/chcore/ch-native"
)

// Options configures a Pool.
type Options struct {
	// ClientOptions dials every connection in the pool.
	ClientOptions ch.Options
	// MaxConns bounds how many live connections the pool keeps open.
	// Defaults to 4.
	MaxConns int
}

// Pool hands out pooled *ch.Client connections.
type Pool struct {
	opt Options

	mu    sync.Mutex
	idle  []*ch.Client
	count int
	sem   chan struct{}
}

// New creates a Pool. Connections are dialed lazily, on first Acquire.
func New(opt Options) *Pool {
	if opt.MaxConns <= 0 {
		opt.MaxConns = 4
	}
	return &Pool{
		opt: opt,
		sem: make(chan struct{}, opt.MaxConns),
	}
}

// Conn is a pooled connection, returned to the pool by Release.
type Conn struct {
	pool *Pool
	c    *ch.Client
}

// Acquire blocks until a connection is available, dialing a new one if
// the pool has not reached MaxConns.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		c := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		if !c.IsClosed() {
			return &Conn{pool: p, c: c}, nil
		}
		// Dropped connection: fall through to dial a replacement.
	} else {
		p.mu.Unlock()
	}

	c, err := ch.Dial(ctx, p.opt.ClientOptions)
	if err != nil {
		<-p.sem
		return nil, errors.Wrap(err, "dial")
	}
	return &Conn{pool: p, c: c}, nil
}

// Release returns conn to the pool for reuse, or discards it if closed.
func (conn *Conn) Release() {
	p := conn.pool
	defer func() { <-p.sem }()
	if conn.c.IsClosed() {
		return
	}
	p.mu.Lock()
	p.idle = append(p.idle, conn.c)
	p.mu.Unlock()
}

// Close closes the underlying connection and removes it from the pool.
func (conn *Conn) Close() error {
	defer func() { <-conn.pool.sem }()
	return conn.c.Close()
}

// Do runs q on the pooled connection.
func (conn *Conn) Do(ctx context.Context, q ch.Query) error { return conn.c.Do(ctx, q) }

// Ping pings the server over the pooled connection.
func (conn *Conn) Ping(ctx context.Context) error { return conn.c.Ping(ctx) }

// client exposes the underlying *ch.Client, for tests asserting on
// connection-level state (e.g. IsClosed after Close).
func (conn *Conn) client() *ch.Client { return conn.c }

// Close closes every idle connection. In-flight Acquired connections are
// unaffected until Released.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	for _, c := range p.idle {
		if cerr := c.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	p.idle = nil
	return err
}
