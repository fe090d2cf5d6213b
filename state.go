package ch

// connState is the session state machine (§4.G): Disconnected before Dial
// starts, through the handshake, into Ready between queries, out to
// QuerySent/Streaming while Do is in flight, and into the Failed/Closed
// sinks.
type connState int32

const (
	Disconnected connState = iota
	Connecting
	HandshakeSent
	Ready
	QuerySent
	Streaming
	Failed
	Closed
)

func (s connState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case HandshakeSent:
		return "handshake_sent"
	case Ready:
		return "ready"
	case QuerySent:
		return "query_sent"
	case Streaming:
		return "streaming"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// State returns the client's current connection state.
func (c *Client) State() connState { return connState(c.state.Load()) }

func (c *Client) setState(s connState) { c.state.Store(int32(s)) }

// casState advances the state machine from `from` to `to`, a no-op if the
// state already moved elsewhere (e.g. a concurrent failure already set
// Failed).
func (c *Client) casState(from, to connState) bool {
	return c.state.CompareAndSwap(int32(from), int32(to))
}
