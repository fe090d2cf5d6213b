package ch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnState_String(t *testing.T) {
	for s, want := range map[connState]string{
		Disconnected:  "disconnected",
		Connecting:    "connecting",
		HandshakeSent: "handshake_sent",
		Ready:         "ready",
		QuerySent:     "query_sent",
		Streaming:     "streaming",
		Failed:        "failed",
		Closed:        "closed",
	} {
		assert.Equal(t, want, s.String())
	}
}

func TestClient_CasState(t *testing.T) {
	c := new(Client)
	assert.Equal(t, Disconnected, c.State())

	c.setState(Ready)
	assert.True(t, c.casState(Ready, QuerySent))
	assert.Equal(t, QuerySent, c.State())

	// A CAS from the wrong source state is a no-op.
	assert.False(t, c.casState(Ready, Streaming))
	assert.Equal(t, QuerySent, c.State())
}
