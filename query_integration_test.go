package ch

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chcore/ch-native/proto"
)

// fakeServerRevision is the negotiated revision the fake servers below speak;
// it must be large enough to turn on every feature gate ClientHello/Query's
// encoders exercise so ServerHello.Decode reads back what was written.
const fakeServerRevision = 54459

// readClientHello decodes a ClientHello off conn, discarding the values:
// the fake servers below only need to consume the exact byte count so the
// stream stays in sync, not validate the handshake's contents.
func readClientHello(t *testing.T, r *proto.Reader) {
	t.Helper()
	_, err := r.UVarInt() // ClientCodeHello
	require.NoError(t, err)
	_, err = r.Str() // Name
	require.NoError(t, err)
	_, err = r.UVarInt() // Major
	require.NoError(t, err)
	_, err = r.UVarInt() // Minor
	require.NoError(t, err)
	_, err = r.UVarInt() // ProtocolVersion
	require.NoError(t, err)
	_, err = r.Str() // Database
	require.NoError(t, err)
	_, err = r.Str() // User
	require.NoError(t, err)
	_, err = r.Str() // Password
	require.NoError(t, err)
}

// writeServerHello writes a ServerHello response at fakeServerRevision,
// including every field gated on through that revision.
func writeServerHello(b *proto.Buffer) {
	b.PutUVarInt(uint64(proto.ServerCodeHello))
	b.PutString("chcore-fake-server")
	b.PutUVarInt(22)
	b.PutUVarInt(1)
	b.PutUVarInt(fakeServerRevision)
	b.PutString("UTC")
	b.PutString("fake")
	b.PutUVarInt(1) // patch
}

// writeException writes a non-nested Exception packet.
func writeException(b *proto.Buffer, code int32, name, message string) {
	b.PutUVarInt(uint64(proto.ServerCodeException))
	b.PutInt32(code)
	b.PutString(name)
	b.PutString(message)
	b.PutString("")
	b.PutBool(false)
}

func writeEndOfStream(b *proto.Buffer) {
	b.PutUVarInt(uint64(proto.ServerCodeEndOfStream))
}

// TestDo_ExceptionDrain checks the exception-drain property (§4.G, §7 item
// 5, §8): a query that raises a server Exception returns that Exception to
// the caller, but leaves the session in Ready rather than Failed, so a
// second Do on the same Client can still run.
func TestDo_ExceptionDrain(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := proto.NewReader(conn)
		readClientHello(t, r)

		var hello proto.Buffer
		writeServerHello(&hello)
		_, _ = conn.Write(hello.Buf)

		// First Do: server answers with an Exception, then drains to
		// EndOfStream without ever reading the client's Query packet —
		// this fake server never reads again, since its writes don't
		// depend on what the client sent.
		var reply proto.Buffer
		writeException(&reply, 1, "DB::Exception", "first query failed")
		writeEndOfStream(&reply)
		_, _ = conn.Write(reply.Buf)

		// Second Do: succeeds with zero rows.
		var ok proto.Buffer
		writeEndOfStream(&ok)
		_, _ = conn.Write(ok.Buf)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, Options{Address: ln.Addr().String()})
	require.NoError(t, err)
	defer client.Close()

	err = client.Do(ctx, Query{Body: "SELECT 1"})
	require.Error(t, err)
	var exc *Exception
	require.ErrorAs(t, err, &exc)
	require.Equal(t, Ready, client.State(), "session must return to Ready after draining an Exception to EndOfStream")

	// The connection is still usable for a second query.
	err = client.Do(ctx, Query{Body: "SELECT 2"})
	require.NoError(t, err)
	require.Equal(t, Ready, client.State())

	<-serverDone
}

// TestDial_IdempotentHandshakeFailure checks the idempotent-handshake-
// failure property (§4.G, §8): repeated Dial attempts against a server that
// never completes the handshake each fail independently, with no client
// left usable and no shared state that makes a later attempt behave
// differently from the first.
func TestDial_IdempotentHandshakeFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			// Close without ever writing a ServerHello.
			conn.Close()
		}
	}()

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		client, err := Dial(ctx, Options{Address: ln.Addr().String()})
		cancel()
		require.Errorf(t, err, "attempt %d should fail", i)
		require.Nilf(t, client, "attempt %d should not return a client on failure", i)
	}
}
