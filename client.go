package ch

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/chcore/ch-native/compress"
	"github.com/chcore/ch-native/proto"
)

// Client is a single-connection session to a ClickHouse server (§5: "a
// session is exactly one TCP connection plus the state negotiated over
// it"). A Client is not safe for concurrent use: Do is not reentrant, the
// way a single HTTP/1.1 connection is not.
type Client struct {
	conn   net.Conn
	reader *proto.Reader
	writer *proto.Writer
	buf    *proto.Buffer

	compression proto.Compression
	compressor  compress.Compressor

	protocolVersion int
	version         Version
	server          string

	info struct {
		User     string
		Database string
	}

	settings []Setting

	otel   bool
	tracer trace.Tracer

	lg     *zap.Logger
	closed atomic.Bool
	state  atomic.Int32
}

// Dial opens a connection to a ClickHouse server and performs the Hello
// handshake (§4.G, §5's session-establishment state).
func Dial(ctx context.Context, opt Options) (*Client, error) {
	opt.setDefaults()

	dialer := &net.Dialer{Timeout: opt.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", opt.Address)
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}

	compression := proto.CompressionDisabled
	if opt.Compression != compress.MethodNone {
		compression = proto.CompressionEnabled
	}

	c := &Client{
		conn:        conn,
		reader:      proto.NewReader(conn),
		writer:      proto.NewWriter(conn, new(proto.Buffer)),
		buf:         new(proto.Buffer),
		compression: compression,
		settings:    opt.Settings,
		version:     opt.Version,
		lg:          opt.Logger,
		tracer:      opt.Tracer,
		otel:        opt.Tracer != nil,
	}
	c.info.User = opt.User
	c.info.Database = opt.Database
	c.setState(Connecting)

	if compression != proto.CompressionDisabled {
		switch opt.Compression {
		case compress.MethodLZ4:
			codec := compress.NewLZ4()
			c.compressor = codec
			c.reader.SetDecoder(codec)
		case compress.MethodZSTD:
			codec := compress.NewZSTD()
			c.compressor = codec
			c.reader.SetDecoder(codec)
		default:
			return nil, errors.Errorf("unsupported compression method %#x", opt.Compression)
		}
	}

	if err := c.handshake(ctx, opt); err != nil {
		c.setState(Failed)
		_ = conn.Close()
		return nil, errors.Wrap(err, "handshake")
	}
	return c, nil
}

func (c *Client) handshake(ctx context.Context, opt Options) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(dl)
		defer c.conn.SetDeadline(time.Time{})
	}

	hello := proto.ClientHello{
		Name:            c.version.Name,
		Major:           c.version.Major,
		Minor:           c.version.Minor,
		ProtocolVersion: ProtocolVersion,
		Database:        opt.Database,
		User:            opt.User,
		Password:        opt.Password,
	}
	hello.Encode(c.writer.Buf())
	if _, err := c.writer.Flush(); err != nil {
		return errors.Wrap(err, "flush hello")
	}
	c.setState(HandshakeSent)

	var serverHello proto.ServerHello
	if err := serverHello.Decode(c.reader); err != nil {
		return errors.Wrap(err, "decode server hello")
	}
	c.server = serverHello.Name

	rev := ProtocolVersion
	if serverHello.ProtocolVersion < rev {
		rev = serverHello.ProtocolVersion
	}
	c.protocolVersion = rev
	c.setState(Ready)
	return nil
}

// IsClosed reports whether the connection has been closed.
func (c *Client) IsClosed() bool { return c.closed.Load() }

// Close closes the underlying connection. Safe to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.setState(Closed)
	return c.conn.Close()
}

// Ping sends a Ping packet and waits for the server's Pong.
func (c *Client) Ping(ctx context.Context) error {
	if c.IsClosed() {
		return ErrClosed
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(dl)
		defer c.conn.SetDeadline(time.Time{})
	}
	proto.ClientCodePing.Encode(c.writer.Buf())
	if _, err := c.writer.Flush(); err != nil {
		c.setState(Failed)
		return errors.Wrap(err, "flush ping")
	}
	code, err := c.packet(ctx)
	if err != nil {
		c.setState(Failed)
		return errors.Wrap(err, "packet")
	}
	if code != proto.ServerCodePong {
		c.setState(Failed)
		return errors.Errorf("unexpected packet %q in reply to ping", code)
	}
	return nil
}

// packet reads the next server packet kind, polling so ctx cancellation
// is observed even while blocked on a read deadline.
func (c *Client) packet(ctx context.Context) (proto.ServerCode, error) {
	const pollInterval = 200 * time.Millisecond
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pollInterval))
		v, err := c.reader.UVarInt()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return 0, err
		}
		return proto.ServerCode(v), nil
	}
}

// encode stages v's wire form into the writer without flushing. v cannot
// fail to encode: EncodeAware only appends to an in-memory Buffer.
func (c *Client) encode(v interface {
	EncodeAware(b *proto.Buffer, revision int)
}) {
	c.writer.ChainBuffer(func(buf *proto.Buffer) { v.EncodeAware(buf, c.protocolVersion) })
}

// decode reads v from the session's Reader.
func (c *Client) decode(v interface{ Decode(r *proto.Reader) error }) error {
	return v.Decode(c.reader)
}

func (c *Client) exception() (*Exception, error) {
	e := new(proto.Exception)
	if err := e.Decode(c.reader); err != nil {
		return nil, err
	}
	return e, nil
}

func (c *Client) progress() (proto.Progress, error) {
	var p proto.Progress
	err := p.DecodeAware(c.reader, c.protocolVersion)
	return p, err
}

func (c *Client) profile() (proto.Profile, error) {
	var p proto.Profile
	err := p.Decode(c.reader)
	return p, err
}

// flush flushes the session writer.
func (c *Client) flush(ctx context.Context) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(dl)
		defer c.conn.SetWriteDeadline(time.Time{})
	}
	_, err := c.writer.Flush()
	return err
}

// flushBuf writes b directly to the connection, bypassing the session
// writer so a concurrent goroutine (query cancellation) never races with
// an in-flight Do call's own buffer.
func (c *Client) flushBuf(ctx context.Context, b *proto.Buffer) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(dl)
		defer c.conn.SetWriteDeadline(time.Time{})
	}
	_, err := c.conn.Write(b.Buf)
	return err
}

// metricsInc accumulates delta into the *queryMetrics stashed in ctx by
// Do, a no-op outside of a running query (e.g. Ping).
func (c *Client) metricsInc(ctx context.Context, delta queryMetrics) {
	m, ok := ctx.Value(ctxQueryKey{}).(*queryMetrics)
	if !ok || m == nil {
		return
	}
	m.add(delta)
}
