package ch

import (
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/chcore/ch-native/compress"
	"github.com/chcore/ch-native/proto"
)

// Setting is a client- or query-scoped setting sent with every query
// (§4.F), re-exported from proto so callers building Query/Options never
// need to import proto directly for this.
type Setting = proto.Setting

// Options configures a Dial.
type Options struct {
	// Address is the "host:port" of the ClickHouse native-protocol
	// endpoint. Defaults to "localhost:9000".
	Address string

	Database string
	User     string
	Password string

	// Compression selects the Compressed Frame codec applied to Data
	// blocks. Defaults to compress.MethodNone (uncompressed).
	Compression compress.Method

	// Settings are sent with every query issued on this Client.
	Settings []Setting

	// QuotaKey is not read by Dial and is not sent to the server; the quota
	// key a query carries is the one set in that Query's QuotaKey field.
	QuotaKey string

	// Version overrides this driver's self-reported identity in the
	// handshake. Defaults to DefaultVersion.
	Version Version

	DialTimeout time.Duration

	Logger *zap.Logger

	// Tracer enables OpenTelemetry spans around Do when non-nil.
	Tracer trace.Tracer
}

// Option mutates Options, for callers that prefer functional options over
// building the struct literal directly.
type Option func(*Options)

// NewOptions builds Options from a sequence of Option, applying defaults
// to whatever is left unset.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	o.setDefaults()
	return o
}

func WithAddress(addr string) Option { return func(o *Options) { o.Address = addr } }

func WithCredentials(user, password string) Option {
	return func(o *Options) { o.User, o.Password = user, password }
}

func WithDatabase(db string) Option { return func(o *Options) { o.Database = db } }

func WithCompression(m compress.Method) Option {
	return func(o *Options) { o.Compression = m }
}

func WithSettings(settings ...Setting) Option {
	return func(o *Options) { o.Settings = settings }
}

func WithLogger(lg *zap.Logger) Option { return func(o *Options) { o.Logger = lg } }

func WithTracer(tr trace.Tracer) Option { return func(o *Options) { o.Tracer = tr } }

func WithDialTimeout(d time.Duration) Option { return func(o *Options) { o.DialTimeout = d } }

func (o *Options) setDefaults() {
	if o.Address == "" {
		o.Address = "localhost:9000"
	}
	if o.Database == "" {
		o.Database = "default"
	}
	if o.User == "" {
		o.User = "default"
	}
	if o.Version == (Version{}) {
		o.Version = DefaultVersion
	}
	if o.DialTimeout == 0 {
		o.DialTimeout = 10 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}
