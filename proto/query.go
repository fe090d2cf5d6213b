package proto

import "go.opentelemetry.io/otel/trace"

// Setting is one `(name, value)` pair of the Query packet's settings
// sequence (§4.F), terminated on the wire by an empty name.
type Setting struct {
	Key       string
	Value     string
	Important bool
}

// Parameter is one query parameter (`param_<name>`), sent alongside
// settings with the "custom setting" flag bit set, per §4.F / §9's
// FeatureParameters note.
type Parameter struct {
	Key   string
	Value string
}

const (
	settingFlagImportant byte = 1 << 0
	settingFlagCustom     byte = 1 << 1
)

// writeSettings serializes settings followed by params (as custom
// `param_`-prefixed settings), terminated by an empty name — the
// `[R≥SettingsSerializedAsStrings]` string-valued encoding, the only one
// this driver ever writes.
func writeSettings(b *Buffer, settings []Setting, params []Parameter) {
	for _, s := range settings {
		b.PutString(s.Key)
		var flags byte
		if s.Important {
			flags |= settingFlagImportant
		}
		b.PutUInt8(flags)
		b.PutString(s.Value)
	}
	for _, p := range params {
		b.PutString("param_" + p.Key)
		b.PutUInt8(settingFlagCustom)
		b.PutString(p.Value)
	}
	b.PutString("")
}

// ClientInfo is the revision-gated sub-structure of a Query packet
// describing the originating client and session (§4.F, GLOSSARY).
type ClientInfo struct {
	ProtocolVersion int
	Major, Minor, Patch int

	Interface Interface
	Query     ClientQueryKind

	InitialUser    string
	InitialQueryID string
	InitialAddress string

	OSUser         string
	ClientHostname string
	ClientName     string

	QuotaKey string

	// DistributedDepth counts hops when this query was forwarded from
	// another ClickHouse server; zero for a directly issued query.
	DistributedDepth int

	// Span carries the OpenTelemetry trace context propagated to the
	// server, when tracing is enabled on the session.
	Span trace.SpanContext
}

// EncodeAware writes c, gating DistributedDepth/VersionPatch/OpenTelemetry
// fields on revision.
func (c ClientInfo) EncodeAware(b *Buffer, revision int) {
	b.PutUInt8(byte(c.Query))
	b.PutString(c.InitialUser)
	b.PutString(c.InitialQueryID)
	b.PutString(c.InitialAddress)
	b.PutUInt8(byte(c.Interface))
	b.PutString(c.OSUser)
	b.PutString(c.ClientHostname)
	b.PutString(c.ClientName)
	b.PutUVarInt(uint64(c.Major))
	b.PutUVarInt(uint64(c.Minor))
	b.PutUVarInt(uint64(c.ProtocolVersion))
	if FeatureDistributedDepth.In(revision) {
		b.PutUVarInt(uint64(c.DistributedDepth))
	}
	if FeatureVersionPatch.In(revision) {
		b.PutUVarInt(uint64(c.Patch))
	}
	if FeatureOpenTelemetry.In(revision) {
		encodeSpanContext(b, c.Span)
	}
	if FeatureQuotaKeyInClientInfo.In(revision) {
		b.PutString(c.QuotaKey)
	}
}

func encodeSpanContext(b *Buffer, sc trace.SpanContext) {
	if !sc.IsValid() {
		b.PutUInt8(0)
		return
	}
	b.PutUInt8(1)
	traceID := sc.TraceID()
	b.PutRaw(traceID[:])
	spanID := sc.SpanID()
	b.PutRaw(spanID[:])
	b.PutString(sc.TraceState().String())
	b.PutUInt8(byte(sc.TraceFlags()))
}

// Query is the client→server Query packet (§4.F kind=1).
type Query struct {
	ID          string
	Body        string
	Secret      string
	Stage       Stage
	Compression Compression
	Settings    []Setting
	Parameters  []Parameter
	Info        ClientInfo
}

// EncodeAware writes the full Query packet, including its leading kind
// byte, gating ClientInfo and the inter-server secret on revision.
func (q Query) EncodeAware(b *Buffer, revision int) {
	ClientCodeQuery.Encode(b)
	b.PutString(q.ID)
	if FeatureClientInfo.In(revision) {
		q.Info.EncodeAware(b, revision)
	}
	writeSettings(b, q.Settings, q.Parameters)
	if FeatureInterServerSecret.In(revision) {
		b.PutString(q.Secret)
	}
	b.PutUVarInt(uint64(q.Stage))
	b.PutUVarInt(uint64(q.Compression))
	b.PutString(q.Body)
}

// ClientData is the small header preceding a client-sent Block (§4.F Data
// packet), naming the external table the block belongs to (empty for the
// query's own input/output).
type ClientData struct {
	TableName string
}

// EncodeAware writes the leading Data kind byte and, when the negotiated
// revision supports external tables, the table name.
func (d ClientData) EncodeAware(b *Buffer, revision int) {
	ClientCodeData.Encode(b)
	if FeatureTempTables.In(revision) {
		b.PutString(d.TableName)
	}
}

// DecodeAware is the read-side counterpart of EncodeAware, reading the
// table name only when the revision supports external tables.
func (d *ClientData) DecodeAware(r *Reader, revision int) error {
	if !FeatureTempTables.In(revision) {
		d.TableName = ""
		return nil
	}
	v, err := r.Str()
	if err != nil {
		return err
	}
	d.TableName = v
	return nil
}
