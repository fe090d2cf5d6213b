package ch

// ClientName identifies this driver in the handshake and in ClientInfo,
// the way clickhouse-client identifies itself as "ClickHouse client".
const ClientName = "ch-native"

// Version describes this driver's self-reported client version, sent in
// the Hello packet and in every query's ClientInfo.
type Version struct {
	Name  string
	Major int
	Minor int
	Patch int
}

// DefaultVersion is the version reported when Options.Version is left
// unset.
var DefaultVersion = Version{
	Name:  ClientName,
	Major: 1,
	Minor: 0,
	Patch: 0,
}

// ProtocolVersion is the revision this driver speaks in its own Hello
// packet; the negotiated, effective revision is min(this, server's).
const ProtocolVersion = 54459
