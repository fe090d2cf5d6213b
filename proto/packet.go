package proto

// ClientCode is a client→server packet kind (§4.F): a single varint byte
// opening every outbound packet.
type ClientCode byte

const (
	ClientCodeHello      ClientCode = 0
	ClientCodeQuery      ClientCode = 1
	ClientCodeData       ClientCode = 2
	ClientCodeCancel     ClientCode = 3
	ClientCodePing       ClientCode = 4
	ClientCodeTablesStatus ClientCode = 5
)

var clientCodeNames = map[ClientCode]string{
	ClientCodeHello:        "Hello",
	ClientCodeQuery:        "Query",
	ClientCodeData:         "Data",
	ClientCodeCancel:       "Cancel",
	ClientCodePing:         "Ping",
	ClientCodeTablesStatus: "TablesStatus",
}

func (c ClientCode) String() string {
	if s, ok := clientCodeNames[c]; ok {
		return s
	}
	return "Unknown"
}

// Encode writes c as a single varint byte, per §4.F's "each outbound packet
// begins with a varint kind".
func (c ClientCode) Encode(b *Buffer) { b.PutUVarInt(uint64(c)) }

// ServerCode is a server→client packet kind (§4.F).
type ServerCode byte

const (
	ServerCodeHello         ServerCode = 0
	ServerCodeData          ServerCode = 1
	ServerCodeException     ServerCode = 2
	ServerCodeProgress      ServerCode = 3
	ServerCodePong          ServerCode = 4
	ServerCodeEndOfStream   ServerCode = 5
	ServerCodeProfile       ServerCode = 6
	ServerCodeTotals        ServerCode = 7
	ServerCodeExtremes      ServerCode = 8
	ServerCodeTablesStatus  ServerCode = 9
	ServerCodeLog           ServerCode = 10
	ServerCodeTableColumns  ServerCode = 11
	ServerCodePartUUIDs     ServerCode = 12
	ServerCodeReadTaskRequest ServerCode = 13
	ServerProfileEvents     ServerCode = 14
)

var serverCodeNames = map[ServerCode]string{
	ServerCodeHello:           "Hello",
	ServerCodeData:            "Data",
	ServerCodeException:       "Exception",
	ServerCodeProgress:        "Progress",
	ServerCodePong:            "Pong",
	ServerCodeEndOfStream:     "EndOfStream",
	ServerCodeProfile:         "ProfileInfo",
	ServerCodeTotals:          "Totals",
	ServerCodeExtremes:        "Extremes",
	ServerCodeTablesStatus:    "TablesStatus",
	ServerCodeLog:             "Log",
	ServerCodeTableColumns:    "TableColumns",
	ServerCodePartUUIDs:       "PartUUIDs",
	ServerCodeReadTaskRequest: "ReadTaskRequest",
	ServerProfileEvents:       "ProfileEvents",
}

func (c ServerCode) String() string {
	if s, ok := serverCodeNames[c]; ok {
		return s
	}
	return "Unknown"
}

// Compressible reports whether a block following this packet kind may be
// wrapped in a Compressed Frame (§4.H: "only blocks are compressible").
func (c ServerCode) Compressible() bool {
	switch c {
	case ServerCodeData, ServerCodeTotals, ServerCodeExtremes:
		return true
	default:
		return false
	}
}

// Compression is the single negotiated on/off toggle for Compressed
// Frames, sent as a varint (0/1) in the Query packet.
type Compression byte

const (
	CompressionDisabled Compression = 0
	CompressionEnabled  Compression = 1
)

func (c Compression) Encode(b *Buffer) { b.PutUVarInt(uint64(c)) }

// Interface identifies the client's transport kind in ClientInfo.
type Interface byte

const (
	InterfaceTCP  Interface = 1
	InterfaceHTTP Interface = 2
)

// ClientQueryKind distinguishes an initial client query from one issued on
// a server's behalf (distributed query forwarding).
type ClientQueryKind byte

const (
	ClientQueryInitial   ClientQueryKind = 1
	ClientQuerySecondary ClientQueryKind = 2
)

// Stage is the query processing stage requested by the client.
type Stage byte

const (
	StageFetchColumns      Stage = 0
	StageWithMergeableState Stage = 1
	StageComplete          Stage = 2
)
