package proto

// Profile is the server's end-of-query summary (§4.F ProfileInfo packet).
type Profile struct {
	Rows   uint64
	Blocks uint64
	Bytes  uint64

	AppliedLimit    bool
	RowsBeforeLimit uint64

	// CalculatedRowsBeforeLimit reports whether RowsBeforeLimit was
	// actually computed (it is skipped for some query shapes even when
	// AppliedLimit is true).
	CalculatedRowsBeforeLimit bool
}

// Decode reads a ProfileInfo packet.
func (p *Profile) Decode(r *Reader) error {
	rows, err := r.UVarInt()
	if err != nil {
		return err
	}
	p.Rows = rows

	blocks, err := r.UVarInt()
	if err != nil {
		return err
	}
	p.Blocks = blocks

	bytes, err := r.UVarInt()
	if err != nil {
		return err
	}
	p.Bytes = bytes

	applied, err := r.Bool()
	if err != nil {
		return err
	}
	p.AppliedLimit = applied

	rowsBeforeLimit, err := r.UVarInt()
	if err != nil {
		return err
	}
	p.RowsBeforeLimit = rowsBeforeLimit

	calculated, err := r.Bool()
	if err != nil {
		return err
	}
	p.CalculatedRowsBeforeLimit = calculated
	return nil
}

// ProfileEventType distinguishes the lifetime of a reported profile
// event counter, matching the server's own system.events increment kind.
type ProfileEventType byte

const (
	ProfileEventIncrement ProfileEventType = 1
	ProfileEventGauge     ProfileEventType = 2
)

func (t ProfileEventType) String() string {
	switch t {
	case ProfileEventIncrement:
		return "increment"
	case ProfileEventGauge:
		return "gauge"
	default:
		return "unknown"
	}
}

// ProfileEvent is one row of a ServerProfileEvents block: a single named
// counter sampled during query execution, mirroring the columns of the
// server's internal ProfileEvents packet block.
type ProfileEvent struct {
	Host       string
	CurrentTime int64
	ThreadID   uint64
	Type       ProfileEventType
	Name       string
	Value      int64
}

// ProfileEvents decodes the block-shaped ServerProfileEvents packet: its
// columns are bound via Result and then read back row-wise by All.
type ProfileEvents struct {
	Host        ColStr
	CurrentTime ColDateTime
	ThreadID    ColUInt64
	Type        ColInt8
	Name        ColStr
	Value       ColInt64
}

// Result exposes the column bindings that decodeBlock fills in.
func (p *ProfileEvents) Result() Result {
	return Result{
		{Name: "host_name", Data: &p.Host},
		{Name: "current_time", Data: &p.CurrentTime},
		{Name: "thread_id", Data: &p.ThreadID},
		{Name: "type", Data: &p.Type},
		{Name: "name", Data: &p.Name},
		{Name: "value", Data: &p.Value},
	}
}

// All materializes every decoded row as a ProfileEvent.
func (p *ProfileEvents) All() ([]ProfileEvent, error) {
	out := make([]ProfileEvent, p.Host.Rows())
	for i := range out {
		out[i] = ProfileEvent{
			Host:        p.Host.Row(i),
			CurrentTime: p.CurrentTime.Row(i).Unix(),
			ThreadID:    p.ThreadID[i],
			Type:        ProfileEventType(p.Type[i]),
			Name:        p.Name.Row(i),
			Value:       p.Value[i],
		}
	}
	return out, nil
}

// Log is one row of a ServerCodeLog block: a single server-side log line
// emitted during query execution (send_logs_level).
type Log struct {
	Time            int64
	TimeMicroseconds uint32
	Host            string
	QueryID         string
	ThreadID        uint64
	Priority        int8
	Source          string
	Text            string
}

// Logs decodes the block-shaped ServerCodeLog packet.
type Logs struct {
	Time            ColDateTime
	TimeMicroseconds ColUInt32
	Host            ColStr
	QueryID         ColStr
	ThreadID        ColUInt64
	Priority        ColInt8
	Source          ColStr
	Text            ColStr
}

func (l *Logs) Result() Result {
	return Result{
		{Name: "event_time", Data: &l.Time},
		{Name: "event_time_microseconds", Data: &l.TimeMicroseconds},
		{Name: "host_name", Data: &l.Host},
		{Name: "query_id", Data: &l.QueryID},
		{Name: "thread_id", Data: &l.ThreadID},
		{Name: "priority", Data: &l.Priority},
		{Name: "source", Data: &l.Source},
		{Name: "text", Data: &l.Text},
	}
}

// All materializes every decoded row as a Log.
func (l *Logs) All() []Log {
	out := make([]Log, l.Time.Rows())
	for i := range out {
		out[i] = Log{
			Time:             l.Time.Row(i).Unix(),
			TimeMicroseconds: l.TimeMicroseconds[i],
			Host:             l.Host.Row(i),
			QueryID:          l.QueryID.Row(i),
			ThreadID:         l.ThreadID[i],
			Priority:         l.Priority[i],
			Source:           l.Source.Row(i),
			Text:             l.Text.Row(i),
		}
	}
	return out
}
