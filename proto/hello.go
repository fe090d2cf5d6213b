package proto

// ClientHello is the first packet sent on a new connection (§4.G),
// identifying this driver and the credentials it authenticates with.
type ClientHello struct {
	Name            string
	Major, Minor    int
	ProtocolVersion int
	Database        string
	User            string
	Password        string
}

// Encode writes the Hello packet, including its leading kind byte. Hello
// carries no revision-gated fields: it is what negotiates the revision
// every later gate depends on.
func (h ClientHello) Encode(b *Buffer) {
	ClientCodeHello.Encode(b)
	b.PutString(h.Name)
	b.PutUVarInt(uint64(h.Major))
	b.PutUVarInt(uint64(h.Minor))
	b.PutUVarInt(uint64(h.ProtocolVersion))
	b.PutString(h.Database)
	b.PutString(h.User)
	b.PutString(h.Password)
}

// ServerHello is the server's reply to ClientHello (§4.G), carrying the
// server's own revision in ProtocolVersion; the session negotiates
// min(client, server) from it.
type ServerHello struct {
	Name            string
	Major, Minor, Patch int
	ProtocolVersion int

	Timezone    string
	DisplayName string
}

// Decode reads a ServerHello. Name/Major/Minor/ProtocolVersion are
// unconditional; Timezone, DisplayName and Patch are gated on the
// revision just read, since no revision has been negotiated before this
// packet completes.
func (h *ServerHello) Decode(r *Reader) error {
	name, err := r.Str()
	if err != nil {
		return err
	}
	h.Name = name

	major, err := r.UVarInt()
	if err != nil {
		return err
	}
	h.Major = int(major)

	minor, err := r.UVarInt()
	if err != nil {
		return err
	}
	h.Minor = int(minor)

	rev, err := r.UVarInt()
	if err != nil {
		return err
	}
	h.ProtocolVersion = int(rev)

	if FeatureServerTimezone.In(h.ProtocolVersion) {
		tz, err := r.Str()
		if err != nil {
			return err
		}
		h.Timezone = tz
	}
	if FeatureServerDisplayName.In(h.ProtocolVersion) {
		dn, err := r.Str()
		if err != nil {
			return err
		}
		h.DisplayName = dn
	}
	if FeatureVersionPatch.In(h.ProtocolVersion) {
		patch, err := r.UVarInt()
		if err != nil {
			return err
		}
		h.Patch = int(patch)
	} else {
		h.Patch = h.Minor
	}
	return nil
}
