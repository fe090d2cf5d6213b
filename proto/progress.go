package proto

// Progress is a server Progress packet (§4.F), reporting incremental
// rows/bytes counters for the running query.
type Progress struct {
	Rows      uint64
	Bytes     uint64
	TotalRows uint64

	// TotalBytes is the estimated total bytes to read, gated on
	// FeatureTotalBytes.
	TotalBytes uint64

	// WroteRows/WroteBytes report INSERT-side progress, gated on
	// FeatureClientWriteInfo.
	WroteRows  uint64
	WroteBytes uint64
}

// DecodeAware reads a Progress packet, gating TotalBytes and the
// Wrote* fields on revision.
func (p *Progress) DecodeAware(r *Reader, revision int) error {
	rows, err := r.UVarInt()
	if err != nil {
		return err
	}
	p.Rows = rows

	bytes, err := r.UVarInt()
	if err != nil {
		return err
	}
	p.Bytes = bytes

	totalRows, err := r.UVarInt()
	if err != nil {
		return err
	}
	p.TotalRows = totalRows

	if FeatureTotalBytes.In(revision) {
		totalBytes, err := r.UVarInt()
		if err != nil {
			return err
		}
		p.TotalBytes = totalBytes
	}
	if FeatureClientWriteInfo.In(revision) {
		wroteRows, err := r.UVarInt()
		if err != nil {
			return err
		}
		p.WroteRows = wroteRows

		wroteBytes, err := r.UVarInt()
		if err != nil {
			return err
		}
		p.WroteBytes = wroteBytes
	}
	return nil
}
