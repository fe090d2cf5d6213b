package proto

// TableColumns is the server's TableColumns packet, describing the
// schema of a temporary table created for an external-data upload.
type TableColumns struct {
	ExternalTableName string
	ColumnsDefinition string
}

// Decode reads a TableColumns packet.
func (t *TableColumns) Decode(r *Reader) error {
	name, err := r.Str()
	if err != nil {
		return err
	}
	t.ExternalTableName = name

	def, err := r.Str()
	if err != nil {
		return err
	}
	t.ColumnsDefinition = def
	return nil
}
