package proto

// AppendZero pushes an all-zero 128-byte row. Kept out of the generated
// col_fixedstr128_gen.go file since that file is regenerated by
// ./cmd/ch-gen-col.
func (c *ColFixedStr128) AppendZero() {
	var zero [128]byte
	*c = append(*c, zero)
}
