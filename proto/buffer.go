package proto

import (
	"encoding/binary"
	"math"
)

// Buffer implements the write side of the Byte Codec (§4.A): varints, fixed
// little-endian integers, IEEE-754 floats, length-prefixed strings and raw
// byte runs, all appended to an in-memory slice.
//
// Buffer is stateless across calls beyond the accumulated Buf slice; it
// never retains cross-row state, per §4.C.
type Buffer struct {
	Buf []byte
}

// Reset truncates the buffer, keeping the underlying array for reuse.
func (b *Buffer) Reset() {
	b.Buf = b.Buf[:0]
}

// PutByte appends a single byte.
func (b *Buffer) PutByte(v byte) {
	b.Buf = append(b.Buf, v)
}

// PutRaw appends a raw byte run unmodified.
func (b *Buffer) PutRaw(v []byte) {
	b.Buf = append(b.Buf, v...)
}

// PutUVarInt appends v as an unsigned LEB128 varint (1-10 bytes).
func (b *Buffer) PutUVarInt(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	b.Buf = append(b.Buf, tmp[:n]...)
}

// PutLen is an alias for PutUVarInt used for length prefixes, matching the
// teacher's naming for string/array length fields.
func (b *Buffer) PutLen(v int) {
	b.PutUVarInt(uint64(v))
}

// PutBool appends a single-byte boolean (0 or 1).
func (b *Buffer) PutBool(v bool) {
	if v {
		b.PutByte(1)
	} else {
		b.PutByte(0)
	}
}

// PutString appends a varint length followed by the raw UTF-8 bytes of v.
//
// v is not validated as UTF-8: the wire format allows arbitrary bytes in
// String, so callers pushing non-UTF-8 payloads are not rejected here.
func (b *Buffer) PutString(v string) {
	b.PutLen(len(v))
	b.Buf = append(b.Buf, v...)
}

// PutInt8 appends a signed 8-bit integer.
func (b *Buffer) PutInt8(v int8) { b.PutByte(byte(v)) }

// PutUInt8 appends an unsigned 8-bit integer.
func (b *Buffer) PutUInt8(v uint8) { b.PutByte(v) }

// PutInt16 appends a signed 16-bit little-endian integer.
func (b *Buffer) PutInt16(v int16) { b.PutUInt16(uint16(v)) }

// PutUInt16 appends an unsigned 16-bit little-endian integer.
func (b *Buffer) PutUInt16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.Buf = append(b.Buf, tmp[:]...)
}

// PutInt32 appends a signed 32-bit little-endian integer.
func (b *Buffer) PutInt32(v int32) { b.PutUInt32(uint32(v)) }

// PutUInt32 appends an unsigned 32-bit little-endian integer.
func (b *Buffer) PutUInt32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.Buf = append(b.Buf, tmp[:]...)
}

// PutInt64 appends a signed 64-bit little-endian integer.
func (b *Buffer) PutInt64(v int64) { b.PutUInt64(uint64(v)) }

// PutUInt64 appends an unsigned 64-bit little-endian integer.
func (b *Buffer) PutUInt64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.Buf = append(b.Buf, tmp[:]...)
}

// PutFloat32 appends an IEEE-754 32-bit little-endian float.
func (b *Buffer) PutFloat32(v float32) {
	b.PutUInt32(math.Float32bits(v))
}

// PutFloat64 appends an IEEE-754 64-bit little-endian float.
func (b *Buffer) PutFloat64(v float64) {
	b.PutUInt64(math.Float64bits(v))
}
