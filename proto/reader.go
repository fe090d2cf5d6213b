package proto

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-faster/errors"
)

// FrameDecoder decompresses one Compressed Frame (§4.H) read from raw and
// returns its uncompressed payload. Implemented by compress.LZ4/compress.ZSTD;
// kept as an interface here so proto never imports the compress package.
type FrameDecoder interface {
	Decode(raw io.Reader) ([]byte, error)
}

// Reader implements the read side of the Byte Codec (§4.A) plus the
// compressed-frame toggle described in §4.H: EnableCompression switches the
// byte source from the raw transport to a sequence of decoded frames
// without the caller ever observing a half-decoded frame.
type Reader struct {
	raw *bufio.Reader

	compressed bool
	dec        FrameDecoder
	frame      *bytes.Reader

	scratch [8]byte
}

// NewReader wraps r for reading protocol values.
func NewReader(r io.Reader) *Reader {
	return &Reader{raw: bufio.NewReaderSize(r, 16*1024)}
}

// SetDecoder wires the frame decompressor to use once compression is
// negotiated at handshake. Called at most once per session.
func (r *Reader) SetDecoder(dec FrameDecoder) { r.dec = dec }

// EnableCompression switches subsequent reads to decode Compressed Frames
// using the decoder set via SetDecoder. The raw *bufio.Reader remains the
// source of frame headers.
func (r *Reader) EnableCompression() {
	if r.dec == nil {
		return
	}
	r.compressed = true
	r.frame = nil
}

// DisableCompression returns to reading raw bytes from the transport.
func (r *Reader) DisableCompression() {
	r.compressed = false
	r.frame = nil
}

func wrapShort(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrShortRead, err)
	}
	return err
}

func (r *Reader) fillFrame() error {
	data, err := r.dec.Decode(r.raw)
	if err != nil {
		return wrapShort(err)
	}
	r.frame = bytes.NewReader(data)
	return nil
}

// ReadFull reads exactly len(p) bytes, honoring the compression toggle.
// Partial reads never occur past this call: suspension points are socket
// I/O only, matching §5's no-half-packet-across-suspension rule.
func (r *Reader) ReadFull(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if !r.compressed {
		_, err := io.ReadFull(r.raw, p)
		return wrapShort(err)
	}
	for len(p) > 0 {
		if r.frame == nil || r.frame.Len() == 0 {
			if err := r.fillFrame(); err != nil {
				return err
			}
		}
		n, err := r.frame.Read(p)
		if err != nil && !errors.Is(err, io.EOF) {
			return wrapShort(err)
		}
		p = p[n:]
	}
	return nil
}

// ReadByte reads a single byte, satisfying io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.ReadFull(r.scratch[:1]); err != nil {
		return 0, err
	}
	return r.scratch[0], nil
}

// UVarInt reads an unsigned LEB128 varint (§4.A); a varint longer than 10
// bytes, or one whose value overflows 64 bits, surfaces ErrMalformedVarInt.
func (r *Reader) UVarInt() (uint64, error) {
	var x uint64
	var s uint
	for i := 0; i < binary.MaxVarintLen64; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, errors.Wrap(err, "varint")
		}
		if b < 0x80 {
			if i == binary.MaxVarintLen64-1 && b > 1 {
				return 0, ErrMalformedVarInt
			}
			return x | uint64(b)<<s, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, ErrMalformedVarInt
}

// Len reads a varint-encoded length, used for string/array prefixes.
func (r *Reader) Len() (int, error) {
	v, err := r.UVarInt()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Bool reads a single-byte boolean.
func (r *Reader) Bool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, errors.Wrap(err, "bool")
	}
	return b != 0, nil
}

// Int8 reads a signed 8-bit integer.
func (r *Reader) Int8() (int8, error) {
	v, err := r.UInt8()
	return int8(v), err
}

// UInt8 reads an unsigned 8-bit integer.
func (r *Reader) UInt8() (uint8, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, errors.Wrap(err, "uint8")
	}
	return b, nil
}

// Int16 reads a signed 16-bit little-endian integer.
func (r *Reader) Int16() (int16, error) {
	v, err := r.UInt16()
	return int16(v), err
}

// UInt16 reads an unsigned 16-bit little-endian integer.
func (r *Reader) UInt16() (uint16, error) {
	if err := r.ReadFull(r.scratch[:2]); err != nil {
		return 0, errors.Wrap(err, "uint16")
	}
	return binary.LittleEndian.Uint16(r.scratch[:2]), nil
}

// Int32 reads a signed 32-bit little-endian integer.
func (r *Reader) Int32() (int32, error) {
	v, err := r.UInt32()
	return int32(v), err
}

// UInt32 reads an unsigned 32-bit little-endian integer.
func (r *Reader) UInt32() (uint32, error) {
	if err := r.ReadFull(r.scratch[:4]); err != nil {
		return 0, errors.Wrap(err, "uint32")
	}
	return binary.LittleEndian.Uint32(r.scratch[:4]), nil
}

// Int64 reads a signed 64-bit little-endian integer.
func (r *Reader) Int64() (int64, error) {
	v, err := r.UInt64()
	return int64(v), err
}

// UInt64 reads an unsigned 64-bit little-endian integer.
func (r *Reader) UInt64() (uint64, error) {
	if err := r.ReadFull(r.scratch[:8]); err != nil {
		return 0, errors.Wrap(err, "uint64")
	}
	return binary.LittleEndian.Uint64(r.scratch[:8]), nil
}

// Float32 reads an IEEE-754 32-bit little-endian float.
func (r *Reader) Float32() (float32, error) {
	v, err := r.UInt32()
	return math.Float32frombits(v), err
}

// Float64 reads an IEEE-754 64-bit little-endian float.
func (r *Reader) Float64() (float64, error) {
	v, err := r.UInt64()
	return math.Float64frombits(v), err
}

// StrBytes reads a varint length followed by that many raw bytes. The
// returned slice is not validated as UTF-8; it is freshly allocated on every
// call, so the caller may retain it. A zero length returns nil.
func (r *Reader) StrBytes() ([]byte, error) {
	n, err := r.Len()
	if err != nil {
		return nil, errors.Wrap(err, "str len")
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return nil, errors.Wrap(err, "str data")
	}
	return buf, nil
}

// Str reads a length-prefixed string without rejecting invalid UTF-8.
func (r *Reader) Str() (string, error) {
	b, err := r.StrBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
