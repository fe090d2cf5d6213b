package compress

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/klauspost/compress/zstd"
)

// ZSTD is the Compressor/Decompressor pair for the ZSTD frame method.
type ZSTD struct {
	enc *zstd.Encoder
	dec *zstd.Decoder

	data  []byte
	out   []byte
	frame []byte

	header [checksumSize + headerSize]byte
}

// NewZSTD returns a ready-to-use ZSTD codec.
func NewZSTD() *ZSTD { return &ZSTD{} }

// Compress wraps data in a ZSTD Compressed Frame; the result is fetched
// via Frame.
func (c *ZSTD) Compress(data []byte) error {
	if c.enc == nil {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return errors.Wrap(err, "zstd writer")
		}
		c.enc = enc
	}
	c.data = c.enc.EncodeAll(data, c.data[:0])
	c.frame = writeFrame(c.frame, MethodZSTD, c.data, len(data))
	return nil
}

// Frame returns the most recent frame built by Compress.
func (c *ZSTD) Frame() []byte { return c.frame }

// Decode reads and decompresses one frame from raw.
func (c *ZSTD) Decode(raw io.Reader) ([]byte, error) {
	method, rawSize, err := readFrame(raw, &c.header, &c.data)
	if err != nil {
		return nil, err
	}
	c.out = growTo(c.out, rawSize)
	switch method {
	case MethodNone:
		copy(c.out, c.data)
	case MethodZSTD:
		if c.dec == nil {
			dec, err := zstd.NewReader(nil)
			if err != nil {
				return nil, errors.Wrap(err, "zstd reader")
			}
			c.dec = dec
		}
		out, err := c.dec.DecodeAll(c.data, c.out[:0])
		if err != nil {
			return nil, errors.Wrap(err, "zstd decompress")
		}
		c.out = out
	default:
		return nil, errors.Errorf("unexpected compression method %#x in zstd frame", method)
	}
	return c.out, nil
}
