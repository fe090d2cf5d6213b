package compress

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/pierrec/lz4/v4"
)

// LZ4 is the Compressor/Decompressor pair for the LZ4 frame method,
// reused across blocks within one session.
type LZ4 struct {
	data []byte // compressed scratch buffer
	out  []byte // decompress scratch buffer
	frame []byte

	header [checksumSize + headerSize]byte
}

// NewLZ4 returns a ready-to-use LZ4 codec.
func NewLZ4() *LZ4 { return &LZ4{} }

// Compress wraps data in an LZ4 Compressed Frame; the result is fetched
// via Frame.
func (c *LZ4) Compress(data []byte) error {
	c.data = growTo(c.data, lz4.CompressBlockBound(len(data)))
	var lzc lz4.Compressor
	n, err := lzc.CompressBlock(data, c.data)
	if err != nil {
		return errors.Wrap(err, "lz4 compress")
	}
	if n == 0 {
		// Incompressible input: lz4 signals this by writing nothing;
		// store it verbatim instead.
		c.frame = writeFrame(c.frame, MethodNone, data, len(data))
		return nil
	}
	c.frame = writeFrame(c.frame, MethodLZ4, c.data[:n], len(data))
	return nil
}

// Frame returns the most recent frame built by Compress.
func (c *LZ4) Frame() []byte { return c.frame }

// Decode reads and decompresses one frame from raw.
func (c *LZ4) Decode(raw io.Reader) ([]byte, error) {
	method, rawSize, err := readFrame(raw, &c.header, &c.data)
	if err != nil {
		return nil, err
	}
	c.out = growTo(c.out, rawSize)
	switch method {
	case MethodNone:
		copy(c.out, c.data)
	case MethodLZ4:
		n, err := lz4.UncompressBlock(c.data, c.out)
		if err != nil {
			return nil, errors.Wrap(err, "lz4 decompress")
		}
		c.out = c.out[:n]
	default:
		return nil, errors.Errorf("unexpected compression method %#x in lz4 frame", method)
	}
	return c.out, nil
}
