// Package compress implements the Compressed Frame (§4.H): a checksummed,
// self-describing frame wrapping a single compressed Block, using the same
// on-wire method byte and CityHash128 checksum as the ClickHouse server.
//
// Compressor/Decompressor are interfaces so a caller can plug in a codec
// this package doesn't ship; LZ4 and ZSTD are the two concrete codecs the
// server itself supports.
package compress

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-faster/city"
	"github.com/go-faster/errors"
)

// Method is the compression codec byte stored in a frame header.
type Method byte

const (
	MethodNone Method = 0x02
	MethodLZ4  Method = 0x82
	MethodZSTD Method = 0x90
)

// headerSize is the size of everything after the checksum: method byte,
// compressed size (includes this header) and uncompressed size.
const headerSize = 1 + 4 + 4
const checksumSize = 16

// Compressor compresses one block's bytes into a Compressed Frame; Frame
// returns the result until the next call to Compress.
type Compressor interface {
	Compress(data []byte) error
	Frame() []byte
}

// Decompressor implements proto.FrameDecoder: it reads one frame from raw
// and returns its decompressed payload.
type Decompressor interface {
	Decode(raw io.Reader) ([]byte, error)
}

// CorruptedDataErr means the checksum of a decoded frame did not match the
// one carried in its header.
type CorruptedDataErr struct {
	Actual    city.U128
	Reference city.U128
	RawSize   int
	DataSize  int
}

func (e *CorruptedDataErr) Error() string {
	return fmt.Sprintf("corrupted data: %s (actual), %s (reference), compressed size: %d, data size: %d",
		FormatU128(e.Actual), FormatU128(e.Reference), e.RawSize, e.DataSize,
	)
}

// FormatU128 renders a city.U128 as a fixed-width hex string, matching the
// representation the server itself logs on checksum mismatch.
func FormatU128(v city.U128) string {
	return fmt.Sprintf("%016x%016x", v.Low, v.High)
}

func growTo(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

// writeFrame assembles checksum + header + compressed payload into dst,
// growing it as needed, and returns the full frame.
func writeFrame(dst []byte, method Method, compressed []byte, rawSize int) []byte {
	body := make([]byte, headerSize+len(compressed))
	body[0] = byte(method)
	binary.LittleEndian.PutUint32(body[1:5], uint32(headerSize+len(compressed)))
	binary.LittleEndian.PutUint32(body[5:9], uint32(rawSize))
	copy(body[headerSize:], compressed)

	sum := city.CH128(body)
	dst = growTo(dst, checksumSize+len(body))
	binary.LittleEndian.PutUint64(dst[0:8], sum.Low)
	binary.LittleEndian.PutUint64(dst[8:16], sum.High)
	copy(dst[checksumSize:], body)
	return dst
}

// readFrame reads and checksum-verifies one frame from raw, storing its raw
// (compressed) payload in *body and returning its method and declared
// uncompressed size.
func readFrame(raw io.Reader, header *[checksumSize + headerSize]byte, body *[]byte) (Method, int, error) {
	if _, err := io.ReadFull(raw, header[:]); err != nil {
		return 0, 0, errors.Wrap(err, "frame header")
	}
	var refSum city.U128
	refSum.Low = binary.LittleEndian.Uint64(header[0:8])
	refSum.High = binary.LittleEndian.Uint64(header[8:16])

	method := Method(header[16])
	compressedSize := binary.LittleEndian.Uint32(header[17:21])
	rawSize := binary.LittleEndian.Uint32(header[21:25])

	if compressedSize < headerSize {
		return 0, 0, errors.New("invalid frame: compressed size smaller than header")
	}
	bodyLen := int(compressedSize) - headerSize
	*body = growTo(*body, bodyLen)
	if _, err := io.ReadFull(raw, *body); err != nil {
		return 0, 0, errors.Wrap(err, "frame body")
	}

	full := make([]byte, headerSize+bodyLen)
	copy(full, header[checksumSize:])
	copy(full[headerSize:], *body)
	actualSum := city.CH128(full)
	if actualSum != refSum {
		return 0, 0, errors.Wrap(&CorruptedDataErr{
			Actual:    actualSum,
			Reference: refSum,
			RawSize:   int(compressedSize),
			DataSize:  int(rawSize),
		}, "checksum")
	}
	return method, int(rawSize), nil
}
