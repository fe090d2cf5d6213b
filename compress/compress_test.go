package compress

import (
	"bytes"
	"testing"

	"github.com/go-faster/city"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoundTrip(t *testing.T, newCodec func() interface {
	Compressor
	Decompressor
}) {
	t.Helper()
	data := bytes.Repeat([]byte("clickhouse native protocol block payload "), 64)

	enc := newCodec()
	require.NoError(t, enc.Compress(data))
	frame := append([]byte(nil), enc.Frame()...)

	dec := newCodec()
	out, err := dec.Decode(bytes.NewReader(frame))
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestLZ4_RoundTrip(t *testing.T) {
	testRoundTrip(t, func() interface {
		Compressor
		Decompressor
	} {
		return NewLZ4()
	})
}

func TestZSTD_RoundTrip(t *testing.T) {
	testRoundTrip(t, func() interface {
		Compressor
		Decompressor
	} {
		return NewZSTD()
	})
}

func TestLZ4_Decode_CorruptedChecksum(t *testing.T) {
	enc := NewLZ4()
	require.NoError(t, enc.Compress([]byte("some data to compress")))
	frame := append([]byte(nil), enc.Frame()...)
	frame[0] ^= 0xFF // flip a byte inside the checksum

	dec := NewLZ4()
	_, err := dec.Decode(bytes.NewReader(frame))
	require.Error(t, err)

	var badData *CorruptedDataErr
	assert.ErrorAs(t, err, &badData)
}

func TestLZ4_Decode_Incompressible(t *testing.T) {
	// Random-looking short input that lz4 may choose to store verbatim.
	data := []byte{0x01, 0x02, 0x03}
	enc := NewLZ4()
	require.NoError(t, enc.Compress(data))
	frame := append([]byte(nil), enc.Frame()...)

	dec := NewLZ4()
	out, err := dec.Decode(bytes.NewReader(frame))
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestFormatU128(t *testing.T) {
	s := FormatU128(city.U128{Low: 1, High: 2})
	assert.Len(t, s, 32)
}
