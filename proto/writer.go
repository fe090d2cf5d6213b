package proto

import (
	"io"

	"github.com/go-faster/errors"
)

// Writer implements the write side of the Packet Codec plumbing: callers
// stage bytes into the internal Buffer via ChainBuffer, then Flush pushes
// the accumulated bytes to the transport.
//
// Compression (§4.H) is applied by the caller to a sub-range of the staged
// buffer (see Client.encodeBlock), not by Writer itself: only Data blocks
// are compressible, while packet framing written around them is not, so
// Writer stays agnostic to where compression applies.
//
// Writer is not safe for concurrent use; a session owns exactly one Writer
// per §5.
type Writer struct {
	w   io.Writer
	buf *Buffer
}

// NewWriter wraps w for staged writes. buf is the staging Buffer, allowing
// callers to reuse an allocation across calls.
func NewWriter(w io.Writer, buf *Buffer) *Writer {
	if buf == nil {
		buf = new(Buffer)
	}
	return &Writer{w: w, buf: buf}
}

// ChainBuffer stages bytes produced by fn into the writer's Buffer without
// flushing; used to let callers delimit a compressible region.
func (w *Writer) ChainBuffer(fn func(buf *Buffer)) {
	fn(w.buf)
}

// Buf exposes the staged buffer for the rare case a caller needs the raw
// accumulated bytes before Flush (compressed block encoding).
func (w *Writer) Buf() *Buffer { return w.buf }

// Flush writes the staged bytes to the transport and resets the buffer.
// Returns the number of bytes written to the underlying writer.
func (w *Writer) Flush() (int, error) {
	if len(w.buf.Buf) == 0 {
		return 0, nil
	}
	n, err := w.w.Write(w.buf.Buf)
	w.buf.Reset()
	if err != nil {
		return n, errors.Wrap(err, "write")
	}
	return n, nil
}
