package tcp

import (
	"io"
)

// DefaultReadBufferSize bounds how many bytes are read from one inbound connection.
const DefaultReadBufferSize = 1024

// readFrame reads until EOF or max bytes, whichever comes first.
// On error the bytes read so far are returned alongside it.
func readFrame(r io.Reader, max int) ([]byte, error) {
	if max <= 0 {
		max = DefaultReadBufferSize
	}
	return io.ReadAll(io.LimitReader(r, int64(max)))
}

// writeFrame writes the whole frame or reports why it could not.
func writeFrame(w io.Writer, frame []byte) error {
	n, err := w.Write(frame)
	if err != nil {
		return err
	}
	if n != len(frame) {
		return io.ErrShortWrite
	}
	return nil
}
