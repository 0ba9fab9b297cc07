package serialport

import (
	"bytes"
	"io"

	"taglog/internal/textutil"
)

// MaxLineLength is the longest line LineReader buffers before treating the
// input as noise.
const MaxLineLength = 4096

const readChunkSize = 256

// LineReader splits a serial byte stream into trimmed text lines. Partial
// lines are kept across timed-out reads. Blank lines are skipped.
type LineReader struct {
	src        io.Reader
	chunk      []byte
	pending    []byte
	discarding bool
	dropped    int
	err        error
}

// NewLineReader wraps src.
func NewLineReader(src io.Reader) *LineReader {
	return &LineReader{src: src, chunk: make([]byte, readChunkSize)}
}

// Next performs at most one read on the underlying source and returns the
// next complete line. ok is false when the read timed out before a full
// line arrived. A read error is returned once all buffered lines have been
// drained.
func (r *LineReader) Next() (line string, ok bool, err error) {
	if line, ok := r.take(); ok {
		return line, true, nil
	}
	if r.err != nil {
		return "", false, r.err
	}

	n, err := r.src.Read(r.chunk)
	if n > 0 {
		r.append(r.chunk[:n])
	}
	if err != nil {
		r.err = err
	}

	if line, ok := r.take(); ok {
		return line, true, nil
	}
	return "", false, r.err
}

// Dropped reports how many oversized lines were discarded.
func (r *LineReader) Dropped() int {
	return r.dropped
}

func (r *LineReader) take() (string, bool) {
	for {
		idx := bytes.IndexByte(r.pending, '\n')
		if idx < 0 {
			return "", false
		}
		line := textutil.DecodeLine(r.pending[:idx])
		r.pending = append(r.pending[:0], r.pending[idx+1:]...)
		if line != "" {
			return line, true
		}
	}
}

func (r *LineReader) append(data []byte) {
	if r.discarding {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			return
		}
		r.discarding = false
		data = data[idx+1:]
	}
	r.pending = append(r.pending, data...)

	tail := len(r.pending) - (bytes.LastIndexByte(r.pending, '\n') + 1)
	if tail > MaxLineLength {
		r.pending = r.pending[:len(r.pending)-tail]
		r.discarding = true
		r.dropped++
	}
}
