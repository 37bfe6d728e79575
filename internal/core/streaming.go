package core

// streaming.go wraps the registry source before CSV parsing:
//
//   - a UTF-8 BOM written by Windows exports is dropped
//   - invalid UTF-8 bytes become '?' so a damaged name cannot break a row
//   - bytes are counted for load statistics
//
// Valid multi-byte sequences, including every Romanian letter, pass through
// untouched.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// countingReader tracks bytes read from the underlying reader.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// utf8Sanitizer replaces invalid UTF-8 bytes with '?'. Sequences split across
// reads are held back until the next call.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte
	err     error
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for {
		if len(s.pending) > 0 {
			if n := s.emit(p, s.err != nil); n > 0 {
				return n, nil
			}
		}

		if s.err != nil {
			if len(s.pending) > 0 {
				return 0, io.ErrShortBuffer
			}
			return 0, s.err
		}

		buf := make([]byte, len(p))
		n, err := s.r.Read(buf)
		s.pending = append(s.pending, buf[:n]...)
		s.err = err
	}
}

// emit copies sanitized bytes from pending into p. An incomplete sequence at
// the end of pending is kept unless atEOF.
func (s *utf8Sanitizer) emit(p []byte, atEOF bool) int {
	written, read := 0, 0
	for read < len(s.pending) && written < len(p) {
		b := s.pending[read]
		if b < utf8.RuneSelf {
			p[written] = b
			written++
			read++
			continue
		}

		rest := s.pending[read:]
		if !atEOF && !utf8.FullRune(rest) {
			break
		}

		r, size := utf8.DecodeRune(rest)
		if r == utf8.RuneError && size == 1 {
			p[written] = '?'
			written++
			read++
			continue
		}
		if written+size > len(p) {
			break
		}
		copy(p[written:], rest[:size])
		written += size
		read += size
	}

	s.pending = s.pending[:copy(s.pending, s.pending[read:])]
	return written
}

// newSourceReader prepares r for CSV parsing. The counter sees the raw bytes,
// BOM included.
func newSourceReader(r io.Reader) (*countingReader, io.Reader) {
	counter := &countingReader{r: r}

	br := bufio.NewReader(counter)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	return counter, &utf8Sanitizer{r: br}
}
