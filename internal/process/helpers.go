package process

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strings"
)

// MaxLineSize bounds a single output line. Longer lines are cut to this size;
// the rest of the line is dropped and reading continues with the next line.
const MaxLineSize = 1024 * 1024

const readBufSize = 64 * 1024

// Output stream names passed to a TruncateFunc.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

var ErrAlreadyStarted = errors.New("process already started")

// LineFunc receives one non-blank line of process output.
type LineFunc func(line string)

// TruncateFunc is told about an output line that exceeded MaxLineSize. size is
// the original length of the line in bytes.
type TruncateFunc func(stream string, size int)

// Lines returns the non-blank lines read from r. Trailing carriage returns are
// removed and whitespace-only lines are skipped. Lines longer than MaxLineSize
// are truncated. The sequence ends when r is exhausted or fails.
func Lines(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanLines(r, func(line string, _ int) bool { return yield(line) })
	}
}

// scanLines calls fn for every non-blank line of r until fn returns false or r
// ends. dropped is the number of bytes cut from an oversized line.
func scanLines(r io.Reader, fn func(line string, dropped int) bool) {
	br := bufio.NewReaderSize(r, readBufSize)
	var buf []byte
	dropped := 0
	for {
		chunk, isPrefix, err := br.ReadLine()
		if n := len(chunk); n > 0 {
			room := MaxLineSize - len(buf)
			if n > room {
				dropped += n - room
				chunk = chunk[:room]
			}
			buf = append(buf, chunk...)
		}
		if isPrefix && err == nil {
			continue
		}
		if err != nil && len(buf) == 0 && dropped == 0 {
			return
		}
		line := strings.TrimRight(string(buf), "\r")
		cut := dropped
		buf, dropped = buf[:0], 0
		if strings.TrimSpace(line) != "" && !fn(line, cut) {
			return
		}
		if err != nil {
			return
		}
	}
}

// consume feeds every line of r to fn and then drains r so the writer never blocks.
func consume(r io.Reader, stream string, fn LineFunc, trunc TruncateFunc) {
	scanLines(r, func(line string, dropped int) bool {
		if dropped > 0 && trunc != nil {
			trunc(stream, len(line)+dropped)
		}
		if fn != nil {
			fn(line)
		}
		return true
	})
	_, _ = io.Copy(io.Discard, r)
}
