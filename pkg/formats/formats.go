// Package formats parses the text formats of the character demo: the .mdl
// model description and the restricted Wavefront .obj mesh subset.
package formats

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// MaxLineLength is the longest line, newline included, accepted by the parsers.
const MaxLineLength = 1024

// lineReader yields lines with their 1-based numbers and turns an overlong
// line into a SyntaxError.
type lineReader struct {
	sc   *bufio.Scanner
	line int
	text string
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), MaxLineLength)
	return &lineReader{sc: sc}
}

func (lr *lineReader) next() bool {
	if !lr.sc.Scan() {
		return false
	}
	lr.line++
	lr.text = strings.TrimRight(lr.sc.Text(), "\r")
	return true
}

func (lr *lineReader) err() error {
	err := lr.sc.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, bufio.ErrTooLong) {
		return &SyntaxError{Line: lr.line + 1, Err: ErrLineTooLong}
	}
	return errors.Wrap(err, "reading input")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
