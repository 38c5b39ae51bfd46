package formats

import (
	"fmt"

	"github.com/pkg/errors"
)

// Text format errors.
var (
	ErrLineTooLong     = errors.New("line exceeds maximum length")
	ErrFieldCount      = errors.New("wrong number of fields")
	ErrBadNumber       = errors.New("invalid number")
	ErrEmptyName       = errors.New("empty name")
	ErrNoModel         = errors.New("no model declaration")
	ErrDuplicateModel  = errors.New("model declared twice")
	ErrBadFrameCount   = errors.New("animation frame count must be positive")
	ErrShortAnimation  = errors.New("animation block ended before all frames were read")
	ErrNotFrame        = errors.New("expected frame line")
	ErrBadInterval     = errors.New("frame interval must be positive")
	ErrFrameValues     = errors.New("frame rotation count does not match bone count")
	ErrNotTriangle     = errors.New("face is not a triangle")
	ErrMissingTexCoord = errors.New("face corner has no texture coordinate index")
	ErrBadCorner       = errors.New("face corner must be vertex/texcoord")
	ErrRelativeIndex   = errors.New("relative face indices are not supported")
	ErrIndexRange      = errors.New("face index out of range")
)

// SyntaxError locates a format error in a text file.
type SyntaxError struct {
	Line  int    // 1-based line number, 0 when unknown
	Kind  string // line kind, e.g. "b" or "f"
	Field string // offending field name, if any
	Err   error
}

func (e *SyntaxError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("field %q: %s", e.Field, msg)
	}
	if e.Kind != "" {
		msg = fmt.Sprintf("%q line: %s", e.Kind, msg)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// Unwrap returns the underlying sentinel error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// atLine fills in the line number of a SyntaxError produced by a line-level parser.
func atLine(err error, line int) error {
	var se *SyntaxError
	if errors.As(err, &se) && se.Line == 0 {
		se.Line = line
	}
	return err
}
