package formats

import (
	"strconv"
	"strings"
)

// Separator delimits fields in .mdl declaration lines. Consecutive separators
// produce empty fields, which is how optional parents and meshes are left out.
const Separator = " "

// emptyField is accepted as an explicit spelling of an empty field.
const emptyField = `""`

// FieldKind is the value type of a record field.
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldFloat
	FieldInt
)

// Field describes one positional field of a record.
type Field struct {
	Name     string
	Kind     FieldKind
	Optional bool // may be omitted at the end of the line
}

// Schema describes a line kind: its leading keyword and its fields in order.
// Optional fields must come last.
type Schema struct {
	Kind   string
	Fields []Field
}

// Record is one parsed, type-checked line.
type Record struct {
	Kind    string
	Line    int
	strs    map[string]string
	numbers map[string]float64
}

// Tokenize splits a line on single separators. An empty line yields no tokens.
func Tokenize(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil
	}
	tokens := strings.Split(line, Separator)
	for i, tok := range tokens {
		if tok == emptyField {
			tokens[i] = ""
		}
	}
	return tokens
}

func (s *Schema) required() int {
	n := 0
	for _, f := range s.Fields {
		if !f.Optional {
			n++
		}
	}
	return n
}

// Parse tokenizes line and checks it against the schema. lineNo is carried
// into the record and any SyntaxError.
func (s *Schema) Parse(line string, lineNo int) (*Record, error) {
	tokens := Tokenize(line)
	if len(tokens) == 0 || tokens[0] != s.Kind {
		return nil, &SyntaxError{Line: lineNo, Kind: s.Kind, Err: ErrFieldCount}
	}
	args := tokens[1:]

	// Trailing separators beyond the last field only add empty tokens.
	for len(args) > len(s.Fields) && args[len(args)-1] == "" {
		args = args[:len(args)-1]
	}
	if len(args) < s.required() || len(args) > len(s.Fields) {
		return nil, &SyntaxError{Line: lineNo, Kind: s.Kind, Err: ErrFieldCount}
	}

	rec := &Record{
		Kind:    s.Kind,
		Line:    lineNo,
		strs:    make(map[string]string, len(s.Fields)),
		numbers: make(map[string]float64),
	}
	for i, f := range s.Fields {
		if i >= len(args) {
			break
		}
		val := args[i]
		rec.strs[f.Name] = val

		switch f.Kind {
		case FieldFloat:
			v, err := strconv.ParseFloat(val, 32)
			if err != nil {
				return nil, &SyntaxError{Line: lineNo, Kind: s.Kind, Field: f.Name, Err: ErrBadNumber}
			}
			rec.numbers[f.Name] = v
		case FieldInt:
			v, err := strconv.Atoi(val)
			if err != nil {
				return nil, &SyntaxError{Line: lineNo, Kind: s.Kind, Field: f.Name, Err: ErrBadNumber}
			}
			rec.numbers[f.Name] = float64(v)
		}
	}
	return rec, nil
}

// Has reports whether the field was present on the line.
func (r *Record) Has(name string) bool {
	_, ok := r.strs[name]
	return ok
}

// String returns the raw text of a field, or "" if absent.
func (r *Record) String(name string) string {
	return r.strs[name]
}

// Float returns a float field, or 0 if absent.
func (r *Record) Float(name string) float32 {
	return float32(r.numbers[name])
}

// Int returns an int field, or 0 if absent.
func (r *Record) Int(name string) int {
	return int(r.numbers[name])
}
