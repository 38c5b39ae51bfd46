package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Line kinds of the .mdl format.
const (
	KindModel     = "m"
	KindBone      = "b"
	KindAnimation = "a"
	KindFrame     = "f"
)

var (
	modelSchema = Schema{
		Kind: KindModel,
		Fields: []Field{
			{Name: "name", Kind: FieldString},
			{Name: "slots", Kind: FieldInt},
			{Name: "texture", Kind: FieldString},
		},
	}
	boneSchema = Schema{
		Kind: KindBone,
		Fields: []Field{
			{Name: "name", Kind: FieldString},
			{Name: "rx", Kind: FieldFloat},
			{Name: "ry", Kind: FieldFloat},
			{Name: "rz", Kind: FieldFloat},
			{Name: "length", Kind: FieldFloat},
			{Name: "parent", Kind: FieldString},
			{Name: "mesh", Kind: FieldString},
			{Name: "flag", Kind: FieldString, Optional: true},
		},
	}
	animationSchema = Schema{
		Kind: KindAnimation,
		Fields: []Field{
			{Name: "frames", Kind: FieldInt},
		},
	}
)

// BoneDecl is one "b" line.
type BoneDecl struct {
	Line     int
	Name     string
	Rotation [3]float32 // degrees, relative to the parent
	Length   float32
	Parent   string // empty for the root
	Mesh     string // empty for a pure joint
	Flag     string // "F..." selects flat normals
}

// FrameDecl is one "f" line: an interval and 3 rotation values per bone.
type FrameDecl struct {
	Line      int
	Interval  int // milliseconds
	Rotations []float32
}

// AnimationDecl is an "a" line and the frame lines that follow it.
type AnimationDecl struct {
	Line   int
	Frames []FrameDecl
}

// MDL is a parsed model description. Nothing in it is resolved: mesh and
// texture paths and parent names are kept as written.
type MDL struct {
	Name           string
	AnimationSlots int
	Texture        string
	Bones          []BoneDecl
	Animations     []AnimationDecl
}

// LoadMDL reads and parses a .mdl file.
func LoadMDL(path string) (*MDL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening model")
	}
	defer f.Close()

	m, err := ParseMDL(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return m, nil
}

// ParseMDL parses a model description in a single pass. Frame lines must
// carry exactly three values for every bone declared before their "a" line.
func ParseMDL(r io.Reader) (*MDL, error) {
	lr := newLineReader(r)
	var mdl *MDL

	for lr.next() {
		tokens := Tokenize(lr.text)
		if len(tokens) == 0 || isBlank(lr.text) {
			continue
		}

		switch tokens[0] {
		case KindModel:
			if mdl != nil {
				return nil, &SyntaxError{Line: lr.line, Kind: KindModel, Err: ErrDuplicateModel}
			}
			rec, err := modelSchema.Parse(lr.text, lr.line)
			if err != nil {
				return nil, err
			}
			if rec.String("name") == "" {
				return nil, &SyntaxError{Line: lr.line, Kind: KindModel, Field: "name", Err: ErrEmptyName}
			}
			mdl = &MDL{
				Name:           rec.String("name"),
				AnimationSlots: rec.Int("slots"),
				Texture:        rec.String("texture"),
			}

		case KindBone:
			if mdl == nil {
				return nil, &SyntaxError{Line: lr.line, Kind: KindBone, Err: ErrNoModel}
			}
			rec, err := boneSchema.Parse(lr.text, lr.line)
			if err != nil {
				return nil, err
			}
			if rec.String("name") == "" {
				return nil, &SyntaxError{Line: lr.line, Kind: KindBone, Field: "name", Err: ErrEmptyName}
			}
			mdl.Bones = append(mdl.Bones, BoneDecl{
				Line:     lr.line,
				Name:     rec.String("name"),
				Rotation: [3]float32{rec.Float("rx"), rec.Float("ry"), rec.Float("rz")},
				Length:   rec.Float("length"),
				Parent:   rec.String("parent"),
				Mesh:     rec.String("mesh"),
				Flag:     rec.String("flag"),
			})

		case KindAnimation:
			if mdl == nil {
				return nil, &SyntaxError{Line: lr.line, Kind: KindAnimation, Err: ErrNoModel}
			}
			rec, err := animationSchema.Parse(lr.text, lr.line)
			if err != nil {
				return nil, err
			}
			count := rec.Int("frames")
			if count <= 0 {
				return nil, &SyntaxError{Line: lr.line, Kind: KindAnimation, Field: "frames", Err: ErrBadFrameCount}
			}
			anim := AnimationDecl{Line: lr.line}
			anim.Frames, err = readFrames(lr, count, len(mdl.Bones))
			if err != nil {
				return nil, err
			}
			mdl.Animations = append(mdl.Animations, anim)
		}
	}
	if err := lr.err(); err != nil {
		return nil, err
	}
	if mdl == nil {
		return nil, &SyntaxError{Kind: KindModel, Err: ErrNoModel}
	}
	return mdl, nil
}

// readFrames consumes the frame lines of one animation block straight from
// the stream.
func readFrames(lr *lineReader, count, bones int) ([]FrameDecl, error) {
	frames := make([]FrameDecl, 0, count)
	for len(frames) < count {
		if !lr.next() {
			if err := lr.err(); err != nil {
				return nil, err
			}
			return nil, &SyntaxError{Line: lr.line, Kind: KindAnimation, Err: ErrShortAnimation}
		}
		if isBlank(lr.text) {
			continue
		}
		frame, err := ParseFrame(lr.text, bones)
		if err != nil {
			return nil, atLine(err, lr.line)
		}
		frame.Line = lr.line
		frames = append(frames, frame)
	}
	return frames, nil
}

// ParseFrame parses "f <interval> <rx1> <ry1> <rz1> ..." for the given bone
// count. Values may be separated by any whitespace.
func ParseFrame(line string, bones int) (FrameDecl, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != KindFrame {
		return FrameDecl{}, &SyntaxError{Kind: KindFrame, Err: ErrNotFrame}
	}
	if len(fields) < 2 {
		return FrameDecl{}, &SyntaxError{Kind: KindFrame, Err: ErrFieldCount}
	}

	interval, err := strconv.Atoi(fields[1])
	if err != nil {
		return FrameDecl{}, &SyntaxError{Kind: KindFrame, Field: "interval", Err: ErrBadNumber}
	}
	if interval <= 0 {
		return FrameDecl{}, &SyntaxError{Kind: KindFrame, Field: "interval", Err: ErrBadInterval}
	}

	values := fields[2:]
	if len(values) != 3*bones {
		return FrameDecl{}, &SyntaxError{Kind: KindFrame, Err: ErrFrameValues}
	}
	frame := FrameDecl{Interval: interval, Rotations: make([]float32, len(values))}
	for i, s := range values {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return FrameDecl{}, &SyntaxError{Kind: KindFrame, Field: fmt.Sprintf("value %d", i), Err: ErrBadNumber}
		}
		frame.Rotations[i] = float32(v)
	}
	return frame, nil
}

// WriteAnimation writes frames as an "a" block that ParseMDL reads back.
// Rotations are written with two decimals.
func WriteAnimation(w io.Writer, frames []FrameDecl) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d\n", KindAnimation, len(frames))
	for _, f := range frames {
		fmt.Fprintf(bw, "%s %d", KindFrame, f.Interval)
		for _, v := range f.Rotations {
			fmt.Fprintf(bw, " %.2f", v)
		}
		bw.WriteString("\n")
	}
	return errors.Wrap(bw.Flush(), "writing animation")
}
