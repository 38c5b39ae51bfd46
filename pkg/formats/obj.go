package formats

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// OBJ line kinds understood by ParseOBJ. Everything else is skipped.
const (
	objVertex   = "v"
	objTexCoord = "vt"
	objFace     = "f"
)

// OBJCorner is one face corner: 0-based indices into Vertices and TexCoords.
type OBJCorner struct {
	Vertex   int
	TexCoord int
}

// OBJFace is a triangle.
type OBJFace struct {
	Corners [3]OBJCorner
}

// OBJ holds raw mesh data from a Wavefront subset file: positions, texture
// coordinates, triangles, and for every vertex the faces that use it.
type OBJ struct {
	Vertices    [][3]float32
	TexCoords   [][2]float32
	Faces       []OBJFace
	VertexFaces [][]int
}

// LoadOBJ reads and parses an .obj file.
func LoadOBJ(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading mesh")
	}
	obj, err := ParseOBJ(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return obj, nil
}

// ParseOBJ parses mesh data in two passes: the first counts vertex, texture
// coordinate and face lines, the second fills arrays of exactly that size.
// Faces must be triangles written as vertex/texcoord corners with positive
// 1-based indices.
func ParseOBJ(data []byte) (*OBJ, error) {
	var nv, nvt, nf int

	lr := newLineReader(bytes.NewReader(data))
	for lr.next() {
		switch lineKind(lr.text) {
		case objVertex:
			nv++
		case objTexCoord:
			nvt++
		case objFace:
			nf++
		}
	}
	if err := lr.err(); err != nil {
		return nil, err
	}

	obj := &OBJ{
		Vertices:    make([][3]float32, 0, nv),
		TexCoords:   make([][2]float32, 0, nvt),
		Faces:       make([]OBJFace, 0, nf),
		VertexFaces: make([][]int, nv),
	}

	lr = newLineReader(bytes.NewReader(data))
	for lr.next() {
		fields := strings.Fields(lr.text)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case objVertex:
			var v [3]float32
			if err := parseFloats(fields[1:], v[:]); err != nil {
				return nil, &SyntaxError{Line: lr.line, Kind: objVertex, Err: err}
			}
			obj.Vertices = append(obj.Vertices, v)

		case objTexCoord:
			var vt [2]float32
			if err := parseFloats(fields[1:], vt[:]); err != nil {
				return nil, &SyntaxError{Line: lr.line, Kind: objTexCoord, Err: err}
			}
			obj.TexCoords = append(obj.TexCoords, vt)

		case objFace:
			face, err := parseFace(fields[1:], nv, nvt)
			if err != nil {
				return nil, &SyntaxError{Line: lr.line, Kind: objFace, Err: err}
			}
			fi := len(obj.Faces)
			for _, c := range face.Corners {
				obj.VertexFaces[c.Vertex] = append(obj.VertexFaces[c.Vertex], fi)
			}
			obj.Faces = append(obj.Faces, face)
		}
	}
	if err := lr.err(); err != nil {
		return nil, err
	}

	if len(obj.Vertices) != nv || len(obj.TexCoords) != nvt || len(obj.Faces) != nf {
		return nil, errors.Errorf("mesh counts changed between passes: %d/%d/%d vs %d/%d/%d",
			nv, nvt, nf, len(obj.Vertices), len(obj.TexCoords), len(obj.Faces))
	}
	return obj, nil
}

func lineKind(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// parseFloats fills dst from fields. Missing components stay zero and extra
// ones (such as w) are ignored.
func parseFloats(fields []string, dst []float32) error {
	for i := range dst {
		if i >= len(fields) {
			break
		}
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return ErrBadNumber
		}
		dst[i] = float32(v)
	}
	return nil
}

func parseFace(corners []string, nv, nvt int) (OBJFace, error) {
	var face OBJFace
	if len(corners) != 3 {
		return face, ErrNotTriangle
	}
	for i, c := range corners {
		parts := strings.Split(c, "/")
		if len(parts) == 1 || (len(parts) == 2 && parts[1] == "") {
			return face, ErrMissingTexCoord
		}
		if len(parts) != 2 {
			return face, ErrBadCorner
		}
		v, err := parseIndex(parts[0], nv)
		if err != nil {
			return face, err
		}
		vt, err := parseIndex(parts[1], nvt)
		if err != nil {
			return face, err
		}
		face.Corners[i] = OBJCorner{Vertex: v, TexCoord: vt}
	}
	return face, nil
}

// parseIndex converts a 1-based index into a 0-based one checked against count.
func parseIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrBadNumber
	}
	if idx < 0 {
		return 0, ErrRelativeIndex
	}
	if idx == 0 || idx > count {
		return 0, ErrIndexRange
	}
	return idx - 1, nil
}
