package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// OBJ format errors.
var (
	ErrInvalidOBJRecord = errors.New("invalid OBJ record")
	ErrOBJIndexRange    = errors.New("OBJ index out of range")
)

// WriteOBJ writes m as a Wavefront OBJ object with 1-based indices.
func WriteOBJ(w io.Writer, m *Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# densurf: %d vertices, %d faces\n", len(m.Vertices), len(m.Faces))
	if m.Name != "" {
		fmt.Fprintf(bw, "o %s\n", m.Name)
	}

	var line []byte
	for _, v := range m.Vertices {
		line = append(line[:0], 'v')
		for _, c := range [3]float64{v.X, v.Y, v.Z} {
			line = append(line, ' ')
			line = strconv.AppendFloat(line, c, 'g', -1, 64)
		}
		line = append(line, '\n')
		bw.Write(line)
	}
	for _, e := range m.Edges {
		fmt.Fprintf(bw, "l %d %d\n", e[0]+1, e[1]+1)
	}
	for _, f := range m.Faces {
		line = append(line[:0], 'f')
		for _, idx := range f {
			line = append(line, ' ')
			line = strconv.AppendInt(line, int64(idx+1), 10)
		}
		line = append(line, '\n')
		bw.Write(line)
	}
	return bw.Flush()
}

// ParseOBJ parses the geometry records of an OBJ file. Vertex positions,
// polylines and faces are read; texture, normal and grouping records are
// ignored. Negative (relative) indices are resolved.
func ParseOBJ(data []byte) (*Mesh, error) {
	m := &Mesh{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "o":
			if m.Name == "" && len(fields) > 1 {
				m.Name = strings.Join(fields[1:], " ")
			}
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrInvalidOBJRecord, lineNo)
			}
			var c [3]float64
			for i := range c {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJRecord, lineNo, err)
				}
				c[i] = f
			}
			m.Vertices = append(m.Vertices, r3.Vec{X: c[0], Y: c[1], Z: c[2]})
		case "l":
			idx, err := objIndices(fields[1:], len(m.Vertices), lineNo)
			if err != nil {
				return nil, err
			}
			for i := 0; i+1 < len(idx); i++ {
				m.Edges = append(m.Edges, [2]int{idx[i], idx[i+1]})
			}
		case "f":
			idx, err := objIndices(fields[1:], len(m.Vertices), lineNo)
			if err != nil {
				return nil, err
			}
			if len(idx) < 3 {
				return nil, fmt.Errorf("%w: line %d: face needs 3 corners", ErrInvalidOBJRecord, lineNo)
			}
			m.Faces = append(m.Faces, idx)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// objIndices converts "a", "a/b", "a//c" and "a/b/c" references to 0-based
// vertex indices.
func objIndices(refs []string, nverts, lineNo int) ([]int, error) {
	out := make([]int, len(refs))
	for i, ref := range refs {
		if slash := strings.IndexByte(ref, '/'); slash >= 0 {
			ref = ref[:slash]
		}
		n, err := strconv.Atoi(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJRecord, lineNo, err)
		}
		switch {
		case n > 0:
			n--
		case n < 0:
			n += nverts
		default:
			return nil, fmt.Errorf("%w: line %d: index 0", ErrOBJIndexRange, lineNo)
		}
		if n < 0 || n >= nverts {
			return nil, fmt.Errorf("%w: line %d: %s with %d vertices", ErrOBJIndexRange, lineNo, refs[i], nverts)
		}
		out[i] = n
	}
	return out, nil
}

// LoadOBJ loads and parses an OBJ file from disk.
func LoadOBJ(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}
