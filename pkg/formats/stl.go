package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// STL format errors.
var (
	ErrTruncatedSTLData = errors.New("truncated STL data")
	ErrASCIISTL         = errors.New("ASCII STL is not supported")
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal + 3 vertices (12 float32) + uint16 attribute
)

// STLTriangle is one facet of a binary STL file.
type STLTriangle struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// STL represents a parsed binary STL file.
type STL struct {
	Header    [stlHeaderSize]byte
	Triangles []STLTriangle
}

// WriteSTL writes m as binary STL. Faces are fanned into triangles and each
// facet normal follows the face winding.
func WriteSTL(w io.Writer, m *Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	tris := m.Triangles()
	if uint64(len(tris)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d triangles", ErrInvalidMesh, len(tris))
	}

	bw := bufio.NewWriter(w)

	var header [stlHeaderSize]byte
	copy(header[:], "densurf "+m.Name)
	bw.Write(header[:])
	binary.Write(bw, binary.LittleEndian, uint32(len(tris)))

	var rec [stlTriangleSize]byte
	for _, t := range tris {
		a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		n := triangleNormal(a, b, c)
		off := 0
		for _, v := range [4]r3.Vec{n, a, b, c} {
			for _, f := range [3]float64{v.X, v.Y, v.Z} {
				binary.LittleEndian.PutUint32(rec[off:], math.Float32bits(float32(f)))
				off += 4
			}
		}
		rec[48], rec[49] = 0, 0
		bw.Write(rec[:])
	}
	return bw.Flush()
}

// ParseSTL parses a binary STL file from raw bytes.
func ParseSTL(data []byte) (*STL, error) {
	if len(data) < stlHeaderSize+4 {
		if bytes.HasPrefix(data, []byte("solid")) {
			return nil, ErrASCIISTL
		}
		return nil, ErrTruncatedSTLData
	}

	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	need := uint64(stlHeaderSize) + 4 + uint64(count)*stlTriangleSize
	if uint64(len(data)) < need {
		if bytes.HasPrefix(data, []byte("solid")) {
			return nil, ErrASCIISTL
		}
		return nil, fmt.Errorf("%w: %d triangles need %d bytes, have %d", ErrTruncatedSTLData, count, need, len(data))
	}

	s := &STL{Triangles: make([]STLTriangle, count)}
	copy(s.Header[:], data[:stlHeaderSize])

	r := bytes.NewReader(data[stlHeaderSize+4:])
	for i := range s.Triangles {
		if err := binary.Read(r, binary.LittleEndian, &s.Triangles[i]); err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
	}
	return s, nil
}

// Mesh welds identical corner positions and returns indexed geometry.
func (s *STL) Mesh() *Mesh {
	m := &Mesh{Faces: make([][]int, 0, len(s.Triangles))}
	index := make(map[[3]float32]int)
	for _, t := range s.Triangles {
		face := make([]int, 3)
		for k, v := range t.Vertices {
			idx, ok := index[v]
			if !ok {
				idx = len(m.Vertices)
				index[v] = idx
				m.Vertices = append(m.Vertices, r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
			}
			face[k] = idx
		}
		m.Faces = append(m.Faces, face)
	}
	return m
}

// LoadSTL loads and parses a binary STL file from disk.
func LoadSTL(path string) (*STL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}
	return ParseSTL(data)
}
