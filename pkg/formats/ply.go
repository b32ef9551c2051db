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
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// PLY format errors.
var (
	ErrInvalidPLYMagic      = errors.New("invalid PLY magic: expected 'ply'")
	ErrInvalidPLYHeader     = errors.New("invalid PLY header")
	ErrUnsupportedPLYFormat = errors.New("unsupported PLY format")
	ErrTruncatedPLYData     = errors.New("truncated PLY data")
	ErrInvalidPLYValue      = errors.New("invalid PLY value")
)

// maxPLYListLen bounds list properties so corrupt counts fail early.
const maxPLYListLen = 1 << 16

// PLYEncoding selects the body encoding of a PLY file.
type PLYEncoding int

// Supported encodings.
const (
	PLYBinaryLittleEndian PLYEncoding = iota
	PLYASCII
)

// String returns the header keyword for the encoding.
func (e PLYEncoding) String() string {
	switch e {
	case PLYBinaryLittleEndian:
		return "binary_little_endian"
	case PLYASCII:
		return "ascii"
	default:
		return fmt.Sprintf("Unknown(%d)", int(e))
	}
}

// plyType is a PLY scalar type.
type plyType uint8

const (
	plyInvalid plyType = iota
	plyInt8
	plyUint8
	plyInt16
	plyUint16
	plyInt32
	plyUint32
	plyFloat32
	plyFloat64
)

var plyTypeNames = map[string]plyType{
	"char": plyInt8, "int8": plyInt8,
	"uchar": plyUint8, "uint8": plyUint8,
	"short": plyInt16, "int16": plyInt16,
	"ushort": plyUint16, "uint16": plyUint16,
	"int": plyInt32, "int32": plyInt32,
	"uint": plyUint32, "uint32": plyUint32,
	"float": plyFloat32, "float32": plyFloat32,
	"double": plyFloat64, "float64": plyFloat64,
}

func (t plyType) size() int {
	switch t {
	case plyInt8, plyUint8:
		return 1
	case plyInt16, plyUint16:
		return 2
	case plyInt32, plyUint32, plyFloat32:
		return 4
	case plyFloat64:
		return 8
	default:
		return 0
	}
}

type plyProperty struct {
	name      string
	typ       plyType
	list      bool
	countType plyType
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

// PLYHeader describes a parsed PLY header.
type PLYHeader struct {
	Encoding PLYEncoding
	Comments []string
	elements []plyElement
}

// ElementCount returns the declared count of the named element, or 0.
func (h *PLYHeader) ElementCount(name string) int {
	for _, e := range h.elements {
		if e.name == name {
			return e.count
		}
	}
	return 0
}

// WritePLY writes m as PLY 1.0 with double precision vertices and
// "list uchar int vertex_indices" faces.
func WritePLY(w io.Writer, m *Mesh, enc PLYEncoding) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if enc != PLYBinaryLittleEndian && enc != PLYASCII {
		return fmt.Errorf("%w: %s", ErrUnsupportedPLYFormat, enc)
	}
	for i, f := range m.Faces {
		if len(f) > math.MaxUint8 {
			return fmt.Errorf("%w: face %d has %d corners", ErrInvalidMesh, i, len(f))
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ply\nformat %s 1.0\ncomment densurf\n", enc)
	if m.Name != "" {
		fmt.Fprintf(bw, "obj_info %s\n", m.Name)
	}
	fmt.Fprintf(bw, "element vertex %d\n", len(m.Vertices))
	bw.WriteString("property double x\nproperty double y\nproperty double z\n")
	if len(m.Edges) > 0 {
		fmt.Fprintf(bw, "element edge %d\n", len(m.Edges))
		bw.WriteString("property int vertex1\nproperty int vertex2\n")
	}
	fmt.Fprintf(bw, "element face %d\n", len(m.Faces))
	bw.WriteString("property list uchar int vertex_indices\nend_header\n")

	if enc == PLYASCII {
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "%s %s %s\n", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
		}
		for _, e := range m.Edges {
			fmt.Fprintf(bw, "%d %d\n", e[0], e[1])
		}
		for _, f := range m.Faces {
			bw.WriteString(strconv.Itoa(len(f)))
			for _, idx := range f {
				bw.WriteByte(' ')
				bw.WriteString(strconv.Itoa(idx))
			}
			bw.WriteByte('\n')
		}
		return bw.Flush()
	}

	var buf [8]byte
	for _, v := range m.Vertices {
		for _, c := range [3]float64{v.X, v.Y, v.Z} {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c))
			bw.Write(buf[:8])
		}
	}
	for _, e := range m.Edges {
		binary.LittleEndian.PutUint32(buf[:], uint32(int32(e[0])))
		binary.LittleEndian.PutUint32(buf[4:], uint32(int32(e[1])))
		bw.Write(buf[:8])
	}
	for _, f := range m.Faces {
		bw.WriteByte(byte(len(f)))
		for _, idx := range f {
			binary.LittleEndian.PutUint32(buf[:], uint32(int32(idx)))
			bw.Write(buf[:4])
		}
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParsePLY parses a PLY file in ascii or binary_little_endian encoding.
// The vertex element must carry x, y and z; faces are read from the
// vertex_indices (or vertex_index) list; edges from vertex1/vertex2.
// Other elements and properties are skipped.
func ParsePLY(data []byte) (*Mesh, *PLYHeader, error) {
	hdr, body, err := parsePLYHeader(data)
	if err != nil {
		return nil, nil, err
	}

	var src plySource
	if hdr.Encoding == PLYASCII {
		src = &plyASCIISource{fields: strings.Fields(string(body))}
	} else {
		src = &plyBinarySource{data: body}
	}

	m := &Mesh{}
	for _, el := range hdr.elements {
		if err := readPLYElement(src, el, m); err != nil {
			return nil, nil, err
		}
	}
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	return m, hdr, nil
}

func parsePLYHeader(data []byte) (*PLYHeader, []byte, error) {
	if !bytes.HasPrefix(data, []byte("ply")) {
		return nil, nil, ErrInvalidPLYMagic
	}
	end := bytes.Index(data, []byte("end_header"))
	if end < 0 {
		return nil, nil, fmt.Errorf("%w: missing end_header", ErrInvalidPLYHeader)
	}
	bodyStart := end + len("end_header")
	if bodyStart < len(data) && data[bodyStart] == '\r' {
		bodyStart++
	}
	if bodyStart < len(data) && data[bodyStart] == '\n' {
		bodyStart++
	}

	hdr := &PLYHeader{}
	haveFormat := false
	lines := strings.Split(strings.ReplaceAll(string(data[:end]), "\r", ""), "\n")
	for i, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) != 3 {
				return nil, nil, fmt.Errorf("%w: line %d: %q", ErrInvalidPLYHeader, i+2, line)
			}
			switch fields[1] {
			case "ascii":
				hdr.Encoding = PLYASCII
			case "binary_little_endian":
				hdr.Encoding = PLYBinaryLittleEndian
			default:
				return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedPLYFormat, fields[1])
			}
			if fields[2] != "1.0" {
				return nil, nil, fmt.Errorf("%w: version %s", ErrUnsupportedPLYFormat, fields[2])
			}
			haveFormat = true
		case "comment", "obj_info":
			hdr.Comments = append(hdr.Comments, strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
		case "element":
			if len(fields) != 3 {
				return nil, nil, fmt.Errorf("%w: line %d: %q", ErrInvalidPLYHeader, i+2, line)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, nil, fmt.Errorf("%w: bad element count %q", ErrInvalidPLYHeader, fields[2])
			}
			hdr.elements = append(hdr.elements, plyElement{name: fields[1], count: count})
		case "property":
			if len(hdr.elements) == 0 {
				return nil, nil, fmt.Errorf("%w: property before element", ErrInvalidPLYHeader)
			}
			prop, err := parsePLYProperty(fields)
			if err != nil {
				return nil, nil, err
			}
			el := &hdr.elements[len(hdr.elements)-1]
			el.props = append(el.props, prop)
		default:
			return nil, nil, fmt.Errorf("%w: unknown keyword %q", ErrInvalidPLYHeader, fields[0])
		}
	}
	if !haveFormat {
		return nil, nil, fmt.Errorf("%w: missing format line", ErrInvalidPLYHeader)
	}
	return hdr, data[bodyStart:], nil
}

func parsePLYProperty(fields []string) (plyProperty, error) {
	if len(fields) == 5 && fields[1] == "list" {
		ct, ok1 := plyTypeNames[fields[2]]
		vt, ok2 := plyTypeNames[fields[3]]
		if !ok1 || !ok2 || ct == plyFloat32 || ct == plyFloat64 {
			return plyProperty{}, fmt.Errorf("%w: bad list property %v", ErrInvalidPLYHeader, fields[1:])
		}
		return plyProperty{name: fields[4], typ: vt, list: true, countType: ct}, nil
	}
	if len(fields) != 3 {
		return plyProperty{}, fmt.Errorf("%w: bad property %v", ErrInvalidPLYHeader, fields[1:])
	}
	t, ok := plyTypeNames[fields[1]]
	if !ok {
		return plyProperty{}, fmt.Errorf("%w: unknown type %q", ErrInvalidPLYHeader, fields[1])
	}
	return plyProperty{name: fields[2], typ: t}, nil
}

// plySource yields successive scalar values from a PLY body.
type plySource interface {
	next(t plyType) (float64, error)
}

type plyBinarySource struct {
	data []byte
	off  int
}

func (s *plyBinarySource) next(t plyType) (float64, error) {
	n := t.size()
	if s.off+n > len(s.data) {
		return 0, ErrTruncatedPLYData
	}
	b := s.data[s.off : s.off+n]
	s.off += n
	switch t {
	case plyInt8:
		return float64(int8(b[0])), nil
	case plyUint8:
		return float64(b[0]), nil
	case plyInt16:
		return float64(int16(binary.LittleEndian.Uint16(b))), nil
	case plyUint16:
		return float64(binary.LittleEndian.Uint16(b)), nil
	case plyInt32:
		return float64(int32(binary.LittleEndian.Uint32(b))), nil
	case plyUint32:
		return float64(binary.LittleEndian.Uint32(b)), nil
	case plyFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	}
}

type plyASCIISource struct {
	fields []string
	pos    int
}

func (s *plyASCIISource) next(plyType) (float64, error) {
	if s.pos >= len(s.fields) {
		return 0, ErrTruncatedPLYData
	}
	v, err := strconv.ParseFloat(s.fields[s.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: token %d: %v", ErrInvalidPLYValue, s.pos, err)
	}
	s.pos++
	return v, nil
}

func readPLYElement(src plySource, el plyElement, m *Mesh) error {
	for i := 0; i < el.count; i++ {
		var pos [3]float64
		var edge [2]int
		var face []int

		for _, p := range el.props {
			if p.list {
				cnt, err := src.next(p.countType)
				if err != nil {
					return fmt.Errorf("%s %d: %w", el.name, i, err)
				}
				if cnt < 0 || cnt > maxPLYListLen {
					return fmt.Errorf("%s %d: %w: list length %g", el.name, i, ErrInvalidPLYValue, cnt)
				}
				values := make([]int, int(cnt))
				for k := range values {
					v, err := src.next(p.typ)
					if err != nil {
						return fmt.Errorf("%s %d: %w", el.name, i, err)
					}
					values[k] = int(v)
				}
				if p.name == "vertex_indices" || p.name == "vertex_index" {
					face = values
				}
				continue
			}

			v, err := src.next(p.typ)
			if err != nil {
				return fmt.Errorf("%s %d: %w", el.name, i, err)
			}
			switch p.name {
			case "x":
				pos[0] = v
			case "y":
				pos[1] = v
			case "z":
				pos[2] = v
			case "vertex1":
				edge[0] = int(v)
			case "vertex2":
				edge[1] = int(v)
			}
		}

		switch el.name {
		case "vertex":
			m.Vertices = append(m.Vertices, r3.Vec{X: pos[0], Y: pos[1], Z: pos[2]})
		case "edge":
			m.Edges = append(m.Edges, edge)
		case "face":
			m.Faces = append(m.Faces, face)
		}
	}
	return nil
}

// LoadPLY loads and parses a PLY file from disk.
func LoadPLY(path string) (*Mesh, *PLYHeader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading PLY file: %w", err)
	}
	return ParsePLY(data)
}
