package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestWritePLY_ASCII(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePLY(&buf, unitQuad(), PLYASCII); err != nil {
		t.Fatalf("WritePLY failed: %v", err)
	}

	want := strings.Join([]string{
		"ply",
		"format ascii 1.0",
		"comment densurf",
		"obj_info quad",
		"element vertex 4",
		"property double x",
		"property double y",
		"property double z",
		"element face 1",
		"property list uchar int vertex_indices",
		"end_header",
		"0 0 0",
		"0 1 0",
		"1 0 0.5",
		"1 1 0.25",
		"4 0 1 3 2",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("PLY output mismatch (-want +got):\n%s", diff)
	}
}

func TestPLY_RoundTrip(t *testing.T) {
	in := unitQuad()
	in.Vertices[3].Z = math.Pi
	in.Edges = [][2]int{{1, 2}}

	for _, enc := range []PLYEncoding{PLYBinaryLittleEndian, PLYASCII} {
		t.Run(enc.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePLY(&buf, in, enc); err != nil {
				t.Fatalf("WritePLY failed: %v", err)
			}

			out, hdr, err := ParsePLY(buf.Bytes())
			if err != nil {
				t.Fatalf("ParsePLY failed: %v", err)
			}
			if hdr.Encoding != enc {
				t.Errorf("expected encoding %s, got %s", enc, hdr.Encoding)
			}
			if hdr.ElementCount("vertex") != 4 || hdr.ElementCount("face") != 1 || hdr.ElementCount("edge") != 1 {
				t.Errorf("unexpected element counts in header")
			}
			if diff := cmp.Diff([]string{"densurf", "quad"}, hdr.Comments); diff != "" {
				t.Errorf("comments mismatch (-want +got):\n%s", diff)
			}

			in := *in
			in.Name = "" // PLY keeps the name as obj_info only
			if diff := cmp.Diff(&in, out); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWritePLY_BinaryLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePLY(&buf, unitQuad(), PLYBinaryLittleEndian); err != nil {
		t.Fatalf("WritePLY failed: %v", err)
	}

	data := buf.Bytes()
	end := bytes.Index(data, []byte("end_header\n"))
	if end < 0 {
		t.Fatal("missing end_header")
	}
	body := data[end+len("end_header\n"):]

	// 4 vertices * 3 doubles + 1 face (count byte + 4 int32)
	if want := 4*3*8 + 1 + 4*4; len(body) != want {
		t.Fatalf("expected body of %d bytes, got %d", want, len(body))
	}
	if z := math.Float64frombits(binary.LittleEndian.Uint64(body[2*24+16:])); z != 0.5 {
		t.Errorf("expected third vertex z 0.5, got %v", z)
	}
	face := body[4*24:]
	if face[0] != 4 {
		t.Errorf("expected face count byte 4, got %d", face[0])
	}
	if idx := binary.LittleEndian.Uint32(face[1+2*4:]); idx != 3 {
		t.Errorf("expected third corner 3, got %d", idx)
	}
}

func TestParsePLY_FloatVerticesAndExtraProperties(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.WriteString("ply\nformat binary_little_endian 1.0\n")
	buf.WriteString("element vertex 3\nproperty float x\nproperty float y\nproperty float z\nproperty uchar red\n")
	buf.WriteString("element face 1\nproperty list uint8 uint32 vertex_index\nproperty ushort flags\n")
	buf.WriteString("end_header\n")
	for _, v := range [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 2}} {
		binary.Write(buf, binary.LittleEndian, v)
		buf.WriteByte(255)
	}
	buf.WriteByte(3)
	binary.Write(buf, binary.LittleEndian, []uint32{0, 1, 2})
	binary.Write(buf, binary.LittleEndian, uint16(7))

	m, _, err := ParsePLY(buf.Bytes())
	if err != nil {
		t.Fatalf("ParsePLY failed: %v", err)
	}
	want := &Mesh{
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1, Z: 2}},
		Faces:    [][]int{{0, 1, 2}},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("mesh mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePLY_Errors(t *testing.T) {
	header := "ply\nformat ascii 1.0\nelement vertex 2\nproperty double x\nproperty double y\nproperty double z\nend_header\n"

	tests := []struct {
		name string
		data string
		want error
	}{
		{"magic", "PLY\n", ErrInvalidPLYMagic},
		{"no end", "ply\nformat ascii 1.0\n", ErrInvalidPLYHeader},
		{"no format", "ply\nelement vertex 0\nend_header\n", ErrInvalidPLYHeader},
		{"big endian", "ply\nformat binary_big_endian 1.0\nend_header\n", ErrUnsupportedPLYFormat},
		{"version", "ply\nformat ascii 2.0\nend_header\n", ErrUnsupportedPLYFormat},
		{"orphan property", "ply\nformat ascii 1.0\nproperty float x\nend_header\n", ErrInvalidPLYHeader},
		{"unknown type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty half x\nend_header\n", ErrInvalidPLYHeader},
		{"truncated ascii", header + "0 0 0\n1 1\n", ErrTruncatedPLYData},
		{"bad number", header + "0 0 0\n1 one 1\n", ErrInvalidPLYValue},
		{"face out of range", "ply\nformat ascii 1.0\nelement vertex 1\nproperty double x\nproperty double y\nproperty double z\n" +
			"element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n3 0 1 2\n", ErrInvalidMesh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParsePLY([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParsePLY_TruncatedBinary(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePLY(&buf, unitQuad(), PLYBinaryLittleEndian); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	_, _, err := ParsePLY(data[:len(data)-3])
	if !errors.Is(err, ErrTruncatedPLYData) {
		t.Errorf("expected ErrTruncatedPLYData, got %v", err)
	}
}
