// Package export writes generated meshes to disk. Writer satisfies
// surface.MeshConstructor, so a descriptor can be emitted straight to a file.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/densurf/internal/logger"
	"github.com/Faultbox/densurf/internal/surface"
	"github.com/Faultbox/densurf/pkg/formats"
)

// ErrUnknownFormat is returned for unsupported format names or extensions.
var ErrUnknownFormat = errors.New("unknown mesh format")

// Format names a mesh file format.
type Format string

// Supported formats.
const (
	FormatOBJ      Format = "obj"
	FormatPLY      Format = "ply" // binary little-endian
	FormatPLYASCII Format = "ply-ascii"
	FormatSTL      Format = "stl" // binary
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatOBJ, FormatPLY, FormatPLYASCII, FormatSTL}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from a file extension. ".ply" maps to
// binary PLY.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return FormatOBJ, nil
	case ".ply":
		return FormatPLY, nil
	case ".stl":
		return FormatSTL, nil
	default:
		return "", fmt.Errorf("%w: extension of %q", ErrUnknownFormat, path)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatPLY, FormatPLYASCII:
		return ".ply"
	default:
		return "." + string(f)
	}
}

// Encode writes m to w in format f.
func (f Format) Encode(w io.Writer, m *formats.Mesh) error {
	switch f {
	case FormatOBJ:
		return formats.WriteOBJ(w, m)
	case FormatPLY:
		return formats.WritePLY(w, m, formats.PLYBinaryLittleEndian)
	case FormatPLYASCII:
		return formats.WritePLY(w, m, formats.PLYASCII)
	case FormatSTL:
		return formats.WriteSTL(w, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// File is the handle of a mesh written to disk.
type File struct {
	Name string
	Path string
}

// MeshName returns the mesh name.
func (f *File) MeshName() string { return f.Name }

// Writer writes each constructed mesh to Dir/<name><ext>.
type Writer struct {
	Dir    string
	Format Format
}

var _ surface.MeshConstructor = (*Writer)(nil)

// NewMesh encodes the geometry and writes it to disk.
func (w *Writer) NewMesh(name string, vertices []r3.Vec, edges [][2]int, faces [][]int) (surface.MeshHandle, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid mesh name %q", name)
	}
	format := w.Format
	if format == "" {
		format = FormatOBJ
	}

	dir := w.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name+format.Ext())

	m := &formats.Mesh{Name: name, Vertices: vertices, Edges: edges, Faces: faces}
	if err := WriteFile(path, format, m); err != nil {
		return nil, err
	}
	return &File{Name: name, Path: path}, nil
}

// WriteFile encodes m into path. The file is written next to its final
// location and renamed into place, so readers never see a partial mesh.
func WriteFile(path string, format Format, m *formats.Mesh) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := format.Encode(tmp, m); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	logger.Debug("mesh written",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("faces", len(m.Faces)),
	)
	return nil
}

// Descriptor writes a surface descriptor to an explicit path.
func Descriptor(path string, format Format, name string, d *surface.Descriptor) error {
	m := &formats.Mesh{Name: name, Vertices: d.Vertices, Faces: make([][]int, len(d.Faces))}
	for i, f := range d.Faces {
		m.Faces[i] = []int{f[0], f[1], f[2], f[3]}
	}
	return WriteFile(path, format, m)
}
