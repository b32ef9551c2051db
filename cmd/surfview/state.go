package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/densurf/internal/engine/heightfield"
	"github.com/Faultbox/densurf/internal/engine/picking"
	"github.com/Faultbox/densurf/internal/export"
	"github.com/Faultbox/densurf/internal/scene"
	"github.com/Faultbox/densurf/internal/surface"
	"github.com/Faultbox/densurf/pkg/formats"
	"github.com/Faultbox/densurf/pkg/math"
)

// surfacePreview is the live preview for the current dialog values.
type surfacePreview struct {
	params  surface.Params
	desc    *surface.Descriptor
	mesh    *heightfield.Mesh
	sampler *heightfield.Sampler
	density *surface.Bivariate
	err     error
}

// buildPreview builds everything the viewport needs for p. Invalid
// parameters produce a preview with only err set.
func buildPreview(ctx context.Context, b *surface.Builder, p surface.Params) *surfacePreview {
	pv := &surfacePreview{params: p}

	pv.desc, pv.err = b.Build(ctx, p)
	if pv.err != nil {
		return pv
	}
	if pv.mesh, pv.err = heightfield.BuildMesh(pv.desc); pv.err != nil {
		return pv
	}
	if pv.sampler, pv.err = heightfield.NewSampler(pv.desc); pv.err != nil {
		return pv
	}
	pv.density, pv.err = surface.Density(p.Correlation)
	return pv
}

// pick intersects a ray with the previewed surface.
func (pv *surfacePreview) pick(ray picking.Ray) (x, y, pdf float64, ok bool) {
	if pv.mesh == nil {
		return 0, 0, 0, false
	}
	step := float32(pv.params.Grid().Step) / 2
	// raise the lid so a ray entering at the peak starts above the surface
	box := picking.AABB{
		Min: pv.mesh.Bounds.Min,
		Max: pv.mesh.Bounds.Max.Add(math.Vec3{Z: step}),
	}

	hit, ok := ray.IntersectHeightField(pv.sampler, box, step)
	if !ok {
		return 0, 0, 0, false
	}
	x, y = float64(hit.X), float64(hit.Y)
	return x, y, pv.density.At(x, y), true
}

// exportTarget resolves a dialog path to a file path and format. Paths
// without a known extension get ".obj" appended.
func exportTarget(path string) (string, export.Format) {
	if f, err := export.FormatFromPath(path); err == nil {
		return path, f
	}
	return strings.TrimSuffix(path, ".") + export.FormatOBJ.Ext(), export.FormatOBJ
}

// exportMesh picks what to export: the active scene object if there is
// one, otherwise the preview.
func exportMesh(s *scene.Scene, pv *surfacePreview) (*formats.Mesh, error) {
	if obj := s.Active(); obj != nil && obj.Mesh != nil {
		m := obj.Mesh
		return &formats.Mesh{Name: m.Name, Vertices: m.Vertices, Edges: m.Edges, Faces: m.Faces}, nil
	}
	if pv == nil || pv.desc == nil {
		return nil, fmt.Errorf("nothing to export")
	}
	m := &formats.Mesh{Name: scene.SurfaceMeshName, Vertices: pv.desc.Vertices}
	for _, f := range pv.desc.Faces {
		m.Faces = append(m.Faces, []int{f[0], f[1], f[2], f[3]})
	}
	return m, nil
}

func exportStatus(path string, m *formats.Mesh) string {
	return fmt.Sprintf("Exported %s (%d vertices, %d faces) to %s",
		m.Name, len(m.Vertices), len(m.Faces), filepath.Base(path))
}
