package scene

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/densurf/internal/logger"
	"github.com/Faultbox/densurf/internal/surface"
)

// SurfaceMeshName is the name given to generated density meshes.
const SurfaceMeshName = "bivar_normal_curve"

// AddSurface builds a density surface and adds it to s: the mesh becomes an
// object linked into the default collection, placed at the 3-D cursor and
// made active. A failure leaves s unchanged, including a collection that
// disappears while the surface is being built.
func AddSurface(ctx context.Context, s *Scene, p surface.Params) (*Object, error) {
	return AddSurfaceWith(ctx, s, &surface.Builder{}, p)
}

// AddSurfaceWith is AddSurface with a caller-provided builder.
func AddSurfaceWith(ctx context.Context, s *Scene, b *surface.Builder, p surface.Params) (*Object, error) {
	if s.Collection(DefaultCollection) == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoCollection, DefaultCollection)
	}

	desc, err := b.Build(ctx, p)
	if err != nil {
		logger.Warn("surface build rejected",
			zap.Error(err),
			zap.Int("npoints", p.PointsPerRow),
			zap.Float64("vmin", p.Min),
			zap.Float64("vmax", p.Max),
			zap.Float64("vcov", p.Correlation),
		)
		return nil, err
	}

	h, err := surface.Emit(s, SurfaceMeshName, desc)
	if err != nil {
		return nil, err
	}
	mesh := h.(*Mesh)

	obj, err := s.placeSurface(DefaultCollection, mesh)
	if err != nil {
		return nil, err
	}

	logger.Info("surface added",
		zap.String("object", obj.Name),
		zap.Stringer("id", obj.ID),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("faces", len(mesh.Faces)),
	)
	return obj, nil
}

// placeSurface creates the object for mesh at the cursor, links it and makes
// it active in one step. On failure mesh is removed again.
func (s *Scene) placeSurface(collection string, mesh *Mesh) (*Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.meshes[mesh.ID] != mesh {
		return nil, ErrUnknownMesh
	}
	c, ok := s.collections[collection]
	if !ok {
		delete(s.meshes, mesh.ID)
		delete(s.meshNames, mesh.Name)
		return nil, fmt.Errorf("%w: %q", ErrNoCollection, collection)
	}

	obj := &Object{
		ID:       uuid.New(),
		Name:     uniqueName(s.objNames, mesh.Name),
		Mesh:     mesh,
		Location: s.cursor,
	}
	s.objNames[obj.Name] = true
	s.objects[obj.ID] = obj
	c.objects = append(c.objects, obj)
	s.active = obj
	return obj, nil
}
