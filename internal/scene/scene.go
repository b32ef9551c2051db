// Package scene is a small in-memory stand-in for a 3-D editor's data model:
// meshes, objects, collections, a 3-D cursor and an active object.
package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/densurf/internal/surface"
)

// DefaultCollection is the collection every new scene starts with.
const DefaultCollection = "Collection"

// Scene errors.
var (
	ErrInvalidMesh  = errors.New("invalid mesh data")
	ErrNoCollection = errors.New("collection not found")
	ErrUnknownMesh  = errors.New("mesh does not belong to this scene")
)

// Mesh is geometry owned by a scene.
type Mesh struct {
	ID       uuid.UUID
	Name     string
	Vertices []r3.Vec
	Edges    [][2]int
	Faces    [][]int
}

// MeshName implements surface.MeshHandle.
func (m *Mesh) MeshName() string { return m.Name }

// Object places a mesh in the scene.
type Object struct {
	ID       uuid.UUID
	Name     string
	Mesh     *Mesh
	Location r3.Vec
}

// Collection groups linked objects.
type Collection struct {
	Name    string
	objects []*Object
}

// Objects returns the linked objects in link order.
func (c *Collection) Objects() []*Object {
	return append([]*Object(nil), c.objects...)
}

// Scene holds all data blocks. It is safe for concurrent use.
type Scene struct {
	mu          sync.RWMutex
	meshes      map[uuid.UUID]*Mesh
	objects     map[uuid.UUID]*Object
	collections map[string]*Collection
	meshNames   map[string]bool
	objNames    map[string]bool
	cursor      r3.Vec
	active      *Object
}

// New returns an empty scene with the default collection.
func New() *Scene {
	s := &Scene{
		meshes:      make(map[uuid.UUID]*Mesh),
		objects:     make(map[uuid.UUID]*Object),
		collections: make(map[string]*Collection),
		meshNames:   make(map[string]bool),
		objNames:    make(map[string]bool),
	}
	s.collections[DefaultCollection] = &Collection{Name: DefaultCollection}
	return s
}

var _ surface.MeshConstructor = (*Scene)(nil)

// NewMesh validates and stores geometry. Faces need at least three distinct
// in-range indices; edges need two in-range indices. Nothing is stored when
// validation fails. Duplicate names get a numeric suffix (name.001, ...).
func (s *Scene) NewMesh(name string, vertices []r3.Vec, edges [][2]int, faces [][]int) (surface.MeshHandle, error) {
	n := len(vertices)
	for i, e := range edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n || e[0] == e[1] {
			return nil, fmt.Errorf("%w: edge %d %v with %d vertices", ErrInvalidMesh, i, e, n)
		}
	}
	for i, f := range faces {
		if len(f) < 3 {
			return nil, fmt.Errorf("%w: face %d has %d corners", ErrInvalidMesh, i, len(f))
		}
		for j, idx := range f {
			if idx < 0 || idx >= n {
				return nil, fmt.Errorf("%w: face %d index %d out of range", ErrInvalidMesh, i, idx)
			}
			for _, prev := range f[:j] {
				if prev == idx {
					return nil, fmt.Errorf("%w: face %d repeats index %d", ErrInvalidMesh, i, idx)
				}
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := &Mesh{
		ID:       uuid.New(),
		Name:     uniqueName(s.meshNames, name),
		Vertices: vertices,
		Edges:    edges,
		Faces:    faces,
	}
	s.meshNames[m.Name] = true
	s.meshes[m.ID] = m
	return m, nil
}

// NewObject creates an unlinked object for a mesh created by this scene.
func (s *Scene) NewObject(name string, mesh *Mesh) (*Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mesh == nil || s.meshes[mesh.ID] != mesh {
		return nil, ErrUnknownMesh
	}
	obj := &Object{
		ID:   uuid.New(),
		Name: uniqueName(s.objNames, name),
		Mesh: mesh,
	}
	s.objNames[obj.Name] = true
	s.objects[obj.ID] = obj
	return obj, nil
}

// Collection returns the named collection or nil.
func (s *Scene) Collection(name string) *Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections[name]
}

// NewCollection creates (or returns the existing) named collection.
func (s *Scene) NewCollection(name string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		return c
	}
	c := &Collection{Name: name}
	s.collections[name] = c
	return c
}

// RemoveCollection drops a collection. Its objects stay in the scene.
func (s *Scene) RemoveCollection(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
}

// Link adds obj to the named collection. Linking twice is a no-op.
func (s *Scene) Link(collection string, obj *Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoCollection, collection)
	}
	for _, o := range c.objects {
		if o == obj {
			return nil
		}
	}
	c.objects = append(c.objects, obj)
	return nil
}

// Cursor returns the 3-D cursor location.
func (s *Scene) Cursor() r3.Vec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// SetCursor moves the 3-D cursor.
func (s *Scene) SetCursor(p r3.Vec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = p
}

// Active returns the active object, if any.
func (s *Scene) Active() *Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActive makes obj the active object.
func (s *Scene) SetActive(obj *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = obj
}

// Objects returns all objects sorted by name.
func (s *Scene) Objects() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Object, 0, len(s.objects))
	for _, o := range s.objects {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MeshCount returns the number of meshes.
func (s *Scene) MeshCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meshes)
}

// uniqueName appends .001, .002, ... until name is unused.
func uniqueName(taken map[string]bool, name string) string {
	if !taken[name] {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", name, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
