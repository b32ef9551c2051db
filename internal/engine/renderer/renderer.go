// Package renderer draws surface meshes with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/densurf/internal/engine/camera"
	"github.com/Faultbox/densurf/internal/engine/debug"
	"github.com/Faultbox/densurf/internal/engine/framebuffer"
	"github.com/Faultbox/densurf/internal/engine/heightfield"
	"github.com/Faultbox/densurf/internal/engine/lighting"
	"github.com/Faultbox/densurf/internal/engine/shader"
	"github.com/Faultbox/densurf/internal/logger"
	"github.com/Faultbox/densurf/pkg/math"
)

// Options controls what is drawn.
type Options struct {
	Wireframe  bool
	ShowBounds bool
	ShowFloor  bool
	PointSize  float32
	Background [4]float32
	Sun        lighting.Sun
}

// DefaultOptions returns lit, filled rendering with bounds and floor.
func DefaultOptions() Options {
	return Options{
		ShowBounds: true,
		ShowFloor:  true,
		PointSize:  3,
		Background: [4]float32{0.1, 0.1, 0.15, 1},
		Sun:        lighting.DefaultSun(),
	}
}

var (
	boundsColor    = [3]float32{0.9, 0.8, 0.3}
	wireframeColor = [3]float32{0.05, 0.05, 0.05}
)

// gpuBuffer is a VAO with its vertex buffer and optional index buffer.
type gpuBuffer struct {
	vao, vbo, ebo uint32
	count         int32
}

func (b *gpuBuffer) delete() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
	}
	*b = gpuBuffer{}
}

// SurfaceRenderer draws one heightfield mesh plus its debug lines.
// It must be created and used on the thread that owns the GL context.
type SurfaceRenderer struct {
	Options Options

	surfaceProgram *shader.Program
	lineProgram    *shader.Program

	surface   gpuBuffer
	primitive heightfield.Primitive
	bounds    gpuBuffer
	floor     gpuBuffer
	hasMesh   bool
}

// New initializes OpenGL and compiles the shader programs.
func New(opts Options) (*SurfaceRenderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &SurfaceRenderer{Options: opts}

	var err error
	r.surfaceProgram, err = shader.Compile(shader.SurfaceVertex, shader.SurfaceFragment)
	if err != nil {
		return nil, fmt.Errorf("surface program: %w", err)
	}
	r.lineProgram, err = shader.Compile(shader.LineVertex, shader.LineFragment)
	if err != nil {
		r.surfaceProgram.Delete()
		return nil, fmt.Errorf("line program: %w", err)
	}
	return r, nil
}

// SetMesh uploads a mesh, replacing the previous one.
func (r *SurfaceRenderer) SetMesh(m *heightfield.Mesh) {
	r.surface.delete()
	r.bounds.delete()
	r.floor.delete()
	r.hasMesh = false
	if m == nil || len(m.Vertices) == 0 {
		return
	}

	var v heightfield.Vertex
	stride := int32(unsafe.Sizeof(v))
	r.surface = uploadIndexed(
		unsafe.Pointer(&m.Vertices[0]), len(m.Vertices)*int(stride),
		m.Indices,
		[]attrib{
			{0, 3, stride, unsafe.Offsetof(v.Position)},
			{1, 3, stride, unsafe.Offsetof(v.Normal)},
			{2, 4, stride, unsafe.Offsetof(v.Color)},
		},
	)
	r.primitive = m.Primitive

	r.bounds = uploadLines(BoundsLines(m.Bounds))
	r.floor = uploadLines(FloorLines(m.Bounds))
	r.hasMesh = true

	logger.Debug("surface uploaded",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("indices", len(m.Indices)),
		zap.Bool("points", m.Primitive == heightfield.Points),
	)
}

// BoundsLines returns the bounding box wireframe for b.
func BoundsLines(b heightfield.Bounds) []debug.LineVertex {
	pad := b.Max.Sub(b.Min).Length() * 0.005
	return debug.ColorLines(debug.BBoxWireframe(b.Min, b.Max, pad), boundsColor)
}

// FloorLines returns a grid under the surface with roughly ten cells
// across the wider side of b.
func FloorLines(b heightfield.Bounds) []debug.LineVertex {
	span := b.Max.Sub(b.Min)
	step := debug.NiceStep(max(span.X, span.Y), 10)
	return debug.FloorGrid(b.Min, b.Max, step, b.Min.Z)
}

type attrib struct {
	index  uint32
	size   int32
	stride int32
	offset uintptr
}

func uploadIndexed(data unsafe.Pointer, size int, indices []uint32, attribs []attrib) gpuBuffer {
	var b gpuBuffer
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, size, data, gl.STATIC_DRAW)

	for _, a := range attribs {
		gl.VertexAttribPointerWithOffset(a.index, a.size, gl.FLOAT, false, a.stride, a.offset)
		gl.EnableVertexAttribArray(a.index)
	}

	if len(indices) > 0 {
		gl.GenBuffers(1, &b.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	b.count = int32(len(indices))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b
}

func uploadLines(lines []debug.LineVertex) gpuBuffer {
	if len(lines) == 0 {
		return gpuBuffer{}
	}
	var v debug.LineVertex
	stride := int32(unsafe.Sizeof(v))
	b := uploadIndexed(unsafe.Pointer(&lines[0]), len(lines)*int(stride), nil, []attrib{
		{0, 3, stride, unsafe.Offsetof(v.X)},
		{1, 3, stride, unsafe.Offsetof(v.R)},
	})
	b.count = int32(len(lines))
	return b
}

// Render draws the scene into the bound target of the given size.
func (r *SurfaceRenderer) Render(cam *camera.OrbitCamera, width, height int32) {
	bg := r.Options.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if !r.hasMesh || width <= 0 || height <= 0 {
		return
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	mvp := cam.ProjectionMatrix(float32(width) / float32(height)).Mul(cam.ViewMatrix())

	r.drawSurface(mvp)

	r.lineProgram.Use()
	r.lineProgram.SetMat4("uMVP", mvp)
	if r.Options.ShowFloor {
		drawLines(r.floor)
	}
	if r.Options.ShowBounds {
		drawLines(r.bounds)
	}
	gl.UseProgram(0)
}

func (r *SurfaceRenderer) drawSurface(mvp math.Mat4) {
	p := r.surfaceProgram
	p.Use()
	p.SetMat4("uMVP", mvp)
	p.SetMat4("uModel", math.Identity())
	p.SetFloat("uPointSize", r.Options.PointSize)
	p.SetVec3("uSunDir", r.Options.Sun.Direction)
	p.SetColor("uAmbient", r.Options.Sun.Ambient)
	p.SetColor("uDiffuse", r.Options.Sun.Diffuse)
	p.SetBool("uFlat", false)

	gl.BindVertexArray(r.surface.vao)
	if r.primitive == heightfield.Points {
		p.SetBool("uLit", false)
		gl.DrawElements(gl.POINTS, r.surface.count, gl.UNSIGNED_INT, nil)
		gl.BindVertexArray(0)
		return
	}

	p.SetBool("uLit", true)
	if r.Options.Wireframe {
		// push the fill back so the overlay wins the depth test
		gl.Enable(gl.POLYGON_OFFSET_FILL)
		gl.PolygonOffset(1, 1)
	}
	gl.DrawElements(gl.TRIANGLES, r.surface.count, gl.UNSIGNED_INT, nil)
	gl.Disable(gl.POLYGON_OFFSET_FILL)

	if r.Options.Wireframe {
		p.SetBool("uLit", false)
		p.SetBool("uFlat", true)
		p.SetColor("uFlatColor", wireframeColor)
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		gl.DrawElements(gl.TRIANGLES, r.surface.count, gl.UNSIGNED_INT, nil)
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.BindVertexArray(0)
}

func drawLines(b gpuBuffer) {
	if b.vao == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.LINES, 0, b.count)
	gl.BindVertexArray(0)
}

// Snapshot renders offscreen at supersample times the requested size and
// downscales the result to width x height.
func (r *SurfaceRenderer) Snapshot(cam *camera.OrbitCamera, width, height, supersample int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid snapshot size %dx%d", width, height)
	}
	rw, rh := SupersampleSize(width, height, supersample)

	fb, err := framebuffer.New(int32(rw), int32(rh))
	if err != nil {
		return nil, err
	}
	defer fb.Destroy()

	restore := fb.Bind()
	r.Render(cam, int32(rw), int32(rh))
	gl.Finish()
	restore()

	img, err := fb.Image()
	if err != nil {
		return nil, fmt.Errorf("reading pixels: %w", err)
	}
	return debug.Downscale(img, width, height), nil
}

// SupersampleSize returns the render size for a supersample factor,
// treating factors below 1 as 1.
func SupersampleSize(width, height, factor int) (int, int) {
	factor = max(factor, 1)
	return width * factor, height * factor
}

// Close releases GPU resources.
func (r *SurfaceRenderer) Close() {
	logger.Info("closing renderer")
	r.surface.delete()
	r.bounds.delete()
	r.floor.delete()
	r.surfaceProgram.Delete()
	r.lineProgram.Delete()
}
