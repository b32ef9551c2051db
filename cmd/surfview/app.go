package main

import (
	"context"
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/densurf/internal/config"
	"github.com/Faultbox/densurf/internal/engine/camera"
	"github.com/Faultbox/densurf/internal/engine/debug"
	"github.com/Faultbox/densurf/internal/engine/framebuffer"
	"github.com/Faultbox/densurf/internal/engine/picking"
	"github.com/Faultbox/densurf/internal/engine/renderer"
	"github.com/Faultbox/densurf/internal/engine/ui"
	"github.com/Faultbox/densurf/internal/export"
	"github.com/Faultbox/densurf/internal/logger"
	"github.com/Faultbox/densurf/internal/scene"
	"github.com/Faultbox/densurf/internal/surface"
)

const (
	leftPanelWidth  = float32(420)
	statusBarHeight = float32(30)
	statusTimeout   = 5 * time.Second
)

// App is the viewer state. All fields are owned by the render thread
// except the dialog channel.
type App struct {
	cfg     *config.Config
	backend *ui.Backend

	renderer *renderer.SurfaceRenderer
	fb       *framebuffer.Framebuffer
	cam      *camera.OrbitCamera

	builder *surface.Builder
	form    *ui.ParamsForm
	preview *surfacePreview
	scene   *scene.Scene
	cursor  [3]float32

	lastMousePos imgui.Vec2
	hover        string

	screenshots *debug.ScreenshotCapture
	exportPaths chan string

	status     string
	statusTime time.Time
}

// NewApp creates the window, GL resources and an empty scene.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		cfg:         cfg,
		builder:     &surface.Builder{Workers: cfg.Build.Workers},
		form:        ui.NewParamsForm(cfg.Surface),
		scene:       scene.New(),
		cam:         camera.NewOrbitCamera(),
		screenshots: debug.NewScreenshotCapture(cfg.Output.Dir, "surfview"),
		exportPaths: make(chan string, 1),
	}

	var err error
	app.backend, err = ui.NewBackend("Bivariate normal surface", cfg.Viewer.Width, cfg.Viewer.Height)
	if err != nil {
		return nil, err
	}

	opts := renderer.DefaultOptions()
	opts.ShowBounds = cfg.Render.ShowBounds
	opts.ShowFloor = cfg.Render.ShowFloor
	opts.Wireframe = cfg.Render.Wireframe
	app.renderer, err = renderer.New(opts)
	if err != nil {
		return nil, err
	}

	app.fb, err = framebuffer.New(800, 600)
	if err != nil {
		app.renderer.Close()
		return nil, err
	}

	app.rebuild(true)
	return app, nil
}

// Run enters the main loop.
func (app *App) Run() {
	app.backend.Run(app.frame)
}

// Close releases GL resources.
func (app *App) Close() {
	if app.fb != nil {
		app.fb.Destroy()
	}
	if app.renderer != nil {
		app.renderer.Close()
	}
}

// rebuild regenerates the preview from the dialog values. refit also
// moves the camera to frame the new surface.
func (app *App) rebuild(refit bool) {
	pv := buildPreview(context.Background(), app.builder, app.form.Params())
	app.preview = pv
	if pv.err != nil {
		app.renderer.SetMesh(nil)
		return
	}
	app.renderer.SetMesh(pv.mesh)
	if refit {
		app.cam.FitToBounds(pv.mesh.Bounds.Min, pv.mesh.Bounds.Max)
		app.cam.SetAngles(app.cfg.Render.Azimuth, app.cfg.Render.Elevation)
	}
}

func (app *App) setStatus(format string, args ...any) {
	app.status = fmt.Sprintf(format, args...)
	app.statusTime = time.Now()
}

func (app *App) frame() {
	select {
	case path := <-app.exportPaths:
		app.exportTo(path)
	default:
	}

	if ui.IsKeyPressed(imgui.KeyF12) {
		app.captureScreenshot()
	}

	pos, size := ui.WorkArea()
	contentHeight := size.Y - statusBarHeight
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(pos)
	imgui.SetNextWindowSize(imgui.NewVec2(leftPanelWidth, contentHeight))
	if imgui.BeginV("Add a bivariate normal surface", nil, flags) {
		app.renderDialog()
		imgui.Separator()
		app.renderScenePanel()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(pos.X+leftPanelWidth, pos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(size.X-leftPanelWidth, contentHeight))
	if imgui.BeginV("Viewport", nil, flags) {
		app.renderViewport()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(pos.X, pos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(size.X, statusBarHeight))
	if imgui.BeginV("##status", nil, flags|imgui.WindowFlagsNoTitleBar) {
		app.renderStatusBar()
	}
	imgui.End()
}

func (app *App) renderDialog() {
	if app.form.Draw() {
		app.rebuild(false)
	}
	imgui.Spacing()

	disabled := app.preview.err != nil
	if disabled {
		imgui.BeginDisabledV(true)
	}
	if imgui.ButtonV("Add", imgui.NewVec2(-1, 30)) {
		app.addSurface()
	}
	if disabled {
		imgui.EndDisabled()
	}
	if imgui.ButtonV("Fit view", imgui.NewVec2(-1, 0)) {
		app.rebuild(true)
	}

	imgui.Spacing()
	imgui.Text("Display")
	opts := &app.renderer.Options
	imgui.Checkbox("Wireframe", &opts.Wireframe)
	imgui.Checkbox("Bounding box", &opts.ShowBounds)
	imgui.Checkbox("Floor grid", &opts.ShowFloor)
}

func (app *App) addSurface() {
	app.scene.SetCursor(r3.Vec{X: float64(app.cursor[0]), Y: float64(app.cursor[1]), Z: float64(app.cursor[2])})
	obj, err := scene.AddSurfaceWith(context.Background(), app.scene, app.builder, app.form.Params())
	if err != nil {
		app.setStatus("Add failed: %v", err)
		return
	}
	app.setStatus("Added %s (%d vertices, %d faces)", obj.Name, len(obj.Mesh.Vertices), len(obj.Mesh.Faces))
}

func (app *App) renderScenePanel() {
	imgui.Text("3-D cursor")
	for i, axis := range [3]string{"x", "y", "z"} {
		imgui.SliderFloatV(axis+"##cursor", &app.cursor[i], -20, 20, "%.2f", imgui.SliderFlagsNone)
	}

	imgui.Spacing()
	objects := app.scene.Objects()
	imgui.Text(fmt.Sprintf("Objects: %d", len(objects)))
	active := app.scene.Active()
	for _, obj := range objects {
		label := fmt.Sprintf("%s  (%.1f, %.1f, %.1f)##%s", obj.Name, obj.Location.X, obj.Location.Y, obj.Location.Z, obj.ID)
		if imgui.SelectableBoolV(label, obj == active, 0, imgui.NewVec2(0, 0)) {
			app.scene.SetActive(obj)
		}
	}

	imgui.Spacing()
	if imgui.ButtonV("Export...", imgui.NewVec2(-1, 0)) {
		app.openExportDialog()
	}
	if imgui.ButtonV("Screenshot (F12)", imgui.NewVec2(-1, 0)) {
		app.captureScreenshot()
	}
}

func (app *App) renderViewport() {
	if err := app.preview.err; err != nil {
		imgui.TextColored(imgui.NewVec4(1, 0.3, 0.3, 1), err.Error())
		return
	}

	avail := imgui.ContentRegionAvail()
	w, h := int32(avail.X), int32(avail.Y-24)
	if w < 1 || h < 1 {
		return
	}
	app.fb.Resize(w, h)
	restore := app.fb.Bind()
	app.renderer.Render(app.cam, w, h)
	restore()

	origin := imgui.CursorScreenPos()
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(app.fb.ColorTexture()))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(float32(w), float32(h)),
		imgui.NewVec2(0, 1), // GL textures are bottom-up
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0.1, 0.1, 0.15, 1),
		imgui.NewVec4(1, 1, 1, 1),
	)

	app.hover = ""
	if imgui.IsItemHovered() {
		mousePos := imgui.MousePos()
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			app.cam.HandleDrag(mousePos.X-app.lastMousePos.X, mousePos.Y-app.lastMousePos.Y)
		}
		app.lastMousePos = mousePos

		if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
			app.cam.HandleZoom(wheel)
		}

		ray := picking.ScreenToRay(mousePos.X-origin.X, mousePos.Y-origin.Y, float32(w), float32(h), app.cam)
		if x, y, pdf, ok := app.preview.pick(ray); ok {
			app.hover = fmt.Sprintf("x = %.3f  y = %.3f  f(x, y) = %.5f", x, y, pdf)
		}
	}

	if app.hover != "" {
		imgui.Text(app.hover)
	} else {
		imgui.TextDisabled("Drag to orbit, scroll to zoom")
	}
}

func (app *App) renderStatusBar() {
	d := app.preview.desc
	if d != nil {
		imgui.Text(fmt.Sprintf("Grid %dx%d | %d vertices | %d faces", d.Side, d.Side, len(d.Vertices), len(d.Faces)))
	}
	if app.status != "" && time.Since(app.statusTime) < statusTimeout {
		imgui.SameLine()
		imgui.Text(" | " + app.status)
	}
}

// openExportDialog shows a native save dialog. The dialog blocks, so it
// runs on its own goroutine and hands the path back to the render thread.
func (app *App) openExportDialog() {
	go func() {
		path, err := dialog.File().
			Filter("Wavefront OBJ", "obj").
			Filter("Stanford PLY", "ply").
			Filter("STL", "stl").
			Title("Export surface").
			Save()
		if err != nil {
			if err != dialog.ErrCancelled {
				logger.Warn("save dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case app.exportPaths <- path:
		default:
		}
	}()
}

func (app *App) exportTo(path string) {
	m, err := exportMesh(app.scene, app.preview)
	if err != nil {
		app.setStatus("Export failed: %v", err)
		return
	}
	path, format := exportTarget(path)
	if err := export.WriteFile(path, format, m); err != nil {
		logger.Error("export failed", zap.String("path", path), zap.Error(err))
		app.setStatus("Export failed: %v", err)
		return
	}
	app.setStatus("%s", exportStatus(path, m))
}

func (app *App) captureScreenshot() {
	img, err := app.fb.Image()
	if err != nil {
		app.setStatus("Screenshot failed: %v", err)
		return
	}
	path, err := app.screenshots.CaptureFromImage(img)
	if err != nil {
		app.setStatus("Screenshot failed: %v", err)
		return
	}
	app.setStatus("Screenshot saved to %s", path)
}
