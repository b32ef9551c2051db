package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/densurf/internal/surface"
)

// Slider ranges for the generation dialog. Values typed outside them with
// ctrl+click are clamped by Params.
const (
	maxPointsSlider = 400
	domainSlider    = 10
	zScaleSlider    = 50
)

// ParamsForm holds widget-sized copies of surface.Params.
type ParamsForm struct {
	PointsPerRow int32
	Min          float32
	Max          float32
	Correlation  float32
	ZScale       float32
	AddFaces     bool
}

// NewParamsForm fills a form from p.
func NewParamsForm(p surface.Params) *ParamsForm {
	return &ParamsForm{
		PointsPerRow: int32(p.PointsPerRow),
		Min:          float32(p.Min),
		Max:          float32(p.Max),
		Correlation:  float32(p.Correlation),
		ZScale:       float32(p.ZScale),
		AddFaces:     p.AddFaces,
	}
}

// Params returns the form values with the dialog's hard limits applied:
// at least MinPointsPerRow points, correlation within ±MaxCorrelation and
// a non-negative z scale. The domain is passed through unchanged so
// Validate can report an empty range.
func (f *ParamsForm) Params() surface.Params {
	n := int(f.PointsPerRow)
	n = max(n, surface.MinPointsPerRow)
	n = min(n, surface.MaxPointsPerRow)

	rho := float64(f.Correlation)
	rho = max(rho, surface.MinCorrelation)
	rho = min(rho, surface.MaxCorrelation)

	return surface.Params{
		PointsPerRow: n,
		Min:          float64(f.Min),
		Max:          float64(f.Max),
		Correlation:  rho,
		ZScale:       max(float64(f.ZScale), 0),
		AddFaces:     f.AddFaces,
	}
}

// Draw renders the dialog fields and reports whether any value changed.
func (f *ParamsForm) Draw() bool {
	changed := false

	changed = imgui.SliderIntV("Number of points in each row", &f.PointsPerRow,
		surface.MinPointsPerRow, maxPointsSlider, "%d", imgui.SliderFlagsNone) || changed
	changed = imgui.SliderFloatV("Covariance of the two variables", &f.Correlation,
		surface.MinCorrelation, surface.MaxCorrelation, "%.2f", imgui.SliderFlagsNone) || changed

	imgui.SetNextItemWidth(120)
	changed = imgui.SliderFloatV("##vmin", &f.Min, -domainSlider, domainSlider, "min %.2f", imgui.SliderFlagsNone) || changed
	imgui.SameLine()
	imgui.SetNextItemWidth(120)
	changed = imgui.SliderFloatV("##vmax", &f.Max, -domainSlider, domainSlider, "max %.2f", imgui.SliderFlagsNone) || changed
	imgui.SameLine()
	imgui.Text("Range of each variable")

	changed = imgui.SliderFloatV("Scale for Z axis", &f.ZScale, 0, zScaleSlider, "%.1f", imgui.SliderFlagsNone) || changed
	changed = imgui.Checkbox("Add faces", &f.AddFaces) || changed

	if err := f.Params().Validate(); err != nil {
		imgui.TextColored(imgui.NewVec4(1, 0.3, 0.3, 1), err.Error())
	}
	return changed
}
