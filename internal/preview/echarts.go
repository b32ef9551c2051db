package preview

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/Faultbox/densurf/internal/surface"
)

// MaxChartSide caps the points per axis sent to the browser; larger grids
// are subsampled with a uniform stride.
const MaxChartSide = 101

var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// ChartOptions controls Surface3DHTML.
type ChartOptions struct {
	Title string
	Theme string // echarts theme name, e.g. "white" or "dark"
	Width int    // pixels
	Params surface.Params
}

// Surface3DHTML writes a standalone HTML page with a rotatable 3-D surface
// and a top-down scatter view of the same heights.
func Surface3DHTML(w io.Writer, d *surface.Descriptor, o ChartOptions) error {
	g, err := NewGrid(d)
	if err != nil {
		return err
	}
	if o.Width <= 0 {
		o.Width = 900
	}
	size := fmt.Sprintf("%dpx", o.Width)
	lo, hi := g.zRange()
	subtitle := fmt.Sprintf("npoints=%d vmin=%g vmax=%g vcov=%g zscale=%g",
		o.Params.PointsPerRow, o.Params.Min, o.Params.Max, o.Params.Correlation, o.Params.ZScale)

	visual := opts.VisualMap{
		Show:       opts.Bool(true),
		Calculable: opts.Bool(true),
		Min:        float32(lo),
		Max:        float32(hi),
		InRange:    &opts.VisualMapInRange{Color: viridis},
	}

	surf := charts.NewSurface3D()
	surf.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Theme: o.Theme, Width: size, Height: size}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(visual),
	)
	surf.AddSeries("density", surfaceData(g))
	// AddSeries tags Surface3D series as scatter3D
	surf.MultiSeries[0].Type = types.ChartSurface3D

	top := charts.NewScatter()
	visual.Dimension = "2"
	top.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: o.Theme, Width: size, Height: size}),
		charts.WithTitleOpts(opts.Title{Title: "Top view"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: g.X(0), Max: g.X(d.Side - 1), Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: g.Y(0), Max: g.Y(d.Side - 1), Name: "y", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(visual),
	)
	top.AddSeries("density", scatterData(g), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	page := components.NewPage()
	page.PageTitle = o.Title
	page.AddCharts(surf, top)
	return page.Render(w)
}

// chartStride returns the sampling stride for a side length. The last
// index is always included by the callers.
func chartStride(side int) int {
	if side <= MaxChartSide {
		return 1
	}
	return (side + MaxChartSide - 2) / (MaxChartSide - 1)
}

// chartIndices returns the sampled indices along one axis.
func chartIndices(side int) []int {
	stride := chartStride(side)
	idx := make([]int, 0, side/stride+2)
	for i := 0; i < side; i += stride {
		idx = append(idx, i)
	}
	if idx[len(idx)-1] != side-1 {
		idx = append(idx, side-1)
	}
	return idx
}

func surfaceData(g Grid) []opts.Chart3DData {
	idx := chartIndices(g.d.Side)
	data := make([]opts.Chart3DData, 0, len(idx)*len(idx))
	for _, c := range idx {
		for _, r := range idx {
			data = append(data, opts.Chart3DData{Value: []interface{}{g.X(c), g.Y(r), g.Z(c, r)}})
		}
	}
	return data
}

func scatterData(g Grid) []opts.ScatterData {
	idx := chartIndices(g.d.Side)
	data := make([]opts.ScatterData, 0, len(idx)*len(idx))
	for _, c := range idx {
		for _, r := range idx {
			data = append(data, opts.ScatterData{Value: []interface{}{g.X(c), g.Y(r), g.Z(c, r)}})
		}
	}
	return data
}
