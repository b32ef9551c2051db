package preview

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/Faultbox/densurf/internal/surface"
)

// screenDPI converts pixel sizes into plot lengths.
const screenDPI = 96

// HeatmapOptions controls HeatmapPNG.
type HeatmapOptions struct {
	Title    string
	Width    int // pixels
	Height   int // pixels
	Contours int // contour levels; 0 disables the overlay
}

// DefaultHeatmapOptions returns an 800x800 plot with 8 contour levels.
func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{Title: "Bivariate normal density", Width: 800, Height: 800, Contours: 8}
}

// NewHeatmapPlot builds the plot without rendering it.
func NewHeatmapPlot(d *surface.Descriptor, o HeatmapOptions) (*plot.Plot, error) {
	g, err := NewGrid(d)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	lo, hi := g.zRange()
	heat := plotter.NewHeatMap(g, palette.Heat(16, 1))
	if !(hi > lo) {
		// flat surface (zscale 0): widen the range so the palette lookup stays finite
		heat.Min, heat.Max = lo-0.5, lo+0.5
	}
	p.Add(heat)

	if levels := contourLevels(lo, hi, o.Contours); len(levels) > 0 {
		c := plotter.NewContour(g, levels, palette.Rainbow(len(levels), palette.Blue, palette.Red, 1, 0.5, 1))
		p.Add(c)
	}

	p.X.Min, p.X.Max = g.X(0), g.X(d.Side-1)
	p.Y.Min, p.Y.Max = g.Y(0), g.Y(d.Side-1)
	return p, nil
}

// HeatmapPNG renders a top-down heat map of the surface heights as PNG.
func HeatmapPNG(w io.Writer, d *surface.Descriptor, o HeatmapOptions) error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("heat map size %dx%d must be positive", o.Width, o.Height)
	}
	p, err := NewHeatmapPlot(d, o)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(vgimg.UseWH(pixels(o.Width), pixels(o.Height)), vgimg.UseDPI(screenDPI))
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("writing png: %w", err)
	}
	return nil
}

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / screenDPI
}

// contourLevels spreads n levels strictly inside (lo, hi).
func contourLevels(lo, hi float64, n int) []float64 {
	if n <= 0 || !(hi > lo) {
		return nil
	}
	levels := make([]float64, n)
	step := (hi - lo) / float64(n+1)
	for i := range levels {
		levels[i] = lo + float64(i+1)*step
	}
	return levels
}
