package debug

import (
	gomath "math"

	"github.com/Faultbox/densurf/pkg/math"
)

// LineVertex is a colored line endpoint.
type LineVertex struct {
	X, Y, Z float32
	R, G, B float32
}

var (
	gridColor  = [3]float32{0.45, 0.45, 0.45}
	xAxisColor = [3]float32{0.85, 0.25, 0.25}
	yAxisColor = [3]float32{0.25, 0.75, 0.25}
)

// FloorGrid returns line-list vertices for a grid on the plane z covering
// [min, max] in x and y with lines every step units, aligned to multiples
// of step. Lines through the origin are drawn in axis colors.
func FloorGrid(min, max math.Vec3, step, z float32) []LineVertex {
	if step <= 0 || max.X < min.X || max.Y < min.Y {
		return nil
	}
	x0 := float32(gomath.Floor(float64(min.X/step))) * step
	x1 := float32(gomath.Ceil(float64(max.X/step))) * step
	y0 := float32(gomath.Floor(float64(min.Y/step))) * step
	y1 := float32(gomath.Ceil(float64(max.Y/step))) * step

	var out []LineVertex
	line := func(ax, ay, bx, by float32, c [3]float32) {
		out = append(out,
			LineVertex{ax, ay, z, c[0], c[1], c[2]},
			LineVertex{bx, by, z, c[0], c[1], c[2]},
		)
	}

	nx := int(gomath.Round(float64((x1 - x0) / step)))
	for i := 0; i <= nx; i++ {
		x := x0 + float32(i)*step
		c := gridColor
		if gomath.Abs(float64(x)) < float64(step)*1e-3 {
			c = yAxisColor // the line x = 0 is the y axis
		}
		line(x, y0, x, y1, c)
	}
	ny := int(gomath.Round(float64((y1 - y0) / step)))
	for j := 0; j <= ny; j++ {
		y := y0 + float32(j)*step
		c := gridColor
		if gomath.Abs(float64(y)) < float64(step)*1e-3 {
			c = xAxisColor
		}
		line(x0, y, x1, y, c)
	}
	return out
}

// NiceStep picks a 1-2-5 grid spacing giving roughly target lines over span.
func NiceStep(span float32, target int) float32 {
	if span <= 0 || target <= 0 {
		return 1
	}
	raw := float64(span) / float64(target)
	mag := gomath.Pow(10, gomath.Floor(gomath.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*mag {
			return float32(m * mag)
		}
	}
	return float32(10 * mag)
}
