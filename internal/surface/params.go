// Package surface samples the bivariate normal density on a square grid and
// turns the samples into a quad mesh descriptor.
package surface

import (
	"fmt"
	"math"
)

// Correlation limits. Beyond them the covariance matrix gets too close to
// singular for a usable surface.
const (
	MaxCorrelation = 0.99
	MinCorrelation = -MaxCorrelation
)

// Point count limits. MinPointsPerRow is advisory: smaller values still build
// but give a coarse surface. MaxPointsPerRow bounds a full build to about
// 4.2M vertices and faces, a few hundred MB.
const (
	MinPointsPerRow = 5
	MaxPointsPerRow = 1 << 11
)

// Params are the user-facing generation settings.
type Params struct {
	PointsPerRow int     `yaml:"npoints"`
	Min          float64 `yaml:"vmin"`
	Max          float64 `yaml:"vmax"`
	Correlation  float64 `yaml:"vcov"`
	ZScale       float64 `yaml:"zscale"`
	AddFaces     bool    `yaml:"addface"`
}

// DefaultParams returns the stock settings: a 50 point grid over [-3, 3]
// with ρ = 0.8, heights scaled by 12 and faces enabled.
func DefaultParams() Params {
	return Params{
		PointsPerRow: 50,
		Min:          -3,
		Max:          3,
		Correlation:  0.8,
		ZScale:       12,
		AddFaces:     true,
	}
}

// Validate checks the parameters without allocating anything.
func (p Params) Validate() error {
	if !isFinite(p.Min) || !isFinite(p.Max) {
		return fmt.Errorf("%w: bounds must be finite (vmin=%g, vmax=%g)", ErrInvalidDomain, p.Min, p.Max)
	}
	if p.Max <= p.Min {
		return fmt.Errorf("%w: vmax %g must be greater than vmin %g", ErrInvalidDomain, p.Max, p.Min)
	}
	if p.PointsPerRow < 1 || p.PointsPerRow > MaxPointsPerRow {
		return fmt.Errorf("%w: npoints %d out of range [1, %d]", ErrInvalidParameter, p.PointsPerRow, MaxPointsPerRow)
	}
	if step := p.step(); !isFinite(step) || step <= 0 {
		return fmt.Errorf("%w: step %g is not usable", ErrInvalidDomain, step)
	}
	if err := checkCorrelation(p.Correlation); err != nil {
		return err
	}
	return checkZScale(p.ZScale)
}

// Grid returns the sampling grid for valid parameters. Side is computed
// analytically so both axes always agree.
func (p Params) Grid() GridSpec {
	return GridSpec{
		Min:  p.Min,
		Step: p.step(),
		Side: p.PointsPerRow + 1,
	}
}

func (p Params) step() float64 {
	return (p.Max - p.Min) / float64(p.PointsPerRow)
}

func checkCorrelation(rho float64) error {
	if math.IsNaN(rho) || rho < MinCorrelation || rho > MaxCorrelation {
		return fmt.Errorf("%w: vcov %g outside [%g, %g]", ErrInvalidParameter, rho, MinCorrelation, MaxCorrelation)
	}
	return nil
}

func checkZScale(z float64) error {
	if !isFinite(z) || z < 0 {
		return fmt.Errorf("%w: zscale %g must be finite and >= 0", ErrInvalidParameter, z)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
