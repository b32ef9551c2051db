package surface

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Bivariate is the zero-mean, unit-variance bivariate normal distribution
// with correlation ρ, i.e. covariance [[1, ρ], [ρ, 1]].
type Bivariate struct {
	rho  float64
	dist *distmv.Normal
}

// Density returns the distribution for rho. rho must lie within
// [MinCorrelation, MaxCorrelation].
func Density(rho float64) (*Bivariate, error) {
	if err := checkCorrelation(rho); err != nil {
		return nil, err
	}
	sigma := mat.NewSymDense(2, []float64{1, rho, rho, 1})
	dist, ok := distmv.NewNormal([]float64{0, 0}, sigma, nil)
	if !ok {
		return nil, fmt.Errorf("%w: covariance for vcov %g is not positive definite", ErrInvalidParameter, rho)
	}
	return &Bivariate{rho: rho, dist: dist}, nil
}

// At evaluates the probability density at (x, y) in float64.
func (b *Bivariate) At(x, y float64) float64 {
	return b.dist.Prob([]float64{x, y})
}

// Correlation returns ρ.
func (b *Bivariate) Correlation() float64 {
	return b.rho
}
