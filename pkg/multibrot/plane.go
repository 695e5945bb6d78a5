package multibrot

import (
	"fmt"
	"math"
)

// Plane is the sampled rectangle of the complex plane.
type Plane struct {
	MinRe float64
	MaxRe float64
	MinIm float64
	MaxIm float64

	// WidthRes and HeightRes are the number of sample points per axis.
	// Spacing divides by the resolution itself, so the last sample of an
	// axis lands on pixel index WidthRes (resp. HeightRes) and rendered
	// images are one pixel wider and taller than the resolution.
	WidthRes  int
	HeightRes int
}

// Config is the full set of render parameters. It is constructed once
// per render and never mutated.
type Config struct {
	// Power is the multibrot exponent d in z -> z^d + c.
	Power uint32

	// MaxIter is the iteration bound; a point that survives MaxIter
	// steps is presumed in the set.
	MaxIter uint32

	Plane Plane

	// DivergenceLimit is the orbit magnitude beyond which a point is
	// classified as escaping.
	DivergenceLimit float64
}

// DefaultConfig returns the reference render parameters: the degree-4
// multibrot over [-2, 1] x [-1, 1] at 1500x1000.
func DefaultConfig() Config {
	return Config{
		Power:   4,
		MaxIter: 200,
		Plane: Plane{
			MinRe:     -2,
			MaxRe:     1,
			MinIm:     -1,
			MaxIm:     1,
			WidthRes:  1500,
			HeightRes: 1000,
		},
		DivergenceLimit: 2,
	}
}

// Validate reports the first invalid parameter. Renders must not start
// on an invalid Config.
func (c Config) Validate() error {
	if c.Power < 1 {
		return fmt.Errorf("power must be at least 1, got %d", c.Power)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("iteration bound must be at least 1, got %d", c.MaxIter)
	}
	if c.Plane.WidthRes < 1 {
		return fmt.Errorf("width resolution must be positive, got %d", c.Plane.WidthRes)
	}
	if c.Plane.HeightRes < 1 {
		return fmt.Errorf("height resolution must be positive, got %d", c.Plane.HeightRes)
	}
	if c.Plane.MinRe >= c.Plane.MaxRe {
		return fmt.Errorf("real bounds must satisfy min < max, got [%v, %v]", c.Plane.MinRe, c.Plane.MaxRe)
	}
	if c.Plane.MinIm >= c.Plane.MaxIm {
		return fmt.Errorf("imaginary bounds must satisfy min < max, got [%v, %v]", c.Plane.MinIm, c.Plane.MaxIm)
	}
	if c.DivergenceLimit <= 0 {
		return fmt.Errorf("divergence limit must be positive, got %v", c.DivergenceLimit)
	}
	return nil
}

// SpacingRe is the pixel spacing along the real axis.
func (p Plane) SpacingRe() float64 {
	return math.Abs((p.MaxRe - p.MinRe) / float64(p.WidthRes))
}

// SpacingIm is the pixel spacing along the imaginary axis.
func (p Plane) SpacingIm() float64 {
	return math.Abs((p.MaxIm - p.MinIm) / float64(p.HeightRes))
}

// ReAt returns grid point i of the real axis. Endpoints are inclusive:
// point 0 is MinRe and point WidthRes-1 is MaxRe.
func (p Plane) ReAt(i int) float64 {
	if p.WidthRes == 1 {
		return p.MinRe
	}
	return p.MinRe + (p.MaxRe-p.MinRe)*float64(i)/float64(p.WidthRes-1)
}

// ImAt returns grid point i of the imaginary axis.
func (p Plane) ImAt(i int) float64 {
	if p.HeightRes == 1 {
		return p.MinIm
	}
	return p.MinIm + (p.MaxIm-p.MinIm)*float64(i)/float64(p.HeightRes-1)
}

// ToComplex converts a plane coordinate to a complex number.
func ToComplex(x, y float64) complex128 {
	return complex(x, y)
}

// ToPixel converts a plane coordinate to a pixel index. The coordinate
// must lie within the plane; callers only pass points they generated
// from the same grid.
func (p Plane) ToPixel(x, y float64) (int, int) {
	px := int(math.Floor(math.Abs(x-p.MinRe) / p.SpacingRe()))
	py := int(math.Floor(math.Abs(y-p.MinIm) / p.SpacingIm()))
	return px, py
}
