package multibrot

import (
	"testing"
)

func TestToComplex(t *testing.T) {
	got := ToComplex(-2, 1)
	if got != complex(-2, 1) {
		t.Errorf("ToComplex(-2, 1) = %v, want %v", got, complex(-2, 1))
	}
}

func TestToPixel(t *testing.T) {
	p := DefaultConfig().Plane

	tests := []struct {
		name   string
		x, y   float64
		wantPx int
		wantPy int
	}{
		{"plane minimum", -2, -1, 0, 0},
		{"plane maximum", 1, 1, 1500, 1000},
		{"center", -0.5, 0, 750, 500},
		{"interior", 0.25, 0.5, 1125, 750},
	}

	for _, tt := range tests {
		px, py := p.ToPixel(tt.x, tt.y)
		if px != tt.wantPx || py != tt.wantPy {
			t.Errorf("%s: ToPixel(%v, %v) = (%d, %d), want (%d, %d)",
				tt.name, tt.x, tt.y, px, py, tt.wantPx, tt.wantPy)
		}
	}
}

func TestGridEndpoints(t *testing.T) {
	p := DefaultConfig().Plane

	if got := p.ReAt(0); got != p.MinRe {
		t.Errorf("ReAt(0) = %v, want %v", got, p.MinRe)
	}
	if got := p.ReAt(p.WidthRes - 1); got != p.MaxRe {
		t.Errorf("ReAt(%d) = %v, want %v", p.WidthRes-1, got, p.MaxRe)
	}
	if got := p.ImAt(0); got != p.MinIm {
		t.Errorf("ImAt(0) = %v, want %v", got, p.MinIm)
	}
	if got := p.ImAt(p.HeightRes - 1); got != p.MaxIm {
		t.Errorf("ImAt(%d) = %v, want %v", p.HeightRes-1, got, p.MaxIm)
	}

	// The last grid point lands on pixel index WidthRes/HeightRes,
	// which is why images carry one extra pixel per axis.
	px, py := p.ToPixel(p.ReAt(p.WidthRes-1), p.ImAt(p.HeightRes-1))
	if px != p.WidthRes || py != p.HeightRes {
		t.Errorf("last grid point maps to (%d, %d), want (%d, %d)", px, py, p.WidthRes, p.HeightRes)
	}
}

func TestGridColumnsStrictlyIncrease(t *testing.T) {
	p := DefaultConfig().Plane

	prev := -1
	for i := 0; i < p.WidthRes; i++ {
		px, _ := p.ToPixel(p.ReAt(i), p.MinIm)
		if px <= prev {
			t.Fatalf("grid column %d maps to pixel %d, not after %d", i, px, prev)
		}
		prev = px
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() on defaults = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero power", func(c *Config) { c.Power = 0 }},
		{"zero iterations", func(c *Config) { c.MaxIter = 0 }},
		{"zero width", func(c *Config) { c.Plane.WidthRes = 0 }},
		{"negative height", func(c *Config) { c.Plane.HeightRes = -5 }},
		{"real bounds inverted", func(c *Config) { c.Plane.MinRe = 2 }},
		{"real bounds equal", func(c *Config) { c.Plane.MinRe = c.Plane.MaxRe }},
		{"imaginary bounds inverted", func(c *Config) { c.Plane.MinIm = 3 }},
		{"zero divergence limit", func(c *Config) { c.DivergenceLimit = 0 }},
		{"negative divergence limit", func(c *Config) { c.DivergenceLimit = -2 }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", tt.name)
		}
	}
}
