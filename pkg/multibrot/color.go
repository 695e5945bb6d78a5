package multibrot

import (
	"image/color"
	"math"
	"math/cmplx"
)

const degPerRad = 180 / math.Pi

// AngleToRGB maps a principal argument in degrees onto a three-sector
// red->green->blue ramp. Negative angles reflect to |angle| + 180
// rather than rotating; the mapping is intentionally asymmetric and is
// preserved exactly for output compatibility.
//
// The ramp position raw = round(765/360 * angle) selects a sector
// (raw / 255): components below the sector are pinned to 255, the
// sector's component carries raw mod 255, and components above it are
// pinned to 1.
func AngleToRGB(angleDeg float64) (r, g, b uint8) {
	if angleDeg < 0 {
		angleDeg = math.Abs(angleDeg) + 180
	}

	raw := int(math.Round(765.0 / 360.0 * angleDeg))
	sector := raw / 255
	moving := uint8(raw % 255)

	switch sector {
	case 0:
		return moving, 1, 1
	case 1:
		return 255, moving, 1
	case 2:
		return 255, 255, moving
	default:
		// Only an input of exactly -180 reflects to 360 and lands in
		// sector 3; every component pins to 255.
		return 255, 255, 255
	}
}

// Colorize maps an escape result to a pixel color. Points that survive
// MaxIter steps render black; escaping points take the hue of their
// final value's argument, scaled by a brightness curve that darkens
// fast escapes and saturates toward 1 for long-surviving points.
func Colorize(zeta complex128, iteration uint32, cfg Config) color.RGBA {
	brightness := 0.0
	if iteration != cfg.MaxIter {
		brightness = 1 - math.Pow(2, -float64(iteration)-1.0/255)
	}

	angle := cmplx.Phase(zeta) * degPerRad
	r, g, b := AngleToRGB(angle)

	return color.RGBA{
		R: uint8(math.Round(brightness * float64(r))),
		G: uint8(math.Round(brightness * float64(g))),
		B: uint8(math.Round(brightness * float64(b))),
		A: 255,
	}
}
