package multibrot

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrOverflow reports that an iteration step produced a value outside
// the range representable by complex128.
var ErrOverflow = errors.New("multibrot: iteration step overflowed")

// Step computes one multibrot iteration, zPrev^d + c. It fails with
// ErrOverflow when finite inputs produce a non-finite result.
func Step(zPrev, c complex128, d uint32) (complex128, error) {
	z := ipow(zPrev, d) + c
	if !isFinite(z) && isFinite(zPrev) && isFinite(c) {
		return 0, ErrOverflow
	}
	return z, nil
}

// Run iterates z -> z^d + c from zero until the orbit escapes or
// MaxIter steps pass, returning the final value and the iteration at
// which it terminated. The returned iteration is in [1, MaxIter] and
// equals MaxIter exactly when the point never escaped.
//
// Escape here subsumes overflow: an orbit whose magnitude becomes
// non-finite counts as divergent on that step rather than aborting the
// render, so Run has no failure path.
func Run(c complex128, cfg Config) (complex128, uint32) {
	var zeta complex128
	for i := uint32(1); i <= cfg.MaxIter; i++ {
		zeta = ipow(zeta, cfg.Power) + c
		if escaped(zeta, cfg.DivergenceLimit) {
			return zeta, i
		}
	}
	return zeta, cfg.MaxIter
}

// escaped is true when the orbit magnitude strictly exceeds limit or is
// no longer finite. A point exactly at the limit is still iterating.
func escaped(z complex128, limit float64) bool {
	abs := cmplx.Abs(z)
	return abs > limit || math.IsNaN(abs)
}

// ipow raises z to a non-negative integer power by binary
// exponentiation. Unlike cmplx.Pow this stays exact for small integer
// powers instead of routing through exp and log.
func ipow(z complex128, d uint32) complex128 {
	result := complex(1, 0)
	for d > 0 {
		if d&1 == 1 {
			result *= z
		}
		z *= z
		d >>= 1
	}
	return result
}

func isFinite(z complex128) bool {
	return !cmplx.IsInf(z) && !cmplx.IsNaN(z)
}
