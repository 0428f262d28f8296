package voxel

import "math"

// Deterministic value noise, hashed rather than interpolated from a
// gradient table so the exact same seed produces bit-identical terrain on
// every platform — no trigonometric or gradient-table floating point
// reduction to drift between compilers. This replaces the original
// engine's simplex noise call with an equivalent-purpose, dependency-free
// lattice noise.

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func hashLattice(x, z int64, seed int64) uint64 {
	v := uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue(x, z int64, seed int64) float64 {
	return float64(hashLattice(x, z, seed)>>11) / float64(1<<53)
}

func valueNoise2D(x, z float64, seed int64) float64 {
	x0 := int64(math.Floor(x))
	z0 := int64(math.Floor(z))
	x1 := x0 + 1
	z1 := z0 + 1

	tx := fade(x - float64(x0))
	tz := fade(z - float64(z0))

	v00 := latticeValue(x0, z0, seed)
	v10 := latticeValue(x1, z0, seed)
	v01 := latticeValue(x0, z1, seed)
	v11 := latticeValue(x1, z1, seed)

	top := lerp(v00, v10, tx)
	bottom := lerp(v01, v11, tx)
	return lerp(top, bottom, tz)
}

// octaveScales and octaveWeights fix the five-octave summed noise this
// generator uses for height sampling: two broad low-frequency terms
// (0.002 and 0.004), regional hills (0.005), a mid-scale ridge term
// (0.015), and small bumps (0.04).
var (
	octaveScales  = [5]float64{0.002, 0.005, 0.04, 0.015, 0.004}
	octaveWeights = [5]float64{0.6, 0.2, 0.05, 0.1, 0.05}
)

// noise01 returns the weighted five-octave sum at sample (sx, sz),
// normalized back into [0, 1].
func noise01(sx, sz float64, seed int64) float64 {
	var sum float64
	for i := 0; i < 5; i++ {
		sum += octaveWeights[i] * valueNoise2D(sx*octaveScales[i], sz*octaveScales[i], seed)
	}
	return sum
}
