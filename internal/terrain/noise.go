// Package terrain provides the seeded noise generator the world feeds into
// chunk generation. The lattice values come from the same coordinate hash
// the rest of the worldgen uses, so terrain is fully determined by the seed
// with no generator state to snapshot.
package terrain

import (
	"voxelforge/internal/mathx"
)

type Noise struct {
	seed uint32
}

func New(seed uint32) *Noise {
	return &Noise{seed: seed}
}

func (n *Noise) SetSeed(seed uint32) {
	n.seed = seed
}

func (n *Noise) Seed() uint32 {
	return n.seed
}

// lattice returns a value in [0,1) at an integer lattice point.
func (n *Noise) lattice(x, z int) float64 {
	return float64(mathx.Hash2(int64(n.seed), x, z)&0xffff) / 0x10000
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Sample returns bilinear value noise in [0,1) at a continuous point.
func (n *Noise) Sample(x, z float64) float64 {
	x0 := floor(x)
	z0 := floor(z)
	tx := smooth(x - float64(x0))
	tz := smooth(z - float64(z0))

	v00 := n.lattice(x0, z0)
	v10 := n.lattice(x0+1, z0)
	v01 := n.lattice(x0, z0+1)
	v11 := n.lattice(x0+1, z0+1)

	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), tz)
}

// Fractal sums octaves of Sample. Persistence scales amplitude per octave,
// lacunarity scales frequency. The result is normalized back to [0,1).
func (n *Noise) Fractal(x, z float64, octaves int, freq, persistence, lacunarity float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	sum := 0.0
	amp := 1.0
	total := 0.0
	for o := 0; o < octaves; o++ {
		sum += n.Sample(x*freq, z*freq) * amp
		total += amp
		amp *= persistence
		freq *= lacunarity
	}
	return sum / total
}

func floor(f float64) int {
	i := int(f)
	if f < float64(i) {
		i--
	}
	return i
}
