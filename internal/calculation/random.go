package calculation

import (
	"math"
	"math/rand"
)

// RandomSource supplies uniform draws in [0, 1).
// *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a source seeded with seed, or with a fresh seed when seed is zero.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = seedFunc()
	}
	return rand.New(rand.NewSource(seed))
}

// NormalSampler turns uniform draws into standard normal draws.
type NormalSampler struct {
	src RandomSource
}

// NewNormalSampler creates a sampler over src.
func NewNormalSampler(src RandomSource) *NormalSampler {
	return &NormalSampler{src: src}
}

// Next returns one N(0,1) draw using the Box-Muller transform.
func (n *NormalSampler) Next() float64 {
	u1 := n.src.Float64()
	for u1 == 0 {
		u1 = n.src.Float64()
	}
	u2 := n.src.Float64()
	return boxMuller(u1, u2)
}

func boxMuller(u1, u2 float64) float64 {
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
