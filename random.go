package linopt

import (
	"math"
	"math/rand"
)

// NewRandomCircuit builds a brick-wall interferometer: depth layers of
// beamsplitters with uniformly random reflectivity and phase on alternating
// neighbour pairs, each followed by a random phase shifter on its upper mode.
// Useful as a test and benchmark fixture; with enough depth the composed
// unitary is a dense, featureless member of the unitary group.
func NewRandomCircuit(modes, depth int, rng *rand.Rand) (*Circuit, error) {
	c, err := NewCircuit(modes)
	if err != nil {
		return nil, err
	}
	for d := 0; d < depth; d++ {
		for m := d % 2; m+1 < modes; m += 2 {
			bs, err := NewBeamsplitter(rng.Float64(), 2*math.Pi*rng.Float64())
			if err != nil {
				return nil, err
			}
			if err := c.Add(bs, m, m+1); err != nil {
				return nil, err
			}
			ps, err := NewPhaseShifter(2 * math.Pi * rng.Float64())
			if err != nil {
				return nil, err
			}
			if err := c.Add(ps, m); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}
