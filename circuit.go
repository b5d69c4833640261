package linopt

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

// A placement is a gate wired to specific global modes, in the order the
// gate's own ports are listed.
type placement struct {
	gate  Gate
	modes []int
}

// A Circuit is a fixed number of optical modes plus an ordered sequence of
// gate placements. Gates are appended with Add; composition and amplitude
// queries never mutate the circuit.
type Circuit struct {
	modes      int
	placements []placement
}

// NewCircuit returns an empty circuit over the given number of modes.
func NewCircuit(modes int) (*Circuit, error) {
	if modes <= 0 {
		return nil, fmt.Errorf("%w: mode count %d must be positive", ErrInvalidParameter, modes)
	}
	return &Circuit{modes: modes}, nil
}

// Modes returns the circuit's mode count.
func (c *Circuit) Modes() int { return c.modes }

// Gates returns the number of placed gates.
func (c *Circuit) Gates() int { return len(c.placements) }

// Add appends g acting on the given global modes, in port order. Placement
// order is significant: gates compose in the order they were added (see the
// ordering contract on Compose). It returns ErrInvalidModeAssignment when
// the mode list does not match the gate's arity, contains an out-of-range
// index, or repeats a mode.
func (c *Circuit) Add(g Gate, modes ...int) error {
	if len(modes) != g.Arity() {
		return fmt.Errorf("%w: gate spans %d modes, wired to %d", ErrInvalidModeAssignment, g.Arity(), len(modes))
	}
	seen := make(map[int]bool, len(modes))
	for _, m := range modes {
		if m < 0 || m >= c.modes {
			return fmt.Errorf("%w: mode %d outside [0,%d)", ErrInvalidModeAssignment, m, c.modes)
		}
		if seen[m] {
			return fmt.Errorf("%w: mode %d wired twice", ErrInvalidModeAssignment, m)
		}
		seen[m] = true
	}
	wired := make([]int, len(modes))
	copy(wired, modes)
	c.placements = append(c.placements, placement{gate: g, modes: wired})
	return nil
}

// fingerprint returns a content hash over the circuit's mode count and gate
// sequence. Two circuits with identical gates, parameters, and wiring hash
// equal; the composed unitary cache is keyed on this.
func (c *Circuit) fingerprint() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	word := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	word(uint64(c.modes))
	for _, p := range c.placements {
		switch g := p.gate.(type) {
		case Beamsplitter:
			word(1)
			word(math.Float64bits(g.R))
			word(math.Float64bits(g.Phase))
		case PhaseShifter:
			word(2)
			word(math.Float64bits(g.Phase))
		}
		for _, m := range p.modes {
			word(uint64(m))
		}
	}
	return h.Sum64()
}
