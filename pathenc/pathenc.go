// Package pathenc maps logical qubit values onto dual-rail path-encoded Fock
// states: each qubit owns a pair of optical modes, and the bit value is which
// of the two modes holds the single photon. Modes outside every rail pair are
// auxiliary and must stay empty in any valid logical state.
package pathenc

import (
	"fmt"
	"strconv"

	"github.com/quoptic/linopt"
	"github.com/quoptic/linopt/fock"
)

// A Codec translates between logical bit tuples and Fock states on a fixed
// mode layout. The zero rail of pair k carries bit value 0, the one rail bit
// value 1.
type Codec struct {
	modes int
	pairs [][2]int
	aux   []int
}

// NewCodec returns a codec over the given mode count with one rail pair per
// qubit, listed in qubit order. Pair modes must be in range and no mode may
// appear in two pairs.
func NewCodec(modes int, pairs ...[2]int) (*Codec, error) {
	if modes <= 0 {
		return nil, fmt.Errorf("%w: mode count %d must be positive", linopt.ErrInvalidParameter, modes)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: need at least one rail pair", linopt.ErrInvalidParameter)
	}
	used := make(map[int]bool)
	for _, p := range pairs {
		for _, m := range p {
			if m < 0 || m >= modes {
				return nil, fmt.Errorf("%w: rail mode %d outside [0,%d)", linopt.ErrInvalidModeAssignment, m, modes)
			}
			if used[m] {
				return nil, fmt.Errorf("%w: mode %d used by two rails", linopt.ErrInvalidModeAssignment, m)
			}
			used[m] = true
		}
	}
	c := &Codec{modes: modes, pairs: append([][2]int(nil), pairs...)}
	for m := 0; m < modes; m++ {
		if !used[m] {
			c.aux = append(c.aux, m)
		}
	}
	return c, nil
}

// Qubits returns the number of rail pairs.
func (c *Codec) Qubits() int { return len(c.pairs) }

// Modes returns the total mode count, including auxiliary modes.
func (c *Codec) Modes() int { return c.modes }

// Encode maps a logical bit tuple to its path-encoded Fock state: one photon
// on the selected rail of each pair, zero everywhere else. The mapping is
// total for well-formed input; only a wrong-length tuple or a non-bit value
// is an error.
func (c *Codec) Encode(bits []int) (fock.State, error) {
	if len(bits) != len(c.pairs) {
		return nil, fmt.Errorf("%w: %d bits for %d qubits", linopt.ErrDimensionMismatch, len(bits), len(c.pairs))
	}
	s := make(fock.State, c.modes)
	for k, b := range bits {
		if b != 0 && b != 1 {
			return nil, fmt.Errorf("%w: bit %d is %d", linopt.ErrInvalidParameter, k, b)
		}
		s[c.pairs[k][b]] = 1
	}
	return s, nil
}

// Decode inverts Encode. It reports ok=false when the state is not a valid
// logical encoding: wrong length, any photon on an auxiliary mode, or any
// rail pair whose combined occupation is not exactly one. Not-a-logical-state
// is an answer, not a failure, so no error is involved.
func (c *Codec) Decode(s fock.State) (bits []int, ok bool) {
	if len(s) != c.modes {
		return nil, false
	}
	for _, m := range c.aux {
		if s[m] != 0 {
			return nil, false
		}
	}
	bits = make([]int, len(c.pairs))
	for k, p := range c.pairs {
		switch {
		case s[p[0]] == 1 && s[p[1]] == 0:
			bits[k] = 0
		case s[p[0]] == 0 && s[p[1]] == 1:
			bits[k] = 1
		default:
			return nil, false
		}
	}
	return bits, true
}

// LabelSet enumerates all 2^k logical states in binary order as a ready-made
// distribution label set. Labels are the bit tuples, e.g. "0110".
func (c *Codec) LabelSet() (*linopt.LabelSet, error) {
	ls := linopt.NewLabelSet()
	k := len(c.pairs)
	bits := make([]int, k)
	for v := 0; v < 1<<k; v++ {
		label := make([]byte, k)
		for q := 0; q < k; q++ {
			bits[q] = (v >> (k - 1 - q)) & 1
			label[q] = '0' + byte(bits[q])
		}
		s, err := c.Encode(bits)
		if err != nil {
			return nil, err
		}
		if err := ls.Add(string(label), s); err != nil {
			return nil, err
		}
	}
	return ls, nil
}

// Label renders a bit tuple the way LabelSet names it.
func Label(bits []int) string {
	b := make([]byte, 0, len(bits))
	for _, bit := range bits {
		b = strconv.AppendInt(b, int64(bit), 10)
	}
	return string(b)
}
