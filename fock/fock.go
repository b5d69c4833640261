// Package fock provides occupation-number representations of multi-photon
// states on a fixed set of optical modes, along with basis enumeration
// helpers.
package fock

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat/combin"
)

// A State is an ordered vector of per-mode photon occupation numbers. The
// slice length is the mode count of the circuit the state is addressed to.
type State []int

// New returns a State with the given occupations.
func New(occupations ...int) State {
	s := make(State, len(occupations))
	copy(s, occupations)
	return s
}

// Total returns the total photon number of s.
func (s State) Total() int {
	n := 0
	for _, o := range s {
		n += o
	}
	return n
}

// Validate returns an error if any occupation number is negative.
func (s State) Validate() error {
	for i, o := range s {
		if o < 0 {
			return fmt.Errorf("mode %d has negative occupation %d", i, o)
		}
	}
	return nil
}

// Clone returns an independent copy of s.
func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Equal reports whether s and t have identical length and occupations.
func (s State) Equal(t State) bool {
	if len(s) != len(t) {
		return false
	}
	for i := range s {
		if s[i] != t[i] {
			return false
		}
	}
	return true
}

// Key returns a compact, collision-free string form of s, suitable for use
// as a map key.
func (s State) Key() string {
	var b strings.Builder
	for i, o := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(o))
	}
	return b.String()
}

// String renders s in ket notation, e.g. |0,1,1,0>.
func (s State) String() string {
	return "|" + s.Key() + ">"
}

// Dim returns the dimension of the Fock space with the given total photon
// number on the given number of modes, i.e. C(modes+photons-1, photons).
func Dim(modes, photons int) int {
	if modes <= 0 || photons < 0 {
		return 0
	}
	return combin.Binomial(modes+photons-1, photons)
}

// Enumerate returns every State on the given number of modes whose total
// photon number is exactly photons, in lexicographic order. The result has
// Dim(modes, photons) entries.
func Enumerate(modes, photons int) []State {
	if modes <= 0 || photons < 0 {
		return nil
	}
	out := make([]State, 0, Dim(modes, photons))
	cur := make(State, modes)
	var rec func(mode, left int)
	rec = func(mode, left int) {
		if mode == modes-1 {
			cur[mode] = left
			out = append(out, cur.Clone())
			return
		}
		for o := 0; o <= left; o++ {
			cur[mode] = o
			rec(mode+1, left-o)
		}
	}
	rec(0, photons)
	return out
}

// factorials holds n! for n in [0, 170]; 171! overflows float64.
var factorials = func() [171]float64 {
	var t [171]float64
	t[0] = 1
	for i := 1; i < len(t); i++ {
		t[i] = t[i-1] * float64(i)
	}
	return t
}()

// Factorial returns n! as a float64. It panics if n is negative or large
// enough to overflow float64; occupation numbers anywhere near that size are
// unreachable behind the photon budget.
func Factorial(n int) float64 {
	if n < 0 || n >= len(factorials) {
		panic(fmt.Sprintf("fock: factorial of %d out of range", n))
	}
	return factorials[n]
}
