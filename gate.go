package linopt

import (
	"fmt"
	"math"
	"math/cmplx"
)

// A Gate is one of the supported elementary linear-optical elements. The set
// is closed: Beamsplitter and PhaseShifter are the only implementations, so
// every consumer can handle all gate kinds exhaustively.
type Gate interface {
	// Arity returns the number of modes the gate spans.
	Arity() int

	// scatter returns the gate's unitary over its own modes, row-major,
	// Arity()*Arity() entries. Closes the interface to this package.
	scatter() []complex128
}

// A Beamsplitter couples two modes. R is the cross (reflection) probability
// and Phase the relative phase picked up on reflection; the scattering matrix
// is
//
//	( sqrt(1-R)          sqrt(R)*e^{+i*Phase} )
//	( sqrt(R)*e^{-i*Phase}   -sqrt(1-R)       )
//
// which is unitary in closed form for every R in [0,1] and every Phase. With
// R=0.5, Phase=0 this is exactly the Hadamard splitter.
type Beamsplitter struct {
	R     float64
	Phase float64
}

// NewBeamsplitter returns a beamsplitter with the given cross probability and
// reflection phase, or ErrInvalidParameter if R lies outside [0,1] or either
// parameter is not finite.
func NewBeamsplitter(r, phase float64) (Beamsplitter, error) {
	if math.IsNaN(r) || r < 0 || r > 1 {
		return Beamsplitter{}, fmt.Errorf("%w: reflectivity %v outside [0,1]", ErrInvalidParameter, r)
	}
	if math.IsNaN(phase) || math.IsInf(phase, 0) {
		return Beamsplitter{}, fmt.Errorf("%w: non-finite phase %v", ErrInvalidParameter, phase)
	}
	return Beamsplitter{R: r, Phase: phase}, nil
}

// Arity returns 2.
func (b Beamsplitter) Arity() int { return 2 }

func (b Beamsplitter) scatter() []complex128 {
	t := complex(math.Sqrt(1-b.R), 0)
	r := math.Sqrt(b.R)
	cross := cmplx.Rect(r, b.Phase)
	return []complex128{
		t, cross,
		cmplx.Conj(cross), -t,
	}
}

// A PhaseShifter multiplies a single mode's amplitude by e^{i*Phase}.
type PhaseShifter struct {
	Phase float64
}

// NewPhaseShifter returns a phase shifter with the given phase. Every finite
// phase is valid; non-finite phases are rejected with ErrInvalidParameter.
func NewPhaseShifter(phase float64) (PhaseShifter, error) {
	if math.IsNaN(phase) || math.IsInf(phase, 0) {
		return PhaseShifter{}, fmt.Errorf("%w: non-finite phase %v", ErrInvalidParameter, phase)
	}
	return PhaseShifter{Phase: phase}, nil
}

// Arity returns 1.
func (p PhaseShifter) Arity() int { return 1 }

func (p PhaseShifter) scatter() []complex128 {
	return []complex128{cmplx.Rect(1, p.Phase)}
}
