// Package linopt simulates linear-optical networks acting on photon-number
// (Fock) states. A Circuit is an ordered arrangement of beamsplitters and
// phase shifters on M modes; composing it yields the global M×M unitary, and
// a Simulator evaluates exact transition amplitudes between Fock states via
// matrix permanents (Ryser's formula) and aggregates them into probability
// tables with optional post-selection.
//
// Permanent evaluation is exponential in the photon number, not the mode
// count. Callers bound cost by bounding photons; the Simulator enforces a
// configurable photon budget and rejects oversized queries up front.
package linopt

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/quoptic/linopt/fock"
)

// DefaultPhotonBudget bounds the photon number per amplitude query. Twenty
// photons is about a million Ryser terms, comfortably interactive; every
// additional photon doubles the cost.
var DefaultPhotonBudget = 20

// A SimulatorOpts packages together the arguments necessary to construct a
// Simulator.
type SimulatorOpts struct {
	// Circuit is the network to simulate. Must be non-nil.
	Circuit *Circuit

	// PhotonBudget caps the photon number accepted per query. Defaults to
	// DefaultPhotonBudget.
	PhotonBudget int

	// Workers bounds the goroutines evaluating a distribution query.
	// Defaults to runtime.NumCPU().
	Workers int

	// CacheAmplitudes enables memoization of individual amplitude results
	// keyed by (circuit content, input, output). Worth enabling when the
	// same pairs recur across distribution queries.
	CacheAmplitudes bool
}

// A Simulator answers amplitude and distribution queries against one
// circuit. The composed unitary is cached by circuit content and recomputed
// only if the circuit gains gates between queries; queries themselves are
// safe to issue from multiple goroutines.
type Simulator struct {
	circuit *Circuit
	budget  int
	workers int

	mu      sync.RWMutex
	fp      uint64
	unitary *mat.CDense
	amps    map[string]complex128 // nil when memoization is off
}

// NewSimulator returns a Simulator configured in accordance with opts, or an
// error if the options are nonsensical.
func NewSimulator(opts SimulatorOpts) (*Simulator, error) {
	if opts.Circuit == nil {
		return nil, fmt.Errorf("%w: must provide Circuit", ErrInvalidParameter)
	}
	if opts.PhotonBudget < 0 || opts.Workers < 0 {
		return nil, fmt.Errorf("%w: negative PhotonBudget or Workers", ErrInvalidParameter)
	}
	budget := opts.PhotonBudget
	if budget == 0 {
		budget = DefaultPhotonBudget
	}
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	s := &Simulator{
		circuit: opts.Circuit,
		budget:  budget,
		workers: workers,
	}
	if opts.CacheAmplitudes {
		s.amps = make(map[string]complex128)
	}
	return s, nil
}

// Circuit returns the simulated circuit.
func (s *Simulator) Circuit() *Circuit { return s.circuit }

// Unitary returns the circuit's composed global unitary. The matrix is
// computed once per circuit content and shared; callers must not mutate it.
func (s *Simulator) Unitary() (*mat.CDense, error) {
	fp := s.circuit.fingerprint()
	s.mu.RLock()
	if s.unitary != nil && s.fp == fp {
		u := s.unitary
		s.mu.RUnlock()
		return u, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unitary != nil && s.fp == fp {
		return s.unitary, nil
	}
	u := Compose(s.circuit)
	s.fp = fp
	s.unitary = u
	if s.amps != nil {
		// Stale amplitudes from a previous circuit revision.
		s.amps = make(map[string]complex128)
	}
	return u, nil
}

// Amplitude computes the transition amplitude between the given input and
// output Fock states through the simulated circuit. Mismatched photon totals
// give exactly zero; photon numbers above the budget are rejected with
// ErrPhotonBudgetExceeded before any exponential work starts.
func (s *Simulator) Amplitude(ctx context.Context, in, out fock.State) (complex128, error) {
	u, err := s.Unitary()
	if err != nil {
		return 0, err
	}
	return s.amplitude(ctx, u, in, out)
}

// amplitude answers one query against an already-composed unitary. Workers
// fanning out over a distribution call this directly with the shared matrix,
// so with memoization off the hot path takes no locks at all.
func (s *Simulator) amplitude(ctx context.Context, u *mat.CDense, in, out fock.State) (complex128, error) {
	if n := in.Total(); n > s.budget {
		return 0, fmt.Errorf("%w: %d photons, budget %d", ErrPhotonBudgetExceeded, n, s.budget)
	}

	var key string
	if s.amps != nil {
		key = in.Key() + ">" + out.Key()
		s.mu.RLock()
		amp, ok := s.amps[key]
		s.mu.RUnlock()
		if ok {
			return amp, nil
		}
	}

	amp, err := TransitionAmplitude(ctx, u, in, out)
	if err != nil {
		return 0, err
	}
	if s.amps != nil {
		s.mu.Lock()
		s.amps[key] = amp
		s.mu.Unlock()
	}
	return amp, nil
}

// Probability returns |amplitude|² for the given pair.
func (s *Simulator) Probability(ctx context.Context, in, out fock.State) (float64, error) {
	amp, err := s.Amplitude(ctx, in, out)
	if err != nil {
		return 0, err
	}
	re, im := real(amp), imag(amp)
	return re*re + im*im, nil
}
