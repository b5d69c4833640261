package linopt

import (
	"context"
	"fmt"
	"math/cmplx"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/quoptic/linopt/fock"
)

// NormMode selects how the distribution analyser reports probabilities.
type NormMode int

const (
	// NormRaw reports |amplitude|² unmodified. Rows need not sum to 1: the
	// label sets usually enumerate only a subset of the full Fock space.
	NormRaw NormMode = iota

	// NormRenormalized divides each input row by its raw sum, post-selecting
	// on the outcome lying in the enumerated output set. Rows then sum to 1;
	// a row with exactly zero raw mass fails with ErrEmptySupport.
	NormRenormalized
)

// A LabelSet is an ordered, injective mapping from caller-chosen labels to
// Fock states, used to name the rows and columns of a distribution table.
// Iteration order is insertion order.
type LabelSet struct {
	labels []string
	states map[string]fock.State
}

// NewLabelSet returns an empty label set.
func NewLabelSet() *LabelSet {
	return &LabelSet{states: make(map[string]fock.State)}
}

// Add associates label with state. Re-adding an existing label is an error,
// as is a state with negative occupations.
func (ls *LabelSet) Add(label string, state fock.State) error {
	if _, ok := ls.states[label]; ok {
		return fmt.Errorf("%w: duplicate label %q", ErrInvalidParameter, label)
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: label %q: %v", ErrInvalidParameter, label, err)
	}
	ls.labels = append(ls.labels, label)
	ls.states[label] = state.Clone()
	return nil
}

// Labels returns the labels in insertion order.
func (ls *LabelSet) Labels() []string {
	out := make([]string, len(ls.labels))
	copy(out, ls.labels)
	return out
}

// State returns the Fock state for label.
func (ls *LabelSet) State(label string) (fock.State, bool) {
	s, ok := ls.states[label]
	return s, ok
}

// Len returns the number of labels.
func (ls *LabelSet) Len() int { return len(ls.labels) }

// A Table holds the probabilities for every (input label, output label) pair
// of a distribution query. Row and column order follow the label sets the
// caller supplied, regardless of the order parallel workers finished in.
type Table struct {
	inputs  []string
	outputs []string
	rows    [][]float64
	inIdx   map[string]int
	outIdx  map[string]int
}

// Inputs returns the input labels in table row order.
func (t *Table) Inputs() []string { return t.inputs }

// Outputs returns the output labels in table column order.
func (t *Table) Outputs() []string { return t.outputs }

// Prob returns the probability for the given label pair, or false if either
// label is unknown.
func (t *Table) Prob(in, out string) (float64, bool) {
	i, ok := t.inIdx[in]
	if !ok {
		return 0, false
	}
	j, ok := t.outIdx[out]
	if !ok {
		return 0, false
	}
	return t.rows[i][j], true
}

// Row returns a copy of the probability row for the given input label.
func (t *Table) Row(in string) ([]float64, bool) {
	i, ok := t.inIdx[in]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(t.rows[i]))
	copy(out, t.rows[i])
	return out, true
}

// Distribution computes |amplitude|² for the cartesian product of the two
// label sets and assembles the results into a Table. Pairs are evaluated by
// the simulator's worker pool; every worker reads the same immutable unitary,
// so no locking happens on the hot path, and each result lands at its label's
// row/column position. With NormRenormalized each row is divided by its raw
// sum (ErrEmptySupport if that sum is exactly zero).
func (s *Simulator) Distribution(ctx context.Context, inputs, outputs *LabelSet, norm NormMode) (*Table, error) {
	if inputs.Len() == 0 || outputs.Len() == 0 {
		return nil, fmt.Errorf("%w: empty label set", ErrInvalidParameter)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := s.Unitary()
	if err != nil {
		return nil, err
	}

	t := &Table{
		inputs:  inputs.Labels(),
		outputs: outputs.Labels(),
		rows:    make([][]float64, inputs.Len()),
		inIdx:   make(map[string]int, inputs.Len()),
		outIdx:  make(map[string]int, outputs.Len()),
	}
	for i, l := range t.inputs {
		t.inIdx[l] = i
		t.rows[i] = make([]float64, outputs.Len())
	}
	for j, l := range t.outputs {
		t.outIdx[l] = j
	}

	type job struct{ i, j int }
	jobs := make(chan job)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < s.workers; w++ {
		g.Go(func() error {
			for jb := range jobs {
				in, _ := inputs.State(t.inputs[jb.i])
				out, _ := outputs.State(t.outputs[jb.j])
				amp, err := s.amplitude(gctx, u, in, out)
				if err != nil {
					return err
				}
				p := cmplx.Abs(amp)
				// Distinct cells are written by distinct jobs; no lock needed.
				t.rows[jb.i][jb.j] = p * p
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(jobs)
		for i := range t.inputs {
			for j := range t.outputs {
				select {
				case jobs <- job{i, j}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if norm == NormRenormalized {
		for i, row := range t.rows {
			sum := floats.Sum(row)
			if sum == 0 {
				return nil, fmt.Errorf("%w: input %q has no mass over the enumerated outputs",
					ErrEmptySupport, t.inputs[i])
			}
			floats.Scale(1/sum, row)
		}
	}
	return t, nil
}
