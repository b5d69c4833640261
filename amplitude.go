package linopt

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/quoptic/linopt/fock"
)

// TransitionAmplitude computes the quantum amplitude for the linear-optical
// network u to scatter the input Fock state into the output Fock state:
//
//	amp = perm(S) / sqrt(Π_i in_i! · Π_j out_j!)
//
// where S repeats column i of u in_i times and row j out_j times, both in
// ascending mode order. When the two states' photon totals differ the
// amplitude is exactly zero (photon-number conservation; an equality check,
// not a permanent evaluation). Amplitudes that are mathematically zero for
// interference reasons surface as magnitudes around 1e-16 from floating
// cancellation; treat anything below ~1e-9 of the largest amplitude in the
// same computation as zero.
func TransitionAmplitude(ctx context.Context, u mat.CMatrix, in, out fock.State) (complex128, error) {
	rows, cols := u.Dims()
	if rows != cols || len(in) != rows || len(out) != rows {
		return 0, fmt.Errorf("%w: %dx%d unitary with input of %d and output of %d modes",
			ErrDimensionMismatch, rows, cols, len(in), len(out))
	}
	if err := in.Validate(); err != nil {
		return 0, fmt.Errorf("%w: input %v", ErrInvalidParameter, err)
	}
	if err := out.Validate(); err != nil {
		return 0, fmt.Errorf("%w: output %v", ErrInvalidParameter, err)
	}

	n := in.Total()
	if n != out.Total() {
		return 0, nil
	}
	if n == 0 {
		// Vacuum in, vacuum out: empty permanent.
		return 1, nil
	}

	sub := scatterSubmatrix(u, in, out, n)
	perm, err := Permanent(ctx, sub)
	if err != nil {
		return 0, err
	}

	norm := 1.0
	for _, o := range in {
		norm *= fock.Factorial(o)
	}
	for _, o := range out {
		norm *= fock.Factorial(o)
	}
	return perm / complex(math.Sqrt(norm), 0), nil
}

// scatterSubmatrix builds the n×n matrix whose permanent gives the in→out
// scattering amplitude: column i of u repeated in_i times, row j repeated
// out_j times, ascending mode order so the construction is reproducible.
func scatterSubmatrix(u mat.CMatrix, in, out fock.State, n int) *mat.CDense {
	colModes := make([]int, 0, n)
	for i, o := range in {
		for k := 0; k < o; k++ {
			colModes = append(colModes, i)
		}
	}
	rowModes := make([]int, 0, n)
	for j, o := range out {
		for k := 0; k < o; k++ {
			rowModes = append(rowModes, j)
		}
	}
	sub := mat.NewCDense(n, n, nil)
	for r, rm := range rowModes {
		for c, cm := range colModes {
			sub.Set(r, c, u.At(rm, cm))
		}
	}
	return sub
}
