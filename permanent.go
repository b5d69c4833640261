package linopt

import (
	"context"
	"fmt"
	"math/bits"

	"gonum.org/v1/gonum/mat"
)

// cancelCheckStride is how many Ryser subset terms are evaluated between
// context checks. Cancellation is honored at subset granularity: the current
// term always completes, so no torn partial sums are ever observed.
const cancelCheckStride = 1 << 12

// Permanent computes the permanent of the square complex matrix a using
// Ryser's inclusion-exclusion formula with Gray-code column updates, running
// in O(2^n · n) time and O(n) extra space. The permanent of the empty 0×0
// matrix is 1. Matrices wider than 62 are refused outright: 2^62 terms will
// not finish in any caller's lifetime.
func Permanent(ctx context.Context, a mat.CMatrix) (complex128, error) {
	n, c := a.Dims()
	if n != c {
		return 0, fmt.Errorf("%w: permanent of %dx%d matrix", ErrDimensionMismatch, n, c)
	}
	if n > 62 {
		return 0, fmt.Errorf("%w: %d-photon permanent", ErrPhotonBudgetExceeded, n)
	}
	if n == 0 {
		return 1, nil
	}

	// Flatten once; mat.CMatrix.At in the hot loop costs too much.
	entries := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			entries[i*n+j] = a.At(i, j)
		}
	}

	// perm(a) = (-1)^n  Σ_{T ⊆ cols} (-1)^{|T|} Π_r Σ_{c∈T} a[r][c].
	// Consecutive subsets follow the Gray code, so each step adds or removes
	// exactly one column from the running row sums.
	rowSums := make([]complex128, n)
	var total complex128
	var prev uint64
	for k := uint64(1); k < 1<<uint(n); k++ {
		if k%cancelCheckStride == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		gray := k ^ (k >> 1)
		flipped := gray ^ prev
		col := bits.TrailingZeros64(flipped)
		if gray&flipped != 0 {
			for r := 0; r < n; r++ {
				rowSums[r] += entries[r*n+col]
			}
		} else {
			for r := 0; r < n; r++ {
				rowSums[r] -= entries[r*n+col]
			}
		}
		prev = gray

		prod := complex128(1)
		for r := 0; r < n; r++ {
			prod *= rowSums[r]
		}
		// Term sign is (-1)^(n-|T|).
		if (n-bits.OnesCount64(gray))%2 == 0 {
			total += prod
		} else {
			total -= prod
		}
	}
	return total, nil
}
