package linopt

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Compose builds the global M×M unitary for c. Each placement's small
// scattering matrix is embedded into the full mode space (identity elsewhere)
// and the embeddings are multiplied right-to-left: for gates added in order
// g1, g2, ..., gk the result is
//
//	U = E(gk) · ... · E(g2) · E(g1)
//
// so that applying U to a vector of mode amplitudes reproduces sequential
// application of the gates from first-added to last-added. This ordering is a
// contract: interferometer phases depend on it, and it is pinned by tests
// rather than left to call-site convention.
func Compose(c *Circuit) *mat.CDense {
	u := eyeC(c.modes)
	for _, p := range c.placements {
		u = mulC(embed(c.modes, p), u)
	}
	return u
}

// mulC returns the matrix product a·b. gonum's CDense carries no Mul of its
// own, so the product is spelled out entrywise.
func mulC(a, b mat.CMatrix) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		panic(fmt.Sprintf("linopt: multiplying %dx%d into %dx%d", ar, ac, br, bc))
	}
	out := mat.NewCDense(ar, bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < bc; j++ {
			var sum complex128
			for k := 0; k < ac; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			out.Set(i, j, sum)
		}
	}
	return out
}

// embed expands a placement's scattering matrix to the full mode space: the
// identity everywhere, with the gate's entries at the placement's rows and
// columns in port order.
func embed(modes int, p placement) *mat.CDense {
	e := eyeC(modes)
	small := p.gate.scatter()
	k := p.gate.Arity()
	for a := 0; a < k; a++ {
		for b := 0; b < k; b++ {
			e.Set(p.modes[a], p.modes[b], small[a*k+b])
		}
	}
	return e
}

func eyeC(n int) *mat.CDense {
	m := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// UnitarityDefect returns the max-norm deviation of conj(U)ᵀ·U from the
// identity. Composed circuits should stay below ~1e-9; anything larger
// indicates a malformed matrix being passed around.
func UnitarityDefect(u mat.CMatrix) float64 {
	prod := mulC(u.H(), u)
	n, _ := prod.Dims()
	defect := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if d := cmplx.Abs(prod.At(i, j) - want); d > defect {
				defect = d
			}
		}
	}
	return defect
}

// IsUnitary reports whether u is unitary within tol under UnitarityDefect.
func IsUnitary(u mat.CMatrix, tol float64) bool {
	r, c := u.Dims()
	if r != c {
		return false
	}
	d := UnitarityDefect(u)
	return d < tol && !math.IsNaN(d)
}
