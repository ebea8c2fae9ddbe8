package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"rbfnet/pkg/core"
)

// precision returns pinv(Σ / max|Σ|), the metric of the kernel for one center.
//
// The max-abs rescaling makes the kernel width independent of the overall
// scale of Σ; only its shape is kept. The pseudo-inverse is always used here,
// so near-singular and zero covariances (one-row clusters) still give a
// finite metric. The weight solve does not share this policy: see SolveMethod.
func precision(cov mat.Symmetric) (*mat.Dense, error) {
	p, err := core.Pinv(core.NormalizeMaxAbs(cov))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularMatrix, err)
	}
	if !core.AllFinite(p) {
		return nil, fmt.Errorf("covariance pseudo-inverse is not finite: %w", ErrSingularMatrix)
	}
	return p, nil
}

// basis evaluates the Gaussian kernel exp(-(c-x)ᵀ·P·(c-x)) for one sample x,
// one center c and that center's precision P. diff is scratch space of
// length din.
func basis(diff *mat.VecDense, x, c mat.Vector, p mat.Matrix) float64 {
	diff.SubVec(c, x)
	return math.Exp(-mat.Inner(diff, p, diff))
}

// activations evaluates every (sample, center) pair into an N×k matrix.
//
// This is the hot loop of both Train and Predict: O(N·k·din²). Rows are
// split across workers; each worker writes only its own rows and every entry
// is computed by a single goroutine, so the result does not depend on the
// worker count.
func activations(X mat.Matrix, centers *mat.Dense, precisions []*mat.Dense, workers int) *mat.Dense {
	n, din := X.Dims()
	k, _ := centers.Dims()
	G := mat.NewDense(n, k, nil)

	core.ParallelRows(n, workers, func(start, end int) {
		row := make([]float64, din)
		x := mat.NewVecDense(din, row)
		diff := mat.NewVecDense(din, nil)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			for j := 0; j < k; j++ {
				G.Set(i, j, basis(diff, x, centers.RowView(j), precisions[j]))
			}
		}
	})
	return G
}
