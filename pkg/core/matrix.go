package core

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("core: dimension mismatch")
	// ErrEmptyMatrix is returned for inputs with no rows or no columns.
	ErrEmptyMatrix = errors.New("core: empty matrix")
	// ErrSVDFailed is returned when the singular value decomposition does not converge.
	ErrSVDFailed = errors.New("core: SVD factorization failed")
	// ErrSingular is returned when a direct inverse does not exist.
	ErrSingular = errors.New("core: singular matrix")
)

// pinvRcond is the relative cutoff below which singular values are treated as zero.
const pinvRcond = 1e-12

// FromRows copies a nested slice into a Dense matrix.
func FromRows(a [][]float64) (*mat.Dense, error) {
	r := len(a)
	if r == 0 || len(a[0]) == 0 {
		return nil, ErrEmptyMatrix
	}

	c := len(a[0])
	m := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		if len(a[i]) != c {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(a[i]), c, ErrDimensionMismatch)
		}
		m.SetRow(i, a[i])
	}
	return m, nil
}

// ToRows copies a matrix into a nested slice.
func ToRows(m mat.Matrix) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

// Workers returns n if positive, otherwise the number of usable CPUs.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// ParallelRows splits [0, n) into contiguous chunks and runs fn on each chunk
// in its own goroutine. It returns once every chunk is done.
func ParallelRows(n, workers int, fn func(start, end int)) {
	workers = Workers(workers)
	rowsPerWorker := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, n)
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// Pinv returns the Moore-Penrose pseudo-inverse of a using a thin SVD.
// Singular values smaller than pinvRcond*max(r, c)*σmax are dropped, so
// rank-deficient and all-zero inputs yield a finite result.
func Pinv(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmptyMatrix
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSVDFailed
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	// Values are sorted in decreasing order.
	tol := pinvRcond * float64(max(r, c)) * s[0]

	// v · diag(1/s), in place.
	vr, _ := v.Dims()
	for j, sv := range s {
		f := 0.0
		if sv > tol {
			f = 1 / sv
		}
		for i := 0; i < vr; i++ {
			v.Set(i, j, v.At(i, j)*f)
		}
	}

	p := mat.NewDense(c, r, nil)
	p.Mul(&v, u.T())
	return p, nil
}

// Inverse returns the direct inverse of the square matrix a. Exactly singular
// and numerically singular inputs both yield ErrSingular.
func Inverse(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("inverse of %dx%d: %w", r, c, ErrDimensionMismatch)
	}

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return &inv, nil
}

// NormalizeMaxAbs returns s scaled so its largest absolute entry is 1.
// An all-zero matrix is returned as a zero copy.
func NormalizeMaxAbs(s mat.Symmetric) *mat.SymDense {
	n := s.SymmetricDim()
	out := mat.NewSymDense(n, nil)

	peak := math.Max(math.Abs(mat.Max(s)), math.Abs(mat.Min(s)))
	if peak == 0 {
		out.CopySym(s)
		return out
	}
	out.ScaleSym(1/peak, s)
	return out
}

// AllFinite reports whether every entry of m is neither NaN nor ±Inf.
func AllFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		if floats.HasNaN(row) {
			return false
		}
		for _, v := range row {
			if math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
