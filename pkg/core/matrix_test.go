package core

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFromRows(t *testing.T) {
	m, err := FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	r, c := m.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	require.Equal(t, 6.0, m.At(2, 1))

	require.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, ToRows(m))

	_, err = FromRows(nil)
	require.ErrorIs(t, err, ErrEmptyMatrix)

	_, err = FromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestParallelRowsCoversEveryRow(t *testing.T) {
	for _, tc := range []struct {
		name       string
		n, workers int
	}{
		{"fewer rows than workers", 3, 8},
		{"uneven chunks", 17, 4},
		{"single worker", 10, 1},
		{"default workers", 100, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			hits := make([]int32, tc.n)
			var calls int32
			ParallelRows(tc.n, tc.workers, func(s, e int) {
				atomic.AddInt32(&calls, 1)
				for i := s; i < e; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				require.Equal(t, int32(1), h, "row %d visited %d times", i, h)
			}
			require.LessOrEqual(t, int(calls), Workers(tc.workers))
		})
	}
}

func TestPinvMatchesInverseForSquare(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
	p, err := Pinv(a)
	require.NoError(t, err)
	inv, err := Inverse(a)
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(p, inv, 1e-10))
}

func TestPinvRectangular(t *testing.T) {
	// Full column rank: pinv(A)·A == I.
	a := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 1,
		1, 2,
		1, 3,
	})
	p, err := Pinv(a)
	require.NoError(t, err)
	r, c := p.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 4, c)

	var id mat.Dense
	id.Mul(p, a)
	require.True(t, mat.EqualApprox(&id, eye(2), 1e-10))
}

func TestPinvRankDeficient(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	})
	p, err := Pinv(a)
	require.NoError(t, err)
	require.True(t, AllFinite(p))
	// pinv of the all-ones 3x3 matrix is the all-ones matrix over 9.
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.InDelta(t, 1.0/9, p.At(i, j), 1e-12)
		}
	}

	// A·A⁺·A == A holds even when A is singular.
	var apa, tmp mat.Dense
	tmp.Mul(a, p)
	apa.Mul(&tmp, a)
	require.True(t, mat.EqualApprox(&apa, a, 1e-10))
}

func TestPinvZeroMatrix(t *testing.T) {
	p, err := Pinv(mat.NewDense(2, 2, nil))
	require.NoError(t, err)
	require.True(t, mat.Equal(p, mat.NewDense(2, 2, nil)))
}

func TestInverseSingular(t *testing.T) {
	_, err := Inverse(mat.NewDense(2, 2, []float64{1, 2, 2, 4}))
	require.ErrorIs(t, err, ErrSingular)

	_, err = Inverse(mat.NewDense(2, 3, nil))
	require.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestNormalizeMaxAbs(t *testing.T) {
	s := mat.NewSymDense(2, []float64{
		2, -8,
		-8, 4,
	})
	n := NormalizeMaxAbs(s)
	require.InDelta(t, 0.25, n.At(0, 0), 1e-15)
	require.InDelta(t, -1.0, n.At(0, 1), 1e-15)
	require.InDelta(t, 0.5, n.At(1, 1), 1e-15)
	// The input is left untouched.
	require.Equal(t, 2.0, s.At(0, 0))

	// Scale invariance: normalize(αΣ) == normalize(Σ) for α > 0.
	var scaled mat.SymDense
	scaled.ScaleSym(37.5, s)
	require.True(t, mat.EqualApprox(NormalizeMaxAbs(&scaled), n, 1e-15))

	z := NormalizeMaxAbs(mat.NewSymDense(3, nil))
	require.True(t, mat.Equal(z, mat.NewSymDense(3, nil)))
}

func TestAllFinite(t *testing.T) {
	require.True(t, AllFinite(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	require.False(t, AllFinite(mat.NewDense(1, 2, []float64{1, math.NaN()})))
	require.False(t, AllFinite(mat.NewDense(1, 2, []float64{math.Inf(-1), 0})))
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
