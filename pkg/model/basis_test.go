package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPrecisionNormalizesByMaxAbs(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{
		2, 0,
		0, 0.5,
	})
	p, err := precision(cov)
	require.NoError(t, err)
	// normalize → diag(1, 0.25), inverse → diag(1, 4)
	require.InDelta(t, 1.0, p.At(0, 0), 1e-12)
	require.InDelta(t, 4.0, p.At(1, 1), 1e-12)
	require.InDelta(t, 0.0, p.At(0, 1), 1e-12)

	diff := mat.NewVecDense(2, nil)
	x := mat.NewVecDense(2, []float64{1, 1})
	c := mat.NewVecDense(2, nil)
	require.InDelta(t, math.Exp(-5), basis(diff, x, c, p), 1e-12)
}

func TestPrecisionIgnoresCovarianceScale(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{
		0.3, 0.1,
		0.1, 0.2,
	})
	var big mat.SymDense
	big.ScaleSym(1000, cov)

	p1, err := precision(cov)
	require.NoError(t, err)
	p2, err := precision(&big)
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(p1, p2, 1e-9))
}

func TestPrecisionOfDegenerateCovariances(t *testing.T) {
	t.Run("zero", func(t *testing.T) {
		p, err := precision(mat.NewSymDense(2, nil))
		require.NoError(t, err)

		diff := mat.NewVecDense(2, nil)
		got := basis(diff, mat.NewVecDense(2, []float64{3, -4}), mat.NewVecDense(2, nil), p)
		require.Equal(t, 1.0, got)
	})

	t.Run("rank one", func(t *testing.T) {
		p, err := precision(mat.NewSymDense(2, []float64{1, 1, 1, 1}))
		require.NoError(t, err)

		diff := mat.NewVecDense(2, nil)
		origin := mat.NewVecDense(2, nil)
		// Orthogonal to the spread direction: the pseudo-inverse ignores it.
		require.InDelta(t, 1.0, basis(diff, mat.NewVecDense(2, []float64{1, -1}), origin, p), 1e-12)
		// Along the spread direction: (1,1)·pinv·(1,1) = 1.
		require.InDelta(t, math.Exp(-1), basis(diff, mat.NewVecDense(2, []float64{1, 1}), origin, p), 1e-12)
	})
}

func TestBasisOneDimension(t *testing.T) {
	p, err := precision(mat.NewSymDense(1, []float64{0.25}))
	require.NoError(t, err)
	diff := mat.NewVecDense(1, nil)
	got := basis(diff, mat.NewVecDense(1, []float64{1.5}), mat.NewVecDense(1, []float64{0.5}), p)
	require.InDelta(t, math.Exp(-1), got, 1e-12)
}

func TestActivationsShapeAndRange(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
	})
	centers := mat.NewDense(2, 2, []float64{
		0, 0,
		1, 1,
	})
	id := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	G := activations(X, centers, []*mat.Dense{id, id}, 3)

	r, c := G.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 2, c)
	require.Equal(t, 1.0, G.At(0, 0))
	require.Equal(t, 1.0, G.At(3, 1))
	require.InDelta(t, math.Exp(-2), G.At(0, 1), 1e-15)
	require.InDelta(t, math.Exp(-1), G.At(1, 0), 1e-15)
	require.InDelta(t, G.At(1, 0), G.At(2, 1), 1e-15)
}
