package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMeanAndMinMax(t *testing.T) {
	require.Equal(t, 0.0, Mean(nil))
	require.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-15)

	lo, hi := MinMax([]float64{3, -1, 7, 2})
	require.Equal(t, -1.0, lo)
	require.Equal(t, 7.0, hi)
}

func TestCovarianceMatrixPopulation(t *testing.T) {
	X := [][]float64{
		{1, 2},
		{2, 4},
		{3, 7},
		{6, 3},
	}
	cov, err := CovarianceMatrix(X)
	require.NoError(t, err)
	require.Equal(t, 2, cov.SymmetricDim())

	xs := []float64{1, 2, 3, 6}
	ys := []float64{2, 4, 7, 3}
	require.InDelta(t, Covariance(xs, xs), cov.At(0, 0), 1e-12)
	require.InDelta(t, Covariance(xs, ys), cov.At(0, 1), 1e-12)
	require.InDelta(t, Covariance(ys, ys), cov.At(1, 1), 1e-12)

	// Divided by n, not n-1: var(1,2,3,6) = 3.5.
	require.InDelta(t, 3.5, cov.At(0, 0), 1e-12)
}

func TestCovarianceMatrixSingleRow(t *testing.T) {
	cov, err := CovarianceMatrix([][]float64{{4, -2, 9}})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.Equal(t, 0.0, cov.At(i, j))
		}
	}
}

func TestCovarianceMatrixEmpty(t *testing.T) {
	_, err := CovarianceMatrix(nil)
	require.ErrorIs(t, err, ErrNoObservations)
}

func TestMinMaxScaler(t *testing.T) {
	X := [][]float64{
		{0, 10, 5},
		{5, 20, 5},
		{10, 30, 5},
	}
	s := NewMinMaxScaler()

	_, err := s.Transform(X)
	require.ErrorIs(t, err, ErrNotFitted)

	out, err := s.FitTransform(X)
	require.NoError(t, err)
	require.Equal(t, [][]float64{
		{0, 0, 0},
		{0.5, 0.5, 0},
		{1, 1, 0},
	}, out)

	back, err := s.InverseTransform([][]float64{{0.5, 0.25, 0}})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{5, 15, 5}, back[0], 1e-12)
}
