package stats

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrNoObservations is returned when a statistic needs at least one row.
var ErrNoObservations = errors.New("stats: no observations")

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return floats.Min(x), floats.Max(x)
}

// Covariance computes the population covariance between two slices in a single pass.
func Covariance(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 || len(y) != len(x) {
		return 0
	}
	sumX, sumY, sumXY := 0.0, 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
	}
	meanX := sumX / n
	meanY := sumY / n
	return (sumXY / n) - (meanX * meanY)
}

// CovarianceMatrix returns the population covariance of the rows of X:
// rows are observations, columns are variables, and the mean-centred outer
// products are averaged over the row count.
//
// A single observation yields the zero matrix.
func CovarianceMatrix(X [][]float64) (*mat.SymDense, error) {
	n := len(X)
	if n == 0 {
		return nil, ErrNoObservations
	}
	d := len(X[0])

	means := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			col[i] = X[i][j]
		}
		means[j] = Mean(col)
	}

	centered := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		row := centered.RawRowView(i)
		floats.SubTo(row, X[i], means)
	}

	cov := mat.NewSymDense(d, nil)
	cov.SymOuterK(1/float64(n), centered.T())
	return cov, nil
}
