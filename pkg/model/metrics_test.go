package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRegressionMetrics(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	yPred := []float64{1, 2, 3, 6}

	require.InDelta(t, 1.0, MSE(yTrue, yPred), 1e-12)
	require.InDelta(t, 0.5, MAE(yTrue, yPred), 1e-12)
	require.InDelta(t, 1.0, RMSE(yTrue, yPred), 1e-12)
	require.InDelta(t, 1-4.0/5.0, R2(yTrue, yPred), 1e-12)
	require.Equal(t, 0.0, R2([]float64{2, 2}, []float64{1, 3}))
}

func TestDenseMetrics(t *testing.T) {
	yTrue := mat.NewDense(2, 2, []float64{0, 0, 0, 0})
	yPred := mat.NewDense(2, 2, []float64{1, -1, 2, 0})

	require.InDelta(t, 6.0/4.0, MSEDense(yTrue, yPred), 1e-12)
	require.InDelta(t, math.Sqrt(1.5), RMSEDense(yTrue, yPred), 1e-12)
}
