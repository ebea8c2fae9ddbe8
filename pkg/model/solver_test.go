package model

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolversAgreeOnSquareFullRank(t *testing.T) {
	G := mat.NewDense(3, 3, []float64{
		1.0, 0.2, 0.1,
		0.2, 1.0, 0.3,
		0.1, 0.3, 1.0,
	})
	Y := mat.NewDense(3, 2, []float64{
		1, -1,
		2, 0.5,
		3, 4,
	})

	pinv, err := solveWeights(G, Y, PseudoInverse)
	require.NoError(t, err)
	normal, err := solveWeights(G, Y, NormalEquations)
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(pinv, normal, 1e-9))

	// Square and invertible: the fit is exact.
	var fit mat.Dense
	fit.Mul(G, pinv)
	require.True(t, mat.EqualApprox(&fit, Y, 1e-9))
}

func TestSolversAgreeOnOverdetermined(t *testing.T) {
	G := mat.NewDense(5, 2, []float64{
		1.0, 0.1,
		0.8, 0.3,
		0.5, 0.5,
		0.3, 0.8,
		0.1, 1.0,
	})
	Y := mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4})

	pinv, err := solveWeights(G, Y, PseudoInverse)
	require.NoError(t, err)
	normal, err := solveWeights(G, Y, NormalEquations)
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(pinv, normal, 1e-9))

	r, c := pinv.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 1, c)
}

func TestNormalEquationsRejectCollinearColumns(t *testing.T) {
	G := mat.NewDense(3, 2, []float64{
		1, 2,
		2, 4,
		3, 6,
	})
	Y := mat.NewDense(3, 1, []float64{1, 2, 3})

	_, err := solveWeights(G, Y, NormalEquations)
	require.ErrorIs(t, err, ErrSingularMatrix)

	W, err := solveWeights(G, Y, PseudoInverse)
	require.NoError(t, err)
	var fit mat.Dense
	fit.Mul(G, W)
	require.True(t, mat.EqualApprox(&fit, Y, 1e-9))
}

func TestSolveWeightsUnknownMethod(t *testing.T) {
	_, err := solveWeights(mat.NewDense(1, 1, []float64{1}), mat.NewDense(1, 1, []float64{1}), SolveMethod(7))
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestParseSolveMethod(t *testing.T) {
	for in, want := range map[string]SolveMethod{
		"":                 PseudoInverse,
		"0":                PseudoInverse,
		"pinv":             PseudoInverse,
		"Pseudo-Inverse":   PseudoInverse,
		"1":                NormalEquations,
		"lms":              NormalEquations,
		"normal-equations": NormalEquations,
	} {
		got, err := ParseSolveMethod(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseSolveMethod("qr")
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	require.Equal(t, "SolveMethod(9)", SolveMethod(9).String())
}
