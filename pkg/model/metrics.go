package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

func MSE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / n
}

func MAE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		s += math.Abs(yPred[i] - yTrue[i])
	}
	return s / n
}

func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

func R2(yTrue, yPred []float64) float64 {
	m := 0.0
	for _, v := range yTrue {
		m += v
	}
	m /= float64(len(yTrue))
	ssTot := 0.0
	ssRes := 0.0
	for i := range yTrue {
		d := yTrue[i] - m
		ssTot += d * d
		r := yTrue[i] - yPred[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// MSEDense is the mean squared error over every entry of two same-shaped
// multi-output matrices.
func MSEDense(yTrue, yPred mat.Matrix) float64 {
	var diff mat.Dense
	diff.Sub(yPred, yTrue)
	r, c := diff.Dims()
	n := mat.Norm(&diff, 2)
	return n * n / float64(r*c)
}

// RMSEDense is the square root of MSEDense.
func RMSEDense(yTrue, yPred mat.Matrix) float64 { return math.Sqrt(MSEDense(yTrue, yPred)) }
