package model

import "gonum.org/v1/gonum/mat"

// Regressor is a multi-output supervised learning interface.
// Rows of X are samples; Y holds one row of targets per sample.
type Regressor interface {
	Train(X, Y mat.Matrix) error
	Predict(X mat.Matrix) (*mat.Dense, error)
}

// Clusterer is for unsupervised clustering.
type Clusterer interface {
	Fit(X [][]float64) error
	Predict(X [][]float64) ([]int, error) // cluster assignments
}

// CenterFinder partitions the rows of X into k clusters, returning the k
// centers and the center index of every row.
type CenterFinder interface {
	FindCenters(X [][]float64, k int) (centers [][]float64, labels []int, err error)
}

var (
	_ Regressor    = (*RBFRegression)(nil)
	_ Clusterer    = (*KMeans)(nil)
	_ CenterFinder = (*KMeans)(nil)
)
