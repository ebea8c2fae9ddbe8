package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"rbfnet/pkg/stats"
)

// estimateCovariances groups the rows of X by label and returns the
// population covariance of each group, indexed by center.
func estimateCovariances(X [][]float64, labels []int, numCenters int) ([]*mat.SymDense, error) {
	if len(labels) != len(X) {
		return nil, fmt.Errorf("%d labels for %d rows: %w", len(labels), len(X), ErrInvalidConfiguration)
	}

	groups := make([][][]float64, numCenters)
	for i, l := range labels {
		if l < 0 || l >= numCenters {
			return nil, fmt.Errorf("row %d has label %d outside [0, %d): %w", i, l, numCenters, ErrInvalidConfiguration)
		}
		groups[l] = append(groups[l], X[i])
	}

	covs := make([]*mat.SymDense, numCenters)
	for j, rows := range groups {
		if len(rows) == 0 {
			return nil, fmt.Errorf("center %d has no assigned rows: %w", j, ErrEmptyCluster)
		}
		cov, err := stats.CovarianceMatrix(rows)
		if err != nil {
			return nil, fmt.Errorf("center %d: %w", j, err)
		}
		covs[j] = cov
	}
	return covs, nil
}
