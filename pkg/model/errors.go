package model

import "errors"

// Every failure surfaced by the RBF model wraps one of these sentinels;
// match them with errors.Is.
var (
	// ErrInvalidConfiguration covers bad dimensions, an unknown solve method,
	// or more centers than training rows. It is always reported before any
	// numeric work starts.
	ErrInvalidConfiguration = errors.New("rbf: invalid configuration")

	// ErrEmptyCluster means clustering left a center with no rows, so its
	// covariance is undefined.
	ErrEmptyCluster = errors.New("rbf: empty cluster")

	// ErrSingularMatrix means a required inverse does not exist or produced
	// non-finite values.
	ErrSingularMatrix = errors.New("rbf: singular matrix")

	// ErrUnfittedModel means Predict was called before a successful Train.
	ErrUnfittedModel = errors.New("rbf: model is not trained")
)
