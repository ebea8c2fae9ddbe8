package loader

import (
	"fmt"
	"math/rand"
)

// TrainTestSplit splits X, Y into train and test sets by ratio. Rows are
// shuffled with seed, so the same seed always yields the same split.
func TrainTestSplit(X, Y [][]float64, testRatio float64, seed int64) (XTrain, XTest, YTrain, YTest [][]float64, err error) {
	n := len(X)
	if n != len(Y) {
		return nil, nil, nil, nil, fmt.Errorf("loader: %d inputs but %d targets", n, len(Y))
	}
	if testRatio < 0 || testRatio >= 1 {
		return nil, nil, nil, nil, fmt.Errorf("loader: test ratio %v outside [0, 1)", testRatio)
	}
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(float64(n) * testRatio)
	for i := range n {
		if i < nTest {
			XTest = append(XTest, X[indices[i]])
			YTest = append(YTest, Y[indices[i]])
		} else {
			XTrain = append(XTrain, X[indices[i]])
			YTrain = append(YTrain, Y[indices[i]])
		}
	}
	return
}

// KFoldSplit yields k folds of test indices; fold sizes differ by at most one.
func KFoldSplit(n, k int, seed int64) [][]int {
	if k <= 0 {
		return nil
	}
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([][]int, k)
	for i := range n {
		folds[i%k] = append(folds[i%k], indices[i])
	}
	return folds
}

// Gather returns the rows of X at idx.
func Gather(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

// Complement returns the indices in [0, n) that are not in idx, in order.
func Complement(n int, idx []int) []int {
	skip := make([]bool, n)
	for _, j := range idx {
		skip[j] = true
	}
	out := make([]int, 0, n-len(idx))
	for i := 0; i < n; i++ {
		if !skip[i] {
			out = append(out, i)
		}
	}
	return out
}
