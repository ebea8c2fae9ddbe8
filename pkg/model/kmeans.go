package model

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"

	"gonum.org/v1/gonum/floats"

	"rbfnet/pkg/core"
)

// KMeans is an unsupervised learning model that partitions data points into K clusters.
type KMeans struct {
	K         int
	MaxIter   int
	Restarts  int     // independent k-means++ runs; the lowest inertia wins
	Tolerance float64 // stop once no centroid moves farther than this
	Seed      int64
	Workers   int // 0 means GOMAXPROCS

	Centroids [][]float64
	Labels    []int   // cluster index of every training row
	Inertia   float64 // Sum of squared distances to nearest centroid
}

// NewKMeans creates and returns a new KMeans model with specified K and max iterations.
func NewKMeans(k int, maxIter int) *KMeans {
	return &KMeans{
		K:        k,
		MaxIter:  maxIter,
		Restarts: 1,
	}
}

// Fit runs Restarts seeded k-means++ / Lloyd passes and keeps the one with
// the lowest inertia, preferring runs where no cluster ended up empty. The
// same Seed over the same X always gives the same Centroids and Labels.
func (m *KMeans) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("kmeans: input data cannot be empty: %w", ErrInvalidConfiguration)
	}
	n := len(X)
	if m.K <= 0 {
		return fmt.Errorf("kmeans: K must be positive, got %d: %w", m.K, ErrInvalidConfiguration)
	}
	if n < m.K {
		return fmt.Errorf("kmeans: %d data points for %d clusters: %w", n, m.K, ErrInvalidConfiguration)
	}

	rng := rand.New(rand.NewSource(m.Seed))
	restarts := max(m.Restarts, 1)
	bestDegenerate := true
	for r := 0; r < restarts; r++ {
		centroids, labels, inertia := m.run(X, rng)
		degenerate := hasEmptyCluster(labels, m.K)
		if r == 0 || (bestDegenerate && !degenerate) || (degenerate == bestDegenerate && inertia < m.Inertia) {
			m.Centroids = centroids
			m.Labels = labels
			m.Inertia = inertia
			bestDegenerate = degenerate
		}
	}
	return nil
}

func hasEmptyCluster(labels []int, k int) bool {
	seen := make([]bool, k)
	for _, l := range labels {
		seen[l] = true
	}
	for _, ok := range seen {
		if !ok {
			return true
		}
	}
	return false
}

// FindCenters fits k clusters and returns the centroids with per-row labels.
func (m *KMeans) FindCenters(X [][]float64, k int) ([][]float64, []int, error) {
	m.K = k
	if err := m.Fit(X); err != nil {
		return nil, nil, err
	}
	return m.Centroids, m.Labels, nil
}

// run performs a single seeded clustering pass.
func (m *KMeans) run(X [][]float64, rng *rand.Rand) ([][]float64, []int, float64) {
	n, p := len(X), len(X[0])
	centroids := initCenters(X, m.K, rng)

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	tol2 := m.Tolerance * m.Tolerance

	for it := 0; it < max(m.MaxIter, 1); it++ {
		// If no assignments changed, the algorithm has converged.
		if !m.assign(X, centroids, assign) {
			break
		}

		sums := make([][]float64, m.K)
		counts := make([]int, m.K)
		for k := 0; k < m.K; k++ {
			sums[k] = make([]float64, p)
		}
		for i := 0; i < n; i++ {
			k := assign[i]
			counts[k]++
			floats.Add(sums[k], X[i])
		}

		shift := 0.0
		for k := 0; k < m.K; k++ {
			if counts[k] == 0 {
				continue // an empty cluster keeps its centroid
			}
			floats.Scale(1/float64(counts[k]), sums[k])
			shift = math.Max(shift, euclidSquared(sums[k], centroids[k]))
			centroids[k] = sums[k]
		}
		if shift <= tol2 {
			break
		}
	}

	// Labels must agree with the centroids that are returned.
	m.assign(X, centroids, assign)
	inertia := 0.0
	for i := 0; i < n; i++ {
		inertia += euclidSquared(X[i], centroids[assign[i]])
	}
	return centroids, assign, inertia
}

// assign sets every label to its nearest centroid in parallel and reports
// whether any label changed.
func (m *KMeans) assign(X, centroids [][]float64, labels []int) bool {
	var changed atomic.Bool
	core.ParallelRows(len(X), m.Workers, func(start, end int) {
		local := false
		for i := start; i < end; i++ {
			best := nearest(X[i], centroids)
			if labels[i] != best {
				labels[i] = best
				local = true
			}
		}
		if local {
			changed.Store(true)
		}
	})
	return changed.Load()
}

// Predict assigns each data point to its nearest centroid and returns the cluster assignments.
func (m *KMeans) Predict(X [][]float64) ([]int, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("kmeans: input data for prediction cannot be empty: %w", ErrInvalidConfiguration)
	}
	if len(m.Centroids) == 0 {
		return nil, fmt.Errorf("kmeans: %w", ErrUnfittedModel)
	}
	if p := len(X[0]); p != len(m.Centroids[0]) {
		return nil, fmt.Errorf("kmeans: feature count %d, centroids have %d: %w", p, len(m.Centroids[0]), ErrInvalidConfiguration)
	}

	assignments := make([]int, len(X))
	core.ParallelRows(len(X), m.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			assignments[i] = nearest(X[i], m.Centroids)
		}
	})
	return assignments, nil
}

// nearest returns the index of the closest centroid; the lowest index wins ties.
func nearest(x []float64, centroids [][]float64) int {
	best, bestdSquared := 0, math.Inf(1)
	for k, c := range centroids {
		if dSquared := euclidSquared(x, c); dSquared < bestdSquared {
			bestdSquared = dSquared
			best = k
		}
	}
	return best
}

// initCenters seeds k centroids with k-means++.
func initCenters(X [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(X)
	centroids := make([][]float64, k)

	// First center: pick randomly
	centroids[0] = append([]float64{}, X[rng.Intn(n)]...)

	// Remaining centers, weighted by squared distance to the closest chosen one
	distSq := make([]float64, n)
	for c := 1; c < k; c++ {
		total := 0.0
		for i, x := range X {
			minDist := math.Inf(1)
			for _, ctr := range centroids[:c] {
				minDist = math.Min(minDist, euclidSquared(x, ctr))
			}
			distSq[i] = minDist
			total += minDist
		}

		r := rng.Float64() * total
		pick := n - 1
		cumulative := 0.0
		for i, d2 := range distSq {
			cumulative += d2
			if cumulative >= r {
				pick = i
				break
			}
		}
		centroids[c] = append([]float64{}, X[pick]...)
	}
	return centroids
}

// euclidSquared computes the squared Euclidean distance between two vectors.
func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
