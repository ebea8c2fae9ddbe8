package model

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"rbfnet/pkg/core"
)

// RBFRegression is a radial basis function network: NumCenters Gaussian
// units placed by k-means, each shaped by the covariance of its cluster,
// followed by a linear output layer solved in closed form.
//
// Inputs are expected to be scaled into [0, 1]. Train and Predict are
// synchronous; Train holds the write lock for its whole duration.
type RBFRegression struct {
	cfg    RBFConfig
	finder CenterFinder

	// Learned state, replaced as a whole by a successful Train.
	centers     *mat.Dense      // NumCenters x InputDim
	covariances []*mat.SymDense // InputDim x InputDim each
	precisions  []*mat.Dense    // pinv of the normalized covariances
	weights     *mat.Dense      // NumCenters x OutputDim
	trained     bool

	mu sync.RWMutex
}

// RBFConfig holds model configuration
type RBFConfig struct {
	InputDim   int
	NumCenters int
	OutputDim  int
	Method     SolveMethod

	// Clustering
	Seed      int64
	Restarts  int
	MaxIter   int
	Tolerance float64

	Workers int // 0 means GOMAXPROCS
}

// DefaultRBFConfig returns a pseudo-inverse model with ten k-means++
// restarts, at most 100 Lloyd iterations each and a 0.01 shift tolerance.
func DefaultRBFConfig(inputDim, numCenters, outputDim int) RBFConfig {
	return RBFConfig{
		InputDim:   inputDim,
		NumCenters: numCenters,
		OutputDim:  outputDim,
		Method:     PseudoInverse,
		Seed:       1,
		Restarts:   10,
		MaxIter:    100,
		Tolerance:  0.01,
	}
}

// Validate checks the configuration without touching any data.
func (c RBFConfig) Validate() error {
	switch {
	case c.InputDim <= 0:
		return fmt.Errorf("input dim %d: %w", c.InputDim, ErrInvalidConfiguration)
	case c.NumCenters <= 0:
		return fmt.Errorf("num centers %d: %w", c.NumCenters, ErrInvalidConfiguration)
	case c.OutputDim <= 0:
		return fmt.Errorf("output dim %d: %w", c.OutputDim, ErrInvalidConfiguration)
	case !c.Method.valid():
		return fmt.Errorf("solve method %v: %w", c.Method, ErrInvalidConfiguration)
	case c.Restarts < 1:
		return fmt.Errorf("restarts %d: %w", c.Restarts, ErrInvalidConfiguration)
	case c.MaxIter < 1:
		return fmt.Errorf("max iter %d: %w", c.MaxIter, ErrInvalidConfiguration)
	case c.Tolerance < 0 || math.IsNaN(c.Tolerance):
		return fmt.Errorf("tolerance %v: %w", c.Tolerance, ErrInvalidConfiguration)
	case c.Workers < 0:
		return fmt.Errorf("workers %d: %w", c.Workers, ErrInvalidConfiguration)
	}
	return nil
}

// New creates an untrained model with default clustering settings.
func New(inputDim, numCenters, outputDim int, method SolveMethod) (*RBFRegression, error) {
	cfg := DefaultRBFConfig(inputDim, numCenters, outputDim)
	cfg.Method = method
	return NewRBFRegression(cfg)
}

// NewRBFRegression creates an untrained model. The configuration, including
// the solve method, is fixed for the lifetime of the model.
func NewRBFRegression(cfg RBFConfig) (*RBFRegression, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	km := NewKMeans(cfg.NumCenters, cfg.MaxIter)
	km.Restarts = cfg.Restarts
	km.Tolerance = cfg.Tolerance
	km.Seed = cfg.Seed
	km.Workers = cfg.Workers

	return &RBFRegression{cfg: cfg, finder: km}, nil
}

// Train fits centers, covariances and output weights to X (N×InputDim) and
// Y (N×OutputDim). Shapes are checked before any clustering starts. On
// error the previously trained state, if any, is left untouched.
func (m *RBFRegression) Train(X, Y mat.Matrix) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTrainShapes(X, Y); err != nil {
		return err
	}
	k := m.cfg.NumCenters
	rows := core.ToRows(X)

	centerRows, labels, err := m.finder.FindCenters(rows, k)
	if err != nil {
		return fmt.Errorf("find centers: %w", err)
	}
	if len(centerRows) != k {
		return fmt.Errorf("clustering returned %d centers, want %d: %w", len(centerRows), k, ErrInvalidConfiguration)
	}
	centers, err := core.FromRows(centerRows)
	if err != nil {
		return fmt.Errorf("centers: %w: %v", ErrInvalidConfiguration, err)
	}

	covariances, err := estimateCovariances(rows, labels, k)
	if err != nil {
		return err
	}

	precisions := make([]*mat.Dense, k)
	for j, cov := range covariances {
		if precisions[j], err = precision(cov); err != nil {
			return fmt.Errorf("center %d: %w", j, err)
		}
	}

	G := activations(X, centers, precisions, m.cfg.Workers)
	weights, err := solveWeights(G, Y, m.cfg.Method)
	if err != nil {
		return fmt.Errorf("solve weights (%v): %w", m.cfg.Method, err)
	}

	m.centers = centers
	m.covariances = covariances
	m.precisions = precisions
	m.weights = weights
	m.trained = true
	return nil
}

func (m *RBFRegression) checkTrainShapes(X, Y mat.Matrix) error {
	n, din := X.Dims()
	ny, dout := Y.Dims()
	switch {
	case n != ny:
		return fmt.Errorf("%d input rows but %d target rows: %w", n, ny, ErrInvalidConfiguration)
	case n == 0:
		return fmt.Errorf("no training rows: %w", ErrInvalidConfiguration)
	case din != m.cfg.InputDim:
		return fmt.Errorf("input has %d columns, model expects %d: %w", din, m.cfg.InputDim, ErrInvalidConfiguration)
	case dout != m.cfg.OutputDim:
		return fmt.Errorf("targets have %d columns, model expects %d: %w", dout, m.cfg.OutputDim, ErrInvalidConfiguration)
	case m.cfg.NumCenters > n:
		return fmt.Errorf("%d centers for %d training rows: %w", m.cfg.NumCenters, n, ErrInvalidConfiguration)
	case !core.AllFinite(X) || !core.AllFinite(Y):
		return fmt.Errorf("training data contains NaN or Inf: %w", ErrInvalidConfiguration)
	}
	return nil
}

// Predict returns the M×OutputDim outputs for the rows of X.
func (m *RBFRegression) Predict(X mat.Matrix) (*mat.Dense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return nil, ErrUnfittedModel
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, fmt.Errorf("no rows to predict: %w", ErrInvalidConfiguration)
	}
	if c != m.cfg.InputDim {
		return nil, fmt.Errorf("input has %d columns, model expects %d: %w", c, m.cfg.InputDim, ErrInvalidConfiguration)
	}

	G := activations(X, m.centers, m.precisions, m.cfg.Workers)
	out := mat.NewDense(r, m.cfg.OutputDim, nil)
	out.Mul(G, m.weights)
	return out, nil
}

// IsTrained returns whether the model has been trained
func (m *RBFRegression) IsTrained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

// Centers returns a copy of the fitted centers, or nil before training.
func (m *RBFRegression) Centers() *mat.Dense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.trained {
		return nil
	}
	return mat.DenseCopyOf(m.centers)
}

// Weights returns a copy of the output weights, or nil before training.
func (m *RBFRegression) Weights() *mat.Dense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.trained {
		return nil
	}
	return mat.DenseCopyOf(m.weights)
}

// GetConfig returns the model configuration
func (m *RBFRegression) GetConfig() map[string]interface{} {
	return map[string]interface{}{
		"input_dim":   m.cfg.InputDim,
		"num_centers": m.cfg.NumCenters,
		"output_dim":  m.cfg.OutputDim,
		"method":      m.cfg.Method.String(),
		"seed":        m.cfg.Seed,
		"restarts":    m.cfg.Restarts,
		"max_iter":    m.cfg.MaxIter,
		"tolerance":   m.cfg.Tolerance,
	}
}
