package stats

import "errors"

// ErrNotFitted is returned by a scaler used before Fit.
var ErrNotFitted = errors.New("stats: scaler not fitted")

// MinMaxScaler maps each column onto [0, 1] using the range seen at Fit.
// RBF kernels expect their inputs in this range.
type MinMaxScaler struct {
	Min []float64
	Max []float64
	fit bool
}

func NewMinMaxScaler() *MinMaxScaler { return &MinMaxScaler{} }

func (s *MinMaxScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return ErrNoObservations
	}
	rows, cols := len(X), len(X[0])
	s.Min = make([]float64, cols)
	s.Max = make([]float64, cols)
	col := make([]float64, rows)
	for j := range cols {
		for i := range rows {
			col[i] = X[i][j]
		}
		s.Min[j], s.Max[j] = MinMax(col)
	}
	s.fit = true
	return nil
}

// Transform scales X with the fitted ranges. Constant columns map to 0.
func (s *MinMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if span := s.Max[j] - s.Min[j]; span != 0 {
				out[i][j] = (v - s.Min[j]) / span
			}
		}
	}
	return out, nil
}

// InverseTransform maps scaled values back into the original ranges.
func (s *MinMaxScaler) InverseTransform(X [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = s.Min[j] + v*(s.Max[j]-s.Min[j])
		}
	}
	return out, nil
}

func (s *MinMaxScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
