package model

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"rbfnet/pkg/core"
)

// SolveMethod selects how output weights are solved from the activations.
type SolveMethod int

const (
	// PseudoInverse solves W = pinv(G)·Y. It works for any shape and rank of G.
	PseudoInverse SolveMethod = iota
	// NormalEquations solves W = (GᵀG)⁻¹·Gᵀ·Y. It is strict: a singular or
	// ill-conditioned Gram matrix fails with ErrSingularMatrix instead of
	// falling back to the pseudo-inverse.
	NormalEquations
)

func (s SolveMethod) String() string {
	switch s {
	case PseudoInverse:
		return "pinv"
	case NormalEquations:
		return "normal-equations"
	}
	return fmt.Sprintf("SolveMethod(%d)", int(s))
}

func (s SolveMethod) valid() bool {
	return s == PseudoInverse || s == NormalEquations
}

// ParseSolveMethod accepts "pinv", "pseudo-inverse", "normal-equations",
// "lms" or the numeric selectors "0" and "1".
func ParseSolveMethod(name string) (SolveMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "0", "pinv", "pseudo-inverse":
		return PseudoInverse, nil
	case "1", "lms", "normal-equations":
		return NormalEquations, nil
	}
	return 0, fmt.Errorf("unknown solve method %q: %w", name, ErrInvalidConfiguration)
}

// solveWeights fits the k×dout weight matrix mapping activations G (N×k)
// onto targets Y (N×dout).
func solveWeights(G, Y mat.Matrix, method SolveMethod) (*mat.Dense, error) {
	var W mat.Dense

	switch method {
	case PseudoInverse:
		pinv, err := core.Pinv(G)
		if err != nil {
			return nil, fmt.Errorf("activations: %w: %v", ErrSingularMatrix, err)
		}
		W.Mul(pinv, Y)

	case NormalEquations:
		var gram mat.Dense
		gram.Mul(G.T(), G)
		inv, err := core.Inverse(&gram)
		if err != nil {
			return nil, fmt.Errorf("gram matrix: %w: %v", ErrSingularMatrix, err)
		}
		var gtY mat.Dense
		gtY.Mul(G.T(), Y)
		W.Mul(inv, &gtY)

	default:
		return nil, fmt.Errorf("solve method %v: %w", method, ErrInvalidConfiguration)
	}

	if !core.AllFinite(&W) {
		return nil, fmt.Errorf("weights are not finite: %w", ErrSingularMatrix)
	}
	return &W, nil
}
