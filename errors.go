package unfold

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is wrapped by every *ParameterError.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInfeasible is wrapped by every *ComputationError.
	ErrInfeasible = errors.New("geometrically infeasible")

	// ErrNoBracket is returned by Bisect when f does not change sign over the bracket.
	ErrNoBracket = errors.New("root not bracketed")
	// ErrNoConvergence is returned by Bisect when the iteration budget runs out.
	ErrNoConvergence = errors.New("root finding did not converge")

	errDegenerate = errors.New("degenerate triangle")
)

// ParameterError reports a shape input rejected before any geometry was computed.
type ParameterError struct {
	Shape  Shape
	Field  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s is %g, %s", e.Shape, e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// ComputationError reports a valid input combination that has no geometric
// solution, such as a cut plane steeper than the cone wall.
type ComputationError struct {
	Shape Shape
	Op    string
	Err   error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Shape, e.Op, e.Err)
}

// Is makes errors.Is(err, ErrInfeasible) hold for every ComputationError.
func (e *ComputationError) Is(target error) bool { return target == ErrInfeasible }

func (e *ComputationError) Unwrap() error { return e.Err }

func paramErr(shape Shape, field string, v float64, reason string) error {
	return &ParameterError{Shape: shape, Field: field, Value: v, Reason: reason}
}

func infeasible(shape Shape, op string, err error) error {
	return &ComputationError{Shape: shape, Op: op, Err: err}
}
