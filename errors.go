package simplex

import "errors"

// Sentinel errors returned before or during a solve. These are the
// caller-reachable error kinds from spec §7; they are never panics.
var (
	// ErrNullArgument is returned when a required argument (model, its
	// matrix, or its vectors) is nil.
	ErrNullArgument = errors.New("revsimplex: required argument is nil")

	// ErrInvalidArgument is returned when a parameter is out of range or
	// the model is internally inconsistent (mismatched dimensions, a
	// sense byte outside {LE, EQ, GE}, a NaN bound, a non-finite
	// coefficient or right-hand side).
	ErrInvalidArgument = errors.New("revsimplex: invalid argument")

	// ErrOutOfMemory is the sentinel for the OUT_OF_MEMORY error kind.
	// No function in this package returns it.
	ErrOutOfMemory = errors.New("revsimplex: allocation failed")

	// ErrSingularBasis is the cause wrapped into the errors returned by
	// BasisFactor.Refactorize, FTRAN and BTRAN. Solve does not return it:
	// it reports StatusNumericalSingular with the error's text in
	// Result.Diagnostic and a nil error.
	ErrSingularBasis = errors.New("revsimplex: basis is numerically singular")
)
