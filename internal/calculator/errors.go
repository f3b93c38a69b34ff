package calculator

import "errors"

// The four failure kinds of the engine. All are deterministic data-quality
// conditions and are never retried. Callers match them with errors.Is.
var (
	// ErrInsufficientData: fewer than 2 price points, or fewer than 2
	// aligned return observations.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrMisalignedSeries: stock and benchmark return series cover
	// different date sets.
	ErrMisalignedSeries = errors.New("misaligned series")

	// ErrDegenerateRegression: benchmark variance is zero over the window,
	// so beta is undefined.
	ErrDegenerateRegression = errors.New("degenerate regression: zero benchmark variance")

	// ErrNonFiniteInput: a zero or negative price would produce an
	// undefined return. Rejected at the return builder boundary so
	// non-finite values never reach the statistics.
	ErrNonFiniteInput = errors.New("non-finite input")
)
