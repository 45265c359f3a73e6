package analysis

import "fmt"

// InitializationFailure means the scorer's primary model could not be
// built. The service stays on its fallback heuristic from then on.
type InitializationFailure struct {
	Scorer string
	Err    error
}

func (e *InitializationFailure) Error() string {
	return fmt.Sprintf("%s: initialization failed: %v", e.Scorer, e.Err)
}

func (e *InitializationFailure) Unwrap() error { return e.Err }

// InferenceFailure means one analysis call failed in the primary model
type InferenceFailure struct {
	Scorer string
	Err    error
}

func (e *InferenceFailure) Error() string {
	return fmt.Sprintf("%s: inference failed: %v", e.Scorer, e.Err)
}

func (e *InferenceFailure) Unwrap() error { return e.Err }
