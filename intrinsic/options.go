package intrinsic

import (
	"fmt"
	"math"
)

// BackendKind selects the geometric representation backing a Triangulation.
// The choice is fixed at construction.
type BackendKind int

const (
	// BackendIntegerCoordinates tracks exact integer normal coordinates
	// alongside edge lengths. Default: combinatorially robust under long
	// flip sequences.
	BackendIntegerCoordinates BackendKind = iota

	// BackendSignpost tracks only floating signpost angles and edge
	// lengths. Simpler, but accumulates drift near degenerate
	// configurations.
	BackendSignpost
)

// String returns the canonical backend name.
func (k BackendKind) String() string {
	switch k {
	case BackendIntegerCoordinates:
		return "Integer Coordinates"
	case BackendSignpost:
		return "Signposts"
	default:
		return fmt.Sprintf("BackendKind(%d)", int(k))
	}
}

// ParseBackend resolves a backend name to its BackendKind. The canonical
// names "Integer Coordinates" and "Signposts" are accepted. Unrecognized
// names fail with ErrUnknownBackend at configuration time.
func ParseBackend(name string) (BackendKind, error) {
	switch name {
	case "Integer Coordinates":
		return BackendIntegerCoordinates, nil
	case "Signposts":
		return BackendSignpost, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Option customizes triangulation construction.
type Option func(*options)

type options struct {
	backend BackendKind
}

func defaultOptions() options {
	return options{backend: BackendIntegerCoordinates}
}

// WithBackend selects the representation backend.
func WithBackend(k BackendKind) Option {
	if k != BackendIntegerCoordinates && k != BackendSignpost {
		panic(fmt.Sprintf("intrinsic: WithBackend(%d): no such backend", int(k)))
	}

	return func(o *options) { o.backend = k }
}

// Refinement defaults.
const (
	// DefaultAngleThresholdDegrees is the minimum-angle target of
	// DelaunayRefine when no threshold option is given.
	DefaultAngleThresholdDegrees = 25.0
)

// RefineOption customizes DelaunayRefine.
type RefineOption func(*refineOptions)

type refineOptions struct {
	angleDeg      float64
	circumradius  float64
	maxInsertions int // <0 selects the built-in 100·F + 10000 safety cap
}

func defaultRefineOptions() refineOptions {
	return refineOptions{
		angleDeg:      DefaultAngleThresholdDegrees,
		circumradius:  math.Inf(1),
		maxInsertions: -1,
	}
}

// WithAngleThreshold sets the minimum corner angle target, in degrees.
// Thresholds at or above 30° are not guaranteed to terminate; the insertion
// cap is the caller's safety valve there.
func WithAngleThreshold(deg float64) RefineOption {
	if deg < 0 || deg >= 60 {
		panic(fmt.Sprintf("intrinsic: WithAngleThreshold(%g): want [0, 60)", deg))
	}

	return func(o *refineOptions) { o.angleDeg = deg }
}

// WithCircumradiusThreshold sets the maximum circumradius target. Faces with
// larger circumradius are refined regardless of their angles.
func WithCircumradiusThreshold(r float64) RefineOption {
	if r <= 0 {
		panic(fmt.Sprintf("intrinsic: WithCircumradiusThreshold(%g): want > 0", r))
	}

	return func(o *refineOptions) { o.circumradius = r }
}

// WithMaxInsertions caps the number of inserted vertices. Reaching the cap
// stops refinement and is reported as non-convergence in the result, never
// as an error. k must be non-negative. When the option is absent,
// DelaunayRefine falls back to a safety cap of 100·F + 10000 insertions.
func WithMaxInsertions(k int) RefineOption {
	if k < 0 {
		panic(fmt.Sprintf("intrinsic: WithMaxInsertions(%d): want >= 0", k))
	}

	return func(o *refineOptions) { o.maxInsertions = k }
}
