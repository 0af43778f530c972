package simplex

import "math"

// Infinity is the finite sentinel used in place of IEEE infinity so that
// arithmetic on bounds (e.g. ub-lb) never produces NaN. Per spec §3 it is
// pinned at 1e100; callers may lower it via Params.InfinityValue but
// IsInfinite always tests against half of whatever value is in force, per
// the spec's "do not use equality" rule.
const Infinity = 1e100

// IsInfinite reports whether v should be treated as +-infinity under the
// given infinity sentinel: |v| >= 0.5*inf.
func IsInfinite(v, inf float64) bool {
	return math.Abs(v) >= 0.5*inf
}

// clampResult clamps a result value whose magnitude has crept up near the
// infinity sentinel back onto it, per spec §6 "numeric sentinels".
func clampResult(v, inf float64) float64 {
	if v >= 0.5*inf {
		return inf
	}
	if v <= -0.5*inf {
		return -inf
	}
	return v
}

// Sense is a constraint row's relation to its right-hand side.
type Sense uint8

const (
	LE Sense = iota // a·x <= b
	EQ              // a·x == b
	GE              // a·x >= b
)

func (s Sense) String() string {
	switch s {
	case LE:
		return "<="
	case EQ:
		return "="
	case GE:
		return ">="
	default:
		return "?"
	}
}

// VarStatus is the status of one of the n+m working variables.
type VarStatus uint8

const (
	StatusBasic VarStatus = iota
	StatusAtLower
	StatusAtUpper
	StatusFree
	StatusFixed
)

func (s VarStatus) String() string {
	switch s {
	case StatusBasic:
		return "BASIC"
	case StatusAtLower:
		return "AT_LOWER"
	case StatusAtUpper:
		return "AT_UPPER"
	case StatusFree:
		return "FREE_NONBASIC"
	case StatusFixed:
		return "FIXED"
	default:
		return "?"
	}
}

// BoundClass classifies a variable by its (lb, ub) pair.
type BoundClass uint8

const (
	BoundFree BoundClass = iota
	BoundLowerOnly
	BoundUpperOnly
	BoundBoxed
	BoundFixed
)

func classifyBounds(lb, ub, inf float64) BoundClass {
	loInf := IsInfinite(lb, inf) && lb < 0
	hiInf := IsInfinite(ub, inf) && ub > 0
	switch {
	case loInf && hiInf:
		return BoundFree
	case !loInf && hiInf:
		return BoundLowerOnly
	case loInf && !hiInf:
		return BoundUpperOnly
	case lb == ub:
		return BoundFixed
	default:
		return BoundBoxed
	}
}

// Phase is the driver's feasibility phase.
type Phase uint8

const (
	PhaseI Phase = iota
	PhaseII
)

// PricingStrategy selects the pricing rule used by price/scanRange.
type PricingStrategy uint8

const (
	Dantzig PricingStrategy = iota
	Steepest
)

func (p PricingStrategy) String() string {
	if p == Steepest {
		return "STEEPEST"
	}
	return "DANTZIG"
}

// SolveStatus is the terminal outcome of a solve.
type SolveStatus int

const (
	StatusOptimal SolveStatus = iota
	StatusInfeasible
	StatusUnbounded
	StatusIterationLimit
	StatusNumericalSingular
	StatusOutOfMemory
	StatusTerminated
)

func (s SolveStatus) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	case StatusIterationLimit:
		return "ITERATION_LIMIT"
	case StatusNumericalSingular:
		return "NUMERICAL_SINGULAR"
	case StatusOutOfMemory:
		return "OUT_OF_MEMORY"
	case StatusTerminated:
		return "TERMINATED"
	default:
		return "?"
	}
}
