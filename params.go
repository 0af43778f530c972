package simplex

import "github.com/pkg/errors"

// Params bundles the recognized solver options (spec §6), each with the
// documented default.
type Params struct {
	FeasibilityTol      float64         // default 1e-6
	OptimalityTol       float64         // default 1e-6
	PivotTol            float64         // default 1e-7
	MaxIterations       int             // default 1e6
	RefactorInterval    int             // default 100
	MaxEtaCount         int             // default 100
	MaxEtaMemory        int             // bytes; default 0 -> derived from MaxEtaCount
	PricingStrategy     PricingStrategy // default Steepest
	SectionSize         int             // default 200
	PerturbationEnabled bool            // default true
	InfinityValue       float64         // default 1e100

	// SwapCondTol additionally triggers refactorization when the eta
	// chain's estimated condition number crosses this bound, grounded on
	// the teacher's swapCondTol (SPEC_FULL.md §C.3). Default 1e8.
	SwapCondTol float64
}

// DefaultParams returns the documented default parameter bundle.
func DefaultParams() Params {
	return Params{
		FeasibilityTol:      1e-6,
		OptimalityTol:       1e-6,
		PivotTol:            1e-7,
		MaxIterations:       1_000_000,
		RefactorInterval:    100,
		MaxEtaCount:         100,
		MaxEtaMemory:        0,
		PricingStrategy:     Steepest,
		SectionSize:         200,
		PerturbationEnabled: true,
		InfinityValue:       Infinity,
		SwapCondTol:         1e8,
	}
}

// withDefaults fills zero-valued fields with documented defaults, so a
// caller may supply a partially-populated Params{} and still get sane
// behavior, matching the teacher's permissive tol/maxIterations arguments.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.FeasibilityTol == 0 {
		p.FeasibilityTol = d.FeasibilityTol
	}
	if p.OptimalityTol == 0 {
		p.OptimalityTol = d.OptimalityTol
	}
	if p.PivotTol == 0 {
		p.PivotTol = d.PivotTol
	}
	if p.MaxIterations == 0 {
		p.MaxIterations = d.MaxIterations
	}
	if p.RefactorInterval == 0 {
		p.RefactorInterval = d.RefactorInterval
	}
	if p.MaxEtaCount == 0 {
		p.MaxEtaCount = d.MaxEtaCount
	}
	if p.MaxEtaMemory == 0 {
		p.MaxEtaMemory = p.MaxEtaCount * 64 * 8 // half of a MaxEtaCount*64-entry budget at bytesPerEtaEntry (16) bytes per entry
	}
	if p.SectionSize == 0 {
		p.SectionSize = d.SectionSize
	}
	if p.InfinityValue == 0 {
		p.InfinityValue = d.InfinityValue
	}
	if p.SwapCondTol == 0 {
		p.SwapCondTol = d.SwapCondTol
	}
	return p
}

func (p Params) validate() error {
	if p.FeasibilityTol <= 0 || p.OptimalityTol <= 0 || p.PivotTol <= 0 {
		return errors.Wrap(ErrInvalidArgument, "tolerances must be positive")
	}
	if p.MaxIterations <= 0 {
		return errors.Wrap(ErrInvalidArgument, "max_iterations must be positive")
	}
	if p.RefactorInterval <= 0 || p.MaxEtaCount <= 0 {
		return errors.Wrap(ErrInvalidArgument, "refactor_interval and max_eta_count must be positive")
	}
	if p.SectionSize <= 0 {
		return errors.Wrap(ErrInvalidArgument, "section_size must be positive")
	}
	if p.InfinityValue <= 0 {
		return errors.Wrap(ErrInvalidArgument, "infinity_value must be positive")
	}
	return nil
}

// Result holds the fully-populated outputs of a solve (spec §6).
type Result struct {
	Status         SolveStatus
	X              []float64 // length n, structurals only
	Pi             []float64 // length m
	ReducedCosts   []float64 // length n
	RowSlacks      []float64 // length m
	ObjectiveValue float64
	IterationsRun  int
	Diagnostic     string

	// Basis and VarStatus describe the terminal basis over all n+m
	// working variables, so a caller may persist them and re-enter a
	// later solve via WarmStart (spec §6, "Persisted state"; SPEC_FULL
	// §C.4).
	Basis     []int
	VarStatus []VarStatus
}

// WarmStart supplies a previously-persisted basis header and variable
// status vector so Solve can re-enter instead of slack-crashing, per
// spec §6 "Persisted state" and SPEC_FULL.md §C.4 (branch-and-bound
// re-entry). Both slices are over the n+m working variables, in the same
// order Result.Basis/Result.VarStatus were reported.
type WarmStart struct {
	Basis     []int
	VarStatus []VarStatus
}
