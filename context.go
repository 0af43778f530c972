package simplex

// SolverContext is the mutable per-solve state owned by the driver (spec
// §3): working bounds, reduced costs, primal/dual values, the basis, and
// counters. It is created at solve start and discarded after extraction;
// no field is shared between concurrent solves (spec §5 — this replaces
// the teacher's lineage use of a package-level perturbation flag with a
// context field; see the perturb.go entry in DESIGN.md).
type SolverContext struct {
	problem *workingProblem
	params  Params

	lower []float64 // working bounds, length n; perturbation mutates these
	upper []float64

	d  []float64 // reduced costs, length n
	x  []float64 // primal values, length n
	pi []float64 // dual values, length m

	basisHeader []int       // length m: row position -> working variable index
	status      []VarStatus // length n

	basis *BasisFactor
	phase Phase

	iteration           int
	perturbationActive  bool
	perturbLower        []float64 // saved originals while perturbation is active
	perturbUpper        []float64

	pricing *PricingContext

	// artificialCost is the Phase I objective's per-variable weight
	// (+-1 depending which bound the artificial pushes toward); nil once
	// Phase II starts.
	artificialCost []float64
}

// newSolverContext allocates a context for the given working problem.
func newSolverContext(problem *workingProblem, params Params) *SolverContext {
	n, m := problem.n, problem.m
	ctx := &SolverContext{
		problem:     problem,
		params:      params,
		lower:       append([]float64(nil), problem.lower...),
		upper:       append([]float64(nil), problem.upper...),
		d:           make([]float64, n),
		x:           make([]float64, n),
		pi:          make([]float64, m),
		basisHeader: make([]int, m),
		status:      make([]VarStatus, n),
		basis:       NewBasisFactor(m),
	}
	ctx.pricing = newPricingContext(n, params.SectionSize)
	return ctx
}

// bound returns the working (lb, ub) for working variable j.
func (ctx *SolverContext) bound(j int) (float64, float64) {
	return ctx.lower[j], ctx.upper[j]
}

// boundClass classifies working variable j under the active infinity
// sentinel.
func (ctx *SolverContext) boundClass(j int) BoundClass {
	return classifyBounds(ctx.lower[j], ctx.upper[j], ctx.params.InfinityValue)
}

// xAtBound returns the value x_j takes under its current nonbasic status
// (spec §3 invariant 2): lb, ub, or 0 for a free nonbasic variable; for a
// basic variable it returns the current x_j. It does not modify ctx.x.
func (ctx *SolverContext) xAtBound(j int) float64 {
	switch ctx.status[j] {
	case StatusAtLower, StatusFixed:
		return ctx.lower[j]
	case StatusAtUpper:
		return ctx.upper[j]
	case StatusFree:
		return 0
	default:
		return ctx.x[j]
	}
}

// PricingContext maintains steepest-edge reference weights and the
// multilevel partial-pricing scan state (spec §3).
type PricingContext struct {
	weights     []float64 // gamma_j per working variable, meaningful when nonbasic
	sectionSize int
	sectionIdx  int
	n           int
}

// MinWeight is the floor below which a reference weight is reset to 1
// (spec §4.2).
const MinWeight = 1e-4

func newPricingContext(n, sectionSize int) *PricingContext {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return &PricingContext{weights: w, sectionSize: sectionSize, n: n}
}

// resetWeights sets every reference weight back to 1, done at every
// refactorization (spec §4.2, the "approximate-steepest start").
func (pc *PricingContext) resetWeights() {
	for i := range pc.weights {
		pc.weights[i] = 1
	}
}

// sectionCount returns ceil(n/sectionSize).
func (pc *PricingContext) sectionCount() int {
	return (pc.n + pc.sectionSize - 1) / pc.sectionSize
}

// advanceSection rotates the scan window modulo the section count (spec
// §4.2).
func (pc *PricingContext) advanceSection() {
	sc := pc.sectionCount()
	if sc <= 1 {
		pc.sectionIdx = 0
		return
	}
	pc.sectionIdx = (pc.sectionIdx + 1) % sc
}

// sectionBounds returns the [lo, hi) working-variable range for the
// current section.
func (pc *PricingContext) sectionBounds() (lo, hi int) {
	lo = pc.sectionIdx * pc.sectionSize
	hi = lo + pc.sectionSize
	if hi > pc.n {
		hi = pc.n
	}
	return lo, hi
}
