package simplex

import (
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// driverState names the stage of Solve's state machine, used only for the
// diagnostic string attached to a non-optimal Result (spec §4.6, §7).
type driverState uint8

const (
	stateInit driverState = iota
	stateSetup
	stateCrash
	stateLoop
	stateRefine
	stateExtract
)

func (s driverState) String() string {
	switch s {
	case stateInit:
		return "INIT"
	case stateSetup:
		return "SETUP"
	case stateCrash:
		return "CRASH"
	case stateLoop:
		return "LOOP"
	case stateRefine:
		return "REFINE"
	case stateExtract:
		return "EXTRACT"
	default:
		return "?"
	}
}

// defaultPerturbSeed seeds every perturbation draw; Params has no seed
// field. It is fixed so that Solve is fully deterministic.
const defaultPerturbSeed = 0x5eed

// Solve runs the revised-simplex driver to completion on model (spec §4.6):
// slack-crash (or warm-start re-entry), Phase I/II, scheduled
// refactorization, anti-cycling perturbation, and extraction into a
// fully-populated Result. termination may be nil; if non-nil it is polled
// between iterations and a true value yields StatusTerminated.
func Solve(model *Model, params Params, termination *atomic.Bool, warm *WarmStart) (*Result, error) {
	state := stateInit
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}
	if err := model.validate(params.InfinityValue); err != nil {
		return nil, err
	}

	state = stateSetup
	problem := normalize(model, params.InfinityValue)
	ctx := newSolverContext(problem, params)

	state = stateCrash
	if err := ctx.crash(warm); err != nil {
		return nil, err
	}
	if err := ctx.refactorize(); err != nil {
		return &Result{Status: StatusNumericalSingular, Diagnostic: state.String() + ": " + err.Error()}, nil
	}

	if params.PerturbationEnabled {
		ctx.applyPerturbation(defaultPerturbSeed)
		if err := ctx.recomputeBasics(); err != nil {
			return &Result{Status: StatusNumericalSingular, Diagnostic: state.String() + ": " + err.Error()}, nil
		}
	}
	ctx.setPhase()

	state = stateLoop
	status, diag := ctx.runLoop(termination)

	state = stateRefine
	ctx.refine()

	state = stateExtract
	return ctx.extract(status, diag), nil
}

// crash installs the initial basis: either a re-entry from warm, which
// trusts the caller's basis/status pair (spec §6, "Persisted state"), or the
// slack basis (every slack basic, every structural nonbasic at the bound
// its class prefers), matching spec §4.6 step "CRASH".
func (ctx *SolverContext) crash(warm *WarmStart) error {
	n, m := ctx.problem.n, ctx.problem.m
	if warm != nil {
		if len(warm.Basis) != m || len(warm.VarStatus) != n {
			return errors.Wrap(ErrInvalidArgument, "warm start dimensions do not match model")
		}
		copy(ctx.basisHeader, warm.Basis)
		copy(ctx.status, warm.VarStatus)
		return nil
	}

	for j := 0; j < n-m; j++ {
		switch ctx.boundClass(j) {
		case BoundFree:
			ctx.status[j] = StatusFree
		case BoundUpperOnly:
			ctx.status[j] = StatusAtUpper
		case BoundFixed:
			ctx.status[j] = StatusFixed
		default: // BoundLowerOnly, BoundBoxed
			ctx.status[j] = StatusAtLower
		}
	}
	for i := 0; i < m; i++ {
		s := ctx.problem.slackOf[i]
		ctx.status[s] = StatusBasic
		ctx.basisHeader[i] = s
	}
	return nil
}

// refactorize rebuilds the basis factorization from scratch, refreshes the
// FTRAN-time baseline and steepest-edge weights, and recomputes x_B so that
// any numerical drift accumulated through the eta chain is corrected (spec
// §4.1).
func (ctx *SolverContext) refactorize() error {
	if err := ctx.basis.Refactorize(ctx.problem.a, ctx.basisHeader, ctx.params.PivotTol); err != nil {
		return err
	}
	ctx.basis.recordBaseline()
	ctx.pricing.resetWeights()
	return ctx.recomputeBasics()
}

// recomputeBasics solves B*x_B = rhs - N*x_N from the current factorization
// and nonbasic values, refreshing ctx.x for every basic working variable
// (spec §4.6: used both at CRASH/warm-start re-entry and after every
// refactorization).
func (ctx *SolverContext) recomputeBasics() error {
	b := append([]float64(nil), ctx.problem.rhs...)
	n := ctx.problem.n
	for j := 0; j < n; j++ {
		if ctx.status[j] == StatusBasic {
			continue
		}
		val := ctx.xAtBound(j)
		ctx.x[j] = val
		if val == 0 {
			continue
		}
		rows, vals := ctx.problem.a.Column(j)
		for k, r := range rows {
			b[r] -= vals[k] * val
		}
	}
	xB, err := ctx.basis.FTRAN(b)
	if err != nil {
		return err
	}
	for i, v := range xB {
		ctx.x[ctx.basisHeader[i]] = v
	}
	return nil
}

// setPhase decides Phase I vs Phase II from the current basic values against
// their working bounds (spec §4.6 step "Phase selection"): any basic
// variable outside its bound past FeasibilityTol forces Phase I.
func (ctx *SolverContext) setPhase() {
	if ctx.phase1Infeasibility() > ctx.params.FeasibilityTol {
		ctx.phase = PhaseI
		ctx.buildPhaseICost()
	} else {
		ctx.phase = PhaseII
		ctx.artificialCost = nil
	}
}

// phase1Infeasibility sums how far every basic variable sits outside its
// working bounds, the Phase I "artificial objective" spec §4.6 asks for.
func (ctx *SolverContext) phase1Infeasibility() float64 {
	tol := ctx.params.FeasibilityTol
	sum := 0.0
	for _, bv := range ctx.basisHeader {
		lb, ub := ctx.bound(bv)
		v := ctx.x[bv]
		switch {
		case v < lb-tol:
			sum += lb - v
		case v > ub+tol:
			sum += v - ub
		}
	}
	return sum
}

// buildPhaseICost assigns each currently-infeasible basic variable a unit
// cost driving it toward the nearer bound (+1 if above ub, -1 if below lb),
// 0 otherwise (SPEC_FULL.md §C.2's bounded-variable generalization of the
// teacher ancestor's single-artificial Phase I). Rebuilt every iteration
// since the infeasible set changes as pivots occur.
func (ctx *SolverContext) buildPhaseICost() {
	cost := ctx.artificialCost
	if cost == nil {
		cost = make([]float64, ctx.problem.n)
	} else {
		for i := range cost {
			cost[i] = 0
		}
	}
	tol := ctx.params.FeasibilityTol
	for _, bv := range ctx.basisHeader {
		lb, ub := ctx.bound(bv)
		v := ctx.x[bv]
		switch {
		case v < lb-tol:
			cost[bv] = -1
		case v > ub+tol:
			cost[bv] = 1
		}
	}
	ctx.artificialCost = cost
}

// phaseCost returns the cost vector active for the current phase.
func (ctx *SolverContext) phaseCost() []float64 {
	if ctx.phase == PhaseI {
		return ctx.artificialCost
	}
	return ctx.problem.c
}

// computeReducedCosts sets ctx.pi = B^-T c_B and ctx.d[j] = c_j - pi.A_j for
// every nonbasic working variable (spec §4.2's precondition; basic
// variables carry d=0 by definition).
func (ctx *SolverContext) computeReducedCosts(costVec []float64) error {
	m := ctx.problem.m
	cB := make([]float64, m)
	for i, bv := range ctx.basisHeader {
		cB[i] = costVec[bv]
	}
	pi, err := ctx.basis.BTRAN(cB)
	if err != nil {
		return err
	}
	ctx.pi = pi
	for j := 0; j < ctx.problem.n; j++ {
		if ctx.status[j] == StatusBasic {
			ctx.d[j] = 0
			continue
		}
		rows, vals := ctx.problem.a.Column(j)
		s := 0.0
		for k, r := range rows {
			s += vals[k] * pi[r]
		}
		ctx.d[j] = costVec[j] - s
	}
	return nil
}

// denseColumn expands working variable j's column to a dense length-m
// vector, the FTRAN input for pricing/ratio test.
func (ctx *SolverContext) denseColumn(j int) []float64 {
	out := make([]float64, ctx.problem.m)
	rows, vals := ctx.problem.a.Column(j)
	for k, r := range rows {
		out[r] = vals[k]
	}
	return out
}

// enteringDirection returns +1 if q should increase, -1 if it should
// decrease, given its nonbasic status and reduced cost (spec §4.2/§4.3).
func enteringDirection(status VarStatus, d float64) float64 {
	switch status {
	case StatusAtUpper:
		return -1
	case StatusFree:
		if d < 0 {
			return 1
		}
		return -1
	default: // StatusAtLower
		return 1
	}
}

// runLoop executes the per-iteration pricing/FTRAN/ratio-test/pivot cycle
// until optimality, infeasibility, unboundedness, a resource limit, or
// external termination (spec §4.6 "LOOP").
func (ctx *SolverContext) runLoop(termination *atomic.Bool) (SolveStatus, string) {
	refactorRetried := false

	for {
		if termination != nil && termination.Load() {
			return StatusTerminated, "terminated by caller between iterations"
		}
		if ctx.iteration >= ctx.params.MaxIterations {
			return StatusIterationLimit, "max_iterations reached"
		}

		if ctx.phase == PhaseI {
			ctx.buildPhaseICost()
		}
		if err := ctx.computeReducedCosts(ctx.phaseCost()); err != nil {
			if refactorRetried {
				return StatusNumericalSingular, errors.Cause(err).Error()
			}
			refactorRetried = true
			if rerr := ctx.refactorize(); rerr != nil {
				return StatusNumericalSingular, rerr.Error()
			}
			continue
		}

		pr := ctx.price()
		if pr.Optimal {
			if ctx.phase == PhaseI {
				if ctx.phase1Infeasibility() <= ctx.params.FeasibilityTol {
					ctx.phase = PhaseII
					ctx.artificialCost = nil
					ctx.pricing.resetWeights()
					continue
				}
				return StatusInfeasible, "no attractive entering variable with positive Phase I infeasibility"
			}
			return StatusOptimal, ""
		}

		enter := pr.Enter
		direction := enteringDirection(ctx.status[enter], pr.ReducedCost)
		col := ctx.denseColumn(enter)
		delta, err := ctx.basis.FTRAN(col)
		if err != nil {
			if refactorRetried {
				return StatusNumericalSingular, errors.Cause(err).Error()
			}
			refactorRetried = true
			if rerr := ctx.refactorize(); rerr != nil {
				return StatusNumericalSingular, rerr.Error()
			}
			continue
		}

		rt := ctx.ratioTest(enter, direction, delta)
		if rt.Unbounded {
			if ctx.phase == PhaseI {
				// The Phase I objective is bounded below by 0; an
				// unbounded ray here means a modeling defect upstream
				// (infinite bound on a structural with no offsetting
				// row), not a legitimate LP. Surface it as unbounded
				// rather than looping forever.
				return StatusUnbounded, "unbounded ray encountered during Phase I"
			}
			return StatusUnbounded, ""
		}

		if rt.BoundFlip {
			ctx.applyBoundFlip(enter, direction, rt.Step, delta)
			refactorRetried = false
			continue
		}

		if !ctx.pivotElementOK(delta, rt.LeaveRow) {
			if refactorRetried {
				return StatusNumericalSingular, "pivot element below tolerance after refactorization retry"
			}
			refactorRetried = true
			if rerr := ctx.refactorize(); rerr != nil {
				return StatusNumericalSingular, rerr.Error()
			}
			continue
		}

		leaveVar := ctx.basisHeader[rt.LeaveRow]
		ctx.pivot(enter, direction, rt, delta)
		_ = ctx.updateWeights(enter, rt.LeaveRow, leaveVar, delta)
		refactorRetried = false

		if sig := ctx.basis.signal(ctx.params); sig != RefactorNone {
			if rerr := ctx.refactorize(); rerr != nil {
				return StatusNumericalSingular, rerr.Error()
			}
		}
	}
}

// refine removes any active perturbation, restoring the caller's original
// bounds, and snaps values that sit outside a bound by at most
// FeasibilityTol exactly onto it (spec §4.6 "REFINE"). Values inside their
// bounds are left unchanged.
func (ctx *SolverContext) refine() {
	if ctx.perturbationActive {
		ctx.removePerturbation()
	}
	tol := ctx.params.FeasibilityTol
	for j := 0; j < ctx.problem.n; j++ {
		lb, ub := ctx.bound(j)
		v := ctx.x[j]
		if v < lb && v >= lb-tol {
			v = lb
		}
		if v > ub && v <= ub+tol {
			v = ub
		}
		ctx.x[j] = v
	}
}

// primalResidual computes A*x - rhs over the working (structural+slack)
// problem, dense and indexed by row, for diagnostic reporting.
func (ctx *SolverContext) primalResidual() []float64 {
	m := ctx.problem.m
	r := make([]float64, m)
	for j := 0; j < ctx.problem.n; j++ {
		v := ctx.x[j]
		if v == 0 {
			continue
		}
		rows, vals := ctx.problem.a.Column(j)
		for k, row := range rows {
			r[row] += vals[k] * v
		}
	}
	for i := range r {
		r[i] -= ctx.problem.rhs[i]
	}
	return r
}

// primalResidualNorm wraps primalResidual in a mat.VecDense to reuse
// gonum/mat's Norm rather than a hand-rolled reduction, matching the
// teacher's own habit (affine_scaling.go, parametric.go) of wrapping plain
// []float64 work vectors in mat types purely to call BLAS-backed
// reductions on them.
func (ctx *SolverContext) primalResidualNorm() float64 {
	r := ctx.primalResidual()
	if len(r) == 0 {
		return 0
	}
	return mat.Norm(mat.NewVecDense(len(r), r), 2)
}

// extract builds the caller-facing Result from the final SolverContext
// state (spec §4.6 "EXTRACT", §6 numeric sentinels).
func (ctx *SolverContext) extract(status SolveStatus, diag string) *Result {
	inf := ctx.params.InfinityValue
	structN := ctx.problem.n - ctx.problem.m

	x := make([]float64, structN)
	reduced := make([]float64, structN)
	for j := 0; j < structN; j++ {
		x[j] = clampResult(ctx.x[j], inf)
		reduced[j] = clampResult(ctx.d[j], inf)
	}

	slacks := make([]float64, ctx.problem.m)
	for i, s := range ctx.problem.slackOf {
		slacks[i] = clampResult(ctx.x[s], inf)
	}

	pi := make([]float64, ctx.problem.m)
	for i, v := range ctx.pi {
		pi[i] = clampResult(v, inf)
	}

	obj := floats.Dot(ctx.problem.c[:structN], ctx.x[:structN])

	if status != StatusOptimal {
		resNorm := ctx.primalResidualNorm()
		if diag != "" {
			diag = fmt.Sprintf("%s; primal residual ||Ax-b||=%.3e", diag, resNorm)
		} else {
			diag = fmt.Sprintf("primal residual ||Ax-b||=%.3e", resNorm)
		}
	}

	return &Result{
		Status:         status,
		X:              x,
		Pi:             pi,
		ReducedCosts:   reduced,
		RowSlacks:      slacks,
		ObjectiveValue: clampResult(obj, inf),
		IterationsRun:  ctx.iteration,
		Diagnostic:     diag,
		Basis:          append([]int(nil), ctx.basisHeader...),
		VarStatus:      append([]VarStatus(nil), ctx.status...),
	}
}
