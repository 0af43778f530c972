package simplex

import "math"

// pivot commits the basis exchange for a non-bound-flip step (spec §4.4).
// Preconditions: |delta[rt.LeaveRow]| >= PivotTol (checked by the caller,
// which must refactorize and retry on failure per spec §4.4's failure
// mode). direction is +1 if q is increasing from its lower bound (or
// moving from zero for a free variable with d_q<0), -1 otherwise.
func (ctx *SolverContext) pivot(enter int, direction float64, rt RatioResult, delta []float64) {
	r := rt.LeaveRow
	step := rt.Step

	enterStart := ctx.xAtBound(enter)

	for i, di := range delta {
		basicVar := ctx.basisHeader[i]
		ctx.x[basicVar] -= direction * step * di
	}
	ctx.x[enter] = enterStart + direction*step

	leaving := ctx.basisHeader[r]
	ctx.status[leaving] = rt.LeaveBound
	ctx.x[leaving] = ctx.xAtBound(leaving)

	ctx.status[enter] = StatusBasic
	ctx.basisHeader[r] = enter

	ctx.basis.eta.Append(r, delta)
	ctx.basis.pivotsSinceRefactor++

	ctx.iteration++
}

// applyBoundFlip handles the bound-flip edge case (spec §4.3): the
// entering variable is boxed and its own bound width caps the step, so it
// goes nonbasic at the opposite bound with no basis change; every basic
// x_B is updated by -direction*step*delta and the objective shifts by d_q*step.
func (ctx *SolverContext) applyBoundFlip(enter int, direction float64, step float64, delta []float64) {
	for i, di := range delta {
		basicVar := ctx.basisHeader[i]
		ctx.x[basicVar] -= direction * step * di
	}
	lb, ub := ctx.bound(enter)
	if direction > 0 {
		ctx.status[enter] = StatusAtUpper
		ctx.x[enter] = ub
	} else {
		ctx.status[enter] = StatusAtLower
		ctx.x[enter] = lb
	}
	ctx.iteration++
}

// pivotElementOK reports whether |delta[r]| meets the pivot tolerance
// (spec §4.4 precondition, §4.1 PFI-extension failure mode).
func (ctx *SolverContext) pivotElementOK(delta []float64, r int) bool {
	return math.Abs(delta[r]) >= ctx.params.PivotTol
}
