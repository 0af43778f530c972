package simplex

import "math"

// RatioResult is the outcome of the Harris ratio test (spec §4.3).
type RatioResult struct {
	Unbounded  bool
	BoundFlip  bool
	LeaveRow   int
	Step       float64
	LeaveBound VarStatus // StatusAtLower or StatusAtUpper, meaningful unless BoundFlip
}

type rowCandidate struct {
	row   int
	ratio float64 // first-pass ratio, including the relaxation
	step  float64 // exact ratio to the bound, without the relaxation
	absD  float64
	bound VarStatus
}

// ratioTest runs the Harris two-pass ratio test for entering variable
// `enter` moving in `direction` (+1 or -1) along FTRAN'd column delta
// (spec §4.3). It also handles the boxed-entering-variable bound-flip
// edge case (spec §4.3, "Edge cases").
func (ctx *SolverContext) ratioTest(enter int, direction float64, delta []float64) RatioResult {
	epsP := ctx.params.FeasibilityTol
	relaxed := 10 * epsP
	inf := ctx.params.InfinityValue

	candidates := make([]rowCandidate, 0, len(delta))
	rhoMin := math.Inf(1)

	for i, di := range delta {
		basicVar := ctx.basisHeader[i]
		d := direction * di
		lb, ub := ctx.bound(basicVar)
		switch {
		case d > relaxed && !(IsInfinite(lb, inf) && lb < 0):
			xi := ctx.x[basicVar]
			r := (xi - lb + relaxed) / d
			candidates = append(candidates, rowCandidate{i, r, (xi - lb) / d, math.Abs(di), StatusAtLower})
			if r < rhoMin {
				rhoMin = r
			}
		case d > relaxed && !IsInfinite(ub, inf) && ctx.x[basicVar] > ub+epsP:
			// Above ub with no finite lb (Phase I): blocks on reaching ub.
			xi := ctx.x[basicVar]
			r := (xi - ub + relaxed) / d
			candidates = append(candidates, rowCandidate{i, r, (xi - ub) / d, math.Abs(di), StatusAtUpper})
			rhoMin = math.Min(rhoMin, r)
		case d < -relaxed && !(IsInfinite(ub, inf) && ub > 0):
			xi := ctx.x[basicVar]
			r := (xi - ub - relaxed) / d
			candidates = append(candidates, rowCandidate{i, r, (xi - ub) / d, math.Abs(di), StatusAtUpper})
			if r < rhoMin {
				rhoMin = r
			}
		case d < -relaxed && !IsInfinite(lb, inf) && ctx.x[basicVar] < lb-epsP:
			// Below lb with no finite ub (Phase I): blocks on reaching lb.
			xi := ctx.x[basicVar]
			r := (xi - lb - relaxed) / d
			candidates = append(candidates, rowCandidate{i, r, (xi - lb) / d, math.Abs(di), StatusAtLower})
			rhoMin = math.Min(rhoMin, r)
		}
	}

	// Boxed entering variable: a bound flip caps the step at (ub-lb).
	var cap float64
	boxed := ctx.boundClass(enter) == BoundBoxed
	if boxed {
		lb, ub := ctx.bound(enter)
		cap = ub - lb
		if cap < rhoMin {
			rhoMin = cap
		}
	}

	if math.IsInf(rhoMin, 1) {
		return RatioResult{Unbounded: true}
	}

	if boxed && cap <= rhoMin+epsP && (len(candidates) == 0 || cap <= minCandidateRatio(candidates)) {
		return RatioResult{BoundFlip: true, Step: cap}
	}

	// Second pass: among candidates within epsP of rhoMin, pick the
	// largest pivot magnitude; tie-break by smaller row index.
	bestIdx := -1
	for idx, c := range candidates {
		if c.ratio > rhoMin+epsP {
			continue
		}
		if bestIdx < 0 {
			bestIdx = idx
			continue
		}
		b := candidates[bestIdx]
		if c.absD > b.absD || (c.absD == b.absD && c.row < b.row) {
			bestIdx = idx
		}
	}
	if bestIdx < 0 {
		// Only the boxed cap bounded the step after all.
		if boxed {
			return RatioResult{BoundFlip: true, Step: cap}
		}
		return RatioResult{Unbounded: true}
	}
	// The step is the chosen row's exact ratio, so the leaving variable
	// lands on its bound rather than past it.
	chosen := candidates[bestIdx]
	step := chosen.step
	if step < 0 {
		step = 0
	}
	return RatioResult{LeaveRow: chosen.row, Step: step, LeaveBound: chosen.bound}
}

func minCandidateRatio(cs []rowCandidate) float64 {
	m := math.Inf(1)
	for _, c := range cs {
		if c.ratio < m {
			m = c.ratio
		}
	}
	return m
}
