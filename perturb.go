package simplex

import (
	"math"

	"golang.org/x/exp/rand"
)

// perturbationScale bounds how large a single bound's perturbation can be,
// as a fraction of the cost-scaled magnitude used to derive it (spec §4.5).
const perturbationScale = 1e-7

// applyPerturbation nudges every finite bound of a non-slack, non-free
// variable by a small deterministic pseudo-random amount to break primal
// degeneracy (spec §4.5: slacks and free variables are excluded). The shift
// tightens each bound (lb_j <- lb_j + eps_j, ub_j <- ub_j - eps'_j) and is
// scaled by 1+|c_j| so that differently-priced columns perturb by visibly
// different amounts. Original bounds are saved so removePerturbation can
// restore them exactly.
func (ctx *SolverContext) applyPerturbation(seed uint64) {
	if ctx.perturbationActive {
		return
	}
	structN := ctx.problem.n - ctx.problem.m
	ctx.perturbLower = append([]float64(nil), ctx.lower...)
	ctx.perturbUpper = append([]float64(nil), ctx.upper...)

	inf := ctx.params.InfinityValue
	src := rand.New(rand.NewSource(seed))

	for j := 0; j < structN; j++ {
		if classifyBounds(ctx.lower[j], ctx.upper[j], inf) == BoundFree {
			continue
		}
		lb, ub := ctx.lower[j], ctx.upper[j]
		scale := perturbationScale * (1 + math.Abs(ctx.problem.c[j]))

		if !IsInfinite(lb, inf) {
			shift := scale * src.Float64()
			ctx.lower[j] = lb + shift
		}
		if !IsInfinite(ub, inf) {
			shift := scale * src.Float64()
			ctx.upper[j] = ub - shift
		}
		if ctx.lower[j] > ctx.upper[j] {
			mid := (lb + ub) / 2
			ctx.lower[j], ctx.upper[j] = mid, mid
		}
	}
	ctx.perturbationActive = true
}

// removePerturbation restores the unperturbed working bounds (spec §4.5,
// the REFINE phase's first step). Basic and nonbasic values are left as-is
// here; the driver's refine step clamps anything that now sits slightly
// outside its restored bound.
func (ctx *SolverContext) removePerturbation() {
	if !ctx.perturbationActive {
		return
	}
	copy(ctx.lower, ctx.perturbLower)
	copy(ctx.upper, ctx.perturbUpper)
	ctx.perturbLower = nil
	ctx.perturbUpper = nil
	ctx.perturbationActive = false
}
