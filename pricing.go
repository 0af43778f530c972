package simplex

import "math"

// PriceResult is the outcome of one Pricing call: either an entering
// variable and its reduced cost, or a signal that no attractive variable
// exists (dual feasibility, hence optimality for the active phase).
type PriceResult struct {
	Optimal     bool
	Enter       int
	ReducedCost float64
}

// attractive reports whether working variable j is a candidate entering
// variable under its current status and reduced cost (spec §4.2).
func (ctx *SolverContext) attractive(j int, epsD float64) bool {
	switch ctx.status[j] {
	case StatusAtLower:
		return ctx.d[j] < -epsD
	case StatusAtUpper:
		return ctx.d[j] > epsD
	case StatusFree:
		return math.Abs(ctx.d[j]) > epsD
	default: // BASIC, FIXED
		return false
	}
}

// price selects an entering variable using the configured pricing rule
// and the multilevel partial-pricing scan (spec §4.2): the current
// section is scanned first; on a miss, a full scan runs; on a full miss,
// StatusOptimal is signaled for the caller to act on.
func (ctx *SolverContext) price() PriceResult {
	pc := ctx.pricing
	lo, hi := pc.sectionBounds()
	if r, ok := ctx.scanRange(lo, hi); ok {
		pc.advanceSection()
		return r
	}
	if r, ok := ctx.scanRange(0, ctx.problem.n); ok {
		pc.advanceSection()
		return r
	}
	pc.advanceSection()
	return PriceResult{Optimal: true}
}

// scanRange returns the most attractive candidate in [lo, hi) under the
// active pricing strategy, or ok=false if none is attractive.
func (ctx *SolverContext) scanRange(lo, hi int) (PriceResult, bool) {
	epsD := ctx.params.OptimalityTol
	found := false
	var best int
	var bestScore float64

	for j := lo; j < hi; j++ {
		if !ctx.attractive(j, epsD) {
			continue
		}
		var score float64
		switch ctx.params.PricingStrategy {
		case Steepest:
			g := ctx.pricing.weights[j]
			if g < MinWeight {
				g = 1
			}
			score = ctx.d[j] * ctx.d[j] / g
		default: // Dantzig
			score = math.Abs(ctx.d[j])
		}
		if !found || score > bestScore {
			found, best, bestScore = true, j, score
		}
	}
	if !found {
		return PriceResult{}, false
	}
	return PriceResult{Enter: best, ReducedCost: ctx.d[best]}, true
}

// updateWeights applies the Goldfarb-Reid steepest-edge recursion after a
// committed pivot (spec §4.2): rho is row r of B^-1 (BTRAN of e_r,
// original-row indexed), delta is the FTRAN'd entering column
// (basis-position indexed), enter/leaveRow/leaveVar identify the pivot.
//
// The literal spec formula (γ_j <- γ_j - 2*α_j*τ_j + α_j^2*γ_q) names two
// per-column quantities (α_j, τ_j) without defining τ_j separately from
// α_j; we resolve this Open Question (spec §9) by following the standard
// Forrest-Goldfarb devex/steepest-edge update: α_j is normalized by the
// pivot element before use (α_j/α_r), and τ_j is taken to be the
// un-normalized α_j, which gives the recursion below and is the
// interpretation under which the MinWeight-reset safety valve in spec
// §4.2 is actually needed (the raw, non-normalized reading is
// scale-dependent and rarely needs resetting).
func (ctx *SolverContext) updateWeights(enter, leaveRow, leaveVar int, delta []float64) error {
	pc := ctx.pricing
	gammaQ := pc.weights[enter]
	if gammaQ < MinWeight || math.IsNaN(gammaQ) || math.IsInf(gammaQ, 0) {
		gammaQ = 1
	}
	alphaR := delta[leaveRow]
	if alphaR == 0 {
		return nil
	}

	unit := make([]float64, ctx.problem.m)
	unit[leaveRow] = 1
	rho, err := ctx.basis.BTRAN(unit)
	if err != nil {
		return err
	}

	alpha := make([]float64, ctx.problem.n)
	for i, rv := range rho {
		if rv == 0 {
			continue
		}
		cols, vals := ctx.problem.a.Row(i)
		for k, j := range cols {
			alpha[j] += rv * vals[k]
		}
	}

	for j := 0; j < ctx.problem.n; j++ {
		if ctx.status[j] == StatusBasic || j == enter {
			continue
		}
		ratio := alpha[j] / alphaR
		g := pc.weights[j] - 2*ratio*alpha[j] + ratio*ratio*gammaQ
		if g < MinWeight || math.IsNaN(g) || math.IsInf(g, 0) {
			g = 1
		}
		pc.weights[j] = g
	}
	pc.weights[leaveVar] = math.Max(gammaQ/(alphaR*alphaR), 1)
	pc.weights[enter] = 1
	return nil
}
