package simplex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivotCommitsBasisExchange(t *testing.T) {
	ctx := simpleTwoVarContext(t)
	ctx.basisHeader = []int{2, 3}
	ctx.status[2], ctx.status[3] = StatusBasic, StatusBasic
	ctx.lower[2], ctx.upper[2] = 0, Infinity
	ctx.lower[3], ctx.upper[3] = 0, Infinity
	ctx.x[2], ctx.x[3] = 4, 1
	ctx.status[0] = StatusAtLower
	ctx.x[0] = 0

	delta := []float64{1, 1}
	rt := ctx.ratioTest(0, 1, delta)
	require.False(t, rt.Unbounded)
	require.False(t, rt.BoundFlip)

	leaveVar := ctx.basisHeader[rt.LeaveRow]
	ctx.pivot(0, 1, rt, delta)

	assert.Equal(t, StatusBasic, ctx.status[0])
	assert.Equal(t, 0, ctx.basisHeader[rt.LeaveRow])
	assert.Equal(t, rt.LeaveBound, ctx.status[leaveVar])
	assert.InDelta(t, rt.Step, ctx.x[0], 1e-9)
	assert.Equal(t, 1, ctx.iteration)
	assert.Equal(t, 1, ctx.basis.eta.Len())
}

func TestApplyBoundFlipNoEta(t *testing.T) {
	ctx := simpleTwoVarContext(t)
	ctx.basisHeader = []int{2, 3}
	ctx.lower[2], ctx.upper[2] = 0, Infinity
	ctx.lower[3], ctx.upper[3] = 0, Infinity
	ctx.x[2], ctx.x[3] = 1000, 1000
	ctx.lower[0], ctx.upper[0] = 0, 0.5

	delta := []float64{1, 1}
	ctx.applyBoundFlip(0, 1, 0.5, delta)

	assert.Equal(t, StatusAtUpper, ctx.status[0])
	assert.Equal(t, 0.5, ctx.x[0])
	assert.InDelta(t, 999.5, ctx.x[2], 1e-9)
	assert.Equal(t, 0, ctx.basis.eta.Len())
}

// TestPivotDecreasingEnteringVariableUpdatesOtherRows covers a genuine
// (non-bound-flip) pivot where the entering variable decreases from its
// upper bound (direction=-1): x1 is boxed [0,100] and currently at its
// upper bound 100, with basic slacks s0=50 (row 0, x1+s0=150, s0 unbounded
// above) and s1=2 (row 1, x1+s1=102, s1 boxed [0,5]). The Harris test must
// pick row 1 (s1 hits its upper bound at step=3); after the pivot every
// basic row must still satisfy A*x=b, not just the leaving row.
func TestPivotDecreasingEnteringVariableUpdatesOtherRows(t *testing.T) {
	ctx := simpleTwoVarContext(t)
	ctx.basisHeader = []int{2, 3}
	ctx.status[2], ctx.status[3] = StatusBasic, StatusBasic
	ctx.lower[2], ctx.upper[2] = 0, Infinity
	ctx.lower[3], ctx.upper[3] = 0, 5
	ctx.x[2], ctx.x[3] = 50, 2
	ctx.lower[0], ctx.upper[0] = 0, 100
	ctx.status[0] = StatusAtUpper
	ctx.x[0] = 100

	delta := []float64{1, 1}
	rt := ctx.ratioTest(0, -1, delta)
	require.False(t, rt.Unbounded)
	require.False(t, rt.BoundFlip)
	require.Equal(t, 1, rt.LeaveRow)
	require.InDelta(t, 3.0, rt.Step, 1e-6)

	ctx.pivot(0, -1, rt, delta)

	assert.InDelta(t, 97.0, ctx.x[0], 1e-9)
	assert.InDelta(t, 53.0, ctx.x[2], 1e-9, "non-leaving basic row must reflect the entering variable's decrease")
	assert.InDelta(t, 150.0, ctx.x[0]+ctx.x[2], 1e-9, "row 0 primal equality x1+s0=150 must still hold")
	assert.InDelta(t, 102.0, ctx.x[0]+ctx.x[3], 1e-9, "row 1 primal equality x1+s1=102 must still hold")
}

func TestPivotElementOK(t *testing.T) {
	ctx := simpleTwoVarContext(t)
	delta := []float64{1e-9, 1}
	assert.False(t, ctx.pivotElementOK(delta, 0))
	assert.True(t, ctx.pivotElementOK(delta, 1))
}
