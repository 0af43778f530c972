package simplex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioTestPicksBindingRow(t *testing.T) {
	ctx := simpleTwoVarContext(t)
	// basisHeader holds the two slacks (indices 2,3); give them values and
	// bounds so increasing the entering variable binds row 1 first.
	ctx.basisHeader = []int{2, 3}
	ctx.status[2], ctx.status[3] = StatusBasic, StatusBasic
	ctx.lower[2], ctx.upper[2] = 0, Infinity
	ctx.lower[3], ctx.upper[3] = 0, Infinity
	ctx.x[2], ctx.x[3] = 4, 1

	delta := []float64{1, 1}
	rt := ctx.ratioTest(0, 1, delta)
	assert.False(t, rt.Unbounded)
	assert.False(t, rt.BoundFlip)
	assert.Equal(t, 1, rt.LeaveRow)
	assert.InDelta(t, 1, rt.Step, 1e-6)
	assert.Equal(t, StatusAtLower, rt.LeaveBound)
}

func TestRatioTestUnboundedWhenNoBlockingRow(t *testing.T) {
	ctx := simpleTwoVarContext(t)
	ctx.basisHeader = []int{2, 3}
	ctx.lower[2], ctx.upper[2] = -Infinity, Infinity
	ctx.lower[3], ctx.upper[3] = -Infinity, Infinity

	delta := []float64{0, 0}
	rt := ctx.ratioTest(0, 1, delta)
	assert.True(t, rt.Unbounded)
}

func TestRatioTestBoundFlip(t *testing.T) {
	ctx := simpleTwoVarContext(t)
	ctx.basisHeader = []int{2, 3}
	ctx.lower[2], ctx.upper[2] = 0, Infinity
	ctx.lower[3], ctx.upper[3] = 0, Infinity
	ctx.x[2], ctx.x[3] = 1000, 1000

	// Entering variable 0 is boxed [0,0.5]; the box should cap the step
	// below either row's ratio.
	ctx.lower[0], ctx.upper[0] = 0, 0.5

	delta := []float64{1, 1}
	rt := ctx.ratioTest(0, 1, delta)
	assert.True(t, rt.BoundFlip)
	assert.InDelta(t, 0.5, rt.Step, 1e-9)
}
