package simplex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEtaChainApplyForwardThenBackward(t *testing.T) {
	e := NewEtaChain(3)
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 1.0, e.Cond())

	// Pivot row 1, column [1, 4, 2] (so p = 1/4).
	e.Append(1, []float64{1, 4, 2})
	assert.Equal(t, 1, e.Len())
	assert.Greater(t, e.Cond(), 1.0)

	w := []float64{1, 1, 1}
	e.ApplyForward(w)
	// w[1] *= p=0.25 -> 0.25; then w[0] -= 1*0.25, w[2] -= 2*0.25
	assert.InDelta(t, 0.75, w[0], 1e-12)
	assert.InDelta(t, 0.25, w[1], 1e-12)
	assert.InDelta(t, 0.5, w[2], 1e-12)

	// ApplyBackward applies the transpose (the BTRAN step), not the
	// inverse: t = 1*0.75 + 2*0.5 = 1.75, v[1] = (0.25-1.75)*0.25 = -0.375;
	// the off-pivot entries are unchanged.
	v := []float64{0.75, 0.25, 0.5}
	e.ApplyBackward(v)
	assert.InDelta(t, 0.75, v[0], 1e-9)
	assert.InDelta(t, -0.375, v[1], 1e-9)
	assert.InDelta(t, 0.5, v[2], 1e-9)
}

func TestEtaChainDropTolAndReset(t *testing.T) {
	e := NewEtaChain(2)
	e.Append(0, []float64{2, DropTol / 10})
	assert.Equal(t, 0, e.Memory(), "sub-DropTol off-diagonal must be dropped")

	e.Append(0, []float64{2, 1})
	assert.Equal(t, 1, e.Memory())
	assert.Equal(t, 2, e.Len())

	e.Reset()
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 1.0, e.Cond())
}
