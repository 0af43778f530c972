package simplex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCSC(t *testing.T) *SparseMatrix {
	t.Helper()
	// 2x3 matrix:
	// [1 0 2]
	// [0 3 4]
	m, err := NewCSC(2, 3, []int{0, 1, 2, 4}, []int{0, 1, 0, 1}, []float64{1, 3, 2, 4})
	require.NoError(t, err)
	return m
}

func TestNewCSCValidation(t *testing.T) {
	_, err := NewCSC(2, 3, []int{0, 1, 2}, []int{0, 1, 0, 1}, []float64{1, 3, 2, 4})
	assert.Error(t, err, "colPtr length must be cols+1")

	_, err = NewCSC(2, 3, []int{0, 1, 2, 4}, []int{0, 2, 0, 1}, []float64{1, 3, 2, 4})
	assert.Error(t, err, "row index out of range")

	_, err = NewCSC(2, 3, []int{0, 1, 2, 4}, []int{0, 1, 1, 0}, []float64{1, 3, 2, 4})
	assert.Error(t, err, "row indices within a column must be sorted")

	_, err = NewCSC(2, 3, []int{0, 1, 2, 4}, []int{0, 1, 0, 1}, []float64{1, 3, 2, math.NaN()})
	assert.Error(t, err, "non-finite values must be rejected")
}

func TestCSCColumnAndDense(t *testing.T) {
	m := sampleCSC(t)
	rows, vals := m.Column(2)
	assert.Equal(t, []int{0, 1}, rows)
	assert.Equal(t, []float64{2, 4}, vals)

	dense := make([]float64, m.Rows)
	m.DenseColumn(2, dense)
	assert.Equal(t, []float64{2, 4}, dense)

	assert.Equal(t, 4, m.NNZ())
}

func TestCSCRowViaCSR(t *testing.T) {
	m := sampleCSC(t)
	cols, vals := m.Row(1)
	assert.Equal(t, []int{1, 2}, cols)
	assert.Equal(t, []float64{3, 4}, vals)

	cols0, vals0 := m.Row(0)
	assert.Equal(t, []int{0, 2}, cols0)
	assert.Equal(t, []float64{1, 2}, vals0)
}

func TestCSCBuilder(t *testing.T) {
	b := newCSCBuilder(2, 2)
	b.addColumn([]int{0, 1}, []float64{1, 2})
	b.addColumn([]int{1}, []float64{5})
	m, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, 3, m.NNZ())
	rows, vals := m.Column(1)
	assert.Equal(t, []int{1}, rows)
	assert.Equal(t, []float64{5}, vals)
}
