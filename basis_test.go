package simplex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityBasisMatrix builds an m-column working matrix whose first m
// columns (indices 0..m-1) form the identity, used as a trivial basis.
func identityBasisMatrix(t *testing.T, m int) *SparseMatrix {
	t.Helper()
	b := newCSCBuilder(m, m)
	for i := 0; i < m; i++ {
		b.addColumn([]int{i}, []float64{1})
	}
	mat, err := b.build()
	require.NoError(t, err)
	return mat
}

func TestBasisFactorRefactorizeIdentity(t *testing.T) {
	bf := NewBasisFactor(3)
	a := identityBasisMatrix(t, 3)
	header := []int{0, 1, 2}
	require.NoError(t, bf.Refactorize(a, header, 1e-7))

	y, err := bf.FTRAN([]float64{5, 6, 7})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 6, 7}, y, 1e-9)
}

func TestBasisFactorRefactorizeGeneral(t *testing.T) {
	// Basis columns: [[2,1,0],[1,3,0],[0,0,5]] (basisHeader identifies
	// working variables 0,1,2 mapped onto rows 0,1,2).
	b := newCSCBuilder(3, 3)
	b.addColumn([]int{0, 1}, []float64{2, 1})
	b.addColumn([]int{0, 1}, []float64{1, 3})
	b.addColumn([]int{2}, []float64{5})
	a, err := b.build()
	require.NoError(t, err)

	bf := NewBasisFactor(3)
	require.NoError(t, bf.Refactorize(a, []int{0, 1, 2}, 1e-7))

	rhs := []float64{3, 4, 10}
	y, err := bf.FTRAN(rhs)
	require.NoError(t, err)

	// Verify B*y == rhs by reconstructing B densely.
	dense := [][]float64{{2, 1, 0}, {1, 3, 0}, {0, 0, 5}}
	got := make([]float64, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			got[i] += dense[i][j] * y[j]
		}
	}
	assert.InDeltaSlice(t, rhs, got, 1e-9)
}

func TestBasisFactorSingular(t *testing.T) {
	b := newCSCBuilder(2, 2)
	b.addColumn([]int{0}, []float64{1})
	b.addColumn([]int{0}, []float64{2}) // both columns only touch row 0
	a, err := b.build()
	require.NoError(t, err)

	bf := NewBasisFactor(2)
	err = bf.Refactorize(a, []int{0, 1}, 1e-7)
	assert.ErrorIs(t, err, ErrSingularBasis)
}

func TestFTRANBTRANAreAdjoint(t *testing.T) {
	b := newCSCBuilder(2, 2)
	b.addColumn([]int{0, 1}, []float64{4, 2})
	b.addColumn([]int{0, 1}, []float64{1, 3})
	a, err := b.build()
	require.NoError(t, err)

	bf := NewBasisFactor(2)
	require.NoError(t, bf.Refactorize(a, []int{0, 1}, 1e-7))

	y, err := bf.FTRAN([]float64{1, 0})
	require.NoError(t, err)
	dense := [][]float64{{4, 1}, {2, 3}}
	check := make([]float64, 2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			check[i] += dense[i][j] * y[j]
		}
	}
	assert.InDeltaSlice(t, []float64{1, 0}, check, 1e-9)

	pi, err := bf.BTRAN([]float64{1, 1})
	require.NoError(t, err)
	checkT := make([]float64, 2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			checkT[j] += dense[i][j] * pi[i]
		}
	}
	assert.InDeltaSlice(t, []float64{1, 1}, checkT, 1e-9)
}
