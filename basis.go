package simplex

import (
	"math"

	"github.com/pkg/errors"
)

// BasisFactor represents B^-1 as L*U (from the last refactorization)
// followed by a chain of eta updates (spec §3, §4.1): the product form of
// the inverse.
//
// L and U are stored dense in pivot order (row/column permutations
// applied), which is the dense-basis-store half of the teacher's pattern
// (the gonum lp lineage keeps the basis as a dense ab *mat.Dense factored
// with mat.LU); what is NOT reused from the teacher is the factorization
// rule itself; mat.LU is partial-pivoting Gaussian elimination, and spec
// §4.1 requires Markowitz pivoting for fill-in control, which Refactorize
// implements directly rather than delegating to gonum/mat.
type BasisFactor struct {
	m int

	// l, u are m x m dense, row-major, stored in *pivot order*: l[k] are
	// the multipliers produced while eliminating the k-th pivot, u[k] is
	// the k-th pivot row restricted to columns >= k in pivot order.
	l [][]float64
	u [][]float64

	// rowOrder[k] / colPos[k] are the original row index and basis
	// position chosen as the k-th pivot during refactorization.
	rowOrder []int
	colPos   []int

	eta *EtaChain

	pivotsSinceRefactor int
	etaCountAtLastCheck int

	// ftranTimes accumulates a small rolling window of FTRAN costs (here:
	// eta-chain length traversed, a deterministic proxy for wall-clock
	// time) against a baseline recorded at the last refactorization, for
	// the refactor scheduler's time-based signal (spec §4.1).
	ftranBaseline float64
	ftranRecent   float64
	ftranCount    int
}

// NewBasisFactor allocates an unfactored BasisFactor for a basis of
// dimension m.
func NewBasisFactor(m int) *BasisFactor {
	return &BasisFactor{m: m, eta: NewEtaChain(m)}
}

// Refactorize rebuilds L and U from scratch from the m columns of a
// (working problem's CSC matrix) indexed by basisHeader, discarding the
// eta chain (spec §4.1). Pivots are chosen by Markowitz's rule: among
// candidates with |value| >= pivotTol * (max abs value remaining in that
// column), pick the one minimizing (rowCount-1)*(colCount-1), breaking
// ties by smaller rowCount then smaller basis position. Returns
// ErrSingularBasis if no admissible pivot remains at some step.
func (bf *BasisFactor) Refactorize(a *SparseMatrix, basisHeader []int, pivotTol float64) error {
	m := bf.m
	if len(basisHeader) != m {
		return errors.Wrap(ErrInvalidArgument, "basis header length must equal m")
	}

	// Dense working copy of the basis submatrix: w[row][basisPos].
	w := make([][]float64, m)
	for i := range w {
		w[i] = make([]float64, m)
	}
	for pos, varIdx := range basisHeader {
		rows, vals := a.Column(varIdx)
		for k, r := range rows {
			w[r][pos] = vals[k]
		}
	}

	activeRow := make([]bool, m)
	activeCol := make([]bool, m)
	for i := range activeRow {
		activeRow[i] = true
		activeCol[i] = true
	}

	l := make([][]float64, m)
	u := make([][]float64, m)
	rowOrder := make([]int, m)
	colPos := make([]int, m)

	for step := 0; step < m; step++ {
		rowCount := make(map[int]int)
		colCount := make(map[int]int)
		colMax := make(map[int]float64)
		for i := 0; i < m; i++ {
			if !activeRow[i] {
				continue
			}
			for j := 0; j < m; j++ {
				if !activeCol[j] {
					continue
				}
				v := w[i][j]
				if v == 0 {
					continue
				}
				rowCount[i]++
				colCount[j]++
				if a := math.Abs(v); a > colMax[j] {
					colMax[j] = a
				}
			}
		}

		bestRow, bestCol := -1, -1
		bestScore := math.MaxInt64
		for i := 0; i < m; i++ {
			if !activeRow[i] {
				continue
			}
			for j := 0; j < m; j++ {
				if !activeCol[j] {
					continue
				}
				v := w[i][j]
				if v == 0 {
					continue
				}
				if math.Abs(v) < pivotTol*math.Max(colMax[j], pivotTol) {
					continue
				}
				score := (rowCount[i] - 1) * (colCount[j] - 1)
				if score < bestScore ||
					(score == bestScore && bestRow >= 0 && rowCount[i] < rowCount[bestRow]) ||
					(score == bestScore && bestRow >= 0 && rowCount[i] == rowCount[bestRow] && j < bestCol) {
					bestScore, bestRow, bestCol = score, i, j
				}
			}
		}
		if bestRow < 0 {
			return errors.Wrapf(ErrSingularBasis, "no admissible pivot at elimination step %d", step)
		}

		pivotVal := w[bestRow][bestCol]
		rowOrder[step] = bestRow
		colPos[step] = bestCol

		// Record U's step-th row: pivot value plus remaining active
		// columns (by basis position), and L's step-th column of
		// multipliers for rows eliminated using this pivot.
		uRow := make([]float64, 0, m-step)
		uCols := make([]int, 0, m-step)
		for j := 0; j < m; j++ {
			if activeCol[j] {
				uCols = append(uCols, j)
				uRow = append(uRow, w[bestRow][j])
			}
		}
		u[step] = encodeSparseRow(uCols, uRow, m)

		lCol := make([]float64, m)
		activeRow[bestRow] = false
		activeCol[bestCol] = false
		for i := 0; i < m; i++ {
			if !activeRow[i] {
				continue
			}
			factor := w[i][bestCol] / pivotVal
			if factor == 0 {
				continue
			}
			lCol[i] = factor
			for j := 0; j < m; j++ {
				if !activeCol[j] {
					continue
				}
				w[i][j] -= factor * w[bestRow][j]
			}
		}
		l[step] = lCol
	}

	bf.l = l
	bf.u = u
	bf.rowOrder = rowOrder
	bf.colPos = colPos
	bf.eta.Reset()
	bf.pivotsSinceRefactor = 0
	bf.ftranBaseline = 0
	bf.ftranRecent = 0
	bf.ftranCount = 0
	return nil
}

// encodeSparseRow expands a partial row (given at the listed columns) back
// to a dense length-n row; U rows are few enough (<=m) that dense storage
// per pivot row is the simplest correct representation, matching the
// "dense work vectors even when inputs are sparse" latitude of spec §9.
func encodeSparseRow(cols []int, vals []float64, n int) []float64 {
	row := make([]float64, n)
	for k, c := range cols {
		row[c] = vals[k]
	}
	return row
}

// solveL solves L*z = rhs (forward substitution, unit lower triangular in
// pivot order): rhs is indexed by original row, z is returned indexed by
// pivot step.
func (bf *BasisFactor) solveL(rhs []float64) ([]float64, error) {
	m := bf.m
	z := make([]float64, m)
	perm := make([]float64, m)
	for k := 0; k < m; k++ {
		perm[k] = rhs[bf.rowOrder[k]]
	}
	for k := 0; k < m; k++ {
		sum := perm[k]
		for t := 0; t < k; t++ {
			sum -= bf.l[t][bf.rowOrder[k]] * z[t]
		}
		z[k] = sum
	}
	return z, nil
}

// solveU solves U*zz = z (back substitution, pivot order), returning the
// result indexed by basis position (after undoing the column
// permutation).
func (bf *BasisFactor) solveU(z []float64) ([]float64, error) {
	m := bf.m
	y := make([]float64, m)
	for k := m - 1; k >= 0; k-- {
		sum := z[k]
		for t := k + 1; t < m; t++ {
			sum -= bf.u[k][bf.colPos[t]] * y[t]
		}
		pivotVal := bf.u[k][bf.colPos[k]]
		if pivotVal == 0 {
			return nil, errors.Wrap(ErrSingularBasis, "zero pivot in U back substitution")
		}
		y[k] = sum / pivotVal
	}
	out := make([]float64, m)
	for k := 0; k < m; k++ {
		out[bf.colPos[k]] = y[k]
	}
	return out, nil
}
