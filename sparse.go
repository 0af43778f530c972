package simplex

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// SparseMatrix is a column-major (CSC) sparse matrix: for column j, the
// entries ColPtr[j]..ColPtr[j+1] index RowIdx/Data, with RowIdx sorted
// strictly increasing within the column. It corresponds to the teacher's
// dense ab/an column extraction (extractColumns in the gonum lp lineage)
// generalized to real sparse storage, per spec §3.
type SparseMatrix struct {
	Rows, Cols int
	ColPtr     []int
	RowIdx     []int
	Data       []float64

	csr *csrMatrix // lazily built mirror, cached across calls
}

// csrMatrix is the row-major mirror: identical content to the owning
// SparseMatrix, sorted by column within each row.
type csrMatrix struct {
	RowPtr []int
	ColIdx []int
	Data   []float64
}

// NewCSC validates and wraps column-major sparse data. It does not copy.
func NewCSC(rows, cols int, colPtr, rowIdx []int, data []float64) (*SparseMatrix, error) {
	if rows < 0 || cols < 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "negative dimension")
	}
	if len(colPtr) != cols+1 {
		return nil, errors.Wrap(ErrInvalidArgument, "colPtr length must be cols+1")
	}
	if len(rowIdx) != len(data) {
		return nil, errors.Wrap(ErrInvalidArgument, "rowIdx/data length mismatch")
	}
	if colPtr[0] != 0 || colPtr[cols] != len(rowIdx) {
		return nil, errors.Wrap(ErrInvalidArgument, "colPtr bounds inconsistent with nnz")
	}
	for j := 0; j < cols; j++ {
		if colPtr[j] > colPtr[j+1] {
			return nil, errors.Wrap(ErrInvalidArgument, "colPtr not monotone")
		}
		prev := -1
		for k := colPtr[j]; k < colPtr[j+1]; k++ {
			r := rowIdx[k]
			if r <= prev {
				return nil, errors.Wrap(ErrInvalidArgument, "row indices not strictly sorted within column")
			}
			if r < 0 || r >= rows {
				return nil, errors.Wrap(ErrInvalidArgument, "row index out of range")
			}
			if math.IsNaN(data[k]) || math.IsInf(data[k], 0) {
				return nil, errors.Wrap(ErrInvalidArgument, "non-finite matrix entry")
			}
			prev = r
		}
	}
	return &SparseMatrix{Rows: rows, Cols: cols, ColPtr: colPtr, RowIdx: rowIdx, Data: data}, nil
}

// Column returns the row indices and values stored for column j. The
// returned slices alias the matrix's storage and must not be mutated.
func (s *SparseMatrix) Column(j int) (rows []int, vals []float64) {
	lo, hi := s.ColPtr[j], s.ColPtr[j+1]
	return s.RowIdx[lo:hi], s.Data[lo:hi]
}

// DenseColumn scatters column j into dst, which must have length s.Rows.
// dst is zeroed first. This is the "recover dense work vector from sparse
// input" step spec §9 permits for FTRAN/BTRAN.
func (s *SparseMatrix) DenseColumn(j int, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	rows, vals := s.Column(j)
	for k, r := range rows {
		dst[r] = vals[k]
	}
}

// NNZ returns the number of explicitly stored entries.
func (s *SparseMatrix) NNZ() int { return len(s.Data) }

// CSR lazily builds and caches the row-major mirror via a two-pass
// transpose that guarantees sorted column indices per row, per spec §6.
func (s *SparseMatrix) CSR() *csrMatrix {
	if s.csr != nil {
		return s.csr
	}
	rowCount := make([]int, s.Rows+1)
	for _, r := range s.RowIdx {
		rowCount[r+1]++
	}
	for i := 0; i < s.Rows; i++ {
		rowCount[i+1] += rowCount[i]
	}
	rowPtr := rowCount
	colIdx := make([]int, len(s.RowIdx))
	data := make([]float64, len(s.Data))
	cursor := make([]int, s.Rows)
	copy(cursor, rowPtr[:s.Rows])
	for j := 0; j < s.Cols; j++ {
		lo, hi := s.ColPtr[j], s.ColPtr[j+1]
		for k := lo; k < hi; k++ {
			r := s.RowIdx[k]
			p := cursor[r]
			colIdx[p] = j
			data[p] = s.Data[k]
			cursor[r]++
		}
	}
	// Each row's entries were appended in increasing column order because
	// we scan columns in increasing order above, so no further sort is
	// needed; this mirrors the "two-pass transpose guaranteeing sorted
	// column indices per row" contract of spec §6.
	s.csr = &csrMatrix{RowPtr: rowPtr, ColIdx: colIdx, Data: data}
	return s.csr
}

// Row returns the column indices and values stored for row i of the CSR
// mirror (built on first use).
func (s *SparseMatrix) Row(i int) (cols []int, vals []float64) {
	csr := s.CSR()
	lo, hi := csr.RowPtr[i], csr.RowPtr[i+1]
	return csr.ColIdx[lo:hi], csr.Data[lo:hi]
}

// cscBuilder assembles a CSC matrix column by column; used by
// normalize to append slack columns without repeated sort passes.
type cscBuilder struct {
	rows, cols int
	colPtr     []int
	rowIdx     []int
	data       []float64
}

func newCSCBuilder(rows, cols int) *cscBuilder {
	return &cscBuilder{rows: rows, cols: cols, colPtr: make([]int, 1, cols+1)}
}

func (b *cscBuilder) addColumn(rows []int, vals []float64) {
	type pair struct {
		r int
		v float64
	}
	ps := make([]pair, len(rows))
	for i := range rows {
		ps[i] = pair{rows[i], vals[i]}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].r < ps[j].r })
	for _, p := range ps {
		b.rowIdx = append(b.rowIdx, p.r)
		b.data = append(b.data, p.v)
	}
	b.colPtr = append(b.colPtr, len(b.rowIdx))
}

func (b *cscBuilder) build() (*SparseMatrix, error) {
	return NewCSC(b.rows, b.cols, b.colPtr, b.rowIdx, b.data)
}
