package incidence

import "fmt"

// Incidence marks for a directed connection column.
const (
	srcMark int32 = -1 // at the row of the node the connection leaves
	dstMark int32 = +1 // at the row of the node the connection enters
)

// Matrix is a dense rows × cols int32 matrix stored column-major, the
// layout MAT-files use. A column is therefore a contiguous slice of the
// backing buffer.
type Matrix struct {
	rows, cols int
	data       []int32
}

// NewMatrix allocates a zero rows × cols matrix.
// It panics if either dimension is negative.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("incidence: negative dimensions %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]int32, rows*cols)}
}

// Rows returns the number of rows (nodes).
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns (connections).
func (m *Matrix) Cols() int { return m.cols }

// At returns the entry at row r, column c. It panics when out of range.
func (m *Matrix) At(r, c int) int32 {
	return m.data[m.offset(r, c)]
}

// Column returns column c as a slice aliasing the matrix buffer.
func (m *Matrix) Column(c int) []int32 {
	if c < 0 || c >= m.cols {
		panic(fmt.Sprintf("incidence: column %d out of range [0,%d)", c, m.cols))
	}
	return m.data[c*m.rows : (c+1)*m.rows]
}

// Data returns the column-major backing buffer. The caller must not modify it.
func (m *Matrix) Data() []int32 { return m.data }

func (m *Matrix) add(r, c int, v int32) {
	m.data[m.offset(r, c)] += v
}

func (m *Matrix) offset(r, c int) int {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("incidence: index (%d,%d) out of range %dx%d", r, c, m.rows, m.cols))
	}
	return c*m.rows + r
}
