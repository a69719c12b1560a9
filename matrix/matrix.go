package matrix

// Matrix is a dense float64 matrix. In this module a matrix row is one
// example and a column is one class, so a predictor's output over a batch
// and its gradient buffer share the same [N, C] layout.
type Matrix struct {
	nrow uint32
	ncol uint32
	data []float64
}

// NewMatrix creates a new Matrix with r rows and c columns filled with
// zeros. If r*c <= 0, it will panic. A float64 slice is used as the
// underlying storage and the data layout is in row major order, i.e. the
// (i*c + j)-th element in the data slice is the [i, j]-th element in the
// matrix. Vector is defined as a matrix with one column.
func NewMatrix(r, c uint32) *Matrix {
	if r == 0 || c == 0 {
		panic(ErrBadShape)
	}
	return &Matrix{
		nrow: r,
		ncol: c,
		data: make([]float64, r*c),
	}
}

// NewMatrixFrom wraps data as an r x c matrix without copying it.
func NewMatrixFrom(r, c uint32, data []float64) (*Matrix, error) {
	if r == 0 || c == 0 {
		return nil, ErrBadShape
	}
	if uint64(len(data)) != uint64(r)*uint64(c) {
		return nil, ErrDataLength
	}
	return &Matrix{
		nrow: r,
		ncol: c,
		data: data,
	}, nil
}

// NewMatrixRows builds a matrix from equally sized rows, copying them.
func NewMatrixRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrBadShape
	}
	m := NewMatrix(uint32(len(rows)), uint32(len(rows[0])))
	for r, row := range rows {
		if len(row) != int(m.ncol) {
			return nil, ErrDataLength
		}
		copy(m.Row(uint32(r)), row)
	}
	return m, nil
}

// get the shape of the matrix
func (m *Matrix) Shape() (uint32, uint32) {
	return m.nrow, m.ncol
}

// SameShape reports whether o has the same number of rows and columns.
func (m *Matrix) SameShape(o *Matrix) bool {
	return m.nrow == o.nrow && m.ncol == o.ncol
}

// get the [r, c]-th element of the matrix
func (m *Matrix) Get(r, c uint32) float64 {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	return m.data[r*m.ncol+c]
}

// set val to the [r, c]-th element of the matrix
func (m *Matrix) Set(r, c uint32, val float64) {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	m.data[r*m.ncol+c] = val
}

// Row returns the r-th row as a view into the matrix storage, writes
// through the returned slice are visible in the matrix.
func (m *Matrix) Row(r uint32) []float64 {
	if r >= m.nrow {
		panic(ErrIndexOutOfRange)
	}
	return m.data[r*m.ncol : (r+1)*m.ncol]
}

// RawData exposes the row major storage.
func (m *Matrix) RawData() []float64 {
	return m.data
}

// NonZero counts the elements that are not exactly zero.
func (m *Matrix) NonZero() int {
	n := 0
	for _, v := range m.data {
		if v != 0 {
			n += 1
		}
	}
	return n
}
