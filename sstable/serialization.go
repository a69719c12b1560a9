package sstable

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"

	"github.com/bobonovski/gomcl/matrix"
)

// Serialize writes m to fn. The first line holds the matrix shape as
// "rows,cols" and every following line one nonzero element as
// "row,col,value". Gradient buffers are mostly zero, so only nonzero
// values are written.
func Serialize(m *matrix.Matrix, fn string) error {
	out, err := os.OpenFile(fn, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)

	r, c := m.Shape()
	// write the matrix shape
	fmt.Fprintf(w, "%d,%d\n", r, c)

	var val float64
	for ridx := uint32(0); ridx < r; ridx += 1 {
		for cidx := uint32(0); cidx < c; cidx += 1 {
			val = m.Get(ridx, cidx)
			if val != 0 { // only write out nonzero value
				fmt.Fprintf(w, "%d,%d,%s\n", ridx, cidx,
					strconv.FormatFloat(val, 'g', -1, 64))
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return out.Close()
}

// Deserialize reads a matrix written by Serialize.
func Deserialize(fn string) (*matrix.Matrix, error) {
	file, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lineIdx := 0
	var tmp *matrix.Matrix

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		txt := scanner.Text()
		if lineIdx == 0 {
			shape := strings.Split(txt, ",")
			if len(shape) != 2 {
				return nil, fmt.Errorf("matrix corrupted, shape not found: %s", txt)
			}
			row, err := strconv.ParseUint(shape[0], 10, 32)
			if err != nil {
				return nil, err
			}
			col, err := strconv.ParseUint(shape[1], 10, 32)
			if err != nil {
				return nil, err
			}
			if row == 0 || col == 0 {
				return nil, fmt.Errorf("matrix corrupted, bad shape: %s", txt)
			}
			tmp = matrix.NewMatrix(uint32(row), uint32(col))
			lineIdx += 1
			continue
		}

		value := strings.Split(txt, ",")
		if len(value) != 3 {
			log.Warningf("data corrupted, row %d, data %s",
				lineIdx, txt)
			lineIdx += 1
			continue
		}
		ridx, err := strconv.ParseUint(value[0], 10, 32)
		if err != nil {
			return nil, err
		}
		cidx, err := strconv.ParseUint(value[1], 10, 32)
		if err != nil {
			return nil, err
		}
		val, err := strconv.ParseFloat(value[2], 64)
		if err != nil {
			return nil, err
		}
		r, c := tmp.Shape()
		if uint32(ridx) >= r || uint32(cidx) >= c {
			return nil, fmt.Errorf("matrix corrupted, index (%d, %d) outside %dx%d",
				ridx, cidx, r, c)
		}
		tmp.Set(uint32(ridx), uint32(cidx), val)

		lineIdx += 1
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if tmp == nil {
		return nil, fmt.Errorf("matrix corrupted, empty file: %s", fn)
	}

	return tmp, nil
}

// SerializeVector writes v as a matrix with a single column.
func SerializeVector(v []float64, fn string) error {
	m, err := matrix.NewMatrixFrom(uint32(len(v)), 1, v)
	if err != nil {
		return err
	}
	return Serialize(m, fn)
}

// DeserializeVector reads a single column matrix written by SerializeVector.
func DeserializeVector(fn string) ([]float64, error) {
	m, err := Deserialize(fn)
	if err != nil {
		return nil, err
	}
	if _, c := m.Shape(); c != 1 {
		return nil, fmt.Errorf("vector expected, got %d columns", c)
	}
	return m.RawData(), nil
}
