// Package strtable encodes identifiers as fixed-width, NUL-padded byte
// tables so string ids survive in a purely numeric container.
//
// A table has one row per id, in canonical index order, and as many columns
// as the longest id has bytes. Row r holds the bytes of the id at canonical
// index r followed by NUL bytes up to the table width.
package strtable

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/net2mat/pkg/canonical"
)

// Table is a rows × cols byte grid stored column-major, the layout
// MAT-files use for char arrays.
type Table struct {
	rows, cols int
	data       []byte
}

// Encode builds the identifier table for idx. Rows follow the order idx
// already established; Encode never re-sorts.
func Encode(idx canonical.Index) *Table {
	t := &Table{
		rows: idx.Len(),
		cols: idx.MaxLen(),
	}
	t.data = make([]byte, t.rows*t.cols)
	for r, id := range idx.IDs() {
		for k := range t.cols {
			if k < len(id) {
				t.data[k*t.rows+r] = id[k]
			}
		}
	}
	return t
}

// Rows returns the number of ids.
func (t *Table) Rows() int { return t.rows }

// Cols returns the table width, the byte length of the longest id.
func (t *Table) Cols() int { return t.cols }

// Data returns the column-major backing buffer. The caller must not modify it.
func (t *Table) Data() []byte { return t.data }

// Row returns the id stored in row r with trailing NUL padding removed.
// It panics if r is out of range.
func (t *Table) Row(r int) string {
	if r < 0 || r >= t.rows {
		panic(fmt.Sprintf("strtable: row %d out of range [0,%d)", r, t.rows))
	}
	row := make([]byte, t.cols)
	for k := range t.cols {
		row[k] = t.data[k*t.rows+r]
	}
	return string(bytes.TrimRight(row, "\x00"))
}

// Decode returns all rows of a column-major rows × cols byte grid, trailing
// NULs stripped. It is the inverse of Encode for ids without NUL bytes.
func Decode(data []byte, rows, cols int) ([]string, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("strtable: %d bytes do not form a %dx%d table", len(data), rows, cols)
	}
	t := &Table{rows: rows, cols: cols, data: data}
	out := make([]string, rows)
	for r := range rows {
		out[r] = t.Row(r)
	}
	return out, nil
}
