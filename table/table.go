// Package table implements the in-memory tabular representation shared by the
// raw and processed copies of a dataset: an ordered sequence of named columns
// aligned by row index.
package table

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-automl/automl/errors"
)

// Table is an ordered sequence of named columns, each an ordered sequence of
// values aligned by row index. Row identity is positional: two Tables derived
// from the same source share row indices.
type Table struct {
	cols    []*Column
	offsets map[string]int
	rows    int
}

// Create builds a Table from columns, which must be uniquely named and of
// equal length
func Create(cols ...*Column) (*Table, error) {
	t := &Table{offsets: make(map[string]int)}
	for _, col := range cols {
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NumRows returns the number of rows in this Table
func (t *Table) NumRows() int {
	return t.rows
}

// NumColumns returns the number of columns in this Table
func (t *Table) NumColumns() int {
	return len(t.cols)
}

// ColumnNames returns the names of the columns in this Table, in column order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.Name
	}
	return names
}

// HasColumn returns true iff this Table contains a column with the given name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.offsets[name]
	return ok
}

// Column returns the column with the given name
func (t *Table) Column(name string) (*Column, error) {
	idx, ok := t.offsets[name]
	if !ok {
		return nil, errors.MissingColumnError{Name: name}
	}
	return t.cols[idx], nil
}

// AddColumn appends a column to this Table. The first column added fixes the
// row count; subsequent columns must match it.
func (t *Table) AddColumn(col *Column) error {
	if _, ok := t.offsets[col.Name]; ok {
		return errors.DuplicateColumnError{Name: col.Name}
	}
	if len(t.cols) > 0 && col.Len() != t.rows {
		return errors.DimensionMismatchError{Subject: "column " + col.Name, Expected: t.rows, Actual: col.Len()}
	}
	t.rows = col.Len()
	t.offsets[col.Name] = len(t.cols)
	t.cols = append(t.cols, col)
	return nil
}

// ReplaceColumn substitutes one column with one or more replacement columns
// at the same position, preserving the order of the surrounding columns.
// Used by one-hot encoding to expand a column into its indicators.
func (t *Table) ReplaceColumn(name string, replacements ...*Column) error {
	idx, ok := t.offsets[name]
	if !ok {
		return errors.MissingColumnError{Name: name}
	}
	for _, repl := range replacements {
		if repl.Len() != t.rows {
			return errors.DimensionMismatchError{Subject: "column " + repl.Name, Expected: t.rows, Actual: repl.Len()}
		}
		if other, ok := t.offsets[repl.Name]; ok && other != idx {
			return errors.DuplicateColumnError{Name: repl.Name}
		}
	}
	cols := make([]*Column, 0, len(t.cols)-1+len(replacements))
	cols = append(cols, t.cols[:idx]...)
	cols = append(cols, replacements...)
	cols = append(cols, t.cols[idx+1:]...)
	t.cols = cols
	t.offsets = make(map[string]int, len(cols))
	for i, col := range cols {
		t.offsets[col.Name] = i
	}
	return nil
}

// Select copies the intersection of the given rows and columns into a new
// Table. Row order follows the rows argument, column order the cols argument.
func (t *Table) Select(rows []int, cols []string) (*Table, error) {
	out := &Table{offsets: make(map[string]int)}
	for _, name := range cols {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		sel := &Column{Name: name}
		if col.IsText() {
			sel.Text = make([]string, len(rows))
			for i, r := range rows {
				sel.Text[i] = col.Text[r]
			}
		} else {
			sel.Values = make([]float64, len(rows))
			for i, r := range rows {
				sel.Values[i] = col.Values[r]
			}
		}
		if err := out.AddColumn(sel); err != nil {
			return nil, err
		}
	}
	if len(cols) == 0 {
		out.rows = len(rows)
	}
	return out, nil
}

// SetValues writes the cells of values back into this Table at the
// intersection of the given rows and columns. The shape of values must match.
func (t *Table) SetValues(rows []int, cols []string, values *Table) error {
	if values.NumRows() != len(rows) {
		return errors.DimensionMismatchError{Subject: "rows", Expected: len(rows), Actual: values.NumRows()}
	}
	if values.NumColumns() != len(cols) {
		return errors.DimensionMismatchError{Subject: "columns", Expected: len(cols), Actual: values.NumColumns()}
	}
	for i, name := range cols {
		dst, err := t.Column(name)
		if err != nil {
			return err
		}
		src := values.cols[i]
		if dst.IsText() != src.IsText() {
			return errors.DimensionMismatchError{Subject: "column " + name + " representation", Expected: dst.Len(), Actual: src.Len()}
		}
		for j, r := range rows {
			if dst.IsText() {
				dst.Text[r] = src.Text[j]
			} else {
				dst.Values[r] = src.Values[j]
			}
		}
	}
	return nil
}

// Clone returns a deep copy of this Table
func (t *Table) Clone() *Table {
	clone := &Table{offsets: make(map[string]int, len(t.cols)), rows: t.rows}
	for _, col := range t.cols {
		clone.offsets[col.Name] = len(clone.cols)
		clone.cols = append(clone.cols, col.Clone())
	}
	return clone
}

// Equals returns true iff this and another Table hold bitwise-identical data
// in the same column order. Missing cells compare equal to missing cells.
func (t *Table) Equals(other *Table) bool {
	if other == nil || t.rows != other.rows || len(t.cols) != len(other.cols) {
		return false
	}
	for i, col := range t.cols {
		if !col.equals(other.cols[i]) {
			return false
		}
	}
	return true
}

// Fingerprint produces a 64-bit hash of the names and cells of this Table,
// used to detect whether two tables hold identical data without a cell-by-cell
// comparison
func (t *Table) Fingerprint() uint64 {
	hasher := xxhash.New()
	var buf [8]byte
	for _, col := range t.cols {
		_, _ = hasher.WriteString(col.Name)
		if col.IsText() {
			for _, v := range col.Text {
				_, _ = hasher.WriteString(v)
				_, _ = hasher.Write([]byte{0})
			}
			continue
		}
		for _, v := range col.Values {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = hasher.Write(buf[:])
		}
	}
	return hasher.Sum64()
}
