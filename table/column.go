package table

import (
	"math"
	"strconv"
)

// Column is a single named column of a Table. Values holds the numeric
// representation of the column, with NaN marking missing cells. Text is
// non-nil for columns whose source data could not be parsed as numbers; for
// those columns the empty string marks a missing cell and Values is unused.
type Column struct {
	Name   string
	Values []float64
	Text   []string
}

// CreateColumn builds a numeric Column from a name and values
func CreateColumn(name string, values []float64) *Column {
	return &Column{Name: name, Values: values}
}

// CreateTextColumn builds a text-backed Column from a name and values
func CreateTextColumn(name string, values []string) *Column {
	return &Column{Name: name, Text: values}
}

// Len returns the number of cells in this Column
func (c *Column) Len() int {
	if c.IsText() {
		return len(c.Text)
	}
	return len(c.Values)
}

// IsText returns true iff this Column is text-backed
func (c *Column) IsText() bool {
	return c.Text != nil
}

// IsMissing returns true iff cell i holds no value
func (c *Column) IsMissing(i int) bool {
	if c.IsText() {
		return c.Text[i] == ""
	}
	return math.IsNaN(c.Values[i])
}

// CellString produces the canonical string representation of cell i, used as
// the key of encoding maps and by the file-convention writers
func (c *Column) CellString(i int) string {
	if c.IsText() {
		return c.Text[i]
	}
	return FormatValue(c.Values[i])
}

// Clone returns a deep copy of this Column
func (c *Column) Clone() *Column {
	clone := &Column{Name: c.Name}
	if c.Values != nil {
		clone.Values = make([]float64, len(c.Values))
		copy(clone.Values, c.Values)
	}
	if c.Text != nil {
		clone.Text = make([]string, len(c.Text))
		copy(clone.Text, c.Text)
	}
	return clone
}

// equals returns true iff two Columns hold bitwise-identical data. Two NaN
// cells are considered equal, since both represent a missing value.
func (c *Column) equals(other *Column) bool {
	if c.Name != other.Name || c.IsText() != other.IsText() || c.Len() != other.Len() {
		return false
	}
	if c.IsText() {
		for i, v := range c.Text {
			if v != other.Text[i] {
				return false
			}
		}
		return true
	}
	for i, v := range c.Values {
		if math.IsNaN(v) && math.IsNaN(other.Values[i]) {
			continue
		}
		if v != other.Values[i] {
			return false
		}
	}
	return true
}

// FormatValue formats a numeric cell for canonical keys and file output.
// Missing cells format as NaN, matching the dense AutoML text convention.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
