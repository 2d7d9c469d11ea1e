// Package schema assigns feature types to the columns of a table, either
// loaded from a _feat.type sidecar file or inferred from column contents.
package schema

import (
	"math"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/errors"
	"github.com/go-automl/automl/table"
)

// Schema is a mapping from feature-column names to FeatureTypes. Every column
// has exactly one type, assigned once at construction.
type Schema struct {
	names []string
	types map[string]automl.FeatureType
}

// Create builds a Schema from parallel name and type slices
func Create(names []string, types []automl.FeatureType) (*Schema, error) {
	if len(names) != len(types) {
		return nil, errors.DimensionMismatchError{Subject: "feature types", Expected: len(names), Actual: len(types)}
	}
	s := &Schema{names: append([]string{}, names...), types: make(map[string]automl.FeatureType, len(names))}
	for i, name := range names {
		if _, ok := s.types[name]; ok {
			return nil, errors.DuplicateColumnError{Name: name}
		}
		s.types[name] = types[i]
	}
	return s, nil
}

// Infer builds a Schema by classifying each named column of a Table.
// Inference is deterministic: re-running it over an unchanged table yields
// the same assignment.
func Infer(t *table.Table, names []string) (*Schema, error) {
	types := make([]automl.FeatureType, len(names))
	for i, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		types[i] = InferType(col)
	}
	return Create(names, types)
}

// NumFeatures returns the number of columns covered by this Schema
func (s *Schema) NumFeatures() int {
	return len(s.names)
}

// Names returns the column names covered by this Schema, in column order
func (s *Schema) Names() []string {
	return append([]string{}, s.names...)
}

// Type returns the FeatureType assigned to the named column
func (s *Schema) Type(name string) (automl.FeatureType, error) {
	t, ok := s.types[name]
	if !ok {
		return "", errors.MissingColumnError{Name: name}
	}
	return t, nil
}

// Types returns the FeatureTypes of this Schema, in column order
func (s *Schema) Types() []automl.FeatureType {
	types := make([]automl.FeatureType, len(s.names))
	for i, name := range s.names {
		types[i] = s.types[name]
	}
	return types
}

// OfType returns the names of all columns with the given FeatureType, in
// column order
func (s *Schema) OfType(t automl.FeatureType) []string {
	var names []string
	for _, name := range s.names {
		if s.types[name] == t {
			names = append(names, name)
		}
	}
	return names
}

// Replace substitutes one column with one or more replacement columns of a
// single type at the same position. Used when one-hot encoding expands a
// column into its indicators.
func (s *Schema) Replace(name string, replacements []string, t automl.FeatureType) error {
	idx := -1
	for i, n := range s.names {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.MissingColumnError{Name: name}
	}
	names := make([]string, 0, len(s.names)-1+len(replacements))
	names = append(names, s.names[:idx]...)
	names = append(names, replacements...)
	names = append(names, s.names[idx+1:]...)
	delete(s.types, name)
	for _, repl := range replacements {
		s.types[repl] = t
	}
	s.names = names
	return nil
}

// Clone returns a copy of this Schema
func (s *Schema) Clone() *Schema {
	clone := &Schema{names: append([]string{}, s.names...), types: make(map[string]automl.FeatureType, len(s.types))}
	for k, v := range s.types {
		clone.types[k] = v
	}
	return clone
}

// Equals returns true iff this and another Schema cover the same columns in
// the same order with the same types
func (s *Schema) Equals(other *Schema) bool {
	if len(s.names) != len(other.names) {
		return false
	}
	for i, name := range s.names {
		if other.names[i] != name || other.types[name] != s.types[name] {
			return false
		}
	}
	return true
}

// InferType classifies a single column as Binary, Categorical or Numerical.
// A column with exactly two distinct values is Binary. A string-valued
// column, or one whose distinct values form a dense 0- or 1-based integer run
// (detected by a triangular-number sum check), is Categorical. Everything
// else degrades to Numerical. Missing cells are ignored throughout.
func InferType(col *table.Column) automl.FeatureType {
	distinct := make(map[string]bool)
	sum := math.Inf(-1)
	if !col.IsText() {
		sum = 0
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		distinct[col.CellString(i)] = true
		if !col.IsText() {
			sum += col.Values[i]
		}
	}
	n := float64(len(distinct))
	switch {
	case len(distinct) == 2:
		return automl.Binary
	case col.IsText():
		return automl.Categorical
	case len(distinct) > 2 && (sum == n*(n-1)/2 || sum == n*(n+1)/2):
		// the column sums to the triangular number of its cardinality,
		// suggesting a single dense run of category identifiers starting at 0 or 1
		return automl.Categorical
	default:
		return automl.Numerical
	}
}
