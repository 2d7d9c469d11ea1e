package automl

import (
	"github.com/go-automl/automl/errors"
)

// FeatureType classifies a column as Binary, Categorical or Numerical.
// Every column is assigned exactly one FeatureType, either loaded from a
// _feat.type sidecar file or inferred once from the column contents.
// The assignment routes preprocessing decisions: encoding applies to
// Binary/Categorical columns, normalization to Numerical ones.
type FeatureType string

const (
	// Binary indicates a column with exactly two distinct values
	Binary FeatureType = "Binary"
	// Categorical indicates a string-valued column, or a column whose
	// distinct values form a dense integer run of category identifiers
	Categorical FeatureType = "Categorical"
	// Numerical indicates a continuous numeric column
	Numerical FeatureType = "Numerical"
)

// ParseFeatureType translates a _feat.type token into a FeatureType
func ParseFeatureType(token string) (FeatureType, error) {
	switch FeatureType(token) {
	case Binary:
		return Binary, nil
	case Categorical:
		return Categorical, nil
	case Numerical:
		return Numerical, nil
	default:
		return "", errors.UnknownFeatureTypeError{Token: token}
	}
}
