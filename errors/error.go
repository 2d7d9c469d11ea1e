package errors

import (
	"fmt"
)

// MissingFileError occurs when a required dataset file is absent. Missing
// optional sidecar files never produce this error; they degrade to inference.
type MissingFileError struct{ Path string }

// Error returns a textual representation of this MissingFileError
func (e MissingFileError) Error() string {
	return fmt.Sprintf("Required file %s does not exist", e.Path)
}

// InvalidSubsetError occurs when a subset key is not part of the subset-addressing scheme
type InvalidSubsetError struct{ Key string }

// Error returns a textual representation of this InvalidSubsetError
func (e InvalidSubsetError) Error() string {
	return fmt.Sprintf("Subset %q does not exist", e.Key)
}

// UnknownPolicyError occurs when a preprocessing stage is configured with an
// unrecognized policy name
type UnknownPolicyError struct {
	Stage  string
	Policy string
}

// Error returns a textual representation of this UnknownPolicyError
func (e UnknownPolicyError) Error() string {
	return fmt.Sprintf("Policy %q is not supported for %s", e.Policy, e.Stage)
}

// UnknownFeatureTypeError occurs when a _feat.type token is not one of
// Binary, Categorical or Numerical
type UnknownFeatureTypeError struct{ Token string }

// Error returns a textual representation of this UnknownFeatureTypeError
func (e UnknownFeatureTypeError) Error() string {
	return fmt.Sprintf("Feature type %q is not one of Binary, Categorical, Numerical", e.Token)
}

// DimensionMismatchError occurs when two things which must agree in size do
// not, e.g. when train and test tables disagree in column count after load
type DimensionMismatchError struct {
	Subject  string
	Expected int
	Actual   int
}

// Error returns a textual representation of this DimensionMismatchError
func (e DimensionMismatchError) Error() string {
	return fmt.Sprintf("Dimension mismatch for %s: expected %d but found %d", e.Subject, e.Expected, e.Actual)
}

// FeatureCountMismatchError occurs when two compared datasets do not carry
// the same number of feature columns
type FeatureCountMismatchError struct {
	Left  int
	Right int
}

// Error returns a textual representation of this FeatureCountMismatchError
func (e FeatureCountMismatchError) Error() string {
	return fmt.Sprintf("Datasets don't have the same features number, %d != %d", e.Left, e.Right)
}

// MissingColumnError occurs when a Table does not contain a requested column
type MissingColumnError struct{ Name string }

// Error returns a textual representation of this MissingColumnError
func (e MissingColumnError) Error() string {
	return fmt.Sprintf("Table does not contain column with name %s", e.Name)
}

// DuplicateColumnError occurs when a column is added to a Table which already
// contains a column with the same name
type DuplicateColumnError struct{ Name string }

// Error returns a textual representation of this DuplicateColumnError
func (e DuplicateColumnError) Error() string {
	return fmt.Sprintf("Table already contains column with name %s", e.Name)
}

// LabelsRequiredError occurs when a preprocessing policy which needs label
// access, such as likelihood encoding, is applied to a dataset without
// numeric labels
type LabelsRequiredError struct{ Policy string }

// Error returns a textual representation of this LabelsRequiredError
func (e LabelsRequiredError) Error() string {
	return fmt.Sprintf("Policy %q requires a dataset with numeric labels", e.Policy)
}
