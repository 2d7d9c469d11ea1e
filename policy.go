package automl

import (
	"github.com/go-automl/automl/errors"
)

// EncodingPolicy selects how Binary and Categorical columns are translated
// into numeric values. The mapping is always fit on the train partition and
// reused verbatim on the test partition.
type EncodingPolicy string

const (
	// LabelEncoding maps each distinct train value to a dense integer 0..k-1.
	// Values unseen during fitting map to the reserved code k.
	LabelEncoding EncodingPolicy = "label"
	// OneHotEncoding expands a column into k indicator columns, ordered by
	// first appearance in the train partition
	OneHotEncoding EncodingPolicy = "one-hot"
	// LikelihoodEncoding replaces each category with the train-partition mean
	// of the target for that category. Requires label columns.
	LikelihoodEncoding EncodingPolicy = "likelihood"
	// NoEncoding leaves Binary and Categorical columns untouched
	NoEncoding EncodingPolicy = "none"
)

// Validate returns an UnknownPolicyError iff this EncodingPolicy is not
// recognized. The empty policy is equivalent to NoEncoding.
func (p EncodingPolicy) Validate() error {
	switch p {
	case LabelEncoding, OneHotEncoding, LikelihoodEncoding, NoEncoding, "":
		return nil
	default:
		return errors.UnknownPolicyError{Stage: "encoding", Policy: string(p)}
	}
}

// IsNoOp returns true iff this EncodingPolicy performs no work
func (p EncodingPolicy) IsNoOp() bool {
	return p == NoEncoding || p == ""
}

// ImputationPolicy selects how missing values are filled in. Fill statistics
// are computed over non-missing train values only.
type ImputationPolicy string

const (
	// ImputeRemove drops rows containing a missing value in the column
	ImputeRemove ImputationPolicy = "remove"
	// ImputeMean fills missing values with the train-partition mean
	ImputeMean ImputationPolicy = "mean"
	// ImputeMedian fills missing values with the train-partition median
	ImputeMedian ImputationPolicy = "median"
	// ImputeMostFrequent fills missing values with the train-partition mode
	ImputeMostFrequent ImputationPolicy = "most"
	// ImputeNone leaves missing values untouched
	ImputeNone ImputationPolicy = "none"
)

// Validate returns an UnknownPolicyError iff this ImputationPolicy is not
// recognized. The empty policy is equivalent to ImputeNone.
func (p ImputationPolicy) Validate() error {
	switch p {
	case ImputeRemove, ImputeMean, ImputeMedian, ImputeMostFrequent, ImputeNone, "":
		return nil
	default:
		return errors.UnknownPolicyError{Stage: "imputation", Policy: string(p)}
	}
}

// IsNoOp returns true iff this ImputationPolicy performs no work
func (p ImputationPolicy) IsNoOp() bool {
	return p == ImputeNone || p == ""
}

// NormalizationPolicy selects how Numerical columns are rescaled. Scaling
// parameters are computed once on the train partition and reused on test.
type NormalizationPolicy string

const (
	// StandardNormalization subtracts the train mean and divides by the train
	// standard deviation
	StandardNormalization NormalizationPolicy = "standard"
	// MinMaxNormalization subtracts the train minimum and divides by the train
	// range
	MinMaxNormalization NormalizationPolicy = "min-max"
	// NoNormalization leaves Numerical columns untouched
	NoNormalization NormalizationPolicy = "none"
)

// Validate returns an UnknownPolicyError iff this NormalizationPolicy is not
// recognized. The empty policy is equivalent to NoNormalization.
func (p NormalizationPolicy) Validate() error {
	switch p {
	case StandardNormalization, MinMaxNormalization, NoNormalization, "":
		return nil
	default:
		return errors.UnknownPolicyError{Stage: "normalization", Policy: string(p)}
	}
}

// IsNoOp returns true iff this NormalizationPolicy performs no work
func (p NormalizationPolicy) IsNoOp() bool {
	return p == NoNormalization || p == ""
}
