package preprocess

import (
	"math"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/schema"
	"github.com/go-automl/automl/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NormalizerParams is the immutable result of fitting a normalization policy
// on the train partition: per Numerical column, a shift and a scale computed
// once from train data and reused verbatim on test.
type NormalizerParams struct {
	policy automl.NormalizationPolicy
	cols   []colNormalizer
}

type colNormalizer struct {
	name  string
	shift float64
	scale float64
}

// FitNormalizer learns (mean, std) or (min, max-min) pairs for every
// Numerical column of the schema from the train rows of t. A zero-variance or
// zero-range column receives scale 1, so normalizing it yields an all-zero
// column instead of dividing by zero.
func FitNormalizer(policy automl.NormalizationPolicy, t *table.Table, sch *schema.Schema, trainRows []int) (*NormalizerParams, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	params := &NormalizerParams{policy: policy}
	if policy.IsNoOp() {
		return params, nil
	}
	for _, name := range sch.OfType(automl.Numerical) {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		var values []float64
		for _, r := range trainRows {
			if !col.IsMissing(r) && !math.IsInf(col.Values[r], 0) {
				values = append(values, col.Values[r])
			}
		}
		if len(values) == 0 {
			continue
		}
		norm := colNormalizer{name: name, scale: 1}
		switch policy {
		case automl.StandardNormalization:
			norm.shift = stat.Mean(values, nil)
			if sd := stat.StdDev(values, nil); sd > 0 && !math.IsNaN(sd) {
				norm.scale = sd
			}
		case automl.MinMaxNormalization:
			norm.shift = floats.Min(values)
			if rng := floats.Max(values) - norm.shift; rng > 0 {
				norm.scale = rng
			}
		}
		params.cols = append(params.cols, norm)
	}
	return params, nil
}

// Apply rescales the Numerical columns of t in place at the given rows using
// only the shift and scale learned during fitting
func (p *NormalizerParams) Apply(t *table.Table, rows []int) error {
	for _, norm := range p.cols {
		col, err := t.Column(norm.name)
		if err != nil {
			return err
		}
		for _, r := range rows {
			if col.IsMissing(r) {
				continue
			}
			col.Values[r] = (col.Values[r] - norm.shift) / norm.scale
		}
	}
	return nil
}
