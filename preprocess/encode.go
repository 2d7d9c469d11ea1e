package preprocess

import (
	"math"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/errors"
	"github.com/go-automl/automl/schema"
	"github.com/go-automl/automl/table"
)

// EncoderParams is the immutable result of fitting an encoding policy on the
// train partition. Applying it replays the learned mapping verbatim on any
// rows, never recomputing statistics from the data it is applied to.
type EncoderParams struct {
	policy automl.EncodingPolicy
	cols   []colEncoder
}

type colEncoder struct {
	name string
	// categories in order of first appearance in the train partition
	categories []string
	codes      map[string]int
	// per-category train mean of the target, for likelihood encoding
	likelihoods map[string]float64
	// value assigned to categories unseen during fitting: the reserved code k
	// for label encoding, the global train target mean for likelihood
	fallback float64
}

// FitEncoder learns encoding parameters for every Binary and Categorical
// column of the schema from the train rows of t. The target column is only
// consulted for likelihood encoding and may otherwise be nil. Missing cells
// are not encoded; they stay missing for the imputation stage.
func FitEncoder(policy automl.EncodingPolicy, t *table.Table, sch *schema.Schema, trainRows []int, target *table.Column) (*EncoderParams, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	params := &EncoderParams{policy: policy}
	if policy.IsNoOp() {
		return params, nil
	}
	if policy == automl.LikelihoodEncoding && (target == nil || target.IsText()) {
		return nil, errors.LabelsRequiredError{Policy: string(policy)}
	}
	for _, name := range sch.Names() {
		ft, err := sch.Type(name)
		if err != nil {
			return nil, err
		}
		if ft == automl.Numerical {
			continue
		}
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		enc := colEncoder{name: name, codes: make(map[string]int)}
		sums := make(map[string]float64)
		counts := make(map[string]float64)
		var targetSum, targetCount float64
		for _, r := range trainRows {
			if col.IsMissing(r) {
				continue
			}
			cell := col.CellString(r)
			if _, seen := enc.codes[cell]; !seen {
				enc.codes[cell] = len(enc.categories)
				enc.categories = append(enc.categories, cell)
			}
			if policy == automl.LikelihoodEncoding && !target.IsMissing(r) {
				sums[cell] += target.Values[r]
				counts[cell]++
				targetSum += target.Values[r]
				targetCount++
			}
		}
		switch policy {
		case automl.LabelEncoding:
			enc.fallback = float64(len(enc.categories))
		case automl.LikelihoodEncoding:
			enc.likelihoods = make(map[string]float64, len(enc.categories))
			for cell, sum := range sums {
				enc.likelihoods[cell] = sum / counts[cell]
			}
			if targetCount > 0 {
				enc.fallback = targetSum / targetCount
			}
		}
		params.cols = append(params.cols, enc)
	}
	return params, nil
}

// Apply rewrites the encoded columns of t in place at the given rows, using
// only the parameters learned during fitting. Cells outside rows, and cells
// holding categories unseen during fitting, receive the fallback treatment
// documented on EncoderParams. Text-backed columns become numeric. The schema
// is updated in step when one-hot encoding expands columns.
func (p *EncoderParams) Apply(t *table.Table, sch *schema.Schema, rows []int) error {
	for _, enc := range p.cols {
		col, err := t.Column(enc.name)
		if err != nil {
			return err
		}
		if p.policy == automl.OneHotEncoding {
			if err := enc.applyOneHot(t, sch, col, rows); err != nil {
				return err
			}
			continue
		}
		values := missingColumn(t.NumRows())
		for _, r := range rows {
			if col.IsMissing(r) {
				continue
			}
			cell := col.CellString(r)
			switch p.policy {
			case automl.LabelEncoding:
				if code, ok := enc.codes[cell]; ok {
					values[r] = float64(code)
				} else {
					values[r] = enc.fallback
				}
			case automl.LikelihoodEncoding:
				if mean, ok := enc.likelihoods[cell]; ok {
					values[r] = mean
				} else {
					values[r] = enc.fallback
				}
			}
		}
		col.Values = values
		col.Text = nil
	}
	return nil
}

// applyOneHot expands a column into one indicator column per train category,
// named "<column>=<category>". A missing source cell yields missing
// indicators, so imputation can fill them later; an unseen category yields an
// all-zero indicator vector.
func (enc *colEncoder) applyOneHot(t *table.Table, sch *schema.Schema, col *table.Column, rows []int) error {
	indicators := make([]*table.Column, len(enc.categories))
	names := make([]string, len(enc.categories))
	for i, cat := range enc.categories {
		names[i] = enc.name + "=" + cat
		indicators[i] = table.CreateColumn(names[i], missingColumn(t.NumRows()))
	}
	for _, r := range rows {
		if col.IsMissing(r) {
			continue
		}
		code, seen := enc.codes[col.CellString(r)]
		for i := range indicators {
			indicators[i].Values[r] = 0
		}
		if seen {
			indicators[code].Values[r] = 1
		}
	}
	if err := t.ReplaceColumn(enc.name, indicators...); err != nil {
		return err
	}
	return sch.Replace(enc.name, names, automl.Binary)
}

// Decode recovers the original value for a label-encoded code, supporting
// round-trip checks. The second return is false for the reserved
// unknown-category code and for policies other than label encoding.
func (p *EncoderParams) Decode(column string, code float64) (string, bool) {
	if p.policy != automl.LabelEncoding {
		return "", false
	}
	for _, enc := range p.cols {
		if enc.name != column {
			continue
		}
		i := int(code)
		if float64(i) == code && i >= 0 && i < len(enc.categories) {
			return enc.categories[i], true
		}
	}
	return "", false
}

// Columns returns the names of the columns this EncoderParams was fit on
func (p *EncoderParams) Columns() []string {
	names := make([]string, len(p.cols))
	for i, enc := range p.cols {
		names[i] = enc.name
	}
	return names
}

func missingColumn(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}
