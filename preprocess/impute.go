package preprocess

import (
	"math"
	"sort"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/go-automl/automl/schema"
)

// Imputation configures one ImputationPolicy per feature-type class. Each
// class is independently configurable.
type Imputation struct {
	Binary      automl.ImputationPolicy
	Categorical automl.ImputationPolicy
	Numerical   automl.ImputationPolicy
}

// Validate checks every per-class policy name
func (im Imputation) Validate() error {
	for _, p := range []automl.ImputationPolicy{im.Binary, im.Categorical, im.Numerical} {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// policyFor routes a column to its per-class policy
func (im Imputation) policyFor(t automl.FeatureType) automl.ImputationPolicy {
	switch t {
	case automl.Binary:
		return im.Binary
	case automl.Categorical:
		return im.Categorical
	default:
		return im.Numerical
	}
}

// ImputerParams is the immutable result of fitting imputation policies on the
// train partition: per column, the replacement values for infinities and the
// fill statistic, all computed from train data only.
type ImputerParams struct {
	cols []colImputer
}

type colImputer struct {
	name   string
	remove bool
	// fill replaces missing cells; NaN when the column had no usable train
	// values, in which case missing cells are left untouched
	fill float64
	// posInf and negInf replace +Inf and -Inf cells: the train maximum and
	// minimum over finite values, applied before the fill statistic is computed
	posInf    float64
	negInf    float64
	hasFinite bool
}

// FitImputer learns imputation parameters for every feature column of the
// schema from the train rows of t. Infinite train values are replaced by the
// train finite maximum/minimum before the fill statistic is computed.
func FitImputer(im Imputation, t *table.Table, sch *schema.Schema, trainRows []int) (*ImputerParams, error) {
	if err := im.Validate(); err != nil {
		return nil, err
	}
	params := &ImputerParams{}
	for _, name := range sch.Names() {
		ft, err := sch.Type(name)
		if err != nil {
			return nil, err
		}
		policy := im.policyFor(ft)
		if policy.IsNoOp() {
			continue
		}
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		imp := colImputer{name: name, fill: math.NaN()}
		if policy == automl.ImputeRemove {
			imp.remove = true
			params.cols = append(params.cols, imp)
			continue
		}
		var finite []float64
		posInfs, negInfs := 0, 0
		for _, r := range trainRows {
			if col.IsMissing(r) || col.IsText() {
				continue
			}
			switch v := col.Values[r]; {
			case math.IsInf(v, 1):
				posInfs++
			case math.IsInf(v, -1):
				negInfs++
			default:
				finite = append(finite, v)
			}
		}
		if len(finite) == 0 {
			// nothing learnable from train; leave the column untouched
			params.cols = append(params.cols, imp)
			continue
		}
		imp.hasFinite = true
		imp.posInf = floats.Max(finite)
		imp.negInf = floats.Min(finite)
		// statistic over train values after infinity replacement
		values := append([]float64{}, finite...)
		for i := 0; i < posInfs; i++ {
			values = append(values, imp.posInf)
		}
		for i := 0; i < negInfs; i++ {
			values = append(values, imp.negInf)
		}
		switch policy {
		case automl.ImputeMean:
			imp.fill = stat.Mean(values, nil)
		case automl.ImputeMedian:
			imp.fill = median(values)
		case automl.ImputeMostFrequent:
			imp.fill = mostFrequent(values)
		}
		params.cols = append(params.cols, imp)
	}
	return params, nil
}

// Apply rewrites missing and infinite cells of t in place at the given rows
// using the fitted parameters. It returns the set of rows dropped by columns
// under the remove policy; the caller is responsible for propagating the drop
// to its subset index.
func (p *ImputerParams) Apply(t *table.Table, rows []int) (map[int]bool, error) {
	dropped := make(map[int]bool)
	for _, imp := range p.cols {
		col, err := t.Column(imp.name)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			if imp.remove {
				if col.IsMissing(r) {
					dropped[r] = true
				}
				continue
			}
			if col.IsText() {
				continue
			}
			v := col.Values[r]
			switch {
			case imp.hasFinite && math.IsInf(v, 1):
				col.Values[r] = imp.posInf
			case imp.hasFinite && math.IsInf(v, -1):
				col.Values[r] = imp.negInf
			case math.IsNaN(v) && !math.IsNaN(imp.fill):
				col.Values[r] = imp.fill
			}
		}
	}
	return dropped, nil
}

// median returns the midpoint median of values, averaging the two central
// elements for even counts
func median(values []float64) float64 {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mostFrequent returns the mode of values, breaking ties toward the smaller
// value for determinism
func mostFrequent(values []float64) float64 {
	counts := make(map[float64]int)
	for _, v := range values {
		counts[v]++
	}
	best := math.NaN()
	bestCount := 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best
}
