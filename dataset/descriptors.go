package dataset

import (
	"math"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/table"
	"gonum.org/v1/gonum/stat"
)

// Descriptors are derived scalar statistics of a dataset, computed on demand
// and never persisted. Computing them is read-only: it never mutates the raw
// or processed tables.
type Descriptors struct {
	// Ratio is the feature count over the train instance count
	Ratio float64
	// SymbRatio is the share of Numerical columns among the features
	SymbRatio float64
	// ClassDeviation is the mean of the per-label-column standard deviations;
	// NaN for datasets without labels
	ClassDeviation float64
	// MissingProba is the mean fraction of missing cells across feature columns
	MissingProba float64
	// SkewnessMin, SkewnessMax and SkewnessMean summarize the per-column
	// sample skewness of the features
	SkewnessMin  float64
	SkewnessMax  float64
	SkewnessMean float64
}

// Descriptors computes descriptive statistics over the feature columns, from
// the processed table when processed is true and from the raw table otherwise
func (ds *Dataset) Descriptors(processed bool) (*Descriptors, error) {
	x, err := ds.GetData("X", processed)
	if err != nil {
		return nil, err
	}

	d := &Descriptors{
		Ratio:          ds.info.Ratio(),
		ClassDeviation: math.NaN(),
	}

	types := ds.baseSchema.Types()
	numerical := 0
	for _, t := range types {
		if t == automl.Numerical {
			numerical++
		}
	}
	if len(types) > 0 {
		d.SymbRatio = float64(numerical) / float64(len(types))
	}

	if ds.baseIndex.HasLabels() {
		y, err := ds.GetData("y", processed)
		if err != nil {
			return nil, err
		}
		var deviations []float64
		for _, name := range y.ColumnNames() {
			col, err := y.Column(name)
			if err != nil {
				return nil, err
			}
			if values := presentValues(col); len(values) > 1 {
				deviations = append(deviations, stat.StdDev(values, nil))
			}
		}
		if len(deviations) > 0 {
			d.ClassDeviation = stat.Mean(deviations, nil)
		}
	}

	var missing, skews []float64
	for _, name := range x.ColumnNames() {
		col, err := x.Column(name)
		if err != nil {
			return nil, err
		}
		absent := 0
		for i := 0; i < col.Len(); i++ {
			if col.IsMissing(i) {
				absent++
			}
		}
		if col.Len() > 0 {
			missing = append(missing, float64(absent)/float64(col.Len()))
		}
		if values := presentValues(col); len(values) > 2 {
			if skew := stat.Skew(values, nil); !math.IsNaN(skew) {
				skews = append(skews, skew)
			}
		}
	}
	if len(missing) > 0 {
		d.MissingProba = stat.Mean(missing, nil)
	}
	d.SkewnessMin, d.SkewnessMax, d.SkewnessMean = math.NaN(), math.NaN(), math.NaN()
	if len(skews) > 0 {
		d.SkewnessMin = skews[0]
		d.SkewnessMax = skews[0]
		for _, s := range skews {
			d.SkewnessMin = math.Min(d.SkewnessMin, s)
			d.SkewnessMax = math.Max(d.SkewnessMax, s)
		}
		d.SkewnessMean = stat.Mean(skews, nil)
	}
	return d, nil
}

// Fields returns the descriptors as a named map, used for descriptor-distance
// computation between two datasets
func (d *Descriptors) Fields() map[string]float64 {
	return map[string]float64{
		"ratio":           d.Ratio,
		"symb_ratio":      d.SymbRatio,
		"class_deviation": d.ClassDeviation,
		"missing_proba":   d.MissingProba,
		"skewness_min":    d.SkewnessMin,
		"skewness_max":    d.SkewnessMax,
		"skewness_mean":   d.SkewnessMean,
	}
}

// presentValues collects the non-missing numeric cells of a column. Text
// columns yield nothing.
func presentValues(col *table.Column) []float64 {
	if col.IsText() {
		return nil
	}
	var values []float64
	for i, v := range col.Values {
		if !col.IsMissing(i) {
			values = append(values, v)
		}
	}
	return values
}
