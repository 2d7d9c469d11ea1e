package compare

import (
	"math"
	"sort"

	"github.com/go-automl/automl/table"
	"gonum.org/v1/gonum/stat"
)

// frequencyTable counts the occurrences of each distinct non-missing value in
// a column
func frequencyTable(col *table.Column) map[string]float64 {
	freq := make(map[string]float64)
	for i := 0; i < col.Len(); i++ {
		if !col.IsMissing(i) {
			freq[col.CellString(i)]++
		}
	}
	return freq
}

// alignedDistributions turns two frequency tables into probability vectors
// over the sorted union of their categories, so that divergence measures can
// compare them position by position
func alignedDistributions(f1 map[string]float64, f2 map[string]float64) (p []float64, q []float64) {
	keys := make(map[string]bool, len(f1)+len(f2))
	for k := range f1 {
		keys[k] = true
	}
	for k := range f2 {
		keys[k] = true
	}
	union := make([]string, 0, len(keys))
	for k := range keys {
		union = append(union, k)
	}
	sort.Strings(union)

	var n1, n2 float64
	for _, v := range f1 {
		n1 += v
	}
	for _, v := range f2 {
		n2 += v
	}
	p = make([]float64, len(union))
	q = make([]float64, len(union))
	for i, k := range union {
		if n1 > 0 {
			p[i] = f1[k] / n1
		}
		if n2 > 0 {
			q[i] = f2[k] / n2
		}
	}
	return p, q
}

// kolmogorovSmirnov computes the two-sample Kolmogorov-Smirnov statistic over
// the non-missing cells of two columns. Identical samples score 0.
func kolmogorovSmirnov(col1 *table.Column, col2 *table.Column) float64 {
	x := sortedValues(col1)
	y := sortedValues(col2)
	if len(x) == 0 || len(y) == 0 {
		return math.NaN()
	}
	return stat.KolmogorovSmirnov(x, nil, y, nil)
}

// kullbackLeibler computes the Kullback-Leibler divergence in both
// directions, since it is asymmetric
func kullbackLeibler(p []float64, q []float64) (forward float64, backward float64) {
	return stat.KullbackLeibler(p, q), stat.KullbackLeibler(q, p)
}

// jensenShannon computes the symmetric Jensen-Shannon divergence
func jensenShannon(p []float64, q []float64) float64 {
	return stat.JensenShannon(p, q)
}

// mutualInformation computes the mutual information between the category
// variable and the dataset-membership variable of the joint empirical
// distribution formed by the two frequency tables. Identical tables carry no
// membership information and score 0.
func mutualInformation(f1 map[string]float64, f2 map[string]float64) float64 {
	var total float64
	for _, v := range f1 {
		total += v
	}
	for _, v := range f2 {
		total += v
	}
	if total == 0 {
		return 0
	}
	keys := make(map[string]bool, len(f1)+len(f2))
	for k := range f1 {
		keys[k] = true
	}
	for k := range f2 {
		keys[k] = true
	}
	mi := 0.0
	for _, freq := range []map[string]float64{f1, f2} {
		var nd float64
		for _, v := range freq {
			nd += v
		}
		pd := nd / total
		for k := range keys {
			joint := freq[k] / total
			if joint == 0 {
				continue
			}
			pc := (f1[k] + f2[k]) / total
			mi += joint * math.Log(joint/(pd*pc))
		}
	}
	return mi
}

// sortedValues collects and sorts the non-missing numeric cells of a column,
// as the Kolmogorov-Smirnov statistic requires sorted samples
func sortedValues(col *table.Column) []float64 {
	if col.IsText() {
		return nil
	}
	var values []float64
	for i, v := range col.Values {
		if !col.IsMissing(i) {
			values = append(values, v)
		}
	}
	sort.Float64s(values)
	return values
}
