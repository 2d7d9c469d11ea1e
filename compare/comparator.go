// Package compare implements resemblance analysis between two datasets: a
// per-column comparison matrix of divergence metrics, descriptor distances,
// and a classifier-based distinguishability score.
package compare

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/dataset"
	"github.com/go-automl/automl/errors"
	"github.com/go-automl/automl/preprocess"
	"github.com/go-automl/automl/table"
	"gonum.org/v1/gonum/mat"
)

// ColumnComparison carries the divergence metrics of one feature column.
// Numerical columns are compared with the Kolmogorov-Smirnov statistic;
// Binary and Categorical columns with Kullback-Leibler divergence in both
// directions, mutual information and Jensen-Shannon divergence over their
// empirical frequency tables. Metrics not applicable to the column type are
// NaN.
type ColumnComparison struct {
	Column            string
	Type              automl.FeatureType
	KolmogorovSmirnov float64
	KLForward         float64
	KLBackward        float64
	MutualInformation float64
	JensenShannon     float64
}

// Comparator aligns the preprocessing of two datasets and computes
// resemblance metrics between them. It reads both datasets but mutates
// neither beyond running their preprocessing pipelines.
type Comparator struct {
	ds1    *dataset.Dataset
	ds2    *dataset.Dataset
	matrix []ColumnComparison
}

// Create builds a Comparator over two datasets, processing both with the
// same configuration. Construction fails with a FeatureCountMismatchError
// before any metric is computed when the feature counts differ.
func Create(ds1 *dataset.Dataset, ds2 *dataset.Dataset, cfg preprocess.Config) (*Comparator, error) {
	if ds1.NumFeatures() != ds2.NumFeatures() {
		return nil, errors.FeatureCountMismatchError{Left: ds1.NumFeatures(), Right: ds2.NumFeatures()}
	}
	if _, err := ds1.Process(cfg); err != nil {
		return nil, err
	}
	if _, err := ds2.Process(cfg); err != nil {
		return nil, err
	}
	c := &Comparator{ds1: ds1, ds2: ds2}
	if err := c.computeMatrix(); err != nil {
		return nil, err
	}
	return c, nil
}

// computeMatrix fills the per-column comparison matrix over the processed
// feature columns of both datasets, paired positionally
func (c *Comparator) computeMatrix() error {
	x1, err := c.ds1.GetData("X", true)
	if err != nil {
		return err
	}
	x2, err := c.ds2.GetData("X", true)
	if err != nil {
		return err
	}
	// one-hot encoding can expand the two datasets differently
	if x1.NumColumns() != x2.NumColumns() {
		return errors.FeatureCountMismatchError{Left: x1.NumColumns(), Right: x2.NumColumns()}
	}
	names1 := x1.ColumnNames()
	names2 := x2.ColumnNames()
	for i, name := range names1 {
		col1, err := x1.Column(name)
		if err != nil {
			return err
		}
		col2, err := x2.Column(names2[i])
		if err != nil {
			return err
		}
		ft, err := c.ds1.Schema().Type(name)
		if err != nil {
			return err
		}
		cc := ColumnComparison{
			Column:            name,
			Type:              ft,
			KolmogorovSmirnov: math.NaN(),
			KLForward:         math.NaN(),
			KLBackward:        math.NaN(),
			MutualInformation: math.NaN(),
			JensenShannon:     math.NaN(),
		}
		if ft == automl.Numerical {
			cc.KolmogorovSmirnov = kolmogorovSmirnov(col1, col2)
		} else {
			f1 := frequencyTable(col1)
			f2 := frequencyTable(col2)
			p, q := alignedDistributions(f1, f2)
			cc.KLForward, cc.KLBackward = kullbackLeibler(p, q)
			cc.MutualInformation = mutualInformation(f1, f2)
			cc.JensenShannon = jensenShannon(p, q)
		}
		c.matrix = append(c.matrix, cc)
	}
	return nil
}

// Matrix returns the per-column comparison matrix
func (c *Comparator) Matrix() []ColumnComparison {
	return append([]ColumnComparison{}, c.matrix...)
}

// Equal returns true iff the two datasets hold identical raw tables,
// detected by fingerprint
func (c *Comparator) Equal() bool {
	return c.ds1.Fingerprint() == c.ds2.Fingerprint()
}

// Classify trains a binary classifier to distinguish rows of the first
// dataset (label 0) from rows of the second (label 1) on a shuffled, combined
// train split, and returns its held-out accuracy on the combined test split.
// An accuracy near 0.5 means the datasets are indistinguishable. The shuffle
// is reproducible only when rng carries an explicit seed.
func (c *Comparator) Classify(rng *rand.Rand) (float64, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	xTrain, yTrain, err := c.combined("X_train")
	if err != nil {
		return 0, err
	}
	xTest, yTest, err := c.combined("X_test")
	if err != nil {
		return 0, err
	}
	rng.Shuffle(len(yTrain), func(i, j int) {
		xTrain[i], xTrain[j] = xTrain[j], xTrain[i]
		yTrain[i], yTrain[j] = yTrain[j], yTrain[i]
	})
	width := 0
	if len(xTrain) > 0 {
		width = len(xTrain[0])
	}
	clf := newLogistic(width)
	if len(yTrain) > 0 {
		clf.fit(designMatrix(xTrain, width), yTrain)
	}
	return clf.score(designMatrix(xTest, width), yTest), nil
}

// combined stacks the addressed subset of both datasets, labeling rows of the
// first dataset 0 and rows of the second 1
func (c *Comparator) combined(key string) ([][]float64, []float64, error) {
	t1, err := c.ds1.GetData(key, true)
	if err != nil {
		return nil, nil, err
	}
	t2, err := c.ds2.GetData(key, true)
	if err != nil {
		return nil, nil, err
	}
	if t1.NumColumns() != t2.NumColumns() {
		return nil, nil, errors.FeatureCountMismatchError{Left: t1.NumColumns(), Right: t2.NumColumns()}
	}
	rows := tableRows(t1)
	labels := make([]float64, 0, t1.NumRows()+t2.NumRows())
	for range rows {
		labels = append(labels, 0)
	}
	for _, row := range tableRows(t2) {
		rows = append(rows, row)
		labels = append(labels, 1)
	}
	return rows, labels, nil
}

// Distance reduces the cell-wise differences between the processed feature
// tables to a single value. Recognized norms: "l0" (count of differing
// cells), "manhattan", "euclidean", "minimum" and "maximum" (over cell-wise
// absolute differences).
func (c *Comparator) Distance(norm string) (float64, error) {
	x1, err := c.ds1.GetData("X", true)
	if err != nil {
		return 0, err
	}
	x2, err := c.ds2.GetData("X", true)
	if err != nil {
		return 0, err
	}
	if x1.NumColumns() != x2.NumColumns() {
		return 0, errors.FeatureCountMismatchError{Left: x1.NumColumns(), Right: x2.NumColumns()}
	}
	if x1.NumRows() != x2.NumRows() {
		return 0, errors.DimensionMismatchError{Subject: "compared rows", Expected: x1.NumRows(), Actual: x2.NumRows()}
	}
	rows1 := tableRows(x1)
	rows2 := tableRows(x2)
	var l0, manhattan, euclidean float64
	minimum, maximum := math.Inf(1), math.Inf(-1)
	for i := range rows1 {
		for j := range rows1[i] {
			d := math.Abs(rows1[i][j] - rows2[i][j])
			if d > 0 {
				l0++
			}
			manhattan += d
			euclidean += d * d
			minimum = math.Min(minimum, d)
			maximum = math.Max(maximum, d)
		}
	}
	switch norm {
	case "l0":
		return l0, nil
	case "manhattan":
		return manhattan, nil
	case "euclidean":
		return math.Sqrt(euclidean), nil
	case "minimum":
		return minimum, nil
	case "maximum":
		return maximum, nil
	default:
		return 0, errors.UnknownPolicyError{Stage: "distance", Policy: norm}
	}
}

// DescriptorDistances computes the absolute distance between each descriptor
// of the two datasets
func (c *Comparator) DescriptorDistances() (map[string]float64, error) {
	d1, err := c.ds1.Descriptors(false)
	if err != nil {
		return nil, err
	}
	d2, err := c.ds2.Descriptors(false)
	if err != nil {
		return nil, err
	}
	f1 := d1.Fields()
	f2 := d2.Fields()
	distances := make(map[string]float64, len(f1))
	for k, v := range f1 {
		distances[k] = math.Abs(v - f2[k])
	}
	return distances, nil
}

// tableRows flattens a table into dense rows for the classifier and the
// distance reductions. Cells still missing after preprocessing read as 0.
func tableRows(t *table.Table) [][]float64 {
	names := t.ColumnNames()
	cols := make([]*table.Column, len(names))
	for i, name := range names {
		cols[i], _ = t.Column(name)
	}
	rows := make([][]float64, t.NumRows())
	for i := range rows {
		rows[i] = make([]float64, len(cols))
		for j, col := range cols {
			if col.IsText() || col.IsMissing(i) {
				continue
			}
			rows[i][j] = col.Values[i]
		}
	}
	return rows
}

// designMatrix packs dense rows into a gonum matrix
func designMatrix(rows [][]float64, width int) *mat.Dense {
	if len(rows) == 0 || width == 0 {
		return mat.NewDense(1, max(width, 1), nil)
	}
	x := mat.NewDense(len(rows), width, nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	return x
}
