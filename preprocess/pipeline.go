// Package preprocess implements the three-stage preprocessing pipeline:
// encoding, imputation and normalization, always run in that fixed order.
// Each stage follows an explicit two-phase contract: fitting on the train
// partition produces an immutable parameter record, and applying that record
// transforms train and test partitions with the same learned parameters.
package preprocess

import (
	"github.com/go-automl/automl"
	"github.com/go-automl/automl/schema"
	"github.com/go-automl/automl/subset"
	"github.com/go-automl/automl/table"
)

// Config specifies the policy of each preprocessing stage. The zero value of
// any policy is an explicit no-op for that stage.
type Config struct {
	Encoding      automl.EncodingPolicy
	Imputation    Imputation
	Normalization automl.NormalizationPolicy
}

// DefaultConfig returns the conventional configuration: label encoding,
// most-frequent imputation for Binary and Categorical columns, median
// imputation for Numerical ones, and standard normalization
func DefaultConfig() Config {
	return Config{
		Encoding: automl.LabelEncoding,
		Imputation: Imputation{
			Binary:      automl.ImputeMostFrequent,
			Categorical: automl.ImputeMostFrequent,
			Numerical:   automl.ImputeMedian,
		},
		Normalization: automl.StandardNormalization,
	}
}

// Validate checks every policy name in this Config. An unrecognized name is a
// configuration error, surfaced before any stage runs.
func (c Config) Validate() error {
	if err := c.Encoding.Validate(); err != nil {
		return err
	}
	if err := c.Imputation.Validate(); err != nil {
		return err
	}
	return c.Normalization.Validate()
}

// Result is the outcome of a pipeline run: the processed table, plus the
// subset index and schema as transformed by the run (row removal and one-hot
// column expansion propagate into them).
type Result struct {
	Table  *table.Table
	Index  *subset.Index
	Schema *schema.Schema
}

// Run executes encode, impute and normalize over a fresh copy of raw.
// Encoding runs first so that categorical label identifiers can be imputed
// like numeric values; normalization runs last so it only touches fully
// numeric, fully imputed columns. All stage parameters are fit on the train
// partition and applied to every addressable row. Run is a pure function of
// raw, the index, the schema and the config: re-running it with the same
// inputs produces a bitwise-identical Result.
func Run(raw *table.Table, idx *subset.Index, sch *schema.Schema, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	res := &Result{
		Table:  raw.Clone(),
		Index:  idx.Clone(),
		Schema: sch.Clone(),
	}

	var target *table.Column
	if labels := res.Index.Labels(); len(labels) > 0 {
		col, err := res.Table.Column(labels[0])
		if err != nil {
			return nil, err
		}
		target = col
	}

	encoder, err := FitEncoder(cfg.Encoding, res.Table, res.Schema, res.Index.TrainRows(), target)
	if err != nil {
		return nil, err
	}
	if err := encoder.Apply(res.Table, res.Schema, res.Index.Rows()); err != nil {
		return nil, err
	}
	res.Index.SetFeatures(res.Schema.Names())

	imputer, err := FitImputer(cfg.Imputation, res.Table, res.Schema, res.Index.TrainRows())
	if err != nil {
		return nil, err
	}
	dropped, err := imputer.Apply(res.Table, res.Index.Rows())
	if err != nil {
		return nil, err
	}
	res.Index.Remove(dropped)

	normalizer, err := FitNormalizer(cfg.Normalization, res.Table, res.Schema, res.Index.TrainRows())
	if err != nil {
		return nil, err
	}
	if err := normalizer.Apply(res.Table, res.Index.Rows()); err != nil {
		return nil, err
	}
	return res, nil
}
