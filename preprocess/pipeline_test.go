package preprocess

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/schema"
	"github.com/go-automl/automl/subset"
	"github.com/go-automl/automl/table"
	"github.com/stretchr/testify/require"
)

func pipelineFixture(t *testing.T) (*table.Table, *subset.Index, *schema.Schema) {
	tbl, err := table.Create(
		table.CreateColumn("age", []float64{23, 31, 45, math.NaN(), 52, 29, 61, 38, 27, 44}),
		table.CreateTextColumn("city", []string{"york", "leeds", "york", "bath", "leeds", "york", "", "bath", "leeds", "york"}),
		table.CreateColumn("member", []float64{0, 1, 1, 0, 1, 0, 1, 1, 0, 1}),
		table.CreateColumn("target", []float64{0, 1, 1, 0, 1, 0, 1, 1, 0, 1}),
	)
	require.Nil(t, err)
	sch, err := schema.Create(
		[]string{"age", "city", "member"},
		[]automl.FeatureType{automl.Numerical, automl.Categorical, automl.Binary},
	)
	require.Nil(t, err)
	idx := subset.CreateRandomSplit(10, 0.2, sch.Names(), []string{"target"}, rand.New(rand.NewSource(17)))
	return tbl, idx, sch
}

func TestPipelineFillsAllMissingCells(t *testing.T) {
	tbl, idx, sch := pipelineFixture(t)
	res, err := Run(tbl, idx, sch, DefaultConfig())
	require.Nil(t, err)

	require.Len(t, res.Index.TrainRows(), 8)
	require.Len(t, res.Index.TestRows(), 2)
	for _, name := range res.Schema.Names() {
		col, err := res.Table.Column(name)
		require.Nil(t, err)
		require.False(t, col.IsText())
		for _, r := range res.Index.Rows() {
			require.False(t, col.IsMissing(r), "column %s row %d still missing", name, r)
		}
	}
}

func TestPipelineLeavesInputsUntouched(t *testing.T) {
	tbl, idx, sch := pipelineFixture(t)
	before := tbl.Fingerprint()
	_, err := Run(tbl, idx, sch, DefaultConfig())
	require.Nil(t, err)
	require.Equal(t, before, tbl.Fingerprint())
	require.Equal(t, []string{"age", "city", "member"}, sch.Names())
}

func TestPipelineRerunIsBitwiseIdentical(t *testing.T) {
	tbl, idx, sch := pipelineFixture(t)
	res1, err := Run(tbl, idx, sch, DefaultConfig())
	require.Nil(t, err)
	res2, err := Run(tbl, idx, sch, DefaultConfig())
	require.Nil(t, err)
	require.True(t, res1.Table.Equals(res2.Table))
	require.Equal(t, res1.Table.Fingerprint(), res2.Table.Fingerprint())
	require.Equal(t, res1.Index.Rows(), res2.Index.Rows())
	require.True(t, res1.Schema.Equals(res2.Schema))
}

func TestPipelineNormalizedTrainStatistics(t *testing.T) {
	tbl, idx, sch := pipelineFixture(t)
	res, err := Run(tbl, idx, sch, DefaultConfig())
	require.Nil(t, err)

	col, err := res.Table.Column("age")
	require.Nil(t, err)
	var sum float64
	train := res.Index.TrainRows()
	for _, r := range train {
		sum += col.Values[r]
	}
	require.InDelta(t, 0, sum/float64(len(train)), 1e-9)
}

func TestPipelineOneHotUpdatesIndexFeatures(t *testing.T) {
	tbl, idx, sch := pipelineFixture(t)
	cfg := DefaultConfig()
	cfg.Encoding = automl.OneHotEncoding
	res, err := Run(tbl, idx, sch, cfg)
	require.Nil(t, err)

	require.Equal(t, res.Schema.Names(), res.Index.Features())
	require.True(t, len(res.Index.Features()) > 3)
	require.False(t, res.Table.HasColumn("city"))
}

func TestPipelineRemovePolicyShrinksIndex(t *testing.T) {
	tbl, idx, sch := pipelineFixture(t)
	cfg := DefaultConfig()
	cfg.Imputation = Imputation{
		Binary:      automl.ImputeRemove,
		Categorical: automl.ImputeRemove,
		Numerical:   automl.ImputeRemove,
	}
	res, err := Run(tbl, idx, sch, cfg)
	require.Nil(t, err)

	// rows 3 (missing age) and 6 (missing city) are dropped from the index
	require.Len(t, res.Index.Rows(), 8)
	for _, r := range res.Index.Rows() {
		require.NotEqual(t, 3, r)
		require.NotEqual(t, 6, r)
	}
	// table rows are retained physically, only unaddressed
	require.Equal(t, 10, res.Table.NumRows())
}

func TestPipelineRejectsUnknownPolicy(t *testing.T) {
	tbl, idx, sch := pipelineFixture(t)
	cfg := DefaultConfig()
	cfg.Normalization = automl.NormalizationPolicy("robust")
	_, err := Run(tbl, idx, sch, cfg)
	require.NotNil(t, err)
}

func TestPipelineNoOpConfig(t *testing.T) {
	tbl, idx, sch := pipelineFixture(t)
	res, err := Run(tbl, idx, sch, Config{})
	require.Nil(t, err)
	require.True(t, res.Table.Equals(tbl))
}
