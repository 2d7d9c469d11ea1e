package dataset

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/preprocess"
	"github.com/stretchr/testify/require"
)

func writeFixtureFile(t *testing.T, dir string, name string, content string) {
	require.Nil(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// presplitFixture lays out a pre-split dataset in the AutoML file convention
func presplitFixture(t *testing.T) string {
	dir := t.TempDir()
	writeFixtureFile(t, dir, "ada_train.data", "23 1\n31 0\n45 1\n")
	writeFixtureFile(t, dir, "ada_test.data", "52 1\n29 0\n")
	writeFixtureFile(t, dir, "ada_train.solution", "1\n0\n1\n")
	writeFixtureFile(t, dir, "ada_test.solution", "1\n0\n")
	writeFixtureFile(t, dir, "ada_feat.name", "age\nmember\n")
	writeFixtureFile(t, dir, "ada_label.name", "target\n")
	writeFixtureFile(t, dir, "ada_feat.type", "Numerical\nBinary\n")
	return dir
}

// unsplitFixture lays out a single-file dataset without sidecars
func unsplitFixture(t *testing.T) string {
	dir := t.TempDir()
	writeFixtureFile(t, dir, "iris.data",
		"5.1 red\n4.9 blue\n4.7 green\n4.6 blue\n5.0 red\n5.4 green\n4.8 red\n5.2 blue\n5.5 green\n4.4 blue\n")
	writeFixtureFile(t, dir, "iris.solution", "0\n1\n0\n1\n0\n1\n0\n1\n0\n1\n")
	return dir
}

func TestLoadPresplit(t *testing.T) {
	ds, err := Load(presplitFixture(t), "ada")
	require.Nil(t, err)
	require.Equal(t, "ada", ds.Name())
	require.Equal(t, []string{"age", "member"}, ds.FeatureNames())
	require.Equal(t, []string{"target"}, ds.LabelNames())
	require.Equal(t, 2, ds.NumFeatures())
	require.False(t, ds.ID().IsNil())

	ft, err := ds.Schema().Type("age")
	require.Nil(t, err)
	require.Equal(t, automl.Numerical, ft)
	ft, err = ds.Schema().Type("member")
	require.Nil(t, err)
	require.Equal(t, automl.Binary, ft)

	train, err := ds.GetData("train", false)
	require.Nil(t, err)
	require.Equal(t, 3, train.NumRows())
	require.Equal(t, 3, train.NumColumns())
	test, err := ds.GetData("X_test", false)
	require.Nil(t, err)
	require.Equal(t, 2, test.NumRows())
	require.Equal(t, 2, test.NumColumns())

	age, err := train.Column("age")
	require.Nil(t, err)
	require.Equal(t, []float64{23, 31, 45}, age.Values)
}

func TestLoadPrefersAutomlSubdirectory(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ada_automl")
	require.Nil(t, os.MkdirAll(dir, 0755))
	writeFixtureFile(t, dir, "ada.data", "1 2\n3 4\n5 6\n7 8\n9 10\n")
	ds, err := Load(root, "ada")
	require.Nil(t, err)
	require.Equal(t, 2, ds.NumFeatures())
}

func TestLoadMissingDataIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFixtureFile(t, dir, "ada_feat.name", "age\n")
	_, err := Load(dir, "ada")
	require.NotNil(t, err)
}

func TestLoadDegradesWithoutSidecars(t *testing.T) {
	ds, err := Load(unsplitFixture(t), "iris", WithRand(rand.New(rand.NewSource(3))))
	require.Nil(t, err)
	// generated names and inferred types
	require.Equal(t, []string{"X0", "X1"}, ds.FeatureNames())
	require.Equal(t, []string{"y0"}, ds.LabelNames())
	ft, err := ds.Schema().Type("X1")
	require.Nil(t, err)
	require.Equal(t, automl.Categorical, ft)
}

func TestLoadRandomSplitProportions(t *testing.T) {
	ds, err := Load(unsplitFixture(t), "iris",
		WithTestSize(0.5), WithRand(rand.New(rand.NewSource(5))))
	require.Nil(t, err)
	train, err := ds.GetData("X_train", false)
	require.Nil(t, err)
	test, err := ds.GetData("X_test", false)
	require.Nil(t, err)
	require.Equal(t, 5, train.NumRows())
	require.Equal(t, 5, test.NumRows())
}

func TestLoadSolutionShapeMismatch(t *testing.T) {
	dir := presplitFixture(t)
	writeFixtureFile(t, dir, "ada_train.solution", "1\n0\n")
	_, err := Load(dir, "ada")
	require.NotNil(t, err)
}

func TestLoadMissingTokens(t *testing.T) {
	dir := t.TempDir()
	writeFixtureFile(t, dir, "gap.data", "1 2\nNaN 4\n? 6\n7 nan\n")
	ds, err := Load(dir, "gap", WithRand(rand.New(rand.NewSource(1))))
	require.Nil(t, err)
	data, err := ds.GetData("", false)
	require.Nil(t, err)
	col, err := data.Column("X0")
	require.Nil(t, err)
	require.True(t, math.IsNaN(col.Values[1]))
	require.True(t, math.IsNaN(col.Values[2]))
}

func TestDerivedInfo(t *testing.T) {
	ds, err := Load(presplitFixture(t), "ada")
	require.Nil(t, err)
	info := ds.Info()
	require.Equal(t, 2, info.FeatNum)
	require.Equal(t, 3, info.TrainNum)
	require.Equal(t, 2, info.TestNum)
	require.Equal(t, 1, info.TargetNum)
	require.Equal(t, "dense", info.Format)
	require.Equal(t, 0, info.HasCategorical)
	require.Equal(t, 0, info.HasMissing)
}

func TestLoadedInfoOverridesDerivation(t *testing.T) {
	dir := presplitFixture(t)
	writeFixtureFile(t, dir, "ada_public.info",
		"task = 'binary.classification'\nmetric = 'auc_metric'\ntrain_num = 3\ncustom_key = 'kept'\n")
	ds, err := Load(dir, "ada")
	require.Nil(t, err)
	require.Equal(t, automl.BinaryClassification, ds.Info().Task)
	require.Equal(t, "kept", ds.Info().Extra["custom_key"])
}

func TestGetDataUnknownSubset(t *testing.T) {
	ds, err := Load(presplitFixture(t), "ada")
	require.Nil(t, err)
	_, err = ds.GetData("validation", false)
	require.NotNil(t, err)
}

func TestSetData(t *testing.T) {
	ds, err := Load(presplitFixture(t), "ada")
	require.Nil(t, err)
	y, err := ds.GetData("y_test", false)
	require.Nil(t, err)
	col, err := y.Column("target")
	require.Nil(t, err)
	col.Values[0] = 0
	require.Nil(t, ds.SetData("y_test", false, y))

	read, err := ds.GetData("y_test", false)
	require.Nil(t, err)
	readCol, err := read.Column("target")
	require.Nil(t, err)
	require.Equal(t, []float64{0, 0}, readCol.Values)
}

func TestProcess(t *testing.T) {
	ds, err := Load(presplitFixture(t), "ada")
	require.Nil(t, err)
	require.False(t, ds.IsProcessed())

	processed, err := ds.Process(preprocess.DefaultConfig())
	require.Nil(t, err)
	require.True(t, ds.IsProcessed())

	// raw data is untouched by processing
	raw, err := ds.GetData("X", false)
	require.Nil(t, err)
	age, err := raw.Column("age")
	require.Nil(t, err)
	require.Equal(t, []float64{23, 31, 45, 52, 29}, age.Values)

	normalized, err := processed.Column("age")
	require.Nil(t, err)
	require.InDelta(t, 0, (normalized.Values[0]+normalized.Values[1]+normalized.Values[2])/3, 1e-9)
}

func TestProcessLikelihoodWithTextSolution(t *testing.T) {
	dir := t.TempDir()
	writeFixtureFile(t, dir, "named.data", "23 1\n31 0\n45 1\n52 1\n29 0\n")
	writeFixtureFile(t, dir, "named.solution", "yes\nno\nyes\nyes\nno\n")
	ds, err := Load(dir, "named", WithRand(rand.New(rand.NewSource(2))))
	require.Nil(t, err)

	cfg := preprocess.DefaultConfig()
	cfg.Encoding = automl.LikelihoodEncoding
	_, err = ds.Process(cfg)
	require.NotNil(t, err)
	require.False(t, ds.IsProcessed())
}

func TestProcessIsRepeatable(t *testing.T) {
	ds, err := Load(presplitFixture(t), "ada")
	require.Nil(t, err)
	first, err := ds.Process(preprocess.DefaultConfig())
	require.Nil(t, err)
	fingerprint := first.Fingerprint()
	second, err := ds.Process(preprocess.DefaultConfig())
	require.Nil(t, err)
	require.Equal(t, fingerprint, second.Fingerprint())
}

func TestSaveRoundTrip(t *testing.T) {
	ds, err := Load(presplitFixture(t), "ada")
	require.Nil(t, err)
	out := t.TempDir()
	require.Nil(t, ds.Save(out, "copy"))

	for _, name := range []string{
		"copy.data", "copy.solution",
		"copy_train.data", "copy_test.data",
		"copy_train.solution", "copy_test.solution",
		"copy_feat.name", "copy_feat.type", "copy_label.name", "copy_public.info",
	} {
		_, err := os.Stat(filepath.Join(out, name))
		require.Nil(t, err, "expected %s to be written", name)
	}

	reloaded, err := Load(out, "copy")
	require.Nil(t, err)
	require.Equal(t, ds.Fingerprint(), reloaded.Fingerprint())
	require.Equal(t, ds.FeatureNames(), reloaded.FeatureNames())
	require.True(t, reloaded.Schema().Equals(ds.Schema()))
}

func TestFingerprintDistinguishesDatasets(t *testing.T) {
	ds1, err := Load(presplitFixture(t), "ada")
	require.Nil(t, err)
	ds2, err := Load(presplitFixture(t), "ada")
	require.Nil(t, err)
	require.Equal(t, ds1.Fingerprint(), ds2.Fingerprint())
	require.NotEqual(t, ds1.ID(), ds2.ID())

	dir := presplitFixture(t)
	writeFixtureFile(t, dir, "ada_train.data", "99 1\n31 0\n45 1\n")
	ds3, err := Load(dir, "ada")
	require.Nil(t, err)
	require.NotEqual(t, ds1.Fingerprint(), ds3.Fingerprint())
}

func TestDescriptors(t *testing.T) {
	ds, err := Load(presplitFixture(t), "ada")
	require.Nil(t, err)
	desc, err := ds.Descriptors(false)
	require.Nil(t, err)
	require.InDelta(t, 2.0/3.0, desc.Ratio, 1e-12)
	require.InDelta(t, 0.5, desc.SymbRatio, 1e-12)
	require.Equal(t, 0.0, desc.MissingProba)
	require.False(t, math.IsNaN(desc.ClassDeviation))

	fields := desc.Fields()
	require.Contains(t, fields, "skewness_mean")
	require.Contains(t, fields, "class_deviation")
}
