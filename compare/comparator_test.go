package compare

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/dataset"
	"github.com/go-automl/automl/preprocess"
	"github.com/stretchr/testify/require"
)

func writeFixtureFile(t *testing.T, dir string, name string, content string) {
	require.Nil(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// mixedFixture lays out a pre-split dataset with one Numerical and one
// Categorical feature, eight train rows and four test rows
func mixedFixture(t *testing.T, basename string, trainData string, testData string) string {
	dir := t.TempDir()
	writeFixtureFile(t, dir, basename+"_train.data", trainData)
	writeFixtureFile(t, dir, basename+"_test.data", testData)
	writeFixtureFile(t, dir, basename+"_train.solution", "1\n0\n1\n1\n0\n1\n1\n0\n")
	writeFixtureFile(t, dir, basename+"_test.solution", "1\n1\n0\n0\n")
	writeFixtureFile(t, dir, basename+"_feat.name", "age\ncolor\n")
	writeFixtureFile(t, dir, basename+"_label.name", "target\n")
	writeFixtureFile(t, dir, basename+"_feat.type", "Numerical\nCategorical\n")
	return dir
}

const (
	baseTrain = "23 red\n31 blue\n45 green\n52 red\n29 blue\n61 green\n38 red\n27 blue\n"
	baseTest  = "44 green\n33 red\n58 blue\n26 green\n"
)

func loadMixed(t *testing.T, basename string, trainData string, testData string) *dataset.Dataset {
	ds, err := dataset.Load(mixedFixture(t, basename, trainData, testData), basename)
	require.Nil(t, err)
	return ds
}

func TestComparatorIdenticalDatasets(t *testing.T) {
	ds1 := loadMixed(t, "left", baseTrain, baseTest)
	ds2 := loadMixed(t, "right", baseTrain, baseTest)

	cmp, err := Create(ds1, ds2, preprocess.DefaultConfig())
	require.Nil(t, err)
	require.True(t, cmp.Equal())

	matrix := cmp.Matrix()
	require.Len(t, matrix, 2)
	for _, cc := range matrix {
		if cc.Type == automl.Numerical {
			require.Equal(t, 0.0, cc.KolmogorovSmirnov)
			require.True(t, math.IsNaN(cc.JensenShannon))
		} else {
			require.True(t, math.IsNaN(cc.KolmogorovSmirnov))
			require.InDelta(t, 0, cc.KLForward, 1e-12)
			require.InDelta(t, 0, cc.KLBackward, 1e-12)
			require.InDelta(t, 0, cc.MutualInformation, 1e-12)
			require.InDelta(t, 0, cc.JensenShannon, 1e-12)
		}
	}

	// every held-out row appears once with each membership label, so a
	// deterministic classifier scores exactly 0.5
	accuracy, err := cmp.Classify(rand.New(rand.NewSource(9)))
	require.Nil(t, err)
	require.Equal(t, 0.5, accuracy)

	for _, norm := range []string{"l0", "manhattan", "euclidean", "minimum", "maximum"} {
		d, err := cmp.Distance(norm)
		require.Nil(t, err)
		require.Equal(t, 0.0, d, "norm %s", norm)
	}

	distances, err := cmp.DescriptorDistances()
	require.Nil(t, err)
	for name, d := range distances {
		require.InDelta(t, 0, d, 1e-12, "descriptor %s", name)
	}
}

func TestComparatorDivergentDatasets(t *testing.T) {
	otherTrain := "120 red\n185 red\n240 red\n310 blue\n150 red\n410 red\n275 red\n198 red\n"
	otherTest := "222 red\n340 red\n130 blue\n264 red\n"
	ds1 := loadMixed(t, "left", baseTrain, baseTest)
	ds2 := loadMixed(t, "right", otherTrain, otherTest)

	// skip normalization so the shape difference stays visible to the metrics
	cfg := preprocess.Config{Encoding: automl.LabelEncoding}
	cmp, err := Create(ds1, ds2, cfg)
	require.Nil(t, err)
	require.False(t, cmp.Equal())

	for _, cc := range cmp.Matrix() {
		if cc.Type == automl.Numerical {
			require.True(t, cc.KolmogorovSmirnov > 0)
		} else {
			require.True(t, cc.JensenShannon > 0)
			require.True(t, cc.MutualInformation > 0)
		}
	}
}

func TestComparatorFeatureCountMismatch(t *testing.T) {
	ds1 := loadMixed(t, "left", baseTrain, baseTest)

	dir := t.TempDir()
	writeFixtureFile(t, dir, "narrow.data", "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n")
	ds2, err := dataset.Load(dir, "narrow")
	require.Nil(t, err)

	_, err = Create(ds1, ds2, preprocess.DefaultConfig())
	require.NotNil(t, err)
}

func TestComparatorDistanceUnknownNorm(t *testing.T) {
	ds1 := loadMixed(t, "left", baseTrain, baseTest)
	ds2 := loadMixed(t, "right", baseTrain, baseTest)
	cmp, err := Create(ds1, ds2, preprocess.DefaultConfig())
	require.Nil(t, err)
	_, err = cmp.Distance("chebyshev")
	require.NotNil(t, err)
}

func TestComparatorOneHotAlignment(t *testing.T) {
	ds1 := loadMixed(t, "left", baseTrain, baseTest)
	ds2 := loadMixed(t, "right", baseTrain, baseTest)
	cfg := preprocess.DefaultConfig()
	cfg.Encoding = automl.OneHotEncoding
	cmp, err := Create(ds1, ds2, cfg)
	require.Nil(t, err)
	// the categorical column expands into one comparison per indicator
	require.Len(t, cmp.Matrix(), 4)
}
