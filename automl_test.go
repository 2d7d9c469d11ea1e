package automl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFeatureType(t *testing.T) {
	for token, expected := range map[string]FeatureType{
		"Binary":      Binary,
		"Categorical": Categorical,
		"Numerical":   Numerical,
	} {
		ft, err := ParseFeatureType(token)
		require.Nil(t, err)
		require.Equal(t, expected, ft)
	}
}

func TestParseFeatureTypeUnknownToken(t *testing.T) {
	_, err := ParseFeatureType("Ordinal")
	require.NotNil(t, err)
	_, err = ParseFeatureType("binary")
	require.NotNil(t, err)
}

func TestTaskTypeIsClassification(t *testing.T) {
	require.True(t, BinaryClassification.IsClassification())
	require.True(t, MulticlassClassification.IsClassification())
	require.True(t, MultilabelClassification.IsClassification())
	require.False(t, Regression.IsClassification())
	require.False(t, UnknownTask.IsClassification())
}

func TestPolicyValidation(t *testing.T) {
	require.Nil(t, LabelEncoding.Validate())
	require.Nil(t, EncodingPolicy("").Validate())
	require.NotNil(t, EncodingPolicy("target").Validate())

	require.Nil(t, ImputeMedian.Validate())
	require.NotNil(t, ImputationPolicy("drop").Validate())

	require.Nil(t, MinMaxNormalization.Validate())
	require.NotNil(t, NormalizationPolicy("robust").Validate())
}

func TestPolicyNoOps(t *testing.T) {
	require.True(t, NoEncoding.IsNoOp())
	require.True(t, EncodingPolicy("").IsNoOp())
	require.False(t, OneHotEncoding.IsNoOp())
	require.True(t, ImputeNone.IsNoOp())
	require.False(t, ImputeRemove.IsNoOp())
	require.True(t, NoNormalization.IsNoOp())
	require.False(t, StandardNormalization.IsNoOp())
}
