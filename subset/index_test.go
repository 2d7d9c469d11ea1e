package subset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateFromBlocks(t *testing.T) {
	idx := CreateFromBlocks(3, 2, []string{"a", "b"}, []string{"target"})
	require.Equal(t, []int{0, 1, 2, 3, 4}, idx.Rows())
	require.Equal(t, []int{0, 1, 2}, idx.TrainRows())
	require.Equal(t, []int{3, 4}, idx.TestRows())
	require.True(t, idx.Presplit())
	require.True(t, idx.HasLabels())
}

func TestCreateRandomSplitPartition(t *testing.T) {
	idx := CreateRandomSplit(10, 0.2, []string{"a"}, nil, rand.New(rand.NewSource(42)))
	require.Len(t, idx.TestRows(), 2)
	require.Len(t, idx.TrainRows(), 8)
	require.False(t, idx.Presplit())

	seen := make(map[int]bool)
	for _, r := range idx.TrainRows() {
		seen[r] = true
	}
	for _, r := range idx.TestRows() {
		require.False(t, seen[r], "train and test must be disjoint")
		seen[r] = true
	}
	require.Len(t, seen, 10)
}

func TestCreateRandomSplitClampsTestSize(t *testing.T) {
	idx := CreateRandomSplit(10, 1.5, []string{"a"}, nil, rand.New(rand.NewSource(2)))
	require.Len(t, idx.TestRows(), 10)
	require.Empty(t, idx.TrainRows())

	idx = CreateRandomSplit(10, -0.2, []string{"a"}, nil, rand.New(rand.NewSource(2)))
	require.Empty(t, idx.TestRows())
	require.Len(t, idx.TrainRows(), 10)
}

func TestCreateRandomSplitReproducible(t *testing.T) {
	idx1 := CreateRandomSplit(20, 0.25, []string{"a"}, nil, rand.New(rand.NewSource(7)))
	idx2 := CreateRandomSplit(20, 0.25, []string{"a"}, nil, rand.New(rand.NewSource(7)))
	require.Equal(t, idx1.TrainRows(), idx2.TrainRows())
	require.Equal(t, idx1.TestRows(), idx2.TestRows())
}

func TestResolveKeys(t *testing.T) {
	idx := CreateFromBlocks(2, 1, []string{"a", "b"}, []string{"target"})

	rows, cols, err := idx.Resolve("")
	require.Nil(t, err)
	require.Equal(t, []int{0, 1, 2}, rows)
	require.Equal(t, []string{"a", "b", "target"}, cols)

	rows, cols, err = idx.Resolve("X")
	require.Nil(t, err)
	require.Equal(t, []int{0, 1, 2}, rows)
	require.Equal(t, []string{"a", "b"}, cols)

	rows, cols, err = idx.Resolve("y")
	require.Nil(t, err)
	require.Equal(t, []string{"target"}, cols)

	rows, cols, err = idx.Resolve("train")
	require.Nil(t, err)
	require.Equal(t, []int{0, 1}, rows)
	require.Equal(t, []string{"a", "b", "target"}, cols)

	rows, cols, err = idx.Resolve("X_test")
	require.Nil(t, err)
	require.Equal(t, []int{2}, rows)
	require.Equal(t, []string{"a", "b"}, cols)

	rows, cols, err = idx.Resolve("y_train")
	require.Nil(t, err)
	require.Equal(t, []int{0, 1}, rows)
	require.Equal(t, []string{"target"}, cols)
}

func TestResolveUnknownKey(t *testing.T) {
	idx := CreateFromBlocks(2, 1, []string{"a"}, []string{"target"})
	_, _, err := idx.Resolve("validation")
	require.NotNil(t, err)
	_, _, err = idx.Resolve("X_validation")
	require.NotNil(t, err)
}

func TestResolveLabelsAbsent(t *testing.T) {
	idx := CreateFromBlocks(2, 1, []string{"a"}, nil)
	_, _, err := idx.Resolve("y")
	require.NotNil(t, err)
	_, _, err = idx.Resolve("y_test")
	require.NotNil(t, err)
}

func TestRemove(t *testing.T) {
	idx := CreateFromBlocks(3, 2, []string{"a"}, nil)
	idx.Remove(map[int]bool{1: true, 3: true})
	require.Equal(t, []int{0, 2, 4}, idx.Rows())
	require.Equal(t, []int{0, 2}, idx.TrainRows())
	require.Equal(t, []int{4}, idx.TestRows())
}

func TestSetFeaturesKeepsRows(t *testing.T) {
	idx := CreateFromBlocks(2, 1, []string{"a", "b"}, []string{"target"})
	idx.SetFeatures([]string{"a", "b=x", "b=y"})
	require.Equal(t, []string{"a", "b=x", "b=y"}, idx.Features())
	require.Equal(t, []int{0, 1}, idx.TrainRows())
}

func TestAccessorsReturnCopies(t *testing.T) {
	idx := CreateFromBlocks(2, 1, []string{"a"}, nil)
	rows := idx.Rows()
	rows[0] = 99
	require.Equal(t, []int{0, 1, 2}, idx.Rows())
}
