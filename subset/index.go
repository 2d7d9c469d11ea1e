// Package subset implements the subset-addressing scheme layered over a
// single shared table: symbolic keys such as "X", "y", "train", "test" and
// the compound "X_train" resolve to concrete row and column selections.
package subset

import (
	"math/rand"
	"strings"
	"time"

	"github.com/go-automl/automl/errors"
)

// Index maps symbolic subset keys to row and column selections over one
// shared table. Row selections for train and test partition the addressable
// row index with no overlap; column selections for X and y partition the
// column set with no overlap.
type Index struct {
	rows     []int
	train    []int
	test     []int
	features []string
	labels   []string
	presplit bool
}

// CreateFromBlocks builds an Index for pre-split data, where the source
// convention stores the train partition as the first trainNum rows and the
// test partition as the following testNum rows
func CreateFromBlocks(trainNum int, testNum int, features []string, labels []string) *Index {
	idx := &Index{
		rows:     make([]int, trainNum+testNum),
		train:    make([]int, trainNum),
		test:     make([]int, testNum),
		features: append([]string{}, features...),
		labels:   append([]string{}, labels...),
		presplit: true,
	}
	for i := range idx.rows {
		idx.rows[i] = i
	}
	copy(idx.train, idx.rows[:trainNum])
	copy(idx.test, idx.rows[trainNum:])
	return idx
}

// CreateRandomSplit builds an Index by randomly partitioning numRows rows:
// the full index is shuffled and cut at floor(testSize*numRows), the front of
// the shuffle becoming the test partition and the remainder the train
// partition. A testSize outside [0, 1] is clamped, so the cut always lands
// inside the row index. The split is reproducible only when rng carries an
// explicit seed; a nil rng redraws on every call.
func CreateRandomSplit(numRows int, testSize float64, features []string, labels []string, rng *rand.Rand) *Index {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	idx := &Index{
		rows:     make([]int, numRows),
		features: append([]string{}, features...),
		labels:   append([]string{}, labels...),
	}
	for i := range idx.rows {
		idx.rows[i] = i
	}
	shuffled := make([]int, numRows)
	copy(shuffled, idx.rows)
	rng.Shuffle(numRows, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	split := int(testSize * float64(numRows))
	if split < 0 {
		split = 0
	}
	if split > numRows {
		split = numRows
	}
	idx.test = append([]int{}, shuffled[:split]...)
	idx.train = append([]int{}, shuffled[split:]...)
	return idx
}

// Resolve maps a subset key to the row and column selections it addresses.
// Recognized keys: "", "all", "data" (full table), "X", "y", "train", "test"
// and the compound "<X|y>_<train|test>". Unknown keys yield an
// InvalidSubsetError rather than silently returning the full table.
func (idx *Index) Resolve(key string) (rows []int, cols []string, err error) {
	switch key {
	case "", "all", "data":
		return idx.Rows(), idx.Columns(), nil
	case "X":
		return idx.Rows(), idx.Features(), nil
	case "y":
		if len(idx.labels) == 0 {
			return nil, nil, errors.InvalidSubsetError{Key: key}
		}
		return idx.Rows(), idx.Labels(), nil
	case "train":
		return idx.TrainRows(), idx.Columns(), nil
	case "test":
		return idx.TestRows(), idx.Columns(), nil
	}
	parts := strings.SplitN(key, "_", 2)
	if len(parts) == 2 {
		switch parts[0] {
		case "X":
			cols = idx.Features()
		case "y":
			cols = idx.Labels()
		}
		switch parts[1] {
		case "train":
			rows = idx.TrainRows()
		case "test":
			rows = idx.TestRows()
		}
		if len(cols) > 0 && rows != nil {
			return rows, cols, nil
		}
	}
	return nil, nil, errors.InvalidSubsetError{Key: key}
}

// Rows returns the full addressable row index
func (idx *Index) Rows() []int {
	return append([]int{}, idx.rows...)
}

// TrainRows returns the rows of the train partition
func (idx *Index) TrainRows() []int {
	return append([]int{}, idx.train...)
}

// TestRows returns the rows of the test partition
func (idx *Index) TestRows() []int {
	return append([]int{}, idx.test...)
}

// Features returns the feature-column selection
func (idx *Index) Features() []string {
	return append([]string{}, idx.features...)
}

// Labels returns the label-column selection
func (idx *Index) Labels() []string {
	return append([]string{}, idx.labels...)
}

// Columns returns the full column selection, features before labels
func (idx *Index) Columns() []string {
	cols := make([]string, 0, len(idx.features)+len(idx.labels))
	cols = append(cols, idx.features...)
	cols = append(cols, idx.labels...)
	return cols
}

// HasLabels returns true iff this Index addresses label columns
func (idx *Index) HasLabels() bool {
	return len(idx.labels) > 0
}

// Presplit returns true iff this Index was loaded from pre-split files
// rather than drawn randomly
func (idx *Index) Presplit() bool {
	return idx.presplit
}

// SetFeatures replaces the feature-column selection, preserving row
// selections. Used when encoding expands columns.
func (idx *Index) SetFeatures(names []string) {
	idx.features = append([]string{}, names...)
}

// Remove drops the given rows from the addressable index and from the train
// and test partitions, preserving relative order. The partition invariant
// (train and test disjoint, union equal to the addressable index) holds
// before and after.
func (idx *Index) Remove(drop map[int]bool) {
	if len(drop) == 0 {
		return
	}
	filter := func(rows []int) []int {
		kept := rows[:0]
		for _, r := range rows {
			if !drop[r] {
				kept = append(kept, r)
			}
		}
		return kept
	}
	idx.rows = filter(idx.rows)
	idx.train = filter(idx.train)
	idx.test = filter(idx.test)
}

// Clone returns a deep copy of this Index
func (idx *Index) Clone() *Index {
	return &Index{
		rows:     append([]int{}, idx.rows...),
		train:    append([]int{}, idx.train...),
		test:     append([]int{}, idx.test...),
		features: append([]string{}, idx.features...),
		labels:   append([]string{}, idx.labels...),
		presplit: idx.presplit,
	}
}
