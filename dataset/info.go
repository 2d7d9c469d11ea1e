package dataset

import (
	"math"
	"sort"
	"strconv"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/internal/fileio"
	"github.com/go-automl/automl/subset"
	"github.com/go-automl/automl/table"
)

// Info is the dataset metadata record, either loaded verbatim from a
// _public.info sidecar or derived from the loaded table when the sidecar is
// absent. Keys not known in advance land in the Extra map and round-trip
// through Save unchanged.
type Info struct {
	Task       automl.TaskType
	TargetType string
	Metric     string
	Format     string
	Name       string
	Usage      string
	FeatType   string

	FeatNum        int
	TrainNum       int
	TestNum        int
	TargetNum      int
	LabelNum       int
	TimeBudget     int
	IsSparse       int
	HasCategorical int
	HasMissing     int

	Extra map[string]string
}

// parseInfo builds an Info from the "key = value" pairs of a _public.info
// file. Unrecognized keys, and recognized numeric keys whose values fail to
// parse, are preserved in Extra.
func parseInfo(pairs []fileio.KV) *Info {
	info := &Info{Extra: make(map[string]string)}
	setInt := func(dst *int, kv fileio.KV) {
		v, err := strconv.Atoi(kv.Value)
		if err != nil {
			info.Extra[kv.Key] = kv.Value
			return
		}
		*dst = v
	}
	for _, kv := range pairs {
		switch kv.Key {
		case "task":
			info.Task = automl.TaskType(kv.Value)
		case "target_type":
			info.TargetType = kv.Value
		case "metric":
			info.Metric = kv.Value
		case "format":
			info.Format = kv.Value
		case "name":
			info.Name = kv.Value
		case "usage":
			info.Usage = kv.Value
		case "feat_type":
			info.FeatType = kv.Value
		case "feat_num":
			setInt(&info.FeatNum, kv)
		case "train_num":
			setInt(&info.TrainNum, kv)
		case "test_num":
			setInt(&info.TestNum, kv)
		case "target_num":
			setInt(&info.TargetNum, kv)
		case "label_num":
			setInt(&info.LabelNum, kv)
		case "time_budget":
			setInt(&info.TimeBudget, kv)
		case "is_sparse":
			setInt(&info.IsSparse, kv)
		case "has_categorical":
			setInt(&info.HasCategorical, kv)
		case "has_missing":
			setInt(&info.HasMissing, kv)
		default:
			info.Extra[kv.Key] = kv.Value
		}
	}
	return info
}

// deriveInfo builds an Info from the loaded table when no _public.info
// sidecar exists: counts from the subset index, the task from the label
// columns, and conventional defaults for the rest
func deriveInfo(basename string, t *table.Table, idx *subset.Index) *Info {
	info := &Info{
		Format:     "dense",
		Name:       basename,
		Usage:      "No info file",
		FeatType:   "mixed",
		TimeBudget: 600,
		FeatNum:    len(idx.Features()),
		TrainNum:   len(idx.TrainRows()),
		Task:       automl.UnknownTask,
		Extra:      make(map[string]string),
	}
	for _, name := range idx.Features() {
		col, err := t.Column(name)
		if err != nil {
			continue
		}
		if col.IsText() {
			info.HasCategorical = 1
		}
		for i := 0; i < col.Len(); i++ {
			if col.IsMissing(i) {
				info.HasMissing = 1
				break
			}
		}
	}
	if idx.HasLabels() {
		info.TestNum = len(idx.TestRows())
		info.TargetNum = len(idx.Labels())
		inferTask(info, t, idx)
	}
	if info.Task == automl.Regression {
		info.Metric = "r2_metric"
	} else {
		info.Metric = "auc_metric"
	}
	return info
}

// inferTask classifies the learning task from the label columns: a single
// target is a classification task when its cardinality is small relative to
// the row count and a regression task otherwise; several indicator targets
// are multilabel when any row activates more than one of them
func inferTask(info *Info, t *table.Table, idx *subset.Index) {
	labels := idx.Labels()
	rows := idx.Rows()
	if len(labels) == 1 {
		col, err := t.Column(labels[0])
		if err != nil {
			return
		}
		distinct := make(map[string]bool)
		for _, r := range rows {
			if !col.IsMissing(r) {
				distinct[col.CellString(r)] = true
			}
		}
		if len(distinct) < len(rows)/8 {
			info.LabelNum = len(distinct)
			if len(distinct) == 2 {
				info.Task = automl.BinaryClassification
				info.TargetType = "binary"
			} else {
				info.Task = automl.MulticlassClassification
				info.TargetType = "categorical"
			}
		} else {
			info.LabelNum = 0
			info.Task = automl.Regression
			info.TargetType = "numerical"
		}
		return
	}

	info.LabelNum = len(labels)
	info.TargetType = "binary"
	info.Task = automl.MulticlassClassification
	for _, r := range rows {
		sum := 0
		for _, name := range labels {
			col, err := t.Column(name)
			if err != nil {
				return
			}
			if !col.IsMissing(r) && !col.IsText() {
				sum += int(col.Values[r])
			}
		}
		if sum > 1 {
			info.Task = automl.MultilabelClassification
			return
		}
	}
}

// pairs produces the "key = value" lines of this Info in canonical order,
// Extra keys last in sorted order
func (info *Info) pairs() []fileio.KV {
	pairs := []fileio.KV{
		{Key: "usage", Value: info.Usage},
		{Key: "name", Value: info.Name},
		{Key: "task", Value: string(info.Task)},
		{Key: "target_type", Value: info.TargetType},
		{Key: "feat_type", Value: info.FeatType},
		{Key: "metric", Value: info.Metric},
		{Key: "format", Value: info.Format},
		{Key: "feat_num", Value: strconv.Itoa(info.FeatNum)},
		{Key: "target_num", Value: strconv.Itoa(info.TargetNum)},
		{Key: "label_num", Value: strconv.Itoa(info.LabelNum)},
		{Key: "train_num", Value: strconv.Itoa(info.TrainNum)},
		{Key: "test_num", Value: strconv.Itoa(info.TestNum)},
		{Key: "has_categorical", Value: strconv.Itoa(info.HasCategorical)},
		{Key: "has_missing", Value: strconv.Itoa(info.HasMissing)},
		{Key: "is_sparse", Value: strconv.Itoa(info.IsSparse)},
		{Key: "time_budget", Value: strconv.Itoa(info.TimeBudget)},
	}
	extras := make([]string, 0, len(info.Extra))
	for k := range info.Extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	for _, k := range extras {
		pairs = append(pairs, fileio.KV{Key: k, Value: info.Extra[k]})
	}
	return pairs
}

// Ratio returns the feature-to-train-instance ratio recorded in this Info
func (info *Info) Ratio() float64 {
	if info.TrainNum == 0 {
		return math.NaN()
	}
	return float64(info.FeatNum) / float64(info.TrainNum)
}
