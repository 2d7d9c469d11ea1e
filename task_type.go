package automl

// TaskType describes the learning task a dataset was assembled for. It is
// loaded from the _public.info sidecar file when present, and otherwise
// derived from the shape and contents of the solution columns.
type TaskType string

const (
	// BinaryClassification indicates a single target with two classes
	BinaryClassification TaskType = "binary.classification"
	// MulticlassClassification indicates a single target with more than two classes,
	// or several mutually-exclusive indicator targets
	MulticlassClassification TaskType = "multiclass.classification"
	// MultilabelClassification indicates several non-exclusive indicator targets
	MultilabelClassification TaskType = "multilabel.classification"
	// Regression indicates a continuous target
	Regression TaskType = "regression"
	// UnknownTask indicates that the task could not be determined,
	// typically because the dataset carries no labels
	UnknownTask TaskType = "Unknown"
)

// IsClassification returns true iff this TaskType is one of the classification tasks
func (t TaskType) IsClassification() bool {
	return t == BinaryClassification || t == MulticlassClassification || t == MultilabelClassification
}
