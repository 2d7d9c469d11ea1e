// Package dataset implements the Dataset container for the AutoML file
// convention: it owns the raw and processed tables, the info record, the
// feature-type schema and the subset index, and coordinates loading,
// preprocessing, descriptor computation and saving.
package dataset

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/errors"
	"github.com/go-automl/automl/internal/fileio"
	"github.com/go-automl/automl/preprocess"
	"github.com/go-automl/automl/schema"
	"github.com/go-automl/automl/subset"
	"github.com/go-automl/automl/table"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// Dataset owns one shared table in two copies: raw, immutable after load, and
// processed, reset to a fresh copy of raw at the start of every Process run.
// Subset keys resolve against the subset index; feature types against the
// schema. Construction fails when required .data files are absent; missing
// optional sidecars degrade to inference.
type Dataset struct {
	id       uuid.UUID
	dir      string
	basename string

	raw       *table.Table
	processed *table.Table

	baseSchema *schema.Schema
	baseIndex  *subset.Index
	// working copies, transformed by the latest Process run
	sch *schema.Schema
	idx *subset.Index

	info         *Info
	log          zerolog.Logger
	processedRun bool
}

type options struct {
	testSize float64
	rng      *rand.Rand
	log      zerolog.Logger
}

// Option configures loading behaviour
type Option func(*options)

// WithTestSize sets the proportion of rows cut into the test partition when
// no pre-split files exist. Defaults to 0.2; values outside [0, 1] are
// clamped.
func WithTestSize(testSize float64) Option {
	return func(o *options) { o.testSize = testSize }
}

// WithRand threads an explicit random source through the train/test split,
// making it reproducible. Without it, every load redraws the split.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithLogger attaches a structured logger to the Dataset. Defaults to a
// no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// Load builds a Dataset from the AutoML files stored under inputDir for the
// given basename. A <basename>_automl subdirectory is preferred when it
// exists. Pre-split <basename>_train/_test files are loaded as contiguous
// blocks; otherwise the single .data file is split randomly.
func Load(inputDir string, basename string, opts ...Option) (*Dataset, error) {
	o := &options{testSize: 0.2, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	dir := filepath.Join(inputDir, basename+"_automl")
	if !fileio.IsDir(dir) {
		if !fileio.IsDir(inputDir) {
			return nil, errors.MissingFileError{Path: inputDir}
		}
		dir = inputDir
	}

	ds := &Dataset{
		dir:      dir,
		basename: basename,
		log:      o.log.With().Str("dataset", basename).Logger(),
	}
	if id, err := uuid.NewV4(); err == nil {
		ds.id = id
	}

	featNames := readOptionalNames(filepath.Join(dir, basename+"_feat.name"))
	labelNames := readOptionalNames(filepath.Join(dir, basename+"_label.name"))

	if err := ds.initData(featNames, labelNames, o); err != nil {
		return nil, err
	}
	ds.processed = ds.raw.Clone()

	if err := ds.initSchema(); err != nil {
		return nil, err
	}
	if err := ds.initInfo(); err != nil {
		return nil, err
	}

	ds.sch = ds.baseSchema.Clone()
	ds.idx = ds.baseIndex.Clone()
	ds.log.Debug().
		Str("id", ds.id.String()).
		Int("rows", ds.raw.NumRows()).
		Int("features", ds.baseSchema.NumFeatures()).
		Bool("presplit", ds.baseIndex.Presplit()).
		Msg("dataset loaded")
	return ds, nil
}

// initData locates and loads the .data/.solution files, builds the raw table
// and constructs the subset index
func (ds *Dataset) initData(featNames []string, labelNames []string, o *options) error {
	trainPath := filepath.Join(ds.dir, ds.basename+"_train.data")
	plainPath := filepath.Join(ds.dir, ds.basename+".data")

	switch {
	case fileio.Exists(trainPath):
		return ds.loadPresplit(featNames, labelNames)
	case fileio.Exists(plainPath):
		return ds.loadUnsplit(featNames, labelNames, o)
	default:
		return errors.MissingFileError{Path: plainPath}
	}
}

// loadPresplit loads <base>_train.data and <base>_test.data as contiguous
// blocks, train rows first
func (ds *Dataset) loadPresplit(featNames []string, labelNames []string) error {
	train, err := fileio.ReadMatrix(filepath.Join(ds.dir, ds.basename+"_train.data"))
	if err != nil {
		return err
	}
	test, err := fileio.ReadMatrix(filepath.Join(ds.dir, ds.basename+"_test.data"))
	if err != nil {
		return err
	}
	var result *multierror.Error
	if len(train) > 0 && len(test) > 0 && len(train[0]) != len(test[0]) {
		result = multierror.Append(result, errors.DimensionMismatchError{
			Subject: "test data columns", Expected: len(train[0]), Actual: len(test[0]),
		})
	}

	features, err := buildColumns(append(append([][]string{}, train...), test...), featNames, "X")
	if err != nil {
		result = multierror.Append(result, err)
	}

	var labels []*table.Column
	trainSolution := filepath.Join(ds.dir, ds.basename+"_train.solution")
	if fileio.Exists(trainSolution) {
		ytrain, err := fileio.ReadMatrix(trainSolution)
		if err != nil {
			return err
		}
		ytest, err := fileio.ReadMatrix(filepath.Join(ds.dir, ds.basename+"_test.solution"))
		if err != nil {
			return err
		}
		if len(ytrain) != len(train) {
			result = multierror.Append(result, errors.DimensionMismatchError{
				Subject: "train solution rows", Expected: len(train), Actual: len(ytrain),
			})
		}
		if len(ytest) != len(test) {
			result = multierror.Append(result, errors.DimensionMismatchError{
				Subject: "test solution rows", Expected: len(test), Actual: len(ytest),
			})
		}
		labels, err = buildColumns(append(append([][]string{}, ytrain...), ytest...), labelNames, "y")
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	raw, err := table.Create(append(features, labels...)...)
	if err != nil {
		return err
	}
	ds.raw = raw
	ds.baseIndex = subset.CreateFromBlocks(len(train), len(test), columnNames(features), columnNames(labels))
	return nil
}

// loadUnsplit loads a single <base>.data file and draws a random train/test
// partition
func (ds *Dataset) loadUnsplit(featNames []string, labelNames []string, o *options) error {
	data, err := fileio.ReadMatrix(filepath.Join(ds.dir, ds.basename+".data"))
	if err != nil {
		return err
	}
	features, err := buildColumns(data, featNames, "X")
	if err != nil {
		return err
	}

	var labels []*table.Column
	solutionPath := filepath.Join(ds.dir, ds.basename+".solution")
	if fileio.Exists(solutionPath) {
		solution, err := fileio.ReadMatrix(solutionPath)
		if err != nil {
			return err
		}
		if len(solution) != len(data) {
			return errors.DimensionMismatchError{Subject: "solution rows", Expected: len(data), Actual: len(solution)}
		}
		labels, err = buildColumns(solution, labelNames, "y")
		if err != nil {
			return err
		}
	}

	raw, err := table.Create(append(features, labels...)...)
	if err != nil {
		return err
	}
	ds.raw = raw
	ds.baseIndex = subset.CreateRandomSplit(len(data), o.testSize, columnNames(features), columnNames(labels), o.rng)
	return nil
}

// initSchema loads _feat.type when present and infers feature types otherwise
func (ds *Dataset) initSchema() error {
	typePath := filepath.Join(ds.dir, ds.basename+"_feat.type")
	featNames := ds.baseIndex.Features()
	if fileio.Exists(typePath) {
		tokens, err := fileio.ReadLines(typePath)
		if err != nil {
			return err
		}
		if len(tokens) != len(featNames) {
			return errors.DimensionMismatchError{Subject: typePath, Expected: len(featNames), Actual: len(tokens)}
		}
		types, err := parseTypes(tokens)
		if err != nil {
			return err
		}
		sch, err := schema.Create(featNames, types)
		if err != nil {
			return err
		}
		ds.baseSchema = sch
		return nil
	}
	ds.log.Warn().Str("path", typePath).Msg("no type file found, inferring feature types")
	sch, err := schema.Infer(ds.raw, featNames)
	if err != nil {
		return err
	}
	ds.baseSchema = sch
	return nil
}

// initInfo loads _public.info when present and derives the info record
// otherwise
func (ds *Dataset) initInfo() error {
	infoPath := filepath.Join(ds.dir, ds.basename+"_public.info")
	if fileio.Exists(infoPath) {
		pairs, err := fileio.ReadInfo(infoPath)
		if err != nil {
			return err
		}
		ds.info = parseInfo(pairs)
		return nil
	}
	ds.log.Warn().Str("path", infoPath).Msg("no info file found, deriving dataset info")
	ds.info = deriveInfo(ds.basename, ds.raw, ds.baseIndex)
	return nil
}

// ID returns the unique identifier assigned to this Dataset instance at load time
func (ds *Dataset) ID() uuid.UUID {
	return ds.id
}

// Name returns the dataset basename
func (ds *Dataset) Name() string {
	return ds.basename
}

// Info returns the dataset's info record
func (ds *Dataset) Info() *Info {
	return ds.info
}

// Schema returns the feature-type schema as transformed by the latest
// Process run
func (ds *Dataset) Schema() *schema.Schema {
	return ds.sch
}

// FeatureNames returns the raw feature-column names
func (ds *Dataset) FeatureNames() []string {
	return ds.baseIndex.Features()
}

// LabelNames returns the label-column names
func (ds *Dataset) LabelNames() []string {
	return ds.baseIndex.Labels()
}

// NumFeatures returns the number of raw feature columns
func (ds *Dataset) NumFeatures() int {
	return len(ds.baseIndex.Features())
}

// Fingerprint produces a hash of the raw table, used to detect identical
// datasets without a cell-by-cell comparison
func (ds *Dataset) Fingerprint() uint64 {
	return ds.raw.Fingerprint()
}

// IsProcessed returns true iff Process has run since load
func (ds *Dataset) IsProcessed() bool {
	return ds.processedRun
}

// GetData resolves a subset key ("X", "y_train", "test", ...) and returns a
// copy of the addressed cells, from the processed table when processed is
// true and from the raw table otherwise
func (ds *Dataset) GetData(key string, processed bool) (*table.Table, error) {
	if processed {
		if !ds.processedRun {
			ds.log.Warn().Str("subset", key).Msg("data has not been processed yet")
		}
		rows, cols, err := ds.idx.Resolve(key)
		if err != nil {
			return nil, err
		}
		return ds.processed.Select(rows, cols)
	}
	rows, cols, err := ds.baseIndex.Resolve(key)
	if err != nil {
		return nil, err
	}
	return ds.raw.Select(rows, cols)
}

// SetData writes values back into the cells addressed by a subset key. The
// shape of values must match the resolved selection.
func (ds *Dataset) SetData(key string, processed bool, values *table.Table) error {
	if processed {
		rows, cols, err := ds.idx.Resolve(key)
		if err != nil {
			return err
		}
		return ds.processed.SetValues(rows, cols, values)
	}
	rows, cols, err := ds.baseIndex.Resolve(key)
	if err != nil {
		return err
	}
	return ds.raw.SetValues(rows, cols, values)
}

// Process resets the processed table to a fresh copy of raw and runs the
// encode, impute and normalize stages with the given configuration. The
// working subset index and schema are reset alongside, so repeated calls with
// the same configuration produce bitwise-identical processed tables.
func (ds *Dataset) Process(cfg preprocess.Config) (*table.Table, error) {
	res, err := preprocess.Run(ds.raw, ds.baseIndex, ds.baseSchema, cfg)
	if err != nil {
		return nil, err
	}
	ds.processed = res.Table
	ds.idx = res.Index
	ds.sch = res.Schema
	ds.processedRun = true
	ds.log.Debug().
		Str("encoding", string(cfg.Encoding)).
		Str("normalization", string(cfg.Normalization)).
		Msg("preprocessing complete")
	return ds.processed, nil
}

// Save writes the raw dataset back to disk under outPath in the AutoML file
// convention, using outName as the basename. Pre-split datasets are written
// back as _train/_test pairs in addition to the combined files.
func (ds *Dataset) Save(outPath string, outName string) error {
	if err := os.MkdirAll(outPath, 0755); err != nil {
		return err
	}
	write := func(suffix string, key string) error {
		t, err := ds.GetData(key, false)
		if err != nil {
			return err
		}
		return fileio.WriteMatrix(filepath.Join(outPath, outName+suffix), tableRecords(t))
	}

	if err := write(".data", "X"); err != nil {
		return err
	}
	if err := fileio.WriteLines(filepath.Join(outPath, outName+"_feat.name"), ds.baseIndex.Features()); err != nil {
		return err
	}
	if err := fileio.WriteLines(filepath.Join(outPath, outName+"_feat.type"), typeTokens(ds.baseSchema)); err != nil {
		return err
	}
	if ds.baseIndex.HasLabels() {
		if err := write(".solution", "y"); err != nil {
			return err
		}
		if err := fileio.WriteLines(filepath.Join(outPath, outName+"_label.name"), ds.baseIndex.Labels()); err != nil {
			return err
		}
	}
	if ds.baseIndex.Presplit() {
		if err := write("_train.data", "X_train"); err != nil {
			return err
		}
		if err := write("_test.data", "X_test"); err != nil {
			return err
		}
		if ds.baseIndex.HasLabels() {
			if err := write("_train.solution", "y_train"); err != nil {
				return err
			}
			if err := write("_test.solution", "y_test"); err != nil {
				return err
			}
		}
	}
	return fileio.WriteInfo(filepath.Join(outPath, outName+"_public.info"), ds.info.pairs())
}

// readOptionalNames loads a .name sidecar, returning nil when it is absent
func readOptionalNames(path string) []string {
	if !fileio.Exists(path) {
		return nil
	}
	names, err := fileio.ReadLines(path)
	if err != nil {
		return nil
	}
	return names
}

// buildColumns turns a cell matrix into named columns. Columns whose cells
// all parse as numbers become numeric columns with NaN marking missing cells;
// any non-numeric cell makes the whole column text-backed. Generated names
// (prefix + index) are used when the sidecar provided none.
func buildColumns(rows [][]string, names []string, prefix string) ([]*table.Column, error) {
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	} else if len(names) > 0 {
		width = len(names)
	}
	if names != nil && len(names) != width {
		return nil, errors.DimensionMismatchError{Subject: prefix + " names", Expected: width, Actual: len(names)}
	}
	cols := make([]*table.Column, width)
	for j := 0; j < width; j++ {
		name := prefix + strconv.Itoa(j)
		if names != nil {
			name = names[j]
		}
		values := make([]float64, len(rows))
		numeric := true
		for i, row := range rows {
			if isMissingToken(row[j]) {
				values[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				numeric = false
				break
			}
			values[i] = v
		}
		if numeric {
			cols[j] = table.CreateColumn(name, values)
			continue
		}
		text := make([]string, len(rows))
		for i, row := range rows {
			if !isMissingToken(row[j]) {
				text[i] = row[j]
			}
		}
		cols[j] = table.CreateTextColumn(name, text)
	}
	return cols, nil
}

func isMissingToken(cell string) bool {
	return cell == "" || cell == "NaN" || cell == "nan" || cell == "?"
}

// parseTypes translates _feat.type tokens into FeatureTypes
func parseTypes(tokens []string) ([]automl.FeatureType, error) {
	types := make([]automl.FeatureType, len(tokens))
	for i, token := range tokens {
		t, err := automl.ParseFeatureType(token)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

func columnNames(cols []*table.Column) []string {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	return names
}

func tableRecords(t *table.Table) [][]string {
	records := make([][]string, t.NumRows())
	names := t.ColumnNames()
	for i := range records {
		records[i] = make([]string, len(names))
	}
	for j, name := range names {
		col, _ := t.Column(name)
		for i := 0; i < t.NumRows(); i++ {
			cell := col.CellString(i)
			if cell == "" {
				// empty cells would produce ragged rows in the
				// whitespace-separated layout
				cell = "NaN"
			}
			records[i][j] = cell
		}
	}
	return records
}

func typeTokens(sch *schema.Schema) []string {
	types := sch.Types()
	tokens := make([]string, len(types))
	for i, t := range types {
		tokens[i] = string(t)
	}
	return tokens
}
