package dataset

import (
	"os"
	"path/filepath"

	"github.com/go-automl/automl/errors"
	"github.com/go-automl/automl/internal/fileio"
	"github.com/go-automl/automl/schema"
	"github.com/go-automl/automl/table"
	"github.com/go-gota/gota/dataframe"
)

// FromCSV builds a Dataset from a headered CSV file: the AutoML convention
// files are generated under <inputDir>/<basename>_automl and then loaded
// through the regular constructor. When target names a column of the CSV it
// becomes the solution; an empty target produces a dataset without labels.
func FromCSV(inputDir string, basename string, csvPath string, target string, opts ...Option) (*Dataset, error) {
	path := csvPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(inputDir, csvPath)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.MissingFileError{Path: path}
	}
	defer f.Close()

	df := dataframe.ReadCSV(f)
	if df.Err != nil {
		return nil, df.Err
	}

	featDF := df
	var labelNames []string
	if target != "" {
		found := false
		for _, name := range df.Names() {
			if name == target {
				found = true
				break
			}
		}
		if !found {
			return nil, errors.MissingColumnError{Name: target}
		}
		featDF = df.Drop(target)
		if featDF.Err != nil {
			return nil, featDF.Err
		}
		labelNames = []string{target}
	}

	outDir := filepath.Join(inputDir, basename+"_automl")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}
	base := filepath.Join(outDir, basename)

	featRecords := dropHeader(featDF.Records())
	if err := fileio.WriteMatrix(base+".data", featRecords); err != nil {
		return nil, err
	}
	if err := fileio.WriteLines(base+"_feat.name", featDF.Names()); err != nil {
		return nil, err
	}
	types, err := inferCSVTypes(featRecords, featDF.Names())
	if err != nil {
		return nil, err
	}
	if err := fileio.WriteLines(base+"_feat.type", types); err != nil {
		return nil, err
	}
	if target != "" {
		solution := df.Select(target)
		if solution.Err != nil {
			return nil, solution.Err
		}
		if err := fileio.WriteMatrix(base+".solution", dropHeader(solution.Records())); err != nil {
			return nil, err
		}
		if err := fileio.WriteLines(base+"_label.name", labelNames); err != nil {
			return nil, err
		}
	}
	return Load(inputDir, basename, opts...)
}

// dropHeader strips the header row gota includes in Records
func dropHeader(records [][]string) [][]string {
	if len(records) == 0 {
		return records
	}
	return records[1:]
}

// inferCSVTypes classifies the generated feature columns so that the
// _feat.type sidecar can be written alongside the data
func inferCSVTypes(records [][]string, names []string) ([]string, error) {
	cols, err := buildColumns(records, names, "X")
	if err != nil {
		return nil, err
	}
	t, err := table.Create(cols...)
	if err != nil {
		return nil, err
	}
	sch, err := schema.Infer(t, names)
	if err != nil {
		return nil, err
	}
	return typeTokens(sch), nil
}
