// Package fileio implements readers and writers for the AutoML plain-text
// file convention: whitespace-separated .data/.solution tables, one-per-line
// .name/.type sidecars and "key = value" .info sidecars.
package fileio

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/go-automl/automl/errors"
)

// KV is one "key = value" line of a _public.info file, kept as an ordered
// pair so files round-trip in their original order
type KV struct {
	Key   string
	Value string
}

// Exists returns true iff path names an existing file
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsDir returns true iff path names an existing directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadMatrix reads a whitespace-separated table with no header, one row per
// line, such as a .data or .solution file. Cells are returned unparsed.
// A run of whitespace counts as a single separator, which is why this reader
// splits on fields rather than wrapping encoding/csv with a space delimiter.
func ReadMatrix(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.MissingFileError{Path: path}
	}
	defer f.Close()
	var rows [][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	width := -1
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if width < 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, errors.DimensionMismatchError{Subject: path, Expected: width, Actual: len(fields)}
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadLines reads a one-entry-per-line sidecar such as a _feat.name or
// _feat.type file, trimming surrounding whitespace
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.MissingFileError{Path: path}
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// ReadInfo reads a _public.info sidecar of "key = value" lines. Surrounding
// quotes and whitespace are stripped from keys and values.
func ReadInfo(path string) ([]KV, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	var pairs []KV
	for _, line := range lines {
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		pairs = append(pairs, KV{
			Key:   strings.Trim(strings.TrimSpace(parts[0]), "'"),
			Value: strings.Trim(strings.TrimSpace(parts[1]), "'"),
		})
	}
	return pairs, nil
}

// WriteMatrix writes a table in the .data/.solution layout: one row per line,
// cells separated by single spaces, no header
func WriteMatrix(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, row := range rows {
		if _, err := w.WriteString(strings.Join(row, " ")); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteLines writes a one-entry-per-line sidecar
func WriteLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteInfo writes a _public.info sidecar of "key = value" lines in the
// order given
func WriteInfo(path string, pairs []KV) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, kv := range pairs {
		if _, err := fmt.Fprintf(w, "%s = %s\n", kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return w.Flush()
}
