package reader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gammazero/workerpool"

	"github.com/vegasq/securecheck/dataset"
)

// Format is an input file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatParquet Format = "parquet"
)

// maxFiles bounds how many files a glob may expand to
const maxFiles = 1000

// fileColumn tags rows read through a glob with their source path
const fileColumn = "_file"

// ParseFormat resolves a format name. "ndjson" is accepted for JSON Lines.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: csv, json, jsonl, parquet)", name)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot detect format of %q: no file extension", path)
	}
	return ParseFormat(ext)
}

// table holds decoded rows before they are typed
type table struct {
	columns []string
	rows    []map[string]interface{}
}

// Read decodes a dataset of format f from r.
func Read(r io.Reader, f Format) (*dataset.Dataset, error) {
	t, err := decode(r, f)
	if err != nil {
		return nil, err
	}
	return t.dataset()
}

// ReadFile reads one file, picking the format from its extension.
func ReadFile(path string) (*dataset.Dataset, error) {
	t, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return t.dataset()
}

// ReadMultipleFiles reads all files matching a glob pattern into one dataset.
//
// The pattern can include wildcards:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//
// A pattern without wildcards reads a single file and adds no "_file"
// column. Returns an error if no files match or if any file fails to read.
func ReadMultipleFiles(pattern string) (*dataset.Dataset, error) {
	if !strings.ContainsAny(pattern, "*?[]") {
		return ReadFile(pattern)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	tables, err := decodeFiles(matches)
	if err != nil {
		return nil, err
	}

	merged := table{}
	seen := make(map[string]bool)
	addColumn := func(col string) {
		if !seen[col] {
			seen[col] = true
			merged.columns = append(merged.columns, col)
		}
	}

	for i, path := range matches {
		t := tables[i]
		for _, col := range t.columns {
			addColumn(col)
		}
		for _, row := range t.rows {
			row[fileColumn] = path
		}
		merged.rows = append(merged.rows, t.rows...)
	}
	addColumn(fileColumn)

	return merged.dataset()
}

// decodeFiles decodes paths concurrently. Results keep the order of paths;
// the first failing path in that order is reported.
func decodeFiles(paths []string) ([]table, error) {
	tables := make([]table, len(paths))
	errs := make([]error, len(paths))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(paths) {
		workers = len(paths)
	}
	wp := workerpool.New(workers)
	for i, path := range paths {
		wp.Submit(func() {
			tables[i], errs[i] = decodeFile(path)
		})
	}
	wp.StopWait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", paths[i], err)
		}
	}
	return tables, nil
}

func decodeFile(path string) (table, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return table{}, err
	}

	if f == FormatParquet {
		r, err := NewParquetReader(path)
		if err != nil {
			return table{}, err
		}
		defer func() { _ = r.Close() }()
		return r.readTable()
	}

	file, err := os.Open(path)
	if err != nil {
		return table{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return decode(file, f)
}

func decode(r io.Reader, f Format) (table, error) {
	switch f {
	case FormatCSV:
		return decodeCSV(r)
	case FormatJSON:
		return decodeJSON(r)
	case FormatJSONL:
		return decodeJSONLines(r)
	case FormatParquet:
		// parquet needs random access, so buffer the stream
		data, err := io.ReadAll(r)
		if err != nil {
			return table{}, fmt.Errorf("failed to read parquet data: %w", err)
		}
		return decodeParquet(bytes.NewReader(data), int64(len(data)))
	default:
		return table{}, fmt.Errorf("unsupported format %q", string(f))
	}
}

func (t table) dataset() (*dataset.Dataset, error) {
	ds, err := dataset.FromRows(t.columns, t.rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset: %w", err)
	}
	return ds, nil
}
