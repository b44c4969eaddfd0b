package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/securecheck/dataset"
)

// ParquetReader reads a parquet file of traffic stops.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type ParquetReader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewParquetReader opens and validates a parquet file.
//
// Returns an error if the file doesn't exist or is not a valid parquet file.
func NewParquetReader(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &ParquetReader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadDataset reads every row into a Dataset.
func (r *ParquetReader) ReadDataset() (*dataset.Dataset, error) {
	t, err := r.readTable()
	if err != nil {
		return nil, err
	}
	return t.dataset()
}

// Columns returns the top-level column names in schema order.
func (r *ParquetReader) Columns() []string {
	return schemaColumns(r.pqFile.Schema())
}

// Close releases the file handle. It is safe to call Close multiple times.
func (r *ParquetReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *ParquetReader) readTable() (table, error) {
	return readParquetFile(r.pqFile)
}

// decodeParquet reads a parquet file held in memory
func decodeParquet(ra io.ReaderAt, size int64) (table, error) {
	pqFile, err := parquet.OpenFile(ra, size)
	if err != nil {
		return table{}, fmt.Errorf("failed to open parquet file: %w", err)
	}
	return readParquetFile(pqFile)
}

func readParquetFile(pqFile *parquet.File) (table, error) {
	rows := make([]map[string]interface{}, 0, int(pqFile.NumRows()))

	pr := parquet.NewReader(pqFile)
	defer func() { _ = pr.Close() }()

	for {
		row := make(map[string]interface{})
		err := pr.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return table{}, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	return table{columns: schemaColumns(pqFile.Schema()), rows: rows}, nil
}

func schemaColumns(schema *parquet.Schema) []string {
	fields := schema.Fields()
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, field.Name())
	}
	return columns
}
