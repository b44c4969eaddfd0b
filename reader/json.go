package reader

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/vegasq/securecheck/dataset"
)

// decodeJSON accepts an array of objects, a stream of objects, or a single
// object of columns mapping row index to value.
func decodeJSON(r io.Reader) (table, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return table{}, fmt.Errorf("empty JSON input")
		}
		return table{}, err
	}

	switch first {
	case '[':
		var rows []map[string]interface{}
		dec := json.NewDecoder(br)
		dec.UseNumber()
		if err := dec.Decode(&rows); err != nil {
			return table{}, fmt.Errorf("decode JSON array: %w", err)
		}
		return recordsTable(rows), nil
	case '{':
		rows, err := decodeObjects(br)
		if err != nil {
			return table{}, err
		}
		if len(rows) == 1 && isColumnOriented(rows[0]) {
			return columnsTable(rows[0]), nil
		}
		return recordsTable(rows), nil
	default:
		return table{}, fmt.Errorf("unexpected JSON input starting with %q", first)
	}
}

// decodeJSONLines reads one object per line. Blank lines are skipped.
func decodeJSONLines(r io.Reader) (table, error) {
	rows, err := decodeObjects(r)
	if err != nil {
		return table{}, err
	}
	return recordsTable(rows), nil
}

func decodeObjects(r io.Reader) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var rows []map[string]interface{}
	for n := 1; ; n++ {
		var row map[string]interface{}
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode JSON object %d: %w", n, err)
		}
		if row == nil {
			return nil, fmt.Errorf("decode JSON object %d: null is not an object", n)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

func recordsTable(rows []map[string]interface{}) table {
	return table{columns: dataset.ColumnNames(rows), rows: rows}
}

// isColumnOriented reports whether every value of obj is itself an object
func isColumnOriented(obj map[string]interface{}) bool {
	if len(obj) == 0 {
		return false
	}
	for _, v := range obj {
		if _, ok := v.(map[string]interface{}); !ok {
			return false
		}
	}
	return true
}

// columnsTable pivots {"column": {"index": value}} into rows ordered by
// index. Numeric indexes sort numerically.
func columnsTable(obj map[string]interface{}) table {
	columns := make([]string, 0, len(obj))
	indexSet := make(map[string]bool)
	for col, v := range obj {
		columns = append(columns, col)
		for idx := range v.(map[string]interface{}) {
			indexSet[idx] = true
		}
	}
	sort.Strings(columns)

	indexes := make([]string, 0, len(indexSet))
	for idx := range indexSet {
		indexes = append(indexes, idx)
	}
	sort.Slice(indexes, func(i, j int) bool {
		a, errA := strconv.Atoi(indexes[i])
		b, errB := strconv.Atoi(indexes[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return indexes[i] < indexes[j]
	})

	rows := make([]map[string]interface{}, 0, len(indexes))
	for _, idx := range indexes {
		row := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			row[col] = obj[col].(map[string]interface{})[idx]
		}
		rows = append(rows, row)
	}
	return table{columns: columns, rows: rows}
}
