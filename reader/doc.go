// Package reader loads traffic-stop datasets from CSV, JSON, JSON Lines and
// Apache Parquet files.
//
// Every format is decoded into rows keyed by column name and then handed to
// dataset.FromRows, so all formats share the same type coercion and the same
// column presence rules.
//
// # Basic Usage
//
// Reading a single file, with the format picked from its extension:
//
//	ds, err := reader.ReadFile("police_logs.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(reader.Summarize(ds))
//
// Reading from an arbitrary stream, such as an HTTP upload:
//
//	ds, err := reader.Read(req.Body, reader.FormatJSON)
//
// # Multi-file Operations
//
// Reading multiple files using glob patterns:
//
//	ds, err := reader.ReadMultipleFiles("logs/2024-*.csv")
//
// Rows keep file order. Each row read through a glob carries a "_file"
// column with its source path, and the column set is the union across files.
// Matched files are decoded concurrently.
//
// # Format Notes
//
//   - CSV: the first row is the header; names are kept verbatim apart
//     from a leading byte-order mark. Empty cells and the pandas default
//     missing markers (NA, N/A, n/a, NaN, nan, null, NULL, None, #N/A,
//     <NA> and the rest of its na_values set) are null.
//   - JSON: numbers are decoded with UseNumber. An array of objects, a stream of objects, or the column
//     orientation {"column": {"0": value, ...}} written by pandas.
//   - JSON Lines: one object per line.
//   - Parquet: read with github.com/parquet-go/parquet-go. Null values
//     of optional columns are null.
package reader
