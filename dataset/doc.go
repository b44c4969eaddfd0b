// Package dataset defines the typed traffic-stop Record and the immutable
// Dataset that queries run against.
//
// Columns are looked up once, when the Dataset is built. A Dataset knows
// which of the known columns its source carried, so a query can fail early
// with a MissingColumnError instead of reading zero values.
//
// # Building a Dataset
//
// Loaders produce rows as maps keyed by column name and hand them to
// FromRows, which coerces every known column into its typed field:
//
//	rows := []map[string]interface{}{
//	    {"violation": "Speeding", "driver_age": 31.0, "stop_outcome": "Citation"},
//	    {"violation": "DUI", "driver_age": nil, "stop_outcome": "Arrest Driver"},
//	}
//	ds, err := dataset.FromRows([]string{"violation", "driver_age", "stop_outcome"}, rows)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Null Values
//
// Every field is nullable. Text, Number and Flag carry a Valid bit the same
// way database/sql null types do; a nil or missing value in the source row
// yields an invalid (null) field.
//
// # Immutability
//
// Dataset has no mutating methods. Records and Columns return copies, and
// Each passes records by value.
package dataset
