// Package query runs the fixed menu of traffic-stop analytics against a
// loaded dataset.
//
// Each query is identified by an ID from a closed set. Run maps an ID to a
// deterministic, side-effect free computation over a *dataset.Dataset and
// returns a Result that is either a scalar, a ranked category/count table,
// or an explicit "no data" marker.
//
// # Basic Usage
//
//	ds, err := reader.ReadFile("police_logs.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := query.Run(ds, query.ViolationCounts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, row := range res.Table.Rows {
//	    fmt.Printf("%s: %d\n", row.Category, row.Count)
//	}
//
// Queries can also be selected by name, which is how the CLI and the HTTP
// server pick them:
//
//	id, err := query.Parse("Top 5 Most Frequent Search Types")
//
// # Supported Queries
//
//   - TotalStops: number of rows
//   - ViolationCounts: stops per violation
//   - OutcomeCounts: stops per outcome
//   - AverageDriverAge: mean of non-null driver ages
//   - TopSearchTypes: five most frequent non-empty search types
//   - GenderCounts: stops per driver gender
//   - ViolationForArrests: violations of stops whose outcome mentions an arrest
//
// # Ordering
//
// Table rows are sorted by descending count. Ties keep the order in which
// the category first appears in the dataset. Null categories are never
// counted.
//
// # Error Handling
//
// Run returns a *dataset.MissingColumnError when a non-empty dataset lacks
// a column the query reads, and an *UnknownQueryError for an ID outside the
// menu. A zero-row dataset never fails the column check: counts come back
// as zero or as empty tables. An average over no values is reported as a
// Result of KindNoData rather than NaN.
package query
