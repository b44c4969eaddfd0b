package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vegasq/securecheck/dataset"
	"github.com/vegasq/securecheck/internal/config"
	"github.com/vegasq/securecheck/internal/logging"
	"github.com/vegasq/securecheck/internal/sample"
	"github.com/vegasq/securecheck/internal/server"
	"github.com/vegasq/securecheck/output"
	"github.com/vegasq/securecheck/predict"
	"github.com/vegasq/securecheck/query"
	"github.com/vegasq/securecheck/reader"
	"github.com/vegasq/securecheck/submission"
)

var (
	queryFlag  = flag.String("q", "TotalStops", "Query to run: menu number, name or title (see -list)")
	formatFlag = flag.String("f", "", "Output format: "+strings.Join(output.Names(), ", ")+" (default from config, else table)")
	limitFlag  = flag.Int("limit", 0, "Limit number of table rows (0 = unlimited)")
	listFlag   = flag.Bool("list", false, "List the available queries")
	schemaFlag = flag.Bool("schema", false, "Show dataset summary instead of running a query")
	rowsFlag   = flag.Bool("rows", false, "Show the loaded records (first -limit rows) instead of running a query")
	submitFlag = flag.String("submit", "", "Validate a police log entry from a JSON file and print the predicted outcome")
	serveFlag  = flag.Bool("serve", false, "Run the HTTP server")
	configFlag = flag.String("config", "", "Config file (default: securecheck.{json,yaml} in ./configs or .)")
	genFlag    = flag.Int("generate", 0, "Write this many synthetic stops to the file argument instead of reading it")
	seedFlag   = flag.Int64("seed", 1, "Random seed for -generate")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file|glob>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Run descriptive queries over traffic-stop records (CSV, JSON, JSON Lines, Parquet).\n\n")
		fmt.Fprintf(os.Stderr, "IMPORTANT: All flags must come BEFORE file arguments.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s stops.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q ViolationCounts -f chart stops.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q 5 -f csv \"data/*.json\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -schema stops.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rows -limit 20 stops.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -submit entry.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -generate 10000 stops.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -serve -config configs/securecheck.yaml\n", os.Args[0])
	}

	flag.Parse()

	// Validate flag values
	if *limitFlag < 0 {
		fmt.Fprintf(os.Stderr, "Error: -limit must be non-negative, got %d\n", *limitFlag)
		os.Exit(1)
	}
	if *genFlag < 0 {
		fmt.Fprintf(os.Stderr, "Error: -generate must be non-negative, got %d\n", *genFlag)
		os.Exit(1)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.DisableTimestamp)

	format := cfg.Output.Format
	if *formatFlag != "" {
		format = *formatFlag
	}

	switch {
	case *listFlag:
		err = listQueries(os.Stdout)
	case *serveFlag:
		err = serve(cfg, logger)
	case *submitFlag != "":
		err = submitForm(os.Stdout, *submitFlag, format)
	default:
		if flag.NArg() < 1 {
			fmt.Fprintf(os.Stderr, "Error: missing data file argument\n\n")
			flag.Usage()
			os.Exit(1)
		}
		filename := flag.Arg(0)
		switch {
		case *genFlag > 0:
			err = generate(logger, filename, *genFlag, *seedFlag)
		case *schemaFlag:
			err = handleSchemaMode(os.Stdout, logger, filename, format)
		case *rowsFlag:
			err = showRecords(os.Stdout, logger, filename, format, *limitFlag)
		default:
			err = runQuery(os.Stdout, logger, filename, *queryFlag, format, *limitFlag)
		}
	}

	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err with a hint for the error kinds users can fix
func reportError(w io.Writer, err error) {
	var missing *dataset.MissingColumnError
	switch {
	case errors.As(err, &missing):
		fmt.Fprintf(w, "Error: %v\n", err)
		fmt.Fprintf(w, "The dataset has no %q column; use -schema to see the columns it carries.\n", string(missing.Column))
	case errors.Is(err, query.ErrUnknownQuery):
		fmt.Fprintf(w, "Error: %v\n", err)
		fmt.Fprintf(w, "Use -list to see the available queries.\n")
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(w, "Error: %v\n", err)
		fmt.Fprintf(w, "Please check the file path and try again.\n")
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

func listQueries(w io.Writer) error {
	for _, id := range query.All() {
		if _, err := fmt.Fprintf(w, "%d. %-20s %s\n", int(id), id.String(), id.Title()); err != nil {
			return err
		}
	}
	return nil
}

func loadDataset(log *logrus.Logger, pattern string) (*dataset.Dataset, error) {
	ds, err := reader.ReadMultipleFiles(pattern)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"source":  pattern,
		"rows":    ds.Len(),
		"columns": len(ds.Columns()),
	}).Debug("dataset loaded")
	return ds, nil
}

func runQuery(w io.Writer, log *logrus.Logger, pattern, name, format string, limit int) error {
	id, err := query.Parse(name)
	if err != nil {
		return err
	}
	formatter, err := output.New(format, w)
	if err != nil {
		return err
	}

	ds, err := loadDataset(log, pattern)
	if err != nil {
		return err
	}

	res, err := query.Run(ds, id)
	if err != nil {
		return err
	}
	if err := formatter.Format(res.Truncate(limit)); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}

// handleSchemaMode prints the dataset summary: a table for the text
// formats, an encoded Summary for json and yaml
func handleSchemaMode(w io.Writer, log *logrus.Logger, pattern, format string) error {
	ds, err := loadDataset(log, pattern)
	if err != nil {
		return err
	}
	summary := reader.Summarize(ds)
	return writeValue(w, format, summary, func() error {
		return output.WriteSummary(w, summary)
	})
}

// showRecords prints the loaded records followed by the row and column
// totals
func showRecords(w io.Writer, log *logrus.Logger, pattern, format string, limit int) error {
	ds, err := loadDataset(log, pattern)
	if err != nil {
		return err
	}
	return output.WriteRecords(w, format, output.NewRecords(ds, limit))
}

func submitForm(w io.Writer, path, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var form submission.Form
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&form); err != nil {
		return fmt.Errorf("invalid submission %s: %w", path, err)
	}

	ack, err := submission.Submit(predict.Default(), form)
	if err != nil {
		return err
	}
	return writeValue(w, format, ack, func() error {
		_, err := fmt.Fprintf(w, "%s\nPrediction Model Output: %s\n", ack.Message, ack.Summary)
		return err
	})
}

// writeValue encodes v for the json and yaml formats and calls text for any
// other format
func writeValue(w io.Writer, format string, v interface{}, text func() error) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "jsonl":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return text()
	}
}

func generate(log *logrus.Logger, path string, n int, seed int64) error {
	if err := sample.WriteFile(path, sample.Generate(n, seed)); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"path": path, "rows": n, "seed": seed}).Info("sample dataset written")
	return nil
}

func serve(cfg config.Cfg, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg.Server, log).Run(ctx)
}
