// Package sample generates synthetic traffic-stop datasets for demos and
// load testing.
package sample

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/bxcodec/faker/v3"
	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/securecheck/reader"
)

// Stop is one generated traffic stop. A nil DriverAge is a missing age.
type Stop struct {
	StopDate         string `parquet:"stop_date" json:"stop_date"`
	StopTime         string `parquet:"stop_time" json:"stop_time"`
	CountyName       string `parquet:"county_name" json:"county_name"`
	DriverGender     string `parquet:"driver_gender" json:"driver_gender"`
	DriverAge        *int64 `parquet:"driver_age,optional" json:"driver_age"`
	DriverRace       string `parquet:"driver_race" json:"driver_race"`
	Violation        string `parquet:"violation" json:"violation"`
	SearchConducted  int64  `parquet:"search_conducted" json:"search_conducted"`
	SearchType       string `parquet:"search_type" json:"search_type"`
	StopOutcome      string `parquet:"stop_outcome" json:"stop_outcome"`
	DrugsRelatedStop int64  `parquet:"drugs_related_stop" json:"drugs_related_stop"`
}

var header = []string{
	"stop_date", "stop_time", "county_name", "driver_gender", "driver_age", "driver_race",
	"violation", "search_conducted", "search_type", "stop_outcome", "drugs_related_stop",
}

var (
	counties    = []string{"Travis", "Hays", "Williamson", "Bastrop", "Caldwell"}
	genders     = []string{"male", "female"}
	races       = []string{"White", "Black", "Hispanic", "Asian", "Other"}
	violations  = []string{"Speeding", "Speeding", "Speeding", "Moving violation", "Equipment", "Seatbelt", "DUI", "Other"}
	outcomes    = []string{"Citation", "Citation", "Warning", "Warning", "Arrest Driver", "Arrest Passenger", "N/D"}
	searchTypes = []string{"Vehicle Search", "Frisk", "Incident to Arrest", "Probable Cause", "Inventory"}
)

const (
	searchRate     = 0.2
	drugsRate      = 0.3
	missingAgeRate = 0.05
	minAge         = 16
	maxAge         = 80
)

// Generate returns n stops. Categorical fields are drawn from seed, so
// equal seeds give equal distributions; dates and times come from faker.
func Generate(n int, seed int64) []Stop {
	rnd := rand.New(rand.NewSource(seed))
	pick := func(values []string) string {
		return values[rnd.Intn(len(values))]
	}

	stops := make([]Stop, 0, n)
	for i := 0; i < n; i++ {
		s := Stop{
			StopDate:     faker.Date(),
			StopTime:     faker.TimeString(),
			CountyName:   pick(counties),
			DriverGender: pick(genders),
			DriverRace:   pick(races),
			Violation:    pick(violations),
			StopOutcome:  pick(outcomes),
		}
		if rnd.Float64() >= missingAgeRate {
			age := int64(minAge + rnd.Intn(maxAge-minAge+1))
			s.DriverAge = &age
		}
		if rnd.Float64() < searchRate {
			s.SearchConducted = 1
			s.SearchType = pick(searchTypes)
			if rnd.Float64() < drugsRate {
				s.DrugsRelatedStop = 1
			}
		}
		stops = append(stops, s)
	}
	return stops
}

// Write encodes stops to w in format f.
func Write(w io.Writer, f reader.Format, stops []Stop) error {
	switch f {
	case reader.FormatCSV:
		return writeCSV(w, stops)
	case reader.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(stops)
	case reader.FormatJSONL:
		encoder := json.NewEncoder(w)
		for _, s := range stops {
			if err := encoder.Encode(s); err != nil {
				return err
			}
		}
		return nil
	case reader.FormatParquet:
		writer := parquet.NewGenericWriter[Stop](w)
		if _, err := writer.Write(stops); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		return writer.Close()
	default:
		return fmt.Errorf("unsupported format %q", string(f))
	}
}

// WriteFile writes stops to path, picking the format from its extension.
func WriteFile(path string, stops []Stop) (err error) {
	f, err := reader.FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(file, f, stops)
}

func writeCSV(w io.Writer, stops []Stop) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return err
	}
	for _, s := range stops {
		age := ""
		if s.DriverAge != nil {
			age = strconv.FormatInt(*s.DriverAge, 10)
		}
		record := []string{
			s.StopDate, s.StopTime, s.CountyName, s.DriverGender, age, s.DriverRace,
			s.Violation, strconv.FormatInt(s.SearchConducted, 10), s.SearchType,
			s.StopOutcome, strconv.FormatInt(s.DrugsRelatedStop, 10),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}
