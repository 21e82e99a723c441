package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"address-api/internal/config"
	"address-api/internal/logger"
	"address-api/internal/models"
	"address-api/internal/repository"
	"address-api/internal/service"

	"github.com/rs/zerolog"
)

var requiredColumns = []string{"name", "address", "latitude", "longitude"}

// AddressRecord is one parsed CSV row. Line is the 1-based line in the file.
type AddressRecord struct {
	Line  int
	Input models.AddressInput
}

type addressCreator interface {
	Create(ctx context.Context, input models.AddressInput) (*models.Address, error)
}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	configPath := flag.String("config", "configs", "Directory containing app.env")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	l := logger.New(cfg.LogLevel, cfg.LogPretty)

	fmt.Printf("Starting import from file: %s\n", *file)

	f, err := os.Open(*file)
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(records))

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg, l)
	if err != nil {
		fmt.Printf("Error opening address store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close(ctx)

	imported, skipped, err := importRecords(ctx, service.NewAddressService(store), records, l)
	fmt.Printf("Imported %d records, skipped %d\n", imported, skipped)
	if err != nil {
		fmt.Printf("Error importing records: %v\n", err)
		os.Exit(1)
	}
}

// parseCSV reads a header row naming at least name, address, latitude and
// longitude in any order, followed by one address per row. Coordinates that
// do not parse are left at zero so the service rejects the row.
func parseCSV(r io.Reader) ([]AddressRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q in header", name)
		}
	}

	field := func(row []string, name string) string {
		i := columns[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []AddressRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		lat, _ := strconv.ParseFloat(field(row, "latitude"), 64)
		lon, _ := strconv.ParseFloat(field(row, "longitude"), 64)

		records = append(records, AddressRecord{
			Line: line,
			Input: models.AddressInput{
				Name:      field(row, "name"),
				Address:   field(row, "address"),
				Latitude:  lat,
				Longitude: lon,
			},
		})
	}

	return records, nil
}

// importRecords creates every record through svc. Rows failing validation are
// skipped; any other error stops the import.
func importRecords(ctx context.Context, svc addressCreator, records []AddressRecord, l zerolog.Logger) (int, int, error) {
	imported, skipped := 0, 0
	for _, rec := range records {
		_, err := svc.Create(ctx, rec.Input)
		if errors.Is(err, service.ErrValidation) {
			l.Warn().Err(err).Int("line", rec.Line).Msg("skipping invalid row")
			skipped++
			continue
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("line %d: %w", rec.Line, err)
		}
		imported++
	}
	return imported, skipped, nil
}
