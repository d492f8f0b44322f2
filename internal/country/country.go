// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

// Package country loads the auxiliary countries table. Injecting its
// rows into a shard set is done by shard.Partitioner.AugmentCountries.
package country

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row is one parsed countries.csv entry: an ISO code (uppercased on
// read), a display name, and a coordinate.
type Row struct {
	Code     string
	Name     string
	Lon, Lat float64
}

// RequiredColumns lists the countries CSV header names that must all be
// present.
var RequiredColumns = []string{"country", "name", "latitude", "longitude"}

// MissingColumnsError is returned when the countries CSV header is
// missing one or more required columns.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("country: missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Load parses a countries CSV from r. Rows with an empty name, or a
// non-numeric latitude/longitude, are dropped silently, mirroring the
// per-row recoverable-error policy used for the main input CSV.
func Load(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("country: reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	var missing []string
	for _, want := range RequiredColumns {
		if _, ok := col[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("country: reading row: %w", err)
		}

		name := strings.TrimSpace(record[col["name"]])
		if name == "" {
			continue
		}

		lat, errLat := strconv.ParseFloat(strings.TrimSpace(record[col["latitude"]]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(record[col["longitude"]]), 64)
		if errLat != nil || errLon != nil {
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(record[col["country"]]))
		rows = append(rows, Row{Code: code, Name: name, Lon: lon, Lat: lat})
	}

	return rows, nil
}

// NotFoundError is returned when a countries path was resolved (either
// explicitly passed or defaulted) but the file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("country: countries file not found: %s", e.Path)
}

// Disabled is the sentinel path value a caller passes to explicitly
// turn off country augmentation.
const Disabled = "none"

// LoadFromPath resolves and loads the countries file at path. An empty
// path is equivalent to Disabled. A missing file is a hard error unless
// path == Disabled.
func LoadFromPath(path string) ([]Row, error) {
	if path == "" || path == Disabled {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("country: opening %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}
