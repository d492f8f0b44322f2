// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

// Package ingest reads the main input CSV and resolves the default
// input path when --input is not given, against an afero.Fs so the
// driver layer can be exercised without a real filesystem.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/osmstreetindex/triebuilder/internal/location"
)

// RequiredColumns lists the main input CSV header names that must all
// be present.
var RequiredColumns = []string{
	"streetname", "kind", "center_lon", "center_lat",
	"city_place_node", "city_place_city",
}

// MissingColumnsError is returned when the input CSV header is missing
// one or more required columns.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("ingest: missing required columns: %s", strings.Join(e.Missing, ", "))
}

// MalformedRowError reports a fatal header mismatch — a row whose
// field count disagrees with the header. Per-row numeric parse
// failures are not errors; those rows are simply skipped.
type MalformedRowError struct {
	Row int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("ingest: malformed row %d: field count does not match header", e.Row)
}

// InputNotFoundError is returned when no *.csv file exists in the
// directory searched for a default input.
type InputNotFoundError struct {
	Dir string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("ingest: no .csv files found in %s", e.Dir)
}

// AmbiguousDefaultInputError is returned when more than one *.csv file
// exists in the directory searched for a default input.
type AmbiguousDefaultInputError struct {
	Dir        string
	Candidates []string
}

func (e *AmbiguousDefaultInputError) Error() string {
	return fmt.Sprintf("ingest: multiple .csv files found in %s (%s); pass --input explicitly", e.Dir, strings.Join(e.Candidates, ", "))
}

// FindDefaultCSV returns the sole *.csv file in dir. It fails with
// InputNotFoundError when none exist and AmbiguousDefaultInputError
// when more than one does, mirroring the reference builder's
// glob-and-count default resolution.
func FindDefaultCSV(fs afero.Fs, dir string) (string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", fmt.Errorf("ingest: reading %s: %w", dir, err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			candidates = append(candidates, e.Name())
		}
	}
	sort.Strings(candidates)

	switch len(candidates) {
	case 0:
		return "", &InputNotFoundError{Dir: dir}
	case 1:
		return filepath.Join(dir, candidates[0]), nil
	default:
		return "", &AmbiguousDefaultInputError{Dir: dir, Candidates: candidates}
	}
}

// Row is one parsed input row, ready to feed into a shard.Partitioner.
type Row struct {
	StreetName string
	Kind       location.Kind
	Lon, Lat   float64
	NodeName   string
	CityName   string
}

// Stats summarises how many rows were read and how many were dropped
// for a non-parseable coordinate, for driver-level logging.
type Stats struct {
	Read    int
	Skipped int
}

// Load reads the main input CSV from r, validating the header and
// calling emit for every row whose lon/lat parse cleanly. Rows with a
// non-numeric coordinate are counted in Stats.Skipped and otherwise
// ignored; a row whose field count disagrees with the header is fatal.
func Load(r io.Reader, emit func(Row)) (Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Stats{}, fmt.Errorf("ingest: reading header: %w", err)
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
		return Stats{}, &MissingColumnsError{Missing: missing}
	}

	var stats Stats
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("ingest: reading row %d: %w", rowNum, err)
		}
		rowNum++

		if len(record) != len(header) {
			return stats, &MalformedRowError{Row: rowNum}
		}

		lon, errLon := strconv.ParseFloat(strings.TrimSpace(record[col["center_lon"]]), 64)
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(record[col["center_lat"]]), 64)
		if errLon != nil || errLat != nil {
			stats.Skipped++
			continue
		}

		emit(Row{
			StreetName: record[col["streetname"]],
			Kind:       location.KindFromString(strings.TrimSpace(record[col["kind"]])),
			Lon:        lon,
			Lat:        lat,
			NodeName:   record[col["city_place_node"]],
			CityName:   record[col["city_place_city"]],
		})
		stats.Read++
	}

	return stats, nil
}
