// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

// Package build orchestrates a full run: read the input CSV, partition
// it into shards, optionally augment with country entries, and write
// one serialised file per shard.
package build

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/osmstreetindex/triebuilder/internal/country"
	"github.com/osmstreetindex/triebuilder/internal/ingest"
	"github.com/osmstreetindex/triebuilder/internal/pack"
	"github.com/osmstreetindex/triebuilder/internal/shard"
)

// Format selects the serialisation written for each shard.
type Format string

const (
	FormatPacked  Format = "packed"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
	FormatYAML    Format = "yaml"
)

// Config collects the resolved driver settings; the CLI layer is
// responsible for flag parsing and default resolution (FindDefaultCSV,
// countries.csv beside the binary) before constructing one of these.
type Config struct {
	InputPath      string
	OutputPath     string
	CountriesPath  string
	Format         Format
	ShardPrefixLen int
	Scale          int
	Gzip           bool
}

// Result summarises a completed run for driver-level logging.
type Result struct {
	RowsRead    int
	RowsSkipped int
	ShardFiles  []string
}

// Run executes a full build against fs, reading InputPath and writing
// one file per shard derived from OutputPath.
func Run(fs afero.Fs, cfg Config, log *zap.Logger) (Result, error) {
	if cfg.Scale == 0 {
		cfg.Scale = pack.DefaultScale
	}

	f, err := fs.Open(cfg.InputPath)
	if err != nil {
		return Result{}, fmt.Errorf("build: opening input %s: %w", cfg.InputPath, err)
	}
	defer f.Close()

	partitioner := shard.NewPartitioner(cfg.ShardPrefixLen)

	log.Info("building trie", zap.String("input", cfg.InputPath))

	stats, err := ingest.Load(f, func(r ingest.Row) {
		if r.StreetName == "" {
			return
		}
		_, b, ok := partitioner.Route(r.StreetName)
		if !ok {
			return
		}
		b.Insert(r.StreetName, r.Kind, r.Lon, r.Lat, r.NodeName, r.CityName)
	})
	if err != nil {
		return Result{}, err
	}
	log.Info("read input rows", zap.Int("read", stats.Read), zap.Int("skipped", stats.Skipped))

	rows, err := country.LoadFromPath(cfg.CountriesPath)
	if err != nil {
		return Result{}, err
	}
	if len(rows) > 0 {
		partitioner.AugmentCountries(rows)
		log.Info("augmented with countries", zap.Int("count", len(rows)))
	}

	shards := partitioner.Shards()
	log.Info("built shards", zap.Int("count", len(shards)))

	result := Result{RowsRead: stats.Read, RowsSkipped: stats.Skipped}

	keys := make([]string, 0, len(shards))
	for k := range shards {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		b := shards[key]
		b.Compress()

		data, err := encode(b, cfg)
		if err != nil {
			return result, fmt.Errorf("build: encoding shard %q: %w", key, err)
		}

		path, err := outputPathFor(cfg, key, len(shards))
		if err != nil {
			return result, err
		}

		if cfg.Gzip {
			data, err = gzipCompress(data)
			if err != nil {
				return result, fmt.Errorf("build: gzip shard %q: %w", key, err)
			}
			path += ".gz"
		}

		if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
			return result, fmt.Errorf("build: writing %s: %w", path, err)
		}
		result.ShardFiles = append(result.ShardFiles, path)
		log.Info("wrote shard", zap.String("key", key), zap.String("path", path), zap.Int("bytes", len(data)))
	}

	return result, nil
}

func encode(b *shard.Builder, cfg Config) ([]byte, error) {
	switch cfg.Format {
	case FormatJSON:
		return pack.MarshalJSON(b)
	case FormatYAML:
		return pack.MarshalYAML(b)
	case FormatMsgpack:
		return pack.MarshalMsgpack(b)
	case FormatPacked, "":
		return pack.Pack(b, cfg.Scale)
	default:
		return nil, fmt.Errorf("build: unknown format %q", cfg.Format)
	}
}

func outputPathFor(cfg Config, key string, shardCount int) (string, error) {
	ext := extensionFor(cfg.Format)

	if shardCount == 1 && key == "" {
		return replaceExt(cfg.OutputPath, ext), nil
	}

	dir := filepath.Join(filepath.Dir(cfg.OutputPath), "shards")
	stem := strings.TrimSuffix(filepath.Base(cfg.OutputPath), filepath.Ext(cfg.OutputPath))
	return filepath.Join(dir, fmt.Sprintf("%s.shard_%s%s", stem, key, ext)), nil
}

func extensionFor(f Format) string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatMsgpack:
		return ".msgpack"
	default:
		return ".packed"
	}
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf strings.Builder
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
