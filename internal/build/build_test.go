// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

package build

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osmstreetindex/triebuilder/internal/pack"
)

func TestRunSingleShardPacked(t *testing.T) {
	fs := afero.NewMemMapFs()
	csv := "streetname,kind,center_lon,center_lat,city_place_node,city_place_city\n" +
		"Main St,street,1.0,2.0,Node A,City A\n"
	require.NoError(t, afero.WriteFile(fs, "/work/input.csv", []byte(csv), 0o644))

	cfg := Config{
		InputPath:      "/work/input.csv",
		OutputPath:     "/work/out.packed",
		CountriesPath:  "none",
		Format:         FormatPacked,
		ShardPrefixLen: 0,
	}

	result, err := Run(fs, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowsRead)
	require.Len(t, result.ShardFiles, 1)
	assert.Equal(t, "/work/out.packed", result.ShardFiles[0])

	data, err := afero.ReadFile(fs, "/work/out.packed")
	require.NoError(t, err)
	assert.Equal(t, pack.Magic, string(data[:4]))
}

func TestRunShardedLayout(t *testing.T) {
	fs := afero.NewMemMapFs()
	csv := "streetname,kind,center_lon,center_lat,city_place_node,city_place_city\n" +
		"Foo St,street,1.0,2.0,Node A,City A\n" +
		"Bar St,street,3.0,4.0,Node B,City B\n"
	require.NoError(t, afero.WriteFile(fs, "/work/input.csv", []byte(csv), 0o644))

	cfg := Config{
		InputPath:      "/work/input.csv",
		OutputPath:     "/work/out.packed",
		CountriesPath:  "none",
		Format:         FormatPacked,
		ShardPrefixLen: 3,
	}

	result, err := Run(fs, cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, result.ShardFiles, 2)
	for _, p := range result.ShardFiles {
		ok, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.True(t, ok, "expected shard file %s to exist", p)
	}
}

func TestRunGzipSuffix(t *testing.T) {
	fs := afero.NewMemMapFs()
	csv := "streetname,kind,center_lon,center_lat,city_place_node,city_place_city\n" +
		"Main St,street,1.0,2.0,Node A,City A\n"
	require.NoError(t, afero.WriteFile(fs, "/work/input.csv", []byte(csv), 0o644))

	cfg := Config{
		InputPath:      "/work/input.csv",
		OutputPath:     "/work/out.packed",
		CountriesPath:  "none",
		Format:         FormatPacked,
		ShardPrefixLen: 0,
		Gzip:           true,
	}

	result, err := Run(fs, cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, result.ShardFiles, 1)
	assert.Equal(t, "/work/out.packed.gz", result.ShardFiles[0])
}

func TestRunJSONFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	csv := "streetname,kind,center_lon,center_lat,city_place_node,city_place_city\n" +
		"Main St,street,1.0,2.0,Node A,City A\n"
	require.NoError(t, afero.WriteFile(fs, "/work/input.csv", []byte(csv), 0o644))

	cfg := Config{
		InputPath:      "/work/input.csv",
		OutputPath:     "/work/out.packed",
		CountriesPath:  "none",
		Format:         FormatJSON,
		ShardPrefixLen: 0,
	}

	result, err := Run(fs, cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, result.ShardFiles, 1)
	assert.Equal(t, "/work/out.json", result.ShardFiles[0])
}
