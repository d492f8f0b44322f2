// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

// Package shard owns the per-shard working state (ShardBuilder) and the
// partitioner that routes input rows to the right builder by a
// normalised name prefix. Every ShardBuilder is independent: no
// cross-shard name tables, no shared trie, no locking — callers may
// build, compress, and serialise completed builders across goroutines
// or processes with no coordination beyond collecting the map below.
package shard

import (
	"strings"

	"github.com/osmstreetindex/triebuilder/internal/country"
	"github.com/osmstreetindex/triebuilder/internal/location"
	"github.com/osmstreetindex/triebuilder/internal/nametable"
	"github.com/osmstreetindex/triebuilder/internal/normalize"
	"github.com/osmstreetindex/triebuilder/internal/trie"
)

// Builder holds one shard's working state: its own trie root, location
// vector, and node/city name tables. Created lazily on first routed
// row, destroyed at serialisation. Not safe for concurrent writers —
// each Builder is meant to be owned exclusively by one goroutine for
// its lifetime.
type Builder struct {
	Trie      *trie.Node
	Locations *location.Table
	Nodes     *nametable.Table
	Cities    *nametable.Table
}

// NewBuilder returns an empty, ready-to-use shard builder.
func NewBuilder() *Builder {
	return &Builder{
		Trie:      trie.NewNode(),
		Locations: location.NewTable(),
		Nodes:     nametable.New(),
		Cities:    nametable.New(),
	}
}

// Insert routes a single name/kind/coordinate/city row into the
// builder: it looks up or creates the node and city table entries,
// dedups the location tuple, and inserts the name into the trie keyed
// on a value index into the location table. An empty name is the
// caller's responsibility to have already filtered out.
func (b *Builder) Insert(name string, kind location.Kind, lon, lat float64, nodeName, cityName string) {
	nodeIdx := b.Nodes.LookupOrInsert(nodeName)
	cityIdx := b.Cities.LookupOrInsert(cityName)

	valueIdx := b.Locations.IndexFor(location.Entry{
		Lon: lon, Lat: lat, NodeIdx: nodeIdx, CityIdx: cityIdx, Kind: kind,
	})

	trie.Insert(b.Trie, []byte(name), valueIdx)
}

// Compress runs the one-shot patricia compression pass over the
// builder's trie. Call once, after all rows (including country
// augmentation) have been inserted.
func (b *Builder) Compress() {
	b.Trie = trie.Compress(b.Trie)
}

// Partitioner routes rows to per-shard Builders keyed by a
// fixed-length normalised name prefix. PrefixLen == 0 disables
// sharding: every row routes to the single key "".
type Partitioner struct {
	PrefixLen int
	shards    map[string]*Builder
}

// NewPartitioner returns a partitioner with the given shard prefix
// length (0 disables sharding, producing one shard keyed "").
func NewPartitioner(prefixLen int) *Partitioner {
	return &Partitioner{PrefixLen: prefixLen, shards: make(map[string]*Builder)}
}

// Route computes the shard key for name and returns that shard's
// builder, creating it on first use. It returns ("", nil, false) if the
// row should be dropped (empty normalised name with sharding enabled).
func (p *Partitioner) Route(name string) (key string, builder *Builder, ok bool) {
	if p.PrefixLen <= 0 {
		return p.builderFor("")
	}

	k, has := normalize.ShardKey(name, p.PrefixLen)
	if !has {
		return "", nil, false
	}
	return p.builderFor(k)
}

func (p *Partitioner) builderFor(key string) (string, *Builder, bool) {
	b, ok := p.shards[key]
	if !ok {
		b = NewBuilder()
		p.shards[key] = b
	}
	return key, b, true
}

// Shards returns the completed per-shard builders keyed by shard key.
// With sharding disabled the only key is "".
func (p *Partitioner) Shards() map[string]*Builder {
	return p.shards
}

// AugmentCountries injects country-name and (if present) country-code
// entries, each routed independently by its own shard key: a row for
// "Switzerland"/"CH" lands its name entry in the shard keyed by
// shard_key("Switzerland", ...) and, separately, its code entry in the
// shard keyed by shard_key("CH", ...) — these may be, and typically
// are, two different shard files. Each insertion is fully
// self-contained within its shard: the node/city tables it touches and
// the LocationEntry it creates belong only to that shard, matching the
// no-cross-shard-state invariant every other row obeys.
func (p *Partitioner) AugmentCountries(rows []country.Row) {
	for _, row := range rows {
		p.insertCountryEntry(row.Name, row)
		if row.Code != "" {
			p.insertCountryEntry(strings.ToUpper(row.Code), row)
		}
	}
}

func (p *Partitioner) insertCountryEntry(key string, row country.Row) {
	_, b, ok := p.Route(key)
	if !ok {
		return
	}

	nodeIdx := 0
	if row.Code != "" {
		nodeIdx = b.Nodes.LookupOrInsert(row.Code)
	}
	cityIdx := b.Cities.LookupOrInsert(row.Name)

	valueIdx := b.Locations.IndexFor(location.Entry{
		Lon: row.Lon, Lat: row.Lat, NodeIdx: nodeIdx, CityIdx: cityIdx, Kind: location.KindCountry,
	})
	trie.Insert(b.Trie, []byte(key), valueIdx)
}
