// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

package pack

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/osmstreetindex/triebuilder/internal/shard"
	"github.com/osmstreetindex/triebuilder/internal/trie"
)

// Dump is the structural, uncompressed representation written by the
// json/yaml/msgpack formats — intended for inspection and tests only,
// never for production loading (the packed format is the only
// network-delivery artifact).
type Dump struct {
	Locations []DumpEntry `json:"locations" yaml:"locations"`
	Nodes     []string    `json:"city_place_nodes" yaml:"city_place_nodes"`
	Cities    []string    `json:"city_place_cities" yaml:"city_place_cities"`
	Trie      DumpNode    `json:"trie" yaml:"trie"`
}

// DumpEntry mirrors location.Entry, with node_idx/city_idx remapped to
// the sorted Nodes/Cities tables. The json and yaml encodings use the
// field names below; msgpack writes each entry as a positional
// [lon, lat, node_idx, city_idx, kind] array.
type DumpEntry struct {
	Lon, Lat float64 `json:"lon" yaml:"lon"`
	NodeIdx  int     `json:"node_idx" yaml:"node_idx"`
	CityIdx  int     `json:"city_idx" yaml:"city_idx"`
	Kind     uint8   `json:"kind" yaml:"kind"`
}

// DumpNode mirrors trie.Node: terminal values plus sorted children
// keyed by edge label.
type DumpNode struct {
	Values   []int               `json:"values,omitempty" yaml:"values,omitempty"`
	Children map[string]DumpNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildDump converts a completed shard.Builder into the structural
// Dump representation. b.Compress must already have been called.
func BuildDump(b *shard.Builder) Dump {
	reNodes := b.Nodes.Reindex()
	reCities := b.Cities.Reindex()

	entries := b.Locations.Entries()
	locs := make([]DumpEntry, len(entries))
	for i, e := range entries {
		nibble, _ := e.Kind.Nibble()
		locs[i] = DumpEntry{Lon: e.Lon, Lat: e.Lat, NodeIdx: reNodes.OldToNew[e.NodeIdx], CityIdx: reCities.OldToNew[e.CityIdx], Kind: nibble}
	}

	return Dump{
		Locations: locs,
		Nodes:     reNodes.Names,
		Cities:    reCities.Names,
		Trie:      convertNode(b.Trie),
	}
}

func convertNode(n *trie.Node) DumpNode {
	out := DumpNode{Values: n.Values}
	edges := n.SortedEdges()
	if len(edges) == 0 {
		return out
	}
	out.Children = make(map[string]DumpNode, len(edges))
	for _, e := range edges {
		out.Children[e.Label] = convertNode(e.Child)
	}
	return out
}

// MarshalJSON writes the structural dump as JSON (the spec's
// --format json).
func MarshalJSON(b *shard.Builder) ([]byte, error) {
	return json.Marshal(BuildDump(b))
}

// MarshalYAML writes the structural dump as YAML. Not named in the
// spec's CLI surface but wired in as a human-editable alternative to
// json/msgpack for debugging the same Dump structure.
func MarshalYAML(b *shard.Builder) ([]byte, error) {
	return yaml.Marshal(BuildDump(b))
}
