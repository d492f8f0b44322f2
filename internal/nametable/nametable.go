// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

// Package nametable builds the deduplicating, sort-and-reindex,
// front-coded string tables used for node and city names in each
// shard.
package nametable

import (
	"sort"

	"github.com/osmstreetindex/triebuilder/internal/varint"
)

// Table is an append-only name table, seeded with the empty string at
// index 0.
type Table struct {
	names []string
	index map[string]int
}

// New returns a name table with the reserved empty string at index 0.
func New() *Table {
	t := &Table{
		names: []string{""},
		index: map[string]int{"": 0},
	}
	return t
}

// LookupOrInsert returns the existing index for name, or appends it and
// returns the new index.
func (t *Table) LookupOrInsert(name string) int {
	if idx, ok := t.index[name]; ok {
		return idx
	}
	idx := len(t.names)
	t.index[name] = idx
	t.names = append(t.names, name)
	return idx
}

// Len returns the number of distinct names, including the reserved
// empty string.
func (t *Table) Len() int {
	return len(t.names)
}

// Reindexed holds the alphabetically sorted names plus the
// old-to-new index permutation: OldToNew[old] gives a name's index in
// Names.
type Reindexed struct {
	Names    []string
	OldToNew []int
}

// Reindex sorts the table alphabetically and computes the permutation
// from each name's original insertion index to its sorted index. The
// empty string at index 0 is preserved as the lexicographically first
// entry.
func (t *Table) Reindex() Reindexed {
	type pair struct {
		oldIdx int
		name   string
	}
	pairs := make([]pair, len(t.names))
	for i, name := range t.names {
		pairs[i] = pair{oldIdx: i, name: name}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	names := make([]string, len(pairs))
	oldToNew := make([]int, len(pairs))
	for newIdx, p := range pairs {
		names[newIdx] = p.name
		oldToNew[p.oldIdx] = newIdx
	}

	return Reindexed{Names: names, OldToNew: oldToNew}
}

// EncodeFrontCoded serialises a lexicographically sorted name list as
// the wire format's front-coded name table: a varint count, then for
// each entry a varint prefix_len (bytes shared with the previous
// entry), a varint suffix_len, and the suffix bytes. The first entry
// always has prefix_len 0.
func EncodeFrontCoded(sorted []string) []byte {
	out := varint.Encode(nil, uint64(len(sorted)))

	var prev []byte
	for _, name := range sorted {
		cur := []byte(name)

		prefixLen := 0
		max := len(prev)
		if len(cur) < max {
			max = len(cur)
		}
		for prefixLen < max && prev[prefixLen] == cur[prefixLen] {
			prefixLen++
		}
		suffix := cur[prefixLen:]

		out = varint.Encode(out, uint64(prefixLen))
		out = varint.Encode(out, uint64(len(suffix)))
		out = append(out, suffix...)

		prev = cur
	}

	return out
}

// DecodeFrontCoded is the inverse of EncodeFrontCoded; it exists
// primarily to let tests assert the front-coding round trip, as a
// reader would.
func DecodeFrontCoded(src []byte) ([]string, int, error) {
	count, n, err := varint.Decode(src)
	if err != nil {
		return nil, 0, err
	}
	off := n

	names := make([]string, 0, count)
	var prev []byte
	for i := uint64(0); i < count; i++ {
		prefixLen, n, err := varint.Decode(src[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n

		suffixLen, n, err := varint.Decode(src[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n

		suffix := src[off : off+int(suffixLen)]
		off += int(suffixLen)

		cur := make([]byte, 0, int(prefixLen)+len(suffix))
		cur = append(cur, prev[:prefixLen]...)
		cur = append(cur, suffix...)

		names = append(names, string(cur))
		prev = cur
	}

	return names, off, nil
}
