// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

// Package location holds the per-shard LocationEntry vector: the sole
// terminal value type stored in the trie, deduplicated by full-tuple
// identity, plus the closed Kind vocabulary and its nibble packing.
package location

import "fmt"

// Kind is the closed vocabulary of location categories. It is
// bit-assigned so that 4 bits suffice on the wire.
type Kind uint8

// Kind vocabulary, fixed by the wire format — never reorder or reuse a
// value.
const (
	KindStreet         Kind = 0
	KindAirport        Kind = 1
	KindTrainStation   Kind = 2
	KindBusStop        Kind = 3
	KindFerryTerminal  Kind = 4
	KindUniversity     Kind = 5
	KindMuseum         Kind = 6
	KindCivicBuilding  Kind = 7
	KindSight          Kind = 8
	KindCity           Kind = 9
	KindCountry        Kind = 10
	KindUnspecified    Kind = 15
	maxKindNibbleValue      = 15
)

var kindByName = map[string]Kind{
	"street":          KindStreet,
	"airport":         KindAirport,
	"train_station":   KindTrainStation,
	"bus_stop":        KindBusStop,
	"ferry_terminal":  KindFerryTerminal,
	"university":      KindUniversity,
	"museum":          KindMuseum,
	"civic_building":  KindCivicBuilding,
	"sight":           KindSight,
	"city":            KindCity,
	"country":         KindCountry,
}

// KindFromString maps a raw CSV kind tag to its byte value. An unknown
// or empty tag maps to KindUnspecified, never an error — unknown kind
// is never silently misclassified, it gets the explicit "unspecified"
// tag a reader can distinguish.
func KindFromString(s string) Kind {
	if k, ok := kindByName[s]; ok {
		return k
	}
	return KindUnspecified
}

// Nibble returns the low 4 bits of k, validating that k fits in a
// nibble. Only reachable if a caller constructs a Kind outside
// KindFromString/the named constants.
func (k Kind) Nibble() (byte, error) {
	if uint8(k) > maxKindNibbleValue {
		return 0, fmt.Errorf("location: kind %d does not fit in a nibble", k)
	}
	return byte(k) & 0x0f, nil
}

// Entry is the 5-tuple terminal value stored in the trie: a projected
// coordinate plus offsets into this shard's node and city name tables.
// node_idx and city_idx are raw (pre-reindex) table indices; 0 is
// reserved for the empty string in both tables.
type Entry struct {
	Lon, Lat       float64
	NodeIdx        int
	CityIdx        int
	Kind           Kind
}

// key identifies an Entry for full-tuple deduplication.
type key struct {
	lon, lat float64
	node     int
	city     int
	kind     Kind
}

// Table deduplicates LocationEntry values by full-tuple identity and
// preserves first-seen order, so value indices are stable once
// assigned.
type Table struct {
	entries []Entry
	index   map[key]int
}

// NewTable returns an empty location table.
func NewTable() *Table {
	return &Table{index: make(map[key]int)}
}

// IndexFor returns the index of e in the table, inserting it if this is
// the first time this exact tuple has been seen.
func (t *Table) IndexFor(e Entry) int {
	k := key{lon: e.Lon, lat: e.Lat, node: e.NodeIdx, city: e.CityIdx, kind: e.Kind}
	if idx, ok := t.index[k]; ok {
		return idx
	}
	idx := len(t.entries)
	t.index[k] = idx
	t.entries = append(t.entries, e)
	return idx
}

// Entries returns the deduplicated entries in first-seen order. The
// caller must not retain the slice across further IndexFor calls.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Len returns the number of distinct entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// NibblePacker accumulates kind nibbles two-per-byte in emission order,
// matching the wire format's kind_stream: first nibble low, second
// high, flush, repeat; a trailing odd nibble flushes with a zero high
// nibble.
type NibblePacker struct {
	out     []byte
	pending *byte
}

// Push appends the low nibble of kind to the stream.
func (p *NibblePacker) Push(kind Kind) error {
	nibble, err := kind.Nibble()
	if err != nil {
		return err
	}
	if p.pending == nil {
		b := nibble
		p.pending = &b
		return nil
	}
	p.out = append(p.out, *p.pending|(nibble<<4))
	p.pending = nil
	return nil
}

// Bytes flushes any pending odd nibble (high nibble zero) and returns
// the packed stream.
func (p *NibblePacker) Bytes() []byte {
	if p.pending != nil {
		p.out = append(p.out, *p.pending)
		p.pending = nil
	}
	return p.out
}
