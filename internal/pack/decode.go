// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

package pack

import (
	"fmt"

	"github.com/osmstreetindex/triebuilder/internal/nametable"
	"github.com/osmstreetindex/triebuilder/internal/varint"
)

// DecodedValue is one (lon, lat, node_idx, city_idx, kind) tuple as
// read back off the wire, with node_idx/city_idx already resolved
// against the decoded name tables.
type DecodedValue struct {
	Lon, Lat float64
	Node     string
	City     string
	Kind     byte
}

// DecodedNode is one LOUDS node: its terminal values and the sorted
// child-edge labels leading away from it (in bit order).
type DecodedNode struct {
	Values      []DecodedValue
	ChildLabels []string
}

// Decoded is a fully parsed packed shard, sections kept separate the
// way the format lays them out, for tests and diagnostics to inspect.
type Decoded struct {
	Header HeaderInfo
	Nodes  []string
	Cities []string
	Louds  []DecodedNode
}

// Decode parses a version-11 packed byte stream in full. It mirrors
// the wire format section-by-section and is the reference reader used
// by this package's own tests to validate round-trip invariants;
// production clients are a separate concern per the spec's scope.
func Decode(data []byte) (Decoded, error) {
	header, off, err := DecodeHeader(data)
	if err != nil {
		return Decoded{}, err
	}
	if header.Version != Version {
		return Decoded{}, fmt.Errorf("pack: version %d, want %d", header.Version, Version)
	}

	nodes, n, err := nametable.DecodeFrontCoded(data[off:])
	if err != nil {
		return Decoded{}, fmt.Errorf("pack: node table: %w", err)
	}
	off += n

	cities, n, err := nametable.DecodeFrontCoded(data[off:])
	if err != nil {
		return Decoded{}, fmt.Errorf("pack: city table: %w", err)
	}
	off += n

	nodeCount, n, err := varint.Decode(data[off:])
	if err != nil {
		return Decoded{}, fmt.Errorf("pack: node_count: %w", err)
	}
	off += n

	bitCount, n, err := varint.Decode(data[off:])
	if err != nil {
		return Decoded{}, fmt.Errorf("pack: bit_count: %w", err)
	}
	off += n

	bitBytes := int(bitCount+7) / 8
	if off+bitBytes > len(data) {
		return Decoded{}, fmt.Errorf("pack: truncated louds bitvector")
	}
	bits := data[off : off+bitBytes]
	off += bitBytes

	edgeCount, n, err := varint.Decode(data[off:])
	if err != nil {
		return Decoded{}, fmt.Errorf("pack: edge_count: %w", err)
	}
	off += n

	edgeLabels := make([]string, edgeCount)
	for i := range edgeLabels {
		labelLen, n, err := varint.Decode(data[off:])
		if err != nil {
			return Decoded{}, fmt.Errorf("pack: edge label %d length: %w", i, err)
		}
		off += n
		edgeLabels[i] = string(data[off : off+int(labelLen)])
		off += int(labelLen)
	}

	// Reconstruct per-node child counts from the bitvector: a run of
	// consecutive 1 bits terminated by a 0 is one node's children.
	childCounts := make([]int, 0, nodeCount)
	labelCursor := 0
	bitIdx := 0
	for len(childCounts) < int(nodeCount) {
		count := 0
		for testBit(bits, bitIdx) {
			count++
			bitIdx++
		}
		bitIdx++ // the delimiting 0
		childCounts = append(childCounts, count)
	}

	decNodes := make([]DecodedNode, nodeCount)
	for i := range decNodes {
		valuesCount, n, err := varint.Decode(data[off:])
		if err != nil {
			return Decoded{}, fmt.Errorf("pack: node %d values_count: %w", i, err)
		}
		off += n

		values := make([]DecodedValue, valuesCount)
		for vi := range values {
			if off+6 > len(data) {
				return Decoded{}, fmt.Errorf("pack: truncated value at node %d", i)
			}
			lon, err := varint.DecodeCoordinate(data[off:off+3], header.Scale)
			if err != nil {
				return Decoded{}, err
			}
			off += 3
			lat, err := varint.DecodeCoordinate(data[off:off+3], header.Scale)
			if err != nil {
				return Decoded{}, err
			}
			off += 3

			nodeIdx, n, err := varint.Decode(data[off:])
			if err != nil {
				return Decoded{}, fmt.Errorf("pack: node_idx: %w", err)
			}
			off += n
			cityIdx, n, err := varint.Decode(data[off:])
			if err != nil {
				return Decoded{}, fmt.Errorf("pack: city_idx: %w", err)
			}
			off += n

			if int(nodeIdx) >= len(nodes) {
				return Decoded{}, fmt.Errorf("pack: node_idx %d out of range (table has %d)", nodeIdx, len(nodes))
			}
			if int(cityIdx) >= len(cities) {
				return Decoded{}, fmt.Errorf("pack: city_idx %d out of range (table has %d)", cityIdx, len(cities))
			}

			values[vi] = DecodedValue{Lon: lon, Lat: lat, Node: nodes[nodeIdx], City: cities[cityIdx]}
		}

		labels := make([]string, childCounts[i])
		copy(labels, edgeLabels[labelCursor:labelCursor+childCounts[i]])
		labelCursor += childCounts[i]

		decNodes[i] = DecodedNode{Values: values, ChildLabels: labels}
	}

	// The kind nibble stream is appended after all value blocks; walk
	// it in the same emission order to backfill DecodedValue.Kind.
	totalValues := 0
	for _, n := range decNodes {
		totalValues += len(n.Values)
	}
	kindBytes := data[off:]
	kindIdx := 0
	for ni := range decNodes {
		for vi := range decNodes[ni].Values {
			byteIdx := kindIdx / 2
			if byteIdx >= len(kindBytes) {
				return Decoded{}, fmt.Errorf("pack: truncated kind stream")
			}
			b := kindBytes[byteIdx]
			var nibble byte
			if kindIdx%2 == 0 {
				nibble = b & 0x0f
			} else {
				nibble = b >> 4
			}
			decNodes[ni].Values[vi].Kind = nibble
			kindIdx++
		}
	}

	return Decoded{Header: header, Nodes: nodes, Cities: cities, Louds: decNodes}, nil
}

func testBit(b []byte, i int) bool {
	byteIdx := i >> 3
	if byteIdx >= len(b) {
		return false
	}
	return b[byteIdx]&(1<<(uint(i)&7)) != 0
}
