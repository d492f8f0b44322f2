// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

// Package louds encodes a compressed patricia trie as a Level-Order
// Unary Degree Sequence: for each node, visited breadth-first, one '1'
// bit per outgoing edge (in sorted label order) followed by a '0'
// delimiter, with parallel per-node value and edge-label streams.
package louds

import (
	"github.com/osmstreetindex/triebuilder/internal/bitset"
	"github.com/osmstreetindex/triebuilder/internal/trie"
)

// Encoded holds the three arrays the wire format writes for a shard's
// trie: the bitvector plus the parallel edge-label and per-node value
// streams, and the three counts that let a reader size everything up
// front.
type Encoded struct {
	NodeCount int
	EdgeCount int
	BitCount  int
	Bits      bitset.BitSet

	// EdgeLabels is in level order, children of the same node grouped
	// together in sorted-label order — exactly the order the bits were
	// emitted in.
	EdgeLabels []string

	// ValuesPerNode[i] is the terminal value list of the i-th node
	// visited in level order (the root is node 0).
	ValuesPerNode [][]int
}

// Encode performs the level-order (BFS) traversal described in the
// package doc and returns the three parallel arrays with their counts. root is treated as
// the trie itself — there is no synthetic super-root.
func Encode(root *trie.Node) Encoded {
	var enc Encoded

	queue := []*trie.Node{root}
	bitIdx := 0

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		enc.ValuesPerNode = append(enc.ValuesPerNode, append([]int(nil), node.Values...))
		enc.NodeCount++

		for _, edge := range node.SortedEdges() {
			enc.EdgeLabels = append(enc.EdgeLabels, edge.Label)
			queue = append(queue, edge.Child)
			enc.Bits.Set(uint(bitIdx))
			bitIdx++
			enc.EdgeCount++
		}

		// '0' delimiter: leave the bit clear, just advance past it.
		bitIdx++
	}

	enc.BitCount = bitIdx
	return enc
}
