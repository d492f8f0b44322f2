// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

package louds

import (
	"testing"

	"github.com/osmstreetindex/triebuilder/internal/trie"
)

func TestLoudsShapeInvariants(t *testing.T) {
	root := trie.NewNode()
	trie.Insert(root, []byte("cat"), 1)
	trie.Insert(root, []byte("car"), 2)
	trie.Insert(root, []byte("dog"), 3)
	trie.Insert(root, []byte("do"), 4)
	root = trie.Compress(root)

	enc := Encode(root)

	if enc.BitCount != enc.NodeCount+enc.EdgeCount {
		t.Fatalf("bit_count(%d) != node_count(%d) + edge_count(%d)", enc.BitCount, enc.NodeCount, enc.EdgeCount)
	}
	if got := enc.Bits.Count(); got != enc.EdgeCount {
		t.Fatalf("popcount(louds_bits) = %d, want edge_count %d", got, enc.EdgeCount)
	}
	zeroBits := enc.BitCount - enc.Bits.Count()
	if zeroBits != enc.NodeCount {
		t.Fatalf("bit_count - popcount = %d, want node_count %d", zeroBits, enc.NodeCount)
	}
	if len(enc.EdgeLabels) != enc.EdgeCount {
		t.Fatalf("len(EdgeLabels) = %d, want %d", len(enc.EdgeLabels), enc.EdgeCount)
	}
	if len(enc.ValuesPerNode) != enc.NodeCount {
		t.Fatalf("len(ValuesPerNode) = %d, want %d", len(enc.ValuesPerNode), enc.NodeCount)
	}
}

func TestSingleRowTwoNodeTree(t *testing.T) {
	root := trie.NewNode()
	trie.Insert(root, []byte("Main St"), 0)
	root = trie.Compress(root)

	enc := Encode(root)
	if enc.NodeCount != 2 {
		t.Fatalf("node_count = %d, want 2 (root + one child)", enc.NodeCount)
	}
	if enc.EdgeCount != 1 || enc.EdgeLabels[0] != "Main St" {
		t.Fatalf("edges = %v, want single label %q", enc.EdgeLabels, "Main St")
	}
	if len(enc.ValuesPerNode[1]) != 1 || enc.ValuesPerNode[1][0] != 0 {
		t.Fatalf("terminal values = %v, want [0] on the child", enc.ValuesPerNode[1])
	}
}

func TestShardingScenarioFooFoobar(t *testing.T) {
	root := trie.NewNode()
	trie.Insert(root, []byte("Foo"), 0)
	trie.Insert(root, []byte("Foobar"), 1)
	root = trie.Compress(root)

	if node, ok := trie.Lookup(root, []byte("Foo")); !ok || len(node.Values) != 1 || node.Values[0] != 0 {
		t.Fatalf("Foo lookup failed")
	}
	if node, ok := trie.Lookup(root, []byte("Foobar")); !ok || len(node.Values) != 1 || node.Values[0] != 1 {
		t.Fatalf("Foobar lookup failed")
	}
}
