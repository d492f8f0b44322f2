// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

// Package trie implements the byte-keyed patricia trie: insertion
// followed by a one-shot linear-path compression pass. Keys are the
// original UTF-8 bytes of a name, never the normalised form.
package trie

import "sort"

// Node is a single trie node: a sorted-on-emission set of outgoing
// edges keyed by a non-empty byte-string label, plus the list of
// terminal value indices attached directly to this node (insertion
// order preserved, duplicates permitted).
type Node struct {
	edges  map[string]*Node
	Values []int
}

// NewNode returns an empty trie node.
func NewNode() *Node {
	return &Node{edges: make(map[string]*Node)}
}

// Insert descends key one byte at a time from root, creating child
// nodes as needed, and appends valueIdx to the terminal list of the
// node reached by the full key.
func Insert(root *Node, key []byte, valueIdx int) {
	node := root
	for _, b := range key {
		edge := string(b)
		child, ok := node.edges[edge]
		if !ok {
			child = NewNode()
			node.edges[edge] = child
		}
		node = child
	}
	node.Values = append(node.Values, valueIdx)
}

// Compress performs post-order linear-path compression: a non-terminal
// edge whose sole child itself has exactly one outgoing edge and no
// terminal values is spliced together with that child's outgoing edge,
// concatenating labels, repeated until no further splice applies.
//
// Compress mutates root's subtree in place and also returns it, so
// callers may write `root = trie.Compress(root)`.
func Compress(root *Node) *Node {
	compressed := make(map[string]*Node, len(root.edges))
	for label, child := range root.edges {
		child = Compress(child)
		mergedLabel := label

		for {
			if len(child.Values) == 0 && len(child.edges) == 1 {
				var onlyLabel string
				var onlyChild *Node
				for l, c := range child.edges {
					onlyLabel, onlyChild = l, c
				}
				mergedLabel += onlyLabel
				child = onlyChild
				continue
			}
			break
		}

		compressed[mergedLabel] = child
	}
	root.edges = compressed
	return root
}

// Edge is a single outgoing edge, used by SortedEdges for byte-lexical
// emission order.
type Edge struct {
	Label string
	Child *Node
}

// SortedEdges returns n's outgoing edges sorted by edge-label
// byte-lexicographic order. This determines both LOUDS child order and
// the determinism of the serialised output.
func (n *Node) SortedEdges() []Edge {
	edges := make([]Edge, 0, len(n.edges))
	for label, child := range n.edges {
		edges = append(edges, Edge{Label: label, Child: child})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Label < edges[j].Label })
	return edges
}

// Lookup walks root along key's bytes, returning the node reached (if
// any) and whether the full key was consumed exactly at a node
// boundary. Used by tests to assert the round-trip-of-trie-keys
// property against the uncompressed or compressed trie alike, since
// compression never changes which node a full key reaches — only how
// many edges it takes to get there.
func Lookup(root *Node, key []byte) (*Node, bool) {
	node := root
	remaining := key

	for len(remaining) > 0 {
		matched := false
		for label, child := range node.edges {
			if len(label) <= len(remaining) && string(remaining[:len(label)]) == label {
				node = child
				remaining = remaining[len(label):]
				matched = true
				break
			}
		}
		if !matched {
			return nil, false
		}
	}

	return node, true
}
