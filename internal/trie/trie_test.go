// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

package trie

import "testing"

// TestCompressionScenario exercises the literal scenario from the
// spec: inserting "cat"@1, "car"@2, "dog"@3, "do"@4 must compress to
// top-level edges "ca" and "do", with "ca" having children "t"->{1}
// and "r"->{2}, and "do" carrying {4} directly with a child "g"->{3}.
func TestCompressionScenario(t *testing.T) {
	root := NewNode()
	Insert(root, []byte("cat"), 1)
	Insert(root, []byte("car"), 2)
	Insert(root, []byte("dog"), 3)
	Insert(root, []byte("do"), 4)

	root = Compress(root)

	top := root.SortedEdges()
	if len(top) != 2 || top[0].Label != "ca" || top[1].Label != "do" {
		t.Fatalf("top-level edges = %+v, want ca, do", top)
	}

	ca := top[0].Child
	caEdges := ca.SortedEdges()
	if len(caEdges) != 2 || caEdges[0].Label != "r" || caEdges[1].Label != "t" {
		t.Fatalf("ca edges = %+v, want r, t", caEdges)
	}
	if vals := caEdges[0].Child.Values; len(vals) != 1 || vals[0] != 2 {
		t.Fatalf("ca/r values = %v, want [2]", vals)
	}
	if vals := caEdges[1].Child.Values; len(vals) != 1 || vals[0] != 1 {
		t.Fatalf("ca/t values = %v, want [1]", vals)
	}

	do := top[1].Child
	if vals := do.Values; len(vals) != 1 || vals[0] != 4 {
		t.Fatalf("do values = %v, want [4]", vals)
	}
	doEdges := do.SortedEdges()
	if len(doEdges) != 1 || doEdges[0].Label != "g" {
		t.Fatalf("do edges = %+v, want g", doEdges)
	}
	if vals := doEdges[0].Child.Values; len(vals) != 1 || vals[0] != 3 {
		t.Fatalf("do/g values = %v, want [3]", vals)
	}
}

func TestLookupRoundTrip(t *testing.T) {
	root := NewNode()
	Insert(root, []byte("Main St"), 0)
	Insert(root, []byte("Main Street"), 1)
	root = Compress(root)

	node, ok := Lookup(root, []byte("Main St"))
	if !ok {
		t.Fatalf("Main St not found")
	}
	if len(node.Values) != 1 || node.Values[0] != 0 {
		t.Fatalf("Main St values = %v, want [0]", node.Values)
	}

	node, ok = Lookup(root, []byte("Main Street"))
	if !ok {
		t.Fatalf("Main Street not found")
	}
	if len(node.Values) != 1 || node.Values[0] != 1 {
		t.Fatalf("Main Street values = %v, want [1]", node.Values)
	}
}

func TestEdgesShareNoCommonFirstByteAfterCompression(t *testing.T) {
	root := NewNode()
	Insert(root, []byte("apple"), 0)
	Insert(root, []byte("ant"), 1)
	Insert(root, []byte("banana"), 2)
	root = Compress(root)

	edges := root.SortedEdges()
	seen := map[byte]bool{}
	for _, e := range edges {
		first := e.Label[0]
		if seen[first] {
			t.Fatalf("two edges share first byte %q", first)
		}
		seen[first] = true
	}
}

func TestSingleChildNoTerminalIsEliminated(t *testing.T) {
	root := NewNode()
	Insert(root, []byte("abc"), 0)
	root = Compress(root)

	edges := root.SortedEdges()
	if len(edges) != 1 || edges[0].Label != "abc" {
		t.Fatalf("single linear chain should compress to one edge, got %+v", edges)
	}
}
