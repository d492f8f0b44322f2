// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

package nametable

import (
	"reflect"
	"testing"
)

func TestLookupOrInsert(t *testing.T) {
	tbl := New()
	if tbl.Len() != 1 {
		t.Fatalf("fresh table should seed the empty string, Len() = %d", tbl.Len())
	}

	a := tbl.LookupOrInsert("Node A")
	aAgain := tbl.LookupOrInsert("Node A")
	b := tbl.LookupOrInsert("Node B")

	if a != aAgain {
		t.Fatalf("repeated insert should return the same index")
	}
	if a == b {
		t.Fatalf("distinct names should get distinct indices")
	}
}

func TestReindexOrdering(t *testing.T) {
	tbl := New()
	cIdx := tbl.LookupOrInsert("Charlie St")
	aIdx := tbl.LookupOrInsert("Alpha St")
	bIdx := tbl.LookupOrInsert("Bravo St")

	re := tbl.Reindex()
	if !reflect.DeepEqual(re.Names, []string{"", "Alpha St", "Bravo St", "Charlie St"}) {
		t.Fatalf("unexpected sorted order: %v", re.Names)
	}
	if re.OldToNew[aIdx] != 1 || re.OldToNew[bIdx] != 2 || re.OldToNew[cIdx] != 3 {
		t.Fatalf("unexpected permutation: %v", re.OldToNew)
	}
	if re.OldToNew[0] != 0 {
		t.Fatalf("empty string must remain index 0")
	}
}

func TestFrontCodingRoundTrip(t *testing.T) {
	names := []string{"", "Alpha St", "Alpha Street", "Bravo St", "Zebra Way"}
	encoded := EncodeFrontCoded(names)

	decoded, n, err := DecodeFrontCoded(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(encoded) {
		t.Fatalf("consumed %d bytes, encoded is %d", n, len(encoded))
	}
	if !reflect.DeepEqual(decoded, names) {
		t.Fatalf("round trip: got %v, want %v", decoded, names)
	}
}

func TestFrontCodingFirstEntryHasZeroPrefix(t *testing.T) {
	encoded := EncodeFrontCoded([]string{"Alpha"})
	// count varint (1 byte: 1), prefix_len varint (1 byte: 0), suffix_len (1 byte: 5), "Alpha"
	if encoded[1] != 0 {
		t.Fatalf("first entry prefix_len must be 0, encoded = %v", encoded)
	}
}
