// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

package location

import "testing"

func TestKindFromStringUnknownIsUnspecified(t *testing.T) {
	if got := KindFromString("foobar"); got != KindUnspecified {
		t.Fatalf("got %d, want KindUnspecified", got)
	}
	if got := KindFromString("bus_stop"); got != KindBusStop {
		t.Fatalf("got %d, want KindBusStop", got)
	}
}

func TestTableDedupAndMultiplicity(t *testing.T) {
	tbl := NewTable()

	a := Entry{Lon: 1.0, Lat: 2.0, NodeIdx: 1, CityIdx: 1, Kind: KindStreet}
	idx1 := tbl.IndexFor(a)
	idx2 := tbl.IndexFor(a) // duplicate insert
	b := Entry{Lon: 3.0, Lat: 4.0, NodeIdx: 2, CityIdx: 2, Kind: KindStreet}
	idx3 := tbl.IndexFor(b)

	if idx1 != idx2 {
		t.Fatalf("duplicate tuple must collapse to the same index: %d != %d", idx1, idx2)
	}
	if idx3 == idx1 {
		t.Fatalf("distinct tuple must get a distinct index")
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
}

func TestNibblePacking(t *testing.T) {
	p := &NibblePacker{}
	kinds := []Kind{KindStreet, KindBusStop, KindCountry}
	for _, k := range kinds {
		if err := p.Push(k); err != nil {
			t.Fatal(err)
		}
	}
	out := p.Bytes()
	if len(out) != 2 {
		t.Fatalf("3 nibbles should pack into 2 bytes, got %d", len(out))
	}
	if out[0] != byte(KindStreet)|byte(KindBusStop)<<4 {
		t.Fatalf("first byte = %#x", out[0])
	}
	if out[1] != byte(KindCountry) {
		t.Fatalf("trailing byte high nibble must be zero, got %#x", out[1])
	}
}

func TestNibblePackingSingle(t *testing.T) {
	p := &NibblePacker{}
	if err := p.Push(KindStreet); err != nil {
		t.Fatal(err)
	}
	out := p.Bytes()
	if len(out) != 1 || out[0] != 0x00 {
		t.Fatalf("single street nibble should pack into one 0x00 byte, got %v", out)
	}
}
