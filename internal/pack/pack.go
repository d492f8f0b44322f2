// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

// Package pack assembles a completed shard.Builder into the version 11
// packed binary wire format: magic, version, scale, front-coded node
// and city tables, the LOUDS-encoded trie, the per-node value blocks,
// and finally the nibble-packed kind stream for all values in emission
// order.
package pack

import (
	"fmt"

	"github.com/osmstreetindex/triebuilder/internal/location"
	"github.com/osmstreetindex/triebuilder/internal/louds"
	"github.com/osmstreetindex/triebuilder/internal/nametable"
	"github.com/osmstreetindex/triebuilder/internal/shard"
	"github.com/osmstreetindex/triebuilder/internal/varint"
)

// Magic is the 4-byte file signature every packed shard begins with.
const Magic = "STRI"

// Version is the wire format version this package reads and writes.
const Version = 11

// DefaultScale is the fixed-point scale used when a caller does not
// override it.
const DefaultScale = 10_000

// Pack serialises b into the version-11 packed byte stream at the
// given fixed-point scale. b.Compress must already have been called;
// Pack itself performs no trie mutation beyond the LOUDS traversal.
func Pack(b *shard.Builder, scale int) ([]byte, error) {
	if err := varint.ValidateScale(scale); err != nil {
		return nil, err
	}

	reNodes := b.Nodes.Reindex()
	reCities := b.Cities.Reindex()

	remapped := make([]location.Entry, b.Locations.Len())
	for i, e := range b.Locations.Entries() {
		e.NodeIdx = reNodes.OldToNew[e.NodeIdx]
		e.CityIdx = reCities.OldToNew[e.CityIdx]
		remapped[i] = e
	}

	enc := louds.Encode(b.Trie)

	out := make([]byte, 0, 256)
	out = append(out, Magic...)
	out = append(out, byte(Version))
	out = appendScale(out, scale)

	out = append(out, nametable.EncodeFrontCoded(reNodes.Names)...)
	out = append(out, nametable.EncodeFrontCoded(reCities.Names)...)

	out = varint.Encode(out, uint64(enc.NodeCount))
	out = varint.Encode(out, uint64(enc.BitCount))
	out = append(out, enc.Bits.Bytes(enc.BitCount)...)

	out = varint.Encode(out, uint64(enc.EdgeCount))
	for _, label := range enc.EdgeLabels {
		out = varint.Encode(out, uint64(len(label)))
		out = append(out, label...)
	}

	packer := &location.NibblePacker{}
	for _, values := range enc.ValuesPerNode {
		out = varint.Encode(out, uint64(len(values)))
		for _, valueIdx := range values {
			e := remapped[valueIdx]

			var err error
			out, err = varint.EncodeCoordinate(out, e.Lon, scale)
			if err != nil {
				return nil, err
			}
			out, err = varint.EncodeCoordinate(out, e.Lat, scale)
			if err != nil {
				return nil, err
			}

			out = varint.Encode(out, uint64(e.NodeIdx))
			out = varint.Encode(out, uint64(e.CityIdx))

			if err := packer.Push(e.Kind); err != nil {
				return nil, err
			}
		}
	}
	out = append(out, packer.Bytes()...)

	return out, nil
}

func appendScale(out []byte, scale int) []byte {
	u := uint32(scale)
	return append(out, byte(u), byte(u>>8), byte(u>>16))
}

// HeaderInfo is the decoded fixed-size prefix of a packed file, used by
// tests that need the version and scale without decoding the whole
// trie.
type HeaderInfo struct {
	Version int
	Scale   int
}

// DecodeHeader validates the magic and returns the version and scale.
func DecodeHeader(data []byte) (HeaderInfo, int, error) {
	if len(data) < 8 {
		return HeaderInfo{}, 0, fmt.Errorf("pack: input too short for a header")
	}
	if string(data[:4]) != Magic {
		return HeaderInfo{}, 0, fmt.Errorf("pack: bad magic %q, want %q", data[:4], Magic)
	}
	version := int(data[4])
	scale := int(data[5]) | int(data[6])<<8 | int(data[7])<<16
	return HeaderInfo{Version: version, Scale: scale}, 8, nil
}
