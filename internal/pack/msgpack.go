// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

package pack

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/osmstreetindex/triebuilder/internal/shard"
)

// MarshalMsgpack writes the structural dump in MessagePack wire
// format. No repository in the retrieval pack imports a MessagePack
// library, so this implements just enough of the spec (maps, arrays,
// strings, floats, and the small integers the dump needs) directly
// against the wire spec rather than against a third-party encoder; it
// is not a general-purpose MessagePack implementation.
func MarshalMsgpack(b *shard.Builder) ([]byte, error) {
	d := BuildDump(b)

	var out []byte
	out = mpWriteMap(out, 4)

	out = mpWriteString(out, "locations")
	out = mpWriteArrayHeader(out, len(d.Locations))
	for _, e := range d.Locations {
		out = mpWriteArrayHeader(out, 5)
		out = mpWriteFloat64(out, e.Lon)
		out = mpWriteFloat64(out, e.Lat)
		out = mpWriteInt(out, int64(e.NodeIdx))
		out = mpWriteInt(out, int64(e.CityIdx))
		out = mpWriteInt(out, int64(e.Kind))
	}

	out = mpWriteString(out, "city_place_nodes")
	out = mpWriteStringArray(out, d.Nodes)

	out = mpWriteString(out, "city_place_cities")
	out = mpWriteStringArray(out, d.Cities)

	out = mpWriteString(out, "trie")
	out = mpWriteTrieNode(out, d.Trie)

	return out, nil
}

func mpWriteTrieNode(out []byte, n DumpNode) []byte {
	fields := 0
	if len(n.Values) > 0 {
		fields++
	}
	if len(n.Children) > 0 {
		fields++
	}

	out = mpWriteMap(out, fields)

	if len(n.Values) > 0 {
		out = mpWriteString(out, "values")
		out = mpWriteArrayHeader(out, len(n.Values))
		for _, v := range n.Values {
			out = mpWriteInt(out, int64(v))
		}
	}

	if len(n.Children) > 0 {
		out = mpWriteString(out, "children")
		out = mpWriteMap(out, len(n.Children))
		labels := make([]string, 0, len(n.Children))
		for label := range n.Children {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			out = mpWriteString(out, label)
			out = mpWriteTrieNode(out, n.Children[label])
		}
	}

	return out
}

func mpWriteStringArray(out []byte, ss []string) []byte {
	out = mpWriteArrayHeader(out, len(ss))
	for _, s := range ss {
		out = mpWriteString(out, s)
	}
	return out
}

func mpWriteMap(out []byte, n int) []byte {
	if n < 16 {
		return append(out, 0x80|byte(n))
	}
	out = append(out, 0xde)
	return binary.BigEndian.AppendUint16(out, uint16(n))
}

func mpWriteArrayHeader(out []byte, n int) []byte {
	if n < 16 {
		return append(out, 0x90|byte(n))
	}
	out = append(out, 0xdc)
	return binary.BigEndian.AppendUint16(out, uint16(n))
}

func mpWriteString(out []byte, s string) []byte {
	if len(s) < 32 {
		out = append(out, 0xa0|byte(len(s)))
	} else {
		out = append(out, 0xdb)
		out = binary.BigEndian.AppendUint32(out, uint32(len(s)))
	}
	return append(out, s...)
}

func mpWriteInt(out []byte, v int64) []byte {
	if v >= 0 && v < 128 {
		return append(out, byte(v))
	}
	out = append(out, 0xd3)
	return binary.BigEndian.AppendUint64(out, uint64(v))
}

func mpWriteFloat64(out []byte, f float64) []byte {
	out = append(out, 0xcb)
	return binary.BigEndian.AppendUint64(out, math.Float64bits(f))
}
