// Copyright (c) 2026 The triebuilder Authors
// SPDX-License-Identifier: MIT

// Package normalize derives shard keys from names. It never stores its
// output — only the original UTF-8 name is ever written into a trie or
// name table.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Name folds name through NFKD decomposition, drops combining marks
// (Unicode category Mn), lowercases, and keeps only alphanumeric code
// points. All-whitespace or fully-stripped input normalises to "".
func Name(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ShardKey derives the fixed-length shard key for name, or returns ("",
// false) if the row carrying this name should be dropped from sharded
// output: len <= 0 disables sharding, and an empty normalised name has
// no key.
//
// The key is the first len code points of Name(name), with any
// non-ASCII or non-alphanumeric code point replaced by '_', right-padded
// with '_' to exactly len code points.
func ShardKey(name string, length int) (string, bool) {
	if length <= 0 {
		return "", false
	}

	normalized := []rune(Name(name))
	if len(normalized) == 0 {
		return "", false
	}

	if len(normalized) > length {
		normalized = normalized[:length]
	}

	key := make([]rune, length)
	for i := range key {
		if i >= len(normalized) {
			key[i] = '_'
			continue
		}
		r := normalized[i]
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			r = '_'
		}
		key[i] = r
	}

	return string(key), true
}
