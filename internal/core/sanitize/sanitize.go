// Package sanitize cleans free form text before it crosses into outputs
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFC normalization
// 3 Remove control runes except \n \r \t
// 4 Remove format chars ZWJ ZWNJ FEFF etc
// 5 Collapse whitespace to single spaces and trim
package sanitize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// keep tab and newlines until the whitespace collapse so "a\nb" stays two words
var hardControls = runes.Predicate(func(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	}
	return unicode.IsControl(r)
})

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(hardControls),
			runes.Remove(runes.In(unicode.Cf)),
		)
	},
}

// Clean normalizes s for output files and the API
func Clean(s string) string {
	if s == "" {
		return ""
	}

	// repair first so the transformer never sees invalid bytes
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	defer chainPool.Put(tr)
	tr.Reset()

	out, _, err := transform.String(tr, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}
