// Package nameclean canonicalizes raw taxon labels into clean
// scientific-name query keys suitable for exact-match lookups against
// an external name index.
//
// The rules are deliberately conservative. An informal-species marker
// ("sp.") is only removed together with an adjacent specimen code:
// "Aus sp. BOLD:AAB1234" becomes "Aus", but a trailing "Aus sp." is
// left alone because the bare marker does not reliably indicate a
// removable suffix.
package nameclean

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// parenRe matches the innermost parenthesized annotation;
	// applied repeatedly it unwinds nested ones.
	parenRe = regexp.MustCompile(`\([^()]*\)`)

	// spCodeRe matches an informal-species marker followed by a
	// specimen code (uppercase letters, digits, hyphens, colons).
	spCodeRe = regexp.MustCompile(`\bsp\.\s+[A-Z0-9][A-Z0-9:\-]*`)

	// bareSpRe only fires when a word character immediately follows
	// the dot. With a space or at end of string it does not match,
	// so trailing "sp." survives.
	bareSpRe = regexp.MustCompile(`\bsp\.\b`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// Clean normalizes a raw taxon label. Non-string input is stringified
// first. The function is pure and applies, in order: parenthetical
// removal, informal-species marker removal, whitespace collapsing.
func Clean(label any) string {
	s, ok := label.(string)
	if !ok {
		s = fmt.Sprint(label)
	}

	for parenRe.MatchString(s) {
		s = parenRe.ReplaceAllString(s, " ")
	}
	s = spCodeRe.ReplaceAllString(s, " ")
	s = bareSpRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// HasInformalMarker reports whether a raw label contains the
// informal-species marker " sp. ". Such names must not be resolved by
// name fallback: a name-equality query would likely match the parent
// genus and attach wrong metadata to the specimen node.
func HasInformalMarker(label string) bool {
	return strings.Contains(label, " sp. ")
}
