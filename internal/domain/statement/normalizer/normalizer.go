// Package normalizer provides description cleanup for extracted line items.
// Statement PDFs bleed column noise (city/location fragments) and inline
// category keywords into the merchant column; each bank parser supplies its
// own token sets and the cleaner strips them in a single pass.
package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
)

type tokenKind int

const (
	kindNoise tokenKind = iota
	kindCategory
)

// TokenSet lists the tokens a bank parser wants removed from descriptions.
// Noise tokens are dropped; Category tokens are dropped too, but the first
// one found is reported back as the bank-supplied category label.
type TokenSet struct {
	Noise      []string
	Categories []string
}

// Cleaner strips known noise and category tokens from raw descriptions.
// Matching uses a single Aho-Corasick pass over the uppercased input, so
// the cost is independent of the token count. Safe for concurrent use
// once built.
type Cleaner struct {
	matcher *ahocorasick.Matcher
	upper   []string // uppercase tokens, index-aligned with the matcher
	labels  []string // tokens as registered, used for category output
	kinds   []tokenKind
}

// NewCleaner builds a cleaner from the given token sets. Category tokens are
// registered before noise tokens so a category hit wins when both match.
func NewCleaner(set TokenSet) *Cleaner {
	total := len(set.Noise) + len(set.Categories)
	if total == 0 {
		return &Cleaner{}
	}

	c := &Cleaner{
		upper:  make([]string, 0, total),
		labels: make([]string, 0, total),
		kinds:  make([]tokenKind, 0, total),
	}
	for _, tok := range set.Categories {
		c.add(tok, kindCategory)
	}
	for _, tok := range set.Noise {
		c.add(tok, kindNoise)
	}
	c.matcher = ahocorasick.NewStringMatcher(c.upper)
	return c
}

func (c *Cleaner) add(tok string, kind tokenKind) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return
	}
	c.upper = append(c.upper, strings.ToUpper(tok))
	c.labels = append(c.labels, tok)
	c.kinds = append(c.kinds, kind)
}

// Clean collapses whitespace and removes every registered token present in
// the description. It returns the cleaned description and the first
// category label found, if any.
func (c *Cleaner) Clean(raw string) (string, string) {
	desc := CollapseWhitespace(raw)
	if c.matcher == nil || desc == "" {
		return desc, ""
	}

	category := ""
	for _, idx := range c.matcher.Match([]byte(strings.ToUpper(desc))) {
		// The matcher reports substring hits; only count the token when a
		// whole-word occurrence was actually removed.
		cleaned := removeToken(desc, c.upper[idx])
		if cleaned == desc {
			continue
		}
		if c.kinds[idx] == kindCategory && category == "" {
			category = c.labels[idx]
		}
		desc = cleaned
	}

	return CollapseWhitespace(desc), category
}

// CollapseWhitespace trims the string and replaces runs of whitespace with a
// single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// removeToken deletes every whole-word occurrence of token (uppercase) from
// s, matching case-insensitively. Occurrences embedded in a longer word are
// left alone.
func removeToken(s, token string) string {
	for {
		upper := strings.ToUpper(s)
		start := 0
		cut := -1
		for {
			i := strings.Index(upper[start:], token)
			if i < 0 {
				break
			}
			i += start
			if isWordBoundary(upper, i, i+len(token)) {
				cut = i
				break
			}
			start = i + 1
		}
		if cut < 0 {
			return s
		}
		s = s[:cut] + s[cut+len(token):]
	}
}

// isWordBoundary reports whether s[start:end] is delimited by non-letter,
// non-digit runes (or the string edges) on both sides. Offsets are byte
// positions into s; ToUpper preserves byte offsets for the Latin-1 range
// these tokens use.
func isWordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
