package ingestion

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kyokomi/emoji/v2"
)

// Escape maps a mis-decoded escape sequence, as it appears literally in
// text produced by stringifying a byte string, to the intended character.
type Escape struct {
	From string
	To   string
}

// DefaultEscapeTable is a best-effort denylist of artifacts seen in the
// tweet corpus. It is data, not an encoding repair algorithm.
var DefaultEscapeTable = []Escape{
	{From: `\xe2\x80\x99`, To: "’"},
	{From: `\xe2\x80\x98`, To: "‘"},
	{From: `\xe2\x80\x9c`, To: "“"},
	{From: `\xe2\x80\x9d`, To: "”"},
	{From: `\xe2\x80\x94`, To: "—"},
	{From: `\xe2\x80\x93`, To: "–"},
	{From: `\xe2\x80\xa6`, To: "…"},
	{From: `\xf0\x9f\x87\xba\xf0\x9f\x87\xb8`, To: "🇺🇸"},
	{From: `\xf0\x9f\x91\x89`, To: "👉"},
}

var (
	residualEscapeRegex = regexp.MustCompile(`\\x[0-9a-fA-F]{2}`)
	urlRegex            = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.\-]*://\S+`)
)

// Cleaner removes source-specific artifacts from tweet text before
// normalization. It is immutable after construction.
type Cleaner struct {
	emoji   *strings.Replacer
	escapes *strings.Replacer
}

func NewCleaner(extra []Escape) *Cleaner {
	table := make([]Escape, 0, len(DefaultEscapeTable)+len(extra))
	table = append(table, DefaultEscapeTable...)
	table = append(table, extra...)

	return &Cleaner{
		emoji:   newEmojiReplacer(),
		escapes: newEscapeReplacer(table),
	}
}

// Clean applies the cleaning steps until the text stops changing, so
// Clean(Clean(x)) == Clean(x) holds even when a deletion exposes a new
// byte-string marker or escape sequence.
func (c *Cleaner) Clean(text string) string {
	for {
		next := c.cleanOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func (c *Cleaner) cleanOnce(text string) string {
	text = c.emoji.Replace(text)
	text = stripByteMarker(text)
	text = c.escapes.Replace(text)
	text = residualEscapeRegex.ReplaceAllString(text, "")
	text = urlRegex.ReplaceAllString(text, "")
	return text
}

var (
	defaultCleanerOnce sync.Once
	defaultCleaner     *Cleaner
)

// CleanRaw cleans tweet text with the default escape table.
func CleanRaw(text string) string {
	defaultCleanerOnce.Do(func() {
		defaultCleaner = NewCleaner(nil)
	})
	return defaultCleaner.Clean(text)
}

// stripByteMarker turns b'...' or b"..." into its contents. A missing
// closing quote is tolerated.
func stripByteMarker(text string) string {
	if len(text) < 2 || text[0] != 'b' || (text[1] != '\'' && text[1] != '"') {
		return text
	}
	quote := text[1]
	text = text[2:]
	if strings.HasSuffix(text, string(quote)) {
		text = text[:len(text)-1]
	}
	return text
}

func newEscapeReplacer(table []Escape) *strings.Replacer {
	sorted := make([]Escape, 0, len(table))
	for _, e := range table {
		if e.From != "" {
			sorted = append(sorted, e)
		}
	}
	// strings.Replacer prefers earlier pairs at the same position
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].From) > len(sorted[j].From)
	})

	pairs := make([]string, 0, 2*len(sorted))
	for _, e := range sorted {
		pairs = append(pairs, e.From, e.To)
	}
	return strings.NewReplacer(pairs...)
}

func newEmojiReplacer() *strings.Replacer {
	type entry struct {
		glyph string
		code  string
	}

	// several codes may name one glyph; the smallest code wins
	best := make(map[string]string)
	for glyph, codes := range emoji.RevCodeMap() {
		glyph = strings.TrimSpace(glyph)
		if glyph == "" || isASCII(glyph) {
			continue
		}
		for _, code := range codes {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			if cur, ok := best[glyph]; !ok || code < cur {
				best[glyph] = code
			}
		}
	}

	entries := make([]entry, 0, len(best))
	for glyph, code := range best {
		entries = append(entries, entry{glyph: glyph, code: code})
	}

	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].glyph) != len(entries[j].glyph) {
			return len(entries[i].glyph) > len(entries[j].glyph)
		}
		return entries[i].glyph < entries[j].glyph
	})

	pairs := make([]string, 0, 2*len(entries))
	for _, e := range entries {
		pairs = append(pairs, e.glyph, " "+e.code+" ")
	}
	return strings.NewReplacer(pairs...)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
