package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanRaw(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean text untouched", "Proud to stand with our nurses.", "Proud to stand with our nurses."},
		{"byte marker single quote", `b'Hello there'`, "Hello there"},
		{"byte marker double quote", `b"It's time"`, "It's time"},
		{"byte marker without closing quote", `b'Truncated`, "Truncated"},
		{"nested byte markers", `b'b'hi''`, "hi"},
		{"curly quotes", `b'\xe2\x80\x9cYes\xe2\x80\x9d'`, "“Yes”"},
		{"apostrophe", `We won\xe2\x80\x99t stop`, "We won’t stop"},
		{"dashes and ellipsis", `now\xe2\x80\x94or\xe2\x80\x93never\xe2\x80\xa6`, "now—or–never…"},
		{"residual escapes deleted", `abc\xf0\x9f\x98 def`, "abc def"},
		{"deletion exposing escape", `\x\x41B1`, ""},
		{"url removed", "Read more https://t.co/xyz123 now", "Read more  now"},
		{"url at end", "Watch live: http://example.com/a?b=c", "Watch live: "},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanRaw(tt.in))
		})
	}
}

func TestCleanRawEmoji(t *testing.T) {
	out := CleanRaw("Great job 😂")

	assert.NotContains(t, out, "😂")
	assert.Regexp(t, `^Great job\s+:[a-z0-9_+\-]+:\s*$`, out)
}

func TestCleanRawEscapedEmojiBecomesDescription(t *testing.T) {
	out := CleanRaw(`Go vote \xf0\x9f\x91\x89 today`)

	assert.NotContains(t, out, `\x`)
	assert.NotContains(t, out, "👉")
	assert.Contains(t, out, "Go vote")
	assert.Contains(t, out, "today")
}

func TestCleanerExtraEscapes(t *testing.T) {
	c := NewCleaner([]Escape{{From: `\xe2\x80\xa2`, To: "*"}})

	assert.Equal(t, "* one * two", c.Clean(`\xe2\x80\xa2 one \xe2\x80\xa2 two`))
	assert.Equal(t, " one", CleanRaw(`\xe2\x80\xa2 one`))
}

func TestCleanRawIdempotent(t *testing.T) {
	inputs := []string{
		`b'b'b'x'''`,
		`b'\xe2\x80\x99'`,
		`\\x41x41`,
		`\x\x\x414141`,
		"https://a.b/c https://d.e",
		"b'https://t.co/x'",
		"🇺🇸🇺🇸 USA",
		`b"\xf0\x9f\x87\xba\xf0\x9f\x87\xb8"`,
		"already clean",
	}

	for _, in := range inputs {
		once := CleanRaw(in)
		assert.Equal(t, once, CleanRaw(once), "input %q", in)
	}
}

func FuzzCleanRawIdempotent(f *testing.F) {
	for _, seed := range []string{`b'\xe2\x80\x99'`, "😂 https://x.y", `\x\x41B1`, "b'b''"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		once := CleanRaw(in)
		if twice := CleanRaw(once); twice != once {
			t.Fatalf("CleanRaw not idempotent for %q: %q then %q", in, once, twice)
		}
	})
}
