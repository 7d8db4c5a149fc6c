package ingestion

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// suffixLemmatizer strips a plural "s" so expectations do not depend on
// the dictionary.
type suffixLemmatizer struct{}

func (suffixLemmatizer) Lemma(word string) string {
	if len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return strings.TrimSuffix(word, "s")
	}
	return word
}

func newTestNormalizer(t *testing.T, retain []string) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(Options{Retain: retain, Lemmatizer: suffixLemmatizer{}})
	require.NoError(t, err)
	return n
}

var (
	golemOnce       sync.Once
	golemNormalizer *Normalizer
	golemErr        error
)

func newGolemNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	golemOnce.Do(func() {
		golemNormalizer, golemErr = NewNormalizer(Options{})
	})
	require.NoError(t, golemErr)
	return golemNormalizer
}

func TestNormalize(t *testing.T) {
	n := newTestNormalizer(t, nil)

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "punctuation deleted without substitution",
			in:   "Hello, world! It's time.",
			want: []string{"hello", "world", "time"},
		},
		{
			name: "whitespace runs collapse",
			in:   "jobs   \t\n  families",
			want: []string{"job", "familie"},
		},
		{
			name: "about is retained",
			in:   "This is about the votes",
			want: []string{"about", "vote"},
		},
		{
			name: "hyphen joins words",
			in:   "health-care costs",
			want: []string{"healthcare", "cost"},
		},
		{
			name: "typographic quotes and dashes",
			in:   "“Vote”—now…",
			want: []string{"votenow"},
		},
		{
			name: "empty",
			in:   "",
			want: []string{},
		},
		{
			name: "only stopwords",
			in:   "and the of",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizePunctuationBeforeStopwords(t *testing.T) {
	n := newTestNormalizer(t, nil)

	// "don't" loses its apostrophe first, so the stopword "don't" no longer matches
	// but "dont" is not a stopword either.
	assert.Equal(t, []string{"dont", "care"}, n.Normalize("Don't care"))
}

func TestNormalizeCustomRetain(t *testing.T) {
	n := newTestNormalizer(t, []string{"Against"})

	assert.Equal(t, []string{"against", "vote"}, n.Normalize("against the about votes"))
	assert.True(t, n.IsStopword("about"))
	assert.False(t, n.IsStopword("against"))
}

func TestNormalizeDeterministic(t *testing.T) {
	n := newGolemNormalizer(t)

	in := "The Americans were running for their families, and the children voted!"
	first := n.Normalize(in)
	second := n.Normalize(in)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestNormalizeGolemLemmas(t *testing.T) {
	n := newGolemNormalizer(t)

	tokens := n.Normalize("Cats and votes")
	assert.Equal(t, []string{"cat", "vote"}, tokens)
}

func TestNormalizeAfterCleanRaw(t *testing.T) {
	n := newTestNormalizer(t, nil)

	tokens := n.Normalize(CleanRaw(`b'We won\xe2\x80\x99t stop https://t.co/abc'`))
	assert.Equal(t, []string{"wont", "stop"}, tokens)
}
