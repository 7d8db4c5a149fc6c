package ingestion

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/rangetable"

	"github.com/partylines/analysis/pkg/logger"
)

// Punctuation is deleted before tokenizing: ASCII punctuation plus the
// typographic marks DefaultEscapeTable can introduce.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~" + "‘’“”–—…"

type Lemmatizer interface {
	Lemma(word string) string
}

type Options struct {
	// Retain lists stopwords that are kept. Nil means DefaultRetain.
	Retain []string
	// Lemmatizer defaults to the golem English dictionary.
	Lemmatizer Lemmatizer
}

// Normalizer maps raw text to lemmatized tokens. It is not safe for
// concurrent use; the case mapper keeps state between calls.
type Normalizer struct {
	punctuation transform.Transformer
	lower       cases.Caser
	stopwords   map[string]struct{}
	lemmatizer  Lemmatizer
}

func NewNormalizer(opts Options) (*Normalizer, error) {
	retain := opts.Retain
	if retain == nil {
		retain = DefaultRetain
	}
	lowered := make([]string, len(retain))
	for i, w := range retain {
		lowered[i] = strings.ToLower(strings.TrimSpace(w))
	}

	lemmatizer := opts.Lemmatizer
	if lemmatizer == nil {
		l, err := golem.New(en.New())
		if err != nil {
			return nil, fmt.Errorf("failed to load english lemmatizer: %w", err)
		}
		lemmatizer = l
	}

	logger.Debug("Normalizer initialized", zap.Strings("retain", lowered))

	return &Normalizer{
		punctuation: runes.Remove(runes.In(rangetable.New([]rune(Punctuation)...))),
		lower:       cases.Lower(language.Und),
		stopwords:   stopwordSet(lowered),
		lemmatizer:  lemmatizer,
	}, nil
}

// Normalize deletes punctuation, lowercases, splits on whitespace, drops
// stopwords and lemmatizes, in that order.
func (n *Normalizer) Normalize(raw string) []string {
	text, _, err := transform.String(n.punctuation, raw)
	if err != nil {
		text = strings.Map(func(r rune) rune {
			if strings.ContainsRune(Punctuation, r) {
				return -1
			}
			return r
		}, raw)
	}

	text = n.lower.String(text)

	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, stop := n.stopwords[field]; stop {
			continue
		}
		tokens = append(tokens, n.lemmatizer.Lemma(field))
	}
	return tokens
}

// IsStopword reports whether token is removed by Normalize.
func (n *Normalizer) IsStopword(token string) bool {
	_, ok := n.stopwords[token]
	return ok
}
