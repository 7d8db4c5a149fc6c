package features

import (
	"errors"
	"sort"
)

// ErrEmptyVocabulary means the cutoff removed every token; classifying
// against an empty feature space is meaningless.
var ErrEmptyVocabulary = errors.New("vocabulary is empty")

const DefaultCutoff = 5

// Vocabulary is the immutable set of tokens eligible as features.
type Vocabulary struct {
	tokens map[string]struct{}
}

// NewVocabulary builds a vocabulary from an explicit token list.
func NewVocabulary(tokens ...string) Vocabulary {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return Vocabulary{tokens: set}
}

// BuildVocabulary keeps every token whose frequency across all documents is
// strictly greater than cutoff.
func BuildVocabulary(docs [][]string, cutoff int) (Vocabulary, error) {
	freq := make(map[string]int)
	for _, doc := range docs {
		for _, token := range doc {
			freq[token]++
		}
	}

	set := make(map[string]struct{})
	for token, count := range freq {
		if count > cutoff {
			set[token] = struct{}{}
		}
	}

	if len(set) == 0 {
		return Vocabulary{}, ErrEmptyVocabulary
	}
	return Vocabulary{tokens: set}, nil
}

func (v Vocabulary) Len() int {
	return len(v.tokens)
}

func (v Vocabulary) Contains(token string) bool {
	_, ok := v.tokens[token]
	return ok
}

// Tokens returns the vocabulary sorted.
func (v Vocabulary) Tokens() []string {
	out := make([]string, 0, len(v.tokens))
	for t := range v.tokens {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
