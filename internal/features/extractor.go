package features

// FeatureMap records presence of vocabulary tokens in one document.
type FeatureMap map[string]bool

// Extract returns presence features for tokens found in vocab. Tokens outside
// the vocabulary are dropped; repeats collapse to one entry.
func Extract(tokens []string, vocab Vocabulary) (FeatureMap, error) {
	if vocab.Len() == 0 {
		return nil, ErrEmptyVocabulary
	}

	features := make(FeatureMap)
	for _, token := range tokens {
		if vocab.Contains(token) {
			features[token] = true
		}
	}
	return features, nil
}
