package bayes

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/partylines/analysis/internal/features"
	"github.com/partylines/analysis/internal/party"
)

var (
	ErrNoExamples = errors.New("no training examples")
	ErrNotTrained = errors.New("classifier is not trained")
)

// Example is one labeled feature map.
type Example struct {
	Features features.FeatureMap
	Label    party.Label
}

// Classifier is what the pipeline needs from a trained model.
type Classifier interface {
	Train(examples []Example) error
	Classify(fm features.FeatureMap) (party.Label, error)
	MostInformative(n int) []InformativeFeature
}

// InformativeFeature is a token whose presence is much more likely under
// one label than another.
type InformativeFeature struct {
	Token      string
	Ratio      float64
	Favored    party.Label
	Disfavored party.Label
}

type likelihood [party.NumLabels]float64

// NaiveBayes is a Bernoulli Naive Bayes model over boolean presence
// features. Every vocabulary token contributes to a score, absent tokens
// through P(absent | label).
type NaiveBayes struct {
	vocab features.Vocabulary

	trained     bool
	prior       [party.NumLabels]float64
	logPrior    [party.NumLabels]float64
	present     map[string]likelihood
	logPresent  map[string]likelihood
	logAbsent   map[string]likelihood
	absentTotal likelihood
}

var _ Classifier = (*NaiveBayes)(nil)

func New(vocab features.Vocabulary) *NaiveBayes {
	return &NaiveBayes{vocab: vocab}
}

// Train estimates label priors by maximum likelihood and presence
// likelihoods with add-one smoothing over the two outcomes:
// P(present | l) = (count + 1) / (n_l + 2). Training again replaces the model.
func (nb *NaiveBayes) Train(examples []Example) error {
	if len(examples) == 0 {
		return ErrNoExamples
	}
	if nb.vocab.Len() == 0 {
		return features.ErrEmptyVocabulary
	}

	var labelCounts [party.NumLabels]int
	counts := make(map[string]*[party.NumLabels]int, nb.vocab.Len())
	for _, token := range nb.vocab.Tokens() {
		counts[token] = new([party.NumLabels]int)
	}

	for i, ex := range examples {
		if !ex.Label.Valid() {
			return fmt.Errorf("example %d: %w: %s", i, party.ErrUnknownLabel, ex.Label)
		}
		labelCounts[ex.Label]++
		for token, present := range ex.Features {
			c, ok := counts[token]
			if !ok || !present {
				continue
			}
			c[ex.Label]++
		}
	}

	total := float64(len(examples))
	for _, l := range party.All() {
		nb.prior[l] = float64(labelCounts[l]) / total
		nb.logPrior[l] = math.Log(nb.prior[l])
	}

	nb.present = make(map[string]likelihood, len(counts))
	nb.logPresent = make(map[string]likelihood, len(counts))
	nb.logAbsent = make(map[string]likelihood, len(counts))
	nb.absentTotal = likelihood{}

	for token, c := range counts {
		var p, lp, la likelihood
		for _, l := range party.All() {
			p[l] = (float64(c[l]) + 1) / (float64(labelCounts[l]) + 2)
			lp[l] = math.Log(p[l])
			la[l] = math.Log(1 - p[l])
		}
		nb.present[token] = p
		nb.logPresent[token] = lp
		nb.logAbsent[token] = la
	}

	// summed in sorted order so scores do not depend on map iteration
	for _, token := range nb.vocab.Tokens() {
		la := nb.logAbsent[token]
		for _, l := range party.All() {
			nb.absentTotal[l] += la[l]
		}
	}

	nb.trained = true
	return nil
}

// Classify returns the label with the highest log posterior. Tokens the
// model has not seen are ignored. Ties go to the earlier label.
func (nb *NaiveBayes) Classify(fm features.FeatureMap) (party.Label, error) {
	if !nb.trained {
		return 0, ErrNotTrained
	}

	scores := nb.scores(fm)

	best := party.Label(0)
	for _, l := range party.All()[1:] {
		if scores[l] > scores[best] {
			best = l
		}
	}
	return best, nil
}

// LogScores exposes the per-label log posterior (up to a shared constant).
func (nb *NaiveBayes) LogScores(fm features.FeatureMap) ([party.NumLabels]float64, error) {
	if !nb.trained {
		return [party.NumLabels]float64{}, ErrNotTrained
	}
	return nb.scores(fm), nil
}

func (nb *NaiveBayes) scores(fm features.FeatureMap) [party.NumLabels]float64 {
	var present []string
	for token, on := range fm {
		if _, known := nb.logPresent[token]; known && on {
			present = append(present, token)
		}
	}
	sort.Strings(present)

	var scores [party.NumLabels]float64
	for _, l := range party.All() {
		s := nb.logPrior[l] + nb.absentTotal[l]
		for _, token := range present {
			s += nb.logPresent[token][l] - nb.logAbsent[token][l]
		}
		scores[l] = s
	}
	return scores
}

// Prior returns P(l).
func (nb *NaiveBayes) Prior(l party.Label) float64 {
	if !l.Valid() {
		return 0
	}
	return nb.prior[l]
}

// PresenceProbability returns P(token present | l), or 0 for unknown tokens.
func (nb *NaiveBayes) PresenceProbability(token string, l party.Label) float64 {
	p, ok := nb.present[token]
	if !ok || !l.Valid() {
		return 0
	}
	return p[l]
}

// MostInformative returns up to n tokens ordered by the ratio between the
// largest and smallest presence likelihood across labels.
func (nb *NaiveBayes) MostInformative(n int) []InformativeFeature {
	if n <= 0 || !nb.trained {
		return nil
	}

	all := make([]InformativeFeature, 0, len(nb.present))
	for token, p := range nb.present {
		hi, lo := party.Label(0), party.Label(0)
		for _, l := range party.All()[1:] {
			if p[l] > p[hi] {
				hi = l
			}
			if p[l] < p[lo] {
				lo = l
			}
		}
		all = append(all, InformativeFeature{
			Token:      token,
			Ratio:      p[hi] / p[lo],
			Favored:    hi,
			Disfavored: lo,
		})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Ratio != all[j].Ratio {
			return all[i].Ratio > all[j].Ratio
		}
		return all[i].Token < all[j].Token
	})

	if n < len(all) {
		all = all[:n]
	}
	return all
}
