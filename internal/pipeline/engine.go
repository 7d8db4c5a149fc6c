package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/partylines/analysis/internal/bayes"
	"github.com/partylines/analysis/internal/evaluation"
	"github.com/partylines/analysis/internal/features"
	"github.com/partylines/analysis/internal/metrics"
	"github.com/partylines/analysis/internal/party"
	"github.com/partylines/analysis/internal/storage/models"
	"github.com/partylines/analysis/pkg/logger"
	"github.com/partylines/analysis/pkg/utils"
)

const (
	corpusTraining   = "training"
	corpusEvaluation = "evaluation"
)

type Normalizer interface {
	Normalize(raw string) []string
}

type Cleaner interface {
	Clean(raw string) string
}

// ClassifierFactory builds an untrained classifier over a vocabulary.
type ClassifierFactory func(vocab features.Vocabulary) bayes.Classifier

type Options struct {
	Cutoff              int
	SampleSize          int
	Seed                int64
	InformativeFeatures int
}

type Engine struct {
	normalizer    Normalizer
	cleaner       Cleaner
	newClassifier ClassifierFactory
	opts          Options
}

// Prediction is one classified evaluation record kept for spot checks.
type Prediction struct {
	Text      string
	Tokens    []string
	Truth     party.Label
	Predicted party.Label
}

type Result struct {
	RunID                 string
	TrainingDocuments     int
	EvaluationDocuments   int
	VocabularySize        int
	VocabularyFingerprint string
	Report                *evaluation.Report
	Informative           []bayes.InformativeFeature
	SpotChecks            []Prediction
}

// NewEngine wires the pipeline. A nil factory uses the Bernoulli Naive Bayes model.
func NewEngine(normalizer Normalizer, cleaner Cleaner, factory ClassifierFactory, opts Options) *Engine {
	if factory == nil {
		factory = func(vocab features.Vocabulary) bayes.Classifier {
			return bayes.New(vocab)
		}
	}
	return &Engine{
		normalizer:    normalizer,
		cleaner:       cleaner,
		newClassifier: factory,
		opts:          opts,
	}
}

// Run trains once on the training records and scores every evaluation
// record. Evaluation text is cleaned before normalization; training text is not.
func (e *Engine) Run(ctx context.Context, training, evalRecords []models.Record) (*Result, error) {
	runID := uuid.New().String()
	logger.Info("Starting analysis run",
		zap.String("run_id", runID),
		zap.Int("training_records", len(training)),
		zap.Int("evaluation_records", len(evalRecords)),
		zap.Int("cutoff", e.opts.Cutoff),
	)

	stageStart := time.Now()
	docs := make([][]string, len(training))
	for i, rec := range training {
		docs[i] = e.normalizer.Normalize(rec.Text)
		metrics.DocumentsNormalized.WithLabelValues(corpusTraining).Inc()
		metrics.TokensProduced.WithLabelValues(corpusTraining).Add(float64(len(docs[i])))
	}

	vocab, err := features.BuildVocabulary(docs, e.opts.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to build vocabulary with cutoff %d: %w", e.opts.Cutoff, err)
	}
	fingerprint := utils.Fingerprint(vocab.Tokens())
	metrics.VocabularySize.Set(float64(vocab.Len()))

	logger.Info("Vocabulary built",
		zap.String("run_id", runID),
		zap.Int("size", vocab.Len()),
		zap.String("fingerprint", fingerprint),
	)

	examples := make([]bayes.Example, len(training))
	for i, rec := range training {
		fm, err := features.Extract(docs[i], vocab)
		if err != nil {
			return nil, fmt.Errorf("failed to extract training features: %w", err)
		}
		observeFeatures(corpusTraining, fm)
		examples[i] = bayes.Example{Features: fm, Label: rec.Label}
	}

	classifier := e.newClassifier(vocab)
	if err := classifier.Train(examples); err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}
	metrics.RunDuration.WithLabelValues("train").Set(time.Since(stageStart).Seconds())
	logger.Info("Classifier trained", zap.String("run_id", runID), zap.Int("examples", len(examples)))

	stageStart = time.Now()
	sampled := e.sampleIndexes(len(evalRecords))
	evaluator := evaluation.NewEvaluator()
	var spotChecks []Prediction

	for i, rec := range evalRecords {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tokens := e.normalizer.Normalize(e.cleaner.Clean(rec.Text))
		metrics.DocumentsNormalized.WithLabelValues(corpusEvaluation).Inc()
		metrics.TokensProduced.WithLabelValues(corpusEvaluation).Add(float64(len(tokens)))

		fm, err := features.Extract(tokens, vocab)
		if err != nil {
			return nil, fmt.Errorf("failed to extract evaluation features: %w", err)
		}
		observeFeatures(corpusEvaluation, fm)

		predicted, err := classifier.Classify(fm)
		if err != nil {
			return nil, fmt.Errorf("failed to classify record %d: %w", i, err)
		}
		if err := evaluator.Record(rec.Label, predicted); err != nil {
			return nil, fmt.Errorf("failed to record prediction %d: %w", i, err)
		}
		metrics.Predictions.WithLabelValues(rec.Label.String(), predicted.String()).Inc()

		if _, ok := sampled[i]; ok {
			spotChecks = append(spotChecks, Prediction{
				Text:      rec.Text,
				Tokens:    tokens,
				Truth:     rec.Label,
				Predicted: predicted,
			})
		}
	}
	metrics.RunDuration.WithLabelValues("evaluate").Set(time.Since(stageStart).Seconds())

	report := evaluator.Report()
	for _, m := range report.Metrics {
		label := m.Label.String()
		metrics.LabelScore.WithLabelValues(label, "accuracy").Set(m.Accuracy)
		metrics.LabelScore.WithLabelValues(label, "precision").Set(m.Precision)
		metrics.LabelScore.WithLabelValues(label, "recall").Set(m.Recall)
		metrics.LabelScore.WithLabelValues(label, "f1").Set(m.F1)

		logger.Info("Label evaluated",
			zap.String("run_id", runID),
			zap.String("label", label),
			zap.Float64("accuracy", m.Accuracy),
			zap.Float64("precision", m.Precision),
			zap.Float64("recall", m.Recall),
			zap.Float64("f1", m.F1),
		)
	}

	return &Result{
		RunID:                 runID,
		TrainingDocuments:     len(training),
		EvaluationDocuments:   len(evalRecords),
		VocabularySize:        vocab.Len(),
		VocabularyFingerprint: fingerprint,
		Report:                report,
		Informative:           classifier.MostInformative(e.opts.InformativeFeatures),
		SpotChecks:            spotChecks,
	}, nil
}

// sampleIndexes picks up to SampleSize distinct record positions with a
// seeded source, so the same seed always inspects the same records.
func (e *Engine) sampleIndexes(n int) map[int]struct{} {
	k := e.opts.SampleSize
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(e.opts.Seed))
	perm := rng.Perm(n)[:k]

	out := make(map[int]struct{}, k)
	for _, i := range perm {
		out[i] = struct{}{}
	}
	return out
}

func observeFeatures(corpus string, fm features.FeatureMap) {
	metrics.FeaturesPerDocument.WithLabelValues(corpus).Observe(float64(len(fm)))
	if len(fm) == 0 {
		metrics.EmptyDocuments.WithLabelValues(corpus).Inc()
	}
}
