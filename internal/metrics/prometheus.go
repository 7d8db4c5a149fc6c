package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is private to the analysis so tests and repeated runs do not
// collide with the global default registry.
var Registry = prometheus.NewRegistry()

var (
	DocumentsNormalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partylines_documents_normalized_total",
			Help: "Documents passed through the normalizer",
		},
		[]string{"corpus"},
	)

	TokensProduced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partylines_tokens_total",
			Help: "Normalized tokens produced",
		},
		[]string{"corpus"},
	)

	EmptyDocuments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partylines_empty_feature_maps_total",
			Help: "Documents whose feature map was empty",
		},
		[]string{"corpus"},
	)

	VocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "partylines_vocabulary_size",
			Help: "Tokens kept after the frequency cutoff",
		},
	)

	FeaturesPerDocument = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partylines_features_per_document",
			Help:    "Vocabulary tokens present per document",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 200},
		},
		[]string{"corpus"},
	)

	Predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partylines_predictions_total",
			Help: "Classified evaluation documents by true and predicted label",
		},
		[]string{"truth", "predicted"},
	)

	LabelScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "partylines_label_score",
			Help: "Evaluation metric per label",
		},
		[]string{"label", "metric"},
	)

	RunDuration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "partylines_stage_duration_seconds",
			Help: "Wall time per pipeline stage",
		},
		[]string{"stage"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		Registry.MustRegister(DocumentsNormalized)
		Registry.MustRegister(TokensProduced)
		Registry.MustRegister(EmptyDocuments)
		Registry.MustRegister(VocabularySize)
		Registry.MustRegister(FeaturesPerDocument)
		Registry.MustRegister(Predictions)
		Registry.MustRegister(LabelScore)
		Registry.MustRegister(RunDuration)
	})
}

// WriteTextfile writes the registry in the Prometheus text format for the
// node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
