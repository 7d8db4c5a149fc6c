package evaluation

import (
	"fmt"

	"github.com/partylines/analysis/internal/party"
)

// ConfusionMatrix counts (truth, predicted) pairs. Rows are the true label,
// columns the predicted one.
type ConfusionMatrix struct {
	cells [party.NumLabels][party.NumLabels]int
}

func (m *ConfusionMatrix) Add(truth, predicted party.Label) error {
	if !truth.Valid() {
		return fmt.Errorf("true label: %w: %s", party.ErrUnknownLabel, truth)
	}
	if !predicted.Valid() {
		return fmt.Errorf("predicted label: %w: %s", party.ErrUnknownLabel, predicted)
	}
	m.cells[truth][predicted]++
	return nil
}

func (m *ConfusionMatrix) Count(truth, predicted party.Label) int {
	if !truth.Valid() || !predicted.Valid() {
		return 0
	}
	return m.cells[truth][predicted]
}

func (m *ConfusionMatrix) Total() int {
	total := 0
	for _, row := range m.cells {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// Counts are one-vs-rest tallies for a single label.
type Counts struct {
	TP int
	FP int
	FN int
	TN int
}

// CountsFor reads TP from the diagonal, FN from the rest of the label's row
// and FP from the rest of its column. With two labels this is exactly
// FN = m[A][B], FP = m[B][A], TN = m[B][B].
func (m *ConfusionMatrix) CountsFor(l party.Label) Counts {
	var c Counts
	for _, truth := range party.All() {
		for _, predicted := range party.All() {
			n := m.cells[truth][predicted]
			switch {
			case truth == l && predicted == l:
				c.TP += n
			case truth == l:
				c.FN += n
			case predicted == l:
				c.FP += n
			default:
				c.TN += n
			}
		}
	}
	return c
}

type Metrics struct {
	Label     party.Label
	Counts    Counts
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Compute derives the scores from one-vs-rest counts. Any ratio whose
// denominator is zero is 0.
func Compute(l party.Label, c Counts) Metrics {
	precision := ratio(float64(c.TP), float64(c.TP+c.FP))
	recall := ratio(float64(c.TP), float64(c.TP+c.FN))
	return Metrics{
		Label:     l,
		Counts:    c,
		Accuracy:  ratio(float64(c.TP+c.TN), float64(c.TP+c.TN+c.FP+c.FN)),
		Precision: precision,
		Recall:    recall,
		F1:        ratio(2*precision*recall, precision+recall),
	}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Evaluator accumulates predictions into a confusion matrix.
type Evaluator struct {
	matrix ConfusionMatrix
}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Record adds one prediction. A label outside the closed set is a
// configuration error and aborts the run.
func (e *Evaluator) Record(truth, predicted party.Label) error {
	return e.matrix.Add(truth, predicted)
}

type Report struct {
	Total   int
	Matrix  ConfusionMatrix
	Metrics []Metrics
}

func (e *Evaluator) Report() *Report {
	report := &Report{
		Total:  e.matrix.Total(),
		Matrix: e.matrix,
	}
	for _, l := range party.All() {
		report.Metrics = append(report.Metrics, Compute(l, e.matrix.CountsFor(l)))
	}
	return report
}

// MetricsFor returns the metrics of label l, or false if the report has none.
func (r *Report) MetricsFor(l party.Label) (Metrics, bool) {
	for _, m := range r.Metrics {
		if m.Label == l {
			return m, true
		}
	}
	return Metrics{}, false
}
