package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partylines/analysis/internal/party"
)

// fill records n copies of (truth, predicted).
func fill(t *testing.T, e *Evaluator, truth, predicted party.Label, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, e.Record(truth, predicted))
	}
}

func TestMetricsClosedForm(t *testing.T) {
	const tp, fp, fn, tn = 827, 4897, 502, 3776

	e := NewEvaluator()
	fill(t, e, party.Democratic, party.Democratic, tp)
	fill(t, e, party.Democratic, party.Republican, fn)
	fill(t, e, party.Republican, party.Democratic, fp)
	fill(t, e, party.Republican, party.Republican, tn)

	report := e.Report()
	assert.Equal(t, tp+fp+fn+tn, report.Total)

	dem, ok := report.MetricsFor(party.Democratic)
	require.True(t, ok)
	assert.Equal(t, Counts{TP: tp, FP: fp, FN: fn, TN: tn}, dem.Counts)

	precision := float64(tp) / float64(tp+fp)
	recall := float64(tp) / float64(tp+fn)
	assert.Equal(t, float64(tp+tn)/float64(tp+tn+fp+fn), dem.Accuracy)
	assert.Equal(t, precision, dem.Precision)
	assert.Equal(t, recall, dem.Recall)
	assert.Equal(t, 2*precision*recall/(precision+recall), dem.F1)

	rep, ok := report.MetricsFor(party.Republican)
	require.True(t, ok)
	assert.Equal(t, Counts{TP: tn, FP: fn, FN: fp, TN: tp}, rep.Counts)
	assert.Equal(t, dem.Accuracy, rep.Accuracy)
	assert.Equal(t, float64(tn)/float64(tn+fn), rep.Precision)
	assert.Equal(t, float64(tn)/float64(tn+fp), rep.Recall)
}

func TestMetricsZeroDenominators(t *testing.T) {
	m := Compute(party.Democratic, Counts{})
	assert.Zero(t, m.Accuracy)
	assert.Zero(t, m.Precision)
	assert.Zero(t, m.Recall)
	assert.Zero(t, m.F1)

	// never predicted and never true: precision and recall both 0/0
	m = Compute(party.Democratic, Counts{TN: 10})
	assert.Equal(t, 1.0, m.Accuracy)
	assert.Zero(t, m.Precision)
	assert.Zero(t, m.Recall)
	assert.Zero(t, m.F1)

	// predicted but always wrong: precision 0, recall 0/0
	m = Compute(party.Democratic, Counts{FP: 4})
	assert.Zero(t, m.Precision)
	assert.Zero(t, m.Recall)
	assert.Zero(t, m.F1)
}

func TestMatrixStartsAtZero(t *testing.T) {
	e := NewEvaluator()
	report := e.Report()

	assert.Zero(t, report.Total)
	for _, truth := range party.All() {
		for _, predicted := range party.All() {
			assert.Zero(t, report.Matrix.Count(truth, predicted))
		}
	}
	require.Len(t, report.Metrics, party.NumLabels)
}

func TestRecordRejectsUnknownLabel(t *testing.T) {
	e := NewEvaluator()

	assert.ErrorIs(t, e.Record(party.Label(5), party.Democratic), party.ErrUnknownLabel)
	assert.ErrorIs(t, e.Record(party.Democratic, party.Label(5)), party.ErrUnknownLabel)
	assert.Zero(t, e.Report().Total)
}

func TestReportIsSnapshot(t *testing.T) {
	e := NewEvaluator()
	fill(t, e, party.Republican, party.Republican, 2)

	report := e.Report()
	fill(t, e, party.Republican, party.Republican, 1)

	assert.Equal(t, 2, report.Matrix.Count(party.Republican, party.Republican))
	assert.Equal(t, 3, e.Report().Total)
}

func TestGenerateReport(t *testing.T) {
	e := NewEvaluator()
	fill(t, e, party.Democratic, party.Democratic, 12)
	fill(t, e, party.Democratic, party.Republican, 3)
	fill(t, e, party.Republican, party.Republican, 7)

	out := GenerateReport(e.Report())

	assert.Contains(t, out, "Total predictions: 22")
	assert.Contains(t, out, "Democratic")
	assert.Contains(t, out, "Republican")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "0.8636")
}
