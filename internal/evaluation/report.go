package evaluation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/partylines/analysis/internal/party"
)

func GenerateReport(report *Report) string {
	headers := []string{"truth \\ predicted"}
	for _, l := range party.All() {
		headers = append(headers, l.String())
	}

	matrix := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, truth := range party.All() {
		row := []string{truth.String()}
		for _, predicted := range party.All() {
			row = append(row, strconv.Itoa(report.Matrix.Count(truth, predicted)))
		}
		matrix.Row(row...)
	}

	scores := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("label", "TP", "FP", "FN", "TN", "accuracy", "precision", "recall", "F1")
	for _, m := range report.Metrics {
		scores.Row(
			m.Label.String(),
			strconv.Itoa(m.Counts.TP),
			strconv.Itoa(m.Counts.FP),
			strconv.Itoa(m.Counts.FN),
			strconv.Itoa(m.Counts.TN),
			fmt.Sprintf("%.4f", m.Accuracy),
			fmt.Sprintf("%.4f", m.Precision),
			fmt.Sprintf("%.4f", m.Recall),
			fmt.Sprintf("%.4f", m.F1),
		)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Evaluation Report\n=================\n\nTotal predictions: %d\n\n", report.Total)
	b.WriteString("Confusion matrix:\n")
	b.WriteString(matrix.String())
	b.WriteString("\n\nPer-label metrics:\n")
	b.WriteString(scores.String())
	b.WriteString("\n")
	return b.String()
}
