package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/liyacrafter/viewcheck/internal/compare"
	"github.com/liyacrafter/viewcheck/internal/dataset"
	"github.com/liyacrafter/viewcheck/internal/suite"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	passStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	partialStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// maxTableRows caps rows rendered to the terminal; exports carry the rest.
const maxTableRows = 50

func statusBadge(status string) string {
	switch status {
	case suite.StatusPass:
		return passStyle.Render("[PASS]")
	case suite.StatusPartial:
		return partialStyle.Render("[PARTIAL]")
	default:
		return failStyle.Render("[" + status + "]")
	}
}

func resultStatus(r compare.Result) string {
	if r.Success() {
		return suite.StatusPass
	}
	return suite.StatusFail
}

func printResult(w io.Writer, title string, r compare.Result) {
	fmt.Fprintf(w, "%s %s\n", statusBadge(resultStatus(r)), titleStyle.Render(title))
	fmt.Fprintf(w, "  %s\n", r.Message())
	if d := r.Details(); d.Len() > 0 {
		fmt.Fprintln(w)
		printDataset(w, d)
	}
}

func printDataset(w io.Writer, d *dataset.Dataset) {
	records := d.Records()
	shown := records
	if len(shown) > maxTableRows {
		shown = shown[:maxTableRows]
	}
	rows := make([][]string, len(shown))
	for i, rec := range shown {
		cells := make([]string, len(rec))
		for j, v := range rec {
			if v == nil {
				cells[j] = dimStyle.Render("NULL")
				continue
			}
			cells[j] = dataset.FormatCell(v)
		}
		rows[i] = cells
	}

	fmt.Fprintln(w, renderTable(d.Columns(), rows))
	if len(records) > len(shown) {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  … %d more rows", len(records)-len(shown))))
	}
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}
