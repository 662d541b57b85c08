package main

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

var (
	reportHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5fafff")).Padding(0, 1)
	reportCell   = lipgloss.NewStyle().Padding(0, 1)
	reportBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("#606060"))
)

// row is one line of a report.
type row struct {
	Key   string
	Value any
}

// printReport writes rows as a two-column table under title.
func printReport(w io.Writer, title string, rows []row) error {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Key, fmt.Sprint(r.Value)}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(reportBorder).
		Headers(title, "").
		Rows(data...).
		StyleFunc(func(r, _ int) lipgloss.Style {
			if r == table.HeaderRow {
				return reportHeader
			}
			return reportCell
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
