package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/neurostream/protocolengine/internal/application/services"
	"github.com/neurostream/protocolengine/internal/domain/entities"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// RenderTable renders the current page of a table view for a terminal.
// The sorted column is marked with an arrow.
func RenderTable(view entities.TableView) string {
	if len(view.Columns) == 0 || view.TotalRows == 0 {
		return mutedStyle.Render(services.MessageSelectProtocols) + "\n"
	}

	headers := make([]string, len(view.Columns))
	for i, col := range view.Columns {
		headers[i] = col
		if view.State.Sort.Column == col {
			if view.State.Sort.Direction == entities.SortDescending {
				headers[i] += " ▼"
			} else {
				headers[i] += " ▲"
			}
		}
	}

	rows := make([][]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		cells := make([]string, len(view.Columns))
		for i := range cells {
			if i < len(row) {
				cells[i] = services.FormatCell(row[i])
			}
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Page %d of %d (%d rows)", view.Page, view.TotalPages, view.TotalRows)))
	b.WriteString("\n")
	return b.String()
}

// RenderRecommendations renders recommendations as plain text blocks
func RenderRecommendations(recommendations []entities.Recommendation) string {
	var b strings.Builder
	for _, rec := range recommendations {
		b.WriteString(headerStyle.UnsetPadding().Render(rec.Symptom))
		b.WriteString("\n")
		if rec.IsSentinel() || rec.Protocol == nil {
			b.WriteString("  " + rec.Message + "\n\n")
			continue
		}
		p := rec.Protocol
		fmt.Fprintf(&b, "  Target:     %s\n", p.Target)
		fmt.Fprintf(&b, "  Frequency:  %s\n", p.Frequency)
		fmt.Fprintf(&b, "  Intensity:  %s\n", p.Intensity)
		fmt.Fprintf(&b, "  Pulses:     %d\n", p.Pulses)
		fmt.Fprintf(&b, "  Sessions:   %s\n", p.Sessions)
		fmt.Fprintf(&b, "  Schedule:   %s\n", p.Schedule)
		fmt.Fprintf(&b, "  Evidence:   %s\n", p.Evidence)
		if p.Notes != "" {
			fmt.Fprintf(&b, "  Notes:      %s\n", p.Notes)
		}
		if len(p.References) > 0 {
			fmt.Fprintf(&b, "  References: %s\n", strings.Join(p.References, "; "))
		}
		for _, note := range rec.Adjustments {
			fmt.Fprintf(&b, "  ! %s\n", note)
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(entities.Disclaimer))
	b.WriteString("\n")
	return b.String()
}
