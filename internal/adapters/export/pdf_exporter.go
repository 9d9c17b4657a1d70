package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/neurostream/protocolengine/internal/application/services"
	"github.com/neurostream/protocolengine/internal/domain/entities"
)

// Page geometry in millimetres (A4 landscape)
const (
	pageMargin   = 10.0
	footerHeight = 12.0
	lineHeight   = 4.5
	headerHeight = 7.0
	titleSize    = 16
	bodySize     = 8
)

// PDFExporter renders comparison tables and recommendations as paginated
// PDF documents.
type PDFExporter struct {
	Title string
	now   func() time.Time
}

// NewPDFExporter creates an exporter titling documents with title
func NewPDFExporter(title string) *PDFExporter {
	if title == "" {
		title = "TMS Protocol Comparison"
	}
	return &PDFExporter{Title: title, now: time.Now}
}

// Export writes the filtered, sorted rows of view (every page, not only the
// current one) followed by the narrative.
func (e *PDFExporter) Export(w io.Writer, view entities.TableView, narrative string) error {
	pdf := e.newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	e.writeTitle(pdf, tr, e.Title)

	rows := view.FilteredRows
	if rows == nil {
		rows = view.Rows
	}
	if len(view.Columns) == 0 || len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", bodySize+2)
		pdf.CellFormat(0, headerHeight, tr(services.MessageSelectProtocols), "", 1, "L", false, 0, "")
	} else {
		e.writeTable(pdf, tr, view.Columns, rows)
	}

	if strings.TrimSpace(narrative) != "" {
		pdf.Ln(lineHeight)
		writeMarkdown(pdf, tr, narrative)
	}

	return output(pdf, w)
}

// ExportRecommendations writes a recommendation report for a selection
func (e *PDFExporter) ExportRecommendations(w io.Writer, selection entities.PatientSelection, recommendations []entities.Recommendation) error {
	pdf := e.newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	e.writeTitle(pdf, tr, e.Title)

	pdf.SetFont("Helvetica", "", bodySize+2)
	pdf.MultiCell(0, lineHeight+1, tr(fmt.Sprintf("Diagnosis: %s\nSymptoms: %s",
		orNone(selection.Diagnosis), orNone(strings.Join(selection.Symptoms, ", ")))), "", "L", false)
	pdf.Ln(lineHeight)

	for _, rec := range recommendations {
		pdf.SetFont("Helvetica", "B", bodySize+4)
		pdf.CellFormat(0, headerHeight, tr(rec.Symptom), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", bodySize+2)
		if rec.IsSentinel() || rec.Protocol == nil {
			pdf.MultiCell(0, lineHeight+1, tr(rec.Message), "", "L", false)
			pdf.Ln(lineHeight)
			continue
		}

		p := rec.Protocol
		for _, field := range [][2]string{
			{"Target", p.Target},
			{"Frequency", p.Frequency},
			{"Intensity", p.Intensity},
			{"Pulses", fmt.Sprintf("%d", p.Pulses)},
			{"Sessions", p.Sessions},
			{"Schedule", p.Schedule},
			{"Evidence", p.Evidence},
			{"Notes", p.Notes},
			{"References", strings.Join(p.References, "; ")},
		} {
			if field[1] == "" {
				continue
			}
			pdf.MultiCell(0, lineHeight+1, tr(field[0]+": "+field[1]), "", "L", false)
		}
		for _, note := range rec.Adjustments {
			pdf.SetFont("Helvetica", "I", bodySize+2)
			pdf.MultiCell(0, lineHeight+1, tr("Adjustment: "+note), "", "L", false)
		}
		pdf.Ln(lineHeight)
	}

	return output(pdf, w)
}

func (e *PDFExporter) newDocument() *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, footerHeight+pageMargin)
	pdf.AliasNbPages("")
	pdf.SetCreator("protocolengine", true)
	pdf.SetTitle(e.Title, true)
	pdf.SetCreationDate(e.now())

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-(footerHeight + pageMargin/2))
		pdf.SetFont("Helvetica", "I", bodySize-1)
		pdf.MultiCell(0, lineHeight-1, tr(entities.Disclaimer), "", "C", false)
		pdf.CellFormat(0, lineHeight, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return pdf
}

func (e *PDFExporter) writeTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", bodySize)
	pdf.CellFormat(0, lineHeight, "Generated "+e.now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (e *PDFExporter) writeTable(pdf *gofpdf.Fpdf, tr func(string) string, columns []string, rows []entities.Row) {
	pageWidth, pageHeight := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pageMargin) / float64(len(columns))
	bottom := pageHeight - footerHeight - pageMargin

	// Rows are placed by hand so a row never splits across pages.
	pdf.SetAutoPageBreak(false, 0)
	defer pdf.SetAutoPageBreak(true, footerHeight+pageMargin)

	header := func() {
		pdf.SetFont("Helvetica", "B", bodySize)
		pdf.SetFillColor(230, 236, 245)
		height := rowHeight(pdf, tr, columns, colWidth, headerHeight)
		writeRow(pdf, tr, columns, colWidth, height, true)
		pdf.SetFont("Helvetica", "", bodySize)
	}
	header()

	for _, row := range rows {
		cells := make([]string, len(columns))
		for i := range columns {
			if i < len(row) {
				cells[i] = services.FormatCell(row[i])
			}
		}
		height := rowHeight(pdf, tr, cells, colWidth, lineHeight+2)
		if pdf.GetY()+height > bottom {
			pdf.AddPage()
			header()
		}
		writeRow(pdf, tr, cells, colWidth, height, false)
	}
	pdf.SetY(pdf.GetY() + 1)
}

func rowHeight(pdf *gofpdf.Fpdf, tr func(string) string, cells []string, colWidth, minHeight float64) float64 {
	lines := 1
	for _, cell := range cells {
		if n := len(pdf.SplitLines([]byte(tr(cell)), colWidth-2)); n > lines {
			lines = n
		}
	}
	return max(float64(lines)*lineHeight+2, minHeight)
}

func writeRow(pdf *gofpdf.Fpdf, tr func(string) string, cells []string, colWidth, height float64, fill bool) {
	x, y := pdf.GetX(), pdf.GetY()
	for i, cell := range cells {
		left := x + float64(i)*colWidth
		style := "D"
		if fill {
			style = "FD"
		}
		pdf.Rect(left, y, colWidth, height, style)
		pdf.SetXY(left+1, y+1)
		pdf.MultiCell(colWidth-2, lineHeight, tr(cell), "", "L", false)
	}
	pdf.SetXY(x, y+height)
}

// writeMarkdown prints a narrative, rendering headings, bullets and bold
// markers as plain PDF text.
func writeMarkdown(pdf *gofpdf.Fpdf, tr func(string) string, md string) {
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			pdf.Ln(lineHeight / 2)
		case strings.HasPrefix(trimmed, "#"):
			pdf.SetFont("Helvetica", "B", bodySize+4)
			pdf.MultiCell(0, lineHeight+2, tr(strings.TrimSpace(strings.TrimLeft(trimmed, "#"))), "", "L", false)
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			pdf.SetFont("Helvetica", "", bodySize+2)
			pdf.MultiCell(0, lineHeight+1, tr("  - "+stripEmphasis(trimmed[2:])), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", bodySize+2)
			pdf.MultiCell(0, lineHeight+1, tr(stripEmphasis(trimmed)), "", "L", false)
		}
	}
}

func stripEmphasis(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func output(pdf *gofpdf.Fpdf, w io.Writer) error {
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
