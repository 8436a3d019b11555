package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"pipecrm/internal/models"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	PipelineReport(totals []models.StageTotal, generatedAt time.Time, w io.Writer) error
}

type ReportGenerator struct {
	fontName string
}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{fontName: "Helvetica"}
}

// PipelineReport рендерит сводку по пайплайну в PDF и пишет в w.
func (g *ReportGenerator) PipelineReport(totals []models.StageTotal, generatedAt time.Time, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Pipeline report", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "Pipeline Report", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 7, generatedAt.Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Таблица по этапам
	g.sectionTitle(pdf, "Totals by stage")

	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(50, 8, "Stage", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Count", "B", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, "Total value", "B", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, "Weighted", "B", 1, "R", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	var count int
	var value, weighted float64
	for _, t := range totals {
		pdf.CellFormat(50, 8, t.Stage, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", t.Count), "", 0, "R", false, 0, "")
		pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", t.TotalValue), "", 0, "R", false, 0, "")
		pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", t.TotalWeighted), "", 1, "R", false, 0, "")
		count += t.Count
		value += t.TotalValue
		weighted += t.TotalWeighted
	}

	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(50, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, fmt.Sprintf("%d", count), "T", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", value), "T", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", weighted), "T", 1, "R", false, 0, "")

	return pdf.Output(w)
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(g.fontName, "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	x, y := pdf.GetXY()
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.Line(left, y, pageW-right, y)
	pdf.SetXY(x, y+2)
}
