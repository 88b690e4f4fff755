package interfaces

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"solar-dgr/internal/observability/metrics"
	ominputs "solar-dgr/internal/ominputs/domain"
	report "solar-dgr/internal/report/domain"
)

// Template cell positions. The template layout is owned by the report
// recipients; the core only knows these anchors.
var cellMap = map[string]string{
	"customer":         "B3",
	"date":             "B4",
	"total_daily":      "E10",
	"total_mtd":        "E11",
	"total_ytd":        "E12",
	"plf_percent":      "E13",
	"breakdown_hours":  "C20",
	"weather":          "C21",
	"generation_hours": "C22",
	"operating_hours":  "C23",
}

// inverterTableStartRow is where the channel table begins in the template.
const inverterTableStartRow = 30

// WorkbookExporter writes report documents into the XLSX template.
type WorkbookExporter struct {
	templatePath string
	outDir       string
}

// NewWorkbookExporter constructs an exporter.
func NewWorkbookExporter(templatePath, outDir string) (*WorkbookExporter, error) {
	if templatePath == "" {
		return nil, errors.New("workbook exporter: empty template path")
	}
	if outDir == "" {
		outDir = "exports"
	}
	return &WorkbookExporter{templatePath: templatePath, outDir: outDir}, nil
}

// Export fills the template with the document and manual inputs and writes
// the workbook to the export directory. Returns the artifact path.
func (e *WorkbookExporter) Export(doc *report.Document, inputs *ominputs.Inputs) (string, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportExport("xlsx", result, time.Since(start))
	}()

	path, err := e.export(doc, inputs)
	if err != nil {
		result = metrics.ResultError
		return "", err
	}
	return path, nil
}

func (e *WorkbookExporter) export(doc *report.Document, inputs *ominputs.Inputs) (string, error) {
	if doc == nil {
		return "", errors.New("workbook exporter: nil document")
	}
	f, err := excelize.OpenFile(e.templatePath)
	if err != nil {
		return "", fmt.Errorf("workbook exporter: open template %s: %w", e.templatePath, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		return "", err
	}

	values := map[string]any{
		"customer":    doc.CustomerID,
		"date":        doc.DataDay,
		"total_daily": doc.KPI.TotalDaily,
		"total_mtd":   doc.KPI.TotalMTD,
		"total_ytd":   doc.KPI.TotalYTD,
		"plf_percent": fmt.Sprintf("%.2f%%", doc.KPI.PLFPercent),
	}
	if inputs != nil {
		values["breakdown_hours"] = inputs.BreakdownHours
		values["weather"] = inputs.Weather
		values["generation_hours"] = inputs.GenerationHours
		values["operating_hours"] = inputs.OperatingHours
	}
	for key, coord := range cellMap {
		value, ok := values[key]
		if !ok {
			continue
		}
		target, err := topLeftIfMerged(merged, coord)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, target, value); err != nil {
			return "", err
		}
	}

	for i, row := range doc.Rows {
		r := inverterTableStartRow + i
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Name); err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.DailyKWh); err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.MonthlyKWh); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(e.outDir, fmt.Sprintf("%s_DGR_%s.xlsx", doc.CustomerID, doc.DataDay))
	if err := f.SaveAs(outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// topLeftIfMerged redirects a coordinate inside a merged range to that
// range's top-left cell; writes to any other cell of a merged block are lost.
func topLeftIfMerged(merged []excelize.MergeCell, coord string) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(coord)
	if err != nil {
		return "", err
	}
	for _, block := range merged {
		minCol, minRow, err := excelize.CellNameToCoordinates(block.GetStartAxis())
		if err != nil {
			return "", err
		}
		maxCol, maxRow, err := excelize.CellNameToCoordinates(block.GetEndAxis())
		if err != nil {
			return "", err
		}
		if col >= minCol && col <= maxCol && row >= minRow && row <= maxRow {
			return block.GetStartAxis(), nil
		}
	}
	return coord, nil
}

// BuildSummaryPDF renders a minimal PDF rendition of the report.
func BuildSummaryPDF(doc *report.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("summary pdf: nil document")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Daily Generation Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Customer: %s", doc.CustomerID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Data day: %s", doc.DataDay))
	pdf.Ln(8)

	pdf.Cell(0, 6, fmt.Sprintf("Daily Generation (kWh): %.2f", doc.KPI.TotalDaily))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("MTD Generation (kWh): %.2f", doc.KPI.TotalMTD))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("YTD Generation (kWh): %.2f", doc.KPI.TotalYTD))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("PLF: %.2f%%", doc.KPI.PLFPercent))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Channel", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Daily (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Monthly (kWh)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range doc.Rows {
		pdf.CellFormat(60, 6, row.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.2f", row.DailyKWh), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.2f", row.MonthlyKWh), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
