package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/contracts-service/internal/model"
)

const utf8FontName = "RegistryFont"

type labels struct {
	title     string
	generated string
	total     string
	truncated string
	headers   []string
}

var cyrillicLabels = labels{
	title:     "Реестр договоров",
	generated: "Сформирован: %s",
	total:     "Количество договоров: %d",
	truncated: "Внимание: выгружены первые %d договоров.",
	headers:   []string{"Номер", "Наименование", "Дата", "Тип договора", "Покупатель", "Продавец"},
}

// Core PDF fonts cannot render Cyrillic, so the fallback layout stays in latin.
var latinLabels = labels{
	title:     "Contract registry",
	generated: "Generated: %s",
	total:     "Contracts: %d",
	truncated: "Warning: only the first %d contracts are included.",
	headers:   []string{"Number", "Name", "Date", "Type", "Buyer", "Seller"},
}

var colWidths = []float64{25, 70, 22, 50, 55, 55}

type Generator struct {
	fontName string
	fontData []byte
	labels   labels
}

// NewGenerator loads a UTF-8 TTF font from fontPath. An empty path selects Helvetica.
func NewGenerator(fontPath string) (*Generator, error) {
	if strings.TrimSpace(fontPath) == "" {
		return &Generator{fontName: "Helvetica", labels: latinLabels}, nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf font: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}
	return &Generator{fontName: utf8FontName, fontData: data, labels: cyrillicLabels}, nil
}

func (g *Generator) Generate(registry model.ContractRegistry) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	if g.fontData != nil {
		pdf.AddUTF8FontFromBytes(g.fontName, "", g.fontData)
		pdf.AddUTF8FontFromBytes(g.fontName, "B", g.fontData)
	}
	translate := func(s string) string { return s }
	if g.fontData == nil {
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AddPage()
	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, g.labels.title, "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf(g.labels.generated, formatDateTime(registry.GeneratedAt)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf(g.labels.total, len(registry.Contracts)), "", 1, "L", false, 0, "")
	if registry.Truncated {
		pdf.SetTextColor(200, 0, 0)
		pdf.MultiCell(0, 6, fmt.Sprintf(g.labels.truncated, registry.Limit), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	drawTableRow(pdf, g.fontName, g.labels.headers, true)
	for _, contract := range registry.Contracts {
		row := []string{
			translate(contract.Number),
			translate(fit(contract.Name, 45)),
			formatDate(contract.Date),
			translate(fit(typeLabel(contract), 30)),
			contract.BuyerID.String(),
			contract.SellerID.String(),
		}
		drawTableRow(pdf, g.fontName, row, false)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, header bool) {
	style := ""
	size := 8.0
	if header {
		style = "B"
		size = 9
	}
	pdf.SetFont(fontName, style, size)
	for i, col := range cols {
		pdf.CellFormat(colWidths[i], 7, col, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func typeLabel(contract model.Contract) string {
	if contract.ContractType != nil && strings.TrimSpace(contract.ContractType.Name) != "" {
		return contract.ContractType.Name
	}
	return contract.ContractTypeID
}

func fit(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006 15:04")
}
