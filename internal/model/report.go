package model

import (
	"fmt"
	"strings"
	"time"
)

type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatPDF  ExportFormat = "pdf"
)

func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatXLSX:
		return ExportFormatXLSX, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContractRegistry is a printable list of contracts.
type ContractRegistry struct {
	GeneratedAt time.Time
	Contracts   []Contract
	// Truncated is set when more contracts matched than the export limit allows.
	Truncated bool
	Limit     int
}
