package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nurpe/contracts-service/internal/config"
	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
)

type RegistryGenerator interface {
	Generate(registry model.ContractRegistry) ([]byte, error)
}

type ExportService struct {
	contracts ContractStore
	excel     RegistryGenerator
	pdf       RegistryGenerator
	maxRows   int
	now       func() time.Time
}

func NewExportService(contracts ContractStore, excel, pdf RegistryGenerator, cfg *config.Config) *ExportService {
	return &ExportService{
		contracts: contracts,
		excel:     excel,
		pdf:       pdf,
		maxRows:   cfg.Export.MaxRows,
		now:       time.Now,
	}
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportContracts renders the contracts visible to the caller, capped at the export limit.
func (s *ExportService) ExportContracts(ctx context.Context, p model.Principal, filter model.ContractFilter, sort query.Sort, format model.ExportFormat) (*ExportResult, error) {
	scope, err := listScope(p)
	if err != nil {
		return nil, err
	}
	filter.CompanyID = scope

	// One extra row tells whether the result was cut.
	contracts, err := s.contracts.ListAll(ctx, filter, sort, s.maxRows+1)
	if err != nil {
		return nil, err
	}

	registry := model.ContractRegistry{
		GeneratedAt: s.now(),
		Contracts:   contracts,
		Limit:       s.maxRows,
	}
	if len(contracts) > s.maxRows {
		registry.Contracts = contracts[:s.maxRows]
		registry.Truncated = true
	}

	var (
		generator   RegistryGenerator
		contentType string
	)
	switch format {
	case model.ExportFormatXLSX:
		generator, contentType = s.excel, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case model.ExportFormatPDF:
		generator, contentType = s.pdf, "application/pdf"
	default:
		return nil, fmt.Errorf("%w: unsupported export format", ErrInvalidInput)
	}

	content, err := generator.Generate(registry)
	if err != nil {
		return nil, fmt.Errorf("render contracts %s: %w", format, err)
	}
	return &ExportResult{
		FileName:    fmt.Sprintf("contracts_%s.%s", registry.GeneratedAt.Format("20060102_150405"), format),
		ContentType: contentType,
		Content:     content,
	}, nil
}
