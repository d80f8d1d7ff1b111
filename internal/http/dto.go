package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/model"
)

type contractResponse struct {
	ContractID     uuid.UUID `json:"contract_id"`
	ContractName   string    `json:"contract_name"`
	ContractNumber string    `json:"contract_number"`
	Date           string    `json:"date"`
	BuyerID        uuid.UUID `json:"buyer_id"`
	SellerID       uuid.UUID `json:"seller_id"`
	ContractTypeID string    `json:"contract_type_id"`
	CompanyID      uuid.UUID `json:"company_id"`
	ResponsibleID  uuid.UUID `json:"responsible_id"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      uuid.UUID `json:"created_by"`
	ModifiedAt     time.Time `json:"modified_at"`
	ModifiedBy     uuid.UUID `json:"modified_by"`
}

func toContractResponse(c model.Contract) contractResponse {
	return contractResponse{
		ContractID:     c.ID,
		ContractName:   c.Name,
		ContractNumber: c.Number,
		Date:           c.Date.Format(dateLayout),
		BuyerID:        c.BuyerID,
		SellerID:       c.SellerID,
		ContractTypeID: c.ContractTypeID,
		CompanyID:      c.CompanyID,
		ResponsibleID:  c.ResponsibleID,
		CreatedAt:      c.CreatedAt,
		CreatedBy:      c.CreatedBy,
		ModifiedAt:     c.ModifiedAt,
		ModifiedBy:     c.ModifiedBy,
	}
}

type contractListResponse struct {
	Total     int64              `json:"total"`
	Contracts []contractResponse `json:"contracts"`
}

type contractTypeResponse struct {
	ContractTypeID   string `json:"contract_type_id"`
	ContractTypeName string `json:"contract_type_name"`
	Colour           string `json:"colour"`
}

type contractTypeListResponse struct {
	Total         int64                  `json:"total"`
	ContractTypes []contractTypeResponse `json:"contract_types"`
}

type contractFileResponse struct {
	ContractFileID   uuid.UUID `json:"contract_file_id"`
	ContractFileName string    `json:"contract_file_name"`
	Extension        string    `json:"extension"`
	ContractID       uuid.UUID `json:"contract_id"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedBy        uuid.UUID `json:"created_by"`
	ModifiedAt       time.Time `json:"modified_at"`
	ModifiedBy       uuid.UUID `json:"modified_by"`
}

func toContractFileResponse(f model.ContractFile) contractFileResponse {
	return contractFileResponse{
		ContractFileID:   f.ID,
		ContractFileName: f.Name,
		Extension:        f.Extension,
		ContractID:       f.ContractID,
		CreatedAt:        f.CreatedAt,
		CreatedBy:        f.CreatedBy,
		ModifiedAt:       f.ModifiedAt,
		ModifiedBy:       f.ModifiedBy,
	}
}

type contractFileListResponse struct {
	Total         int64                  `json:"total"`
	ContractFiles []contractFileResponse `json:"contract_files"`
}

type relationResponse struct {
	EntityCompanyRelationID uuid.UUID `json:"entity_company_relation_id"`
	CompanyID               uuid.UUID `json:"company_id"`
	LegalEntityID           uuid.UUID `json:"legal_entity_id"`
	RelationType            string    `json:"relation_type"`
	Description             *string   `json:"description"`
	CreatedAt               time.Time `json:"created_at"`
}

func toRelationResponse(r model.EntityCompanyRelation) relationResponse {
	return relationResponse{
		EntityCompanyRelationID: r.ID,
		CompanyID:               r.CompanyID,
		LegalEntityID:           r.LegalEntityID,
		RelationType:            r.RelationType,
		Description:             r.Description,
		CreatedAt:               r.CreatedAt,
	}
}

type relationListResponse struct {
	Total     int64              `json:"total"`
	Relations []relationResponse `json:"relations"`
}

func mapItems[T, R any](items []T, convert func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}
