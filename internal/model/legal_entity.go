package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// LegalEntityList mirrors the list envelope of the reference service.
// Entity bodies are owned by the reference service and passed through untouched.
type LegalEntityList struct {
	Total    int               `json:"total"`
	Entities []json.RawMessage `json:"entities"`
}

type LegalEntityCreate struct {
	INN          string    `json:"inn"`
	KPP          string    `json:"kpp,omitempty"`
	CompanyID    uuid.UUID `json:"company_id"`
	Description  *string   `json:"description,omitempty"`
	RelationType string    `json:"-"`
}
