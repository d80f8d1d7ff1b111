package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RelationTypeBuyer  = "buyer"
	RelationTypeSeller = "seller"
)

type EntityCompanyRelation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_entity_company_relation"`
	LegalEntityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_entity_company_relation"`
	RelationType  string    `gorm:"size:10;not null;uniqueIndex:uq_entity_company_relation"`
	Description   *string
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (EntityCompanyRelation) TableName() string { return "entity_company_relations" }

type RelationPatch struct {
	CompanyID     *uuid.UUID
	LegalEntityID *uuid.UUID
	RelationType  *string
	Description   *string
}

type RelationFilter struct {
	LegalEntityID uuid.UUID
	CompanyID     uuid.UUID
	RelationType  string
	Description   string
}

// RelationLookup selects legal entity ids by exact relation attributes.
type RelationLookup struct {
	CompanyID     uuid.UUID
	LegalEntityID uuid.UUID
	RelationType  string
}
