package model

import (
	"time"

	"github.com/google/uuid"
)

type Contract struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Number         string        `gorm:"size:255;not null"`
	Name           string        `gorm:"size:255;not null"`
	Date           time.Time     `gorm:"type:date;not null"`
	BuyerID        uuid.UUID     `gorm:"type:uuid;not null"`
	SellerID       uuid.UUID     `gorm:"type:uuid;not null"`
	CompanyID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	ResponsibleID  uuid.UUID     `gorm:"type:uuid;not null"`
	ContractTypeID string        `gorm:"size:50;not null"`
	ContractType   *ContractType `gorm:"foreignKey:ContractTypeID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time     `gorm:"autoCreateTime"`
	CreatedBy      uuid.UUID     `gorm:"type:uuid;not null"`
	ModifiedAt     time.Time     `gorm:"autoUpdateTime"`
	ModifiedBy     uuid.UUID     `gorm:"type:uuid;not null"`
}

func (Contract) TableName() string { return "contracts" }

// ContractPatch carries the fields of a partial update; nil means "keep".
type ContractPatch struct {
	Name           *string
	Number         *string
	Date           *time.Time
	BuyerID        *uuid.UUID
	SellerID       *uuid.UUID
	ContractTypeID *string
	CompanyID      *uuid.UUID
	ResponsibleID  *uuid.UUID
}

type ContractFilter struct {
	Name      string
	Number    string
	Date      *time.Time
	CompanyID uuid.UUID
}
