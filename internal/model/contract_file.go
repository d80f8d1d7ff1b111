package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractFile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"size:255;not null"`
	Extension  string    `gorm:"size:10;not null"`
	StorageKey string    `gorm:"column:s3_key;size:255;not null"`
	ContractID uuid.UUID `gorm:"type:uuid;not null;index"`
	Contract   *Contract `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null"`
	ModifiedAt time.Time `gorm:"autoUpdateTime"`
	ModifiedBy uuid.UUID `gorm:"type:uuid;not null"`
}

func (ContractFile) TableName() string { return "contract_files" }

type ContractFileFilter struct {
	Name       string
	ContractID uuid.UUID
	// CompanyID narrows files to contracts owned by the company.
	CompanyID uuid.UUID
}

// Upload is a file received from a client, fully buffered.
type Upload struct {
	Filename string
	Data     []byte
}
