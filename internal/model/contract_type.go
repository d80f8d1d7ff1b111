package model

type ContractType struct {
	ID     string `gorm:"primaryKey;size:50"`
	Name   string `gorm:"size:100;not null"`
	Colour string `gorm:"size:7;not null"`
}

func (ContractType) TableName() string { return "contract_types" }

type ContractTypeFilter struct {
	Name string
}

// DefaultContractTypes is the reference data seeded on startup.
var DefaultContractTypes = []ContractType{
	{ID: "delivery", Name: "Договор оказания курьерских услуг", Colour: "#b70094"},
}
