package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
)

// ContractSortFields lists the accepted sort_by keys for contracts.
var ContractSortFields = query.SortFields{
	"name":             "name",
	"contract_name":    "name",
	"number":           "number",
	"contract_number":  "number",
	"date":             "date",
	"contract_type_id": "contract_type_id",
	"created_at":       "created_at",
	"modified_at":      "modified_at",
}

const ContractDefaultSort = "name"

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, contract *model.Contract) error {
	return mapWriteError(r.db.WithContext(ctx).Create(contract).Error)
}

func (r *ContractRepository) Get(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	if err := r.db.WithContext(ctx).First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *model.Contract) error {
	return mapWriteError(r.db.WithContext(ctx).Omit("ContractType", "CreatedAt", "CreatedBy").Save(contract).Error)
}

// Delete removes the contract together with its file rows.
// Objects referenced by the file rows stay in storage.
func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contract_id = ?", id).Delete(&model.ContractFile{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Contract{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ContractRepository) List(ctx context.Context, filter model.ContractFilter, sort query.Sort, page query.Page) (query.Result[model.Contract], error) {
	base := r.db.WithContext(ctx).Model(&model.Contract{})
	return query.Find[model.Contract](base, contractConditions(filter), sort, page)
}

// ListAll returns up to limit contracts matching filter without pagination.
func (r *ContractRepository) ListAll(ctx context.Context, filter model.ContractFilter, sort query.Sort, limit int) ([]model.Contract, error) {
	contracts := make([]model.Contract, 0)
	tx := sort.Apply(contractConditions(filter).Apply(r.db.WithContext(ctx).Model(&model.Contract{})))
	if err := tx.Preload("ContractType").Limit(limit).Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func contractConditions(filter model.ContractFilter) *query.Conditions {
	conds := &query.Conditions{}
	conds.Contains("name", filter.Name)
	if filter.Number != "" {
		conds.Equal("number", filter.Number)
	}
	if filter.Date != nil {
		conds.Equal("date", *filter.Date)
	}
	if filter.CompanyID != uuid.Nil {
		conds.Equal("company_id", filter.CompanyID)
	}
	return conds
}
