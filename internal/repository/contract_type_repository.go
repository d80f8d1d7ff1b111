package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
)

var ContractTypeSortFields = query.SortFields{
	"name":               "name",
	"contract_type_name": "name",
	"id":                 "id",
	"contract_type_id":   "id",
	"colour":             "colour",
}

const ContractTypeDefaultSort = "name"

type ContractTypeRepository struct {
	db *gorm.DB
}

func NewContractTypeRepository(db *gorm.DB) *ContractTypeRepository {
	return &ContractTypeRepository{db: db}
}

func (r *ContractTypeRepository) Get(ctx context.Context, id string) (*model.ContractType, error) {
	var contractType model.ContractType
	if err := r.db.WithContext(ctx).First(&contractType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contractType, nil
}

func (r *ContractTypeRepository) List(ctx context.Context, filter model.ContractTypeFilter, sort query.Sort, page query.Page) (query.Result[model.ContractType], error) {
	conds := (&query.Conditions{}).Contains("name", filter.Name)
	return query.Find[model.ContractType](r.db.WithContext(ctx).Model(&model.ContractType{}), conds, sort, page)
}
