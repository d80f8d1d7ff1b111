package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
)

var ContractFileSortFields = query.SortFields{
	"name":               "name",
	"contract_file_name": "name",
	"extension":          "extension",
	"created_at":         "created_at",
	"modified_at":        "modified_at",
}

const ContractFileDefaultSort = "name"

type ContractFileRepository struct {
	db *gorm.DB
}

func NewContractFileRepository(db *gorm.DB) *ContractFileRepository {
	return &ContractFileRepository{db: db}
}

func (r *ContractFileRepository) Create(ctx context.Context, file *model.ContractFile) error {
	return mapWriteError(r.db.WithContext(ctx).Omit("Contract").Create(file).Error)
}

// Get loads the file row together with its owning contract.
func (r *ContractFileRepository) Get(ctx context.Context, id uuid.UUID) (*model.ContractFile, error) {
	var file model.ContractFile
	if err := r.db.WithContext(ctx).Preload("Contract").First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *ContractFileRepository) Update(ctx context.Context, file *model.ContractFile) error {
	return mapWriteError(r.db.WithContext(ctx).Omit("Contract", "CreatedAt", "CreatedBy").Save(file).Error)
}

func (r *ContractFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ContractFile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContractFileRepository) List(ctx context.Context, filter model.ContractFileFilter, sort query.Sort, page query.Page) (query.Result[model.ContractFile], error) {
	db := r.db.WithContext(ctx)

	conds := (&query.Conditions{}).Contains("name", filter.Name)
	if filter.ContractID != uuid.Nil {
		conds.Equal("contract_id", filter.ContractID)
	}
	if filter.CompanyID != uuid.Nil {
		owned := db.Model(&model.Contract{}).Select("id").Where("company_id = ?", filter.CompanyID)
		conds.InSubquery("contract_id", owned)
	}
	return query.Find[model.ContractFile](db.Model(&model.ContractFile{}), conds, sort, page)
}
