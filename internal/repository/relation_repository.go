package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
)

var RelationSortFields = query.SortFields{
	"name":          "description",
	"created_at":    "created_at",
	"description":   "description",
	"relation_type": "relation_type",
}

const RelationDefaultSort = "created_at"

type RelationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{db: db}
}

// Create returns ErrDuplicate when the (company, legal entity, type) triple already exists.
func (r *RelationRepository) Create(ctx context.Context, relation *model.EntityCompanyRelation) error {
	return mapWriteError(r.db.WithContext(ctx).Create(relation).Error)
}

func (r *RelationRepository) Get(ctx context.Context, id uuid.UUID) (*model.EntityCompanyRelation, error) {
	var relation model.EntityCompanyRelation
	if err := r.db.WithContext(ctx).First(&relation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &relation, nil
}

// FindExact loads the relation identified by all three lookup fields.
func (r *RelationRepository) FindExact(ctx context.Context, lookup model.RelationLookup) (*model.EntityCompanyRelation, error) {
	var relation model.EntityCompanyRelation
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND legal_entity_id = ? AND relation_type = ?", lookup.CompanyID, lookup.LegalEntityID, lookup.RelationType).
		First(&relation).Error
	if err != nil {
		return nil, err
	}
	return &relation, nil
}

// Exists reports whether any relation links the company to the legal entity.
func (r *RelationRepository) Exists(ctx context.Context, companyID, legalEntityID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EntityCompanyRelation{}).
		Where("company_id = ? AND legal_entity_id = ?", companyID, legalEntityID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LegalEntityIDs returns the distinct legal entities matching the non-zero lookup fields.
func (r *RelationRepository) LegalEntityIDs(ctx context.Context, lookup model.RelationLookup) ([]uuid.UUID, error) {
	conds := &query.Conditions{}
	if lookup.CompanyID != uuid.Nil {
		conds.Equal("company_id", lookup.CompanyID)
	}
	if lookup.LegalEntityID != uuid.Nil {
		conds.Equal("legal_entity_id", lookup.LegalEntityID)
	}
	if lookup.RelationType != "" {
		conds.Equal("relation_type", lookup.RelationType)
	}

	ids := make([]uuid.UUID, 0)
	err := conds.Apply(r.db.WithContext(ctx).Model(&model.EntityCompanyRelation{})).
		Distinct("legal_entity_id").
		Order("legal_entity_id").
		Pluck("legal_entity_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *RelationRepository) Update(ctx context.Context, relation *model.EntityCompanyRelation) error {
	return mapWriteError(r.db.WithContext(ctx).Omit("CreatedAt").Save(relation).Error)
}

func (r *RelationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.EntityCompanyRelation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RelationRepository) List(ctx context.Context, filter model.RelationFilter, sort query.Sort, page query.Page) (query.Result[model.EntityCompanyRelation], error) {
	conds := &query.Conditions{}
	if filter.LegalEntityID != uuid.Nil {
		conds.Equal("legal_entity_id", filter.LegalEntityID)
	}
	if filter.CompanyID != uuid.Nil {
		conds.Equal("company_id", filter.CompanyID)
	}
	conds.Contains("relation_type", filter.RelationType)
	conds.Contains("description", filter.Description)

	return query.Find[model.EntityCompanyRelation](r.db.WithContext(ctx).Model(&model.EntityCompanyRelation{}), conds, sort, page)
}
