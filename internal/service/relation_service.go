package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
	"github.com/nurpe/contracts-service/internal/repository"
)

const maxRelationTypeLength = 10

type RelationStore interface {
	Create(ctx context.Context, relation *model.EntityCompanyRelation) error
	Get(ctx context.Context, id uuid.UUID) (*model.EntityCompanyRelation, error)
	FindExact(ctx context.Context, lookup model.RelationLookup) (*model.EntityCompanyRelation, error)
	Exists(ctx context.Context, companyID, legalEntityID uuid.UUID) (bool, error)
	LegalEntityIDs(ctx context.Context, lookup model.RelationLookup) ([]uuid.UUID, error)
	Update(ctx context.Context, relation *model.EntityCompanyRelation) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.RelationFilter, sort query.Sort, page query.Page) (query.Result[model.EntityCompanyRelation], error)
}

type RelationService struct {
	relations RelationStore
}

func NewRelationService(relations RelationStore) *RelationService {
	return &RelationService{relations: relations}
}

type CreateRelationInput struct {
	CompanyID     uuid.UUID
	LegalEntityID uuid.UUID
	RelationType  string
	Description   *string
}

// Create returns the existing relation when the triple is already recorded.
func (s *RelationService) Create(ctx context.Context, p model.Principal, input CreateRelationInput) (*model.EntityCompanyRelation, error) {
	if err := ensureCompany(p, input.CompanyID); err != nil {
		return nil, err
	}
	return s.ensure(ctx, input)
}

func (s *RelationService) ensure(ctx context.Context, input CreateRelationInput) (*model.EntityCompanyRelation, error) {
	if err := validateRelationType(input.RelationType); err != nil {
		return nil, err
	}
	lookup := model.RelationLookup{
		CompanyID:     input.CompanyID,
		LegalEntityID: input.LegalEntityID,
		RelationType:  input.RelationType,
	}

	existing, err := s.relations.FindExact(ctx, lookup)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	relation := &model.EntityCompanyRelation{
		ID:            uuid.New(),
		CompanyID:     input.CompanyID,
		LegalEntityID: input.LegalEntityID,
		RelationType:  input.RelationType,
		Description:   input.Description,
	}
	err = s.relations.Create(ctx, relation)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent request recorded the same triple first.
		return s.relations.FindExact(ctx, lookup)
	}
	if err != nil {
		return nil, err
	}
	return relation, nil
}

func (s *RelationService) Update(ctx context.Context, p model.Principal, id uuid.UUID, patch model.RelationPatch) (*model.EntityCompanyRelation, error) {
	relation, err := s.authorized(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if patch.CompanyID != nil {
		if err := ensureCompany(p, *patch.CompanyID); err != nil {
			return nil, err
		}
		relation.CompanyID = *patch.CompanyID
	}
	if patch.LegalEntityID != nil {
		relation.LegalEntityID = *patch.LegalEntityID
	}
	if patch.RelationType != nil {
		if err := validateRelationType(*patch.RelationType); err != nil {
			return nil, err
		}
		relation.RelationType = *patch.RelationType
	}
	if patch.Description != nil {
		relation.Description = patch.Description
	}

	if err := s.relations.Update(ctx, relation); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: relation already exists", ErrInvalidInput)
		}
		return nil, err
	}
	return relation, nil
}

func (s *RelationService) Delete(ctx context.Context, p model.Principal, id uuid.UUID) error {
	if _, err := s.authorized(ctx, p, id); err != nil {
		return err
	}
	return notFound(s.relations.Delete(ctx, id), "relation")
}

func (s *RelationService) Get(ctx context.Context, p model.Principal, id uuid.UUID) (*model.EntityCompanyRelation, error) {
	return s.authorized(ctx, p, id)
}

// List narrows non-superadmins to their own company; superadmins may filter by any company.
func (s *RelationService) List(ctx context.Context, p model.Principal, filter model.RelationFilter, sort query.Sort, page query.Page) (query.Result[model.EntityCompanyRelation], error) {
	if !p.IsSuperadmin {
		scope, err := listScope(p)
		if err != nil {
			return query.Result[model.EntityCompanyRelation]{}, err
		}
		filter.CompanyID = scope
	}
	return s.relations.List(ctx, filter, sort, page)
}

func (s *RelationService) authorized(ctx context.Context, p model.Principal, id uuid.UUID) (*model.EntityCompanyRelation, error) {
	relation, err := s.relations.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "relation")
	}
	if err := ensureCompany(p, relation.CompanyID); err != nil {
		return nil, err
	}
	return relation, nil
}

// validateRelationType accepts any short label; "buyer" and "seller" are the ones listed by the proxy.
func validateRelationType(value string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n == 0 || n > maxRelationTypeLength {
		return fmt.Errorf("%w: relation_type must be 1..%d characters", ErrInvalidInput, maxRelationTypeLength)
	}
	return nil
}
