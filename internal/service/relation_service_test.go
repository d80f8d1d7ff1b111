package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
	"github.com/nurpe/contracts-service/internal/repository"
)

func TestRelationService_CreateIsIdempotent(t *testing.T) {
	svc := NewRelationService(newTestRepos(t).relations)
	company, entity := uuid.New(), uuid.New()
	ctx := context.Background()

	input := CreateRelationInput{CompanyID: company, LegalEntityID: entity, RelationType: model.RelationTypeBuyer}
	first, err := svc.Create(ctx, member(company), input)
	require.NoError(t, err)

	second, err := svc.Create(ctx, member(company), input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	input.RelationType = model.RelationTypeSeller
	third, err := svc.Create(ctx, member(company), input)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestRelationService_CreateValidation(t *testing.T) {
	svc := NewRelationService(newTestRepos(t).relations)
	company := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, member(company), CreateRelationInput{
		CompanyID: company, LegalEntityID: uuid.New(), RelationType: "distributor",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, member(company), CreateRelationInput{
		CompanyID: company, LegalEntityID: uuid.New(), RelationType: "",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, member(uuid.New()), CreateRelationInput{
		CompanyID: company, LegalEntityID: uuid.New(), RelationType: "partner",
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestRelationService_UpdateRejectsDuplicate(t *testing.T) {
	svc := NewRelationService(newTestRepos(t).relations)
	company, entity := uuid.New(), uuid.New()
	caller := member(company)
	ctx := context.Background()

	_, err := svc.Create(ctx, caller, CreateRelationInput{CompanyID: company, LegalEntityID: entity, RelationType: "buyer"})
	require.NoError(t, err)
	seller, err := svc.Create(ctx, caller, CreateRelationInput{CompanyID: company, LegalEntityID: entity, RelationType: "seller"})
	require.NoError(t, err)

	buyer := "buyer"
	_, err = svc.Update(ctx, caller, seller.ID, model.RelationPatch{RelationType: &buyer})
	assert.ErrorIs(t, err, ErrInvalidInput)

	description := "main supplier"
	updated, err := svc.Update(ctx, caller, seller.ID, model.RelationPatch{Description: &description})
	require.NoError(t, err)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "main supplier", *updated.Description)
}

func TestRelationService_AccessAndList(t *testing.T) {
	svc := NewRelationService(newTestRepos(t).relations)
	own, foreign := uuid.New(), uuid.New()
	ctx := context.Background()

	mine, err := svc.Create(ctx, member(own), CreateRelationInput{CompanyID: own, LegalEntityID: uuid.New(), RelationType: "buyer"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, member(foreign), CreateRelationInput{CompanyID: foreign, LegalEntityID: uuid.New(), RelationType: "buyer"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, member(foreign), mine.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = svc.Get(ctx, member(own), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	sort := defaultSort(t, repository.RelationSortFields, repository.RelationDefaultSort)
	page := query.Page{Number: 1, Size: 10}

	result, err := svc.List(ctx, member(own), model.RelationFilter{CompanyID: foreign}, sort, page)
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Total)
	assert.Equal(t, mine.ID, result.Items[0].ID)

	result, err = svc.List(ctx, superadmin(), model.RelationFilter{}, sort, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Total)

	assert.ErrorIs(t, svc.Delete(ctx, member(foreign), mine.ID), ErrPermissionDenied)
	require.NoError(t, svc.Delete(ctx, member(own), mine.ID))
	assert.ErrorIs(t, svc.Delete(ctx, member(own), mine.ID), ErrNotFound)
}
