package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
)

func newRelation(companyID, legalEntityID uuid.UUID, relationType string) *model.EntityCompanyRelation {
	return &model.EntityCompanyRelation{
		ID:            uuid.New(),
		CompanyID:     companyID,
		LegalEntityID: legalEntityID,
		RelationType:  relationType,
	}
}

func TestRelationRepository_DuplicateTriple(t *testing.T) {
	repo := NewRelationRepository(setupTestDB(t))
	ctx := context.Background()

	company, entity := uuid.New(), uuid.New()
	first := newRelation(company, entity, model.RelationTypeBuyer)
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, newRelation(company, entity, model.RelationTypeBuyer))
	assert.ErrorIs(t, err, ErrDuplicate)

	// Same pair with another type is a distinct relation.
	require.NoError(t, repo.Create(ctx, newRelation(company, entity, model.RelationTypeSeller)))

	found, err := repo.FindExact(ctx, model.RelationLookup{CompanyID: company, LegalEntityID: entity, RelationType: model.RelationTypeBuyer})
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestRelationRepository_LegalEntityIDsAndExists(t *testing.T) {
	repo := NewRelationRepository(setupTestDB(t))
	ctx := context.Background()

	company, other := uuid.New(), uuid.New()
	buyer, seller, foreign := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, repo.Create(ctx, newRelation(company, buyer, model.RelationTypeBuyer)))
	require.NoError(t, repo.Create(ctx, newRelation(company, seller, model.RelationTypeSeller)))
	require.NoError(t, repo.Create(ctx, newRelation(company, buyer, model.RelationTypeSeller)))
	require.NoError(t, repo.Create(ctx, newRelation(other, foreign, model.RelationTypeBuyer)))

	ids, err := repo.LegalEntityIDs(ctx, model.RelationLookup{CompanyID: company})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{buyer, seller}, ids)

	ids, err = repo.LegalEntityIDs(ctx, model.RelationLookup{CompanyID: company, RelationType: model.RelationTypeSeller})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{buyer, seller}, ids)

	ids, err = repo.LegalEntityIDs(ctx, model.RelationLookup{RelationType: model.RelationTypeBuyer})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{buyer, foreign}, ids)

	ok, err := repo.Exists(ctx, company, seller)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, company, foreign)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRelationRepository_List(t *testing.T) {
	repo := NewRelationRepository(setupTestDB(t))
	ctx := context.Background()

	company := uuid.New()
	for _, desc := range []string{"Main supplier", "Backup supplier", "Customer"} {
		d := desc
		rel := newRelation(company, uuid.New(), model.RelationTypeSeller)
		rel.Description = &d
		require.NoError(t, repo.Create(ctx, rel))
	}
	require.NoError(t, repo.Create(ctx, newRelation(uuid.New(), uuid.New(), model.RelationTypeBuyer)))

	sort, err := query.ParseSort("name", "desc", RelationSortFields, RelationDefaultSort)
	require.NoError(t, err)

	res, err := repo.List(ctx, model.RelationFilter{CompanyID: company, Description: "SUPPLIER"}, sort, query.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Main supplier", *res.Items[0].Description)

	res, err = repo.List(ctx, model.RelationFilter{RelationType: "buy"}, sort, query.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
}

func newMockRelationRepository(t *testing.T) (*RelationRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewRelationRepository(gormDB), mock, mockDB
}

func TestRelationRepository_CreateMapsUniqueViolation(t *testing.T) {
	repo, mock, mockDB := newMockRelationRepository(t)
	defer mockDB.Close()

	mock.ExpectExec(`INSERT INTO "entity_company_relations"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_entity_company_relation"})

	err := repo.Create(context.Background(), newRelation(uuid.New(), uuid.New(), model.RelationTypeBuyer))
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationRepository_DeleteMissing(t *testing.T) {
	repo, mock, mockDB := newMockRelationRepository(t)
	defer mockDB.Close()

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM "entity_company_relations" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
