package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
)

func TestContractRepository_CreateAndGet(t *testing.T) {
	repo := NewContractRepository(setupTestDB(t))
	ctx := context.Background()

	contract := newContract(uuid.New(), "Courier services", "42")
	mustCreateContract(t, repo, contract)

	got, err := repo.Get(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "Courier services", got.Name)
	assert.Equal(t, "42", got.Number)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestContractRepository_Update(t *testing.T) {
	repo := NewContractRepository(setupTestDB(t))
	ctx := context.Background()

	contract := newContract(uuid.New(), "Original", "1")
	mustCreateContract(t, repo, contract)
	createdBy := contract.CreatedBy

	editor := uuid.New()
	contract.Name = "Renamed"
	contract.ModifiedBy = editor
	contract.CreatedBy = uuid.New()
	require.NoError(t, repo.Update(ctx, contract))

	got, err := repo.Get(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "1", got.Number)
	assert.Equal(t, editor, got.ModifiedBy)
	assert.Equal(t, createdBy, got.CreatedBy)
}

func TestContractRepository_DeleteRemovesFileRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)
	files := NewContractFileRepository(db)
	ctx := context.Background()

	contract := newContract(uuid.New(), "With files", "7")
	mustCreateContract(t, repo, contract)
	file := &model.ContractFile{
		ID: uuid.New(), Name: "scan", Extension: "pdf", StorageKey: "k",
		ContractID: contract.ID, CreatedBy: contract.CreatedBy, ModifiedBy: contract.CreatedBy,
	}
	require.NoError(t, files.Create(ctx, file))

	require.NoError(t, repo.Delete(ctx, contract.ID))

	_, err := repo.Get(ctx, contract.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = files.Get(ctx, file.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, contract.ID), gorm.ErrRecordNotFound)
}

func TestContractRepository_ListFiltersAndPaginates(t *testing.T) {
	repo := NewContractRepository(setupTestDB(t))
	ctx := context.Background()

	company := uuid.New()
	other := uuid.New()
	for i, name := range []string{"Delta", "alpha", "Charlie", "Bravo", "echo"} {
		mustCreateContract(t, repo, newContract(company, name+" supply", string(rune('1'+i))))
	}
	mustCreateContract(t, repo, newContract(other, "Alpha supply", "99"))

	sort, err := query.ParseSort("contract_name", "asc", ContractSortFields, ContractDefaultSort)
	require.NoError(t, err)

	res, err := repo.List(ctx, model.ContractFilter{CompanyID: company}, sort, query.Page{Number: 2, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Delta supply", res.Items[0].Name)
	assert.Equal(t, "alpha supply", res.Items[1].Name)

	res, err = repo.List(ctx, model.ContractFilter{Name: "ALPHA"}, sort, query.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)

	res, err = repo.List(ctx, model.ContractFilter{Number: "99"}, sort, query.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, other, res.Items[0].CompanyID)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res, err = repo.List(ctx, model.ContractFilter{Date: &date, CompanyID: other}, sort, query.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)

	missing := date.AddDate(0, 0, 1)
	res, err = repo.List(ctx, model.ContractFilter{Date: &missing}, sort, query.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestContractRepository_ListAllPreloadsTypeAndLimits(t *testing.T) {
	repo := NewContractRepository(setupTestDB(t))
	ctx := context.Background()

	company := uuid.New()
	for _, name := range []string{"A", "B", "C"} {
		mustCreateContract(t, repo, newContract(company, name, "1"))
	}

	contracts, err := repo.ListAll(ctx, model.ContractFilter{CompanyID: company}, query.Sort{Column: "name", Desc: true}, 2)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, "C", contracts[0].Name)
	require.NotNil(t, contracts[0].ContractType)
	assert.Equal(t, "Delivery", contracts[0].ContractType.Name)
}
