package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
	"github.com/nurpe/contracts-service/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.ContractType{},
		&model.Contract{},
		&model.ContractFile{},
		&model.EntityCompanyRelation{},
	))
	require.NoError(t, db.Create(&model.DefaultContractTypes).Error)
	return db
}

type testRepos struct {
	contracts *repository.ContractRepository
	types     *repository.ContractTypeRepository
	files     *repository.ContractFileRepository
	relations *repository.RelationRepository
}

func newTestRepos(t *testing.T) testRepos {
	db := setupTestDB(t)
	return testRepos{
		contracts: repository.NewContractRepository(db),
		types:     repository.NewContractTypeRepository(db),
		files:     repository.NewContractFileRepository(db),
		relations: repository.NewRelationRepository(db),
	}
}

func member(companyID uuid.UUID) model.Principal {
	return model.Principal{UserID: uuid.New(), CompanyID: companyID, Token: "token"}
}

func superadmin() model.Principal {
	return model.Principal{UserID: uuid.New(), IsSuperadmin: true, Token: "token"}
}

func contractInput(companyID uuid.UUID, name string) CreateContractInput {
	return CreateContractInput{
		Name:           name,
		Number:         "100",
		Date:           time.Date(2024, 4, 2, 15, 30, 0, 0, time.UTC),
		BuyerID:        uuid.New(),
		SellerID:       uuid.New(),
		ContractTypeID: "delivery",
		CompanyID:      companyID,
		ResponsibleID:  uuid.New(),
	}
}

func defaultSort(t *testing.T, fields query.SortFields, key string) query.Sort {
	t.Helper()
	sort, err := query.ParseSort("", "", fields, key)
	require.NoError(t, err)
	return sort
}
