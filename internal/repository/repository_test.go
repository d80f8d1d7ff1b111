package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nurpe/contracts-service/internal/model"
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
	require.NoError(t, db.Create(&model.ContractType{ID: "delivery", Name: "Delivery", Colour: "#b70094"}).Error)
	return db
}

func newContract(companyID uuid.UUID, name, number string) *model.Contract {
	user := uuid.New()
	return &model.Contract{
		ID:             uuid.New(),
		Number:         number,
		Name:           name,
		Date:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		BuyerID:        uuid.New(),
		SellerID:       uuid.New(),
		CompanyID:      companyID,
		ResponsibleID:  uuid.New(),
		ContractTypeID: "delivery",
		CreatedBy:      user,
		ModifiedBy:     user,
	}
}

func mustCreateContract(t *testing.T, repo *ContractRepository, contract *model.Contract) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), contract))
}
