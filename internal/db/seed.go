package db

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/contracts-service/internal/model"
)

// SeedContractTypes inserts the reference contract types that are missing.
// Failures are logged and never stop startup.
func SeedContractTypes(ctx context.Context, db *gorm.DB, log zerolog.Logger) {
	for _, ct := range model.DefaultContractTypes {
		row := ct
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
			Create(&row).Error
		if err != nil {
			log.Error().Err(err).Str("contract_type_id", ct.ID).Msg("failed to seed contract type")
		}
	}
}
