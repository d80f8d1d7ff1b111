package db

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/rs/zerolog"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/contracts-service/internal/config"
)

// New opens the connection pool, applies migrations when enabled and seeds reference data.
func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.New(printfLogger{log: log}, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	database, err := gorm.Open(gormpostgres.Open(cfg.DB.DSN), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Telemetry.Enabled {
		if err := database.Use(otelgorm.NewPlugin(otelgorm.WithDBName("contracts"))); err != nil {
			return nil, fmt.Errorf("register tracing plugin: %w", err)
		}
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.DB.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("parse DB_CONN_MAX_LIFETIME: %w", err)
		}
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.DB.AutoMigrate {
		if err := migrateUp(database, log); err != nil {
			return nil, err
		}
	}

	SeedContractTypes(context.Background(), database, log)
	return database, nil
}

func migrateUp(database *gorm.DB, log zerolog.Logger) error {
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}

	ctx := context.Background()
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire migration connection: %w", err)
	}

	// The driver owns conn; closing the migrator returns it without closing the pool.
	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := NewMigrator(driver, log)
	if err != nil {
		_ = driver.Close()
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close migrator")
		}
	}()

	return migrator.Up()
}

type printfLogger struct {
	log zerolog.Logger
}

func (l printfLogger) Printf(format string, args ...interface{}) {
	l.log.Warn().Str("component", "gorm").Msgf(format, args...)
}
