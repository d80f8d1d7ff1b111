package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"

	"github.com/nurpe/contracts-service/internal/config"
	"github.com/nurpe/contracts-service/internal/db"
	"github.com/nurpe/contracts-service/internal/logger"
)

const usage = `usage: migrate <command>

commands:
  up          apply all pending migrations
  down        roll back all migrations
  steps N     apply N migrations, negative N rolls back
  version     print the current version
  force V     set version V without running migrations`

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Environment)

	conn, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create migration driver")
	}
	migrator, err := db.NewMigrator(driver, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create migrator")
	}

	if err := run(migrator, flag.Args()); err != nil {
		_ = migrator.Close()
		log.Fatal().Err(err).Str("command", flag.Arg(0)).Msg("migration failed")
	}
	if err := migrator.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close migrator")
	}
}

func run(m *db.Migrator, args []string) error {
	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	case "force":
		v, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(v)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a numeric argument", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", args[0], err)
	}
	return n, nil
}
