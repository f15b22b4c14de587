// cmd/dbtools/migrate/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtly/internal/courts"
	"github.com/codr1/Courtly/internal/db"
	"github.com/codr1/Courtly/internal/money"
)

var demoCourts = []struct {
	name        string
	description string
	price       money.Cents
}{
	{name: "Center Court", description: "Main court with LED lighting", price: 3000},
	{name: "Court 2", description: "Covered court", price: 2500},
}

func main() {
	var (
		dbPath         = flag.String("db", "", "Path to SQLite database")
		migrationsPath = flag.String("migrations", "internal/db/migrations", "Path to migrations directory")
		command        = flag.String("command", "up", "Command to run (up, down, version)")
		seed           = flag.Bool("seed", false, "Insert demo courts after migrating up when none exist")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *dbPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	absDB, err := filepath.Abs(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid database path")
	}
	absMigrations, err := filepath.Abs(*migrationsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid migrations path")
	}
	if _, err := os.Stat(absMigrations); os.IsNotExist(err) {
		log.Fatal().Str("path", absMigrations).Msg("Migrations directory does not exist")
	}
	if err := os.MkdirAll(filepath.Dir(absDB), 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database directory")
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", absMigrations), fmt.Sprintf("sqlite3://%s", absDB))
	if err != nil {
		log.Fatal().Err(err).Msg("Migration init failed")
	}

	switch *command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Migration up failed")
		}
		log.Info().Msg("Migrations applied")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Migration down failed")
		}
		log.Info().Msg("Migrations rolled back")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal().Err(err).Msg("Get version failed")
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
	default:
		log.Fatal().Str("command", *command).Msg("Unknown command")
	}
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		log.Warn().AnErr("source_error", srcErr).AnErr("database_error", dbErr).Msg("Failed to close migrator")
	}

	if *seed && *command == "up" {
		if err := seedCourts(absDB); err != nil {
			log.Fatal().Err(err).Msg("Seeding failed")
		}
	}
}

func seedCourts(path string) error {
	database, err := db.New(path)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := courts.NewService(database, nil)
	existing, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info().Int("courts", len(existing)).Msg("Courts already present, skipping seed")
		return nil
	}

	for _, demo := range demoCourts {
		description := demo.description
		court, err := svc.Create(ctx, courts.CreateInput{
			Name:         demo.name,
			Description:  &description,
			PricePerHour: demo.price,
		})
		if err != nil {
			return fmt.Errorf("create court %q: %w", demo.name, err)
		}
		log.Info().Str("court_id", court.ID).Str("name", court.Name).Msg("Seeded court")
	}
	return nil
}
