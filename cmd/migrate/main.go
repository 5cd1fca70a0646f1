// Package main runs database schema migrations.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"usersvc/internal/migrations"
	"usersvc/pkg/logger"
)

type migrateConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	flag.Parse()

	var cfg migrateConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	migrator, err := migrations.NewMigrator(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalw("failed to create migrator", "error", err)
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Errorw("failed to close migrator", "error", err)
		}
	}()

	if *down {
		err = migrator.Down()
	} else {
		err = migrator.Up()
	}
	if err != nil {
		log.Fatalw("migration failed", "error", err)
	}

	version, dirty, err := migrator.Version()
	if err == nil {
		log.Infow("migration state", "version", version, "dirty", dirty)
	}
}
