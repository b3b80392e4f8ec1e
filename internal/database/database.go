package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/AurelieMous/projet-zombieland/internal/config"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table of the schema, in dependency order.
var Models = []any{
	&models.User{},
	&models.Category{},
	&models.Attraction{},
	&models.AttractionImage{},
	&models.Activity{},
	&models.ParkDate{},
	&models.Price{},
	&models.Reservation{},
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Contains builds a LIKE pattern matching term as a lowercase substring.
// Wildcards in term are escaped with '!', so the query must declare
// ESCAPE '!' after the LIKE.
func Contains(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}
}

// Open connects with the given driver and migrates the schema.
func Open(driver, dsn string) (*gorm.DB, error) {
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		// Referential rules are checked by the services so every driver
		// reports them the same way.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}

func Connect(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}
