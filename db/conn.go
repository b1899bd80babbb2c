// Package db opens the database connection and keeps the schema up
// to date
package db

import (
	"fmt"

	"hously/rental-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	dsn := viper.GetString("database.dsn")

	switch viper.GetString("database.driver") {
	case "postgres":
		dial = postgres.Open(dsn)
	default:
		dial = sqlite.Open(dsn)
	}

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey so handlers can answer with a 409
	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates all tables. Split out from New so tests
// can run it against their own in-memory databases.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		model.User{},
		model.Profile{},
		model.VerificationToken{},
		model.Property{},
		model.PropertyImage{},
		model.PropertyView{},
		model.PropertyReview{},
		model.LandlordReview{},
		model.Favorite{},
		model.Conversation{},
		model.Message{},
	)
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}
