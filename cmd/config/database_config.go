package config

import (
	"Mataam-Backoffice/internal/utils"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultTimezone = "Asia/Riyadh"

// ConnectDB opens the Postgres pool. TranslateError is on so unique index
// violations surface as gorm.ErrDuplicatedKey and the services can map
// them to conflicts.
func ConnectDB() (*gorm.DB, error) {
	timezone := utils.GetConfig("DB_TIMEZONE")
	if timezone == "" {
		timezone = defaultTimezone
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
		timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}
