package migration

import (
	"Mataam-Backoffice/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.StaffUser{}); err != nil {
		log.Fatalf("Error migrating staff user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Item{}); err != nil {
		log.Fatalf("Error migrating item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}, &entities.RecipeLine{}); err != nil {
		log.Fatalf("Error migrating recipe database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Meal{}, &entities.MealComponent{}); err != nil {
		log.Fatalf("Error migrating meal database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Category{}, &entities.Menu{}, &entities.MenuItem{}); err != nil {
		log.Fatalf("Error migrating menu database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
