package database

import (
	"log"

	"meridian/models"

	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Product{},
		&models.Resource{},
		&models.Service{},
		&models.ContactMessage{},
		&models.Subscriber{},
		&models.Review{},
	)

	if err != nil {
		log.Printf("Error running migrations: %v", err)
		return err
	}

	log.Println("Migrations completed successfully")
	return nil
}
