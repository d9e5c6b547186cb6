package database

import (
	"fmt"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate создает и обновляет таблицы users и contacts.
// Внешний ключ contacts.owner_id -> users.id с ON DELETE CASCADE задается связью User.Contacts.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Contact{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("AutoMigrate completed", "tables", []string{"users", "contacts"})
	return nil
}
