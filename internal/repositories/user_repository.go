package repositories

import (
	"gorm.io/gorm"

	"trendora/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Updates(id string, fields map[string]interface{}) error
}
