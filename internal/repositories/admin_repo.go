package repositories

import (
	"sepatu/internal/models"
)

// AdminRepository defines the interface for admin account data access.
type AdminRepository interface {
	Create(admin *models.Admin) error
	GetByID(id string) (*models.Admin, error)
	GetByUsername(username string) (*models.Admin, error)
	GetByEmail(email string) (*models.Admin, error)
}
