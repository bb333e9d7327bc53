package repositories

import (
	"errors"
	"fmt"

	"sepatu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAdminRepository is a GORM implementation of AdminRepository.
type GORMAdminRepository struct {
	db *gorm.DB
}

// NewGORMAdminRepository creates a new instance of GORMAdminRepository.
func NewGORMAdminRepository(db *gorm.DB) *GORMAdminRepository {
	return &GORMAdminRepository{
		db: db,
	}
}

// Create creates a new admin account in the database.
func (r *GORMAdminRepository) Create(admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	if err := r.db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// GetByID retrieves an admin by ID.
func (r *GORMAdminRepository) GetByID(id string) (*models.Admin, error) {
	return r.first("id = ?", id)
}

// GetByUsername retrieves an admin by username.
func (r *GORMAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	return r.first("username = ?", username)
}

// GetByEmail retrieves an admin by email.
func (r *GORMAdminRepository) GetByEmail(email string) (*models.Admin, error) {
	return r.first("email = ?", email)
}

func (r *GORMAdminRepository) first(query string, arg string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}
