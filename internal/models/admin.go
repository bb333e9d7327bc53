package models

import "gorm.io/gorm"

// RoleAdmin is the role required for store-management endpoints.
const RoleAdmin = "admin"

// Admin represents a back-office account.
type Admin struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role       string `json:"role" gorm:"type:varchar(32)"`
	IsActive   bool   `json:"is_active"`
	gorm.Model `json:"-"`
}
