package models

import "gorm.io/gorm"

// ShippingFee is a per-country shipping rule. Country codes are stored
// uppercase and act as the unique key.
type ShippingFee struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Country    string  `json:"country" gorm:"uniqueIndex;type:varchar(8)" validate:"required,min=2,max=8"`
	BaseFee    float64 `json:"baseFee" validate:"gte=0"`
	PerKgRate  float64 `json:"perKgRate" validate:"gte=0"`
	IsActive   bool    `json:"isActive"`
	gorm.Model `json:"-"`
}

// Fee computes the shipping cost for a given total weight in kilograms.
func (f *ShippingFee) Fee(totalWeightKg float64) float64 {
	return f.BaseFee + totalWeightKg*f.PerKgRate
}
