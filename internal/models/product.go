package models

import "gorm.io/gorm"

// DefaultProductWeightKg is assumed for products saved without a weight.
const DefaultProductWeightKg = 0.5

// ShoeSize is a dual EU/US size key. Two sizes are equal only when both
// components match exactly.
type ShoeSize struct {
	EU float64 `json:"EU" validate:"required,gt=0"`
	US float64 `json:"US" validate:"required,gt=0"`
}

// SizeOption is the actual unit of inventory: a (size, price, stock) tuple
// nested under a variation.
type SizeOption struct {
	Size  ShoeSize `json:"size"`
	Price float64  `json:"price" validate:"required,gt=0"`
	Stock int      `json:"stock" validate:"gte=0"`
}

// Variation is a color-level grouping within a product, containing one or
// more size options.
type Variation struct {
	Color       LocalizedString `json:"color"`
	Image       string          `json:"image,omitempty"`
	SizeOptions []SizeOption    `json:"sizeOptions" validate:"required,min=1,dive"`
}

// FindSizeOption returns the index of the size option whose size key equals
// key, or false when no option matches.
func (v *Variation) FindSizeOption(key ShoeSize) (int, bool) {
	for i := range v.SizeOptions {
		if v.SizeOptions[i].Size == key {
			return i, true
		}
	}
	return -1, false
}

// Product represents a shoe in the store. Variations (color groups with their
// size options) are persisted inline as a JSON column rather than as a join
// relation.
type Product struct {
	ID                string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name              LocalizedString `json:"name" gorm:"embedded;embeddedPrefix:name_" validate:"required"`
	Price             float64         `json:"price" validate:"required,gt=0"`
	OriginalPrice     float64         `json:"original_price,omitempty" validate:"omitempty,gt=0"`
	Image             string          `json:"image"`
	Images            []string        `json:"images,omitempty" gorm:"serializer:json"`
	ShortDescription  LocalizedString `json:"short_description" gorm:"embedded;embeddedPrefix:short_desc_"`
	DetailDescription LocalizedString `json:"detail_description" gorm:"embedded;embeddedPrefix:detail_desc_"`
	WeightKg          float64         `json:"weight" validate:"gte=0"` // kilograms; 0 means DefaultProductWeightKg
	InStock           bool            `json:"in_stock"`
	Variations        []Variation     `json:"variations" gorm:"serializer:json" validate:"required,min=1,dive"`
	gorm.Model        `json:"-"`
}

// FindVariation returns the index of the variation whose color matches the
// given label in either localization, or false when no variation matches.
func (p *Product) FindVariation(colorLabel string) (int, bool) {
	for i := range p.Variations {
		if p.Variations[i].Color.Matches(colorLabel) {
			return i, true
		}
	}
	return -1, false
}

// HasStock reports whether any size option of any variation still has stock.
// InStock must always equal this value after a stock mutation.
func (p *Product) HasStock() bool {
	for i := range p.Variations {
		for j := range p.Variations[i].SizeOptions {
			if p.Variations[i].SizeOptions[j].Stock > 0 {
				return true
			}
		}
	}
	return false
}

// EffectiveWeightKg returns the shipping weight of one unit of the product.
func (p *Product) EffectiveWeightKg() float64 {
	if p.WeightKg <= 0 {
		return DefaultProductWeightKg
	}
	return p.WeightKg
}
