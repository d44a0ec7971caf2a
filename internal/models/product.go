package models

import "gorm.io/gorm"

// Product represents a sellable product. Inventory is mutated only by the
// order workflow's ledger, inside the same transaction as the item writes.
type Product struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string      `json:"name" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Cover       string      `json:"cover" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Description string      `json:"description" validate:"omitempty,max=500"`
	Price       float64     `json:"price" validate:"required,gt=0"`
	Inventory   int         `json:"inventory" validate:"gte=0"`
	BrandID     *uint       `json:"brand_id,omitempty"`
	Brand       *Brand      `json:"brand,omitempty"`
	CategoryID  *uint       `json:"category_id,omitempty"`
	Category    *Category   `json:"category,omitempty"`
	VendorID    *string     `json:"vendor_id,omitempty" gorm:"type:varchar(36)"`
	Vendor      *User       `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	OrderItems  []OrderItem `json:"order_items,omitempty"` // reference only, no cascade
	gorm.Model  `json:"-"`  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Brand groups products under a manufacturer name.
type Brand struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Name     string    `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Products []Product `json:"products,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	gorm.Model `json:"-"`
}

// Category groups products by kind.
type Category struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Name     string    `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Products []Product `json:"products,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	gorm.Model `json:"-"`
}
