package models

import "gorm.io/gorm"

// UserRole enumerates the roles a user can hold.
type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleAdmin  UserRole = "admin"
	RoleVendor UserRole = "vendor"
)

// User represents an account in the store. Vendors own products, buyers own orders.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email      string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	FirstName  string    `json:"first_name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	LastName   string    `json:"last_name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Password   string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash
	Role       UserRole  `json:"role" gorm:"type:varchar(16);default:buyer" validate:"omitempty,oneof=buyer admin vendor"`
	Verified   bool      `json:"verified" gorm:"default:false"`
	OTP        *int      `json:"-"` // one-time code issued at registration, cleared on verification
	Products   []Product `json:"products,omitempty" gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	Orders     []Order   `json:"orders,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	gorm.Model `json:"-"` // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
