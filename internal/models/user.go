package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User roles
const (
	RoleUser     = "user"
	RoleSubadmin = "subadmin"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Name          string          `gorm:"not null" json:"name"`
	Email         string          `gorm:"uniqueIndex;not null" json:"email"`
	Password      string          `gorm:"not null" json:"-"`
	Phone         string          `json:"phone,omitempty"`
	Role          string          `gorm:"default:'user';index" json:"role"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	WalletBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"wallet_balance"`
	TokenVersion  int             `gorm:"default:1" json:"-"`
}

// IsAdmin reports whether the user holds the admin capability.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
