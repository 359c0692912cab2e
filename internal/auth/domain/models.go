// Package domain contains operator accounts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is an operator account. PasswordHash is bcrypt and never leaves
// the service layer.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	FullName     string       `gorm:"type:text" json:"full_name,omitempty"`
	Role         string       `gorm:"not null" json:"role"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
