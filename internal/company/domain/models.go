// Package domain contains the seller-side company profile.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Profile is the single seller identity used on every outgoing invoice.
// The State field decides intrastate versus interstate tax treatment.
type Profile struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Address   string       `gorm:"type:text" json:"address,omitempty"`
	State     string       `gorm:"type:text" json:"state,omitempty"`
	GSTIN     string       `gorm:"column:gstin;type:text" json:"gstin,omitempty"`
	Phone     string       `gorm:"type:text" json:"phone,omitempty"`
	Email     string       `gorm:"type:text" json:"email,omitempty"`
	OwnerID   snowflake.ID `gorm:"uniqueIndex" json:"owner_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "company_profiles" }
