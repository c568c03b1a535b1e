package model

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role is static reference data; rows are seeded at start-up and never created through the API.
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	RoleName    string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string       `gorm:"type:text" json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions;constraint:OnDelete:CASCADE;" json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Permission represents a single capability that can be granted to roles
type Permission struct {
	ID    uint           `gorm:"primaryKey" json:"id"`
	Code  PermissionCode `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"` // e.g. "users.read"
	Name  string         `gorm:"type:varchar(255);not null" json:"name"`
	Group string         `gorm:"type:varchar(50);not null;index" json:"group"` // "users", "roles", "self"...
}
