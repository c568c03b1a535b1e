package model

import (
	"time"
)

// User is the central account record. Identification, phone number, email and
// username (when set) are unique across all users.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Identification string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"identification"`
	FirstName      string    `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(50);not null" json:"last_name"`
	PhoneNumber    string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"phone_number"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username       *string   `gorm:"type:varchar(50);uniqueIndex" json:"username"` // NULL when absent so the unique index ignores it
	HashedPassword string    `gorm:"type:varchar(255);not null" json:"-"`
	Roles          []Role    `gorm:"many2many:users_roles;constraint:OnDelete:CASCADE;" json:"roles"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// LoginName is the token subject: the username when set, otherwise the email.
func (u *User) LoginName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return u.Email
}

// HasPermission reports whether any of the user's roles grants code.
// Roles must be loaded with their permissions.
func (u *User) HasPermission(code PermissionCode) bool {
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if p.Code == code {
				return true
			}
		}
	}
	return false
}

// PermissionCodes returns the de-duplicated union of the user's role permissions.
func (u *User) PermissionCodes() []PermissionCode {
	seen := make(map[PermissionCode]bool)
	codes := make([]PermissionCode, 0)
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if !seen[p.Code] {
				seen[p.Code] = true
				codes = append(codes, p.Code)
			}
		}
	}
	return codes
}
