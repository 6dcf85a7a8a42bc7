package models

import "time"

// AdminRole governs what an admin-panel user may do.
type AdminRole string

const (
	AdminRoleAdmin  AdminRole = "ADMIN"
	AdminRoleEditor AdminRole = "EDITOR"
	AdminRoleViewer AdminRole = "VIEWER"
)

// CanEdit reports whether the role allows write operations.
func (r AdminRole) CanEdit() bool {
	return r == AdminRoleAdmin || r == AdminRoleEditor
}

// AdminUser represents an admin-panel user account.
type AdminUser struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Name                string     `json:"name"`
	Role                AdminRole  `gorm:"not null;default:'VIEWER'" json:"role"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}
