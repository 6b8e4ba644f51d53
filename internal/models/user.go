package models

import "gorm.io/gorm"

// Role defines what an authenticated actor is allowed to do.
type Role string

const (
	RoleUserMember Role = "member"
	RoleUserAdmin  Role = "admin"
)

// CanModerate reports whether the role may act on rooms it does not own.
func (r Role) CanModerate() bool {
	return r == RoleUserAdmin
}

// User represents a user in the system.
type User struct {
	gorm.Model
	Nickname     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         Role   `gorm:"size:50;not null;default:'member';index"`
}
