package entity

import (
	"slices"
	"time"
)

// Roles válidos para User.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User representa un usuario del dashboard.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Roles        []string
	CreatedAt    time.Time
}

// HasRole indica si el usuario tiene el rol dado.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
