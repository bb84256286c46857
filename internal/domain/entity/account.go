package entity

import "time"

// Account is the credential record behind a login.
// PasswordHash holds a bcrypt hash; accounts are never hard-deleted,
// deactivation (IsActive=false) is terminal.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
