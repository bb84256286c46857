package entity

import "fmt"

// Role is the closed set of authorization roles an Account can hold.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleShop  Role = "Shop"
	RoleUser  Role = "User"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleShop, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole maps a stored role name to a Role, rejecting unknown values
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
