// Package auth covers dashboard operator identity: password hashing,
// signed access and refresh tokens, and the gin middleware that checks them.
package auth

import (
	"slices"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
)

var roles = []string{RoleAdmin, RoleDispatcher}

// ValidRole reports whether an operator account may hold role.
func ValidRole(role string) bool {
	return slices.Contains(roles, role)
}

// Operator is the dashboard user a token speaks for.
type Operator struct {
	ID    string
	Email string
	Role  string
}

func (o Operator) IsAdmin() bool {
	return o.Role == RoleAdmin
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashedPassword, plainPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword)) == nil
}
