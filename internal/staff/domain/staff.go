package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleCashier Role = "cashier"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCashier || r == RoleAdmin
}

// Allows reports whether r may use routes that require min. Admin can do
// everything a cashier can.
func (r Role) Allows(min Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == min
}

type Staff struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Staff     Staff     `json:"staff"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Claims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}
