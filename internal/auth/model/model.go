package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleGuest  Role = "guest"
	RoleWriter Role = "writer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(s)) {
	case RoleGuest, RoleWriter, RoleEditor, RoleAdmin:
		return Role(strings.ToLower(s)), true
	}
	return "", false
}

// User is the cached profile of the signed-in account. IDs are the
// server's opaque identifiers, not client-generated.
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
