package claims

import (
	"time"

	customErrors "github.com/collabblog/blogclient/internal/auth/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of access-token claims the client reads. The token
// itself stays opaque: signatures belong to the server, so parsing here is
// deliberately unverified.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	FullName  string `json:"fullName,omitempty"`
}

// SubjectID prefers the standard sub claim and falls back to the custom id
// claim some token issuers use instead.
func (c Claims) SubjectID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}

func (c Claims) ExpiredAt(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Time.Before(now)
}

func Decode(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, customErrors.ErrInvalidToken
	}

	parser := jwt.NewParser()
	var c Claims
	if _, _, err := parser.ParseUnverified(raw, &c); err != nil {
		return Claims{}, customErrors.ErrInvalidToken
	}

	return c, nil
}
