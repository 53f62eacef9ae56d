package claims

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestDecode_Fields(t *testing.T) {
	raw := signedToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:     "a@b.com",
		Role:      "writer",
		FirstName: "Ada",
		LastName:  "Lovelace",
		FullName:  "Ada Lovelace",
	})

	c, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if c.SubjectID() != "user-1" {
		t.Fatalf("want user-1 got %s", c.SubjectID())
	}
	if c.Email != "a@b.com" || c.Role != "writer" || c.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected claims: %+v", c)
	}
	if c.ExpiredAt(time.Now()) {
		t.Fatal("token should not be expired")
	}
	if !c.ExpiredAt(time.Now().Add(2 * time.Hour)) {
		t.Fatal("token should be expired two hours from now")
	}
}

func TestDecode_SubjectFallsBackToID(t *testing.T) {
	raw := signedToken(t, Claims{UserID: "custom-id"})

	c, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if c.SubjectID() != "custom-id" {
		t.Fatalf("want custom-id got %s", c.SubjectID())
	}
}

func TestDecode_NoExpiryNeverExpires(t *testing.T) {
	raw := signedToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}})

	c, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if c.ExpiredAt(time.Now().Add(100 * time.Hour)) {
		t.Fatal("no exp claim must not count as expired")
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode(""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := Decode("not-a-jwt"); err == nil {
		t.Fatal("expected error for garbage token")
	}
}
