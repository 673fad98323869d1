package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kngkeeper/therapydash-demo/internal/models"
)

var ErrBadToken = errors.New("invalid token")

// Claims carry the full signed identity so protected requests never need a
// user lookup.
type Claims struct {
	UserID  int64       `json:"uid"`
	Email   string      `json:"email"`
	Name    string      `json:"name"`
	Surname string      `json:"surname,omitempty"`
	Role    models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a bearer token for the user with a 24-hour expiry.
func GenerateToken(u *models.User, secret string) (string, error) {
	claims := Claims{
		UserID:  u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Surname: u.Surname,
		Role:    u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseToken(raw, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrBadToken
	}
	return claims, nil
}
