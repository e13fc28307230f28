package auth

import (
	"fmt"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// Claims is the token payload this service accepts. Tokens are issued elsewhere.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.StandardClaims
}

// Verifier checks HS256 bearer tokens.
type Verifier struct {
	key []byte
}

// NewVerifier creates a verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{key: []byte(secret)}
}

// Verify parses and validates token, returning the caller identity.
func (v *Verifier) Verify(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthorized)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid subject", apperr.ErrUnauthorized)
	}
	return &Identity{UserID: userID, Email: claims.Email}, nil
}
