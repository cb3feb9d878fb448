package crypto

import (
	"fmt"
	"time"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// PrincipalVerifier turns a bearer token from the transport layer into a
// Principal the vault core can evaluate policy against.
type PrincipalVerifier interface {
	Verify(token string) (*domain.Principal, error)
}

// JWTCodec signs and verifies principal claim tokens with HS256.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTCodec creates a codec over the given signing secret.
func NewJWTCodec(secret string, ttl time.Duration) *JWTCodec {
	return &JWTCodec{secret: []byte(secret), ttl: ttl}
}

// PrincipalClaims is the token payload carried for an authenticated actor:
// identity plus the role and permission set every authorization decision
// consumes.
type PrincipalClaims struct {
	UserID      bson.ObjectID `json:"userId"`
	Role        domain.Role   `json:"role"`
	Permissions []string      `json:"permissions"`
	jwt.RegisteredClaims
}

// Sign issues a token for the given principal.
func (c *JWTCodec) Sign(p *domain.Principal) (string, error) {
	now := time.Now()
	claims := &PrincipalClaims{
		UserID:      p.ID,
		Role:        p.Role,
		Permissions: p.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign principal token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the principal it carries.
func (c *JWTCodec) Verify(tokenString string) (*domain.Principal, error) {
	claims := &PrincipalClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse principal token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid principal token")
	}

	return &domain.Principal{
		ID:          claims.UserID,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}
