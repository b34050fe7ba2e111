package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitvs/coaching-service/internal/models"
)

const jwtIssuer = "coaching-service"

// Claims represents JWT claims carrying the caller identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
}

// JWTAuthenticator verifies HMAC-signed tokens issued by this service.
type JWTAuthenticator struct {
	secretKey []byte
	ttl       time.Duration
}

func NewJWTAuthenticator(secretKey string, ttl time.Duration) *JWTAuthenticator {
	return &JWTAuthenticator{
		secretKey: []byte(secretKey),
		ttl:       ttl,
	}
}

// Issue signs a token for identity, valid for the configured TTL.
func (j *JWTAuthenticator) Issue(identity models.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: identity.UserID,
		Email:  identity.Email,
		Role:   identity.Role,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (j *JWTAuthenticator) Authenticate(_ context.Context, tokenString string) (models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithIssuer(jwtIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !token.Valid {
		return models.Identity{}, ErrInvalidCredential
	}
	if claims.UserID == "" || !claims.Role.IsValid() {
		return models.Identity{}, fmt.Errorf("%w: incomplete claims", ErrInvalidCredential)
	}

	return models.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
