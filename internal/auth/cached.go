package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitvs/coaching-service/internal/cache"
	"github.com/fitvs/coaching-service/internal/models"
)

// CachedAuthenticator memoises resolved identities in redis, keyed by a
// digest of the token. An entry never outlives the token's own expiry.
type CachedAuthenticator struct {
	inner Authenticator
	cache *cache.CacheHelper
	ttl   time.Duration
	now   func() time.Time
}

func NewCachedAuthenticator(inner Authenticator, helper *cache.CacheHelper, ttl time.Duration) *CachedAuthenticator {
	return &CachedAuthenticator{
		inner: inner,
		cache: helper,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (a *CachedAuthenticator) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	if !a.cache.Available() {
		return a.inner.Authenticate(ctx, token)
	}

	var identity models.Identity
	err := a.cache.CacheOrExecute(ctx, tokenDigest(token), &identity, a.entryTTL(token), func() (interface{}, error) {
		return a.inner.Authenticate(ctx, token)
	})
	if err != nil {
		return models.Identity{}, err
	}
	return identity, nil
}

// entryTTL caps the cache TTL at the token expiry. The token is only
// inspected here; verification is the inner authenticator's job.
func (a *CachedAuthenticator) entryTTL(token string) time.Duration {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return a.ttl
	}

	remaining := claims.ExpiresAt.Sub(a.now())
	if remaining <= 0 {
		// Already expired: the inner call will fail and nothing is cached
		return time.Second
	}
	if remaining < a.ttl {
		return remaining
	}
	return a.ttl
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
