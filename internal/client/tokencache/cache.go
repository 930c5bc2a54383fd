package tokencache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
)

const (
	accountPrefix = "account:"
	expiryMargin  = 30 * time.Second
)

// TokenGetter defines a function type for retrieving new tokens.
type TokenGetter interface {
	GetToken(ctx context.Context, key string) (string, error)
}

// Cache provides session token caching functionality.
type Cache struct {
	cache       *cache.Cache
	tokenGetter TokenGetter
	defaultTTL  time.Duration
}

// New creates a new token cache instance. Tokens that do not carry an expiration are kept for
// defaultExpiration.
func New(defaultExpiration, cleanupInterval time.Duration, tokenGetter TokenGetter) *Cache {
	return &Cache{
		cache:       cache.New(defaultExpiration, cleanupInterval),
		tokenGetter: tokenGetter,
		defaultTTL:  defaultExpiration,
	}
}

// extractExpirationFromToken parses a JWT token and extracts its expiration time.
// ok is false when the token is not a JWT or has no exp claim.
func extractExpirationFromToken(tokenString string) (expiry time.Time, ok bool) {
	// Parse the token without verifying the signature
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// GetToken retrieves a token for the specified key.
// If the token is not in the cache or has expired, it will fetch a new one.
func (c *Cache) GetToken(ctx context.Context, key string) (string, error) {
	if token, found := c.cache.Get(key); found {
		return token.(string), nil
	}

	token, err := c.tokenGetter.GetToken(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to get new token: %w", err)
	}

	ttl := c.defaultTTL
	if expiry, ok := extractExpirationFromToken(token); ok {
		ttl = time.Until(expiry) - expiryMargin
		if ttl <= 0 {
			// Already expired; hand it out once but never cache it.
			return token, nil
		}
	}
	c.cache.Set(key, token, ttl)

	return token, nil
}

// Invalidate drops the cached token for key so the next GetToken logs in again.
func (c *Cache) Invalidate(key string) {
	c.cache.Delete(key)
}

// AccountKey returns a key for the specified account email.
func AccountKey(email string) string {
	return accountPrefix + email
}

// AccountFromKey returns the account email from the specified key.
func AccountFromKey(key string) (string, error) {
	email, ok := strings.CutPrefix(key, accountPrefix)
	if !ok || email == "" {
		return "", fmt.Errorf("invalid key format: %s", key)
	}
	return email, nil
}
