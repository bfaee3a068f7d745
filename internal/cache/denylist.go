package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked token IDs in Redis under blacklist:<jti>.
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist returns nil when client is nil so callers can pass the
// result straight to auth.WithDenylist only when revocation is available.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	if client == nil {
		return nil
	}
	return &TokenDenylist{client: client}
}

// Revoke stores jti for ttl.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return d.client.Set(ctx, BlacklistKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether jti has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, BlacklistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
