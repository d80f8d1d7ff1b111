package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationPrefix = "token:blacklist:"

// RedisRevocations reads the token blacklist maintained by the identity service.
type RedisRevocations struct {
	client redis.Cmdable
}

func NewRedisRevocations(client redis.Cmdable) *RedisRevocations {
	return &RedisRevocations{client: client}
}

// IsRevoked reports whether the token id was blacklisted or all tokens of
// the user issued up to the invalidation moment were revoked.
func (r *RedisRevocations) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	if claims.ID != "" {
		exists, err := r.client.Exists(ctx, revocationPrefix+"jti:"+claims.ID).Result()
		if err != nil {
			return false, fmt.Errorf("check token blacklist: %w", err)
		}
		if exists > 0 {
			return true, nil
		}
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" || claims.IssuedAt == nil {
		return false, nil
	}

	raw, err := r.client.Get(ctx, revocationPrefix+"user:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user invalidation: %w", err)
	}

	invalidatedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse invalidation timestamp: %w", err)
	}
	return !claims.IssuedAt.Time.After(time.Unix(invalidatedAt, 0)), nil
}
