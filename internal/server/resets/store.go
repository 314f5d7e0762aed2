package resets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutrigate/internal/common"
	"github.com/dmitrijs2005/nutrigate/internal/cryptox"
	"github.com/redis/go-redis/v9"
)

// codeBytes random bytes give an 8 character hex code, short enough to type.
const codeBytes = 4

// Store keeps one-time reset codes. Codes are looked up by hash only.
type Store interface {
	// Issue creates a code for userID that expires after ttl.
	Issue(ctx context.Context, userID string, ttl time.Duration) (string, error)
	// Consume returns the owner of code and invalidates it. Unknown,
	// expired or reused codes yield common.ErrResetCodeInvalid.
	Consume(ctx context.Context, code string) (string, error)
}

// RedisStore keeps codes under reset:<sha256(code)>.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// newCode is a seam for tests.
var newCode = func() (string, error) {
	return common.MakeRandHexString(codeBytes)
}

func (s *RedisStore) Issue(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	code, err := newCode()
	if err != nil {
		return "", fmt.Errorf("reset code: %w", err)
	}
	if err := s.client.Set(ctx, s.key(code), userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("reset code store: %w", err)
	}
	return code, nil
}

func (s *RedisStore) Consume(ctx context.Context, code string) (string, error) {
	code = normalize(code)
	if code == "" {
		return "", common.ErrResetCodeInvalid
	}
	userID, err := s.client.GetDel(ctx, s.key(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", common.ErrResetCodeInvalid
	}
	if err != nil {
		return "", fmt.Errorf("reset code lookup: %w", err)
	}
	return userID, nil
}

func (s *RedisStore) key(code string) string {
	return "reset:" + cryptox.HashToken(normalize(code))
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
