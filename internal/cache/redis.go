package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelease/config"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/redis/go-redis/v9"
)

var ErrCodeNotFound = errors.New("code not found or expired")

// CodePurpose namespaces one-time codes so a reset code can never be used
// as a verification code and the other way round.
type CodePurpose string

const (
	CodeEmailVerification CodePurpose = "verify"
	CodePasswordReset     CodePurpose = "reset"
)

type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetSearch returns cached results for a search. The bool is false on a miss.
func (c *RedisCache) GetSearch(ctx context.Context, from, to, date string) ([]domain.TrainResult, bool, error) {
	data, err := c.client.Get(ctx, searchKey(from, to, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var results []domain.TrainResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false, err
	}
	return results, true, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, from, to, date string, results []domain.TrainResult) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(from, to, date), payload, c.searchTTL).Err()
}

func (c *RedisCache) AcquireBookingLock(ctx context.Context, userID, scheduleID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, bookingLockKey(userID, scheduleID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseBookingLock(ctx context.Context, userID, scheduleID string) error {
	return c.client.Del(ctx, bookingLockKey(userID, scheduleID)).Err()
}

func (c *RedisCache) SaveCode(ctx context.Context, purpose CodePurpose, code, value string, ttl time.Duration) error {
	return c.client.Set(ctx, codeKey(purpose, code), value, ttl).Err()
}

// PeekCode reads a code without using it up.
func (c *RedisCache) PeekCode(ctx context.Context, purpose CodePurpose, code string) (string, error) {
	v, err := c.client.Get(ctx, codeKey(purpose, code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	return v, err
}

// ConsumeCode reads and deletes a code atomically.
func (c *RedisCache) ConsumeCode(ctx context.Context, purpose CodePurpose, code string) (string, error) {
	v, err := c.client.GetDel(ctx, codeKey(purpose, code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	return v, err
}

func (c *RedisCache) Blacklist(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, blacklistKey(tokenID), "true", ttl).Err()
}

func (c *RedisCache) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	exists, err := c.client.Exists(ctx, blacklistKey(tokenID)).Result()
	return exists == 1, err
}

func searchKey(from, to, date string) string {
	return fmt.Sprintf("cache:trains:%s:%s:%s", strings.ToLower(from), strings.ToLower(to), date)
}

func bookingLockKey(userID, scheduleID string) string {
	return fmt.Sprintf("lock:booking:%s:%s", userID, scheduleID)
}

func codeKey(purpose CodePurpose, code string) string {
	return fmt.Sprintf("code:%s:%s", purpose, code)
}

func blacklistKey(tokenID string) string {
	return "blacklist:" + tokenID
}
