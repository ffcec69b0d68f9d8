package caching

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Setting caching. Get returns (nil, nil) on a miss.
	GetSetting(ctx context.Context, tenantID uuid.UUID, key string) (*bool, error)
	SetSetting(ctx context.Context, tenantID uuid.UUID, key string, value bool, ttl time.Duration) error
	DeleteSetting(ctx context.Context, tenantID uuid.UUID, key string) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port and plain host:port addresses.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func settingKey(tenantID uuid.UUID, key string) string {
	return fmt.Sprintf("shiftmate:setting:%s:%s", tenantID.String(), key)
}

func (r *redisCacheService) GetSetting(ctx context.Context, tenantID uuid.UUID, key string) (*bool, error) {
	val, err := r.client.Get(ctx, settingKey(tenantID, key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (r *redisCacheService) SetSetting(ctx context.Context, tenantID uuid.UUID, key string, value bool, ttl time.Duration) error {
	return r.client.Set(ctx, settingKey(tenantID, key), strconv.FormatBool(value), ttl).Err()
}

func (r *redisCacheService) DeleteSetting(ctx context.Context, tenantID uuid.UUID, key string) error {
	return r.client.Del(ctx, settingKey(tenantID, key)).Err()
}

func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("shiftmate:*:%s:*", tenantID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
