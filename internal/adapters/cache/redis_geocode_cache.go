package cache

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "geocode:"

type redisCoords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RedisGeocodeCache keeps geocoding results in Redis with a fixed TTL.
// A zero TTL stores keys without expiry.
type RedisGeocodeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client, TTL: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return client, nil
}

func (r *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := uniqueAddresses(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, a := range uniq {
		keys = append(keys, geocodeKeyPrefix+a)
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: redis mget: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // miss
		}

		var c redisCoords
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			return nil, fmt.Errorf("get geocode cache: decode %q: %w", uniq[i], err)
		}
		out[uniq[i]] = domain.Coordinates{Lat: c.Lat, Lng: c.Lng}
	}

	return out, nil
}

func (r *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.redis.PutMany")(&err)

	if r.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := r.Client.TxPipeline()
	for addr, c := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}

		b, err := json.Marshal(redisCoords{Lat: c.Lat, Lng: c.Lng})
		if err != nil {
			return fmt.Errorf("insert geocode cache coord=%q: %w", addr, err)
		}
		pipe.Set(ctx, geocodeKeyPrefix+addr, b, r.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: redis exec: %w", err)
	}

	return nil
}
