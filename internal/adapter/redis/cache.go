package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

const (
	hotelKeyPrefix = "roomkeeper:hotel:"
	hotelsAllKey   = "roomkeeper:hotels:all"
)

func hotelKey(id string) string {
	return hotelKeyPrefix + id
}

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return client, nil
}

// CachingStore wraps a domain.Store with a read-through hotel cache.
// Cache failures are logged and the underlying store is used instead.
type CachingStore struct {
	domain.Store
	cache *hotelCache
}

// Compile-time check: CachingStore implements domain.Store.
var _ domain.Store = (*CachingStore)(nil)

// NewCachingStore creates a caching decorator around next.
func NewCachingStore(next domain.Store, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachingStore {
	return &CachingStore{
		Store: next,
		cache: &hotelCache{client: client, ttl: ttl, logger: logger.Named("cache")},
	}
}

func (s *CachingStore) Hotels() domain.HotelRepository {
	return &cachedHotels{next: s.Store.Hotels(), cache: s.cache}
}

// InTx reads hotels from the transaction directly. Writes made through the
// transaction still drop the cached entries.
func (s *CachingStore) InTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return s.Store.InTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return fn(ctx, txRepos{Repositories: repos, cache: s.cache})
	})
}

type txRepos struct {
	domain.Repositories
	cache *hotelCache
}

func (r txRepos) Hotels() domain.HotelRepository {
	return &invalidatingHotels{HotelRepository: r.Repositories.Hotels(), cache: r.cache}
}

type hotelCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// get reports whether key was found and decoded into target.
func (c *hotelCache) get(ctx context.Context, key string, target any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *hotelCache) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *hotelCache) invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, hotelKey(id), hotelsAllKey).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("hotel_id", id), zap.Error(err))
	}
}

type cachedHotels struct {
	next  domain.HotelRepository
	cache *hotelCache
}

func (r *cachedHotels) GetByID(ctx context.Context, id string) (domain.Hotel, error) {
	var h domain.Hotel
	if r.cache.get(ctx, hotelKey(id), &h) {
		return h, nil
	}

	h, err := r.next.GetByID(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	r.cache.set(ctx, hotelKey(id), h)
	return h, nil
}

func (r *cachedHotels) Save(ctx context.Context, h domain.Hotel) error {
	if err := r.next.Save(ctx, h); err != nil {
		return err
	}
	r.cache.invalidate(ctx, h.ID)
	return nil
}

func (r *cachedHotels) List(ctx context.Context) ([]domain.Hotel, error) {
	var hotels []domain.Hotel
	if r.cache.get(ctx, hotelsAllKey, &hotels) {
		return hotels, nil
	}

	hotels, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.set(ctx, hotelsAllKey, hotels)
	return hotels, nil
}

type invalidatingHotels struct {
	domain.HotelRepository
	cache *hotelCache
}

func (r *invalidatingHotels) Save(ctx context.Context, h domain.Hotel) error {
	if err := r.HotelRepository.Save(ctx, h); err != nil {
		return err
	}
	r.cache.invalidate(ctx, h.ID)
	return nil
}
