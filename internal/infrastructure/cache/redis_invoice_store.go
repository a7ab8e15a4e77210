package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/selectmedia/invoicing/internal/domain/invoice"
	"github.com/selectmedia/invoicing/internal/domain/shared"
)

const defaultKeyPrefix = "invoice:cache:"

// RedisInvoiceStore implements invoice.Store on Redis. It lets the
// invoice cache survive process restarts and be shared by replicas;
// records are stored as JSON under a prefixed key.
type RedisInvoiceStore struct {
	client    *redis.Client
	keyPrefix string
	// ttl bounds entry lifetime; zero keeps entries until export purges them
	ttl time.Duration
}

// RedisStoreConfig holds Redis connection configuration
type RedisStoreConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisInvoiceStore connects to Redis and verifies the connection
func NewRedisInvoiceStore(cfg RedisStoreConfig) (*RedisInvoiceStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisInvoiceStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       cfg.TTL,
	}, nil
}

// NewRedisInvoiceStoreWithClient wraps an existing client, useful for tests
func NewRedisInvoiceStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisInvoiceStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisInvoiceStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Put stores an invoice, replacing any prior entry under the same number
func (s *RedisInvoiceStore) Put(ctx context.Context, invoiceNo string, inv *invoice.Invoice) error {
	payload, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice %q: %w", invoiceNo, err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+invoiceNo, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store invoice %q: %w", invoiceNo, err)
	}
	return nil
}

// Get returns the stored invoice or shared.ErrNotFound
func (s *RedisInvoiceStore) Get(ctx context.Context, invoiceNo string) (*invoice.Invoice, error) {
	payload, err := s.client.Get(ctx, s.keyPrefix+invoiceNo).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %q: %w", invoiceNo, err)
	}

	var inv invoice.Invoice
	if err := json.Unmarshal(payload, &inv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoice %q: %w", invoiceNo, err)
	}
	return &inv, nil
}

// Remove deletes the entry; removing an absent key is a no-op
func (s *RedisInvoiceStore) Remove(ctx context.Context, invoiceNo string) error {
	if err := s.client.Del(ctx, s.keyPrefix+invoiceNo).Err(); err != nil {
		return fmt.Errorf("failed to remove invoice %q: %w", invoiceNo, err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisInvoiceStore) Close() error {
	return s.client.Close()
}

// Ensure RedisInvoiceStore implements invoice.Store
var _ invoice.Store = (*RedisInvoiceStore)(nil)
