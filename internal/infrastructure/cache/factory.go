package cache

import (
	"fmt"
	"io"

	"github.com/selectmedia/invoicing/internal/domain/invoice"
	"github.com/selectmedia/invoicing/internal/infrastructure/config"
	"go.uber.org/zap"
)

// InvoiceStore combines the domain store contract with resource cleanup
type InvoiceStore interface {
	invoice.Store
	io.Closer
}

// NewInvoiceStore creates the invoice store selected by configuration.
// The redis backend falls back to in-memory when the connection fails,
// since a single-operator deployment works fine without it.
func NewInvoiceStore(storeCfg config.StoreConfig, redisCfg config.RedisConfig, logger *zap.Logger) (InvoiceStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch storeCfg.Backend {
	case "redis":
		store, err := NewRedisInvoiceStore(RedisStoreConfig{
			Host:     redisCfg.Host,
			Port:     redisCfg.Port,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
			TTL:      storeCfg.TTL,
		})
		if err != nil {
			logger.Warn("Redis invoice store unavailable, falling back to in-memory",
				zap.String("host", redisCfg.Host),
				zap.Int("port", redisCfg.Port),
				zap.Error(err))
			return NewInMemoryInvoiceStore(), nil
		}
		logger.Info("using Redis invoice store",
			zap.String("host", redisCfg.Host),
			zap.Int("port", redisCfg.Port))
		return store, nil
	case "memory":
		return NewInMemoryInvoiceStore(), nil
	default:
		return nil, fmt.Errorf("unknown invoice store backend %q", storeCfg.Backend)
	}
}
