package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Keys lists every record the store persists.
var Keys = []string{KeyCart, KeyOrders, KeyInvoiceCounter}

// Migrate copies the raw records of namespace from src to dst. Records missing
// in src are left untouched in dst. It returns the number of records copied.
func Migrate(ctx context.Context, src, dst Backend, namespace string, logger *zap.Logger) (int, error) {
	s := &Store{namespace: namespace}
	copied := 0
	for _, name := range Keys {
		key := s.key(name)
		value, ok, err := src.Get(ctx, key)
		if err != nil {
			return copied, fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			logger.Info("record absent, skipped", zap.String("key", key))
			continue
		}
		if err := dst.Set(ctx, key, value); err != nil {
			return copied, fmt.Errorf("write %s: %w", key, err)
		}
		copied++
		logger.Info("record migrated", zap.String("key", key), zap.Int("bytes", len(value)))
	}
	return copied, nil
}
