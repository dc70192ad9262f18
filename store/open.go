package store

import (
	"context"
	"fmt"

	"github.com/feraszen/keytop-fresh/config"
	"github.com/feraszen/keytop-fresh/database"

	"go.uber.org/zap"
)

// OpenBackend builds the backend selected by cfg.StoreDriver.
func OpenBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory, "":
		return NewMemoryBackend(), nil
	case config.DriverFile:
		return NewFileBackend(cfg.StorePath)
	case config.DriverRedis:
		client, err := database.NewRedisClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		return NewRedisBackend(client, cfg.CartTTL), nil
	case config.DriverDynamo:
		awsCfg, err := database.LoadAWSConfig(ctx, logger)
		if err != nil {
			return nil, err
		}
		return NewDynamoBackend(database.NewDynamoClient(awsCfg), cfg.DynamoTable), nil
	case config.DriverPostgres:
		dsn := cfg.PostgresDSN
		if dsn == "" {
			awsCfg, err := database.LoadAWSConfig(ctx, logger)
			if err != nil {
				return nil, err
			}
			if dsn, err = database.NewSecretsClient(awsCfg).GetSecret(ctx, cfg.PostgresDSNSecret); err != nil {
				return nil, err
			}
		}
		db, err := database.ConnectPostgres(dsn, logger)
		if err != nil {
			return nil, err
		}
		return OpenGormBackend(db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Open builds the backend for cfg and wraps it in a Store.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Store, error) {
	backend, err := OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("store opened", zap.String("driver", cfg.StoreDriver), zap.String("namespace", cfg.StoreNamespace))
	return New(backend, logger,
		WithNamespace(cfg.StoreNamespace),
		WithCounterStart(cfg.InvoiceCounterStart),
	), nil
}
