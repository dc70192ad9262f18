package metrics

import (
	"context"

	"github.com/feraszen/keytop-fresh/config"
	"github.com/feraszen/keytop-fresh/database"

	"go.uber.org/zap"
)

// Open returns a CloudWatch recorder when metrics are enabled, Noop otherwise.
// A failure to load AWS credentials disables metrics rather than failing startup.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) Recorder {
	if !cfg.MetricsEnabled {
		return Noop{}
	}
	awsCfg, err := database.LoadAWSConfig(ctx, logger)
	if err != nil {
		logger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
		return Noop{}
	}
	return NewCloudWatch(awsCfg, cfg.MetricsNamespace, logger)
}
