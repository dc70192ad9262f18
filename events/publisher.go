// Package events publishes order lifecycle events to an external broker.
// Publication is best-effort; callers log failures and carry on.
package events

import (
	"context"
	"fmt"

	"github.com/feraszen/keytop-fresh/config"
	"github.com/feraszen/keytop-fresh/database"

	"go.uber.org/zap"
)

// OrderFinalized is the event name for a recorded order.
const OrderFinalized = "order.finalized"

// Publisher sends one message keyed by key.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}

// Noop discards every message.
type Noop struct{}

func (Noop) Publish(context.Context, string, []byte) error { return nil }
func (Noop) Close() error                                  { return nil }

// Open builds the publisher selected by cfg.EventsDriver.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Publisher, error) {
	switch cfg.EventsDriver {
	case config.EventsNone, "":
		return Noop{}, nil
	case config.EventsKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger), nil
	case config.EventsSNS:
		awsCfg, err := database.LoadAWSConfig(ctx, logger)
		if err != nil {
			return nil, err
		}
		return NewSNSPublisher(awsCfg, cfg.SNSTopicARN, logger), nil
	case config.EventsSQS:
		awsCfg, err := database.LoadAWSConfig(ctx, logger)
		if err != nil {
			return nil, err
		}
		return NewSQSPublisher(awsCfg, cfg.SQSQueueURL, logger), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.EventsDriver)
	}
}
