package events

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

// SNSAPI is the part of the SNS client the publisher uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher publishes events to one topic.
type SNSPublisher struct {
	client   SNSAPI
	topicArn string
	logger   *zap.Logger
}

func NewSNSPublisher(cfg sdkaws.Config, topicArn string, logger *zap.Logger) *SNSPublisher {
	return NewSNSPublisherWithClient(sns.NewFromConfig(cfg), topicArn, logger)
}

func NewSNSPublisherWithClient(client SNSAPI, topicArn string, logger *zap.Logger) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn, logger: logger}
}

// Publish sends payload as the message body with key as the subject.
func (s *SNSPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	if s.topicArn == "" {
		return fmt.Errorf("empty topicArn")
	}
	s.logger.Debug("sns publish", zap.String("topic_arn", s.topicArn), zap.Int("message_len", len(payload)))

	_, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: sdkaws.String(s.topicArn),
		Message:  sdkaws.String(string(payload)),
		Subject:  sdkaws.String(key),
	})
	if err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", s.topicArn, err)
	}
	return nil
}

func (s *SNSPublisher) Close() error { return nil }
