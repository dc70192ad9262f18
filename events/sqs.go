package events

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// SQSAPI is the part of the SQS client the publisher uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher enqueues events on one queue. The key travels as the
// "key" message attribute.
type SQSPublisher struct {
	client   SQSAPI
	queueURL string
	logger   *zap.Logger
}

func NewSQSPublisher(cfg sdkaws.Config, queueURL string, logger *zap.Logger) *SQSPublisher {
	return NewSQSPublisherWithClient(sqs.NewFromConfig(cfg), queueURL, logger)
}

func NewSQSPublisherWithClient(client SQSAPI, queueURL string, logger *zap.Logger) *SQSPublisher {
	return &SQSPublisher{client: client, queueURL: queueURL, logger: logger}
}

func (s *SQSPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	if s.queueURL == "" {
		return fmt.Errorf("empty queueURL")
	}
	out, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    sdkaws.String(s.queueURL),
		MessageBody: sdkaws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"key":   {DataType: sdkaws.String("String"), StringValue: sdkaws.String(key)},
			"event": {DataType: sdkaws.String("String"), StringValue: sdkaws.String(OrderFinalized)},
		},
	})
	if err != nil {
		return fmt.Errorf("sqs send failed for queue %s: %w", s.queueURL, err)
	}
	s.logger.Debug("sqs message sent", zap.String("queue", s.queueURL), zap.String("message_id", sdkaws.ToString(out.MessageId)))
	return nil
}

func (s *SQSPublisher) Close() error { return nil }
