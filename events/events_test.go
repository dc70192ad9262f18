package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/feraszen/keytop-fresh/config"
	"github.com/feraszen/keytop-fresh/events"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

type mockSNS struct {
	input *sns.PublishInput
}

func (m *mockSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.input = in
	return &sns.PublishOutput{}, nil
}

type mockSQS struct {
	input *sqs.SendMessageInput
}

func (m *mockSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.input = in
	id := "msg-1"
	return &sqs.SendMessageOutput{MessageId: &id}, nil
}

func TestKafkaPublisher_WritesKeyedMessage(t *testing.T) {
	w := &mockWriter{}
	p := events.NewKafkaPublisherWithWriter(w, "order.finalized", zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), "KT000101", []byte(`{"invoice":"KT000101"}`)))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "KT000101", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"invoice":"KT000101"}`, string(w.msgs[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_ReturnsWriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("broker down")}
	p := events.NewKafkaPublisherWithWriter(w, "order.finalized", zap.NewNop())

	assert.Error(t, p.Publish(context.Background(), "KT000101", []byte("{}")))
}

func TestSNSPublisher_Publishes(t *testing.T) {
	client := &mockSNS{}
	arn := "arn:aws:sns:eu-west-2:000000000000:order-events"
	p := events.NewSNSPublisherWithClient(client, arn, zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), "KT000101", []byte(`{"a":1}`)))
	require.NotNil(t, client.input)
	assert.Equal(t, arn, *client.input.TopicArn)
	assert.Equal(t, `{"a":1}`, *client.input.Message)
}

func TestSNSPublisher_RequiresTopic(t *testing.T) {
	p := events.NewSNSPublisherWithClient(&mockSNS{}, "", zap.NewNop())
	assert.Error(t, p.Publish(context.Background(), "k", nil))
}

func TestOpen_DefaultsToNoop(t *testing.T) {
	p, err := events.Open(context.Background(), config.Config{EventsDriver: config.EventsNone}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, events.Noop{}, p)
	assert.NoError(t, p.Publish(context.Background(), "k", []byte("x")))
}

func TestSQSPublisher_SendsMessage(t *testing.T) {
	client := &mockSQS{}
	url := "http://localhost:4566/000000000000/order-events"
	p := events.NewSQSPublisherWithClient(client, url, zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), "KT000101", []byte(`{"invoice":"KT000101"}`)))
	require.NotNil(t, client.input)
	assert.Equal(t, url, *client.input.QueueUrl)
	assert.Equal(t, `{"invoice":"KT000101"}`, *client.input.MessageBody)
	assert.Equal(t, "KT000101", *client.input.MessageAttributes["key"].StringValue)
}

func TestSQSPublisher_RequiresQueue(t *testing.T) {
	p := events.NewSQSPublisherWithClient(&mockSQS{}, "", zap.NewNop())
	assert.Error(t, p.Publish(context.Background(), "k", nil))
}
