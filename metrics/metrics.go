// Package metrics records request and checkout counters in CloudWatch.
package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metric names.
const (
	HTTPRequests = "HTTPRequests"
	HTTPErrors   = "HTTPErrors"
	HTTPLatency  = "HTTPLatency"

	CartItemsAdded   = "CartItemsAdded"
	OrdersFinalized  = "OrdersFinalized"
	CheckoutRejected = "CheckoutRejected"
	CheckoutFailed   = "CheckoutFailed"
)

// DefaultNamespace is used when none is configured.
const DefaultNamespace = "KeytopFresh"

// Recorder accepts metric data points.
type Recorder interface {
	RecordCount(ctx context.Context, name string, dims map[string]string) error
	RecordLatency(ctx context.Context, name string, d time.Duration, dims map[string]string) error
}

// Noop drops every data point.
type Noop struct{}

func (Noop) RecordCount(context.Context, string, map[string]string) error { return nil }
func (Noop) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

// API is the part of the CloudWatch client used here.
type API interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatch publishes data points under one namespace.
type CloudWatch struct {
	client    API
	namespace string
	logger    *zap.Logger
	now       func() time.Time
}

func NewCloudWatch(cfg aws.Config, namespace string, logger *zap.Logger) *CloudWatch {
	return NewCloudWatchWithClient(cloudwatch.NewFromConfig(cfg), namespace, logger)
}

func NewCloudWatchWithClient(client API, namespace string, logger *zap.Logger) *CloudWatch {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CloudWatch{client: client, namespace: namespace, logger: logger, now: time.Now}
}

func (c *CloudWatch) put(ctx context.Context, name string, value float64, unit types.StandardUnit, dims map[string]string) error {
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dimensions := make([]types.Dimension, 0, len(keys))
	for _, k := range keys {
		dimensions = append(dimensions, types.Dimension{Name: aws.String(k), Value: aws.String(dims[k])})
	}

	_, err := c.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []types.MetricDatum{{
			MetricName: aws.String(name),
			Value:      aws.Float64(value),
			Unit:       unit,
			Timestamp:  aws.Time(c.now()),
			Dimensions: dimensions,
		}},
	})
	if err != nil {
		c.logger.Debug("put metric failed", zap.String("metric", name), zap.Error(err))
		return fmt.Errorf("failed to put metric %s: %w", name, err)
	}
	return nil
}

// RecordCount adds one to a counter.
func (c *CloudWatch) RecordCount(ctx context.Context, name string, dims map[string]string) error {
	return c.put(ctx, name, 1, types.StandardUnitCount, dims)
}

// RecordLatency records d in milliseconds.
func (c *CloudWatch) RecordLatency(ctx context.Context, name string, d time.Duration, dims map[string]string) error {
	return c.put(ctx, name, float64(d.Milliseconds()), types.StandardUnitMilliseconds, dims)
}
