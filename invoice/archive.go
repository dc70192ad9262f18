package invoice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/feraszen/keytop-fresh/models"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// PutObjectAPI is the part of the S3 client the archiver uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver stores rendered invoices as <prefix><invoice>.txt.
type S3Archiver struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger *zap.Logger
}

func NewS3Archiver(cfg sdkaws.Config, bucket, prefix string, logger *zap.Logger) *S3Archiver {
	return NewS3ArchiverWithClient(s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), bucket, prefix, logger)
}

func NewS3ArchiverWithClient(client PutObjectAPI, bucket, prefix string, logger *zap.Logger) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Key returns the object key for an invoice number.
func (a *S3Archiver) Key(invoiceNumber string) string {
	return a.prefix + invoiceNumber + ".txt"
}

// Archive renders order and uploads it.
func (a *S3Archiver) Archive(ctx context.Context, order models.Order) error {
	var buf bytes.Buffer
	if err := Render(&buf, order); err != nil {
		return err
	}

	key := a.Key(order.Invoice)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(a.bucket),
		Key:         sdkaws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: sdkaws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("upload invoice %s to s3://%s/%s: %w", order.Invoice, a.bucket, key, err)
	}
	a.logger.Info("invoice archived", zap.String("bucket", a.bucket), zap.String("key", key))
	return nil
}
