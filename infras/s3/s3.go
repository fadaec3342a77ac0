package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"kumbam/config"
	"kumbam/infras/otel"
	"kumbam/shared/constant"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	defaultRegion = "auto"

	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
)

// S3 stores generated documents in an S3 compatible bucket.
type S3 interface {
	Put(ctx context.Context, key, contentType string, data []byte) (url string, err error)
	Delete(ctx context.Context, key string) error
}

type s3Impl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

type disabled struct{}

// New returns a no-op store when no bucket is configured.
func New(config *config.Config, otel otel.Otel) S3 {
	bucket := config.External.S3
	if bucket.BucketName == "" {
		log.Warn().Msg("S3 bucket not configured, documents will not be archived")

		return &disabled{}
	}

	region := bucket.Region
	if region == "" {
		region = defaultRegion
	}

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(bucket.AccessKeyID, bucket.SecretAccessKey, "")),
		awsConfig.WithRegion(region),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if bucket.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(bucket.APIEndpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Impl{
		client: client,
		config: config,
		otel:   otel,
	}
}

func (svc *s3Impl) Put(ctx context.Context, key, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".S3Put")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.config.External.S3.BucketName

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    bucket,
	})

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	return PublicURL(svc.config.External.S3.PublicDomain, key), nil
}

func (svc *s3Impl) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".S3Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.config.External.S3.BucketName

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    bucket,
	})

	if _, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}

	return nil
}

func (d *disabled) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	log.Debug().Str("key", key).Msg("S3 disabled, object not stored")

	return constant.Empty, nil
}

func (d *disabled) Delete(context.Context, string) error {
	return nil
}

// PublicURL joins the public domain and the object key with a single slash.
func PublicURL(domain, key string) string {
	if domain == "" {
		return key
	}

	return strings.TrimRight(domain, "/") + "/" + strings.TrimLeft(key, "/")
}
