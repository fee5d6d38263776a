// Package s3 は生成済みドキュメントを S3 互換ストレージへ保管します。
package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
)

// PutObjectAPI は保管に必要な S3 操作です。
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options は保管先の設定です。
type Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

// Archive は S3 バケットへのドキュメント保管の実装です。
type Archive struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewClient は設定から S3 クライアントを生成します。
// Endpoint を指定した場合は S3 互換ストレージ向けにパス形式でアクセスします。
func NewClient(ctx context.Context, opts Options) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		)))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewArchive は Archive を生成します。
func NewArchive(client PutObjectAPI, bucket, prefix string) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Put はドキュメントを保管し、保存先を s3://bucket/key の形式で返します。
func (a *Archive) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	objectKey := strings.TrimPrefix(key, "/")
	if a.prefix != "" {
		objectKey = path.Join(a.prefix, objectKey)
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w: %w", objectKey, apperr.ErrStore, err)
	}

	return "s3://" + a.bucket + "/" + objectKey, nil
}
