// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"padel-club-api/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// R2Bucket stores announcement images in a Cloudflare R2 (S3 compatible)
// bucket and serves them from the CDN base URL.
type R2Bucket struct {
	client     *s3.Client
	bucket     string
	cdnBaseURL string
}

// NewR2Bucket builds the S3 client for the configured R2 account.
func NewR2Bucket(ctx context.Context, cfg config.R2Config) (*R2Bucket, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	cdn := cfg.CDNBaseURL
	if cdn == "" {
		cdn = endpoint + "/" + cfg.Bucket
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &R2Bucket{
		client:     client,
		bucket:     cfg.Bucket,
		cdnBaseURL: strings.TrimRight(cdn, "/"),
	}, nil
}

// Upload puts a multipart file at key and returns its public URL.
func (b *R2Bucket) Upload(ctx context.Context, key string, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType, err := DetectImageType(fileHeader)
	if err != nil {
		return "", err
	}
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return b.URL(key), nil
}

// List returns the public URLs of every object under prefix.
func (b *R2Bucket) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := b.keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(keys))
	for _, k := range keys {
		urls = append(urls, b.URL(k))
	}
	return urls, nil
}

// DeletePrefix removes every object under prefix.
func (b *R2Bucket) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := b.keys(ctx, prefix)
	if err != nil {
		return err
	}
	// DeleteObjects accepts at most 1000 keys per call
	for start := 0; start < len(keys); start += 1000 {
		end := min(start+1000, len(keys))
		ids := make([]types.ObjectIdentifier, 0, end-start)
		for _, k := range keys[start:end] {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
		}
		_, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(b.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("failed to delete R2 objects under %s: %w", prefix, err)
		}
	}
	return nil
}

func (b *R2Bucket) URL(key string) string {
	return fmt.Sprintf("%s/%s", b.cdnBaseURL, key)
}

func (b *R2Bucket) keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(strings.TrimRight(prefix, "/") + "/"),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list R2 objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}
