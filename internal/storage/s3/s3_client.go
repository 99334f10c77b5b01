package s3

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"expensedesk/internal/config"
	"expensedesk/internal/port"
)

// maxBatch is the DeleteObjects per-request key limit.
const maxBatch = 1000

type blobStore struct {
	bucket    string
	client    *s3.Client
	presigner *s3.PresignClient
	uploader  *manager.Uploader
}

// NewBlobStore creates an S3-backed BlobStore over cfg.Bucket.
func NewBlobStore(ctx context.Context, cfg *config.S3Config) (port.BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			// MinIO and LocalStack need path-style addressing.
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &blobStore{
		bucket:    cfg.Bucket,
		client:    client,
		presigner: s3.NewPresignClient(client),
		uploader:  manager.NewUploader(client),
	}, nil
}

func (b *blobStore) Put(ctx context.Context, blob port.Blob) (*port.StoredBlob, error) {
	put := &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(blob.Key),
		Body:        blob.Body,
		ContentType: aws.String(blob.ContentType),
		Metadata: map[string]string{
			"owner": blob.Owner,
			"form":  blob.Form,
		},
	}
	if blob.FileName != "" {
		put.ContentDisposition = aws.String(mime.FormatMediaType("inline", map[string]string{"filename": blob.FileName}))
	}
	if blob.Size > 0 {
		put.ContentLength = aws.Int64(blob.Size)
	}
	out, err := b.uploader.Upload(ctx, put)
	if err != nil {
		return nil, fmt.Errorf("s3.Put %s: %w", blob.Key, err)
	}
	return &port.StoredBlob{Key: blob.Key, ETag: aws.ToString(out.ETag)}, nil
}

func (b *blobStore) Remove(ctx context.Context, keys ...string) error {
	var errs []error
	for start := 0; start < len(keys); start += maxBatch {
		end := min(start+maxBatch, len(keys))
		ids := make([]types.ObjectIdentifier, 0, end-start)
		for _, k := range keys[start:end] {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
		}
		out, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(b.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("s3.Remove: %w", err))
			continue
		}
		for _, e := range out.Errors {
			errs = append(errs, fmt.Errorf("s3.Remove %s: %s", aws.ToString(e.Key), aws.ToString(e.Message)))
		}
	}
	return errors.Join(errs...)
}

func (b *blobStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := b.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3.SignedURL %s: %w", key, err)
	}
	return req.URL, nil
}
