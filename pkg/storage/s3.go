package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// Objects are immutable under their derived keys, so let any CDN or
	// browser hold them for a year. The in-process proxy cache is the real
	// cache boundary.
	longCacheControl = "public, max-age=31536000, immutable"

	// Multipart transfer tuned for constrained hosts
	multipartThreshold = 20 << 20
	multipartPartSize  = 8 << 20
	multipartConc      = 2
)

type S3Store struct {
	C      *s3.Client
	Bucket *string

	cdnURL   string
	endpoint string
}

// NewS3 builds the S3 client from storage.* config and verifies the bucket
// exists before the server starts taking traffic.
func NewS3() (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("storage.access_key_id"),
			viper.GetString("storage.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("storage.bucket"))
	endpoint := viper.GetString("storage.endpoint")

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.Region = viper.GetString("storage.region")
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Store{
		C:        client,
		Bucket:   bucket,
		cdnURL:   strings.TrimSuffix(viper.GetString("storage.cdn_url"), "/"),
		endpoint: endpoint,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, localPath, key, contentType string, progress func(int64)) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file for upload, %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat file for upload, %w", err)
	}

	var body io.Reader = f
	if progress != nil {
		body = &progressReader{r: f, report: progress}
	}

	input := &s3.PutObjectInput{
		Bucket:        s.Bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(stat.Size()),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(longCacheControl),
	}

	if stat.Size() > multipartThreshold {
		u := manager.NewUploader(s.C, func(u *manager.Uploader) {
			u.Concurrency = multipartConc
			u.PartSize = multipartPartSize
		})

		_, err = u.Upload(ctx, input)
	} else {
		_, err = s.C.PutObject(ctx, input)
	}
	if err != nil {
		return "", classify(err)
	}

	zap.L().Debug("Object uploaded", zap.String("key", key), zap.Int64("size", stat.Size()))
	return s.URL(key), nil
}

func (s *S3Store) Get(ctx context.Context, key string) (*Object, error) {
	out, err := s.C.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body, %w", err)
	}

	return &Object{
		Bytes:       data,
		ContentType: aws.ToString(out.ContentType),
		ETag:        aws.ToString(out.ETag),
	}, nil
}

func (s *S3Store) GetRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, error) {
	out, err := s.C.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", start, end)),
	})
	if err != nil {
		return nil, classify(err)
	}

	return out.Body, nil
}

func (s *S3Store) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	out, err := s.C.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify(err)
	}

	return &ObjectInfo{
		ContentType: aws.ToString(out.ContentType),
		Length:      aws.ToInt64(out.ContentLength),
		ETag:        aws.ToString(out.ETag),
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, keys ...string) error {
	var failed int

	for _, key := range keys {
		_, err := s.C.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: s.Bucket,
			Key:    aws.String(key),
		})
		if err != nil {
			failed++
			zap.L().Warn("Failed to delete object", zap.String("key", key), zap.Error(err))
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to delete %d of %d objects", failed, len(keys))
	}

	return nil
}

// URL builds the public URL of a key, preferring the CDN host when configured
func (s *S3Store) URL(key string) string {
	escaped := url.PathEscape(key)
	// Keep path separators readable
	escaped = strings.ReplaceAll(escaped, "%2F", "/")

	if s.cdnURL != "" {
		return s.cdnURL + "/" + escaped
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.endpoint, "/"), *s.Bucket, escaped)
}

// classify maps SDK failures onto the store's error taxonomy so callers can
// translate them into HTTP statuses without importing smithy
func classify(err error) error {
	var apiErr smithy.APIError

	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", ErrNotFound, apiErr.ErrorMessage())
		case "InvalidRange":
			return fmt.Errorf("%w: %s", ErrRangeNotSatisfiable, apiErr.ErrorMessage())
		case "NoSuchBucket", "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s", ErrStoreUnavailable, apiErr.ErrorMessage())
		case "InvalidArgument", "KeyTooLongError":
			return fmt.Errorf("%w: %s", ErrInvalidKey, apiErr.ErrorMessage())
		case "EntityTooLarge", "QuotaExceeded", "ServiceQuotaExceededException":
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.ErrorMessage())
		}

		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return err
}

// progressReader reports cumulative bytes read through it. The multipart
// uploader reads parts concurrently, so the counter is atomic.
type progressReader struct {
	r      io.Reader
	n      atomic.Int64
	report func(int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.report(p.n.Add(int64(n)))
	}

	return n, err
}
