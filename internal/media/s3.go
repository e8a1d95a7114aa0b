package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// s3Store implements Store for uploads to AWS S3.
type s3Store struct {
	client s3API
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Store creates a new S3-backed media store. Keys are written under the
// given prefix and public URLs point at the bucket's virtual-hosted endpoint.
func NewS3Store(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "s3-media-store").Logger()

	// Load AWS configuration
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 media store initialised")

	return &s3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Save uploads the file to S3 under prefix+name. When an object with that key
// already exists, a timestamp suffix is inserted before the extension so the
// old object is never overwritten.
func (s *s3Store) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	name = SanitizeName(name)
	if name == "" || name == "." {
		return "", fmt.Errorf("invalid file name")
	}

	key := s.prefix + name

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		name = timestampName(name)
		key = s.prefix + name
		s.logger.Debug().Str("key", key).Msg("key collision, using timestamp suffix")
	} else {
		var notFound *types.NotFound
		if !errors.As(err, &notFound) {
			s.logger.Error().
				Err(err).
				Str("bucket", s.bucket).
				Str("key", key).
				Msg("failed to check for existing object in S3")
			return "", fmt.Errorf("failed to check for existing object in S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
		}
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("upload stored in S3")

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

// fallbackStore implements a store that tries S3 first, then falls back to disk.
type fallbackStore struct {
	s3Store   Store
	diskStore Store
	s3Enabled bool
	logger    zerolog.Logger
}

// NewFallbackStore creates a store that tries S3 first, then falls back to
// the local disk store. If s3Store is nil, only the disk store is used.
func NewFallbackStore(s3Store, diskStore Store, s3Enabled bool, logger zerolog.Logger) Store {
	return &fallbackStore{
		s3Store:   s3Store,
		diskStore: diskStore,
		s3Enabled: s3Enabled,
		logger:    logger.With().Str("component", "fallback-media-store").Logger(),
	}
}

// Save attempts the S3 store first when enabled; a failed S3 write falls back
// to disk so an upload never bounces on transient S3 trouble.
func (s *fallbackStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if s.s3Enabled && s.s3Store != nil {
		url, err := s.s3Store.Save(ctx, name, contentType, data)
		if err == nil {
			return url, nil
		}

		s.logger.Warn().
			Err(err).
			Str("file", name).
			Msg("S3 save failed, falling back to disk")
	} else {
		s.logger.Debug().
			Bool("s3_enabled", s.s3Enabled).
			Bool("has_s3_store", s.s3Store != nil).
			Msg("S3 disabled or not configured, using disk store")
	}

	url, err := s.diskStore.Save(ctx, name, contentType, data)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("disk store returned empty URL")
	}

	return url, nil
}
