package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/videotube/backend/internal/core/domain"
	"github.com/videotube/backend/internal/core/ports"
)

const defaultKeyPrefix = "users"

var ErrEmptyPath = errors.New("media upload: empty local path")

// Config captures the settings for an S3-compatible media bucket (AWS or MinIO).
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // empty for AWS; e.g. http://localhost:9000 for MinIO
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	// PublicBaseURL prefixes returned URLs as <base>/<bucket>/<key>. When empty
	// the location reported by the upload is used.
	PublicBaseURL string
	KeyPrefix     string
}

// objectUploader is the subset of manager.Uploader used here.
type objectUploader interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// bucketAPI is the subset of *s3.Client used for bucket management.
type bucketAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, opts ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// Uploader implements ports.MediaUploader on top of the S3 transfer manager.
type Uploader struct {
	uploader objectUploader
	buckets  bucketAPI
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

var _ ports.MediaUploader = (*Uploader)(nil)

// NewClient builds an S3 client with static credentials. A custom endpoint
// switches the client to that host (MinIO and friends).
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("s3 client: bucket and region are required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 client: load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// NewUploader wraps client with a transfer manager bound to cfg.Bucket.
func NewUploader(client *s3.Client, cfg Config, log zerolog.Logger) *Uploader {
	return newUploader(manager.NewUploader(client), client, cfg, log)
}

func newUploader(up objectUploader, buckets bucketAPI, cfg Config, log zerolog.Logger) *Uploader {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &Uploader{
		uploader: up,
		buckets:  buckets,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Upload streams the file at localPath to the bucket and returns its URL.
// The local file is left in place; staging owns its cleanup.
func (u *Uploader) Upload(ctx context.Context, localPath string) (*domain.UploadedMedia, error) {
	if localPath == "" {
		return nil, ErrEmptyPath
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("media upload: open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("media upload: stat %s: %w", localPath, err)
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("media upload: detect content type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("media upload: rewind %s: %w", localPath, err)
	}

	key := u.objectKey(localPath, mtype.Extension())

	out, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String(mtype.String()),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return nil, fmt.Errorf("media upload: put %s: %w", key, err)
	}

	url := u.publicURL(key, out)
	if url == "" {
		return nil, fmt.Errorf("media upload: no url for %s", key)
	}

	u.log.Debug().Str("key", key).Str("content_type", mtype.String()).Int64("size", info.Size()).Msg("media uploaded")

	return &domain.UploadedMedia{
		URL:         url,
		Key:         key,
		ContentType: mtype.String(),
		Size:        info.Size(),
	}, nil
}

// EnsureBucket creates the bucket when HeadBucket reports it missing.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	if err := u.Ping(ctx); err == nil {
		return nil
	}

	in := &s3.CreateBucketInput{Bucket: aws.String(u.cfg.Bucket)}
	// us-east-1 rejects an explicit location constraint.
	if u.cfg.Region != "" && u.cfg.Region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(u.cfg.Region),
		}
	}

	if _, err := u.buckets.CreateBucket(ctx, in); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", u.cfg.Bucket, err)
	}

	u.log.Info().Str("bucket", u.cfg.Bucket).Msg("media bucket created")
	return nil
}

// Ping reports whether the bucket is reachable.
func (u *Uploader) Ping(ctx context.Context) error {
	_, err := u.buckets.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.cfg.Bucket)})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", u.cfg.Bucket, err)
	}
	return nil
}

// objectKey returns <prefix>/<yyyy>/<mm>/<uuid><ext>. The extension of the
// staged file wins over the sniffed one.
func (u *Uploader) objectKey(localPath, sniffedExt string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == "" {
		ext = sniffedExt
	}
	d := u.now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%s%s", u.cfg.KeyPrefix, d.Year(), int(d.Month()), uuid.NewString(), ext)
}

func (u *Uploader) publicURL(key string, out *manager.UploadOutput) string {
	if u.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", u.cfg.PublicBaseURL, u.cfg.Bucket, key)
	}
	if out != nil {
		return out.Location
	}
	return ""
}
