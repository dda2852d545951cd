// Package s3store implements the remote.Provider interface on top of any
// S3-compatible object store, including MinIO via a custom endpoint.
//
// Object keys mirror the provider layout of the other backends:
// <root>/<DD-MM-YYYY>/<artifact>. Day folders are materialized as zero-byte
// marker objects so the hierarchy is visible in bucket browsers.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"screenguard/internal/config"
	"screenguard/internal/logging"
	"screenguard/internal/remote"
)

// Provider connects to an S3 bucket with the configured credentials.
type Provider struct {
	bucket    string
	region    string
	endpoint  string
	accessKey string
	secretKey string
	root      string
	logger    *slog.Logger
}

// New builds an S3 provider from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Provider {
	return &Provider{
		bucket:    cfg.S3.Bucket,
		region:    cfg.S3.Region,
		endpoint:  cfg.S3.Endpoint,
		accessKey: cfg.S3.AccessKeyID,
		secretKey: cfg.S3.SecretAccessKey,
		root:      cfg.RemoteRoot(),
		logger:    logging.NewComponentLogger(logger, "s3store"),
	}
}

// Name identifies the backend in logs and status output.
func (p *Provider) Name() string {
	return config.ProviderS3
}

// Connect loads AWS configuration, builds the client, and verifies the bucket
// is reachable before handing back a session.
func (p *Provider) Connect(ctx context.Context) (remote.Session, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if p.region != "" {
		opts = append(opts, awsconfig.WithRegion(p.region))
	}
	if p.accessKey != "" && p.secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(p.accessKey, p.secretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %w", remote.ErrAuthFailed, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if p.endpoint != "" {
			o.BaseEndpoint = aws.String(p.endpoint)
			o.UsePathStyle = true
		}
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.bucket)}); err != nil {
		return nil, fmt.Errorf("%w: bucket %q unreachable: %w", remote.ErrAuthFailed, p.bucket, err)
	}

	p.logger.Info("s3 session established",
		logging.String("bucket", p.bucket),
		logging.String("remote_root", p.root),
	)
	return &session{client: client, bucket: p.bucket, root: p.root}, nil
}

type session struct {
	client *s3.Client
	bucket string
	root   string
}

type folder struct {
	prefix string
}

func (f *folder) Path() string {
	return f.prefix
}

// EnsureFolder writes the zero-byte day marker <root>/<dayKey>/ and returns
// the prefix as the folder handle.
func (s *session) EnsureFolder(ctx context.Context, dayKey string) (remote.Folder, error) {
	prefix := path.Join(s.root, dayKey) + "/"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(prefix),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marker %q: %w", remote.ErrFolderCreate, prefix, err)
	}
	return &folder{prefix: prefix}, nil
}

// Upload puts a local file under the day prefix.
func (s *session) Upload(ctx context.Context, target remote.Folder, localPath, name string) error {
	handle, ok := target.(*folder)
	if !ok {
		return fmt.Errorf("%w: foreign folder handle %T", remote.ErrUpload, target)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", remote.ErrUpload, localPath, err)
	}
	defer file.Close()

	key := handle.prefix + name
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentTypeFor(name)),
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %w", remote.ErrUpload, key, err)
	}
	return nil
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
