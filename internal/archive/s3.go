package archive

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"scanrecon/internal/config"
	"scanrecon/internal/scan"
)

// uploader is the part of manager.Uploader the archive uses.
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Archive uploads reports to a bucket under an optional key prefix.
type S3Archive struct {
	bucket   string
	prefix   string
	uploader uploader
}

// NewS3Archive builds an S3 client from the [report] config section.
// Static credentials are used when both keys are set; otherwise the default
// AWS credential chain applies. A custom endpoint forces path-style
// addressing, which S3-compatible stores such as MinIO need.
func NewS3Archive(ctx context.Context, cfg config.ReportConfig) (*S3Archive, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 report upload requires s3_bucket to be set")
	}
	if cfg.S3Region == "" {
		return nil, fmt.Errorf("s3 report upload requires s3_region to be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Archive(cfg.S3Bucket, cfg.S3Prefix, manager.NewUploader(client)), nil
}

func newS3Archive(bucket, prefix string, up uploader) *S3Archive {
	return &S3Archive{
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		uploader: up,
	}
}

func (a *S3Archive) key(name string) string {
	if a.prefix == "" {
		return name
	}
	return path.Join(a.prefix, name)
}

// Put uploads the report. The uploader switches to multipart on its own for
// large bodies.
func (a *S3Archive) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(a.key(name)),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType(name)),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", a.Location(name), err)
	}
	return nil
}

func (a *S3Archive) Location(name string) string {
	return "s3://" + a.bucket + "/" + a.key(name)
}

func contentType(name string) string {
	if strings.HasSuffix(name, ".csv") {
		return "text/csv"
	}
	return "application/octet-stream"
}

var _ scan.ReportArchive = (*S3Archive)(nil)
