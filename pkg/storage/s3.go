package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// contentTypes maps the extensions a built site carries to their MIME types.
var contentTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "text/javascript; charset=utf-8",
	".json":  "application/json",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".webp":  "image/webp",
	".gif":   "image/gif",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".txt":   "text/plain; charset=utf-8",
	".xml":   "application/xml",
}

// S3Config holds S3 client configuration.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
}

// Uploader is the subset of manager.Uploader used for publishing.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Publisher uploads a built site directory to an S3 bucket.
type Publisher struct {
	uploader Uploader
	cfg      S3Config
}

// NewPublisher creates a Publisher using static credentials when both keys are set,
// and the default credential chain otherwise.
func NewPublisher(ctx context.Context, cfg S3Config) (*Publisher, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
		log.Info().Str("region", cfg.Region).Str("bucket", cfg.Bucket).Msg("S3 publisher using static credentials")
	} else {
		log.Warn().Msg("S3 publisher using default credential chain (AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY not set)")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	return NewPublisherWithUploader(uploader, cfg), nil
}

// NewPublisherWithUploader creates a Publisher over any Uploader (for testing).
func NewPublisherWithUploader(uploader Uploader, cfg S3Config) *Publisher {
	return &Publisher{uploader: uploader, cfg: cfg}
}

// ContentTypeForFilename returns the MIME type for a site file extension.
func ContentTypeForFilename(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ObjectKey returns the S3 object key for a path relative to the site root.
func ObjectKey(prefix, rel string) string {
	return strings.TrimPrefix(path.Join(prefix, filepath.ToSlash(rel)), "/")
}

// CacheControlFor returns the Cache-Control header for an object.
// HTML is revalidated on every load; assets may be cached for a day.
func CacheControlFor(filename string) string {
	if strings.EqualFold(path.Ext(filename), ".html") {
		return "no-cache"
	}
	return "public, max-age=86400"
}

// PublishDir uploads every regular file below dir and returns the number of objects written.
func (p *Publisher) PublishDir(ctx context.Context, dir string) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(dir, func(fp string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, fp)
		if err != nil {
			return err
		}
		if err := p.upload(ctx, fp, ObjectKey(p.cfg.Prefix, rel)); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("publish %s: %w", dir, err)
	}
	log.Info().Str("bucket", p.cfg.Bucket).Str("prefix", p.cfg.Prefix).Int("objects", uploaded).Msg("site published")
	return uploaded, nil
}

func (p *Publisher) upload(ctx context.Context, fp, key string) error {
	f, err := os.Open(fp)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.cfg.Bucket),
		Key:          aws.String(key),
		Body:         f,
		ContentType:  aws.String(ContentTypeForFilename(fp)),
		CacheControl: aws.String(CacheControlFor(fp)),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	log.Debug().Str("key", key).Msg("object uploaded")
	return nil
}

// PublicURL returns the public URL of the published site root.
func (p *Publisher) PublicURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, ObjectKey(p.cfg.Prefix, "index.html"))
}
