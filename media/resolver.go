// Package media turns image references from the backend into URLs the browser can load.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/realestate-site/config"
	"github.com/rs/zerolog/log"
)

const (
	PlaceholderImage = "/static/img/placeholder.svg"
	presignExpiry    = 15 * time.Minute
)

// Presigner is the subset of *s3.PresignClient used here.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Resolver struct {
	baseURL   string
	bucket    string
	presigner Presigner
}

func NewResolver(baseURL, bucket string, presigner Presigner) *Resolver {
	return &Resolver{
		baseURL:   strings.TrimRight(baseURL, "/"),
		bucket:    bucket,
		presigner: presigner,
	}
}

// FromConfig builds a resolver from MEDIA_BASE_URL, and from MEDIA_BUCKET plus AWS_REGION
// when S3 presigning is wanted.
func FromConfig(ctx context.Context, cfg map[string]string) (*Resolver, error) {
	baseURL := config.GetString(cfg, "MEDIA_BASE_URL", "")
	bucket := config.GetString(cfg, "MEDIA_BUCKET", "")
	if bucket == "" {
		return NewResolver(baseURL, "", nil), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.GetString(cfg, "AWS_REGION", "ap-southeast-1")))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	log.Info().Str("bucket", bucket).Msg("Serving media through S3 presigned URLs")
	return NewResolver(baseURL, bucket, s3.NewPresignClient(s3.NewFromConfig(awsCfg))), nil
}

func isAbsolute(src string) bool {
	return strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "//") ||
		strings.HasPrefix(src, "data:") ||
		strings.HasPrefix(src, "/static/")
}

// URL resolves src. Failures to presign fall back to the placeholder so a page never
// breaks over one image.
func (r *Resolver) URL(ctx context.Context, src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return PlaceholderImage
	}
	if isAbsolute(src) {
		return src
	}
	key := strings.TrimLeft(src, "/")

	if r.bucket != "" && r.presigner != nil {
		req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(presignExpiry))
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to presign media URL")
			return PlaceholderImage
		}
		return req.URL
	}

	if r.baseURL == "" {
		return "/" + key
	}
	return r.baseURL + "/" + key
}

// URLs resolves every entry of srcs, dropping empty ones.
func (r *Resolver) URLs(ctx context.Context, srcs []string) []string {
	out := make([]string, 0, len(srcs))
	for _, src := range srcs {
		if strings.TrimSpace(src) == "" {
			continue
		}
		out = append(out, r.URL(ctx, src))
	}
	return out
}
