package casefolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Adapter implements Adapter over an S3-compatible bucket. Two flat key
// prefixes emulate the record and asset namespaces:
//
//	<jsonPrefix>/<slug>.json
//	<assetsPrefix>/<slug>/<name>
//
// The client is constructed once and reused across requests. No signed
// URLs are generated; AssetURL assumes a public bucket or a CDN in front.
type S3Adapter struct {
	client       *s3.Client
	bucket       string
	region       string
	endpoint     string
	jsonPrefix   string
	assetsPrefix string
	publicBase   string
	logger       Logger
}

// NewS3Adapter builds an adapter from configuration. Static credentials and
// a custom endpoint select path-style addressing for S3-compatible services
// (MinIO, R2); otherwise the default AWS credential chain is used.
func NewS3Adapter(ctx context.Context, cfg Config) (*S3Adapter, error) {
	var client *s3.Client
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		opts := s3.Options{
			Region:       cfg.S3Region,
			Credentials:  credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
			UsePathStyle: cfg.S3ForcePathStyle,
		}
		if cfg.S3Endpoint != "" {
			opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		client = s3.New(opts)
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			}
			o.UsePathStyle = cfg.S3ForcePathStyle
		})
	}

	return &S3Adapter{
		client:       client,
		bucket:       cfg.S3Bucket,
		region:       cfg.S3Region,
		endpoint:     strings.TrimRight(cfg.S3Endpoint, "/"),
		jsonPrefix:   strings.Trim(cfg.S3JSONPrefix, "/"),
		assetsPrefix: strings.Trim(cfg.S3AssetsPrefix, "/"),
		publicBase:   strings.TrimRight(cfg.AssetsBaseURL, "/"),
		logger:       &NoOpLogger{},
	}, nil
}

// SetLogger updates the logger for this adapter.
func (a *S3Adapter) SetLogger(logger Logger) {
	a.logger = logger
}

func (a *S3Adapter) keyJSON(slug string) string {
	return a.jsonPrefix + "/" + slug + ".json"
}

func (a *S3Adapter) keyAsset(slug, name string) string {
	return a.assetsPrefix + "/" + slug + "/" + name
}

// GetCase treats every read failure as absence: a missing key, a transport
// error and an unreadable body all yield (nil, nil).
func (a *S3Adapter) GetCase(ctx context.Context, slug string) (json.RawMessage, error) {
	result, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.keyJSON(slug)),
	})
	if err != nil {
		if !strings.Contains(err.Error(), "NoSuchKey") {
			a.logger.Debug("case read failed", "slug", slug, "error", err)
		}
		return nil, nil
	}
	defer func() { _ = result.Body.Close() }() //nolint:errcheck // Deferred close

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(result.Body); err != nil {
		a.logger.Debug("case body read failed", "slug", slug, "error", err)
		return nil, nil
	}
	data := buf.Bytes()
	if !json.Valid(data) {
		a.logger.Warn("case record is not valid JSON", "slug", slug)
		return nil, nil
	}
	return data, nil
}

func (a *S3Adapter) PutCase(ctx context.Context, slug string, data json.RawMessage) error {
	pretty, err := IndentJSON(data)
	if err != nil {
		return err
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.keyJSON(slug)),
		Body:        bytes.NewReader(pretty),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (a *S3Adapter) DeleteCase(ctx context.Context, slug string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.keyJSON(slug)),
	})
	if err != nil {
		a.logger.Warn("case delete failed", "slug", slug, "error", err)
	}
	return nil
}

func (a *S3Adapter) ListCaseSlugs(ctx context.Context) ([]string, error) {
	prefix := a.jsonPrefix + "/"
	var slugs []string

	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			slugs = append(slugs, strings.TrimSuffix(strings.TrimPrefix(key, prefix), ".json"))
		}
	}
	return slugs, nil
}

// ListAssetSlugs enumerates the slugs owning at least one asset object,
// grouping keys under the assets prefix with a "/" delimiter. Slugs whose
// record has been deleted still appear.
func (a *S3Adapter) ListAssetSlugs(ctx context.Context) ([]string, error) {
	prefix := a.assetsPrefix + "/"
	var slugs []string

	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(a.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, cp := range page.CommonPrefixes {
			slug := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			if slug != "" {
				slugs = append(slugs, slug)
			}
		}
	}
	return slugs, nil
}

func (a *S3Adapter) ListAssets(ctx context.Context, slug string) ([]Asset, error) {
	prefix := a.assetsPrefix + "/" + slug + "/"
	assets := []Asset{}

	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			name := strings.TrimPrefix(key, prefix)
			asset := Asset{
				Name: name,
				Size: aws.ToInt64(obj.Size),
				Type: ClassifyAsset(name),
				URL:  a.AssetURL(slug, name),
			}
			if obj.LastModified != nil {
				asset.Mtime = obj.LastModified.UnixMilli()
			}
			assets = append(assets, asset)
		}
	}
	return assets, nil
}

func (a *S3Adapter) PutAsset(ctx context.Context, slug, name string, data []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.keyAsset(slug, name)),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := a.client.PutObject(ctx, input); err != nil {
		return "", err
	}
	return a.AssetURL(slug, name), nil
}

func (a *S3Adapter) DeleteAsset(ctx context.Context, slug, name string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.keyAsset(slug, name)),
	})
	if err != nil {
		a.logger.Warn("asset delete failed", "slug", slug, "name", name, "error", err)
	}
	return nil
}

// MoveAssetsFolder relocates every object under the source prefix with
// copy-then-delete; S3 offers no server-side rename. Per-object failures
// are swallowed so a partial move never fails the caller's record write.
func (a *S3Adapter) MoveAssetsFolder(ctx context.Context, fromSlug, toSlug string) error {
	srcPrefix := a.assetsPrefix + "/" + fromSlug + "/"
	dstPrefix := a.assetsPrefix + "/" + toSlug + "/"

	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(srcPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			tail := strings.TrimPrefix(key, srcPrefix)
			_, err := a.client.CopyObject(ctx, &s3.CopyObjectInput{
				Bucket:     aws.String(a.bucket),
				CopySource: aws.String(escapeCopySource(a.bucket + "/" + key)),
				Key:        aws.String(dstPrefix + tail),
			})
			if err != nil {
				a.logger.Warn("asset copy failed", "key", key, "error", err)
				continue
			}
			_, err = a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(a.bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				a.logger.Warn("asset cleanup failed", "key", key, "error", err)
			}
		}
	}
	return nil
}

// escapeCopySource percent-encodes each path segment of a CopySource value
// while keeping the separating slashes intact.
func escapeCopySource(source string) string {
	parts := strings.Split(source, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// AssetURL prefers the configured public base URL and falls back to a raw
// storage-endpoint URL.
func (a *S3Adapter) AssetURL(slug, name string) string {
	escaped := url.PathEscape(name)
	if a.publicBase != "" {
		return a.publicBase + "/" + slug + "/" + escaped
	}
	base := a.endpoint
	if base == "" {
		base = fmt.Sprintf("https://s3.%s.amazonaws.com", a.region)
	}
	return base + "/" + a.bucket + "/" + a.assetsPrefix + "/" + slug + "/" + escaped
}
