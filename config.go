package casefolio

import (
	"os"
	"strings"
)

// File permissions for the local backend
const (
	DefaultFilePermissions = 0644
	DefaultDirPermissions  = 0755
)

// Storage providers selectable via STORAGE_PROVIDER
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Config holds the environment-driven settings of the content subsystem.
type Config struct {
	Provider string // "local" or "s3"

	// Local backend
	RecordsDir string // JSON case records, one file per slug
	AssetsDir  string // public asset folders, one directory per slug

	// Object storage backend
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3JSONPrefix      string
	S3AssetsPrefix    string
	S3ForcePathStyle  bool

	// Optional public base URL for asset links (CDN or public bucket domain)
	AssetsBaseURL string

	// Collaborators
	AdminToken string
	WebhookURL string
	ListenAddr string
}

// LoadConfig reads configuration from the environment, applying the
// defaults the site has always used.
func LoadConfig() Config {
	return Config{
		Provider: strings.ToLower(envOr("STORAGE_PROVIDER", ProviderLocal)),

		RecordsDir: envOr("CONTENT_DIR", "content/case-studies"),
		AssetsDir:  envOr("PUBLIC_ASSETS_DIR", "public/cases"),

		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          envOr("S3_REGION", "auto"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3JSONPrefix:      envOr("S3_JSON_PREFIX", "cases-json"),
		S3AssetsPrefix:    envOr("S3_ASSETS_PREFIX", "cases-assets"),
		S3ForcePathStyle:  !strings.EqualFold(envOr("S3_FORCE_PATH_STYLE", "true"), "false"),

		AssetsBaseURL: os.Getenv("ASSETS_BASE_URL"),

		AdminToken: os.Getenv("ADMIN_TOKEN"),
		WebhookURL: os.Getenv("WEBHOOK_URL"),
		ListenAddr: envOr("LISTEN_ADDR", ":8080"),
	}
}

// Validate checks if the Config is usable for the selected provider.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.RecordsDir == "" || c.AssetsDir == "" {
			return WithContext(ErrInvalidConfig, map[string]interface{}{
				"field":  "RecordsDir/AssetsDir",
				"reason": "local backend requires both directories",
			})
		}
	case ProviderS3:
		if c.S3Bucket == "" {
			return WithContext(ErrInvalidConfig, map[string]interface{}{
				"field":  "S3Bucket",
				"reason": "s3 backend requires a bucket",
			})
		}
		if c.S3Region == "" && c.S3Endpoint == "" {
			return WithContext(ErrInvalidConfig, map[string]interface{}{
				"field":  "S3Region/S3Endpoint",
				"reason": "s3 backend requires either a region or an endpoint",
			})
		}
	default:
		return WithContext(ErrInvalidConfig, map[string]interface{}{
			"field":  "Provider",
			"value":  c.Provider,
			"reason": "unknown storage provider",
		})
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
