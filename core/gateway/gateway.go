package gateway

import (
	"context"
	"fmt"
	"os"
	"strings"

	"agents-manager/core/document"
	"agents-manager/core/resource"
	"agents-manager/core/storage"

	"go.uber.org/zap"
)

// Summary is the list-level metadata of a remote resource.
type Summary struct {
	RemoteID string `json:"id"`
	Name     string `json:"name"`
}

// Gateway is the remote operation contract, per resource kind and environment.
// Every error is a *faults.Error classified as unauthorized, not_found, network,
// rate_limited or unknown.
type Gateway interface {
	Create(ctx context.Context, kind resource.Kind, env string, config document.Document) (string, error)
	Update(ctx context.Context, kind resource.Kind, env, remoteID string, config document.Document) error
	Get(ctx context.Context, kind resource.Kind, env, remoteID string) (document.Document, error)
	List(ctx context.Context, kind resource.Kind, env string, pageSize int, filter string) ([]Summary, error)
	Delete(ctx context.Context, kind resource.Kind, env, remoteID string) error
}

const (
	BackendHTTP = "http"
	BackendS3   = "s3"
)

// Config holds remote API settings.
type Config struct {
	// Backend selects the implementation: "http" (remote API) or "s3" (object-storage mirror).
	Backend string `mapstructure:"backend" default:"http"`
	// BaseURL is the API root used when no REMOTE_BASE_URL_<ENV> override exists.
	BaseURL string `mapstructure:"base_url" default:"https://api.elevenlabs.io"`
	// APIKey is used when no REMOTE_API_KEY_<ENV> override exists.
	APIKey     string `mapstructure:"api_key" default:""`
	AuthHeader string `mapstructure:"auth_header" default:"xi-api-key"`
	// TimeoutSeconds bounds every HTTP round trip.
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" default:"30"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5"`
	// MaxRetries is the number of extra attempts for network and rate-limited failures.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
}

// APIKeyFor resolves the credential for env: REMOTE_API_KEY_<ENV>, then APIKey.
func (c Config) APIKeyFor(env string) string {
	if v := os.Getenv("REMOTE_API_KEY_" + envSuffix(env)); v != "" {
		return v
	}
	return c.APIKey
}

// BaseURLFor resolves the API root for env: REMOTE_BASE_URL_<ENV>, then BaseURL.
func (c Config) BaseURLFor(env string) string {
	base := c.BaseURL
	if v := os.Getenv("REMOTE_BASE_URL_" + envSuffix(env)); v != "" {
		base = v
	}
	return strings.TrimRight(base, "/")
}

func envSuffix(env string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(env) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// BucketProvisioner is implemented by backends that need their bucket created
// before the first push.
type BucketProvisioner interface {
	EnsureBucket(ctx context.Context, region string) error
}

// New builds the gateway selected by cfg.Backend.
func New(cfg Config, storageCfg storage.Config, logger *zap.Logger) (Gateway, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendHTTP, "":
		return NewHTTP(cfg, logger), nil
	case BackendS3:
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			return nil, err
		}
		return NewObjectStore(client, storageCfg.Bucket, storageCfg.Prefix, logger), nil
	default:
		return nil, fmt.Errorf("unknown remote backend %q (expected %s or %s)", cfg.Backend, BackendHTTP, BackendS3)
	}
}
