package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agents-manager/core/document"
	"agents-manager/core/faults"
	"agents-manager/core/resource"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 8 << 20

// HTTPGateway talks to the remote REST API.
type HTTPGateway struct {
	cfg        Config
	client     *http.Client
	limiter    *rate.Limiter
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

// HTTPOption customises an HTTPGateway.
type HTTPOption func(*HTTPGateway)

// WithHTTPClient replaces the default client (whose timeout comes from Config).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(g *HTTPGateway) { g.client = c }
}

// WithBackOff replaces the retry schedule.
func WithBackOff(f func() backoff.BackOff) HTTPOption {
	return func(g *HTTPGateway) { g.newBackOff = f }
}

// NewHTTP builds an HTTP gateway.
func NewHTTP(cfg Config, logger *zap.Logger, opts ...HTTPOption) *HTTPGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cfg.AuthHeader == "" {
		cfg.AuthHeader = "xi-api-key"
	}

	g := &HTTPGateway{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 10 * time.Second
			return b
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *HTTPGateway) route(kind resource.Kind) (route, error) {
	r, ok := routes[kind]
	if !ok {
		return route{}, faults.New(faults.Unknown, fmt.Sprintf("no remote route for kind %q", kind), nil)
	}
	return r, nil
}

// Create posts a new resource and returns its remote ID.
func (g *HTTPGateway) Create(ctx context.Context, kind resource.Kind, env string, config document.Document) (string, error) {
	r, err := g.route(kind)
	if err != nil {
		return "", err
	}
	body, err := g.do(ctx, env, http.MethodPost, r.base+r.createPath, nil, r.wrap(config), false)
	if err != nil {
		return "", err
	}
	created, err := document.Decode(body)
	if err != nil {
		return "", faults.New(faults.Unknown, "unexpected create response", err)
	}
	id := r.summary(created).RemoteID
	if id == "" {
		return "", faults.New(faults.Unknown, "create response carries no "+r.idField, nil)
	}
	return id, nil
}

// Update replaces the remote configuration of remoteID.
func (g *HTTPGateway) Update(ctx context.Context, kind resource.Kind, env, remoteID string, config document.Document) error {
	r, err := g.route(kind)
	if err != nil {
		return err
	}
	_, err = g.do(ctx, env, r.updateMethod, r.base+"/"+url.PathEscape(remoteID), nil, r.wrap(config), true)
	return err
}

// Get fetches the full configuration of remoteID with server-owned fields removed.
func (g *HTTPGateway) Get(ctx context.Context, kind resource.Kind, env, remoteID string) (document.Document, error) {
	r, err := g.route(kind)
	if err != nil {
		return nil, err
	}
	body, err := g.do(ctx, env, http.MethodGet, r.base+"/"+url.PathEscape(remoteID), nil, nil, true)
	if err != nil {
		return nil, err
	}
	doc, err := document.Decode(body)
	if err != nil {
		return nil, faults.New(faults.Unknown, "unexpected get response", err)
	}
	return r.unwrap(doc), nil
}

// List walks every page of the listing.
func (g *HTTPGateway) List(ctx context.Context, kind resource.Kind, env string, pageSize int, filter string) ([]Summary, error) {
	r, err := g.route(kind)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = 30
	}

	var (
		out    []Summary
		cursor string
	)
	for {
		query := url.Values{}
		query.Set("page_size", strconv.Itoa(pageSize))
		if filter != "" {
			query.Set("search", filter)
		}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		body, err := g.do(ctx, env, http.MethodGet, r.base, query, nil, true)
		if err != nil {
			return nil, err
		}
		page, err := document.Decode(body)
		if err != nil {
			return nil, faults.New(faults.Unknown, "unexpected list response", err)
		}

		items, _ := page[r.listField].([]any)
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if s := r.summary(document.Document(obj)); s.RemoteID != "" {
				out = append(out, s)
			}
		}

		hasMore, _ := page["has_more"].(bool)
		next := page.String("next_cursor")
		if !hasMore || next == "" || next == cursor {
			break
		}
		cursor = next
	}
	return out, nil
}

// Delete removes remoteID.
func (g *HTTPGateway) Delete(ctx context.Context, kind resource.Kind, env, remoteID string) error {
	r, err := g.route(kind)
	if err != nil {
		return err
	}
	_, err = g.do(ctx, env, http.MethodDelete, r.base+"/"+url.PathEscape(remoteID), nil, nil, true)
	return err
}

// do performs one logical call, retrying rate-limited failures. Network failures
// are retried only for idempotent calls: a lost response to a create may hide a
// resource the server already made.
func (g *HTTPGateway) do(ctx context.Context, env, method, path string, query url.Values, payload document.Document, idempotent bool) ([]byte, error) {
	endpoint := g.cfg.BaseURLFor(env) + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var encoded []byte
	if payload != nil {
		var err error
		if encoded, err = payload.Encode(); err != nil {
			return nil, faults.New(faults.Unknown, "failed to encode request body", err)
		}
	}

	apiKey := g.cfg.APIKeyFor(env)
	attempt := func() ([]byte, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(faults.New(faults.Network, "rate limiter wait aborted", err))
		}

		var body io.Reader
		if encoded != nil {
			body = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return nil, backoff.Permanent(faults.New(faults.Unknown, "failed to build request", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if apiKey != "" {
			req.Header.Set(g.cfg.AuthHeader, apiKey)
		}

		resp, err := g.client.Do(req)
		if err != nil {
			failure := faults.New(faults.Network, fmt.Sprintf("%s %s", method, path), err)
			if !idempotent {
				return nil, backoff.Permanent(failure)
			}
			return nil, failure
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			failure := faults.New(faults.Network, "failed to read response body", err)
			if !idempotent {
				return nil, backoff.Permanent(failure)
			}
			return nil, failure
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		classified := classifyStatus(resp.StatusCode, data)
		// A 429 was rejected before processing and is safe to repeat.
		if faults.Is(classified, faults.RateLimited) || (idempotent && faults.Retryable(classified)) {
			return nil, classified
		}
		return nil, backoff.Permanent(classified)
	}

	data, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(g.newBackOff()),
		backoff.WithMaxTries(uint(max(g.cfg.MaxRetries, 0))+1),
		backoff.WithNotify(func(err error, wait time.Duration) {
			g.logger.Debug("Retrying remote call",
				zap.String("method", method),
				zap.String("path", path),
				zap.String("env", env),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		var typed *faults.Error
		if errors.As(err, &typed) {
			return nil, err
		}
		return nil, faults.New(faults.Network, fmt.Sprintf("%s %s", method, path), err)
	}
	return data, nil
}

func classifyStatus(status int, body []byte) error {
	message := fmt.Sprintf("remote request failed with status %d: %s", status, summarizeBody(body))

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return faults.New(faults.Unauthorized, message, nil)
	case status == http.StatusNotFound:
		return faults.New(faults.NotFound, message, nil)
	case status == http.StatusTooManyRequests:
		return faults.New(faults.RateLimited, message, nil)
	case status >= 500:
		return faults.New(faults.Network, message, nil)
	default:
		return faults.New(faults.Unknown, message, nil)
	}
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}
	if len(trimmed) > 512 {
		return trimmed[:512] + "..."
	}
	return trimmed
}
