package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"agents-manager/core/document"
	"agents-manager/core/faults"
	"agents-manager/core/resource"
	"agents-manager/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const nameMetadataKey = "Name"

// ObjectStoreGateway mirrors resources as JSON objects in a bucket, keyed
// "<prefix>/<env>/<kind>s/<id>.json".
type ObjectStoreGateway struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewObjectStore builds an object-storage gateway.
func NewObjectStore(client storage.Client, bucket, prefix string, logger *zap.Logger) *ObjectStoreGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObjectStoreGateway{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

func (g *ObjectStoreGateway) dir(kind resource.Kind, env string) string {
	return path.Join(g.prefix, env, kind.Plural()) + "/"
}

func (g *ObjectStoreGateway) key(kind resource.Kind, env, remoteID string) string {
	return g.dir(kind, env) + remoteID + ".json"
}

// Create stores config under a fresh uuid.
func (g *ObjectStoreGateway) Create(ctx context.Context, kind resource.Kind, env string, config document.Document) (string, error) {
	id := uuid.NewString()
	if err := g.put(ctx, g.key(kind, env, id), config); err != nil {
		return "", err
	}
	return id, nil
}

// Update overwrites an existing object.
func (g *ObjectStoreGateway) Update(ctx context.Context, kind resource.Kind, env, remoteID string, config document.Document) error {
	key := g.key(kind, env, remoteID)
	if err := g.stat(ctx, key); err != nil {
		return err
	}
	return g.put(ctx, key, config)
}

// Get reads an object back.
func (g *ObjectStoreGateway) Get(ctx context.Context, kind resource.Kind, env, remoteID string) (document.Document, error) {
	key := g.key(kind, env, remoteID)
	obj, err := g.client.GetObject(ctx, g.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyObjectError(key, err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		return nil, classifyObjectError(key, err)
	}
	doc, err := document.Decode(raw)
	if err != nil {
		return nil, faults.New(faults.Unknown, "object "+key+" is not a JSON object", err)
	}
	return doc, nil
}

// List enumerates objects for kind in env. filter is a case-insensitive name
// substring; pageSize is ignored because the client pages internally.
func (g *ObjectStoreGateway) List(ctx context.Context, kind resource.Kind, env string, _ int, filter string) ([]Summary, error) {
	dir := g.dir(kind, env)
	needle := strings.ToLower(filter)

	var out []Summary
	for obj := range g.client.ListObjects(ctx, g.bucket, minio.ListObjectsOptions{
		Prefix:       dir,
		Recursive:    true,
		WithMetadata: true,
	}) {
		if obj.Err != nil {
			return nil, classifyObjectError(dir, obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(obj.Key, dir), ".json")
		if id == "" || strings.Contains(id, "/") {
			continue
		}
		name := metadataName(obj.UserMetadata)
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		out = append(out, Summary{RemoteID: id, Name: name})
	}
	return out, nil
}

// Delete removes an object. A missing object is reported as not found.
func (g *ObjectStoreGateway) Delete(ctx context.Context, kind resource.Kind, env, remoteID string) error {
	key := g.key(kind, env, remoteID)
	if err := g.stat(ctx, key); err != nil {
		return err
	}
	if err := g.client.RemoveObject(ctx, g.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return classifyObjectError(key, err)
	}
	return nil
}

// EnsureBucket creates the bucket on first use. The init command calls it.
func (g *ObjectStoreGateway) EnsureBucket(ctx context.Context, region string) error {
	if err := storage.EnsureBucket(ctx, g.client, g.bucket, region); err != nil {
		return classifyObjectError(g.bucket, err)
	}
	return nil
}

func (g *ObjectStoreGateway) put(ctx context.Context, key string, config document.Document) error {
	raw, err := config.Encode()
	if err != nil {
		return faults.New(faults.Unknown, "failed to encode "+key, err)
	}
	_, err = g.client.PutObject(ctx, g.bucket, key, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType:  "application/json",
		UserMetadata: map[string]string{nameMetadataKey: config.Name()},
	})
	if err != nil {
		return classifyObjectError(key, err)
	}
	g.logger.Debug("Stored object", zap.String("bucket", g.bucket), zap.String("key", key))
	return nil
}

func (g *ObjectStoreGateway) stat(ctx context.Context, key string) error {
	if _, err := g.client.StatObject(ctx, g.bucket, key, minio.StatObjectOptions{}); err != nil {
		return classifyObjectError(key, err)
	}
	return nil
}

// metadataName finds the name in user metadata, whose keys may or may not carry
// the X-Amz-Meta- prefix depending on the listing API.
func metadataName(meta map[string]string) string {
	for k, v := range meta {
		lower := strings.ToLower(k)
		if lower == "name" || lower == "x-amz-meta-name" {
			return v
		}
	}
	return ""
}

func classifyObjectError(key string, err error) error {
	var typed *faults.Error
	if errors.As(err, &typed) {
		return err
	}

	resp := minio.ToErrorResponse(err)
	message := fmt.Sprintf("object storage call failed for %s", key)
	switch {
	case resp.Code == "NoSuchBucket":
		// A missing bucket says nothing about the object; run init to create it.
		return faults.New(faults.Configuration, message, err)
	case resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound:
		return faults.New(faults.NotFound, message, err)
	case resp.Code == "AccessDenied" || resp.Code == "InvalidAccessKeyId" || resp.Code == "SignatureDoesNotMatch" ||
		resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return faults.New(faults.Unauthorized, message, err)
	case resp.Code == "SlowDown" || resp.StatusCode == http.StatusTooManyRequests:
		return faults.New(faults.RateLimited, message, err)
	case resp.StatusCode >= 500 || resp.Code == "":
		return faults.New(faults.Network, message, err)
	default:
		return faults.New(faults.Unknown, message, err)
	}
}
