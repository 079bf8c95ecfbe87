package supabase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Upload stores data under name in the configured bucket and returns its
// public URL. It implements session.AssetStore.
func (c *Client) Upload(ctx context.Context, data []byte, name string) (string, error) {
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return "", fmt.Errorf("upload: empty object name")
	}
	h := http.Header{}
	h.Set("Content-Type", "image/png")
	h.Set("Cache-Control", "3600")
	h.Set("x-upsert", "false")
	endpoint := c.endpoint("/storage/v1/object/"+objectPath(c.cfg.Bucket, name), nil)
	if err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(data), h, nil); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	u := c.PublicURL(name)
	c.logger.Info("annotation stored", zap.String("bucket", c.cfg.Bucket), zap.String("name", name), zap.Int("bytes", len(data)))
	return u, nil
}

// PublicURL returns the public URL of an object in the configured bucket.
func (c *Client) PublicURL(name string) string {
	return c.endpoint("/storage/v1/object/public/"+objectPath(c.cfg.Bucket, name), nil)
}

// objectPath is unescaped; endpoint leaves escaping to url.URL.
func objectPath(bucket, name string) string {
	return strings.Trim(bucket, "/") + "/" + strings.TrimLeft(name, "/")
}
