// Package supabase talks to a Supabase project: storage for annotated images,
// PostgREST for classifications and anomalies, and GoTrue for the signed-in
// user.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultBucket is used when Config.Bucket is empty.
const DefaultBucket = "annotations"

// Config identifies a Supabase project.
type Config struct {
	URL         string
	AnonKey     string
	AccessToken string
	Bucket      string
	// UserID pins the author id instead of resolving it from AccessToken.
	UserID string
}

// Client is a minimal Supabase REST client.
type Client struct {
	cfg    Config
	base   *url.URL
	http   *http.Client
	logger *zap.Logger

	mu     sync.Mutex
	userID string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// New validates cfg and returns a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if raw == "" {
		return nil, errors.New("supabase url is not configured")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse supabase url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("supabase url %q must include scheme and host", raw)
	}
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	c := &Client{
		cfg:    cfg,
		base:   base,
		http:   &http.Client{Timeout: 60 * time.Second},
		logger: zap.NewNop(),
		userID: strings.TrimSpace(cfg.UserID),
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// Bucket returns the storage bucket uploads go to.
func (c *Client) Bucket() string { return c.cfg.Bucket }

// APIError is a non-2xx response from Supabase.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) bearer() string {
	if c.cfg.AccessToken != "" {
		return c.cfg.AccessToken
	}
	return c.cfg.AnonKey
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if c.cfg.AnonKey != "" {
		req.Header.Set("apikey", c.cfg.AnonKey)
	}
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("supabase request",
		zap.String("method", method), zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Code             any    `json:"code"`
	}
	if json.Unmarshal(data, &payload) == nil {
		for _, m := range []string{payload.Message, payload.Msg, payload.ErrorDescription, payload.Error} {
			if m != "" {
				apiErr.Message = m
				break
			}
		}
		if payload.Code != nil {
			apiErr.Code = fmt.Sprint(payload.Code)
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
