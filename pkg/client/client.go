// Package client talks to the document persistence API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-sections/pkg/section"
)

// Variant selects which stored copy of a site is addressed.
type Variant string

const (
	VariantDraft     Variant = "draft"
	VariantPublished Variant = "published"
)

// ParseVariant accepts draft and published; empty means draft.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantDraft:
		return VariantDraft, nil
	case VariantPublished:
		return VariantPublished, nil
	default:
		return "", fmt.Errorf("client: unknown variant %q", s)
	}
}

// ErrNotFound is matched by StatusError values carrying a 404.
var ErrNotFound = errors.New("client: document not found")

// StatusError is returned for any non-2xx response. Message is the trimmed
// plain-text body.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("client: status %d: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client loads and saves site documents.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) configURL(siteID string, variant Variant) string {
	if variant == "" {
		variant = VariantDraft
	}
	q := url.Values{"variant": []string{string(variant)}}
	return c.baseURL + "/config/" + url.PathEscape(siteID) + "?" + q.Encode()
}

// Load fetches the stored document.
func (c *Client) Load(ctx context.Context, siteID string, variant Variant) (section.SiteConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.configURL(siteID, variant), nil)
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("client: build load request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

// Save PUTs cfg and returns the server's canonical copy.
func (c *Client) Save(ctx context.Context, siteID string, variant Variant, cfg section.SiteConfig) (section.SiteConfig, error) {
	body, err := json.Marshal(cfg)
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("client: encode document: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.configURL(siteID, variant), bytes.NewReader(body))
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("client: build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (section.SiteConfig, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("client: request done",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return section.SiteConfig{}, &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var cfg section.SiteConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return section.SiteConfig{}, fmt.Errorf("client: decode document: %w", err)
	}
	return cfg, nil
}

// Site binds a client to one site and variant.
func (c *Client) Site(siteID string, variant Variant) *Site {
	return &Site{client: c, siteID: siteID, variant: variant}
}

// Site is a client bound to one document. It satisfies the session backend.
type Site struct {
	client  *Client
	siteID  string
	variant Variant
}

// Load fetches the bound document.
func (s *Site) Load(ctx context.Context) (section.SiteConfig, error) {
	return s.client.Load(ctx, s.siteID, s.variant)
}

// Save stores the bound document.
func (s *Site) Save(ctx context.Context, cfg section.SiteConfig) (section.SiteConfig, error) {
	return s.client.Save(ctx, s.siteID, s.variant, cfg)
}
