package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Object is one stored media item.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Store is the media backend contract.
type Store interface {
	List(ctx context.Context, prefix string) ([]Object, error)
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// StatusError is returned when the media backend answers with a non-2xx code.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("media: backend returned %d", e.Code)
	}
	return fmt.Sprintf("media: backend returned %d: %s", e.Code, e.Message)
}

// HTTPStore talks to the media backend over HTTP:
//
//	GET    {endpoint}/media?prefix=...
//	POST   {endpoint}/media/presign   {"key": ..., "contentType": ...}
//	DELETE {endpoint}/media/{key}
type HTTPStore struct {
	endpoint string
	client   *http.Client
}

// NewHTTPStore builds a client for endpoint. A nil client uses a default with
// a 30 second timeout.
func NewHTTPStore(endpoint string, client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPStore{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
	}
}

func (s *HTTPStore) List(ctx context.Context, prefix string) ([]Object, error) {
	target := s.endpoint + "/media?prefix=" + url.QueryEscape(prefix)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("media: build list request: %w", err)
	}
	var out []Object
	if err := s.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPStore) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	body, err := json.Marshal(map[string]string{"key": key, "contentType": contentType})
	if err != nil {
		return "", fmt.Errorf("media: encode presign request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/media/presign", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("media: build presign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		URL string `json:"url"`
	}
	if err := s.do(req, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New("media: presign response has no url")
	}
	return out.URL, nil
}

func (s *HTTPStore) Delete(ctx context.Context, key string) error {
	target := s.endpoint + "/media/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return fmt.Errorf("media: build delete request: %w", err)
	}
	return s.do(req, nil)
}

func (s *HTTPStore) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("media: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("media: decode response: %w", err)
	}
	return nil
}

// Upload presigns key and PUTs the local file to the returned URL.
func Upload(ctx context.Context, store Store, client *http.Client, key, sourcePath string) error {
	if client == nil {
		client = http.DefaultClient
	}
	file, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("media: open %s: %w", sourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("media: stat %s: %w", sourcePath, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(sourcePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadURL, err := store.PresignUpload(ctx, key, contentType)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return fmt.Errorf("media: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	slog.DebugContext(ctx, "uploading media", "key", key, "size", stat.Size(), "contentType", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("media: upload %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: resp.Status}
	}
	return nil
}

// Chooser presents objects to the admin. ok is false when the admin dismissed
// the picker.
type Chooser func(ctx context.Context, prefix string, objects []Object) (key string, ok bool, err error)

// StorePicker lists objects under the requested prefix and lets a Chooser
// fulfil the picker future.
type StorePicker struct {
	Store  Store
	Choose Chooser
	Logger *slog.Logger
}

// Open starts the picker interaction in the background. Backend or chooser
// failures dismiss the picker rather than fail the editor.
func (p *StorePicker) Open(ctx context.Context, prefix string) *Pending {
	pending := NewPending()
	go func() {
		key, ok, err := p.pick(ctx, prefix)
		if err != nil {
			p.logger().WarnContext(ctx, "media picker dismissed", "prefix", prefix, "error", err)
			pending.Cancel()
			return
		}
		if !ok {
			pending.Cancel()
			return
		}
		pending.Resolve(key)
	}()
	return pending
}

func (p *StorePicker) pick(ctx context.Context, prefix string) (string, bool, error) {
	if p.Store == nil || p.Choose == nil {
		return "", false, errors.New("media: picker is not configured")
	}
	objects, err := p.Store.List(ctx, prefix)
	if err != nil {
		return "", false, err
	}
	return p.Choose(ctx, prefix, objects)
}

func (p *StorePicker) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
