// Package watch reloads a seed document from disk whenever it changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-sections/pkg/section"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc receives every successfully decoded version of the document.
type ReloadFunc func(ctx context.Context, cfg section.SiteConfig) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher follows a single JSON document.
type Watcher struct {
	path     string
	reload   ReloadFunc
	debounce time.Duration
	logger   *slog.Logger
}

// New returns a watcher for path. Nothing happens until Run.
func New(path string, reload ReloadFunc, options ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		reload:   reload,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// ReadSeed reads and decodes a JSON document.
func ReadSeed(path string) (section.SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("watch: read seed: %w", err)
	}
	cfg, err := section.Decode(data)
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("watch: decode seed %s: %w", path, err)
	}
	return cfg, nil
}

// Run blocks until ctx is done. The parent directory is watched so that
// editors replacing the file by rename are still followed. Documents that
// fail to decode are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	if w.reload == nil {
		return errors.New("watch: reload func is required")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching seed document", "path", w.path)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug("seed changed", "path", event.Name, "op", event.Op.String())
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		case <-timer.C:
			w.apply(ctx)
		}
	}
}

func (w *Watcher) apply(ctx context.Context) {
	cfg, err := ReadSeed(w.path)
	if err != nil {
		w.logger.Warn("seed reload skipped", "path", w.path, "error", err)
		return
	}
	if err := w.reload(ctx, cfg); err != nil {
		w.logger.Error("seed reload failed", "path", w.path, "error", err)
		return
	}
	w.logger.Info("seed reloaded", "path", w.path, "sections", len(cfg.Sections))
}
