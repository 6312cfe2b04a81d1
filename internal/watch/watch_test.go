package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-sections/internal/logging"
	"github.com/goliatone/go-sections/pkg/section"
	"github.com/goliatone/go-sections/pkg/session"
)

func TestReadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.json")
	if err := os.WriteFile(path, []byte(`{"sections":[{"type":"hero","id":"hero-1","title":"Hi"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := ReadSeed(path)
	if err != nil {
		t.Fatalf("read seed: %v", err)
	}
	if len(cfg.Sections) != 1 || cfg.Sections[0].(*section.Hero).Title != "Hi" {
		t.Fatalf("unexpected document: %+v", cfg)
	}
	if _, err := ReadSeed(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWatcher_ReloadsIntoCanonical(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.json")
	if err := os.WriteFile(path, []byte(`{"sections":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	canonical := session.NewCanonical(section.SiteConfig{})
	reloaded := make(chan uint64, 4)
	w := New(path, func(_ context.Context, cfg section.SiteConfig) error {
		version := canonical.Replace(cfg)
		select {
		case reloaded <- version:
		default:
		}
		return nil
	}, WithDebounce(20*time.Millisecond), WithLogger(logging.Discard()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	deadline := time.After(5 * time.Second)
	for {
		// Keep rewriting until the watcher is registered and picks it up.
		if err := os.WriteFile(path, []byte(`{"sections":[{"type":"cta","id":"cta-1","title":"Go"}]}`), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-reloaded:
			cfg, _ := canonical.Get()
			if len(cfg.Sections) != 1 || section.ID(cfg.Sections[0]) != "cta-1" {
				t.Fatalf("unexpected canonical document: %+v", cfg)
			}
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatalf("seed change was not picked up")
		}
	}
}
