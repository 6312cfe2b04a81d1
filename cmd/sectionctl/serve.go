package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sections/internal/watch"
	"github.com/goliatone/go-sections/pkg/client"
	"github.com/goliatone/go-sections/pkg/section"
	"github.com/goliatone/go-sections/pkg/server"
	"github.com/goliatone/go-sections/pkg/session"
	"github.com/goliatone/go-sections/pkg/store"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		addr      string
		seed      string
		watchSeed bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document API and live pages",
		Long: `serve starts the HTTP API (GET/PUT /config/{siteId}), renders live pages at
/sites/{siteId} and publishes the API description at /openapi.json. With --seed the
document is stored as the site's draft when none exists yet; --watch keeps reloading it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if seed != "" {
				a.cfg.Site.Seed = seed
			}
			if watchSeed && a.cfg.Site.Seed == "" {
				return errors.New("--watch needs a seed document (--seed or site.seed)")
			}
			return runServe(cmd, a, watchSeed)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	cmd.Flags().StringVar(&seed, "seed", "", "JSON document to seed the site with")
	cmd.Flags().BoolVarP(&watchSeed, "watch", "w", false, "reload the seed document when it changes")
	return cmd
}

func runServe(cmd *cobra.Command, a *app, watchSeed bool) error {
	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	dispatcher, err := a.dispatcher()
	if err != nil {
		return err
	}

	variant, err := client.ParseVariant(a.cfg.Site.Variant)
	if err != nil {
		return err
	}

	canonical := session.NewCanonical(section.SiteConfig{})
	cancel := canonical.Subscribe(func(cfg section.SiteConfig, version uint64) {
		a.logger.Info("canonical document updated", "site", a.cfg.Site.ID, "version", version, "sections", len(cfg.Sections))
	})
	defer cancel()

	if a.cfg.Site.Seed != "" {
		siteID, err := a.siteID()
		if err != nil {
			return err
		}
		if err := seedStore(ctx, st, siteID, variant, a.cfg.Site.Seed, canonical); err != nil {
			return err
		}
	} else if a.cfg.Site.ID != "" {
		if cfg, err := st.Get(ctx, a.cfg.Site.ID, string(variant)); err == nil {
			canonical.Replace(cfg)
		}
	}

	srv, err := server.New(ctx, st,
		server.WithRenderer(dispatcher),
		server.WithLogger(a.logger),
		server.WithCanonical(a.cfg.Site.ID, variant, canonical),
	)
	if err != nil {
		return err
	}

	if watchSeed {
		siteID := a.cfg.Site.ID
		w := watch.New(a.cfg.Site.Seed, func(ctx context.Context, cfg section.SiteConfig) error {
			stored, err := st.Put(ctx, siteID, string(variant), cfg)
			if err != nil {
				return err
			}
			canonical.Replace(stored)
			return nil
		}, watch.WithLogger(a.logger))
		go func() {
			if err := w.Run(ctx); err != nil {
				a.logger.Error("seed watcher stopped", "error", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("shutdown", "error", err)
		}
	}()

	a.logger.Info("listening", "addr", a.cfg.Server.Addr, "store", a.cfg.Store.Driver)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// seedStore stores the seed document unless the site already has one.
func seedStore(ctx context.Context, st store.Store, siteID string, variant client.Variant, path string, canonical *session.Canonical) error {
	existing, err := st.Get(ctx, siteID, string(variant))
	switch {
	case err == nil:
		canonical.Replace(existing)
		return nil
	case !errors.Is(err, store.ErrNotFound):
		return err
	}
	cfg, err := watch.ReadSeed(path)
	if err != nil {
		return err
	}
	stored, err := st.Put(ctx, siteID, string(variant), cfg)
	if err != nil {
		return fmt.Errorf("seed %s: %w", siteID, err)
	}
	canonical.Replace(stored)
	return nil
}
