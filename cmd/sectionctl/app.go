package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sections/internal/config"
	"github.com/goliatone/go-sections/internal/logging"
	"github.com/goliatone/go-sections/pkg/media"
	"github.com/goliatone/go-sections/pkg/render"
	"github.com/goliatone/go-sections/pkg/store"
	"github.com/goliatone/go-sections/pkg/store/sqlite"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

type globalFlags struct {
	configPath string
	logLevel   string
	site       string
}

func loadApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.site != "" {
		cfg.Site.ID = flags.site
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	cmd.SetContext(logging.WithLogger(contextOf(cmd), logger))
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) siteID() (string, error) {
	if a.cfg.Site.ID == "" {
		return "", errors.New("no site selected: pass --site or set site.id")
	}
	if !store.ValidSiteID(a.cfg.Site.ID) {
		return "", fmt.Errorf("invalid site id %q", a.cfg.Site.ID)
	}
	return a.cfg.Site.ID, nil
}

func (a *app) openStore() (store.Store, error) {
	switch a.cfg.Store.Driver {
	case config.DriverSQLite:
		st, err := sqlite.Open(a.cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("store opened", "driver", a.cfg.Store.Driver, "path", st.Path())
		return st, nil
	default:
		return store.NewMemory(), nil
	}
}

func (a *app) dispatcher() (*render.Dispatcher, error) {
	options := []render.Option{
		render.WithLogger(a.logger),
		render.WithMediaResolver(render.MediaResolverFunc(media.Resolver{BaseURL: a.cfg.Media.BaseURL}.Resolve)),
	}
	if a.cfg.Themes.Dir != "" {
		manifests, err := render.LoadManifests(a.cfg.Themes.Dir)
		if err != nil {
			return nil, err
		}
		selector := render.NewManifestSelector(a.cfg.Themes.Default, manifests...)
		a.logger.Debug("themes loaded", "dir", a.cfg.Themes.Dir, "themes", selector.Names())
		options = append(options, render.WithThemeSelector(selector))
	}
	return render.New(options...)
}

func (a *app) mediaStore() media.Store {
	if a.cfg.Media.Endpoint == "" {
		return nil
	}
	return media.NewHTTPStore(a.cfg.Media.Endpoint, nil)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
