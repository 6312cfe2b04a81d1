// Package config loads application settings from YAML or TOML files with
// SECTIONS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SECTIONS_"

var (
	// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
	// ErrInvalid wraps validation failures.
	ErrInvalid = errors.New("config: invalid configuration")
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

type Server struct {
	Addr string `yaml:"addr" toml:"addr"`
	// URL is what clients such as the editor use to reach the API. Derived
	// from Addr when empty.
	URL string `yaml:"url" toml:"url"`
}

type Store struct {
	Driver string `yaml:"driver" toml:"driver"`
	Path   string `yaml:"path" toml:"path"`
}

type Media struct {
	BaseURL  string `yaml:"base_url" toml:"base_url"`
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
}

type Site struct {
	ID      string `yaml:"id" toml:"id"`
	Variant string `yaml:"variant" toml:"variant"`
	// Seed is an optional JSON document served until the first save and
	// reloaded by serve --watch.
	Seed string `yaml:"seed" toml:"seed"`
}

type Themes struct {
	Dir     string `yaml:"dir" toml:"dir"`
	Default string `yaml:"default" toml:"default"`
}

type Log struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Config is the full application configuration.
type Config struct {
	Server Server `yaml:"server" toml:"server"`
	Store  Store  `yaml:"store" toml:"store"`
	Media  Media  `yaml:"media" toml:"media"`
	Site   Site   `yaml:"site" toml:"site"`
	Themes Themes `yaml:"themes" toml:"themes"`
	Log    Log    `yaml:"log" toml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{Addr: "127.0.0.1:8080"},
		Store:  Store{Driver: DriverMemory},
		Site:   Site{Variant: "draft"},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// Load reads path (when non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Decode(filepath.Ext(path), data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode unmarshals data into cfg according to the file extension.
func Decode(ext string, data []byte, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ApplyEnv overrides fields from SECTIONS_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for name, field := range c.envFields() {
		if value, ok := lookup(EnvPrefix + name); ok {
			*field = strings.TrimSpace(value)
		}
	}
}

func (c *Config) envFields() map[string]*string {
	return map[string]*string{
		"SERVER_ADDR":    &c.Server.Addr,
		"SERVER_URL":     &c.Server.URL,
		"STORE_DRIVER":   &c.Store.Driver,
		"STORE_PATH":     &c.Store.Path,
		"MEDIA_BASE_URL": &c.Media.BaseURL,
		"MEDIA_ENDPOINT": &c.Media.Endpoint,
		"SITE_ID":        &c.Site.ID,
		"SITE_VARIANT":   &c.Site.Variant,
		"SITE_SEED":      &c.Site.Seed,
		"THEMES_DIR":     &c.Themes.Dir,
		"THEMES_DEFAULT": &c.Themes.Default,
		"LOG_LEVEL":      &c.Log.Level,
		"LOG_FORMAT":     &c.Log.Format,
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			errs = append(errs, errors.New("store.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not one of memory, sqlite", c.Store.Driver))
	}
	switch c.Site.Variant {
	case "", "draft", "published":
	default:
		errs = append(errs, fmt.Errorf("site.variant %q is not one of draft, published", c.Site.Variant))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// ServerURL returns Server.URL, or an http URL built from Server.Addr.
func (c Config) ServerURL() string {
	if c.Server.URL != "" {
		return strings.TrimRight(c.Server.URL, "/")
	}
	addr := c.Server.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	return "http://" + addr
}
