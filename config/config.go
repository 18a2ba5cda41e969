// Package config holds the settings shared by the CLI and the server.
package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"ormd/connections"
	"ormd/layout"
	"ormd/pathfinding"
	"ormd/render"
)

// Config collects routing, layout, preview and server settings.
type Config struct {
	Gap           float64 `json:"gap"`
	EntrySpacing  float64 `json:"entrySpacing"`
	MaxIterations int     `json:"maxIterations"`
	UseInnerRect  bool    `json:"useInnerRect"`
	Strategy      string  `json:"strategy"`
	// CacheSize bounds the route cache. Zero keeps the default size and a
	// negative value disables caching.
	CacheSize int `json:"cacheSize"`

	LayoutMargin float64 `json:"layoutMargin"`
	PreviewScale float64 `json:"previewScale"`

	Addr string `json:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Gap:           pathfinding.DefaultGap,
		EntrySpacing:  connections.DefaultEntrySpacing,
		MaxIterations: pathfinding.DefaultMaxIterations,
		Strategy:      connections.StrategyAuto.String(),
		CacheSize:     connections.DefaultCacheSize,
		LayoutMargin:  layout.DefaultMargin,
		PreviewScale:  render.DefaultScale,
		Addr:          ":8080",
	}
}

// Load reads a JSON file over the defaults. Fields missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the router cannot work with.
func (c Config) Validate() error {
	if c.Gap <= 0 {
		return errors.Errorf("gap must be positive, got %g", c.Gap)
	}
	if c.MaxIterations <= 0 {
		return errors.Errorf("maxIterations must be positive, got %d", c.MaxIterations)
	}
	if c.EntrySpacing < 0 {
		return errors.Errorf("entrySpacing must not be negative, got %g", c.EntrySpacing)
	}
	if _, err := connections.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	return nil
}

// RouteOptions converts the routing settings for the facade.
func (c Config) RouteOptions() connections.RouteOptions {
	strategy, _ := connections.ParseStrategy(c.Strategy)
	return connections.RouteOptions{Gap: c.Gap, Strategy: strategy}
}

// NewDesignRouter builds a facade configured from c.
func (c Config) NewDesignRouter() *connections.DesignRouter {
	r := connections.NewDesignRouter()
	r.DefaultGap = c.Gap
	r.EntrySpacing = c.EntrySpacing
	r.Settings.MaxIterations = c.MaxIterations
	r.Settings.UseInnerRect = c.UseInnerRect
	if c.CacheSize != 0 && c.CacheSize != connections.DefaultCacheSize {
		r.SetCacheSize(c.CacheSize)
	}
	return r
}
