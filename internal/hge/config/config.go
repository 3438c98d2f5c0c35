package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/urfave/cli/v2"
)

// Config holds runtime settings for every command.
type Config struct {
	Verbose       bool
	Quiet         bool
	DataDir       string
	Timeout       time.Duration
	MirrorTimeout time.Duration
	SystemsURL    string
	FactionsURL   string
	EDSMServer    string
	Radius        float64
	Limit         int
	MinPopulation int64
	Material      string
	System        string
	Offline       bool
	Force         bool
	NoCache       bool
	Watch         time.Duration
	ProfilePath   string
	// All extends cleanup to the EDDB snapshots and the index.
	All           bool
	DryRun        bool

	// ConfigFileUsed is the TOML file that was applied, if any.
	ConfigFileUsed string
	// FileOverrides lists "section.key=value" pairs taken from the TOML file.
	FileOverrides []string
}

// IsNoCache reports whether response cache reads and writes are disabled.
func (c *Config) IsNoCache() bool {
	if c == nil {
		return false
	}
	return c.NoCache
}

// IsRefresh reports whether cached responses must be revalidated.
func (c *Config) IsRefresh() bool {
	if c == nil {
		return false
	}
	return c.Force
}

// SystemsSnapshotPath returns the systems mirror snapshot location.
func (c *Config) SystemsSnapshotPath() string {
	return filepath.Join(c.DataDir, helpers.StoreSystemsSnapshot)
}

// FactionsSnapshotPath returns the factions mirror snapshot location.
func (c *Config) FactionsSnapshotPath() string {
	return filepath.Join(c.DataDir, helpers.StoreFactionsSnapshot)
}

// IndexSnapshotPath returns the materialized index location.
func (c *Config) IndexSnapshotPath() string {
	return filepath.Join(c.DataDir, helpers.StoreIndexSnapshot)
}

// ValidateSearch checks the settings used by a nearby-systems search.
func (c *Config) ValidateSearch() error {
	if c == nil {
		return helpers.ErrConfigIsNil
	}
	if c.Radius <= 0 || c.Radius > helpers.EDSMMaxRadius {
		return fmt.Errorf("%w: %g", helpers.ErrInvalidRadius, c.Radius)
	}
	if c.Watch != 0 && c.Watch < minWatchInterval {
		return fmt.Errorf("%w: %s (minimum %s)", helpers.ErrInvalidWatchInterval, c.Watch, minWatchInterval)
	}
	return nil
}

const minWatchInterval = 10 * time.Second

// Build builds Config from CLI flags and the optional TOML file.
func Build(c *cli.Context) (*Config, error) {
	cfg := newConfigFromCLI(c)
	applyTimeout(cfg, c)

	fileCfg, filePath, err := loadFileConfigFromCLI(c, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	applyFileConfig(cfg, c, fileCfg, filePath)

	if cfg.Limit < 1 {
		cfg.Limit = helpers.SearchDefaultLimit
	}
	return cfg, nil
}

func newConfigFromCLI(c *cli.Context) *Config {
	cfg := &Config{
		DataDir:       c.String("data-dir"),
		SystemsURL:    c.String("systems-url"),
		FactionsURL:   c.String("factions-url"),
		EDSMServer:    strings.TrimRight(c.String("edsm-server"), "/"),
		Radius:        c.Float64("radius"),
		Limit:         c.Int("limit"),
		MinPopulation: c.Int64("min-population"),
		Material:      strings.TrimSpace(c.String("material")),
		System:        strings.TrimSpace(c.String("system")),
		Offline:       c.Bool("offline"),
		Force:         c.Bool("force"),
		NoCache:       c.Bool("no-cache"),
		Watch:         c.Duration("watch"),
		All:           c.Bool("all"),
		DryRun:        c.Bool("dry-run"),
	}
	cfg.ProfilePath = filepath.Join(cfg.DataDir, helpers.StoreProfile)
	cfg.Verbose = c.Bool("verbose")
	cfg.Quiet = !cfg.Verbose && c.Bool("quiet")
	return cfg
}

func applyTimeout(cfg *Config, c *cli.Context) {
	cfg.Timeout = c.Duration("timeout")
	cfg.Timeout = max(cfg.Timeout, helpers.FetchDefaultTimeout)
	cfg.MirrorTimeout = c.Duration("mirror-timeout")
	if cfg.MirrorTimeout <= 0 {
		cfg.MirrorTimeout = helpers.FetchMirrorTimeout
	}
	cfg.MirrorTimeout = max(cfg.MirrorTimeout, cfg.Timeout)
}

func loadFileConfigFromCLI(c *cli.Context, dataDir string) (fileConfig, string, error) {
	path := c.String("config")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dataDir, helpers.StoreConfig)
	}
	fileCfg, usedPath, err := loadFileConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return fileCfg, "", nil
		}
		return fileCfg, "", fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, usedPath, nil
}

func applyFileConfig(cfg *Config, c *cli.Context, fileCfg fileConfig, filePath string) {
	if filePath == "" {
		return
	}
	cfg.ConfigFileUsed = filePath
	record := func(key string, value any) {
		cfg.FileOverrides = append(cfg.FileOverrides, fmt.Sprintf("%s=%v", key, value))
	}
	if fileCfg.EDDB.SystemsURL != "" && !c.IsSet("systems-url") {
		cfg.SystemsURL = fileCfg.EDDB.SystemsURL
		record("eddb.systems_url", cfg.SystemsURL)
	}
	if fileCfg.EDDB.FactionsURL != "" && !c.IsSet("factions-url") {
		cfg.FactionsURL = fileCfg.EDDB.FactionsURL
		record("eddb.factions_url", cfg.FactionsURL)
	}
	if fileCfg.EDSM.Server != "" && !c.IsSet("edsm-server") {
		cfg.EDSMServer = strings.TrimRight(fileCfg.EDSM.Server, "/")
		record("edsm.server", cfg.EDSMServer)
	}
	if fileCfg.Search.Radius != nil && !c.IsSet("radius") {
		cfg.Radius = *fileCfg.Search.Radius
		record("search.radius", cfg.Radius)
	}
	if fileCfg.Search.Limit != nil && !c.IsSet("limit") {
		cfg.Limit = *fileCfg.Search.Limit
		record("search.limit", cfg.Limit)
	}
	if fileCfg.Search.MinPopulation != nil && !c.IsSet("min-population") {
		cfg.MinPopulation = *fileCfg.Search.MinPopulation
		record("search.min_population", cfg.MinPopulation)
	}
}

/*
go-hge.toml (in the data directory, or --config)

[eddb]
systems_url  = "https://eddb.io/archive/v6/systems_populated.json"
factions_url = "https://eddb.io/archive/v6/factions.json"

[edsm]
server = "https://www.edsm.net"

[search]
radius = 40.0
limit = 10
min_population = 1000000
*/

// eddbFileConfig maps the [eddb] section.
type eddbFileConfig struct {
	SystemsURL  string `toml:"systems_url"`
	FactionsURL string `toml:"factions_url"`
}

// edsmFileConfig maps the [edsm] section.
type edsmFileConfig struct {
	Server string `toml:"server"`
}

// searchFileConfig maps the [search] section.
type searchFileConfig struct {
	Radius        *float64 `toml:"radius"`
	Limit         *int     `toml:"limit"`
	MinPopulation *int64   `toml:"min_population"`
}

// fileConfig represents the parsed go-hge.toml structure.
type fileConfig struct {
	EDDB   eddbFileConfig   `toml:"eddb"`
	EDSM   edsmFileConfig   `toml:"edsm"`
	Search searchFileConfig `toml:"search"`
}

// loadFileConfig loads a TOML config file if it exists.
func loadFileConfig(configPath string) (fileConfig, string, error) {
	config := fileConfig{}
	if _, err := os.Stat(configPath); err != nil {
		return config, "", err
	}
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return config, "", fmt.Errorf("failed parse %s: %w", configPath, err)
	}
	return config, configPath, nil
}
