// Package config builds the explicit configuration structure every other
// component receives. Nothing outside this package reads the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kestrelmods/cfsync/internal/curse"
)

// DefaultConfigFile is the default TOML configuration path.
const DefaultConfigFile = "cfsync.toml"

// DefaultDownloadDir is where artifacts land when no directory is configured.
const DefaultDownloadDir = "./downloads"

// Config is the effective configuration for one run, assembled once at
// process start and passed by value into each component.
type Config struct {
	APIKey      string `toml:"api_key"`
	ModID       int    `toml:"mod_id"`
	DownloadDir string `toml:"download_dir"`
	GameID      int    `toml:"game_id"`
	ModLoader   string `toml:"mod_loader"`
	GameVersion string `toml:"game_version"`
	LogLevel    string `toml:"log_level"`
}

// Getenv is the environment lookup used by Load. Tests substitute a map.
type Getenv func(key string) string

// envVars maps environment variables onto config fields. CURSEFORGE_API_KEY
// keeps the name the CurseForge console documentation uses.
const (
	envAPIKey      = "CURSEFORGE_API_KEY"
	envModID       = "CFSYNC_MOD_ID"
	envDownloadDir = "CFSYNC_DOWNLOAD_DIR"
	envGameID      = "CFSYNC_GAME_ID"
	envModLoader   = "CFSYNC_MOD_LOADER"
	envGameVersion = "CFSYNC_GAME_VERSION"
	envLogLevel    = "CFSYNC_LOG_LEVEL"
)

// Load assembles the configuration: defaults, then the TOML file at path,
// then environment overrides. A missing file is not an error; flag
// overrides are applied by the CLI after Load. Pass nil getenv to use the
// process environment.
func Load(path string, getenv Getenv) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Config{
		DownloadDir: DefaultDownloadDir,
		GameID:      curse.GameIDMinecraft,
		LogLevel:    "info",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if v := getenv(envAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := getenv(envModID); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s must be a number, got %q", envModID, v)
		}
		cfg.ModID = id
	}
	if v := getenv(envDownloadDir); v != "" {
		cfg.DownloadDir = v
	}
	if v := getenv(envGameID); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s must be a number, got %q", envGameID, v)
		}
		cfg.GameID = id
	}
	if v := getenv(envModLoader); v != "" {
		cfg.ModLoader = v
	}
	if v := getenv(envGameVersion); v != "" {
		cfg.GameVersion = v
	}
	if v := getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a sync pass.
func (c Config) Validate() error {
	var errs []string
	if c.APIKey == "" {
		errs = append(errs, fmt.Sprintf("API key is required (set %s or api_key in %s)", envAPIKey, DefaultConfigFile))
	}
	if c.ModID <= 0 {
		errs = append(errs, "mod ID is required and must be a positive number")
	}
	if c.DownloadDir == "" {
		errs = append(errs, "download directory must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// MaskedAPIKey returns the API key with all but the last four characters
// replaced, for display.
func (c Config) MaskedAPIKey() string {
	if c.APIKey == "" {
		return "(not set)"
	}
	if len(c.APIKey) <= 4 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}
