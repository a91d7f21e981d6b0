// Package config resolves the settings of the gdrive CLI. Values are layered:
// defaults, then the TOML file, then environment variables. Command-line flags
// are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"

	"github.com/apinprastya/gdrive"
)

const (
	EnvConfig      = "GDRIVE_CONFIG"
	EnvCredentials = "GDRIVE_CREDENTIALS"
	EnvToken       = "GDRIVE_TOKEN"

	defaultConfigPath = "~/.config/gdrive/config.toml"

	// Drive rejects larger page sizes.
	maxPageSize = 1000
)

type Config struct {
	CredentialsFile string `toml:"credentials_file"`
	TokenFile       string `toml:"token_file"`
	PageSize        int64  `toml:"page_size"`
	ChunkSize       int64  `toml:"chunk_size"`
	DownloadDir     string `toml:"download_dir"`
	LogLevel        string `toml:"log_level"`
}

func Default() *Config {
	return &Config{
		CredentialsFile: "credentials.json",
		TokenFile:       "token.json",
		PageSize:        gdrive.DefaultPageSize,
		ChunkSize:       gdrive.DefaultChunkSize,
		LogLevel:        "info",
	}
}

// Load builds the configuration. An explicit path must exist; the default path
// is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		path = defaultConfigPath
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config: expanding %s: %w", path, err)
	}

	_, err = toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		logrus.WithField("path", path).Debug("no config file, using defaults")
	case err != nil:
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	default:
		logrus.WithField("path", path).Debug("config file loaded")
	}

	cfg.applyEnv()
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvCredentials); v != "" {
		c.CredentialsFile = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.TokenFile = v
	}
}

// Normalize expands home-relative paths and validates the numeric settings.
func (c *Config) Normalize() error {
	for _, p := range []*string{&c.CredentialsFile, &c.TokenFile, &c.DownloadDir} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("config: expanding %s: %w", *p, err)
		}
		*p = filepath.Clean(expanded)
	}
	if c.CredentialsFile == "" || c.TokenFile == "" {
		return errors.New("config: credentials_file and token_file must not be empty")
	}
	if c.PageSize <= 0 || c.PageSize > maxPageSize {
		return fmt.Errorf("config: page_size must be between 1 and %d, got %d", maxPageSize, c.PageSize)
	}
	// uploads round smaller or unaligned chunks up, downloads would not
	if c.ChunkSize <= 0 || c.ChunkSize%int64(googleapi.MinUploadChunkSize) != 0 {
		return fmt.Errorf("config: chunk_size must be a positive multiple of %d, got %d",
			googleapi.MinUploadChunkSize, c.ChunkSize)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	return nil
}
