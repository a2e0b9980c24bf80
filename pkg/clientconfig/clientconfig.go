// Package clientconfig reads and writes the CLI's client settings, a TOML
// file holding the server URL and the CLI token.
package clientconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// PathEnv overrides the client config location
const PathEnv = "ENVAULT_CLIENT_CONFIG"

// TokenPrefix starts every CLI token
const TokenPrefix = "envault_"

var (
	// ErrNotLoggedIn is returned when no client config exists
	ErrNotLoggedIn   = errors.New("not logged in: run `envaultctl login` first")
	ErrInvalidServer = errors.New("server must be an http or https URL")
	ErrInvalidToken  = errors.New("token must be an envault CLI token")
)

type Config struct {
	Server             string `toml:"server"`
	Token              string `toml:"token"`
	DefaultEnvironment string `toml:"default_environment,omitempty"`
}

// DefaultPath is $ENVAULT_CLIENT_CONFIG or <user config dir>/envault/client.toml
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting config directory: %w", err)
	}
	return filepath.Join(dir, "envault", "client.toml"), nil
}

// Validate checks the server URL and the token format
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidServer, c.Server)
	}
	if !strings.HasPrefix(c.Token, TokenPrefix) || len(c.Token) == len(TokenPrefix) {
		return ErrInvalidToken
	}
	return nil
}

// Load reads the config at path. A missing file gives ErrNotLoggedIn.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg.Server = strings.TrimRight(cfg.Server, "/")
	return &cfg, nil
}

// Save writes cfg to path, readable by the owner only
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(cfg)
}

// Clear removes the config. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
