package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	FormatMidjourney      = "midjourney"
	FormatStableDiffusion = "stable-diffusion"

	defaultEndpoint   = "http://localhost:8080"
	defaultAPITimeout = 60 * time.Second
)

// returns client defaults: local relay, sqlite store, dark mode, midjourney, auto-copy
func DefaultClientConfig() ClientConfig {
	dir := configDir()

	return ClientConfig{
		API: APIConfig{
			Endpoint: defaultEndpoint,
			Timeout:  Duration{defaultAPITimeout},
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    filepath.Join(dir, "whb.db"),
		},
		Settings: Settings{
			DarkMode:      true,
			DefaultFormat: FormatMidjourney,
			AutoCopy:      true,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Log: ClientLogConfig{
			File: filepath.Join(dir, "whb.log"),
		},
	}
}

// returns the config file location under the user's config directory
func DefaultClientPath() string {
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "whb-prompts")
}

// reads the client config; a missing file yields defaults
func LoadClient(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("stat config %s: %w", path, err)
	}

	if endpoint := os.Getenv("WHB_API_ENDPOINT"); endpoint != "" {
		cfg.API.Endpoint = endpoint
	}

	if cfg.API.Timeout.Duration <= 0 {
		cfg.API.Timeout = Duration{defaultAPITimeout}
	}

	if cfg.Settings.DefaultFormat != FormatStableDiffusion {
		cfg.Settings.DefaultFormat = FormatMidjourney
	}

	return cfg, nil
}

// writes the client config, creating the directory when needed
func SaveClient(cfg ClientConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return nil
}
