package config

import "time"

// relay server configuration, loaded from the environment
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	RefineModel  string
	Port         string
	RedisURL     string
	RateLimit    string
	Environment  string
}

// terminal client configuration, stored as TOML
type ClientConfig struct {
	API      APIConfig       `toml:"api"`
	Store    StoreConfig     `toml:"store"`
	Settings Settings        `toml:"settings"`
	Export   ExportConfig    `toml:"export"`
	Log      ClientLogConfig `toml:"log"`
}

type APIConfig struct {
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

// selects the key-value backend holding user, usage and history records
type StoreConfig struct {
	Backend string `toml:"backend"` // "sqlite", "redis", "postgres" or "memory"
	Path    string `toml:"path"`    // sqlite file
	URL     string `toml:"url"`     // redis or postgres connection string
}

// preferences exposed on the settings screen
type Settings struct {
	DarkMode      bool   `toml:"dark_mode"`
	DefaultFormat string `toml:"default_format"` // "midjourney" or "stable-diffusion"
	AutoCopy      bool   `toml:"auto_copy"`
}

type ExportConfig struct {
	Dir string `toml:"dir"`
}

type ClientLogConfig struct {
	File string `toml:"file"`
}

// wraps time.Duration so it reads as "60s" in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
