package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "DEPTBOARD_"

// Config is the deptboard runtime configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Backend   BackendConfig   `yaml:"backend" toml:"backend"`
	Storage   StorageConfig   `yaml:"storage" toml:"storage"`
	Charts    ChartsConfig    `yaml:"charts" toml:"charts"`
	Assistant AssistantConfig `yaml:"assistant" toml:"assistant"`
	Sidebar   SidebarConfig   `yaml:"sidebar" toml:"sidebar"`
	Log       LogConfig       `yaml:"log" toml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr      string `yaml:"addr" toml:"addr"`
	BasePath  string `yaml:"base_path" toml:"base_path"`
	Transport string `yaml:"transport" toml:"transport"`
	// Resume makes "/" resume the last analysis view.
	Resume bool `yaml:"resume" toml:"resume"`
}

// BackendConfig points at the analysis backend.
type BackendConfig struct {
	URL            string `yaml:"url" toml:"url"`
	APIKey         string `yaml:"api_key" toml:"api_key"`
	ConnectTimeout string `yaml:"connect_timeout" toml:"connect_timeout"`
	Mock           bool   `yaml:"mock" toml:"mock"`
}

// StorageConfig selects where the active department list persists. An empty
// path keeps it in memory.
type StorageConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// ChartsConfig tunes chart rendering.
type ChartsConfig struct {
	Theme      string `yaml:"theme" toml:"theme"`
	CacheTTL   string `yaml:"cache_ttl" toml:"cache_ttl"`
	AssetsHost string `yaml:"assets_host" toml:"assets_host"`
}

// AssistantConfig selects the chat assistant.
type AssistantConfig struct {
	Provider string `yaml:"provider" toml:"provider"`
	APIKey   string `yaml:"api_key" toml:"api_key"`
	Model    string `yaml:"model" toml:"model"`
}

// SidebarConfig extends the sidebar.
type SidebarConfig struct {
	IconManifest string `yaml:"icon_manifest" toml:"icon_manifest"`
}

// LogConfig configures slog.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:      ":8080",
			Transport: "fiber",
		},
		Backend: BackendConfig{
			URL:            "http://localhost:5000/api",
			ConnectTimeout: "5s",
		},
		Charts: ChartsConfig{
			CacheTTL: "5m",
		},
		Assistant: AssistantConfig{
			Provider: "template",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the optional file at path,
// then .env files, then the process environment.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := loadDotEnv(envFiles...); err != nil {
		return Config{}, err
	}
	ApplyEnv(&cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays a YAML or TOML file onto cfg, selected by extension.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse yaml %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse toml %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config: unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: stat %s: %w", f, err)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("config: load env files: %w", err)
	}
	return nil
}

// ApplyEnv overlays DEPTBOARD_* variables read through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(key string, target *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*target = v
		}
	}
	boolean := func(key string, target *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			if parsed, err := strconv.ParseBool(v); err == nil {
				*target = parsed
			}
		}
	}
	str("ADDR", &cfg.Server.Addr)
	str("BASE_PATH", &cfg.Server.BasePath)
	str("TRANSPORT", &cfg.Server.Transport)
	boolean("RESUME", &cfg.Server.Resume)
	str("BACKEND_URL", &cfg.Backend.URL)
	str("BACKEND_API_KEY", &cfg.Backend.APIKey)
	str("BACKEND_CONNECT_TIMEOUT", &cfg.Backend.ConnectTimeout)
	boolean("BACKEND_MOCK", &cfg.Backend.Mock)
	str("STORAGE_PATH", &cfg.Storage.Path)
	str("CHARTS_THEME", &cfg.Charts.Theme)
	str("CHARTS_CACHE_TTL", &cfg.Charts.CacheTTL)
	str("CHARTS_ASSETS_HOST", &cfg.Charts.AssetsHost)
	str("ASSISTANT", &cfg.Assistant.Provider)
	str("ASSISTANT_MODEL", &cfg.Assistant.Model)
	str("ICON_MANIFEST", &cfg.Sidebar.IconManifest)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	if v, ok := lookup("GEMINI_API_KEY"); ok && v != "" && cfg.Assistant.APIKey == "" {
		cfg.Assistant.APIKey = v
	}
}

// Validate checks enumerations and durations.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case "fiber", "stdlib":
	default:
		return fmt.Errorf("config: unknown transport %q", c.Server.Transport)
	}
	switch c.Assistant.Provider {
	case "template", "gemini":
	default:
		return fmt.Errorf("config: unknown assistant %q", c.Assistant.Provider)
	}
	if c.Assistant.Provider == "gemini" && c.Assistant.APIKey == "" {
		return errors.New("config: gemini assistant requires an api key")
	}
	if !c.Backend.Mock && c.Backend.URL == "" {
		return errors.New("config: backend url is required")
	}
	if _, err := c.ConnectTimeout(); err != nil {
		return err
	}
	if _, err := c.ChartCacheTTL(); err != nil {
		return err
	}
	return nil
}

// ConnectTimeout parses Backend.ConnectTimeout; empty means the default.
func (c Config) ConnectTimeout() (time.Duration, error) {
	return parseDuration("backend.connect_timeout", c.Backend.ConnectTimeout)
}

// ChartCacheTTL parses Charts.CacheTTL; empty or zero disables the cache.
func (c Config) ChartCacheTTL() (time.Duration, error) {
	return parseDuration("charts.cache_ttl", c.Charts.CacheTTL)
}

func parseDuration(field, value string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s must not be negative", field)
	}
	return d, nil
}
