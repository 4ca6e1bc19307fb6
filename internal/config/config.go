package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/mymeals/internal/validation"
)

type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Search SearchConfig `mapstructure:"search"`
	UI     UIConfig     `mapstructure:"ui"`
	Media  MediaConfig  `mapstructure:"media"`
	Keys   KeyConfig    `mapstructure:"keys"`
	Log    LogConfig    `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	DefaultLetter string        `mapstructure:"default_letter"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
}

type SearchConfig struct {
	Debounce     time.Duration `mapstructure:"debounce"`
	FilterEngine string        `mapstructure:"filter_engine"`
}

type UIConfig struct {
	Locale string       `mapstructure:"locale"`
	Colors UIColors     `mapstructure:"colors"`
	Detail DetailConfig `mapstructure:"detail"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type DetailConfig struct {
	WordWrapMaxWidth int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth int `mapstructure:"word_wrap_min_width"`
}

type MediaConfig struct {
	Darwin        MediaPlayers `mapstructure:"darwin"`
	Linux         MediaPlayers `mapstructure:"linux"`
	Windows       MediaPlayers `mapstructure:"windows"`
	DefaultOpener string       `mapstructure:"default_opener"`
}

type MediaPlayers struct {
	Video []string `mapstructure:"video"`
	Image []string `mapstructure:"image"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Refresh   string `mapstructure:"refresh"`
	OpenLinks string `mapstructure:"open_links"`
	Filter    string `mapstructure:"filter"`
	Back      string `mapstructure:"back"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

const (
	FilterEngineBleve = "bleve"
	FilterEngineToken = "token"
)

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	logPath := filepath.Join(homeDir, ".mymeals", "mymeals.log")

	return &Config{
		API: APIConfig{
			BaseURL:       "https://www.themealdb.com/api/json/v1/1",
			DefaultLetter: "a",
			HTTPTimeout:   0,
			UserAgent:     "mymeals/1.0 (https://github.com/pders01/mymeals)",
		},
		Search: SearchConfig{
			Debounce:     300 * time.Millisecond,
			FilterEngine: FilterEngineBleve,
		},
		UI: UIConfig{
			Locale: "en",
			Colors: UIColors{
				Primary:    "#FE6B03",
				Secondary:  "#4ECDC4",
				Accent:     "#FFA86B",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Detail: DetailConfig{
				WordWrapMaxWidth: 100,
				WordWrapMinWidth: 40,
			},
		},
		Media: MediaConfig{
			Darwin: MediaPlayers{
				Video: []string{"iina", "mpv", "vlc"},
				Image: []string{"preview", "open"},
			},
			Linux: MediaPlayers{
				Video: []string{"mpv", "vlc"},
				Image: []string{"sxiv", "feh", "eog", "xdg-open"},
			},
			Windows: MediaPlayers{
				Video: []string{"mpv", "vlc"},
				Image: []string{"explorer"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:      "q",
				Refresh:   "r",
				OpenLinks: "o",
				Filter:    "/",
				Back:      "esc",
			},
		},
		Log: LogConfig{
			Level:      "off",
			File:       logPath,
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "explorer"
	default:
		return "open"
	}
}

// DefaultConfigPath is where Load looks when no explicit path is given and
// where GenerateDefaultConfig writes.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mymeals", "config.toml")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("search", cfg.Search)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("media", cfg.Media)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultConfigPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MYMEALS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the few settings the application cannot run without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	normalized, err := validation.NewAPIURLValidator().ValidateAndNormalize(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	c.API.BaseURL = normalized
	if len([]rune(c.API.DefaultLetter)) != 1 {
		return fmt.Errorf("api.default_letter must be a single letter, got %q", c.API.DefaultLetter)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative")
	}
	switch c.Search.FilterEngine {
	case "", FilterEngineBleve, FilterEngineToken:
	default:
		return fmt.Errorf("search.filter_engine must be %q or %q", FilterEngineBleve, FilterEngineToken)
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings keep the TOML readable
	apiCfg := map[string]interface{}{
		"base_url":       config.API.BaseURL,
		"default_letter": config.API.DefaultLetter,
		"http_timeout":   config.API.HTTPTimeout.String(),
		"user_agent":     config.API.UserAgent,
	}

	searchCfg := map[string]interface{}{
		"debounce":      config.Search.Debounce.String(),
		"filter_engine": config.Search.FilterEngine,
	}

	v.Set("api", apiCfg)
	v.Set("search", searchCfg)
	v.Set("ui", config.UI)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
