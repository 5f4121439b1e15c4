package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "INDEXNOW"

	DefaultHost     = "easyshopbuilder.com"
	DefaultKey      = "794cea04d66b4d9c9a14f0b03d0f39e7"
	DefaultEndpoint = "https://www.bing.com/indexnow"
	DefaultMaxURLs  = 10000
)

var (
	ErrEmptyHost = errors.New("INDEXNOW_HOST is empty")
	ErrEmptyKey  = errors.New("INDEXNOW_KEY is empty")
)

// Config is resolved once at startup and never modified afterwards.
type Config struct {
	Host        string
	BaseURL     string
	Key         string
	KeyFileName string
	KeyLocation string
	Endpoint    string
	MaxURLs     int
	Skip        bool
	DryRun      bool
	Root        string
	HistoryDB   string // Empty disables the run history
}

// NewViper returns a viper instance bound to the INDEXNOW_* environment
// with the static defaults registered. An explicitly empty variable
// overrides its default so that INDEXNOW_HOST="" is reported, not ignored.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	v.SetDefault("host", DefaultHost)
	v.SetDefault("key", DefaultKey)
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("max_urls", DefaultMaxURLs)
	v.SetDefault("root", ".")
	return v
}

// Load resolves the configuration from v. Dependent values (base URL, key
// file name, key location) are derived from the already resolved ones when
// they are not set explicitly.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Host:      str(v, "host"),
		Key:       str(v, "key"),
		Endpoint:  str(v, "endpoint"),
		Root:      str(v, "root"),
		HistoryDB: str(v, "history_db"),
		Skip:      flag(v, "skip"),
		DryRun:    flag(v, "dry_run"),
	}

	cfg.BaseURL = strings.TrimRight(strOr(v, "base_url", "https://"+cfg.Host), "/")
	cfg.KeyFileName = strings.TrimLeft(strOr(v, "key_path", cfg.Key+".txt"), "/")
	cfg.KeyLocation = strOr(v, "key_location", cfg.BaseURL+"/"+cfg.KeyFileName)

	maxURLs, err := intValue(v, "max_urls")
	if err != nil {
		return Config{}, fmt.Errorf("INDEXNOW_MAX_URLS must be an integer: %w", err)
	}
	if maxURLs <= 0 {
		return Config{}, fmt.Errorf("INDEXNOW_MAX_URLS must be positive, got %d", maxURLs)
	}
	cfg.MaxURLs = maxURLs

	if cfg.Root == "" {
		cfg.Root = "."
	}
	return cfg, nil
}

// Validate reports the first required setting that resolved to empty.
func (c Config) Validate() error {
	if c.Host == "" {
		return ErrEmptyHost
	}
	if c.Key == "" {
		return ErrEmptyKey
	}
	return nil
}

func str(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func strOr(v *viper.Viper, key, fallback string) string {
	if s := str(v, key); s != "" {
		return s
	}
	return fallback
}

// intValue parses strings in base 10 so that "010" is ten, not octal.
// Typed values from a config file go through cast.
func intValue(v *viper.Viper, key string) (int, error) {
	raw := v.Get(key)
	if s, ok := raw.(string); ok {
		return strconv.Atoi(strings.TrimSpace(s))
	}
	return cast.ToIntE(raw)
}

// flag reports whether key is set. Any non-empty string enables it,
// "0" and "false" included; only a typed boolean from a config file can
// turn it off.
func flag(v *viper.Viper, key string) bool {
	raw := v.Get(key)
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return cast.ToBool(raw)
}
