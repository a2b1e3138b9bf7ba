package recommender

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultConfigFile is read when no config path is given.
	DefaultConfigFile  = "config.yaml"
	defaultDatasetPath = "yoga_pose_data.csv"

	// EnvPrefix prefixes environment overrides, e.g. YOGA_DATASET_PATH.
	EnvPrefix = "YOGA_"
)

// ImageSearchConfig controls the outbound image search link.
type ImageSearchConfig struct {
	URLTemplate string `koanf:"url_template" validate:"required,contains=%s"`
	Suffix      string `koanf:"suffix"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required"`
	// RateLimit is the number of API requests per minute allowed per client IP. Zero disables it.
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`
}

// Config aggregates runtime settings persisted to config.yaml.
type Config struct {
	DatasetPath     string       `koanf:"dataset_path" validate:"required"`
	DefaultLanguage Language     `koanf:"default_language" validate:"required,oneof=English Hindi Telugu"`
	DefaultFitness  FitnessLevel `koanf:"default_fitness" validate:"required,oneof=Beginner Intermediate Advanced"`
	// CandidateLabels replaces the dataset's pain areas as the resolver vocabulary when set.
	CandidateLabels []string          `koanf:"candidate_labels" validate:"dive,required"`
	ImageSearch     ImageSearchConfig `koanf:"image_search"`
	Logging         LoggingConfig     `koanf:"logging"`
	Server          ServerConfig      `koanf:"server"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		DatasetPath:     defaultDatasetPath,
		DefaultLanguage: English,
		DefaultFitness:  Beginner,
		ImageSearch: ImageSearchConfig{
			URLTemplate: DefaultImageSearchTemplate,
			Suffix:      DefaultImageSearchSuffix,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Server:  ServerConfig{Addr: "127.0.0.1:8080", RateLimit: 120},
	}
}

// ApplyDefaults populates zero values with the defaults.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if strings.TrimSpace(c.DatasetPath) == "" {
		c.DatasetPath = d.DatasetPath
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = d.DefaultLanguage
	}
	if c.DefaultFitness == "" {
		c.DefaultFitness = d.DefaultFitness
	}
	if c.ImageSearch.URLTemplate == "" {
		c.ImageSearch = d.ImageSearch
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// LoadConfig layers defaults, the YAML file at path (config.yaml when empty)
// and YOGA_* environment variables. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("stat config %s: %w", path, err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if err := splitListField(k, "candidate_labels"); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig persists configuration to disk as YAML.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = DefaultConfigFile
	}
	cfg.ApplyDefaults()
	k := koanf.New(".")
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// splitListField turns a comma separated environment value into a list.
func splitListField(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := strings.Split(raw, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	if err := k.Set(path, list); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// envKey maps YOGA_IMAGE_SEARCH_URL_TEMPLATE to image_search.url_template.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"image_search", "logging", "server"} {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}
