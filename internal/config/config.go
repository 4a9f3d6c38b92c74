// Package config loads the service configuration once at startup: transport
// settings, the trusted reference question list, and the validation flags.
// The resulting Config is passed into each component and never mutated.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/domain"
)

type Config struct {
	ListenAddr     string                     `yaml:"listen_addr"`
	TSAURL         string                     `yaml:"tsa_url"`
	StorageDir     string                     `yaml:"storage_dir"`
	StaticDir      string                     `yaml:"static_dir"`
	CheckQuestions bool                       `yaml:"check_questions"`
	CheckKinds     bool                       `yaml:"check_kinds"`
	MaxAnswers     int                        `yaml:"max_answers"`
	MaxBodyBytes   int64                      `yaml:"max_body_bytes"`
	Questions      []domain.ReferenceQuestion `yaml:"questions"`
}

func Default() Config {
	return Config{
		ListenAddr:   ":8000",
		StorageDir:   "submissions",
		MaxAnswers:   100,
		MaxBodyBytes: 1 << 20,
	}
}

// Load reads the YAML config at path (optional: an empty path keeps the
// defaults) and then applies environment overrides, so deployments can tweak
// single settings without editing the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TSA_URL"); v != "" {
		cfg.TSAURL = v
	}
	if v := os.Getenv("STORAGE_DIR"); v != "" {
		cfg.StorageDir = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("CHECK_QUESTIONS"); v != "" {
		cfg.CheckQuestions = parseBool(v, cfg.CheckQuestions)
	}
	if v := os.Getenv("CHECK_KINDS"); v != "" {
		cfg.CheckKinds = parseBool(v, cfg.CheckKinds)
	}
	if v := os.Getenv("MAX_ANSWERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxAnswers = n
		}
	}
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxBodyBytes = n
		}
	}
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func validate(cfg Config) error {
	if cfg.MaxAnswers <= 0 {
		return fmt.Errorf("max_answers must be positive, got %d", cfg.MaxAnswers)
	}
	if cfg.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", cfg.MaxBodyBytes)
	}
	if cfg.CheckQuestions && len(cfg.Questions) == 0 {
		return fmt.Errorf("check_questions enabled but no questions configured")
	}
	return nil
}
