package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/specialistvlad/palletforge/internal/archive"
	"github.com/specialistvlad/palletforge/internal/synth"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StorageFS = "fs"
	StorageS3 = "s3"
)

// Task store backends.
const (
	TasksMemory = "memory"
	TasksRedis  = "redis"
)

// Config holds all the configuration for an App instance.
type Config struct {
	CataloguePath string `yaml:"catalogue"`
	SkeletonPath  string `yaml:"skeleton"`
	TemplatesPath string `yaml:"templates"` // empty uses the built-in templates
	Target        string `yaml:"target"`

	Policy          string `yaml:"policy"`
	StrictOverrides bool   `yaml:"strict_overrides"`
	ArchiveFormat   string `yaml:"archive_format"`

	LogFormat       string `yaml:"log_format"`
	LogLevel        string `yaml:"log_level"`
	HealthcheckPort int    `yaml:"healthcheck_port"`
	WorkerCount     int    `yaml:"workers"`
	QueueSize       int    `yaml:"queue_size"`

	Storage StorageConfig `yaml:"storage"`
	Tasks   TasksConfig   `yaml:"tasks"`
}

// StorageConfig selects where archives are uploaded.
type StorageConfig struct {
	Backend string `yaml:"backend"`

	// Dir is the root of the fs backend.
	Dir string `yaml:"dir"`

	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Prefix   string `yaml:"prefix"`

	URLTTL time.Duration `yaml:"url_ttl"`
}

// TasksConfig selects where task state lives.
type TasksConfig struct {
	Backend string `yaml:"backend"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`

	// Retention drops finished and failed tasks after this long. Zero keeps
	// them for the life of the store.
	Retention time.Duration `yaml:"retention"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		CataloguePath: "catalogue",
		SkeletonPath:  "skeleton",
		Target:        "solochain",
		Policy:        string(synth.PolicyAllOrNothing),
		ArchiveFormat: string(archive.FormatZip),
		LogFormat:     "text",
		LogLevel:      "info",
		WorkerCount:   4,
		QueueSize:     64,
		Storage: StorageConfig{
			Backend: StorageFS,
			Dir:     "artifacts",
			URLTTL:  time.Hour,
		},
		Tasks: TasksConfig{
			Backend:   TasksMemory,
			RedisAddr: "localhost:6379",
		},
	}
}

// LoadConfigFile decodes a YAML file on top of cfg. Unknown keys are errors.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error

	if cfg.CataloguePath == "" {
		errs = append(errs, errors.New("catalogue path is a required configuration field and cannot be empty"))
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel))
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat))
	}
	if _, err := synth.ParsePolicy(cfg.Policy); err != nil {
		errs = append(errs, err)
	}
	switch archive.Format(cfg.ArchiveFormat) {
	case archive.FormatZip, archive.FormatTarZst:
	default:
		errs = append(errs, fmt.Errorf("invalid archive format %q: must be 'zip' or 'tar.zst'", cfg.ArchiveFormat))
	}
	if cfg.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", cfg.WorkerCount))
	}
	if cfg.HealthcheckPort < 0 {
		errs = append(errs, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort))
	}

	switch cfg.Storage.Backend {
	case StorageFS:
		if cfg.Storage.Dir == "" {
			errs = append(errs, errors.New("storage dir is required for the fs backend"))
		}
	case StorageS3:
		if cfg.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid storage backend %q: must be 'fs' or 's3'", cfg.Storage.Backend))
	}

	switch cfg.Tasks.Backend {
	case TasksMemory:
	case TasksRedis:
		if cfg.Tasks.RedisAddr == "" {
			errs = append(errs, errors.New("redis address is required for the redis task backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid task backend %q: must be 'memory' or 'redis'", cfg.Tasks.Backend))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
