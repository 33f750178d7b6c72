package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	DB        DBConfig        `koanf:"db"`
	Generator GeneratorConfig `koanf:"generator"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

type DBConfig struct {
	Path string `koanf:"path"`
}

// GeneratorConfig carries the synthesis defaults applied when a generate
// request does not override them.
type GeneratorConfig struct {
	TestName      string `koanf:"test_name"`
	ComponentName string `koanf:"component_name"`
	DescribeLabel string `koanf:"describe_label"`
}

type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Load reads configuration from an optional YAML file at path (skipped when
// empty) with REPLAYGEN_ environment variables taking precedence. A double
// underscore separates nesting levels, so REPLAYGEN_SERVER__PORT maps to
// server.port and REPLAYGEN_GENERATOR__TEST_NAME to generator.test_name.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("server.port", 8080)
	k.Set("server.timeout", "30s")
	k.Set("db.path", "replaygen.db")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("REPLAYGEN_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "REPLAYGEN_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
