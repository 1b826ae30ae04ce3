package numerics

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config tunes the dispatcher and the HTTP server.
type Config struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	// MaxIterations caps the maxIter a request may ask for.
	MaxIterations int `yaml:"maxIterations"`
	// MaxMatrixSize bounds N for the linear solvers.
	MaxMatrixSize int `yaml:"maxMatrixSize"`
	// MaxPoints bounds the number of interpolation nodes.
	MaxPoints int `yaml:"maxPoints"`
	// MaxExpressionLength bounds fnString and gString, in bytes.
	MaxExpressionLength int `yaml:"maxExpressionLength"`

	CacheTTL     time.Duration `yaml:"cacheTTL"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

func DefaultConfig() Config {
	return Config{
		Port:                5000,
		LogLevel:            "info",
		MaxIterations:       10000,
		MaxMatrixSize:       7,
		MaxPoints:           8,
		MaxExpressionLength: 4096,
		CacheTTL:            10 * time.Minute,
		ReadTimeout:         15 * time.Second,
		WriteTimeout:        15 * time.Second,
	}
}

// withLimits replaces unusable limits with their defaults.
func (c Config) withLimits() Config {
	def := DefaultConfig()
	if c.MaxIterations < 1 {
		c.MaxIterations = def.MaxIterations
	}
	if c.MaxMatrixSize < 2 {
		c.MaxMatrixSize = def.MaxMatrixSize
	}
	if c.MaxPoints < 2 {
		c.MaxPoints = def.MaxPoints
	}
	if c.MaxExpressionLength < 1 {
		c.MaxExpressionLength = def.MaxExpressionLength
	}
	if c.CacheTTL < 0 {
		c.CacheTTL = def.CacheTTL
	}
	return c
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	d, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err = yaml.Unmarshal(d, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("config: port %d out of range", c.Port)
	case c.MaxIterations < 1:
		return fmt.Errorf("config: maxIterations must be at least 1, got %d", c.MaxIterations)
	case c.MaxMatrixSize < 2:
		return fmt.Errorf("config: maxMatrixSize must be at least 2, got %d", c.MaxMatrixSize)
	case c.MaxPoints < 2:
		return fmt.Errorf("config: maxPoints must be at least 2, got %d", c.MaxPoints)
	case c.MaxExpressionLength < 1:
		return fmt.Errorf("config: maxExpressionLength must be at least 1, got %d", c.MaxExpressionLength)
	case c.CacheTTL < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0:
		return fmt.Errorf("config: durations must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel; empty means info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: logLevel: %w", err)
	}
	return l, nil
}
