package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"quiz-reader/internal/quizfile"
)

// DefaultInputFile is read when neither the config nor the command line names a file.
const DefaultInputFile = "english.txt"

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL       string `yaml:"ttl"`
		Dir       string `yaml:"dir"`
		CacheSize int    `yaml:"cache_size"`
	} `yaml:"quiz"`
	Input struct {
		File              string `yaml:"file"`
		MaxOptions        int    `yaml:"max_options"`
		MaxOptionLength   int    `yaml:"max_option_length"`
		MaxQuestionLength int    `yaml:"max_question_length"`
	} `yaml:"input"`
	Verbose bool `yaml:"verbose"`
}

// Load reads YAML config from path. A missing file yields the defaults;
// unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Config{}
	cfg.Input.File = DefaultInputFile
	cfg.Quiz.Dir = "."

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Limits returns the record limits of the input section; unset values use the defaults.
func (c Config) Limits() quizfile.Limits {
	limits := quizfile.DefaultLimits()
	if c.Input.MaxOptions > 0 {
		limits.MaxOptions = c.Input.MaxOptions
	}
	if c.Input.MaxOptionLength > 0 {
		limits.MaxOptionLength = c.Input.MaxOptionLength
	}
	if c.Input.MaxQuestionLength > 0 {
		limits.MaxQuestionLength = c.Input.MaxQuestionLength
	}
	return limits
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
